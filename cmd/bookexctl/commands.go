package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookex/internal/config"
	"bookex/internal/domain/model"
	"bookex/internal/infra/db"
	infraRepo "bookex/internal/infra/repository"
	"bookex/internal/repository"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// 運用用CLI（マイグレーション・グループ管理・監査ログ）
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "bookexctl",
		Short:        "bookex operator tool",
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd(), newGroupsCmd(), newAuditCmd())
	return root
}

// 環境変数の設定でDBに繋ぐ
func openDB(ctx context.Context) (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return db.Connect(ctx, cfg)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create tables and seed groups / menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			if err := db.Migrate(cmd.Context(), gdb); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrated")
			return nil
		},
	}
}

func newGroupsCmd() *cobra.Command {
	groups := &cobra.Command{
		Use:   "groups",
		Short: "manage Publisher / Writer group membership",
	}

	groups.AddCommand(
		&cobra.Command{
			Use:   "add <username> <group>",
			Short: "add a user to a group",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withUser(cmd, args[0], func(users repository.UserRepository, u *model.User) error {
					if err := users.AddToGroup(cmd.Context(), u.ID, args[1]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s\n", u.Username, args[1])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove <username> <group>",
			Short: "remove a user from a group",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withUser(cmd, args[0], func(users repository.UserRepository, u *model.User) error {
					if err := users.RemoveFromGroup(cmd.Context(), u.ID, args[1]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "removed %s from %s\n", u.Username, args[1])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list <username>",
			Short: "list the groups of a user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withUser(cmd, args[0], func(users repository.UserRepository, u *model.User) error {
					names, err := users.ListGroupNames(cmd.Context(), u.ID)
					if err != nil {
						return err
					}
					for _, n := range names {
						fmt.Fprintln(cmd.OutOrStdout(), n)
					}
					return nil
				})
			},
		},
	)
	return groups
}

func withUser(cmd *cobra.Command, username string, fn func(repository.UserRepository, *model.User) error) error {
	gdb, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	users := infraRepo.NewUserGormRepository(gdb)

	u, err := users.FindByUsername(cmd.Context(), username)
	if errors.Is(err, repository.ErrNotFound) {
		return errors.Errorf("user %q not found", username)
	}
	if err != nil {
		return err
	}
	return fn(users, u)
}

func newAuditCmd() *cobra.Command {
	audit := &cobra.Command{
		Use:   "audit",
		Short: "inspect audit logs",
	}

	var (
		actor  int64
		action string
		since  time.Duration
		limit  int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "print audit logs as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := openDB(cmd.Context())
			if err != nil {
				return err
			}

			filter := repository.AuditLogFilter{Limit: limit}
			if actor > 0 {
				filter.ActorUserID = &actor
			}
			if action != "" {
				a := model.AuditAction(action)
				filter.Action = &a
			}
			if since > 0 {
				from := time.Now().Add(-since)
				filter.CreatedFrom = &from
			}

			logs, err := infraRepo.NewAuditLogGormRepository(gdb).List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, l := range logs {
				if err := enc.Encode(l); err != nil {
					return err
				}
			}
			return nil
		},
	}
	list.Flags().Int64Var(&actor, "actor", 0, "actor user id")
	list.Flags().StringVar(&action, "action", "", "CREATE_BOOK, UPDATE_BOOK, DELETE_BOOK, RETURN_BOOK or CHECKOUT")
	list.Flags().DurationVar(&since, "since", 0, "only logs newer than this (e.g. 24h)")
	list.Flags().IntVar(&limit, "limit", 50, "max rows")

	audit.AddCommand(list)
	return audit
}
