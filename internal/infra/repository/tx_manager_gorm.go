package repository

import (
	"context"

	repo "bookex/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	books     repo.BookRepository
	cartLines repo.CartLineRepository
	returns   repo.BookReturnRepository
	rates     repo.RateRepository
	comments  repo.CommentRepository
	favorites repo.FavoriteRepository
	auditLogs repo.AuditLogRepository
}

func (r *txReposGorm) Books() repo.BookRepository         { return r.books }
func (r *txReposGorm) CartLines() repo.CartLineRepository { return r.cartLines }
func (r *txReposGorm) Returns() repo.BookReturnRepository { return r.returns }
func (r *txReposGorm) Rates() repo.RateRepository         { return r.rates }
func (r *txReposGorm) Comments() repo.CommentRepository   { return r.comments }
func (r *txReposGorm) Favorites() repo.FavoriteRepository { return r.favorites }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			books:     NewBookGormRepository(tx),
			cartLines: NewCartLineGormRepository(tx),
			returns:   NewBookReturnGormRepository(tx),
			rates:     NewRateGormRepository(tx),
			comments:  NewCommentGormRepository(tx),
			favorites: NewFavoriteGormRepository(tx),
			auditLogs: NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
