package auth

import (
	"context"
	"errors"
	"time"

	"bookex/internal/repository"
)

type RefreshOutput struct {
	Token JwtAccessToken `json:"token"`
}

type RefreshSideEffect struct {
	PlainRefreshToken string
}

// リフレッシュトークンのローテーションとログアウト
type SessionUsecase struct {
	userRepo   repository.UserRepository
	rtRepo     repository.RefreshTokenRepository
	issuer     AccessTokenIssuer
	idGen      IDGenerator
	clock      Clock
	refreshTTL time.Duration
}

func NewSessionUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	refreshTTL time.Duration,
) *SessionUsecase {
	return &SessionUsecase{
		userRepo:   userRepo,
		rtRepo:     rtRepo,
		issuer:     issuer,
		idGen:      idGen,
		clock:      clock,
		refreshTTL: refreshTTL,
	}
}

// 古いトークンを使用済みにして新しいトークンを発行する。
// 使用済みトークンが来たらそのユーザーの全トークンを消す。
func (u *SessionUsecase) Refresh(ctx context.Context, plainRefresh string, userAgent string) (RefreshOutput, RefreshSideEffect, error) {
	var out RefreshOutput
	var side RefreshSideEffect

	if plainRefresh == "" {
		return out, side, ErrInvalidRefreshToken
	}

	//DB照合
	rt, err := u.rtRepo.FindByTokenHash(ctx, hashToken(plainRefresh))
	if errors.Is(err, repository.ErrRefreshTokenNotFound) {
		return out, side, ErrInvalidRefreshToken
	}
	if err != nil {
		return out, side, err
	}

	now := u.clock.Now()

	//used済みが来たら replay → 全削除
	if rt.UsedAt != nil {
		if err := u.rtRepo.DeleteAllByUserID(ctx, rt.UserID); err != nil {
			return out, side, err
		}
		return out, side, ErrRefreshTokenReused
	}
	//revoked / 期限切れ
	if rt.RevokedAt != nil || !rt.ExpiresAt.After(now) {
		_ = u.rtRepo.DeleteByID(ctx, rt.ID)
		return out, side, ErrInvalidRefreshToken
	}

	//user取得
	user, err := u.userRepo.FindByID(ctx, rt.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return out, side, ErrInvalidRefreshToken
	}
	if err != nil {
		return out, side, err
	}
	if !user.IsActive {
		return out, side, ErrUserInactive
	}

	//旧tokenをusedにする（同時に2回来たら片方は0件更新になる）
	if err := u.rtRepo.MarkUsed(ctx, rt.ID, now); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
			return out, side, ErrRefreshTokenReused
		}
		return out, side, err
	}

	//新tokenを作って保存
	plain, err := newRefreshToken(ctx, u.rtRepo, u.idGen, user.ID, userAgent, now, u.refreshTTL)
	if err != nil {
		return out, side, err
	}

	//access再発行
	accessToken, accessExp, err := u.issuer.Issue(user.ID, user.TokenVersion, now)
	if err != nil {
		return out, side, err
	}

	out.Token = JwtAccessToken{
		AccessToken:  accessToken,
		ExpiresIn:    int(accessExp.Sub(now).Seconds()),
		TokenVersion: user.TokenVersion,
	}
	side.PlainRefreshToken = plain
	return out, side, nil
}

// トークンが無い・見つからない場合も成功扱い
func (u *SessionUsecase) Logout(ctx context.Context, plainRefresh string) error {
	if plainRefresh == "" {
		return nil
	}

	rt, err := u.rtRepo.FindByTokenHash(ctx, hashToken(plainRefresh))
	if errors.Is(err, repository.ErrRefreshTokenNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := u.rtRepo.DeleteByID(ctx, rt.ID); err != nil && !errors.Is(err, repository.ErrRefreshTokenNotFound) {
		return err
	}
	return nil
}
