package auth

import "errors"

var (
	// 入力が不正
	ErrInvalidUsername  = errors.New("invalid username")
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrWeakPassword     = errors.New("weak password")

	// 競合
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// ユーザー名またはパスワードが違う
	ErrInvalidCredentials = errors.New("invalid credentials")
	// 停止済みユーザー
	ErrUserInactive = errors.New("user is inactive")

	// リフレッシュトークンが無い・期限切れ
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// 使用済みトークンの再利用（全セッション破棄済み）
	ErrRefreshTokenReused = errors.New("refresh token reused")

	// 設定変更で現在のパスワードが違う
	ErrWrongCurrentPassword = errors.New("current password is wrong")
)
