package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"bookex/internal/config"
	"bookex/internal/handler"
	"bookex/internal/infra/db"
	infraRepo "bookex/internal/infra/repository"
	"bookex/internal/infra/storage"
	"bookex/internal/server"
	"bookex/internal/usecase"
	auth "bookex/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// .envは無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(newLogger(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(ctx, gormDB); err != nil {
		return err
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)
	bookRepo := infraRepo.NewBookGormRepository(gormDB)
	cartRepo := infraRepo.NewCartLineGormRepository(gormDB)
	returnRepo := infraRepo.NewBookReturnGormRepository(gormDB)
	rateRepo := infraRepo.NewRateGormRepository(gormDB)
	commentRepo := infraRepo.NewCommentGormRepository(gormDB)
	favRepo := infraRepo.NewFavoriteGormRepository(gormDB)
	menuRepo := infraRepo.NewMenuGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	images, err := newImageStore(cfg)
	if err != nil {
		return err
	}

	//usecaseに渡す部品
	idGen := auth.UUIDGenerator{}
	clock := auth.RealClock{}
	hasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTTL)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher)
	loginUC := auth.NewLoginUsecase(userRepo, rtRepo, verifier, issuer, idGen, clock, cfg.RefreshTTL)
	sessionUC := auth.NewSessionUsecase(userRepo, rtRepo, issuer, idGen, clock, cfg.RefreshTTL)
	settingsUC := auth.NewSettingsUsecase(userRepo, hasher, verifier, rtRepo)

	bookUC := usecase.NewBookUsecase(bookRepo, rateRepo, commentRepo, favRepo, menuRepo, txm, images)
	cartUC := usecase.NewCartUsecase(cartRepo, bookRepo, txm)
	returnUC := usecase.NewReturnUsecase(bookRepo, cartRepo, returnRepo, txm)
	libraryUC := usecase.NewLibraryUsecase(bookRepo, cartRepo, returnRepo, favRepo)
	feedbackUC := usecase.NewFeedbackUsecase(bookRepo, rateRepo, commentRepo)
	accessUC := usecase.NewAccessUsecase(userRepo)

	//Handler生成
	h := server.Handlers{
		Auth:     handler.NewAuthHandler(registerUC, loginUC, sessionUC, settingsUC, cfg.RefreshTTL, cfg.CookieSecure),
		Book:     handler.NewBookHandler(bookUC),
		Cart:     handler.NewCartHandler(cartUC),
		Return:   handler.NewReturnHandler(returnUC),
		Library:  handler.NewLibraryHandler(libraryUC),
		Feedback: handler.NewFeedbackHandler(feedbackUC),
	}

	//Server起動
	e := server.New(cfg, userRepo, accessUC, h)
	return server.Run(ctx, e, cfg.Addr())
}

// CLOUDINARY_URLがあればCloudinary、無ければローカルディスク
func newImageStore(cfg config.Config) (usecase.ImageStore, error) {
	if cfg.CloudinaryURL != "" {
		slog.Info("image store", "kind", "cloudinary")
		return storage.NewCloudinaryStore(cfg.CloudinaryURL)
	}
	slog.Info("image store", "kind", "local", "dir", cfg.UploadDir)
	return storage.NewLocalStore(cfg.UploadDir)
}

func newLogger(level string) *slog.Logger {
	var lv slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lv}))
}
