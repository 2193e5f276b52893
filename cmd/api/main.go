package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"petstore/internal/config"
	"petstore/internal/handler"
	"petstore/internal/infra/db"
	infraRepo "petstore/internal/infra/repository"
	"petstore/internal/server"
	"petstore/internal/usecase"
	"petstore/internal/usecase/auth"
)

func main() {
	// .env は無くてもよい（本番は環境変数）
	_ = godotenv.Load(".env", "../.env")

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	//金額はJSONで数値として返す
	decimal.MarshalJSONWithoutQuotes = true

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("db migrate", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	petRepo := infraRepo.NewPetGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	discountRepo := infraRepo.NewDiscountGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//bcrypt（会員登録：Hash / ログイン：Verify）
	clock := auth.SystemClock{}
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, clock)
	logoutUC := auth.NewLogoutUsecase(userRepo)
	meUC := auth.NewMeUsecase(userRepo)

	petUC := usecase.NewPetUsecase(petRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, petRepo)
	discountUC := usecase.NewDiscountUsecase(discountRepo)
	orderUC := usecase.NewOrderUsecase(txm, usecase.NewOrderNumberGenerator(cfg.OrderNumberStrategy), log.Named("order"))
	adminOrderUC := usecase.NewAdminOrderUsecase(txm)
	addressUC := usecase.NewAddressUsecase(addressRepo)

	//Handler生成
	e := server.New(cfg, log)
	server.RegisterRoutes(e, cfg, userRepo, server.Handlers{
		Auth:       handler.NewAuthHandler(registerUC, loginUC, logoutUC, meUC),
		Pet:        handler.NewPetHandler(petUC),
		Cart:       handler.NewCartHandler(cartUC, discountUC),
		Order:      handler.NewOrderHandler(orderUC),
		Discount:   handler.NewDiscountHandler(discountUC),
		Address:    handler.NewAddressHandler(addressUC),
		AdminOrder: handler.NewAdminOrderHandler(adminOrderUC),
	})

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx, e, addr, log); err != nil {
		log.Fatal("server", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsDev() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
