package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5433）

	JWTSecret string // JWT署名シークレット
	JWTTTL    time.Duration

	GoEnv     string // dev/prod
	APIDomain string // APIドメイン
	FEURL     string // フロントURL（CORSで使う）

	OrderNumberStrategy string // uuid / sequential / time
}

func (c Config) IsDev() bool { return c.GoEnv == "dev" }

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := mustAtoi("POSTGRES_PORT")
	if err != nil {
		return Config{}, err
	}
	ttl, err := durationOr("JWT_TTL", 15*time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: os.Getenv("PORT"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     pgPort,

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    ttl,

		GoEnv:     os.Getenv("GO_ENV"),
		APIDomain: os.Getenv("API_DOMAIN"),
		FEURL:     os.Getenv("FE_URL"),

		OrderNumberStrategy: strings.ToLower(os.Getenv("ORDER_NUMBER_STRATEGY")),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.PostgresUser == "" {
		return Config{}, fmt.Errorf("POSTGRES_USER is required")
	}
	if cfg.PostgresPassword == "" {
		return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if cfg.PostgresDB == "" {
		return Config{}, fmt.Errorf("POSTGRES_DB is required")
	}
	if cfg.PostgresHost == "" {
		return Config{}, fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}
	if cfg.FEURL == "" {
		return Config{}, fmt.Errorf("FE_URL is required")
	}

	switch cfg.OrderNumberStrategy {
	case "":
		cfg.OrderNumberStrategy = "uuid"
	case "uuid", "sequential", "time":
	default:
		return Config{}, fmt.Errorf("ORDER_NUMBER_STRATEGY must be uuid, sequential or time")
	}

	return cfg, nil
}

// StorefrontConfig はCLI側の設定
type StorefrontConfig struct {
	APIURL     string
	APITimeout time.Duration

	PaymentTickInterval time.Duration
	PaymentTicks        int
}

// LoadStorefront は未設定ならデフォルトを使う
func LoadStorefront() (StorefrontConfig, error) {
	cfg := StorefrontConfig{
		APIURL: os.Getenv("STORE_API_URL"),
	}
	if cfg.APIURL == "" {
		cfg.APIURL = "http://localhost:8080"
	}

	var err error
	if cfg.APITimeout, err = durationOr("STORE_API_TIMEOUT", 10*time.Second); err != nil {
		return StorefrontConfig{}, err
	}
	if cfg.PaymentTickInterval, err = durationOr("PAYMENT_TICK_INTERVAL", time.Second); err != nil {
		return StorefrontConfig{}, err
	}

	cfg.PaymentTicks = 15
	if os.Getenv("PAYMENT_TICKS") != "" {
		n, err := mustAtoi("PAYMENT_TICKS")
		if err != nil {
			return StorefrontConfig{}, err
		}
		if n <= 0 {
			return StorefrontConfig{}, fmt.Errorf("PAYMENT_TICKS must be positive")
		}
		cfg.PaymentTicks = n
	}

	return cfg, nil
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}
