package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/baechuer/commerce-api/internal/domain"
)

type Config struct {
	//App
	Env string // dev / staging / prod
	// SeedUsers allows demo accounts in a real database (dev only).
	SeedUsers bool
	//HTTP
	HTTPAddr           string
	CORSAllowedOrigins []string
	TrustProxyHeaders  bool

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	//Auth / Security
	JWTSecret            string
	JWTIssuer            string
	JWTAudience          string
	TokenTTL             time.Duration
	BcryptCost           int
	EmailCaseInsensitive bool

	// Password reset
	PasswordResetBaseURL  string
	PasswordResetTokenTTL time.Duration
	ResetSweepSchedule    string

	// Infrastructure
	DBAddr         string
	DBDebug        bool
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RabbitURL      string
	RabbitExchange string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real env vars win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, domain.ErrConfigMissing("JWT_SECRET")
	}
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "commerce-api")
	cfg.JWTAudience = getEnv("JWT_AUDIENCE", "commerce-api")

	mins, err := getInt("JWT_EXPIRY_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	if mins <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRY_MINUTES must be positive, got %d", mins)
	}
	cfg.TokenTTL = time.Duration(mins) * time.Minute

	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 12); err != nil {
		return nil, err
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST must be within 4..31, got %d", cfg.BcryptCost)
	}

	if cfg.EmailCaseInsensitive, err = getBool("EMAIL_CASE_INSENSITIVE", false); err != nil {
		return nil, err
	}

	// Reset link sent by the notifier. Must end with `token=` because the
	// service appends the token.
	cfg.PasswordResetBaseURL = os.Getenv("PASSWORD_RESET_BASE_URL")
	if cfg.PasswordResetBaseURL != "" && !strings.HasSuffix(cfg.PasswordResetBaseURL, "token=") {
		return nil, fmt.Errorf("PASSWORD_RESET_BASE_URL must end with `token=`")
	}
	if cfg.PasswordResetTokenTTL, err = getDuration("PASSWORD_RESET_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	cfg.ResetSweepSchedule = getEnv("RESET_SWEEP_SCHEDULE", "@every 15m")

	// Infrastructure dependencies.
	// Outside dev the service refuses to start without a database or broker;
	// dev falls back to in-memory stores and a no-op publisher.
	cfg.DBAddr = os.Getenv("DB_ADDR")
	if cfg.DBAddr == "" && cfg.Env != "dev" {
		return nil, fmt.Errorf("missing required env var: DB_ADDR")
	}
	if cfg.DBAddr != "" && !strings.HasPrefix(cfg.DBAddr, "postgres://") && !strings.HasPrefix(cfg.DBAddr, "postgresql://") {
		return nil, fmt.Errorf("DB_ADDR must be a postgres URL")
	}
	if cfg.DBDebug, err = getBool("DB_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.SeedUsers, err = getBool("SEED_USERS", false); err != nil {
		return nil, err
	}

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	cfg.RabbitURL = os.Getenv("RABBIT_URL")
	if cfg.RabbitURL == "" && cfg.Env != "dev" {
		return nil, fmt.Errorf("missing required env var: RABBIT_URL")
	}
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", "commerce.events")

	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	if cfg.TrustProxyHeaders, err = getBool("TRUST_PROXY_HEADERS", false); err != nil {
		return nil, err
	}

	//Timeout values are optional and have a default value if not
	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q: %w", key, v, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %q: %w", key, v, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
