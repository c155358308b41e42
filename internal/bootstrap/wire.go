package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"sync"

	"github.com/baechuer/commerce-api/internal/application/auth"
	"github.com/baechuer/commerce-api/internal/application/catalog"
	"github.com/baechuer/commerce-api/internal/audit"
	"github.com/baechuer/commerce-api/internal/config"
	"github.com/baechuer/commerce-api/internal/infrastructure/db/migrations"
	"github.com/baechuer/commerce-api/internal/infrastructure/db/postgres"
	"github.com/baechuer/commerce-api/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/commerce-api/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/commerce-api/internal/infrastructure/redis"
	"github.com/baechuer/commerce-api/internal/infrastructure/security"
	"github.com/baechuer/commerce-api/internal/jobs"
	"github.com/baechuer/commerce-api/internal/logger"
	http_handlers "github.com/baechuer/commerce-api/internal/transport/http/handlers"
	"github.com/baechuer/commerce-api/internal/transport/http/middleware"
	"github.com/baechuer/commerce-api/internal/transport/http/response"
	"github.com/baechuer/commerce-api/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB   func(addr string, debug bool) (*sql.DB, error)
	Migrate func(ctx context.Context, db *sql.DB) error

	NewRedis func(addr, password string, db int) *redis.Client

	NewPublisher func(url, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

// Publisher delivers reset tokens. Implementations may also be io.Closer.
type Publisher interface {
	auth.ResetNotifier
}

type storage struct {
	users      auth.UserRepo
	categories catalog.CategoryRepo
	customers  catalog.CustomerRepo
	products   catalog.ProductRepo
	orders     catalog.OrderRepo
	db         *sql.DB
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()
	fail := func(err error) (*http.Server, func(), error) {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 1) storage: postgres when configured, in-memory otherwise (dev only)
	store, err := openStorage(deps, cfg)
	if err != nil {
		return nil, nil, err
	}
	if store.db != nil {
		cleanupFns = append(cleanupFns, func() { _ = store.db.Close() })
	}

	// 2) redis (best-effort)
	var redisCli *redis.Client
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := c.Ping(context.Background()); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; rate limiting disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 3) publisher
	var pub Publisher = memory.NewNoopPublisher()
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		switch {
		case err == nil:
			pub = p
		case cfg.Env == "dev":
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		default:
			return fail(err)
		}
	}
	if c, ok := pub.(interface{ Close() error }); ok {
		cleanupFns = append(cleanupFns, func() { _ = c.Close() })
	}

	// 4) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer, err := security.NewJWTSigner(security.JWTConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	})
	if err != nil {
		return fail(err)
	}

	// seed (dev only; a real database also needs SEED_USERS=true)
	if seedEnabled(cfg, store.db != nil) {
		postgres.SeedUsers(context.Background(), store.users, hasher)
	}

	// 5) services
	authSvc := auth.NewService(
		store.users,
		hasher,
		signer,
		security.NewResetTokens(),
		pub,
		auth.Config{
			TokenTTL:              cfg.TokenTTL,
			PasswordResetTokenTTL: cfg.PasswordResetTokenTTL,
			PasswordResetBaseURL:  cfg.PasswordResetBaseURL,
			EmailCaseInsensitive:  cfg.EmailCaseInsensitive,
		},
	).WithAudit(audit.New(logger.Logger).Record)
	cleanupFns = append(cleanupFns, authSvc.WaitNotifications)

	catalogSvc := catalog.NewService(store.categories, store.customers, store.products, store.orders)

	// 6) background jobs
	sweeper := jobs.NewResetTokenSweeper(store.users)
	if err := sweeper.Start(cfg.ResetSweepSchedule); err != nil {
		return fail(err)
	}
	cleanupFns = append(cleanupFns, func() { sweeper.Stop(context.Background()) })

	// 7) handlers + middleware
	checks := map[string]http_handlers.Pinger{}
	if store.db != nil {
		checks["db"] = http_handlers.PingFunc(store.db.PingContext)
	}
	if redisCli != nil {
		checks["redis"] = redisCli
	}

	var limiter middleware.RateLimiter
	if redisCli != nil {
		limiter = redis.NewFixedWindowLimiter(redisCli)
	}

	// 8) router
	mux, err := deps.NewRouter(router.Deps{
		Health:  http_handlers.NewHealthHandler(checks),
		Auth:    http_handlers.NewAuthHandler(authSvc),
		Catalog: http_handlers.NewCatalogHandler(catalogSvc),

		AuthMW: middleware.Auth(signer, response.WriteError),

		Limiter:    limiter,
		RateLimits: router.DefaultRateLimits(),

		TrustProxyHeaders:  cfg.TrustProxyHeaders,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		return fail(err)
	}

	// 9) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() { runCleanup(cleanupFns) })
	}

	return srv, cleanup, nil
}

func openStorage(deps Deps, cfg *config.Config) (storage, error) {
	if cfg.DBAddr == "" {
		logger.Logger.Warn().Msg("DB_ADDR not set; using in-memory storage")
		customers := memory.NewCustomerRepo()
		return storage{
			users:      memory.NewUserRepo(),
			categories: memory.NewCategoryRepo(),
			customers:  customers,
			products:   memory.NewProductRepo(),
			orders:     memory.NewOrderRepo(customers),
		}, nil
	}

	db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		return storage{}, err
	}
	if deps.Migrate != nil {
		if err := deps.Migrate(context.Background(), db); err != nil {
			_ = db.Close()
			return storage{}, err
		}
	}

	return storage{
		users:      postgres.NewUserRepo(db),
		categories: postgres.NewCategoryRepo(db),
		customers:  postgres.NewCustomerRepo(db),
		products:   postgres.NewProductRepo(db),
		orders:     postgres.NewOrderRepo(db),
		db:         db,
	}, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		Migrate:    migrations.Up,
		NewRedis:   redis.New,
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func seedEnabled(cfg *config.Config, persistent bool) bool {
	if cfg.Env != "dev" {
		return false
	}
	return !persistent || cfg.SeedUsers
}

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
