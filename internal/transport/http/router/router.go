package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/commerce-api/internal/transport/http/docs"
	"github.com/baechuer/commerce-api/internal/transport/http/middleware"
	"github.com/baechuer/commerce-api/internal/transport/http/response"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	ForgotPassword(w http.ResponseWriter, r *http.Request)
	ResetPassword(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type CatalogHandler interface {
	ListCategories(w http.ResponseWriter, r *http.Request)
	GetCategory(w http.ResponseWriter, r *http.Request)
	CreateCategory(w http.ResponseWriter, r *http.Request)
	UpdateCategory(w http.ResponseWriter, r *http.Request)
	DeleteCategory(w http.ResponseWriter, r *http.Request)

	ListCustomers(w http.ResponseWriter, r *http.Request)
	GetCustomer(w http.ResponseWriter, r *http.Request)
	CreateCustomer(w http.ResponseWriter, r *http.Request)
	UpdateCustomer(w http.ResponseWriter, r *http.Request)
	DeleteCustomer(w http.ResponseWriter, r *http.Request)

	ListProducts(w http.ResponseWriter, r *http.Request)
	GetProduct(w http.ResponseWriter, r *http.Request)
	CreateProduct(w http.ResponseWriter, r *http.Request)
	UpdateProduct(w http.ResponseWriter, r *http.Request)
	DeleteProduct(w http.ResponseWriter, r *http.Request)

	ListOrders(w http.ResponseWriter, r *http.Request)
	GetOrder(w http.ResponseWriter, r *http.Request)
	CreateOrder(w http.ResponseWriter, r *http.Request)
	UpdateOrder(w http.ResponseWriter, r *http.Request)
	DeleteOrder(w http.ResponseWriter, r *http.Request)
}

// RateLimits caps the unauthenticated auth endpoints. A zero Limit disables
// throttling for that route.
type RateLimits struct {
	Register middleware.FixedWindowConfig
	Login    middleware.FixedWindowConfig
	Forgot   middleware.FixedWindowConfig
	Reset    middleware.FixedWindowConfig
}

func DefaultRateLimits() RateLimits {
	return RateLimits{
		Register: middleware.FixedWindowConfig{RouteKey: "register", Limit: 10, Window: time.Hour},
		Login:    middleware.FixedWindowConfig{RouteKey: "login", Limit: 20, Window: time.Minute},
		Forgot:   middleware.FixedWindowConfig{RouteKey: "forgot_password", Limit: 5, Window: 15 * time.Minute},
		Reset:    middleware.FixedWindowConfig{RouteKey: "reset_password", Limit: 10, Window: 15 * time.Minute},
	}
}

type Deps struct {
	Health  HealthHandler
	Auth    AuthHandler
	Catalog CatalogHandler

	AuthMW func(http.Handler) http.Handler

	// Limiter may be nil (no redis); requests then pass unthrottled.
	Limiter    middleware.RateLimiter
	RateLimits RateLimits
	// TrustProxyHeaders lets the limiter key clients by X-Forwarded-For.
	TrustProxyHeaders bool

	CORSAllowedOrigins []string
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("nil Catalog handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}

	origins := deps.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	limit := func(cfg middleware.FixedWindowConfig) func(http.Handler) http.Handler {
		if deps.Limiter == nil || cfg.Limit <= 0 {
			return func(next http.Handler) http.Handler { return next }
		}
		cfg.TrustForwardedFor = deps.TrustProxyHeaders
		return middleware.RateLimitFixedWindow(deps.Limiter, cfg, response.WriteError)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer(response.WriteError))
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusNotFound, response.ErrorBody{Error: response.ErrorPayload{
			Code:      "route_not_found",
			Message:   "route not found",
			RequestID: response.RequestIDFromContext(r),
		}})
	})

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/openapi.json", docs.OpenAPIHandler)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(limit(deps.RateLimits.Register)).Post("/register", deps.Auth.Register)
		r.With(limit(deps.RateLimits.Login)).Post("/login", deps.Auth.Login)
		r.With(limit(deps.RateLimits.Forgot)).Post("/forgot-password", deps.Auth.ForgotPassword)
		r.With(limit(deps.RateLimits.Reset)).Post("/reset-password", deps.Auth.ResetPassword)

		r.With(deps.AuthMW).Post("/change-password", deps.Auth.ChangePassword)
		r.With(deps.AuthMW).Get("/me", deps.Auth.Me)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(deps.AuthMW)

		c := deps.Catalog
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", c.ListCategories)
			r.Post("/", c.CreateCategory)
			r.Get("/{id}", c.GetCategory)
			r.Put("/{id}", c.UpdateCategory)
			r.Delete("/{id}", c.DeleteCategory)
		})
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", c.ListCustomers)
			r.Post("/", c.CreateCustomer)
			r.Get("/{id}", c.GetCustomer)
			r.Put("/{id}", c.UpdateCustomer)
			r.Delete("/{id}", c.DeleteCustomer)
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", c.ListProducts)
			r.Post("/", c.CreateProduct)
			r.Get("/{id}", c.GetProduct)
			r.Put("/{id}", c.UpdateProduct)
			r.Delete("/{id}", c.DeleteProduct)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", c.ListOrders)
			r.Post("/", c.CreateOrder)
			r.Get("/{id}", c.GetOrder)
			r.Put("/{id}", c.UpdateOrder)
			r.Delete("/{id}", c.DeleteOrder)
		})
	})

	return r, nil
}
