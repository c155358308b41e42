package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/commerce-api/internal/application/auth"
	"github.com/baechuer/commerce-api/internal/application/catalog"
	"github.com/baechuer/commerce-api/internal/infrastructure/memory"
	"github.com/baechuer/commerce-api/internal/infrastructure/security"
	"github.com/baechuer/commerce-api/internal/transport/http/middleware"
	"github.com/baechuer/commerce-api/internal/transport/http/response"
)

// captureNotifier keeps the last reset event so tests can replay the token.
type captureNotifier struct {
	mu   sync.Mutex
	last auth.PasswordResetEvent
	n    int
}

func (c *captureNotifier) PublishPasswordReset(_ context.Context, evt auth.PasswordResetEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = evt
	c.n++
	return nil
}

type testApp struct {
	handler  http.Handler
	users    *memory.UserRepo
	auth     *auth.Service
	notifier *captureNotifier
}

// sent waits for background reset notifications and returns the count and
// the most recent event.
func (a *testApp) sent() (int, auth.PasswordResetEvent) {
	a.auth.WaitNotifications()
	a.notifier.mu.Lock()
	defer a.notifier.mu.Unlock()
	return a.notifier.n, a.notifier.last
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	signer, err := security.NewJWTSigner(security.JWTConfig{
		Secret:   "test-secret-test-secret-test-secret",
		Issuer:   "commerce-api",
		Audience: "commerce-api",
	})
	if err != nil {
		t.Fatalf("signer: %v", err)
	}

	users := memory.NewUserRepo()
	notifier := &captureNotifier{}
	authSvc := auth.NewService(users, security.NewBcryptHasher(bcrypt.MinCost), signer,
		security.NewResetTokens(), notifier, auth.Config{
			TokenTTL:              time.Hour,
			PasswordResetTokenTTL: time.Hour,
			PasswordResetBaseURL:  "https://shop.test/reset?token=",
		})

	customers := memory.NewCustomerRepo()
	catSvc := catalog.NewService(memory.NewCategoryRepo(), customers, memory.NewProductRepo(), memory.NewOrderRepo(customers))

	ah := NewAuthHandler(authSvc)
	ch := NewCatalogHandler(catSvc)
	authMW := middleware.Auth(signer, response.WriteError)

	r := chi.NewRouter()
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", ah.Register)
		r.Post("/login", ah.Login)
		r.Post("/forgot-password", ah.ForgotPassword)
		r.Post("/reset-password", ah.ResetPassword)
		r.With(authMW).Post("/change-password", ah.ChangePassword)
		r.With(authMW).Get("/me", ah.Me)
	})
	r.Route("/api", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/categories", ch.ListCategories)
		r.Post("/categories", ch.CreateCategory)
		r.Get("/categories/{id}", ch.GetCategory)
		r.Put("/categories/{id}", ch.UpdateCategory)
		r.Delete("/categories/{id}", ch.DeleteCategory)
		r.Get("/customers", ch.ListCustomers)
		r.Post("/customers", ch.CreateCustomer)
		r.Get("/customers/{id}", ch.GetCustomer)
		r.Put("/customers/{id}", ch.UpdateCustomer)
		r.Delete("/customers/{id}", ch.DeleteCustomer)
		r.Get("/products", ch.ListProducts)
		r.Post("/products", ch.CreateProduct)
		r.Get("/products/{id}", ch.GetProduct)
		r.Put("/products/{id}", ch.UpdateProduct)
		r.Delete("/products/{id}", ch.DeleteProduct)
		r.Get("/orders", ch.ListOrders)
		r.Post("/orders", ch.CreateOrder)
		r.Get("/orders/{id}", ch.GetOrder)
		r.Put("/orders/{id}", ch.UpdateOrder)
		r.Delete("/orders/{id}", ch.DeleteOrder)
	})

	return &testApp{handler: r, users: users, auth: authSvc, notifier: notifier}
}

// do sends a JSON request; token may be empty.
func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			rd = bytes.NewBufferString(s)
		} else {
			rd = mustJSONBody(t, body)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

// register creates a user and returns its bearer token.
func (a *testApp) register(t *testing.T, name, email, password string) string {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: status=%d body=%s", rr.Code, rr.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	mustReadJSON(t, rr.Body, &out)
	return out.Token
}

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadJSON decodes {"data": ...} into out.
func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	wrapped := struct {
		Data json.RawMessage `json:"data"`
	}{}
	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil || len(wrapped.Data) == 0 {
		t.Fatalf("decode json failed; body=%s", string(raw))
	}
	if err := json.Unmarshal(wrapped.Data, out); err != nil {
		t.Fatalf("decode data failed; body=%s err=%v", string(raw), err)
	}
}

// errCode extracts error.code from an error envelope.
func errCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body response.ErrorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v; body=%s", err, rr.Body.String())
	}
	return body.Error.Code
}
