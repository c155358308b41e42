package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/baechuer/commerce-api/internal/domain"
)

type Service struct {
	users    UserRepo
	hasher   PasswordHasher
	signer   TokenSigner
	resets   ResetTokenGenerator
	notifier ResetNotifier

	tokenTTL             time.Duration
	passwordResetTTL     time.Duration
	passwordResetBaseURL string // e.g. https://frontend/reset-password?token=
	emailCaseInsensitive bool

	audit AuditFunc
	now   func() time.Time

	notifyTimeout time.Duration
	notifying     sync.WaitGroup

	dummyOnce sync.Once
	dummyHash string
}

// AuditFunc receives business events. Fields never contain secrets.
type AuditFunc func(ctx context.Context, action string, fields map[string]string)

// Reset notifications run detached from the request and get their own deadline.
const defaultNotifyTimeout = 5 * time.Second

type Config struct {
	TokenTTL              time.Duration
	PasswordResetTokenTTL time.Duration
	PasswordResetBaseURL  string
	EmailCaseInsensitive  bool
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	signer TokenSigner,
	resets ResetTokenGenerator,
	notifier ResetNotifier,
	cfg Config,
) *Service {
	tokenTTL := cfg.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = 60 * time.Minute
	}
	resetTTL := cfg.PasswordResetTokenTTL
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &Service{
		users:    users,
		hasher:   hasher,
		signer:   signer,
		resets:   resets,
		notifier: notifier,

		tokenTTL:             tokenTTL,
		passwordResetTTL:     resetTTL,
		passwordResetBaseURL: cfg.PasswordResetBaseURL,
		emailCaseInsensitive: cfg.EmailCaseInsensitive,

		audit: func(context.Context, string, map[string]string) {},
		now:   time.Now,

		notifyTimeout: defaultNotifyTimeout,
	}
}

func (s *Service) WithAudit(fn AuditFunc) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// TokenBundle is what a successful Register or Login hands back.
// ExpiresAt equals the exp claim inside Token.
type TokenBundle struct {
	Token     string
	Email     string
	Name      string
	ExpiresAt time.Time
}

func (s *Service) issueBundle(u domain.User) (TokenBundle, error) {
	// JWT NumericDate has second precision.
	issuedAt := s.now().UTC().Truncate(time.Second)

	tok, err := s.signer.SignAccessToken(AccessClaims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
	}, issuedAt, s.tokenTTL)
	if err != nil {
		return TokenBundle{}, wrapUnlessDomain(err, domain.ErrTokenSignFailed)
	}

	return TokenBundle{
		Token:     tok,
		Email:     u.Email,
		Name:      u.Name,
		ExpiresAt: issuedAt.Add(s.tokenTTL),
	}, nil
}

func (s *Service) normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if s.emailCaseInsensitive {
		email = strings.ToLower(email)
	}
	return email
}

// burnVerify spends one hash comparison so that unknown-email logins cost
// roughly the same as wrong-password logins.
func (s *Service) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("dummy-password-for-timing")
		if err == nil {
			s.dummyHash = h
		}
	})
	if s.dummyHash != "" {
		_ = s.hasher.Verify(password, s.dummyHash)
	}
}

// WaitNotifications blocks until every reset notification started by
// ForgotPassword has finished.
func (s *Service) WaitNotifications() {
	s.notifying.Wait()
}

// wrapUnlessDomain keeps errors that adapters already classified.
func wrapUnlessDomain(err error, wrap func(error) *domain.Error) error {
	if _, ok := domain.As(err); ok {
		return err
	}
	return wrap(err)
}
