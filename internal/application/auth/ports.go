package auth

import (
	"context"
	"time"

	"github.com/baechuer/commerce-api/internal/domain"
)

/*
UserRepo
--------
Persistence port for credential records.
Only describes WHAT the auth service needs, not HOW it's stored.

Lookups return domain.ErrUserNotFound when nothing matches. Create must map a
storage uniqueness violation on email to domain.ErrEmailAlreadyExists; that
mapping is the authoritative duplicate guard under concurrent registration.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByResetToken(ctx context.Context, digest string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// SetPasswordHash replaces the hash and clears the reset pair in one write.
	SetPasswordHash(ctx context.Context, id int64, hash string) error
	SetResetToken(ctx context.Context, id int64, digest string, expiresAt time.Time) error
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt. Verify never fails loudly: a malformed hash is a mismatch.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

/*
TokenSigner
-----------
Issues and verifies access tokens (JWT).
Used by the service (sign) and the auth middleware (verify).
*/
type AccessClaims struct {
	UserID int64
	Email  string
	Name   string
}

type TokenClaims struct {
	UserID    int64
	Email     string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenSigner interface {
	SignAccessToken(c AccessClaims, issuedAt time.Time, ttl time.Duration) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)
}

/*
ResetTokenGenerator
-------------------
Opaque single-use reset tokens. Only Digest(token) is ever persisted.
*/
type ResetTokenGenerator interface {
	Generate() (string, error)
	Digest(token string) string
}

/*
ResetNotifier
-------------
Hands a freshly issued reset token to whatever delivers it (RabbitMQ in prod,
a no-op in dev). The auth service never sends email itself.
*/
type ResetNotifier interface {
	PublishPasswordReset(ctx context.Context, evt PasswordResetEvent) error
}

type PasswordResetEvent struct {
	UserID    int64
	Email     string
	Name      string
	Token     string
	URL       string
	ExpiresAt time.Time
}
