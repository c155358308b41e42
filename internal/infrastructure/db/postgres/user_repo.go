package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/baechuer/commerce-api/internal/domain"
)

// UserRepo implements auth.UserRepo on PostgreSQL.
// Emails are stored exactly as given; normalization belongs to the service.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) queryOne(ctx context.Context, q string, args ...any) (domain.User, error) {
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

// ---------- auth.UserRepo ----------

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1;`
	return r.queryOne(ctx, q, email)
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1;`
	return r.queryOne(ctx, q, id)
}

func (r *UserRepo) GetByResetToken(ctx context.Context, digest string) (domain.User, error) {
	if digest == "" {
		return domain.User{}, domain.ErrUserNotFound()
	}
	const q = `SELECT ` + userColumns + ` FROM users WHERE reset_token = $1 LIMIT 1;`
	return r.queryOne(ctx, q, digest)
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	const q = `
INSERT INTO users (name, email, password_hash, is_active, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + userColumns + `;`

	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q,
		u.Name, u.Email, u.PasswordHash, u.IsActive, u.CreatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	if hash == "" {
		return domain.ErrMissingField("password_hash")
	}

	const q = `
UPDATE users
SET password_hash = $2,
    reset_token = NULL,
    reset_token_expiry = NULL
WHERE id = $1;
`
	return r.execOne(ctx, q, id, hash)
}

func (r *UserRepo) SetResetToken(ctx context.Context, id int64, digest string, expiresAt time.Time) error {
	if digest == "" {
		return domain.ErrMissingField("reset_token")
	}

	const q = `
UPDATE users
SET reset_token = $2,
    reset_token_expiry = $3
WHERE id = $1;
`
	return r.execOne(ctx, q, id, digest, expiresAt)
}

func (r *UserRepo) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	const q = `
UPDATE users
SET reset_token = NULL,
    reset_token_expiry = NULL
WHERE reset_token_expiry IS NOT NULL
  AND reset_token_expiry <= $1;
`
	res, err := r.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *UserRepo) execOne(ctx context.Context, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}
