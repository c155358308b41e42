package postgres

import (
	"database/sql"
	"time"

	"github.com/baechuer/commerce-api/internal/domain"
)

type userRow struct {
	ID               int64
	Name             string
	Email            string
	PasswordHash     string
	IsActive         bool
	CreatedAt        time.Time
	ResetToken       sql.NullString
	ResetTokenExpiry sql.NullTime
}

const userColumns = `id, name, email, password_hash, is_active, created_at, reset_token, reset_token_expiry`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(row rowScanner) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Name,
		&ur.Email,
		&ur.PasswordHash,
		&ur.IsActive,
		&ur.CreatedAt,
		&ur.ResetToken,
		&ur.ResetTokenExpiry,
	)
	return ur, err
}

func toDomainUser(ur userRow) domain.User {
	u := domain.User{
		ID:           ur.ID,
		Name:         ur.Name,
		Email:        ur.Email,
		PasswordHash: ur.PasswordHash,
		IsActive:     ur.IsActive,
		CreatedAt:    ur.CreatedAt,
	}
	// the table CHECK keeps the pair together; mirror it on read
	if ur.ResetToken.Valid && ur.ResetTokenExpiry.Valid {
		tok, exp := ur.ResetToken.String, ur.ResetTokenExpiry.Time
		u.ResetToken = &tok
		u.ResetTokenExpiry = &exp
	}
	return u
}
