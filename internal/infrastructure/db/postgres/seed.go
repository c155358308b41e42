package postgres

import (
	"context"
	"time"

	"github.com/baechuer/commerce-api/internal/domain"
	"github.com/baechuer/commerce-api/internal/logger"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

// SeedUsers creates development accounts. Safe to call on every start:
// duplicates are ignored. Works against any UserRepo, in-memory included.
func SeedUsers(ctx context.Context, repo SeederRepo, hasher SeederHasher) int {
	type seedUser struct {
		Name  string
		Email string
		Pass  string
	}

	seeds := []seedUser{
		{Name: "Admin", Email: "admin@example.com", Pass: "AdminPassword123!"},
		{Name: "Demo User", Email: "user@example.com", Pass: "UserPassword123!"},
	}

	created := 0
	for _, s := range seeds {
		hash, err := hasher.Hash(s.Pass)
		if err != nil {
			logger.Logger.Warn().Err(err).Str("email", s.Email).Msg("seed: hash failed")
			continue
		}

		_, err = repo.Create(ctx, domain.User{
			Name:         s.Name,
			Email:        s.Email,
			PasswordHash: hash,
			IsActive:     true,
			CreatedAt:    time.Now().UTC(),
		})
		if err != nil {
			// ignore duplicates (restart safe)
			continue
		}
		created++
	}

	logger.Logger.Info().Int("created", created).Msg("seed: users seeded")
	return created
}
