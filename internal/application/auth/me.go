package auth

import (
	"context"

	"github.com/baechuer/commerce-api/internal/domain"
)

func (s *Service) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
