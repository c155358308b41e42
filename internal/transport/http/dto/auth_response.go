package dto

import (
	"time"

	"github.com/baechuer/commerce-api/internal/application/auth"
	"github.com/baechuer/commerce-api/internal/domain"
)

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewTokenResponse(b auth.TokenBundle) TokenResponse {
	return TokenResponse{
		Token:     b.Token,
		Email:     b.Email,
		Name:      b.Name,
		ExpiresAt: b.ExpiresAt.UTC(),
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

// UserView never carries the hash or reset fields.
type UserView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserView(u domain.User) UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.UTC(),
	}
}
