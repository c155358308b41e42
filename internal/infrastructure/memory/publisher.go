package memory

import (
	"context"

	"github.com/baechuer/commerce-api/internal/application/auth"
	"github.com/baechuer/commerce-api/internal/logger"
)

// NoopPublisher logs reset notifications instead of delivering them.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishPasswordReset(ctx context.Context, evt auth.PasswordResetEvent) error {
	// the token is deliberately not logged
	logger.WithCtx(ctx).Info().
		Str("component", "noop-pub").
		Int64("user_id", evt.UserID).
		Time("expires_at", evt.ExpiresAt).
		Msg("password reset notification dropped")
	return nil
}
