package auth

import (
	"context"

	"github.com/baechuer/commerce-api/internal/domain"
	"github.com/baechuer/commerce-api/internal/logger"
)

// ForgotPassword issues a reset token for a known email and hands it to the
// notifier. Unknown emails are a silent no-op so callers can always answer
// with the same message.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = s.normalizeEmail(email)
	if email == "" {
		return nil
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return nil
		}
		return err
	}

	token, err := s.resets.Generate()
	if err != nil {
		return domain.ErrRandomFailed(err)
	}
	expiresAt := s.now().UTC().Add(s.passwordResetTTL)

	if err := s.users.SetResetToken(ctx, u.ID, s.resets.Digest(token), expiresAt); err != nil {
		return err
	}

	s.audit(ctx, "password_reset_requested", map[string]string{
		"user_id": idString(u.ID),
		"email":   u.Email,
	})

	evt := PasswordResetEvent{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if s.passwordResetBaseURL != "" {
		evt.URL = s.passwordResetBaseURL + token
	}
	s.notifyReset(ctx, evt)
	return nil
}

// notifyReset publishes in the background so a known email answers as fast
// as an unknown one. The request context only contributes its values.
func (s *Service) notifyReset(ctx context.Context, evt PasswordResetEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)

	s.notifying.Add(1)
	go func() {
		defer s.notifying.Done()
		defer cancel()

		if err := s.notifier.PublishPasswordReset(ctx, evt); err != nil {
			// the token is stored; delivery can be retried by asking again
			logger.WithCtx(ctx).Warn().Err(err).Int64("user_id", evt.UserID).Msg("password reset notification failed")
		}
	}()
}

// ChangePassword replaces the password of an authenticated user after
// checking the current one. No new token is issued.
func (s *Service) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if newPassword == "" {
		return domain.ErrMissingField("new_password")
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(currentPassword, u.PasswordHash) {
		return domain.ErrIncorrectPassword()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return wrapUnlessDomain(err, domain.ErrHashFailed)
	}

	if err := s.users.SetPasswordHash(ctx, u.ID, hash); err != nil {
		return err
	}

	s.audit(ctx, "password_changed", map[string]string{"user_id": idString(u.ID)})
	return nil
}

// ResetPassword consumes a reset token issued by ForgotPassword.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return domain.ErrResetTokenInvalid()
	}
	if newPassword == "" {
		return domain.ErrMissingField("new_password")
	}

	u, err := s.users.GetByResetToken(ctx, s.resets.Digest(token))
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return domain.ErrResetTokenInvalid()
		}
		return err
	}

	if !u.HasPendingReset(s.now()) {
		return domain.ErrResetTokenExpired()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return wrapUnlessDomain(err, domain.ErrHashFailed)
	}

	if err := s.users.SetPasswordHash(ctx, u.ID, hash); err != nil {
		return err
	}

	s.audit(ctx, "password_reset_completed", map[string]string{"user_id": idString(u.ID)})
	return nil
}
