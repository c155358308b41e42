package auth

import (
	"context"

	"github.com/baechuer/commerce-api/internal/domain"
)

// LoginOutcome is either LoginSucceeded or LoginRejected.
type LoginOutcome interface {
	loginOutcome()
}

type LoginSucceeded struct {
	Bundle TokenBundle
}

// LoginRejected carries no detail. Unknown email, inactive account and wrong
// password are indistinguishable to the caller.
type LoginRejected struct{}

func (LoginSucceeded) loginOutcome() {}
func (LoginRejected) loginOutcome()  {}

// Login checks credentials. The error return is reserved for infrastructure
// failures; a bad credential is a LoginRejected outcome.
func (s *Service) Login(ctx context.Context, email, password string) (LoginOutcome, error) {
	email = s.normalizeEmail(email)
	if email == "" || password == "" {
		s.burnVerify(password)
		s.audit(ctx, "login_rejected", map[string]string{"email": email, "reason": "empty"})
		return LoginRejected{}, nil
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !domain.Is(err, "user_not_found") {
			return nil, err
		}
		s.burnVerify(password)
		s.audit(ctx, "login_rejected", map[string]string{"email": email, "reason": "unknown_email"})
		return LoginRejected{}, nil
	}

	ok := s.hasher.Verify(password, u.PasswordHash)
	if !u.IsActive {
		s.audit(ctx, "login_rejected", map[string]string{"email": email, "reason": "inactive"})
		return LoginRejected{}, nil
	}
	if !ok {
		s.audit(ctx, "login_rejected", map[string]string{"email": email, "reason": "bad_password"})
		return LoginRejected{}, nil
	}

	bundle, err := s.issueBundle(u)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, "login_succeeded", map[string]string{
		"user_id": idString(u.ID),
		"email":   u.Email,
	})
	return LoginSucceeded{Bundle: bundle}, nil
}
