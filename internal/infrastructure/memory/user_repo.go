package memory

import (
	"context"
	"sync"
	"time"

	"github.com/baechuer/commerce-api/internal/domain"
)

// UserRepo is the dev/test stand-in for the postgres repo. Email uniqueness
// is enforced under the write lock, matching the table's UNIQUE constraint.
type UserRepo struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]domain.User
	byEmail map[string]int64 // email -> userID
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[int64]domain.User),
		byEmail: make(map[string]int64),
	}
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return cloneUser(u), nil
}

func (r *UserRepo) GetByResetToken(ctx context.Context, digest string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if digest == "" {
		return domain.User{}, domain.ErrUserNotFound()
	}
	for _, u := range r.byID {
		if u.ResetToken != nil && *u.ResetToken == digest {
			return cloneUser(u), nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if _, exists := r.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	r.nextID++
	u.ID = r.nextID
	u.ClearReset()
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return cloneUser(u), nil
}

func (r *UserRepo) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.PasswordHash = hash
	u.ClearReset()
	r.byID[id] = u
	return nil
}

func (r *UserRepo) SetResetToken(ctx context.Context, id int64, digest string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.ResetToken = &digest
	u.ResetTokenExpiry = &expiresAt
	r.byID[id] = u
	return nil
}

func (r *UserRepo) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, u := range r.byID {
		if u.ResetTokenExpiry != nil && !now.Before(*u.ResetTokenExpiry) {
			u.ClearReset()
			r.byID[id] = u
			n++
		}
	}
	return n, nil
}

// cloneUser detaches the reset pointers from the stored record.
func cloneUser(u domain.User) domain.User {
	if u.ResetToken != nil {
		tok := *u.ResetToken
		u.ResetToken = &tok
	}
	if u.ResetTokenExpiry != nil {
		exp := *u.ResetTokenExpiry
		u.ResetTokenExpiry = &exp
	}
	return u
}
