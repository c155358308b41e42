package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/commerce-api/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	nextID  int64
	byID    map[int64]domain.User
	byEmail map[string]int64

	// injected errors (if set, method returns error)
	getByIDErr    error
	getByEmailErr error
	getByResetErr error
	createErr     error
	setHashErr    error
	setResetErr   error

	// record calls
	creates   int
	setHashes []struct {
		id   int64
		hash string
	}
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[int64]domain.User{},
		byEmail: map[string]int64{},
	}
}

// seed stores u directly, bypassing Create bookkeeping.
func (f *fakeUserRepo) seed(u domain.User) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == 0 {
		f.nextID++
		u.ID = f.nextID
	} else if u.ID > f.nextID {
		f.nextID = u.ID
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u.ID
	return u
}

func (f *fakeUserRepo) get(id int64) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	id, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return f.byID[id], nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByIDErr != nil {
		return domain.User{}, f.getByIDErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) GetByResetToken(ctx context.Context, digest string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByResetErr != nil {
		return domain.User{}, f.getByResetErr
	}
	for _, u := range f.byID {
		if u.ResetToken != nil && *u.ResetToken == digest {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creates++
	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if _, dup := f.byEmail[u.Email]; dup {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u.ID
	return u, nil
}

func (f *fakeUserRepo) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setHashErr != nil {
		return f.setHashErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.PasswordHash = hash
	u.ClearReset()
	f.byID[id] = u
	f.setHashes = append(f.setHashes, struct {
		id   int64
		hash string
	}{id, hash})
	return nil
}

func (f *fakeUserRepo) SetResetToken(ctx context.Context, id int64, digest string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setResetErr != nil {
		return f.setResetErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound()
	}
	d, exp := digest, expiresAt
	u.ResetToken = &d
	u.ResetTokenExpiry = &exp
	f.byID[id] = u
	return nil
}

func (f *fakeUserRepo) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type fakeHasher struct {
	hashFn   func(pw string) (string, error)
	verifyFn func(pw, hash string) bool

	mu       sync.Mutex
	verifies int
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(password)
	}
	return "hash:" + password, nil
}

func (h *fakeHasher) Verify(password, hash string) bool {
	h.mu.Lock()
	h.verifies++
	h.mu.Unlock()
	if h.verifyFn != nil {
		return h.verifyFn(password, hash)
	}
	return hash == "hash:"+password
}

func (h *fakeHasher) verifyCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.verifies
}

type fakeSigner struct {
	signFn func(c AccessClaims, issuedAt time.Time, ttl time.Duration) (string, error)

	mu   sync.Mutex
	last struct {
		claims   AccessClaims
		issuedAt time.Time
		ttl      time.Duration
	}
}

func (s *fakeSigner) SignAccessToken(c AccessClaims, issuedAt time.Time, ttl time.Duration) (string, error) {
	s.mu.Lock()
	s.last.claims, s.last.issuedAt, s.last.ttl = c, issuedAt, ttl
	s.mu.Unlock()
	if s.signFn != nil {
		return s.signFn(c, issuedAt, ttl)
	}
	return fmt.Sprintf("jwt(%d,%s)", c.UserID, c.Email), nil
}

func (s *fakeSigner) VerifyAccessToken(token string) (TokenClaims, error) {
	return TokenClaims{}, nil
}

type fakeResets struct {
	next    string
	genErr  error
	counter int
}

func (r *fakeResets) Generate() (string, error) {
	if r.genErr != nil {
		return "", r.genErr
	}
	if r.next != "" {
		return r.next, nil
	}
	r.counter++
	return fmt.Sprintf("reset-%d", r.counter), nil
}

func (r *fakeResets) Digest(token string) string {
	return "digest:" + token
}

type fakeNotifier struct {
	mu  sync.Mutex
	err error

	// block, when set, holds each publish until it is closed
	block chan struct{}

	events  []PasswordResetEvent
	ctxErrs []error
}

func (n *fakeNotifier) PublishPasswordReset(ctx context.Context, evt PasswordResetEvent) error {
	if n.block != nil {
		select {
		case <-n.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, evt)
	n.ctxErrs = append(n.ctxErrs, ctx.Err())
	return n.err
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

var errBoom = errors.New("boom")

// fixed clock for deterministic expiry assertions
var testNow = time.Date(2025, 3, 14, 15, 9, 26, 535_000_000, time.UTC)

/*
Factory
*/

func newSvcForTest(t *testing.T) (*Service, *fakeUserRepo, *fakeHasher, *fakeSigner, *fakeResets, *fakeNotifier, *[]auditEntry) {
	t.Helper()

	users := newFakeUserRepo()
	hasher := &fakeHasher{}
	signer := &fakeSigner{}
	resets := &fakeResets{}
	notifier := &fakeNotifier{}

	audits := &[]auditEntry{}
	cfg := Config{
		TokenTTL:              60 * time.Minute,
		PasswordResetTokenTTL: time.Hour,
		PasswordResetBaseURL:  "https://fe/reset?token=",
	}

	var mu sync.Mutex
	svc := NewService(users, hasher, signer, resets, notifier, cfg).
		WithClock(func() time.Time { return testNow }).
		WithAudit(func(_ context.Context, action string, fields map[string]string) {
			cp := map[string]string{}
			for k, v := range fields {
				cp[k] = v
			}
			mu.Lock()
			*audits = append(*audits, auditEntry{action: action, fields: cp})
			mu.Unlock()
		})

	if svc == nil {
		t.Fatalf("svc is nil")
	}
	t.Cleanup(svc.WaitNotifications)

	return svc, users, hasher, signer, resets, notifier, audits
}

func hasAudit(audits *[]auditEntry, action string) bool {
	for _, a := range *audits {
		if a.action == action {
			return true
		}
	}
	return false
}
