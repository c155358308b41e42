package middleware

import "context"

type ctxKey string

const ctxIdentity ctxKey = "identity"

// Identity is the authenticated caller, taken from verified token claims.
type Identity struct {
	UserID int64
	Email  string
	Name   string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(ctxIdentity).(Identity)
	return v, ok && v.UserID > 0
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := IdentityFromContext(ctx)
	return id.UserID, ok
}
