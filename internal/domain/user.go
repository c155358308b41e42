package domain

import "time"

// User is the persisted credential record.
//
// ResetToken holds the SHA-256 digest of an issued reset token, never the
// token itself. ResetToken and ResetTokenExpiry are set and cleared together.
type User struct {
	ID               int64
	Name             string
	Email            string
	PasswordHash     string
	IsActive         bool
	CreatedAt        time.Time
	ResetToken       *string
	ResetTokenExpiry *time.Time
}

// HasPendingReset reports whether a reset token is outstanding and unexpired at now.
func (u User) HasPendingReset(now time.Time) bool {
	return u.ResetToken != nil && u.ResetTokenExpiry != nil && now.Before(*u.ResetTokenExpiry)
}

// ClearReset drops the reset pair.
func (u *User) ClearReset() {
	u.ResetToken = nil
	u.ResetTokenExpiry = nil
}
