package audit

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	appCtx "github.com/baechuer/commerce-api/internal/pkg/context"
)

// Logger provides structured audit logging for credential lifecycle events.
type Logger struct {
	log zerolog.Logger
}

// New creates a new audit logger
func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

var messages = map[string]string{
	"user_registered":          "User registered",
	"login_succeeded":          "User logged in successfully",
	"login_rejected":           "Login attempt rejected",
	"password_changed":         "User password changed",
	"password_reset_requested": "Password reset requested",
	"password_reset_completed": "Password reset completed",
}

// Record writes one audit event. Any "email" field is masked.
// The signature matches auth.AuditFunc.
func (l *Logger) Record(ctx context.Context, action string, fields map[string]string) {
	ev := l.log.Info()
	if action == "login_rejected" {
		ev = l.log.Warn()
	}
	ev = ev.Str("action", action)
	for k, v := range fields {
		if k == "email" {
			v = maskEmail(v)
		}
		ev = ev.Str(k, v)
	}
	if rid := appCtx.GetRequestID(ctx); rid != "" {
		ev = ev.Str("request_id", rid)
	}

	msg, ok := messages[action]
	if !ok {
		msg = "Audit event"
	}
	ev.Msg(msg)
}

// maskEmail partially masks email for privacy in logs
func maskEmail(email string) string {
	if len(email) < 5 {
		return "***"
	}
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return email[:2] + "***"
	}
	if at < 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
