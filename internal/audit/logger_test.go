package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appCtx "github.com/baechuer/commerce-api/internal/pkg/context"
)

func TestRecord_MasksEmailAndAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := New(zerolog.New(&buf))

	ctx := appCtx.WithRequestID(context.Background(), "rid-1")
	l.Record(ctx, "user_registered", map[string]string{"user_id": "7", "email": "annie@example.com"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, true, line["audit"])
	assert.Equal(t, "user_registered", line["action"])
	assert.Equal(t, "an***@example.com", line["email"])
	assert.Equal(t, "7", line["user_id"])
	assert.Equal(t, "rid-1", line["request_id"])
	assert.Equal(t, "User registered", line["message"])
	assert.Equal(t, "info", line["level"])
}

func TestRecord_LoginRejectedIsWarn(t *testing.T) {
	var buf bytes.Buffer
	l := New(zerolog.New(&buf))

	l.Record(context.Background(), "login_rejected", map[string]string{"reason": "bad_password"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.NotContains(t, line, "request_id")
}

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"":                "***",
		"a@b":             "***",
		"a@example.com":   "a***@example.com",
		"bob@example.com": "bo***@example.com",
		"no-at-sign":      "no***",
	}
	for in, want := range cases {
		assert.Equal(t, want, maskEmail(in), in)
	}
}
