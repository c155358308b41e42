package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baechuer/commerce-api/internal/domain"
	"github.com/baechuer/commerce-api/internal/logger"
)

func TestRecoverer_PanicBecomesInternalError(t *testing.T) {
	we := &writeErrRecorder{}
	h := Recoverer(we.fn)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	assert.NotPanics(t, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	})
	assert.True(t, domain.Is(we.last, "internal_error"))
}

func TestRequestLogger_LogsStatus(t *testing.T) {
	var buf bytes.Buffer
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "info")
	logger.InitWithWriter(&buf)
	t.Cleanup(func() { logger.InitWithWriter(io.Discard) })

	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hi"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/brew", nil))

	out := buf.String()
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"path":"/brew"`)
	assert.Contains(t, out, `"bytes":2`)
}
