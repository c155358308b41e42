package auth

import (
	"testing"

	"github.com/baechuer/commerce-api/internal/domain"
)

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}

func requireSucceeded(t *testing.T, out LoginOutcome, err error) TokenBundle {
	t.Helper()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	ok, is := out.(LoginSucceeded)
	if !is {
		t.Fatalf("expected LoginSucceeded, got %T", out)
	}
	return ok.Bundle
}

func requireRejected(t *testing.T, out LoginOutcome, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, is := out.(LoginRejected); !is {
		t.Fatalf("expected LoginRejected, got %T", out)
	}
}
