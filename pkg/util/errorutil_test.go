package util

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainError(t *testing.T) {
	t.Run("passes through domain errors", func(t *testing.T) {
		original := NewConflictCode(CodeActiveTokenExists, "an active token already exists")
		converted := ToDomainError(original)
		if converted.Code != CodeActiveTokenExists {
			t.Fatalf("code = %s, want %s", converted.Code, CodeActiveTokenExists)
		}
		if converted.HTTPStatus != http.StatusConflict {
			t.Fatalf("status = %d, want %d", converted.HTTPStatus, http.StatusConflict)
		}
	})

	t.Run("maps missing rows to not found", func(t *testing.T) {
		converted := ToDomainError(pgx.ErrNoRows)
		if converted.Code != CodeNotFound {
			t.Fatalf("code = %s, want %s", converted.Code, CodeNotFound)
		}
	})

	t.Run("maps context cancellation to store unavailable", func(t *testing.T) {
		for _, err := range []error{context.DeadlineExceeded, context.Canceled} {
			converted := ToDomainError(err)
			if converted.Code != CodeStoreUnavailable {
				t.Fatalf("code for %v = %s, want %s", err, converted.Code, CodeStoreUnavailable)
			}
			if converted.HTTPStatus != http.StatusServiceUnavailable {
				t.Fatalf("status = %d, want 503", converted.HTTPStatus)
			}
		}
	})

	t.Run("wraps unknown errors as internal", func(t *testing.T) {
		converted := ToDomainError(errors.New("boom"))
		if converted.Code != CodeInternalError {
			t.Fatalf("code = %s, want %s", converted.Code, CodeInternalError)
		}
		if !errors.Is(converted, converted.Err) {
			t.Fatal("expected wrapped cause to unwrap")
		}
	})

	t.Run("nil stays nil", func(t *testing.T) {
		if ToDomainError(nil) != nil {
			t.Fatal("expected nil")
		}
	})
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(NewValidationCode(CodeInvalidDuration, "bad duration")); got != CodeInvalidDuration {
		t.Fatalf("CodeOf = %s, want %s", got, CodeInvalidDuration)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Fatalf("CodeOf(plain) = %q, want empty", got)
	}
	if got := CodeOf(nil); got != "" {
		t.Fatalf("CodeOf(nil) = %q, want empty", got)
	}
}
