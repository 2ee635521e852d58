package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/attendance-service/internal/clock"
	"github.com/spec-kit/attendance-service/internal/config"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository"
	"github.com/spec-kit/attendance-service/internal/repository/memory"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

var testStart = time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

func newTokenService(t *testing.T) (*TokenService, *clock.Manual) {
	t.Helper()
	manual := clock.NewManual(testStart)
	svc := NewTokenService(TokenDependencies{
		TokenRepo: memory.NewStore().Tokens(),
		Clock:     manual,
		Policy:    config.TokenConfig{CodeLength: 6, MaxGenerateAttempts: 5, MaxDurationMinutes: 1440},
	})
	return svc, manual
}

func TestTokenServiceIssueValidation(t *testing.T) {
	svc, _ := newTokenService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input IssueInput
		code  string
	}{
		{"zero duration", IssueInput{DurationMinutes: 0, LateAfterMinutes: 5}, apperrors.CodeInvalidDuration},
		{"negative duration", IssueInput{DurationMinutes: -10, LateAfterMinutes: 5}, apperrors.CodeInvalidDuration},
		{"duration above maximum", IssueInput{DurationMinutes: 1441, LateAfterMinutes: 5}, apperrors.CodeInvalidDuration},
		{"zero late threshold", IssueInput{DurationMinutes: 20, LateAfterMinutes: 0}, apperrors.CodeInvalidLateThreshold},
		{"negative late threshold", IssueInput{DurationMinutes: 20, LateAfterMinutes: -1}, apperrors.CodeInvalidLateThreshold},
		{"late threshold beyond duration", IssueInput{DurationMinutes: 20, LateAfterMinutes: 21}, apperrors.CodeInvalidLateThreshold},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Issue(ctx, tc.input)
			if got := apperrors.CodeOf(err); got != tc.code {
				t.Fatalf("Issue(%+v) error code = %q, want %q", tc.input, got, tc.code)
			}
		})
	}
}

func TestTokenServiceIssue(t *testing.T) {
	svc, manual := newTokenService(t)
	ctx := context.Background()

	token, err := svc.Issue(ctx, IssueInput{DurationMinutes: 20, LateAfterMinutes: 10})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token.ID == "" || len(token.Code) != 6 {
		t.Fatalf("unexpected token %+v", token)
	}
	if !token.ExpiresAt.Equal(testStart.Add(20 * time.Minute)) {
		t.Errorf("expiresAt = %v", token.ExpiresAt)
	}
	if !token.LateAfter.Equal(testStart.Add(10 * time.Minute)) {
		t.Errorf("lateAfter = %v", token.LateAfter)
	}
	if token.EffectiveStatus(manual.Now()) != domain.TokenStatusActive {
		t.Errorf("expected freshly issued token to be active")
	}
	for _, c := range token.Code {
		if c == '0' || c == 'O' || c == '1' || c == 'I' || c == 'L' {
			t.Errorf("code %q contains ambiguous character %q", token.Code, c)
		}
	}
}

func TestTokenServiceSingleActivePolicy(t *testing.T) {
	svc, manual := newTokenService(t)
	ctx := context.Background()

	first, err := svc.Issue(ctx, IssueInput{DurationMinutes: 20, LateAfterMinutes: 10})
	if err != nil {
		t.Fatalf("first Issue: %v", err)
	}

	t.Run("second issue is rejected while first is active", func(t *testing.T) {
		_, err := svc.Issue(ctx, IssueInput{DurationMinutes: 20, LateAfterMinutes: 10})
		if got := apperrors.CodeOf(err); got != apperrors.CodeActiveTokenExists {
			t.Fatalf("error code = %q, want %q", got, apperrors.CodeActiveTokenExists)
		}
	})

	t.Run("issue succeeds after revocation", func(t *testing.T) {
		if err := svc.Revoke(ctx, first.ID); err != nil {
			t.Fatalf("Revoke: %v", err)
		}
		second, err := svc.Issue(ctx, IssueInput{DurationMinutes: 20, LateAfterMinutes: 10})
		if err != nil {
			t.Fatalf("Issue after revoke: %v", err)
		}
		if second.ID == first.ID {
			t.Fatal("expected a fresh token")
		}
	})

	t.Run("issue succeeds after expiry", func(t *testing.T) {
		manual.Advance(21 * time.Minute)
		if _, err := svc.Issue(ctx, IssueInput{DurationMinutes: 20, LateAfterMinutes: 10}); err != nil {
			t.Fatalf("Issue after expiry: %v", err)
		}
	})
}

// collidingTokenRepo reports the listed codes as already taken regardless of
// store contents.
type collidingTokenRepo struct {
	repository.TokenRepository
	taken map[string]bool
}

func (r *collidingTokenRepo) CodeActive(_ context.Context, code string, _ time.Time) (bool, error) {
	return r.taken == nil || r.taken[code], nil
}

func TestTokenServiceCodeCollisions(t *testing.T) {
	t.Run("retries past a collision", func(t *testing.T) {
		manual := clock.NewManual(testStart)
		svc := NewTokenService(TokenDependencies{
			TokenRepo: &collidingTokenRepo{
				TokenRepository: memory.NewStore().Tokens(),
				taken:           map[string]bool{"AAAAAA": true},
			},
			Clock:  manual,
			Policy: config.TokenConfig{CodeLength: 6, MaxGenerateAttempts: 5},
		})

		codes := []string{"AAAAAA", "BBBBBB"}
		calls := 0
		svc.codeFn = func(int) (string, error) {
			code := codes[calls]
			calls++
			return code, nil
		}

		token, err := svc.Issue(context.Background(), IssueInput{DurationMinutes: 20, LateAfterMinutes: 10})
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if token.Code != "BBBBBB" {
			t.Fatalf("code = %q, want BBBBBB", token.Code)
		}
		if calls != 2 {
			t.Fatalf("generator called %d times, want 2", calls)
		}
	})

	t.Run("exhaustion after max attempts", func(t *testing.T) {
		manual := clock.NewManual(testStart)
		svc := NewTokenService(TokenDependencies{
			TokenRepo: &collidingTokenRepo{TokenRepository: memory.NewStore().Tokens()},
			Clock:     manual,
			Policy:    config.TokenConfig{CodeLength: 6, MaxGenerateAttempts: 3},
		})

		calls := 0
		svc.codeFn = func(int) (string, error) {
			calls++
			return "AAAAAA", nil
		}

		_, err := svc.Issue(context.Background(), IssueInput{DurationMinutes: 20, LateAfterMinutes: 10})
		if got := apperrors.CodeOf(err); got != apperrors.CodeCodeGenerationExhausted {
			t.Fatalf("error code = %q, want %q", got, apperrors.CodeCodeGenerationExhausted)
		}
		if calls != 3 {
			t.Fatalf("generator called %d times, want 3", calls)
		}
	})
}

func TestTokenServiceRevoke(t *testing.T) {
	svc, manual := newTokenService(t)
	ctx := context.Background()

	token, err := svc.Issue(ctx, IssueInput{DurationMinutes: 20, LateAfterMinutes: 10})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	t.Run("revoking twice is a no-op", func(t *testing.T) {
		if err := svc.Revoke(ctx, token.ID); err != nil {
			t.Fatalf("first Revoke: %v", err)
		}
		if err := svc.Revoke(ctx, token.ID); err != nil {
			t.Fatalf("second Revoke: %v", err)
		}
		got, err := svc.Get(ctx, token.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.EffectiveStatus(manual.Now()) != domain.TokenStatusRevoked {
			t.Fatalf("status = %s, want revoked", got.EffectiveStatus(manual.Now()))
		}
	})

	t.Run("revoking an expired token leaves it expired", func(t *testing.T) {
		second, err := svc.Issue(ctx, IssueInput{DurationMinutes: 5, LateAfterMinutes: 5})
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		manual.Advance(10 * time.Minute)
		if err := svc.Revoke(ctx, second.ID); err != nil {
			t.Fatalf("Revoke expired: %v", err)
		}
		got, err := svc.Get(ctx, second.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.EffectiveStatus(manual.Now()) != domain.TokenStatusExpired {
			t.Fatalf("status = %s, want expired", got.EffectiveStatus(manual.Now()))
		}
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		err := svc.Revoke(ctx, "no-such-token")
		if got := apperrors.CodeOf(err); got != apperrors.CodeNotFound {
			t.Fatalf("error code = %q, want %q", got, apperrors.CodeNotFound)
		}
	})
}
