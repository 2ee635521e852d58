package service

import (
	"context"
	"crypto/rand"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/attendance-service/internal/clock"
	"github.com/spec-kit/attendance-service/internal/config"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/events"
	"github.com/spec-kit/attendance-service/internal/repository"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

// Code alphabet omits 0/O/1/I/L to keep codes unambiguous when read aloud or
// copied from a projector.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// IssueInput describes a token issuance request.
type IssueInput struct {
	DurationMinutes  int
	LateAfterMinutes int
}

// TokenService coordinates token issuance and revocation.
type TokenService struct {
	tokens     repository.TokenRepository
	clock      clock.Clock
	policy     config.TokenConfig
	dispatcher events.Dispatcher
	codeFn     func(length int) (string, error)
}

// TokenDependencies bundles requirements for the token service.
type TokenDependencies struct {
	TokenRepo  repository.TokenRepository
	Clock      clock.Clock
	Policy     config.TokenConfig
	Dispatcher events.Dispatcher
}

// NewTokenService constructs the service.
func NewTokenService(deps TokenDependencies) *TokenService {
	return &TokenService{
		tokens:     deps.TokenRepo,
		clock:      deps.Clock,
		policy:     deps.Policy,
		dispatcher: deps.Dispatcher,
		codeFn:     generateCode,
	}
}

// Issue creates one well-formed token, subject to the single-active-token
// policy. The caller must wait for expiry or revoke before issuing again.
func (s *TokenService) Issue(ctx context.Context, input IssueInput) (*domain.Token, error) {
	if input.DurationMinutes <= 0 {
		return nil, apperrors.NewValidationCode(apperrors.CodeInvalidDuration, "duration must be a positive number of minutes")
	}
	if s.policy.MaxDurationMinutes > 0 && input.DurationMinutes > s.policy.MaxDurationMinutes {
		return nil, apperrors.NewValidationCode(apperrors.CodeInvalidDuration, "duration exceeds the configured maximum")
	}
	if input.LateAfterMinutes <= 0 || input.LateAfterMinutes > input.DurationMinutes {
		return nil, apperrors.NewValidationCode(apperrors.CodeInvalidLateThreshold, "late threshold must be positive and no greater than duration")
	}

	now := s.clock.Now()

	// Fast-path policy check; Insert re-checks under the issuance lock so
	// concurrent issuers cannot both pass.
	active, err := s.tokens.ActiveExists(ctx, now)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, apperrors.NewConflictCode(apperrors.CodeActiveTokenExists, "an active token already exists")
	}

	attempts := s.policy.MaxGenerateAttempts
	if attempts <= 0 {
		attempts = 5
	}
	length := s.policy.CodeLength
	if length <= 0 {
		length = 6
	}

	for attempt := 0; attempt < attempts; attempt++ {
		code, err := s.codeFn(length)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		taken, err := s.tokens.CodeActive(ctx, code, now)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		token := &domain.Token{
			ID:        uuid.NewString(),
			Code:      code,
			IssuedAt:  now,
			ExpiresAt: now.Add(time.Duration(input.DurationMinutes) * time.Minute),
			LateAfter: now.Add(time.Duration(input.LateAfterMinutes) * time.Minute),
		}
		if err := s.tokens.Insert(ctx, token); err != nil {
			return nil, err
		}

		s.publishEvent(ctx, events.Event{
			Type:    events.EventTokenIssued,
			TokenID: token.ID,
			Payload: events.TokenIssuedPayload{
				Code:      token.Code,
				ExpiresAt: token.ExpiresAt,
				LateAfter: token.LateAfter,
			},
		})
		return token, nil
	}

	return nil, apperrors.NewDomainError(
		apperrors.CodeCodeGenerationExhausted,
		"could not generate a unique token code",
		http.StatusServiceUnavailable,
		nil,
	)
}

// Revoke terminates a token. Revoking an already revoked or expired token
// succeeds without effect.
func (s *TokenService) Revoke(ctx context.Context, id string) error {
	now := s.clock.Now()

	token, err := s.tokens.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return apperrors.NewNotFound("token", map[string]any{"id": id})
		}
		return err
	}
	if !token.IsActive(now) {
		return nil
	}

	if err := s.tokens.Revoke(ctx, id, now); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventTokenRevoked,
		TokenID: id,
		Payload: events.TokenRevokedPayload{RevokedAt: now},
	})
	return nil
}

// Get fetches a token by id.
func (s *TokenService) Get(ctx context.Context, id string) (*domain.Token, error) {
	token, err := s.tokens.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("token", map[string]any{"id": id})
		}
		return nil, err
	}
	return token, nil
}

// List returns the token history, newest first.
func (s *TokenService) List(ctx context.Context, limit, offset int) ([]domain.Token, error) {
	return s.tokens.List(ctx, limit, offset)
}

// Now exposes the service clock so handlers can derive statuses consistently.
func (s *TokenService) Now() time.Time {
	return s.clock.Now()
}

func (s *TokenService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
