package dto

import (
	"time"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// GenerateTokenRequest payload. Field names mirror the generation form.
type GenerateTokenRequest struct {
	DurationMinutes  int `json:"duration"`
	LateAfterMinutes int `json:"late_after"`
}

// TokenResponse represents a token in API responses. The status field is
// derived at response time, never stored.
type TokenResponse struct {
	ID         string             `json:"id"`
	Code       string             `json:"token_code"`
	IssuedAt   time.Time          `json:"issuedAt"`
	ExpiresAt  time.Time          `json:"expiresAt"`
	LateAfter  time.Time          `json:"lateAfter"`
	Status     domain.TokenStatus `json:"status"`
	UsageCount int64              `json:"usageCount"`
}

// NewTokenResponse maps a domain token, deriving status at the given instant.
func NewTokenResponse(token *domain.Token, now time.Time) TokenResponse {
	return TokenResponse{
		ID:         token.ID,
		Code:       token.Code,
		IssuedAt:   token.IssuedAt,
		ExpiresAt:  token.ExpiresAt,
		LateAfter:  token.LateAfter,
		Status:     token.EffectiveStatus(now),
		UsageCount: token.UsageCount,
	}
}
