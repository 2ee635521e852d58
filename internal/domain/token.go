package domain

import "time"

// TokenStatus enumerates derived lifecycle states for attendance tokens.
type TokenStatus string

const (
	TokenStatusActive  TokenStatus = "active"
	TokenStatusExpired TokenStatus = "expired"
	TokenStatusRevoked TokenStatus = "revoked"
)

// Token is a time-boxed code authorizing attendance submission.
//
// Expiry is never written back: status is recomputed from the clock on every
// read, so a stale "active" row can never be matched after its window closes.
// Revocation is the only persisted transition and it is terminal.
type Token struct {
	ID         string
	Code       string
	IssuedAt   time.Time
	ExpiresAt  time.Time
	LateAfter  time.Time
	Revoked    bool
	RevokedAt  *time.Time
	UsageCount int64
	CreatedAt  time.Time
}

// EffectiveStatus derives the lifecycle state at the given instant.
func (t *Token) EffectiveStatus(now time.Time) TokenStatus {
	if t.Revoked {
		return TokenStatusRevoked
	}
	if !now.Before(t.ExpiresAt) {
		return TokenStatusExpired
	}
	return TokenStatusActive
}

// IsActive reports whether the token is usable at the given instant.
func (t *Token) IsActive(now time.Time) bool {
	return t.EffectiveStatus(now) == TokenStatusActive
}

// Classify determines submission timeliness. Submitting exactly at the
// late-after instant still counts as on time.
func (t *Token) Classify(submittedAt time.Time) Timeliness {
	if submittedAt.After(t.LateAfter) {
		return TimelinessLate
	}
	return TimelinessOnTime
}
