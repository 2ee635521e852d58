package events

import (
	"time"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTokenIssued        EventType = "token_issued"
	EventTokenRevoked       EventType = "token_revoked"
	EventAttendanceRecorded EventType = "attendance_recorded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TokenID   string      `json:"token_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TokenIssuedPayload payload.
type TokenIssuedPayload struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	LateAfter time.Time `json:"late_after"`
}

// TokenRevokedPayload payload.
type TokenRevokedPayload struct {
	RevokedAt time.Time `json:"revoked_at"`
}

// AttendanceRecordedPayload payload.
type AttendanceRecordedPayload struct {
	RecordID   string            `json:"record_id"`
	StudentID  string            `json:"student_id"`
	Timeliness domain.Timeliness `json:"timeliness"`
}
