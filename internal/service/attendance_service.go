package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/attendance-service/internal/clock"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/events"
	"github.com/spec-kit/attendance-service/internal/repository"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

// AttendanceService validates submitted codes and writes attendance records.
type AttendanceService struct {
	tokens     repository.TokenRepository
	attendance repository.AttendanceRepository
	clock      clock.Clock
	dispatcher events.Dispatcher
}

// AttendanceDependencies bundles requirements for the attendance service.
type AttendanceDependencies struct {
	TokenRepo      repository.TokenRepository
	AttendanceRepo repository.AttendanceRepository
	Clock          clock.Clock
	Dispatcher     events.Dispatcher
}

// NewAttendanceService constructs the service.
func NewAttendanceService(deps AttendanceDependencies) *AttendanceService {
	return &AttendanceService{
		tokens:     deps.TokenRepo,
		attendance: deps.AttendanceRepo,
		clock:      deps.Clock,
		dispatcher: deps.Dispatcher,
	}
}

// Submit records one attendance check-in for the given student.
//
// A wrong code and an expired code produce the same failure so an
// unauthenticated guesser learns nothing about token timing.
func (s *AttendanceService) Submit(ctx context.Context, code, studentID string) (*domain.AttendanceRecord, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apperrors.NewValidationError("token code required", nil)
	}
	if studentID == "" {
		return nil, apperrors.NewValidationError("student id required", nil)
	}

	now := s.clock.Now()

	token, err := s.tokens.GetActiveByCode(ctx, code, now)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewLookupFailure(apperrors.CodeInvalidOrExpiredToken, "invalid or expired token")
		}
		return nil, err
	}

	// Fast-path duplicate check; RecordSubmission re-enforces the unique
	// (token, student) constraint atomically, so a race between two
	// submissions still yields exactly one record.
	exists, err := s.attendance.Exists(ctx, token.ID, studentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflictCode(apperrors.CodeDuplicateSubmission, "attendance already submitted for this token")
	}

	record := &domain.AttendanceRecord{
		ID:          uuid.NewString(),
		TokenID:     token.ID,
		StudentID:   studentID,
		SubmittedAt: now,
		Timeliness:  token.Classify(now),
	}
	if err := s.attendance.RecordSubmission(ctx, record); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventAttendanceRecorded,
		TokenID: token.ID,
		Payload: events.AttendanceRecordedPayload{
			RecordID:   record.ID,
			StudentID:  record.StudentID,
			Timeliness: record.Timeliness,
		},
	})
	return record, nil
}

func (s *AttendanceService) publishEvent(ctx context.Context, event events.Event) {
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
