package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/attendance-service/internal/events"
)

// StartAuditWorker subscribes an audit logger to all lifecycle events so every
// issuance, revocation and submission leaves a structured trace.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil || logger == nil {
		return
	}
	audit := logger.Named("audit")

	handler := func(_ context.Context, event events.Event) error {
		audit.Info("event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.String("token_id", event.TokenID),
			zap.Time("at", event.Timestamp),
			zap.Any("payload", event.Payload),
		)
		return nil
	}

	dispatcher.Subscribe(events.EventTokenIssued, handler)
	dispatcher.Subscribe(events.EventTokenRevoked, handler)
	dispatcher.Subscribe(events.EventAttendanceRecorded, handler)
}
