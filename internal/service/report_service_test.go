package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/attendance-service/internal/clock"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository/memory"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

type reportFixture struct {
	store   *memory.Store
	clock   *clock.Manual
	reports *ReportService
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	store := memory.NewStore()
	manual := clock.NewManual(testStart)
	return &reportFixture{
		store: store,
		clock: manual,
		reports: NewReportService(ReportDependencies{
			TokenRepo:      store.Tokens(),
			AttendanceRepo: store.Attendance(),
			Clock:          manual,
			Location:       time.UTC,
		}),
	}
}

func (fx *reportFixture) seedToken(t *testing.T, id string, issuedAt time.Time, duration time.Duration) *domain.Token {
	t.Helper()
	token := &domain.Token{
		ID:        id,
		Code:      "CODE" + id,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(duration),
		LateAfter: issuedAt.Add(duration / 2),
	}
	if err := fx.store.Tokens().Insert(context.Background(), token); err != nil {
		t.Fatalf("seed token %s: %v", id, err)
	}
	return token
}

func (fx *reportFixture) seedRecord(t *testing.T, id, tokenID, studentID string, at time.Time) {
	t.Helper()
	err := fx.store.Attendance().RecordSubmission(context.Background(), &domain.AttendanceRecord{
		ID:          id,
		TokenID:     tokenID,
		StudentID:   studentID,
		SubmittedAt: at,
		Timeliness:  domain.TimelinessOnTime,
	})
	if err != nil {
		t.Fatalf("seed record %s: %v", id, err)
	}
}

func TestReportStats(t *testing.T) {
	fx := newReportFixture(t)
	ctx := context.Background()

	// Yesterday's token expired before today's was issued, so both insert.
	yesterday := testStart.AddDate(0, 0, -1)
	old := fx.seedToken(t, "tok-old", yesterday, time.Hour)
	current := fx.seedToken(t, "tok-now", testStart, 20*time.Minute)

	fx.seedRecord(t, "rec-1", old.ID, "student-1", yesterday.Add(5*time.Minute))
	fx.seedRecord(t, "rec-2", current.ID, "student-1", testStart.Add(2*time.Minute))
	fx.seedRecord(t, "rec-3", current.ID, "student-2", testStart.Add(3*time.Minute))

	fx.clock.Set(testStart.Add(5 * time.Minute))
	stats, err := fx.reports.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	if stats.TotalTokens != 2 {
		t.Errorf("totalTokens = %d, want 2", stats.TotalTokens)
	}
	if stats.ActiveTokens != 1 {
		t.Errorf("activeTokens = %d, want 1", stats.ActiveTokens)
	}
	if stats.TodayAttendance != 2 {
		t.Errorf("todayAttendance = %d, want 2", stats.TodayAttendance)
	}
	if stats.TotalAttendance != 3 {
		t.Errorf("totalAttendance = %d, want 3", stats.TotalAttendance)
	}
}

func TestReportChart(t *testing.T) {
	fx := newReportFixture(t)
	ctx := context.Background()

	token := fx.seedToken(t, "tok-1", testStart.AddDate(0, 0, -3), time.Hour)
	fx.seedRecord(t, "rec-1", token.ID, "student-1", testStart.AddDate(0, 0, -3).Add(time.Minute))
	fx.seedRecord(t, "rec-2", token.ID, "student-2", testStart.AddDate(0, 0, -3).Add(2*time.Minute))
	fx.seedRecord(t, "rec-3", token.ID, "student-3", testStart.Add(time.Minute))

	t.Run("zero fills missing days ascending", func(t *testing.T) {
		series, err := fx.reports.Chart(ctx, 7)
		if err != nil {
			t.Fatalf("Chart: %v", err)
		}
		if len(series) != 7 {
			t.Fatalf("len(series) = %d, want 7", len(series))
		}
		for i := 1; i < len(series); i++ {
			if series[i-1].Date >= series[i].Date {
				t.Fatalf("series not ascending: %s then %s", series[i-1].Date, series[i].Date)
			}
		}
		byDate := map[string]int64{}
		for _, p := range series {
			byDate[p.Date] = p.AttendanceCount
		}
		threeDaysAgo := testStart.AddDate(0, 0, -3).Format("2006-01-02")
		today := testStart.Format("2006-01-02")
		if byDate[threeDaysAgo] != 2 {
			t.Errorf("count[%s] = %d, want 2", threeDaysAgo, byDate[threeDaysAgo])
		}
		if byDate[today] != 1 {
			t.Errorf("count[%s] = %d, want 1", today, byDate[today])
		}
		empty := testStart.AddDate(0, 0, -1).Format("2006-01-02")
		if byDate[empty] != 0 {
			t.Errorf("count[%s] = %d, want 0", empty, byDate[empty])
		}
	})

	t.Run("defaults and clamps the range", func(t *testing.T) {
		series, err := fx.reports.Chart(ctx, 0)
		if err != nil {
			t.Fatalf("Chart(0): %v", err)
		}
		if len(series) != 30 {
			t.Fatalf("default len = %d, want 30", len(series))
		}
		series, err = fx.reports.Chart(ctx, 10000)
		if err != nil {
			t.Fatalf("Chart(10000): %v", err)
		}
		if len(series) != 365 {
			t.Fatalf("clamped len = %d, want 365", len(series))
		}
	})
}

func TestReportExport(t *testing.T) {
	fx := newReportFixture(t)
	ctx := context.Background()

	if err := fx.store.Departments().Create(ctx, &domain.Department{ID: "dept-1", Name: "Software Engineering", IsActive: true}); err != nil {
		t.Fatalf("seed department: %v", err)
	}
	if err := fx.store.Classes().Create(ctx, &domain.Class{ID: "class-1", Name: "XII RPL 1", DepartmentID: "dept-1"}); err != nil {
		t.Fatalf("seed class: %v", err)
	}
	if err := fx.store.Classes().Create(ctx, &domain.Class{ID: "class-2", Name: "XII RPL 2", DepartmentID: "dept-1"}); err != nil {
		t.Fatalf("seed class: %v", err)
	}
	students := []*domain.Student{
		{ID: "student-1", NISN: "0051234567", Name: "Adi", ClassID: "class-1", Status: domain.StudentStatusActive},
		{ID: "student-2", NISN: "0059876543", Name: "Budi", ClassID: "class-2", Status: domain.StudentStatusActive},
	}
	for _, s := range students {
		if err := fx.store.Students().Create(ctx, s); err != nil {
			t.Fatalf("seed student: %v", err)
		}
	}

	token := fx.seedToken(t, "tok-1", testStart, 20*time.Minute)
	fx.seedRecord(t, "rec-1", token.ID, "student-1", testStart.Add(2*time.Minute))
	fx.seedRecord(t, "rec-2", token.ID, "student-2", testStart.Add(3*time.Minute))

	t.Run("requires at least one filter", func(t *testing.T) {
		_, err := fx.reports.Export(ctx, ExportInput{})
		if got := apperrors.CodeOf(err); got != apperrors.CodeNoFilterSpecified {
			t.Fatalf("error code = %q, want %q", got, apperrors.CodeNoFilterSpecified)
		}
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		_, err := fx.reports.Export(ctx, ExportInput{Date: "02-03-2026"})
		if got := apperrors.CodeOf(err); got != apperrors.CodeValidationFailed {
			t.Fatalf("error code = %q, want %q", got, apperrors.CodeValidationFailed)
		}
	})

	t.Run("filters by class", func(t *testing.T) {
		rows, err := fx.reports.Export(ctx, ExportInput{ClassID: "class-1"})
		if err != nil {
			t.Fatalf("Export: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("len(rows) = %d, want 1", len(rows))
		}
		row := rows[0]
		if row.StudentName != "Adi" || row.ClassName != "XII RPL 1" || row.DepartmentName != "Software Engineering" {
			t.Errorf("unexpected row %+v", row)
		}
		if row.TokenCode != token.Code {
			t.Errorf("tokenCode = %q, want %q", row.TokenCode, token.Code)
		}
	})

	t.Run("filters by date", func(t *testing.T) {
		rows, err := fx.reports.Export(ctx, ExportInput{Date: testStart.Format("2006-01-02")})
		if err != nil {
			t.Fatalf("Export: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("len(rows) = %d, want 2", len(rows))
		}
		if rows[0].SubmittedAt.After(rows[1].SubmittedAt) {
			t.Error("rows not ordered by submission time")
		}
	})

	t.Run("filters by department", func(t *testing.T) {
		rows, err := fx.reports.Export(ctx, ExportInput{DepartmentID: "dept-1"})
		if err != nil {
			t.Fatalf("Export: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("len(rows) = %d, want 2", len(rows))
		}
	})

	t.Run("empty result for an unmatched filter", func(t *testing.T) {
		rows, err := fx.reports.Export(ctx, ExportInput{ClassID: "class-missing"})
		if err != nil {
			t.Fatalf("Export: %v", err)
		}
		if len(rows) != 0 {
			t.Fatalf("len(rows) = %d, want 0", len(rows))
		}
	})
}
