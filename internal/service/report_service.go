package service

import (
	"context"
	"time"

	"github.com/spec-kit/attendance-service/internal/clock"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

const (
	defaultChartDays = 30
	maxChartDays     = 365
)

// ExportInput carries the export filters; empty strings mean unset. At least
// one filter must be supplied.
type ExportInput struct {
	ClassID      string
	DepartmentID string
	Date         string
}

// ReportService provides read-only aggregation over tokens and attendance
// records. Reads never take write locks and tolerate slightly stale usage
// counts.
type ReportService struct {
	tokens     repository.TokenRepository
	attendance repository.AttendanceRepository
	clock      clock.Clock
	location   *time.Location
	timezone   string
}

// ReportDependencies bundles requirements for the report service.
type ReportDependencies struct {
	TokenRepo      repository.TokenRepository
	AttendanceRepo repository.AttendanceRepository
	Clock          clock.Clock
	Location       *time.Location
}

// NewReportService constructs the service. "Today" and export date filters
// use calendar days in the supplied location.
func NewReportService(deps ReportDependencies) *ReportService {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{
		tokens:     deps.TokenRepo,
		attendance: deps.AttendanceRepo,
		clock:      deps.Clock,
		location:   loc,
		timezone:   loc.String(),
	}
}

// Stats returns the dashboard snapshot.
func (s *ReportService) Stats(ctx context.Context) (*domain.Stats, error) {
	now := s.clock.Now()
	dayStart := startOfDay(now, s.location)
	dayEnd := dayStart.AddDate(0, 0, 1)

	totalTokens, err := s.tokens.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	activeTokens, err := s.tokens.CountActive(ctx, now)
	if err != nil {
		return nil, err
	}
	todayAttendance, err := s.attendance.CountBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	totalAttendance, err := s.attendance.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.Stats{
		TotalTokens:     totalTokens,
		ActiveTokens:    activeTokens,
		TodayAttendance: todayAttendance,
		TotalAttendance: totalAttendance,
	}, nil
}

// Chart returns the attendance trend for the trailing days calendar days,
// ascending by date and zero-filled for days without records.
func (s *ReportService) Chart(ctx context.Context, days int) ([]domain.ChartPoint, error) {
	if days <= 0 {
		days = defaultChartDays
	}
	if days > maxChartDays {
		days = maxChartDays
	}

	now := s.clock.Now()
	todayStart := startOfDay(now, s.location)
	from := todayStart.AddDate(0, 0, -(days - 1))
	to := todayStart.AddDate(0, 0, 1)

	counts, err := s.attendance.CountByDay(ctx, from, to, s.timezone)
	if err != nil {
		return nil, err
	}

	series := make([]domain.ChartPoint, 0, days)
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i).In(s.location).Format("2006-01-02")
		series = append(series, domain.ChartPoint{
			Date:            date,
			AttendanceCount: counts[date],
		})
	}
	return series, nil
}

// Export returns attendance rows joined with submitter metadata. Requiring at
// least one filter lives here, not in the UI, so every caller gets the same
// guarantee.
func (s *ReportService) Export(ctx context.Context, input ExportInput) ([]domain.ExportRow, error) {
	filter := repository.ExportFilter{}

	if input.ClassID != "" {
		classID := input.ClassID
		filter.ClassID = &classID
	}
	if input.DepartmentID != "" {
		departmentID := input.DepartmentID
		filter.DepartmentID = &departmentID
	}
	if input.Date != "" {
		day, err := time.ParseInLocation("2006-01-02", input.Date, s.location)
		if err != nil {
			return nil, apperrors.NewValidationError("date must use the YYYY-MM-DD format", nil)
		}
		from := day
		to := day.AddDate(0, 0, 1)
		filter.From = &from
		filter.To = &to
	}

	if filter.Empty() {
		return nil, apperrors.NewValidationCode(apperrors.CodeNoFilterSpecified, "choose at least one filter: class, department or date")
	}

	return s.attendance.ListFiltered(ctx, filter)
}

func startOfDay(at time.Time, loc *time.Location) time.Time {
	local := at.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
