package dto

import (
	"time"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// SubmitAttendanceRequest payload. The field carries the short code students
// type, not a bearer token.
type SubmitAttendanceRequest struct {
	Token string `json:"token"`
}

// SubmitAttendanceResponse confirms an accepted submission.
type SubmitAttendanceResponse struct {
	Accepted    bool              `json:"accepted"`
	Timeliness  domain.Timeliness `json:"timeliness"`
	SubmittedAt time.Time         `json:"submittedAt"`
}

// StatsResponse is the dashboard snapshot.
type StatsResponse struct {
	TotalTokens     int64 `json:"totalTokens"`
	ActiveTokens    int64 `json:"activeTokens"`
	TodayAttendance int64 `json:"todayAttendance"`
	TotalAttendance int64 `json:"totalAttendance"`
}

// ChartPointResponse is one day of the trend series.
type ChartPointResponse struct {
	Date            string `json:"date"`
	AttendanceCount int64  `json:"attendanceCount"`
}

// ExportRowResponse is one attendance row joined with submitter metadata.
type ExportRowResponse struct {
	RecordID       string            `json:"recordId"`
	StudentName    string            `json:"studentName"`
	NISN           string            `json:"nisn"`
	ClassName      string            `json:"className"`
	DepartmentName string            `json:"departmentName"`
	TokenCode      string            `json:"tokenCode"`
	SubmittedAt    time.Time         `json:"submittedAt"`
	Timeliness     domain.Timeliness `json:"timeliness"`
}

// NewExportRowResponse maps a domain export row.
func NewExportRowResponse(row domain.ExportRow) ExportRowResponse {
	return ExportRowResponse{
		RecordID:       row.RecordID,
		StudentName:    row.StudentName,
		NISN:           row.NISN,
		ClassName:      row.ClassName,
		DepartmentName: row.DepartmentName,
		TokenCode:      row.TokenCode,
		SubmittedAt:    row.SubmittedAt,
		Timeliness:     row.Timeliness,
	}
}
