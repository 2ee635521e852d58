package domain

import "time"

// Timeliness classifies a submission against the owning token's late-after
// threshold. Computed once at creation, never recomputed.
type Timeliness string

const (
	TimelinessOnTime Timeliness = "on_time"
	TimelinessLate   Timeliness = "late"
)

// AttendanceRecord is an append-only proof that a student checked in against a
// token. At most one record exists per (TokenID, StudentID) pair.
type AttendanceRecord struct {
	ID          string
	TokenID     string
	StudentID   string
	SubmittedAt time.Time
	Timeliness  Timeliness
}

// ExportRow is an attendance record joined with submitter and catalog metadata
// for spreadsheet export. Formatting into a file is the caller's concern.
type ExportRow struct {
	RecordID       string
	StudentID      string
	StudentName    string
	NISN           string
	ClassID        string
	ClassName      string
	DepartmentID   string
	DepartmentName string
	TokenID        string
	TokenCode      string
	SubmittedAt    time.Time
	Timeliness     Timeliness
}

// Stats is the dashboard snapshot over tokens and attendance records.
type Stats struct {
	TotalTokens     int64
	ActiveTokens    int64
	TodayAttendance int64
	TotalAttendance int64
}

// ChartPoint is one day of the attendance trend series.
type ChartPoint struct {
	Date            string
	AttendanceCount int64
}
