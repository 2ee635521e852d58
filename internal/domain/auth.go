package domain

import "time"

// SubjectType distinguishes authenticated principals.
type SubjectType string

const (
	SubjectTypeStudent SubjectType = "STUDENT"
	SubjectTypeAdmin   SubjectType = "ADMIN"
)

// Admin issues tokens, revokes them and reads reports.
type Admin struct {
	ID           string
	Username     string
	Name         string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
