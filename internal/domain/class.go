package domain

import "time"

// Class groups students inside a department.
type Class struct {
	ID           string
	Name         string
	DepartmentID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
