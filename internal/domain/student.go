package domain

import "time"

// StudentStatus enumerates account states.
type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "ACTIVE"
	StudentStatusDisabled StudentStatus = "DISABLED"
)

// Student is the submitting identity. Authentication resolves it; the
// attendance core trusts the resolved ID as given.
type Student struct {
	ID           string
	NISN         string
	Name         string
	PasswordHash string
	ClassID      string
	Status       StudentStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
