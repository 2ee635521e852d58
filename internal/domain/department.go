package domain

import "time"

// Department is the top-level catalog unit used by export filtering.
type Department struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
