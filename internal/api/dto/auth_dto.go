package dto

import "time"

// StudentLoginRequest payload.
type StudentLoginRequest struct {
	NISN     string `json:"nisn"`
	Password string `json:"password"`
}

// AdminLoginRequest payload.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and subject summary.
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Subject   SubjectSummary `json:"subject"`
}

// SubjectSummary identifies the authenticated subject.
type SubjectSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ClassResponse is a catalog entry for the export form.
type ClassResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DepartmentID string `json:"departmentId"`
}

// DepartmentResponse is a catalog entry for the export form.
type DepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
