// Package memory implements the repository interfaces on in-process maps.
// It backs tests and DSN-less development runs, and is the reference for the
// store's check-then-act semantics: issuance is serialized globally, while
// submissions are serialized per (token, student) key so unrelated
// submissions stay concurrent.
package memory

import (
	"sync"

	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository"
)

// Store holds all entities behind one consistency boundary. Entity views
// returned by the accessor methods share this state, mirroring tables that
// share one database.
type Store struct {
	mu          sync.RWMutex
	tokens      map[string]*domain.Token
	records     map[string]*domain.AttendanceRecord
	recordByKey map[string]string
	students    map[string]*domain.Student
	classes     map[string]*domain.Class
	departments map[string]*domain.Department
	admins      map[string]*domain.Admin

	issueMu sync.Mutex

	submitMu    sync.Mutex
	submitLocks map[string]*sync.Mutex
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{
		tokens:      make(map[string]*domain.Token),
		records:     make(map[string]*domain.AttendanceRecord),
		recordByKey: make(map[string]string),
		students:    make(map[string]*domain.Student),
		classes:     make(map[string]*domain.Class),
		departments: make(map[string]*domain.Department),
		admins:      make(map[string]*domain.Admin),
		submitLocks: make(map[string]*sync.Mutex),
	}
}

// Tokens returns the token repository view.
func (s *Store) Tokens() repository.TokenRepository {
	return &tokenRepo{store: s}
}

// Attendance returns the attendance record repository view.
func (s *Store) Attendance() repository.AttendanceRepository {
	return &attendanceRepo{store: s}
}

// Students returns the student repository view.
func (s *Store) Students() repository.StudentRepository {
	return &studentRepo{store: s}
}

// Classes returns the class repository view.
func (s *Store) Classes() repository.ClassRepository {
	return &classRepo{store: s}
}

// Departments returns the department repository view.
func (s *Store) Departments() repository.DepartmentRepository {
	return &departmentRepo{store: s}
}

// Admins returns the admin repository view.
func (s *Store) Admins() repository.AdminRepository {
	return &adminRepo{store: s}
}

func submissionKey(tokenID, studentID string) string {
	return tokenID + "|" + studentID
}

func (s *Store) lockSubmission(key string) *sync.Mutex {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()
	lock, ok := s.submitLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.submitLocks[key] = lock
	}
	return lock
}
