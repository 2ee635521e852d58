package memory

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository"
)

type studentRepo struct {
	store *Store
}

var _ repository.StudentRepository = (*studentRepo)(nil)

func (r *studentRepo) Create(_ context.Context, student *domain.Student) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *student
	s.students[stored.ID] = &stored
	return nil
}

func (r *studentRepo) GetByID(_ context.Context, id string) (*domain.Student, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	student, ok := s.students[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *student
	return &copied, nil
}

func (r *studentRepo) GetByNISN(_ context.Context, nisn string) (*domain.Student, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, student := range s.students {
		if student.NISN == nisn {
			copied := *student
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type classRepo struct {
	store *Store
}

var _ repository.ClassRepository = (*classRepo)(nil)

func (r *classRepo) Create(_ context.Context, class *domain.Class) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *class
	s.classes[stored.ID] = &stored
	return nil
}

func (r *classRepo) GetByID(_ context.Context, id string) (*domain.Class, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	class, ok := s.classes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *class
	return &copied, nil
}

func (r *classRepo) List(_ context.Context) ([]domain.Class, error) {
	s := r.store
	s.mu.RLock()
	all := make([]domain.Class, 0, len(s.classes))
	for _, class := range s.classes {
		all = append(all, *class)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

type departmentRepo struct {
	store *Store
}

var _ repository.DepartmentRepository = (*departmentRepo)(nil)

func (r *departmentRepo) Create(_ context.Context, dept *domain.Department) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *dept
	s.departments[stored.ID] = &stored
	return nil
}

func (r *departmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	dept, ok := s.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *dept
	return &copied, nil
}

func (r *departmentRepo) ListActive(_ context.Context) ([]domain.Department, error) {
	s := r.store
	s.mu.RLock()
	all := make([]domain.Department, 0, len(s.departments))
	for _, dept := range s.departments {
		if dept.IsActive {
			all = append(all, *dept)
		}
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

type adminRepo struct {
	store *Store
}

var _ repository.AdminRepository = (*adminRepo)(nil)

func (r *adminRepo) Create(_ context.Context, admin *domain.Admin) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *admin
	s.admins[stored.ID] = &stored
	return nil
}

func (r *adminRepo) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	admin, ok := s.admins[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *admin
	return &copied, nil
}

func (r *adminRepo) GetByUsername(_ context.Context, username string) (*domain.Admin, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, admin := range s.admins {
		if admin.Username == username {
			copied := *admin
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}
