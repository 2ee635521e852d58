package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// StudentRepository manages student persistence.
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	GetByID(ctx context.Context, id string) (*domain.Student, error)
	GetByNISN(ctx context.Context, nisn string) (*domain.Student, error)
}

type studentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository builds the repository.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{pool: pool}
}

func (r *studentRepository) Create(ctx context.Context, student *domain.Student) error {
	const query = `
        INSERT INTO students (id, nisn, name, password_hash, class_id, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		student.ID,
		student.NISN,
		student.Name,
		student.PasswordHash,
		student.ClassID,
		student.Status,
	).Scan(&student.CreatedAt, &student.UpdatedAt)
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	const query = `
        SELECT id, nisn, name, password_hash, class_id, status, created_at, updated_at
        FROM students WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *studentRepository) GetByNISN(ctx context.Context, nisn string) (*domain.Student, error) {
	const query = `
        SELECT id, nisn, name, password_hash, class_id, status, created_at, updated_at
        FROM students WHERE nisn=$1`
	return r.fetchSingle(ctx, query, nisn)
}

func (r *studentRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Student, error) {
	var student domain.Student
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&student.ID,
		&student.NISN,
		&student.Name,
		&student.PasswordHash,
		&student.ClassID,
		&student.Status,
		&student.CreatedAt,
		&student.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &student, nil
}
