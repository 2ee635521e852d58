package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// ClassRepository manages class persistence.
type ClassRepository interface {
	Create(ctx context.Context, class *domain.Class) error
	GetByID(ctx context.Context, id string) (*domain.Class, error)
	List(ctx context.Context) ([]domain.Class, error)
}

type classRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository builds the repository.
func NewClassRepository(pool *pgxpool.Pool) ClassRepository {
	return &classRepository{pool: pool}
}

func (r *classRepository) Create(ctx context.Context, class *domain.Class) error {
	const query = `
        INSERT INTO classes (id, name, department_id)
        VALUES ($1,$2,$3)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		class.ID,
		class.Name,
		class.DepartmentID,
	).Scan(&class.CreatedAt, &class.UpdatedAt)
}

func (r *classRepository) GetByID(ctx context.Context, id string) (*domain.Class, error) {
	const query = `
        SELECT id, name, department_id, created_at, updated_at
        FROM classes WHERE id=$1`
	var class domain.Class
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&class.ID,
		&class.Name,
		&class.DepartmentID,
		&class.CreatedAt,
		&class.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepository) List(ctx context.Context) ([]domain.Class, error) {
	const query = `
        SELECT id, name, department_id, created_at, updated_at
        FROM classes ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Class
	for rows.Next() {
		var class domain.Class
		if err := rows.Scan(&class.ID, &class.Name, &class.DepartmentID, &class.CreatedAt, &class.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, class)
	}
	return result, rows.Err()
}
