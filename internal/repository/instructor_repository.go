package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/uni-adm/reservation-api/internal/models"
)

// InstructorRepository reads the instructor catalog.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository creates a new instructor repository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

// List returns all instructors ordered by display name.
func (r *InstructorRepository) List(ctx context.Context) ([]models.Instructor, error) {
	const query = `SELECT instructor_id, name FROM instructors ORDER BY name ASC`
	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query); err != nil {
		return nil, translateStoreError("list instructors", err)
	}
	return instructors, nil
}
