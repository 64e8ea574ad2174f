package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

// RequirementRepository persists admission requirements, one row per program.
type RequirementRepository struct {
	db *sqlx.DB
}

// NewRequirementRepository creates a new repository instance.
func NewRequirementRepository(db *sqlx.DB) *RequirementRepository {
	return &RequirementRepository{db: db}
}

// FindByProgram returns the requirements of a program or sql.ErrNoRows.
func (r *RequirementRepository) FindByProgram(ctx context.Context, programID string) (*models.Requirement, error) {
	const query = `SELECT id, program_id, min_gpa, documents, notes, created_at, updated_at FROM requirements WHERE program_id = $1`
	var req models.Requirement
	if err := r.db.GetContext(ctx, &req, query, programID); err != nil {
		return nil, err
	}
	return &req, nil
}

// Create inserts requirements; a second row for the same program yields appErrors.ErrDuplicate.
func (r *RequirementRepository) Create(ctx context.Context, req *models.Requirement) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now

	const query = `INSERT INTO requirements (id, program_id, min_gpa, documents, notes, created_at, updated_at)
VALUES (:id, :program_id, :min_gpa, :documents, :notes, :created_at, :updated_at)
ON CONFLICT DO NOTHING`
	return insertUnique(ctx, r.db, query, req, "create requirement")
}

// Update modifies the requirements of a program.
func (r *RequirementRepository) Update(ctx context.Context, req *models.Requirement) error {
	req.UpdatedAt = time.Now().UTC()
	const query = `UPDATE requirements SET min_gpa = :min_gpa, documents = :documents, notes = :notes, updated_at = :updated_at WHERE program_id = :program_id`
	return execNamedOne(ctx, r.db, query, req, "update requirement")
}

// DeleteByProgram removes the requirements of a program.
func (r *RequirementRepository) DeleteByProgram(ctx context.Context, programID string) error {
	return execOne(ctx, r.db, `DELETE FROM requirements WHERE program_id = $1`, "delete requirement", programID)
}
