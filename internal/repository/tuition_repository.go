package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

// TuitionRepository persists fee schedules, one row per program.
type TuitionRepository struct {
	db *sqlx.DB
}

// NewTuitionRepository creates a new repository instance.
func NewTuitionRepository(db *sqlx.DB) *TuitionRepository {
	return &TuitionRepository{db: db}
}

// FindByProgram returns the tuition of a program or sql.ErrNoRows.
func (r *TuitionRepository) FindByProgram(ctx context.Context, programID string) (*models.Tuition, error) {
	const query = `SELECT id, program_id, amount_per_credit, registration_fee, currency, created_at, updated_at FROM tuitions WHERE program_id = $1`
	var tuition models.Tuition
	if err := r.db.GetContext(ctx, &tuition, query, programID); err != nil {
		return nil, err
	}
	return &tuition, nil
}

// Create inserts a fee schedule; a second one for the program yields appErrors.ErrDuplicate.
func (r *TuitionRepository) Create(ctx context.Context, tuition *models.Tuition) error {
	if tuition.ID == "" {
		tuition.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	tuition.CreatedAt = now
	tuition.UpdatedAt = now

	const query = `INSERT INTO tuitions (id, program_id, amount_per_credit, registration_fee, currency, created_at, updated_at)
VALUES (:id, :program_id, :amount_per_credit, :registration_fee, :currency, :created_at, :updated_at)
ON CONFLICT DO NOTHING`
	return insertUnique(ctx, r.db, query, tuition, "create tuition")
}

// Update modifies the tuition of a program.
func (r *TuitionRepository) Update(ctx context.Context, tuition *models.Tuition) error {
	tuition.UpdatedAt = time.Now().UTC()
	const query = `UPDATE tuitions SET amount_per_credit = :amount_per_credit, registration_fee = :registration_fee,
currency = :currency, updated_at = :updated_at WHERE program_id = :program_id`
	return execNamedOne(ctx, r.db, query, tuition, "update tuition")
}

// DeleteByProgram removes the tuition of a program.
func (r *TuitionRepository) DeleteByProgram(ctx context.Context, programID string) error {
	return execOne(ctx, r.db, `DELETE FROM tuitions WHERE program_id = $1`, "delete tuition", programID)
}
