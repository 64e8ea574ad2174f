package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

const studentProgramColumns = `id, student_id, program_id, current_term, status, created_at, updated_at`

// StudentProgramRepository persists program memberships.
type StudentProgramRepository struct {
	db *sqlx.DB
}

// NewStudentProgramRepository creates a new repository instance.
func NewStudentProgramRepository(db *sqlx.DB) *StudentProgramRepository {
	return &StudentProgramRepository{db: db}
}

// FindActiveByStudent returns the active membership of a student or sql.ErrNoRows.
func (r *StudentProgramRepository) FindActiveByStudent(ctx context.Context, studentID string) (*models.StudentProgram, error) {
	query := `SELECT ` + studentProgramColumns + ` FROM student_programs WHERE student_id = $1 AND status = 'active' LIMIT 1`
	var sp models.StudentProgram
	if err := r.db.GetContext(ctx, &sp, query, studentID); err != nil {
		return nil, err
	}
	return &sp, nil
}

// FindByID returns a membership by id.
func (r *StudentProgramRepository) FindByID(ctx context.Context, id string) (*models.StudentProgram, error) {
	var sp models.StudentProgram
	if err := r.db.GetContext(ctx, &sp, `SELECT `+studentProgramColumns+` FROM student_programs WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &sp, nil
}

// Create inserts a membership. The partial unique index on (student_id)
// WHERE status = 'active' rejects a second active row with appErrors.ErrDuplicate.
func (r *StudentProgramRepository) Create(ctx context.Context, sp *models.StudentProgram) error {
	if sp.ID == "" {
		sp.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	sp.CreatedAt = now
	sp.UpdatedAt = now

	const query = `INSERT INTO student_programs (id, student_id, program_id, current_term, status, created_at, updated_at)
VALUES (:id, :student_id, :program_id, :current_term, :status, :created_at, :updated_at)
ON CONFLICT DO NOTHING`
	return insertUnique(ctx, r.db, query, sp, "create student program")
}

// Update writes current_term and status.
func (r *StudentProgramRepository) Update(ctx context.Context, sp *models.StudentProgram) error {
	sp.UpdatedAt = time.Now().UTC()
	const query = `UPDATE student_programs SET current_term = :current_term, status = :status, updated_at = :updated_at WHERE id = :id`
	return execNamedOne(ctx, r.db, query, sp, "update student program")
}
