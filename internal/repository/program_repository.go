package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

const programColumns = `id, code, name, description, level, duration_terms, total_credits, active, created_at, updated_at`

// ProgramRepository handles persistence for programs.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository creates a new repository instance.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// List returns programs matching filters with the total count.
func (r *ProgramRepository) List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, int, error) {
	base := "FROM programs WHERE 1=1"
	var args []interface{}

	if filter.Level != "" {
		args = append(args, filter.Level)
		base += fmt.Sprintf(" AND level = $%d", len(args))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		base += fmt.Sprintf(" AND active = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		base += fmt.Sprintf(" AND (LOWER(code) LIKE $%d OR LOWER(name) LIKE $%d)", len(args), len(args))
	}

	sortBy, order := sortClause(filter.SortBy, filter.SortOrder, map[string]bool{
		"code":       true,
		"name":       true,
		"created_at": true,
	}, "created_at")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", programColumns, base, sortBy, order, limit, offset)
	var programs []models.Program
	if err := r.db.SelectContext(ctx, &programs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list programs: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count programs: %w", err)
	}
	return programs, total, nil
}

// FindByID returns a program by id.
func (r *ProgramRepository) FindByID(ctx context.Context, id string) (*models.Program, error) {
	var program models.Program
	if err := r.db.GetContext(ctx, &program, `SELECT `+programColumns+` FROM programs WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &program, nil
}

// Create persists a new program; a taken code yields appErrors.ErrDuplicate.
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	if program.ID == "" {
		program.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now

	const query = `INSERT INTO programs (id, code, name, description, level, duration_terms, total_credits, active, created_at, updated_at)
VALUES (:id, :code, :name, :description, :level, :duration_terms, :total_credits, :active, :created_at, :updated_at)
ON CONFLICT DO NOTHING`
	return insertUnique(ctx, r.db, query, program, "create program")
}

// Update modifies a program.
func (r *ProgramRepository) Update(ctx context.Context, program *models.Program) error {
	program.UpdatedAt = time.Now().UTC()
	const query = `UPDATE programs SET code = :code, name = :name, description = :description, level = :level,
duration_terms = :duration_terms, total_credits = :total_credits, active = :active, updated_at = :updated_at WHERE id = :id`
	return execNamedOne(ctx, r.db, query, program, "update program")
}

// Delete removes a program record.
func (r *ProgramRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, `DELETE FROM programs WHERE id = $1`, "delete program", id)
}

// CountActiveStudents returns how many students currently follow the program.
func (r *ProgramRepository) CountActiveStudents(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM student_programs WHERE program_id = $1 AND status = 'active'`, id); err != nil {
		return 0, fmt.Errorf("count program students: %w", err)
	}
	return count, nil
}
