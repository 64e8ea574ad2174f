package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

// ProgramStructureRepository stores one term structure per program.
type ProgramStructureRepository struct {
	db *sqlx.DB
}

// NewProgramStructureRepository creates a new repository instance.
func NewProgramStructureRepository(db *sqlx.DB) *ProgramStructureRepository {
	return &ProgramStructureRepository{db: db}
}

// FindByProgram returns the structure of a program or sql.ErrNoRows.
func (r *ProgramStructureRepository) FindByProgram(ctx context.Context, programID string) (*models.ProgramStructure, error) {
	const query = `SELECT program_id, terms, created_at, updated_at FROM program_structures WHERE program_id = $1`
	var structure models.ProgramStructure
	if err := r.db.GetContext(ctx, &structure, query, programID); err != nil {
		return nil, err
	}
	return &structure, nil
}

// Upsert writes the structure, replacing any previous one for the program.
// program_id is the primary key so concurrent writers converge on one row.
func (r *ProgramStructureRepository) Upsert(ctx context.Context, structure *models.ProgramStructure) error {
	now := time.Now().UTC()
	if structure.CreatedAt.IsZero() {
		structure.CreatedAt = now
	}
	structure.UpdatedAt = now

	const query = `INSERT INTO program_structures (program_id, terms, created_at, updated_at)
VALUES (:program_id, :terms, :created_at, :updated_at)
ON CONFLICT (program_id) DO UPDATE SET terms = EXCLUDED.terms, updated_at = EXCLUDED.updated_at
RETURNING created_at`
	rows, err := r.db.NamedQueryContext(ctx, query, structure)
	if err != nil {
		return fmt.Errorf("upsert program structure: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&structure.CreatedAt); err != nil {
			return fmt.Errorf("scan program structure: %w", err)
		}
	}
	return rows.Err()
}

// Delete removes the structure of a program.
func (r *ProgramStructureRepository) Delete(ctx context.Context, programID string) error {
	return execOne(ctx, r.db, `DELETE FROM program_structures WHERE program_id = $1`, "delete program structure", programID)
}
