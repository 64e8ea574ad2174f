package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

const admissionColumns = `id, full_name, email, phone, program_id, message, status, created_at, updated_at`

// AdmissionRepository persists admission applications.
type AdmissionRepository struct {
	db *sqlx.DB
}

// NewAdmissionRepository creates a new repository instance.
func NewAdmissionRepository(db *sqlx.DB) *AdmissionRepository {
	return &AdmissionRepository{db: db}
}

// List returns applications, newest first.
func (r *AdmissionRepository) List(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, int, error) {
	base := "FROM admissions WHERE 1=1"
	var args []interface{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		base += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.ProgramID != "" {
		args = append(args, filter.ProgramID)
		base += fmt.Sprintf(" AND program_id = $%d", len(args))
	}
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", admissionColumns, base, limit, offset)
	var admissions []models.Admission
	if err := r.db.SelectContext(ctx, &admissions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list admissions: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count admissions: %w", err)
	}
	return admissions, total, nil
}

// FindByID returns an application by id.
func (r *AdmissionRepository) FindByID(ctx context.Context, id string) (*models.Admission, error) {
	var admission models.Admission
	if err := r.db.GetContext(ctx, &admission, `SELECT `+admissionColumns+` FROM admissions WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &admission, nil
}

// Create stores a new application.
func (r *AdmissionRepository) Create(ctx context.Context, admission *models.Admission) error {
	if admission.ID == "" {
		admission.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	admission.CreatedAt = now
	admission.UpdatedAt = now

	const query = `INSERT INTO admissions (id, full_name, email, phone, program_id, message, status, created_at, updated_at)
VALUES (:id, :full_name, :email, :phone, :program_id, :message, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, admission); err != nil {
		return fmt.Errorf("create admission: %w", err)
	}
	return nil
}

// UpdateStatus moves a pending application to a decision. Applications that
// were already decided are left untouched and reported as sql.ErrNoRows.
func (r *AdmissionRepository) UpdateStatus(ctx context.Context, id string, status models.AdmissionStatus) error {
	const query = `UPDATE admissions SET status = $2, updated_at = $3 WHERE id = $1 AND status = 'pending'`
	return execOne(ctx, r.db, query, "update admission status", id, status, time.Now().UTC())
}

// Delete removes an application.
func (r *AdmissionRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, `DELETE FROM admissions WHERE id = $1`, "delete admission", id)
}
