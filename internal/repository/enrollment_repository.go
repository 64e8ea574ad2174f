package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

const enrollmentColumns = `id, student_id, program_id, course_id, term, status, completed, numeric_grade, letter_grade, grade_points, created_at, updated_at`

// EnrollmentRepository provides persistence for course enrollment records.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollment records matching the filter, oldest first.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM course_enrollments WHERE 1=1`
	var args []interface{}
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		query += fmt.Sprintf(" AND student_id = $%d", len(args))
	}
	if filter.ProgramID != "" {
		args = append(args, filter.ProgramID)
		query += fmt.Sprintf(" AND program_id = $%d", len(args))
	}
	if filter.Term != "" {
		args = append(args, filter.Term)
		query += fmt.Sprintf(" AND term = $%d", len(args))
	}
	query += " ORDER BY created_at ASC"

	enrollments := []models.Enrollment{}
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// ListByStudent returns every record of one student. An empty result is an
// empty slice, never nil.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	return r.List(ctx, models.EnrollmentFilter{StudentID: studentID})
}

// FindByID returns one record.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := r.db.GetContext(ctx, &e, `SELECT `+enrollmentColumns+` FROM course_enrollments WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a registered record. The unique index on
// (student_id, course_id) WHERE status IN ('registered','completed') turns a
// repeated enrollment into appErrors.ErrDuplicate.
func (r *EnrollmentRepository) Create(ctx context.Context, e *models.Enrollment) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	const query = `INSERT INTO course_enrollments (id, student_id, program_id, course_id, term, status, completed, numeric_grade, letter_grade, grade_points, created_at, updated_at)
VALUES (:id, :student_id, :program_id, :course_id, :term, :status, :completed, :numeric_grade, :letter_grade, :grade_points, :created_at, :updated_at)
ON CONFLICT DO NOTHING`
	return insertUnique(ctx, r.db, query, e, "create enrollment")
}

// UpdateGrade writes grade fields, the completed flag and status.
func (r *EnrollmentRepository) UpdateGrade(ctx context.Context, e *models.Enrollment) error {
	e.UpdatedAt = time.Now().UTC()
	const query = `UPDATE course_enrollments SET numeric_grade = :numeric_grade, letter_grade = :letter_grade, grade_points = :grade_points,
completed = :completed, status = :status, updated_at = :updated_at WHERE id = :id`
	return execNamedOne(ctx, r.db, query, e, "update enrollment grade")
}

// DeleteRegistered removes a record that has not been completed.
func (r *EnrollmentRepository) DeleteRegistered(ctx context.Context, id string) error {
	const query = `DELETE FROM course_enrollments WHERE id = $1 AND status = 'registered' AND completed = FALSE`
	return execOne(ctx, r.db, query, "delete enrollment", id)
}
