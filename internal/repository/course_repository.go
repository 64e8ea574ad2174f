package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sis-api/internal/models"
)

const courseColumns = `id, code, title, credits, instructor, description, created_at, updated_at`

// CourseRepository handles persistence for the course catalog.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new repository instance.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns a page of catalog entries.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	base := "FROM courses WHERE 1=1"
	var args []interface{}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		base += fmt.Sprintf(" AND (LOWER(code) LIKE $%d OR LOWER(title) LIKE $%d)", len(args), len(args))
	}

	sortBy, order := sortClause(filter.SortBy, filter.SortOrder, map[string]bool{
		"code":       true,
		"title":      true,
		"credits":    true,
		"created_at": true,
	}, "code")
	if filter.SortOrder == "" {
		order = "ASC"
	}
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", courseColumns, base, sortBy, order, limit, offset)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// ListAll returns the whole catalog ordered by code.
func (r *CourseRepository) ListAll(ctx context.Context) ([]models.Course, error) {
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, `SELECT `+courseColumns+` FROM courses ORDER BY code ASC`); err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return courses, nil
}

// FindByID returns a course by id.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.db.GetContext(ctx, &course, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByIDs returns the courses whose id is in ids.
func (r *CourseRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	courses := []models.Course{}
	if len(ids) == 0 {
		return courses, nil
	}
	if err := r.db.SelectContext(ctx, &courses, `SELECT `+courseColumns+` FROM courses WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find courses by ids: %w", err)
	}
	return courses, nil
}

// Create persists a new catalog entry; a taken code yields appErrors.ErrDuplicate.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, code, title, credits, instructor, description, created_at, updated_at)
VALUES (:id, :code, :title, :credits, :instructor, :description, :created_at, :updated_at)
ON CONFLICT DO NOTHING`
	return insertUnique(ctx, r.db, query, course, "create course")
}

// Update modifies a catalog entry.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET code = :code, title = :title, credits = :credits, instructor = :instructor,
description = :description, updated_at = :updated_at WHERE id = :id`
	return execNamedOne(ctx, r.db, query, course, "update course")
}

// Delete removes a catalog entry.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, `DELETE FROM courses WHERE id = $1`, "delete course", id)
}
