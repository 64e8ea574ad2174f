package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
)

const catalogCacheKey = "catalog:all"

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	ListAll(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

// CourseRequest captures catalog entry fields.
type CourseRequest struct {
	Code        string `json:"code" validate:"required,max=32"`
	Title       string `json:"title" validate:"required,max=200"`
	Credits     int    `json:"credits" validate:"gte=0,lte=60"`
	Instructor  string `json:"instructor" validate:"omitempty,max=120"`
	Description string `json:"description"`
}

// CourseService manages the global course catalog.
type CourseService struct {
	repo      courseRepository
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService creates the catalog service. cache may be nil.
func NewCourseService(repo courseRepository, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns a page of catalog entries.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list courses")
	}
	return courses, paginate(filter.Page, filter.PageSize, total), nil
}

// Catalog returns every catalog entry. The result is shared by all students
// and served from cache when enabled; the bool reports a cache hit.
func (s *CourseService) Catalog(ctx context.Context) ([]models.Course, bool, error) {
	var cached []models.Course
	if s.cache.Get(ctx, catalogCacheKey, &cached) {
		if cached == nil {
			cached = []models.Course{}
		}
		return cached, true, nil
	}

	courses, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, false, internalError(err, "failed to load course catalog")
	}
	s.cache.Set(ctx, catalogCacheKey, courses, s.cacheTTL)
	return courses, false, nil
}

// Get returns a course by identifier.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "course not found", "failed to load course")
	}
	return course, nil
}

// Create adds a catalog entry; codes are unique.
func (s *CourseService) Create(ctx context.Context, req CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	course := &models.Course{}
	applyCourse(course, req)

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, writeError(err, "course code already exists", "course not found", "failed to create course")
	}
	s.invalidate(ctx)
	return course, nil
}

// Update modifies a catalog entry.
func (s *CourseService) Update(ctx context.Context, id string, req CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyCourse(course, req)

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, writeError(err, "course code already exists", "course not found", "failed to update course")
	}
	s.invalidate(ctx)
	return course, nil
}

// Delete removes a catalog entry. Program structures keep the cached code and
// title of removed courses.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "course in use", "course not found", "failed to delete course")
	}
	s.invalidate(ctx)
	return nil
}

func (s *CourseService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, "catalog:*")
}

func applyCourse(course *models.Course, req CourseRequest) {
	course.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	course.Title = strings.TrimSpace(req.Title)
	course.Credits = req.Credits
	course.Instructor = strings.TrimSpace(req.Instructor)
	course.Description = req.Description
}
