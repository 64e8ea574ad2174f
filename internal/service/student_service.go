package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
)

type studentRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindStudentDetail(ctx context.Context, id string) (*models.StudentDetail, error)
}

// StudentService exposes student accounts to administrators.
type StudentService struct {
	repo   studentRepository
	logger *zap.Logger
}

// NewStudentService constructs the service.
func NewStudentService(repo studentRepository, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, logger: logger}
}

// List returns a page of student accounts.
func (s *StudentService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	role := models.RoleStudent
	filter.Role = &role
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list students")
	}
	return students, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns one student with their current program.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentDetail, error) {
	detail, err := s.repo.FindStudentDetail(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	return detail, nil
}
