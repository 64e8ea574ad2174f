package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type programRepository interface {
	List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, int, error)
	FindByID(ctx context.Context, id string) (*models.Program, error)
	Create(ctx context.Context, program *models.Program) error
	Update(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id string) error
	CountActiveStudents(ctx context.Context, id string) (int, error)
}

// ProgramRequest captures fields for creating or updating programs.
type ProgramRequest struct {
	Code          string `json:"code" validate:"required,max=32"`
	Name          string `json:"name" validate:"required,max=160"`
	Description   string `json:"description"`
	Level         string `json:"level" validate:"omitempty,max=64"`
	DurationTerms int    `json:"duration_terms" validate:"gte=0"`
	TotalCredits  int    `json:"total_credits" validate:"gte=0"`
	Active        *bool  `json:"active"`
}

// ProgramService handles program workflows.
type ProgramService struct {
	repo      programRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgramService creates a new program service.
func NewProgramService(repo programRepository, validate *validator.Validate, logger *zap.Logger) *ProgramService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated programs.
func (s *ProgramService) List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, *models.Pagination, error) {
	programs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list programs")
	}
	return programs, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns a program by identifier.
func (s *ProgramService) Get(ctx context.Context, id string) (*models.Program, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "program not found", "failed to load program")
	}
	return program, nil
}

// Create adds a program; codes are unique.
func (s *ProgramService) Create(ctx context.Context, req ProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid program payload")
	}
	program := &models.Program{Active: true}
	applyProgram(program, req)

	if err := s.repo.Create(ctx, program); err != nil {
		return nil, writeError(err, "program code already exists", "program not found", "failed to create program")
	}
	s.logger.Info("program created", zap.String("program_id", program.ID), zap.String("code", program.Code))
	return program, nil
}

// Update modifies a program.
func (s *ProgramService) Update(ctx context.Context, id string, req ProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid program payload")
	}
	program, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProgram(program, req)

	if err := s.repo.Update(ctx, program); err != nil {
		return nil, writeError(err, "program code already exists", "program not found", "failed to update program")
	}
	return program, nil
}

// Delete removes a program nobody currently follows.
func (s *ProgramService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountActiveStudents(ctx, id)
	if err != nil {
		return internalError(err, "failed to check program students")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "program has active students")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "program in use", "program not found", "failed to delete program")
	}
	return nil
}

func applyProgram(program *models.Program, req ProgramRequest) {
	program.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	program.Name = strings.TrimSpace(req.Name)
	program.Description = req.Description
	program.Level = req.Level
	program.DurationTerms = req.DurationTerms
	program.TotalCredits = req.TotalCredits
	if req.Active != nil {
		program.Active = *req.Active
	}
}
