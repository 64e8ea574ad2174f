package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
)

type requirementRepository interface {
	FindByProgram(ctx context.Context, programID string) (*models.Requirement, error)
	Create(ctx context.Context, req *models.Requirement) error
	Update(ctx context.Context, req *models.Requirement) error
	DeleteByProgram(ctx context.Context, programID string) error
}

// RequirementRequest captures admission requirement fields.
type RequirementRequest struct {
	MinGPA    float64  `json:"min_gpa" validate:"gte=0,lte=4"`
	Documents []string `json:"documents" validate:"dive,required"`
	Notes     string   `json:"notes"`
}

// RequirementService manages per-program admission requirements.
type RequirementService struct {
	repo      requirementRepository
	programs  programLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRequirementService constructs the service.
func NewRequirementService(repo requirementRepository, programs programLookup, validate *validator.Validate, logger *zap.Logger) *RequirementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequirementService{repo: repo, programs: programs, validator: validate, logger: logger}
}

// Get returns the requirements of a program.
func (s *RequirementService) Get(ctx context.Context, programID string) (*models.Requirement, error) {
	req, err := s.repo.FindByProgram(ctx, programID)
	if err != nil {
		return nil, lookupError(err, "requirements not found", "failed to load requirements")
	}
	return req, nil
}

// Create stores requirements; a program has at most one set.
func (s *RequirementService) Create(ctx context.Context, programID string, in RequirementRequest) (*models.Requirement, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, validationError(err, "invalid requirement payload")
	}
	if _, err := s.programs.Get(ctx, programID); err != nil {
		return nil, err
	}
	req := &models.Requirement{ProgramID: programID, MinGPA: in.MinGPA, Documents: in.Documents, Notes: in.Notes}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, writeError(err, "requirements already exist for this program", "program not found", "failed to create requirements")
	}
	return req, nil
}

// Update replaces the requirements of a program.
func (s *RequirementService) Update(ctx context.Context, programID string, in RequirementRequest) (*models.Requirement, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, validationError(err, "invalid requirement payload")
	}
	req, err := s.Get(ctx, programID)
	if err != nil {
		return nil, err
	}
	req.MinGPA = in.MinGPA
	req.Documents = in.Documents
	req.Notes = in.Notes
	if err := s.repo.Update(ctx, req); err != nil {
		return nil, writeError(err, "requirements conflict", "requirements not found", "failed to update requirements")
	}
	return req, nil
}

// Delete removes the requirements of a program.
func (s *RequirementService) Delete(ctx context.Context, programID string) error {
	if err := s.repo.DeleteByProgram(ctx, programID); err != nil {
		return lookupError(err, "requirements not found", "failed to delete requirements")
	}
	return nil
}
