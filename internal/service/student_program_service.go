package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type studentProgramRepository interface {
	FindActiveByStudent(ctx context.Context, studentID string) (*models.StudentProgram, error)
	FindByID(ctx context.Context, id string) (*models.StudentProgram, error)
	Create(ctx context.Context, sp *models.StudentProgram) error
	Update(ctx context.Context, sp *models.StudentProgram) error
}

type structureFinder interface {
	Find(ctx context.Context, programID string) (*models.ProgramStructure, error)
}

// JoinProgramRequest enrolls a student in a program.
type JoinProgramRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	ProgramID string `json:"program_id" validate:"required"`
}

// UpdateStudentProgramRequest moves a student through a program.
type UpdateStudentProgramRequest struct {
	CurrentTerm *string                      `json:"current_term" validate:"omitempty"`
	Status      *models.StudentProgramStatus `json:"status" validate:"omitempty,oneof=active completed withdrawn"`
}

// StudentProgramService manages program memberships.
type StudentProgramService struct {
	repo       studentProgramRepository
	programs   programLookup
	structures structureFinder
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewStudentProgramService constructs the service.
func NewStudentProgramService(repo studentProgramRepository, programs programLookup, structures structureFinder, validate *validator.Validate, logger *zap.Logger) *StudentProgramService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentProgramService{repo: repo, programs: programs, structures: structures, validator: validate, logger: logger}
}

// Join places the student in the first term of the program. A student has
// at most one active program.
func (s *StudentProgramService) Join(ctx context.Context, req JoinProgramRequest) (*models.StudentProgram, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid program enrollment payload")
	}
	program, err := s.programs.Get(ctx, req.ProgramID)
	if err != nil {
		return nil, err
	}
	if !program.Active {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "program is not accepting students")
	}
	structure, err := s.structures.Find(ctx, program.ID)
	if err != nil {
		return nil, err
	}
	firstTerm := structure.FirstTermName()
	if firstTerm == "" {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "program has no term structure")
	}

	sp := &models.StudentProgram{
		StudentID:   req.StudentID,
		ProgramID:   program.ID,
		CurrentTerm: firstTerm,
		Status:      models.StudentProgramActive,
	}
	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, writeError(err, "student already has an active program", "student not found", "failed to join program")
	}
	s.logger.Info("student joined program", zap.String("student_id", sp.StudentID), zap.String("program_id", sp.ProgramID))
	return sp, nil
}

// Active returns the active membership of a student.
func (s *StudentProgramService) Active(ctx context.Context, studentID string) (*models.StudentProgram, error) {
	sp, err := s.repo.FindActiveByStudent(ctx, studentID)
	if err != nil {
		return nil, lookupError(err, "student has no active program", "failed to load student program")
	}
	return sp, nil
}

// Update changes the current term or status. The term must exist in the
// program structure.
func (s *StudentProgramService) Update(ctx context.Context, id string, req UpdateStudentProgramRequest) (*models.StudentProgram, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student program payload")
	}
	sp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student program not found", "failed to load student program")
	}

	if req.CurrentTerm != nil {
		structure, err := s.structures.Find(ctx, sp.ProgramID)
		if err != nil {
			return nil, err
		}
		if _, ok := structure.FindTerm(*req.CurrentTerm); !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("term %q is not part of the program", *req.CurrentTerm))
		}
		sp.CurrentTerm = *req.CurrentTerm
	}
	if req.Status != nil {
		sp.Status = *req.Status
	}

	if err := s.repo.Update(ctx, sp); err != nil {
		if errors.Is(err, appErrors.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student already has an active program")
		}
		return nil, lookupError(err, "student program not found", "failed to update student program")
	}
	return sp, nil
}
