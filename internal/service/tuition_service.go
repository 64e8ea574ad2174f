package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
)

type tuitionRepository interface {
	FindByProgram(ctx context.Context, programID string) (*models.Tuition, error)
	Create(ctx context.Context, tuition *models.Tuition) error
	Update(ctx context.Context, tuition *models.Tuition) error
	DeleteByProgram(ctx context.Context, programID string) error
}

// TuitionRequest captures fee schedule fields.
type TuitionRequest struct {
	AmountPerCredit float64 `json:"amount_per_credit" validate:"gte=0"`
	RegistrationFee float64 `json:"registration_fee" validate:"gte=0"`
	Currency        string  `json:"currency" validate:"required,len=3,alpha"`
}

// TuitionService manages per-program fee schedules.
type TuitionService struct {
	repo      tuitionRepository
	programs  programLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTuitionService constructs the service.
func NewTuitionService(repo tuitionRepository, programs programLookup, validate *validator.Validate, logger *zap.Logger) *TuitionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TuitionService{repo: repo, programs: programs, validator: validate, logger: logger}
}

// Get returns the fee schedule of a program.
func (s *TuitionService) Get(ctx context.Context, programID string) (*models.Tuition, error) {
	tuition, err := s.repo.FindByProgram(ctx, programID)
	if err != nil {
		return nil, lookupError(err, "tuition not found", "failed to load tuition")
	}
	return tuition, nil
}

// Create stores a fee schedule; a program has at most one.
func (s *TuitionService) Create(ctx context.Context, programID string, in TuitionRequest) (*models.Tuition, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, validationError(err, "invalid tuition payload")
	}
	if _, err := s.programs.Get(ctx, programID); err != nil {
		return nil, err
	}
	tuition := &models.Tuition{
		ProgramID:       programID,
		AmountPerCredit: in.AmountPerCredit,
		RegistrationFee: in.RegistrationFee,
		Currency:        strings.ToUpper(in.Currency),
	}
	if err := s.repo.Create(ctx, tuition); err != nil {
		return nil, writeError(err, "tuition already exists for this program", "program not found", "failed to create tuition")
	}
	return tuition, nil
}

// Update replaces the fee schedule of a program.
func (s *TuitionService) Update(ctx context.Context, programID string, in TuitionRequest) (*models.Tuition, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, validationError(err, "invalid tuition payload")
	}
	tuition, err := s.Get(ctx, programID)
	if err != nil {
		return nil, err
	}
	tuition.AmountPerCredit = in.AmountPerCredit
	tuition.RegistrationFee = in.RegistrationFee
	tuition.Currency = strings.ToUpper(in.Currency)
	if err := s.repo.Update(ctx, tuition); err != nil {
		return nil, writeError(err, "tuition conflict", "tuition not found", "failed to update tuition")
	}
	return tuition, nil
}

// Delete removes the fee schedule of a program.
func (s *TuitionService) Delete(ctx context.Context, programID string) error {
	if err := s.repo.DeleteByProgram(ctx, programID); err != nil {
		return lookupError(err, "tuition not found", "failed to delete tuition")
	}
	return nil
}
