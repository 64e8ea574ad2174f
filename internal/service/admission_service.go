package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type admissionRepository interface {
	List(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, int, error)
	FindByID(ctx context.Context, id string) (*models.Admission, error)
	Create(ctx context.Context, admission *models.Admission) error
	UpdateStatus(ctx context.Context, id string, status models.AdmissionStatus) error
	Delete(ctx context.Context, id string) error
}

// AdmissionRequest is a public application.
type AdmissionRequest struct {
	FullName  string `json:"full_name" validate:"required,max=120"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
	ProgramID string `json:"program_id" validate:"required"`
	Message   string `json:"message" validate:"max=5000"`
}

// AdmissionDecisionRequest moves an application out of pending.
type AdmissionDecisionRequest struct {
	Status models.AdmissionStatus `json:"status" validate:"required,oneof=accepted rejected"`
}

// AdmissionService manages admission applications.
type AdmissionService struct {
	repo      admissionRepository
	programs  programLookup
	queue     jobEnqueuer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAdmissionService constructs the service. queue may be nil.
func NewAdmissionService(repo admissionRepository, programs programLookup, queue jobEnqueuer, validate *validator.Validate, logger *zap.Logger) *AdmissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdmissionService{repo: repo, programs: programs, queue: queue, validator: validate, logger: logger}
}

// Submit stores a pending application for an existing program.
func (s *AdmissionService) Submit(ctx context.Context, req AdmissionRequest) (*models.Admission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid admission payload")
	}
	if _, err := s.programs.Get(ctx, req.ProgramID); err != nil {
		return nil, err
	}
	admission := &models.Admission{
		FullName:  strings.TrimSpace(req.FullName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		ProgramID: req.ProgramID,
		Message:   req.Message,
		Status:    models.AdmissionPending,
	}
	if err := s.repo.Create(ctx, admission); err != nil {
		return nil, internalError(err, "failed to store admission")
	}
	enqueueNotification(s.queue, s.logger, JobAdmissionNotify, admission.ID, *admission)
	return admission, nil
}

// List returns applications for review.
func (s *AdmissionService) List(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, *models.Pagination, error) {
	admissions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list admissions")
	}
	return admissions, paginate(filter.Page, filter.PageSize, total), nil
}

// Decide accepts or rejects a pending application.
func (s *AdmissionService) Decide(ctx context.Context, id string, req AdmissionDecisionRequest) (*models.Admission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid admission status")
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, internalError(err, "failed to update admission")
		}
		existing, findErr := s.repo.FindByID(ctx, id)
		if findErr != nil {
			return nil, lookupError(findErr, "admission not found", "failed to load admission")
		}
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "admission already "+string(existing.Status))
	}
	admission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "admission not found", "failed to load admission")
	}
	s.logger.Info("admission decided", zap.String("admission_id", id), zap.String("status", string(req.Status)))
	return admission, nil
}

// Delete removes an application.
func (s *AdmissionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "admission not found", "failed to delete admission")
	}
	return nil
}
