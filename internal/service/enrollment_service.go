package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/progress"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	Create(ctx context.Context, e *models.Enrollment) error
	UpdateGrade(ctx context.Context, e *models.Enrollment) error
	DeleteRegistered(ctx context.Context, id string) error
}

type activeProgramFinder interface {
	FindActiveByStudent(ctx context.Context, studentID string) (*models.StudentProgram, error)
}

// EnrollRequest registers a student in one course of the current term.
type EnrollRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	ProgramID string `json:"program_id" validate:"required"`
	CourseID  string `json:"course_id" validate:"required"`
	Term      string `json:"term"`
}

// GradeRequest records a grade on an enrollment.
type GradeRequest struct {
	NumericGrade *float64 `json:"numeric_grade" validate:"omitempty,gte=0,lte=100"`
	LetterGrade  *string  `json:"letter_grade" validate:"omitempty,max=3"`
	GradePoints  *float64 `json:"grade_points" validate:"omitempty,gte=0,lte=4"`
	Completed    bool     `json:"completed"`
}

// EnrollmentService is the enrollment and grade writer.
type EnrollmentService struct {
	repo       enrollmentRepository
	programs   activeProgramFinder
	structures structureFinder
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewEnrollmentService constructs the service.
func NewEnrollmentService(repo enrollmentRepository, programs activeProgramFinder, structures structureFinder, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, programs: programs, structures: structures, metrics: metrics, validator: validate, logger: logger}
}

// List returns raw enrollment records.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error) {
	enrollments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list enrollments")
	}
	return enrollments, nil
}

// Enroll registers the student in a course of their current term. The same
// gate the progress view shows decides eligibility; the storage constraint
// settles concurrent requests.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid enrollment payload")
	}

	sp, err := s.programs.FindActiveByStudent(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.reject("student has no active program")
		}
		return nil, internalError(err, "failed to load student program")
	}
	if sp.ProgramID != req.ProgramID {
		return nil, s.reject("student is not active in this program")
	}

	termName := req.Term
	if termName == "" {
		termName = sp.CurrentTerm
	}

	structure, err := s.structures.Find(ctx, sp.ProgramID)
	if err != nil {
		return nil, err
	}
	term, ok := structure.FindTerm(termName)
	if !ok {
		return nil, s.reject("term is not part of the program")
	}
	if !termHasCourse(term, req.CourseID) {
		return nil, s.reject("course is not offered in this term")
	}

	existing, err := s.repo.ListByStudent(ctx, req.StudentID)
	if err != nil {
		return nil, internalError(err, "failed to load enrollments")
	}
	temporal := progress.ClassifyTerm(termName, sp.CurrentTerm)
	isEnrolled := progress.IsEnrolled(existing, req.CourseID)
	status := progress.ComputeCourseStatus(progress.MatchEnrollment(existing, req.CourseID), isEnrolled, temporal == progress.TemporalFuture)
	if !progress.CanEnroll(temporal == progress.TemporalCurrent, isEnrolled, false, status.Label) {
		if isEnrolled {
			s.metrics.RecordEnrollment("duplicate")
			return nil, appErrors.Clone(appErrors.ErrConflict, "already enrolled in this course")
		}
		return nil, s.reject("only the current term accepts enrollments")
	}

	enrollment := &models.Enrollment{
		StudentID: req.StudentID,
		ProgramID: sp.ProgramID,
		CourseID:  req.CourseID,
		Term:      termName,
		Status:    models.EnrollmentRegistered,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, appErrors.ErrDuplicate) {
			s.metrics.RecordEnrollment("duplicate")
			return nil, appErrors.Clone(appErrors.ErrConflict, "already enrolled in this course")
		}
		return nil, internalError(err, "failed to create enrollment")
	}
	s.metrics.RecordEnrollment("created")
	s.logger.Info("course enrollment created",
		zap.String("student_id", enrollment.StudentID),
		zap.String("course_id", enrollment.CourseID),
		zap.String("term", enrollment.Term),
	)
	return enrollment, nil
}

// SetGrade replaces all grade fields with the request's values; an omitted
// grade field clears the stored one. Completed moves the status to completed
// and clearing it moves the record back to registered.
func (s *EnrollmentService) SetGrade(ctx context.Context, id string, req GradeRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid grade payload")
	}
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "enrollment not found", "failed to load enrollment")
	}

	enrollment.NumericGrade = req.NumericGrade
	enrollment.LetterGrade = req.LetterGrade
	enrollment.GradePoints = req.GradePoints
	enrollment.Completed = req.Completed
	if req.Completed {
		enrollment.Status = models.EnrollmentCompleted
	} else {
		enrollment.Status = models.EnrollmentRegistered
	}

	if err := s.repo.UpdateGrade(ctx, enrollment); err != nil {
		return nil, writeError(err, "enrollment conflict", "enrollment not found", "failed to record grade")
	}
	return enrollment, nil
}

// Drop removes a registered enrollment. Completed records are kept.
func (s *EnrollmentService) Drop(ctx context.Context, id string) error {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, "enrollment not found", "failed to load enrollment")
	}
	if enrollment.IsDone() {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "completed enrollments cannot be dropped")
	}
	if err := s.repo.DeleteRegistered(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "enrollment can no longer be dropped")
		}
		return internalError(err, "failed to drop enrollment")
	}
	return nil
}

func (s *EnrollmentService) reject(message string) error {
	s.metrics.RecordEnrollment("rejected")
	return appErrors.Clone(appErrors.ErrNotEnrollable, message)
}

func termHasCourse(term *models.StructureTerm, courseID string) bool {
	for _, ref := range term.Courses {
		if ref.CourseID == courseID {
			return true
		}
	}
	return false
}
