package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/progress"
)

type enrollmentReader interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
}

type catalogReader interface {
	Catalog(ctx context.Context) ([]models.Course, bool, error)
}

// StudentProgress is the progress report of one student.
type StudentProgress struct {
	StudentID string `json:"studentId"`
	ProgramID string `json:"programId,omitempty"`
	progress.Report
}

// ProgressInput is what the readers returned for one student, after failures
// were replaced by empty collections.
type ProgressInput struct {
	progress.Input
	ProgramID string
	CacheHit  bool
}

// ProgressService gathers enrollment, catalog and structure data and runs the
// progress calculator over it.
type ProgressService struct {
	programs    activeProgramFinder
	enrollments enrollmentReader
	catalog     catalogReader
	structures  structureFinder
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewProgressService constructs the service.
func NewProgressService(programs activeProgramFinder, enrollments enrollmentReader, catalog catalogReader, structures structureFinder, metrics *MetricsService, logger *zap.Logger) *ProgressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{
		programs:    programs,
		enrollments: enrollments,
		catalog:     catalog,
		structures:  structures,
		metrics:     metrics,
		logger:      logger,
	}
}

// Report returns the progress of a student. Reader failures never fail the
// request: the failing collection is replaced by an empty one and logged. The
// bool reports whether the catalog came from cache.
func (s *ProgressService) Report(ctx context.Context, studentID string) (*StudentProgress, bool) {
	start := time.Now()
	in := s.Gather(ctx, studentID)
	report := progress.Compute(in.Input, false)
	s.metrics.ObserveProgress(time.Since(start))
	return &StudentProgress{StudentID: studentID, ProgramID: in.ProgramID, Report: report}, in.CacheHit
}

// Gather fetches the three inputs of the calculator for one student.
func (s *ProgressService) Gather(ctx context.Context, studentID string) ProgressInput {
	log := s.logger.With(zap.String("student_id", studentID))
	out := ProgressInput{}

	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		log.Warn("enrollment reader failed, using empty list", zap.Error(err))
		enrollments = nil
	}
	if enrollments == nil {
		enrollments = []models.Enrollment{}
	}
	out.Enrollments = enrollments

	catalog, hit, err := s.catalog.Catalog(ctx)
	if err != nil {
		log.Warn("catalog reader failed, using empty catalog", zap.Error(err))
		catalog = nil
	}
	if catalog == nil {
		catalog = []models.Course{}
	}
	out.Catalog = catalog
	out.CacheHit = hit

	sp, err := s.programs.FindActiveByStudent(ctx, studentID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Warn("student program reader failed", zap.Error(err))
		}
		return out
	}
	out.ProgramID = sp.ProgramID
	out.CurrentTermLabel = sp.CurrentTerm

	structure, err := s.structures.Find(ctx, sp.ProgramID)
	if err != nil {
		log.Warn("structure reader failed, using no structure", zap.String("program_id", sp.ProgramID), zap.Error(err))
		structure = nil
	}
	out.Structure = structure
	return out
}
