package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type programStructureRepository interface {
	FindByProgram(ctx context.Context, programID string) (*models.ProgramStructure, error)
	Upsert(ctx context.Context, structure *models.ProgramStructure) error
	Delete(ctx context.Context, programID string) error
}

type programLookup interface {
	Get(ctx context.Context, id string) (*models.Program, error)
}

type courseLookup interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Course, error)
}

// StructureCourseRequest places a catalog course in a term.
type StructureCourseRequest struct {
	CourseID string `json:"course_id" validate:"required"`
	Order    int    `json:"order" validate:"gte=0"`
}

// StructureTermRequest describes one term.
type StructureTermRequest struct {
	TermName string                   `json:"term_name" validate:"required,max=64"`
	Courses  []StructureCourseRequest `json:"courses" validate:"dive"`
}

// StructureRequest replaces the whole term structure of a program.
type StructureRequest struct {
	Terms []StructureTermRequest `json:"terms" validate:"required,min=1,dive"`
}

// ProgramStructureService manages program term structures.
type ProgramStructureService struct {
	repo      programStructureRepository
	programs  programLookup
	courses   courseLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgramStructureService constructs the service.
func NewProgramStructureService(repo programStructureRepository, programs programLookup, courses courseLookup, validate *validator.Validate, logger *zap.Logger) *ProgramStructureService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramStructureService{repo: repo, programs: programs, courses: courses, validator: validate, logger: logger}
}

// Get returns the structure of a program.
func (s *ProgramStructureService) Get(ctx context.Context, programID string) (*models.ProgramStructure, error) {
	structure, err := s.repo.FindByProgram(ctx, programID)
	if err != nil {
		return nil, lookupError(err, "program structure not found", "failed to load program structure")
	}
	return structure, nil
}

// Find returns the structure of a program or nil when it has none.
func (s *ProgramStructureService) Find(ctx context.Context, programID string) (*models.ProgramStructure, error) {
	structure, err := s.repo.FindByProgram(ctx, programID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, internalError(err, "failed to load program structure")
	}
	return structure, nil
}

// Save validates the course references against the catalog and stores the
// structure, caching each course's code and title in the reference.
func (s *ProgramStructureService) Save(ctx context.Context, programID string, req StructureRequest) (*models.ProgramStructure, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid program structure payload")
	}
	if _, err := s.programs.Get(ctx, programID); err != nil {
		return nil, err
	}

	ids, err := collectCourseIDs(req)
	if err != nil {
		return nil, err
	}
	found, err := s.courses.FindByIDs(ctx, ids)
	if err != nil {
		return nil, internalError(err, "failed to load courses")
	}
	catalog := make(map[string]models.Course, len(found))
	for _, c := range found {
		catalog[c.ID] = c
	}

	structure := &models.ProgramStructure{ProgramID: programID, Terms: make(models.StructureTerms, 0, len(req.Terms))}
	for _, term := range req.Terms {
		st := models.StructureTerm{TermName: strings.TrimSpace(term.TermName), Courses: make([]models.CourseRef, 0, len(term.Courses))}
		for i, ref := range term.Courses {
			course, ok := catalog[ref.CourseID]
			if !ok {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("course %s does not exist", ref.CourseID))
			}
			order := ref.Order
			if order == 0 {
				order = i + 1
			}
			st.Courses = append(st.Courses, models.CourseRef{
				CourseID:    course.ID,
				CourseCode:  course.Code,
				CourseTitle: course.Title,
				Order:       order,
			})
		}
		structure.Terms = append(structure.Terms, st)
	}

	if err := s.repo.Upsert(ctx, structure); err != nil {
		return nil, internalError(err, "failed to save program structure")
	}
	s.logger.Info("program structure saved", zap.String("program_id", programID), zap.Int("terms", len(structure.Terms)))
	return structure, nil
}

// Delete removes the structure of a program.
func (s *ProgramStructureService) Delete(ctx context.Context, programID string) error {
	if err := s.repo.Delete(ctx, programID); err != nil {
		return lookupError(err, "program structure not found", "failed to delete program structure")
	}
	return nil
}

func collectCourseIDs(req StructureRequest) ([]string, error) {
	terms := make(map[string]struct{}, len(req.Terms))
	seen := make(map[string]struct{})
	var ids []string
	for _, term := range req.Terms {
		name := strings.ToLower(strings.TrimSpace(term.TermName))
		if _, dup := terms[name]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate term %q", term.TermName))
		}
		terms[name] = struct{}{}
		for _, ref := range term.Courses {
			if _, dup := seen[ref.CourseID]; dup {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("course %s appears more than once", ref.CourseID))
			}
			seen[ref.CourseID] = struct{}{}
			ids = append(ids, ref.CourseID)
		}
	}
	return ids, nil
}
