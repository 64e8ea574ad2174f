package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/progress"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/export"
)

type studentLookup interface {
	Get(ctx context.Context, id string) (*models.StudentDetail, error)
}

type progressGatherer interface {
	Gather(ctx context.Context, studentID string) ProgressInput
}

// Transcript is a rendered transcript document.
type Transcript struct {
	Filename    string
	ContentType string
	Content     []byte
}

// TranscriptService renders course history and overview as CSV or PDF.
type TranscriptService struct {
	students  studentLookup
	progress  progressGatherer
	renderers map[string]export.Renderer
	logger    *zap.Logger
}

// NewTranscriptService constructs the service with CSV and PDF renderers.
func NewTranscriptService(students studentLookup, gatherer progressGatherer, logger *zap.Logger) *TranscriptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptService{
		students: students,
		progress: gatherer,
		renderers: map[string]export.Renderer{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
		logger: logger,
	}
}

// Render builds the transcript of a student in the given format.
func (s *TranscriptService) Render(ctx context.Context, studentID, format string) (*Transcript, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported transcript format %q", format))
	}

	student, err := s.students.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}

	in := s.progress.Gather(ctx, studentID)
	data := BuildTranscriptDataset(student, in.Input)

	content, err := renderer.Render(data)
	if err != nil {
		return nil, internalError(err, "failed to render transcript")
	}
	return &Transcript{
		Filename:    fmt.Sprintf("transcript-%s.%s", studentID, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

// BuildTranscriptDataset lists registered and completed enrollments with the
// overview as summary lines.
func BuildTranscriptDataset(student *models.StudentDetail, in progress.Input) export.Dataset {
	overview := progress.ComputeOverview(in.Enrollments, in.Catalog)
	catalog := make(map[string]models.Course, len(in.Catalog))
	for _, c := range in.Catalog {
		catalog[c.ID] = c
	}

	data := export.Dataset{
		Title: "Academic Transcript",
		Summary: []export.SummaryLine{
			{Label: "Student", Value: student.FullName},
			{Label: "Email", Value: student.Email},
			{Label: "Total credits", Value: strconv.Itoa(overview.TotalCredits)},
			{Label: "Completed credits", Value: strconv.Itoa(overview.CompletedCredits)},
			{Label: "Remaining credits", Value: strconv.Itoa(overview.RemainingCredits)},
			{Label: "GPA", Value: strconv.FormatFloat(overview.GPA, 'f', 2, 64)},
		},
		Headers: []string{"Term", "Code", "Title", "Credits", "Status", "Grade", "Points"},
	}
	if in.CurrentTermLabel != "" {
		data.Summary = append(data.Summary, export.SummaryLine{Label: "Current term", Value: in.CurrentTermLabel})
	}

	for _, e := range in.Enrollments {
		if !e.IsActiveOrDone() {
			continue
		}
		course := catalog[e.CourseID]
		code := course.Code
		if code == "" {
			code = e.CourseID
		}
		status := string(models.EnrollmentRegistered)
		if e.IsDone() {
			status = string(models.EnrollmentCompleted)
		}
		row := map[string]string{
			"Term":    e.Term,
			"Code":    code,
			"Title":   course.Title,
			"Credits": strconv.Itoa(course.Credits),
			"Status":  status,
		}
		if e.LetterGrade != nil {
			row["Grade"] = *e.LetterGrade
		}
		if e.GradePoints != nil {
			row["Points"] = strconv.FormatFloat(*e.GradePoints, 'f', 2, 64)
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}
