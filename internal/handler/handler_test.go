package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/middleware"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/progress"
	"github.com/noah-isme/sis-api/internal/service"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Item    map[string]interface{} `json:"item"`
	Items   []interface{}          `json:"items"`
	Meta    map[string]interface{} `json:"meta"`
}

func newTestContext(method, target string, body interface{}, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

var (
	studentClaims = &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent}
	adminClaims   = &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}
)

type fakeEnrollmentSrv struct {
	lastFilter models.EnrollmentFilter
	enrollErr  error
	enrolled   []service.EnrollRequest
}

func (f *fakeEnrollmentSrv) List(_ context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error) {
	f.lastFilter = filter
	return nil, nil
}

func (f *fakeEnrollmentSrv) Enroll(_ context.Context, req service.EnrollRequest) (*models.Enrollment, error) {
	if f.enrollErr != nil {
		return nil, f.enrollErr
	}
	f.enrolled = append(f.enrolled, req)
	return &models.Enrollment{ID: "e1", StudentID: req.StudentID, CourseID: req.CourseID, Status: models.EnrollmentRegistered}, nil
}

func (f *fakeEnrollmentSrv) SetGrade(context.Context, string, service.GradeRequest) (*models.Enrollment, error) {
	return &models.Enrollment{ID: "e1", Status: models.EnrollmentCompleted, Completed: true}, nil
}

func (f *fakeEnrollmentSrv) Drop(context.Context, string) error { return nil }

func TestEnrollmentHandlerEnrollForSelf(t *testing.T) {
	srv := &fakeEnrollmentSrv{}
	h := NewEnrollmentHandler(srv)

	c, rec := newTestContext(http.MethodPost, "/enrollments", service.EnrollRequest{StudentID: "stu-1", ProgramID: "p1", CourseID: "c1"}, studentClaims)
	h.Enroll(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "registered", env.Item["status"])
	require.Len(t, srv.enrolled, 1)
}

func TestEnrollmentHandlerRejectsOtherStudent(t *testing.T) {
	srv := &fakeEnrollmentSrv{}
	h := NewEnrollmentHandler(srv)

	c, rec := newTestContext(http.MethodPost, "/enrollments", service.EnrollRequest{StudentID: "stu-2", ProgramID: "p1", CourseID: "c1"}, studentClaims)
	h.Enroll(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, srv.enrolled)
}

func TestEnrollmentHandlerMapsServiceErrors(t *testing.T) {
	h := NewEnrollmentHandler(&fakeEnrollmentSrv{enrollErr: appErrors.Clone(appErrors.ErrNotEnrollable, "only the current term accepts enrollments")})

	c, rec := newTestContext(http.MethodPost, "/enrollments", service.EnrollRequest{StudentID: "stu-2", ProgramID: "p1", CourseID: "c1"}, adminClaims)
	h.Enroll(c)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "only the current term accepts enrollments", env.Message)
}

func TestEnrollmentHandlerInvalidBody(t *testing.T) {
	h := NewEnrollmentHandler(&fakeEnrollmentSrv{})

	c, rec := newTestContext(http.MethodPost, "/enrollments", nil, studentClaims)
	c.Request = httptest.NewRequest(http.MethodPost, "/enrollments", bytes.NewBufferString("{"))
	h.Enroll(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnrollmentHandlerListScopesStudents(t *testing.T) {
	srv := &fakeEnrollmentSrv{}
	h := NewEnrollmentHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/enrollments", nil, studentClaims)
	h.List(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stu-1", srv.lastFilter.StudentID)
	assert.Equal(t, []interface{}{}, decode(t, rec).Items)

	c, rec = newTestContext(http.MethodGet, "/enrollments?studentId=stu-2", nil, studentClaims)
	h.List(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/enrollments?studentId=stu-2", nil, adminClaims)
	h.List(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stu-2", srv.lastFilter.StudentID)
}

type fakeStudentProgramSrv struct {
	joined []service.JoinProgramRequest
}

func (f *fakeStudentProgramSrv) Join(_ context.Context, req service.JoinProgramRequest) (*models.StudentProgram, error) {
	f.joined = append(f.joined, req)
	return &models.StudentProgram{ID: "sp-1", StudentID: req.StudentID, ProgramID: req.ProgramID, CurrentTerm: "Term 1"}, nil
}

func (f *fakeStudentProgramSrv) Active(_ context.Context, studentID string) (*models.StudentProgram, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student has no active program")
}

func (f *fakeStudentProgramSrv) Update(context.Context, string, service.UpdateStudentProgramRequest) (*models.StudentProgram, error) {
	return nil, nil
}

func TestStudentProgramHandlerJoin(t *testing.T) {
	srv := &fakeStudentProgramSrv{}
	h := NewStudentProgramHandler(srv)

	c, rec := newTestContext(http.MethodPost, "/student-programs", service.JoinProgramRequest{StudentID: "stu-1", ProgramID: "p1"}, studentClaims)
	h.Join(c)
	assert.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newTestContext(http.MethodPost, "/student-programs", service.JoinProgramRequest{StudentID: "stu-9", ProgramID: "p1"}, studentClaims)
	h.Join(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, srv.joined, 1)

	c, rec = newTestContext(http.MethodGet, "/student-programs/stu-1", nil, studentClaims)
	c.Params = gin.Params{{Key: "studentId", Value: "stu-1"}}
	h.Active(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type fakeProgressSrv struct {
	report *service.StudentProgress
	hit    bool
}

func (f *fakeProgressSrv) Report(_ context.Context, studentID string) (*service.StudentProgress, bool) {
	return f.report, f.hit
}

type fakeTranscriptSrv struct{}

func (fakeTranscriptSrv) Render(_ context.Context, studentID, format string) (*service.Transcript, error) {
	if format != "csv" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported transcript format")
	}
	return &service.Transcript{Filename: "transcript-" + studentID + ".csv", ContentType: "text/csv", Content: []byte("Term,Code\n")}, nil
}

func TestProgressHandlerReturnsReport(t *testing.T) {
	report := &service.StudentProgress{
		StudentID: "stu-1",
		Report: progress.Report{
			Overview:    progress.Overview{TotalCredits: 7, CompletedCredits: 3, RemainingCredits: 53, GPA: 3},
			CurrentTerm: "Term 2",
			Terms:       []progress.TermView{},
		},
	}
	h := NewProgressHandler(&fakeProgressSrv{report: report, hit: true}, fakeTranscriptSrv{})

	c, rec := newTestContext(http.MethodGet, "/students/stu-1/progress", nil, studentClaims)
	c.Params = gin.Params{{Key: "id", Value: "stu-1"}}
	h.Progress(c)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "Term 2", env.Item["currentTerm"])
	overview := env.Item["overview"].(map[string]interface{})
	assert.Equal(t, float64(53), overview["remainingCredits"])
	assert.Equal(t, true, env.Meta["cache_hit"])
}

func TestProgressHandlerTranscript(t *testing.T) {
	h := NewProgressHandler(&fakeProgressSrv{}, fakeTranscriptSrv{})

	c, rec := newTestContext(http.MethodGet, "/students/stu-1/transcript", nil, studentClaims)
	c.Params = gin.Params{{Key: "id", Value: "stu-1"}}
	h.Transcript(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "transcript-stu-1.csv")

	c, rec = newTestContext(http.MethodGet, "/students/stu-1/transcript?format=xlsx", nil, studentClaims)
	c.Params = gin.Params{{Key: "id", Value: "stu-1"}}
	h.Transcript(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubTokens map[string]*models.JWTClaims

func (s stubTokens) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.ErrUnauthorized
}

func TestRouterGuardsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := Handlers{
		Auth:           NewAuthHandler(nil),
		Students:       NewStudentHandler(nil),
		Programs:       NewProgramHandler(nil),
		Structures:     NewStructureHandler(nil),
		ProgramInfo:    NewProgramInfoHandler(nil, nil),
		Courses:        NewCourseHandler(nil),
		Admissions:     NewAdmissionHandler(nil),
		Contact:        NewContactHandler(nil),
		StudentProgram: NewStudentProgramHandler(&fakeStudentProgramSrv{}),
		Enrollments:    NewEnrollmentHandler(&fakeEnrollmentSrv{}),
		Progress:       NewProgressHandler(&fakeProgressSrv{report: &service.StudentProgress{}}, fakeTranscriptSrv{}),
		Metrics:        NewMetricsHandler(nil, nil),
	}
	SetupRouter(r, "/api/v1", handlers, stubTokens{"student": studentClaims, "admin": adminClaims}, nil)

	call := func(method, path, token string) int {
		req := httptest.NewRequest(method, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call(http.MethodGet, "/health", ""))
	assert.Equal(t, http.StatusOK, call(http.MethodGet, "/ready", ""))
	assert.Equal(t, http.StatusUnauthorized, call(http.MethodGet, "/api/v1/students/stu-1/progress", ""))
	assert.Equal(t, http.StatusOK, call(http.MethodGet, "/api/v1/students/stu-1/progress", "student"))
	assert.Equal(t, http.StatusForbidden, call(http.MethodGet, "/api/v1/students/stu-2/progress", "student"))
	assert.Equal(t, http.StatusOK, call(http.MethodGet, "/api/v1/students/stu-2/progress", "admin"))
	assert.Equal(t, http.StatusForbidden, call(http.MethodPost, "/api/v1/courses", "student"))
	assert.Equal(t, http.StatusForbidden, call(http.MethodGet, "/api/v1/contact", "student"))
	assert.Equal(t, http.StatusForbidden, call(http.MethodPut, "/api/v1/enrollments/e1/grade", "student"))
}
