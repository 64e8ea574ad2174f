package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type fakeEnrollmentRepo struct {
	records   map[string]models.Enrollment
	order     []string
	createErr error
	listErr   error
	deleted   []string
}

func newFakeEnrollmentRepo(records ...models.Enrollment) *fakeEnrollmentRepo {
	repo := &fakeEnrollmentRepo{records: map[string]models.Enrollment{}}
	for _, r := range records {
		repo.records[r.ID] = r
		repo.order = append(repo.order, r.ID)
	}
	return repo
}

func (f *fakeEnrollmentRepo) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.Enrollment{}
	for _, id := range f.order {
		r, ok := f.records[id]
		if !ok {
			continue
		}
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	return f.List(ctx, models.EnrollmentFilter{StudentID: studentID})
}

func (f *fakeEnrollmentRepo) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &r, nil
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, e *models.Enrollment) error {
	if f.createErr != nil {
		return f.createErr
	}
	if e.ID == "" {
		e.ID = "enr-new"
	}
	f.records[e.ID] = *e
	f.order = append(f.order, e.ID)
	return nil
}

func (f *fakeEnrollmentRepo) UpdateGrade(ctx context.Context, e *models.Enrollment) error {
	if _, ok := f.records[e.ID]; !ok {
		return sql.ErrNoRows
	}
	f.records[e.ID] = *e
	return nil
}

func (f *fakeEnrollmentRepo) DeleteRegistered(ctx context.Context, id string) error {
	r, ok := f.records[id]
	if !ok || r.IsDone() {
		return sql.ErrNoRows
	}
	delete(f.records, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeActivePrograms struct {
	active map[string]models.StudentProgram
	err    error
}

func (f *fakeActivePrograms) FindActiveByStudent(ctx context.Context, studentID string) (*models.StudentProgram, error) {
	if f.err != nil {
		return nil, f.err
	}
	sp, ok := f.active[studentID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &sp, nil
}

type fakeStructures struct {
	structures map[string]*models.ProgramStructure
	err        error
}

func (f *fakeStructures) Find(ctx context.Context, programID string) (*models.ProgramStructure, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.structures[programID], nil
}

func testStructure() *models.ProgramStructure {
	return &models.ProgramStructure{
		ProgramID: "prog-1",
		Terms: models.StructureTerms{
			{TermName: "Term 1", Courses: []models.CourseRef{{CourseID: "c1", CourseCode: "CS101", Order: 1}}},
			{TermName: "Term 2", Courses: []models.CourseRef{{CourseID: "c2", CourseCode: "CS201", Order: 1}, {CourseID: "c3", CourseCode: "CS202", Order: 2}}},
			{TermName: "Term 3", Courses: []models.CourseRef{{CourseID: "c4", CourseCode: "CS301", Order: 1}}},
		},
	}
}

func newTestEnrollmentService(repo *fakeEnrollmentRepo) *EnrollmentService {
	programs := &fakeActivePrograms{active: map[string]models.StudentProgram{
		"stu-1": {ID: "sp-1", StudentID: "stu-1", ProgramID: "prog-1", CurrentTerm: "Term 2", Status: models.StudentProgramActive},
	}}
	structures := &fakeStructures{structures: map[string]*models.ProgramStructure{"prog-1": testStructure()}}
	return NewEnrollmentService(repo, programs, structures, NewMetricsService(), nil, nil)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	return appErrors.FromError(err).Status
}

func TestEnrollCreatesRegisteredRecord(t *testing.T) {
	repo := newFakeEnrollmentRepo()
	svc := newTestEnrollmentService(repo)

	enrollment, err := svc.Enroll(context.Background(), EnrollRequest{StudentID: "stu-1", ProgramID: "prog-1", CourseID: "c2"})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentRegistered, enrollment.Status)
	assert.False(t, enrollment.Completed)
	assert.Equal(t, "Term 2", enrollment.Term)
	assert.Len(t, repo.records, 1)
}

func TestEnrollRejectsOtherTerms(t *testing.T) {
	svc := newTestEnrollmentService(newFakeEnrollmentRepo())

	_, err := svc.Enroll(context.Background(), EnrollRequest{StudentID: "stu-1", ProgramID: "prog-1", CourseID: "c4", Term: "Term 3"})
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))

	_, err = svc.Enroll(context.Background(), EnrollRequest{StudentID: "stu-1", ProgramID: "prog-1", CourseID: "c1", Term: "Term 1"})
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))

	_, err = svc.Enroll(context.Background(), EnrollRequest{StudentID: "stu-1", ProgramID: "prog-1", CourseID: "c4"})
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err), "course of another term")
}

func TestEnrollRejectsWithoutActiveProgram(t *testing.T) {
	svc := newTestEnrollmentService(newFakeEnrollmentRepo())

	_, err := svc.Enroll(context.Background(), EnrollRequest{StudentID: "stu-2", ProgramID: "prog-1", CourseID: "c2"})
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))

	_, err = svc.Enroll(context.Background(), EnrollRequest{StudentID: "stu-1", ProgramID: "prog-9", CourseID: "c2"})
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
}

func TestEnrollDuplicateIsConflict(t *testing.T) {
	repo := newFakeEnrollmentRepo(models.Enrollment{ID: "e1", StudentID: "stu-1", CourseID: "c2", Term: "Term 2", Status: models.EnrollmentRegistered})
	svc := newTestEnrollmentService(repo)

	_, err := svc.Enroll(context.Background(), EnrollRequest{StudentID: "stu-1", ProgramID: "prog-1", CourseID: "c2"})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestEnrollStorageConflictIsConflict(t *testing.T) {
	repo := newFakeEnrollmentRepo()
	repo.createErr = appErrors.ErrDuplicate
	svc := newTestEnrollmentService(repo)

	_, err := svc.Enroll(context.Background(), EnrollRequest{StudentID: "stu-1", ProgramID: "prog-1", CourseID: "c3"})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestSetGradeCompletes(t *testing.T) {
	repo := newFakeEnrollmentRepo(models.Enrollment{ID: "e1", StudentID: "stu-1", CourseID: "c2", Status: models.EnrollmentRegistered})
	svc := newTestEnrollmentService(repo)

	grade, points, letter := 88.0, 3.7, "A-"
	enrollment, err := svc.SetGrade(context.Background(), "e1", GradeRequest{NumericGrade: &grade, GradePoints: &points, LetterGrade: &letter, Completed: true})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentCompleted, enrollment.Status)
	assert.True(t, repo.records["e1"].Completed)
	assert.Equal(t, 3.7, *repo.records["e1"].GradePoints)
}

func TestSetGradeUncompletes(t *testing.T) {
	points := 4.0
	repo := newFakeEnrollmentRepo(models.Enrollment{ID: "e1", StudentID: "stu-1", CourseID: "c2", Status: models.EnrollmentCompleted, Completed: true, GradePoints: &points})
	svc := newTestEnrollmentService(repo)

	enrollment, err := svc.SetGrade(context.Background(), "e1", GradeRequest{Completed: false})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentRegistered, enrollment.Status)
	assert.False(t, repo.records["e1"].IsDone())
	assert.Nil(t, repo.records["e1"].GradePoints)

	require.NoError(t, svc.Drop(context.Background(), "e1"))
}

func TestSetGradeReplacesOmittedFields(t *testing.T) {
	grade, letter := 91.0, "A"
	repo := newFakeEnrollmentRepo(models.Enrollment{ID: "e1", StudentID: "stu-1", CourseID: "c2", Status: models.EnrollmentRegistered, NumericGrade: &grade, LetterGrade: &letter})
	svc := newTestEnrollmentService(repo)

	enrollment, err := svc.SetGrade(context.Background(), "e1", GradeRequest{Completed: true})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentCompleted, enrollment.Status)
	assert.Nil(t, enrollment.NumericGrade)
	assert.Nil(t, enrollment.LetterGrade)
}

func TestSetGradeValidatesRange(t *testing.T) {
	repo := newFakeEnrollmentRepo(models.Enrollment{ID: "e1", StudentID: "stu-1", CourseID: "c2", Status: models.EnrollmentRegistered})
	svc := newTestEnrollmentService(repo)

	points := 4.5
	_, err := svc.SetGrade(context.Background(), "e1", GradeRequest{GradePoints: &points})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = svc.SetGrade(context.Background(), "missing", GradeRequest{})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestDropKeepsCompletedRecords(t *testing.T) {
	repo := newFakeEnrollmentRepo(
		models.Enrollment{ID: "done", StudentID: "stu-1", CourseID: "c1", Status: models.EnrollmentRegistered, Completed: true},
		models.Enrollment{ID: "open", StudentID: "stu-1", CourseID: "c2", Status: models.EnrollmentRegistered},
	)
	svc := newTestEnrollmentService(repo)

	err := svc.Drop(context.Background(), "done")
	assert.Equal(t, http.StatusPreconditionFailed, statusOf(t, err))

	require.NoError(t, svc.Drop(context.Background(), "open"))
	assert.Equal(t, []string{"open"}, repo.deleted)
}
