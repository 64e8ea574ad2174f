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

type fakePrograms map[string]models.Program

func (f fakePrograms) Get(ctx context.Context, id string) (*models.Program, error) {
	p, ok := f[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
	}
	return &p, nil
}

type fakeStructureRepo struct {
	saved map[string]*models.ProgramStructure
}

func (f *fakeStructureRepo) FindByProgram(ctx context.Context, programID string) (*models.ProgramStructure, error) {
	s, ok := f.saved[programID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeStructureRepo) Upsert(ctx context.Context, structure *models.ProgramStructure) error {
	f.saved[structure.ProgramID] = structure
	return nil
}

func (f *fakeStructureRepo) Delete(ctx context.Context, programID string) error {
	if _, ok := f.saved[programID]; !ok {
		return sql.ErrNoRows
	}
	delete(f.saved, programID)
	return nil
}

func newTestStructureService() (*ProgramStructureService, *fakeStructureRepo) {
	repo := &fakeStructureRepo{saved: map[string]*models.ProgramStructure{}}
	courses := &fakeCourseRepo{courses: map[string]models.Course{
		"c1": {ID: "c1", Code: "CS101", Title: "Intro"},
		"c2": {ID: "c2", Code: "CS201", Title: "Data Structures"},
		"c3": {ID: "c3", Code: "CS202", Title: "Databases"},
	}}
	programs := fakePrograms{"prog-1": {ID: "prog-1", Code: "CS", Active: true}}
	return NewProgramStructureService(repo, programs, courses, nil, nil), repo
}

func TestSaveStructureCachesCourseFields(t *testing.T) {
	svc, repo := newTestStructureService()

	structure, err := svc.Save(context.Background(), "prog-1", StructureRequest{Terms: []StructureTermRequest{
		{TermName: "Term 1", Courses: []StructureCourseRequest{{CourseID: "c1"}}},
		{TermName: " Term 2 ", Courses: []StructureCourseRequest{{CourseID: "c3", Order: 2}, {CourseID: "c2", Order: 1}}},
	}})
	require.NoError(t, err)
	require.Len(t, structure.Terms, 2)
	assert.Equal(t, models.CourseRef{CourseID: "c1", CourseCode: "CS101", CourseTitle: "Intro", Order: 1}, structure.Terms[0].Courses[0])
	assert.Equal(t, "Term 2", structure.Terms[1].TermName)
	assert.Equal(t, 2, structure.Terms[1].Courses[0].Order)
	assert.Same(t, structure, repo.saved["prog-1"])

	found, err := svc.Find(context.Background(), "prog-1")
	require.NoError(t, err)
	assert.Equal(t, "Term 1", found.FirstTermName())
}

func TestSaveStructureRejectsBadReferences(t *testing.T) {
	svc, _ := newTestStructureService()
	ctx := context.Background()

	_, err := svc.Save(ctx, "prog-1", StructureRequest{Terms: []StructureTermRequest{{TermName: "Term 1", Courses: []StructureCourseRequest{{CourseID: "missing"}}}}})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = svc.Save(ctx, "prog-1", StructureRequest{Terms: []StructureTermRequest{{TermName: "Term 1"}, {TermName: "term 1"}}})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = svc.Save(ctx, "prog-1", StructureRequest{Terms: []StructureTermRequest{
		{TermName: "Term 1", Courses: []StructureCourseRequest{{CourseID: "c1"}}},
		{TermName: "Term 2", Courses: []StructureCourseRequest{{CourseID: "c1"}}},
	}})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = svc.Save(ctx, "prog-9", StructureRequest{Terms: []StructureTermRequest{{TermName: "Term 1"}}})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestFindStructureAbsent(t *testing.T) {
	svc, _ := newTestStructureService()

	structure, err := svc.Find(context.Background(), "prog-1")
	require.NoError(t, err)
	assert.Nil(t, structure)

	_, err = svc.Get(context.Background(), "prog-1")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

type fakeStudentProgramRepo struct {
	records map[string]*models.StudentProgram
}

func (f *fakeStudentProgramRepo) FindActiveByStudent(ctx context.Context, studentID string) (*models.StudentProgram, error) {
	for _, sp := range f.records {
		if sp.StudentID == studentID && sp.Status == models.StudentProgramActive {
			return sp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentProgramRepo) FindByID(ctx context.Context, id string) (*models.StudentProgram, error) {
	sp, ok := f.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *sp
	return &cp, nil
}

func (f *fakeStudentProgramRepo) Create(ctx context.Context, sp *models.StudentProgram) error {
	if _, err := f.FindActiveByStudent(ctx, sp.StudentID); err == nil {
		return appErrors.ErrDuplicate
	}
	sp.ID = "sp-" + sp.StudentID
	f.records[sp.ID] = sp
	return nil
}

func (f *fakeStudentProgramRepo) Update(ctx context.Context, sp *models.StudentProgram) error {
	if _, ok := f.records[sp.ID]; !ok {
		return sql.ErrNoRows
	}
	f.records[sp.ID] = sp
	return nil
}

func newTestStudentProgramService() (*StudentProgramService, *fakeStudentProgramRepo) {
	repo := &fakeStudentProgramRepo{records: map[string]*models.StudentProgram{}}
	programs := fakePrograms{
		"prog-1": {ID: "prog-1", Active: true},
		"closed": {ID: "closed", Active: false},
		"empty":  {ID: "empty", Active: true},
	}
	structures := &fakeStructures{structures: map[string]*models.ProgramStructure{"prog-1": testStructure()}}
	return NewStudentProgramService(repo, programs, structures, nil, nil), repo
}

func TestJoinStartsAtFirstTerm(t *testing.T) {
	svc, _ := newTestStudentProgramService()

	sp, err := svc.Join(context.Background(), JoinProgramRequest{StudentID: "stu-1", ProgramID: "prog-1"})
	require.NoError(t, err)
	assert.Equal(t, "Term 1", sp.CurrentTerm)
	assert.Equal(t, models.StudentProgramActive, sp.Status)

	_, err = svc.Join(context.Background(), JoinProgramRequest{StudentID: "stu-1", ProgramID: "prog-1"})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestJoinRequiresOpenProgramWithStructure(t *testing.T) {
	svc, _ := newTestStudentProgramService()

	_, err := svc.Join(context.Background(), JoinProgramRequest{StudentID: "stu-1", ProgramID: "closed"})
	assert.Equal(t, http.StatusPreconditionFailed, statusOf(t, err))

	_, err = svc.Join(context.Background(), JoinProgramRequest{StudentID: "stu-1", ProgramID: "empty"})
	assert.Equal(t, http.StatusPreconditionFailed, statusOf(t, err))
}

func TestUpdateCurrentTermMustExist(t *testing.T) {
	svc, repo := newTestStudentProgramService()
	sp, err := svc.Join(context.Background(), JoinProgramRequest{StudentID: "stu-1", ProgramID: "prog-1"})
	require.NoError(t, err)

	next := "Term 2"
	updated, err := svc.Update(context.Background(), sp.ID, UpdateStudentProgramRequest{CurrentTerm: &next})
	require.NoError(t, err)
	assert.Equal(t, "Term 2", updated.CurrentTerm)
	assert.Equal(t, "Term 2", repo.records[sp.ID].CurrentTerm)

	bogus := "Term 9"
	_, err = svc.Update(context.Background(), sp.ID, UpdateStudentProgramRequest{CurrentTerm: &bogus})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}
