package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

func TestCourseRepositoryCreateUniqueViolation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Course{Code: "CS101", Title: "Intro", Credits: 3})
	assert.True(t, errors.Is(err, appErrors.ErrDuplicate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses ORDER BY code ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "title", "credits", "instructor", "description", "created_at", "updated_at"}).
			AddRow("c1", "CS101", "Intro", 3, "Dr. A", "", now, now))

	courses, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 3, courses[0].Credits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryListSearch(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM programs WHERE 1=1 AND (LOWER(code) LIKE $1 OR LOWER(name) LIKE $1) ORDER BY name ASC LIMIT 10 OFFSET 10")).
		WithArgs("%science%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "description", "level", "duration_terms", "total_credits", "active", "created_at", "updated_at"}).
			AddRow("p1", "CS", "Computer Science", "", "bachelor", 8, 60, true, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM programs WHERE 1=1")).
		WithArgs("%science%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	programs, total, err := repo.List(context.Background(), models.ProgramFilter{Search: "Science", Page: 2, PageSize: 10, SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Len(t, programs, 1)
	assert.Equal(t, 11, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramStructureRepositoryFindByProgram(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProgramStructureRepository(db)

	now := time.Now()
	terms := `[{"term_name":"Term 1","courses":[{"course_id":"c1","course_code":"CS101","course_title":"Intro","order":1}]}]`
	mock.ExpectQuery(regexp.QuoteMeta("FROM program_structures WHERE program_id = $1")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"program_id", "terms", "created_at", "updated_at"}).AddRow("p1", []byte(terms), now, now))

	structure, err := repo.FindByProgram(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, structure.Terms, 1)
	assert.Equal(t, "Term 1", structure.FirstTermName())
	assert.Equal(t, "CS101", structure.Terms[0].Courses[0].CourseCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentProgramRepositoryCreateSecondActive(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentProgramRepository(db)

	mock.ExpectExec("INSERT INTO student_programs .* ON CONFLICT DO NOTHING").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Create(context.Background(), &models.StudentProgram{StudentID: "s1", ProgramID: "p2", CurrentTerm: "Term 1", Status: models.StudentProgramActive})
	assert.True(t, errors.Is(err, appErrors.ErrDuplicate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTuitionRepositoryCreateSecondForProgram(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTuitionRepository(db)

	mock.ExpectExec("INSERT INTO tuitions").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Create(context.Background(), &models.Tuition{ProgramID: "p1", AmountPerCredit: 100, Currency: "USD"})
	assert.True(t, errors.Is(err, appErrors.ErrDuplicate))
}

func TestAdmissionRepositoryUpdateStatusOnlyPending(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE admissions SET status = $2, updated_at = $3 WHERE id = $1 AND status = 'pending'")).
		WithArgs("a1", models.AdmissionAccepted, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "a1", models.AdmissionAccepted))
	assert.NoError(t, mock.ExpectationsWereMet())
}
