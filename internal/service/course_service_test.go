package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type memoryCache struct {
	values      map[string][]byte
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.invalidated = append(m.invalidated, pattern)
	m.values = map[string][]byte{}
	return nil
}

type fakeCourseRepo struct {
	courses  map[string]models.Course
	listAlls int
}

func (f *fakeCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	all, _ := f.ListAll(ctx)
	return all, len(all), nil
}

func (f *fakeCourseRepo) ListAll(ctx context.Context) ([]models.Course, error) {
	f.listAlls++
	out := make([]models.Course, 0, len(f.courses))
	for _, c := range f.courses {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (f *fakeCourseRepo) FindByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	var out []models.Course
	for _, id := range ids {
		if c, ok := f.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	for _, c := range f.courses {
		if c.Code == course.Code {
			return appErrors.ErrDuplicate
		}
	}
	course.ID = "id-" + course.Code
	f.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if _, ok := f.courses[course.ID]; !ok {
		return sql.ErrNoRows
	}
	f.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.courses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.courses, id)
	return nil
}

func TestCatalogServedFromCache(t *testing.T) {
	repo := &fakeCourseRepo{courses: map[string]models.Course{"c1": {ID: "c1", Code: "CS101", Credits: 3}}}
	cache := newMemoryCache()
	svc := NewCourseService(repo, NewCacheService(cache, NewMetricsService(), time.Minute, nil, true), time.Minute, nil, nil)

	first, hit, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, first, 1)

	second, hit, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listAlls)
}

func TestCatalogWithoutCache(t *testing.T) {
	repo := &fakeCourseRepo{courses: map[string]models.Course{"c1": {ID: "c1", Code: "CS101"}}}
	svc := NewCourseService(repo, nil, 0, nil, nil)

	_, hit, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	_, _, err = svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listAlls)
}

func TestCourseWritesInvalidateCatalog(t *testing.T) {
	repo := &fakeCourseRepo{courses: map[string]models.Course{}}
	cache := newMemoryCache()
	svc := NewCourseService(repo, NewCacheService(cache, nil, time.Minute, nil, true), time.Minute, nil, nil)

	course, err := svc.Create(context.Background(), CourseRequest{Code: " cs101 ", Title: "Intro", Credits: 3})
	require.NoError(t, err)
	assert.Equal(t, "CS101", course.Code)
	assert.Equal(t, []string{"catalog:*"}, cache.invalidated)

	_, err = svc.Create(context.Background(), CourseRequest{Code: "CS101", Title: "Again", Credits: 3})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	require.NoError(t, svc.Delete(context.Background(), course.ID))
	assert.Len(t, cache.invalidated, 2)

	err = svc.Delete(context.Background(), course.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}
