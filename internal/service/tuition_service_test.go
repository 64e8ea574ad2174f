package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type fakeTuitionRepo struct {
	byProgram map[string]*models.Tuition
}

func (f *fakeTuitionRepo) FindByProgram(ctx context.Context, programID string) (*models.Tuition, error) {
	t, ok := f.byProgram[programID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return t, nil
}

func (f *fakeTuitionRepo) Create(ctx context.Context, tuition *models.Tuition) error {
	if _, ok := f.byProgram[tuition.ProgramID]; ok {
		return fmt.Errorf("create tuition: %w", appErrors.ErrDuplicate)
	}
	tuition.ID = "tuition-" + tuition.ProgramID
	f.byProgram[tuition.ProgramID] = tuition
	return nil
}

func (f *fakeTuitionRepo) Update(ctx context.Context, tuition *models.Tuition) error {
	f.byProgram[tuition.ProgramID] = tuition
	return nil
}

func (f *fakeTuitionRepo) DeleteByProgram(ctx context.Context, programID string) error {
	if _, ok := f.byProgram[programID]; !ok {
		return sql.ErrNoRows
	}
	delete(f.byProgram, programID)
	return nil
}

func newTestTuitionService() (*TuitionService, *fakeTuitionRepo) {
	repo := &fakeTuitionRepo{byProgram: map[string]*models.Tuition{}}
	programs := fakePrograms{"prog-1": {ID: "prog-1", Code: "CS", Active: true}}
	return NewTuitionService(repo, programs, nil, nil), repo
}

func TestTuitionCreateNormalisesCurrency(t *testing.T) {
	svc, _ := newTestTuitionService()

	tuition, err := svc.Create(context.Background(), "prog-1", TuitionRequest{AmountPerCredit: 100, RegistrationFee: 50, Currency: "usd"})
	require.NoError(t, err)
	assert.Equal(t, "USD", tuition.Currency)
	assert.Equal(t, 650.0, tuition.EstimateTotal(6))
	assert.Equal(t, 50.0, tuition.EstimateTotal(-2))
}

func TestTuitionCreateSecondForProgram(t *testing.T) {
	svc, _ := newTestTuitionService()
	req := TuitionRequest{AmountPerCredit: 100, Currency: "EUR"}
	_, err := svc.Create(context.Background(), "prog-1", req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "prog-1", req)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestTuitionCreateValidation(t *testing.T) {
	svc, _ := newTestTuitionService()

	_, err := svc.Create(context.Background(), "prog-1", TuitionRequest{AmountPerCredit: -1, Currency: "EUR"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = svc.Create(context.Background(), "prog-1", TuitionRequest{Currency: "EURO"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	assert.Equal(t, "len", appErrors.FromError(err).Fields["Currency"])

	_, err = svc.Create(context.Background(), "missing", TuitionRequest{Currency: "EUR"})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestTuitionUpdateAndDeleteMissing(t *testing.T) {
	svc, repo := newTestTuitionService()

	_, err := svc.Update(context.Background(), "prog-1", TuitionRequest{Currency: "EUR"})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	repo.byProgram["prog-1"] = &models.Tuition{ProgramID: "prog-1", Currency: "EUR"}
	updated, err := svc.Update(context.Background(), "prog-1", TuitionRequest{AmountPerCredit: 120, Currency: "gbp"})
	require.NoError(t, err)
	assert.Equal(t, "GBP", updated.Currency)

	require.NoError(t, svc.Delete(context.Background(), "prog-1"))
	assert.Equal(t, http.StatusNotFound, statusOf(t, svc.Delete(context.Background(), "prog-1")))
}
