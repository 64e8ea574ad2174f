package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Clone(ErrConflict, "program already has tuition"))

	appErr := FromError(wrapped)

	assert.Equal(t, ErrConflict.Code, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "program already has tuition", appErr.Message)
}

func TestFromErrorFallsBackToInternal(t *testing.T) {
	appErr := FromError(errors.New("boom"))

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.EqualError(t, appErr, "internal server error: boom")
}

func TestCloneDoesNotMutateSentinel(t *testing.T) {
	clone := Clone(ErrNotFound, "course not found")

	assert.Equal(t, "course not found", clone.Message)
	assert.Equal(t, "resource not found", ErrNotFound.Message)
	assert.Nil(t, FromError(nil))
}

func TestWrapUnwraps(t *testing.T) {
	err := Wrap(ErrDuplicate, ErrConflict.Code, ErrConflict.Status, "student already has an active program")

	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestIsMatchesClonesByCode(t *testing.T) {
	err := fmt.Errorf("load: %w", Clone(ErrNotFound, "program not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
}

func TestWithFieldsCopies(t *testing.T) {
	withFields := ErrValidation.WithFields(map[string]string{"Email": "email"})

	assert.Equal(t, "email", withFields.Fields["Email"])
	assert.Nil(t, ErrValidation.Fields)
}
