package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, rec
}

func TestItemsRendersEmptyListForNil(t *testing.T) {
	c, rec := newContext()

	var items []string
	Items(c, items, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []interface{}{}, body["items"])
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestErrorUsesTypedStatus(t *testing.T) {
	c, rec := newContext()

	Error(c, appErrors.Clone(appErrors.ErrConflict, "course code already exists"))

	require.Equal(t, http.StatusConflict, rec.Code)
	var body Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "course code already exists", body.Message)
	require.NotNil(t, body.Error)
	assert.Equal(t, "CONFLICT", body.Error.Code)
}

func TestItemAttachesMeta(t *testing.T) {
	c, rec := newContext()

	Item(c, http.StatusOK, map[string]string{"id": "p1"}, map[string]interface{}{"cache_hit": true})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]interface{}{"id": "p1"}, body["item"])
	assert.Equal(t, map[string]interface{}{"cache_hit": true}, body["meta"])
}
