package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/skillnaav/skillnaav-api/pkg/errors"
)

func serve(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var env Envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestJSONIncludesMeta(t *testing.T) {
	rec, env := serve(t, func(c *gin.Context) {
		JSON(c, http.StatusOK, []string{"a"}, map[string]interface{}{"total": 1})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, float64(1), env.Meta["total"])
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestErrorUsesTypedStatusAndDetail(t *testing.T) {
	rec, env := serve(t, func(c *gin.Context) {
		Error(c, appErrors.Wrap(errors.New("boom"), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save"))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "failed to save", env.Error)
	assert.Equal(t, appErrors.ErrInternal.Code, env.Code)
	assert.Equal(t, "boom", env.Details)
}

func TestErrorNormalisesPlainErrors(t *testing.T) {
	rec, env := serve(t, func(c *gin.Context) {
		Error(c, errors.New("unexpected"))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, appErrors.ErrInternal.Message, env.Error)
}

func TestFailureKeepsPayload(t *testing.T) {
	rec, env := serve(t, func(c *gin.Context) {
		Failure(c, http.StatusUnauthorized, "REAUTH", "No authentication tokens found", map[string]string{"action": "re-authenticate"})
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "REAUTH", env.Code)
	assert.Equal(t, map[string]interface{}{"action": "re-authenticate"}, env.Data)
}

func TestNoContent(t *testing.T) {
	rec, _ := serve(t, NoContent)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
