package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct{ err error }

func (s stubChecker) HealthCheck(context.Context) error { return s.err }

func ready(t *testing.T, h *HealthHandler) (int, readinessResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ready", h.Ready)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	var resp readinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHealthHandler_Ready(t *testing.T) {
	dir := t.TempDir()

	code, resp := ready(t, NewHealthHandler("v1", nil, true, dir))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "disabled", resp.Checks["redis"].Status)

	code, resp = ready(t, NewHealthHandler("v1", stubChecker{}, true, dir))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Checks["redis"].Status)

	code, resp = ready(t, NewHealthHandler("v1", stubChecker{err: errors.New("refused")}, true, dir))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "refused", resp.Checks["redis"].Error)

	code, resp = ready(t, NewHealthHandler("v1", nil, false, dir))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "missing", resp.Checks["llm"].Status)

	code, resp = ready(t, NewHealthHandler("v1", nil, true, dir+"/nope"))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "missing", resp.Checks["output_dir"].Status)
}
