package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Root(t *testing.T) {
	h := NewHealthHandler("1.0.0", nil)
	c, rec := newContext(t, http.MethodGet, "/", "", nil, nil)

	require.NoError(t, h.Root(c))
	assert.JSONEq(t, `{"message":"Welcome to Sweet Shop Management System API","version":"1.0.0","docs":"/swagger/index.html","health":"/health"}`, rec.Body.String())
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler("1.0.0", nil)
	c, rec := newContext(t, http.MethodGet, "/health", "", nil, nil)

	require.NoError(t, h.Liveness(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","message":"Sweet Shop API is running!","version":"1.0.0"}`, rec.Body.String())
}

func TestHealthHandler_Readiness(t *testing.T) {
	h := NewHealthHandler("1.0.0", map[string]Pinger{
		"database": stubPinger{},
		"redis":    stubPinger{},
		"skipped":  nil,
	})
	c, rec := newContext(t, http.MethodGet, "/health/ready", "", nil, nil)

	require.NoError(t, h.Readiness(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp readinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Len(t, resp.Dependencies, 2)
}

func TestHealthHandler_Readiness_Degraded(t *testing.T) {
	h := NewHealthHandler("1.0.0", map[string]Pinger{
		"database": stubPinger{},
		"redis":    stubPinger{err: errors.New("connection refused")},
	})
	c, rec := newContext(t, http.MethodGet, "/health/ready", "", nil, nil)

	require.NoError(t, h.Readiness(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp readinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "ok", resp.Dependencies["database"].Status)
	assert.Equal(t, "connection refused", resp.Dependencies["redis"].Error)
}
