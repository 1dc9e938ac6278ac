package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mquinn/chorewheel/internal/auth"
	"github.com/mquinn/chorewheel/internal/config"
	"github.com/mquinn/chorewheel/internal/service"
	"github.com/mquinn/chorewheel/internal/storage/sqlite"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc, err := service.New(context.Background(), store)
	require.NoError(t, err)
	require.NoError(t, svc.SetRoster(context.Background(), []string{"A", "B", "C", "D"}))

	grants := auth.NewGrantManager("test-secret", time.Minute)
	runtime := config.Runtime{ProjectID: "chorewheel-test", AppID: "1:test:web"}
	return New(svc, grants, runtime).Router()
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "application/javascript" {
		_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	}
	return w, decoded
}

func stateOf(resp map[string]any) map[string]any {
	state, _ := resp["state"].(map[string]any)
	return state
}

func TestGetState(t *testing.T) {
	r := setupRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"A", "B", "C", "D"}, resp["roster"])
	assert.Equal(t, "A", resp["current"])
	assert.Equal(t, "B", resp["next"])
}

func TestPutRoster(t *testing.T) {
	r := setupRouter(t)

	t.Run("replaces the roster", func(t *testing.T) {
		w, resp := doJSON(t, r, http.MethodPut, "/api/roster", gin.H{"names": []string{"X", "Y"}})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []any{"X", "Y"}, stateOf(resp)["roster"])
	})

	t.Run("rejects an empty roster", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPut, "/api/roster", gin.H{"names": []string{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w, _ = doJSON(t, r, http.MethodPut, "/api/roster", gin.H{"names": []string{"  ", ""}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTogglePause(t *testing.T) {
	r := setupRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/participants/B/pause", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"A", "C", "D"}, stateOf(resp)["active"])

	w, _ = doJSON(t, r, http.MethodPost, "/api/participants/Nobody/pause", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReorder(t *testing.T) {
	r := setupRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/queue/reorder", gin.H{"from": 0, "to": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"B", "C", "A", "D"}, stateOf(resp)["active"])

	w, _ = doJSON(t, r, http.MethodPost, "/api/queue/reorder", gin.H{"from": 0, "to": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPutPIN(t *testing.T) {
	r := setupRouter(t)

	t.Run("rejects a short pin at the boundary", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPut, "/api/participants/A/pin", gin.H{"pin": "123"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("sets and clears", func(t *testing.T) {
		w, resp := doJSON(t, r, http.MethodPut, "/api/participants/A/pin", gin.H{"pin": "12345"})
		require.Equal(t, http.StatusOK, w.Code)
		pinSet := stateOf(resp)["pin_set"].(map[string]any)
		assert.Equal(t, true, pinSet["A"])

		w, resp = doJSON(t, r, http.MethodPut, "/api/participants/A/pin", gin.H{"pin": ""})
		require.Equal(t, http.StatusOK, w.Code)
		pinSet = stateOf(resp)["pin_set"].(map[string]any)
		assert.Equal(t, false, pinSet["A"])
	})
}

func TestCompleteLoadInlinePINs(t *testing.T) {
	r := setupRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/loads", gin.H{
		"kind": "afternoon", "ran_by": "A", "unloaded_by": "B",
	})
	require.Equal(t, http.StatusOK, w.Code)

	entry := resp["entry"].(map[string]any)
	assert.Equal(t, "afternoon", entry["kind"])
	assert.Equal(t, "A", entry["ran_by"])
	assert.Equal(t, "B", entry["unloaded_by"])

	state := stateOf(resp)
	assert.Equal(t, []any{"B", "C", "D", "A"}, state["active"])
	credits := state["credits"].(map[string]any)
	assert.Equal(t, 0.5, credits["A"])
	assert.Equal(t, 0.5, credits["B"])
}

func TestCompleteLoadDenied(t *testing.T) {
	r := setupRouter(t)
	w, _ := doJSON(t, r, http.MethodPut, "/api/participants/A/pin", gin.H{"pin": "1234"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/loads", gin.H{
		"kind": "afternoon", "ran_by": "A", "run_pin": "0000", "unloaded_by": "B",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// No credit, no advance, no history.
	w, resp := doJSON(t, r, http.MethodGet, "/api/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "A", resp["current"])
	assert.Equal(t, 0.0, resp["credits"].(map[string]any)["A"])
	assert.Empty(t, resp["history"])
}

func TestTwoPhaseGrantFlow(t *testing.T) {
	r := setupRouter(t)
	w, _ := doJSON(t, r, http.MethodPut, "/api/participants/A/pin", gin.H{"pin": "1234"})
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("authorize rejects a wrong pin", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/authorize", gin.H{
			"name": "A", "role": "run", "pin": "0000",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("grant then commit", func(t *testing.T) {
		w, resp := doJSON(t, r, http.MethodPost, "/api/authorize", gin.H{
			"name": "A", "role": "run", "pin": "1234",
		})
		require.Equal(t, http.StatusOK, w.Code)
		grant := resp["grant"].(string)
		require.NotEmpty(t, grant)

		w, resp = doJSON(t, r, http.MethodPost, "/api/loads", gin.H{
			"kind": "night", "run_grant": grant, "unloaded_by": "B",
		})
		require.Equal(t, http.StatusOK, w.Code)
		entry := resp["entry"].(map[string]any)
		assert.Equal(t, "A", entry["ran_by"])
		assert.Equal(t, "B", entry["unloaded_by"])
	})

	t.Run("a run grant cannot authorize an unload", func(t *testing.T) {
		w, resp := doJSON(t, r, http.MethodPost, "/api/authorize", gin.H{
			"name": "A", "role": "run", "pin": "1234",
		})
		require.Equal(t, http.StatusOK, w.Code)
		grant := resp["grant"].(string)

		w, _ = doJSON(t, r, http.MethodPost, "/api/loads", gin.H{
			"kind": "night", "ran_by": "B", "unload_grant": grant,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestQuickClaim(t *testing.T) {
	r := setupRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/loads/claim", gin.H{
		"kind": "afternoon", "role": "unload", "name": "C",
	})
	require.Equal(t, http.StatusOK, w.Code)
	entry := resp["entry"].(map[string]any)
	assert.Equal(t, "A", entry["ran_by"])
	assert.Equal(t, "C", entry["unloaded_by"])
}

func TestResetCredits(t *testing.T) {
	r := setupRouter(t)
	w, _ := doJSON(t, r, http.MethodPost, "/api/loads", gin.H{"kind": "night"})
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("refuses without confirmation", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/credits/reset", gin.H{"confirm": false})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("zeroes with confirmation", func(t *testing.T) {
		w, resp := doJSON(t, r, http.MethodPost, "/api/credits/reset", gin.H{"confirm": true})
		require.Equal(t, http.StatusOK, w.Code)
		for _, credit := range stateOf(resp)["credits"].(map[string]any) {
			assert.Equal(t, 0.0, credit)
		}
	})
}

func TestConfigJS(t *testing.T) {
	r := setupRouter(t)

	w, _ := doJSON(t, r, http.MethodGet, "/config.js", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/javascript", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "window.CHOREWHEEL_CONFIG")
	assert.Contains(t, w.Body.String(), "chorewheel-test")
}

func TestHealthz(t *testing.T) {
	r := setupRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "chorewheel", resp["name"])
}
