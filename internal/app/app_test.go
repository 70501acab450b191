package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-hris-workflow/internal/app"
	"go-hris-workflow/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "test-secret"

func token(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:         "test",
		StoreDriver:    config.StoreDriverMemory,
		JWTSecret:      secret,
		NotifyTimeout:  time.Second,
		NotifyBuffer:   4,
		SSEHeartbeat:   time.Second,
		LeaveApprovers: []string{"teamLead", "hr"},
		WFHApprovers:   []string{"teamLead"},
	}
}

func send(r *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBuildApp_MemoryStoreFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	a, err := app.BuildApp(context.Background(), memoryConfig(), r, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(context.Background()) })
	assert.Len(t, a.OnShutdown, 1)

	w := send(r, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodGet, "/requests", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	employee := token(t, jwt.MapClaims{"user_id": "emp-1", "name": "Eka Putri", "role": "employee", "team_id": "team-a"})
	lead := token(t, jwt.MapClaims{"user_id": "tl-1", "name": "Tia Lead", "role": "Team Lead", "team_id": "team-a"})

	w = send(r, http.MethodPost, "/api/v1/requests", employee, map[string]any{
		"kind":               "wfh",
		"requesterId":        "emp-1",
		"requesterName":      "Eka Putri",
		"requesterEmail":     "eka@example.com",
		"dates":              []string{"2026-10-20"},
		"workType":           "full_day",
		"approverAssignment": map[string]string{"teamLead": "Tia Lead"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Request struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"request"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "pending", created.Request.Status)

	w = send(r, http.MethodPatch, "/requests/"+created.Request.ID, lead, map[string]string{"action": "approve"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var decided struct {
		Request struct {
			Status    string            `json:"status"`
			Decisions map[string]string `json:"decisions"`
		} `json:"request"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decided))
	assert.Equal(t, "approved", decided.Request.Status)
	assert.Equal(t, "approve", decided.Request.Decisions["teamLead"])

	// terminal, keputusan kedua ditolak
	w = send(r, http.MethodPatch, "/requests/"+created.Request.ID, lead, map[string]string{"action": "approve"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = send(r, http.MethodGet, "/requests?view=all", employee, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Requests []map[string]any `json:"requests"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed.Requests, 1)
}

func TestBuildApp_InvalidApprovers(t *testing.T) {
	cfg := memoryConfig()
	cfg.WFHApprovers = []string{"ceo"}

	_, err := app.BuildApp(context.Background(), cfg, gin.New(), zap.NewNop())
	assert.Error(t, err)
}
