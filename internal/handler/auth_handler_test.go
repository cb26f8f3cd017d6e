package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatterbox/internal/pkg/errs"
)

func TestHandleRegister_Success(t *testing.T) {
	deps, _ := newTestDeps()

	rec, envelope := doJSON(HandleRegister(deps), http.MethodPost, "/api/auth/register",
		`{"username":"alice","password":"secret123"}`, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), envelope["code"])
}

func TestHandleRegister_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"username too short", `{"username":"ab","password":"secret123"}`, errs.ErrInvalidUsername},
		{"username bad characters", `{"username":"Alice!","password":"secret123"}`, errs.ErrInvalidUsername},
		{"password too short", `{"username":"alice","password":"short"}`, errs.ErrInvalidPassword},
		{"not json", `plain text`, errs.ErrInvalidJSONFormat},
		{"unknown field", `{"username":"alice","password":"secret123","role":"admin"}`, errs.ErrInvalidJSONFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, _ := newTestDeps()

			_, envelope := doJSON(HandleRegister(deps), http.MethodPost, "/api/auth/register", tt.body, nil)
			assert.Equal(t, float64(tt.wantCode), envelope["code"])
		})
	}
}

func TestHandleRegister_DuplicateUsername(t *testing.T) {
	deps, _ := newTestDeps()

	_, first := doJSON(HandleRegister(deps), http.MethodPost, "/api/auth/register",
		`{"username":"alice","password":"secret123"}`, nil)
	require.Equal(t, float64(0), first["code"])

	_, second := doJSON(HandleRegister(deps), http.MethodPost, "/api/auth/register",
		`{"username":"alice","password":"other456"}`, nil)
	assert.Equal(t, float64(errs.ErrUserAlreadyExists), second["code"])
}

func TestHandleLogin_IssuesResolvableToken(t *testing.T) {
	deps, _ := newTestDeps()

	_, reg := doJSON(HandleRegister(deps), http.MethodPost, "/api/auth/register",
		`{"username":"alice","password":"secret123"}`, nil)
	require.Equal(t, float64(0), reg["code"])

	rec, envelope := doJSON(HandleLogin(deps), http.MethodPost, "/api/auth/login",
		`{"username":"alice","password":"secret123"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(0), envelope["code"])

	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	token, ok := data["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	identity, ok := deps.Sessions.Resolve(token)
	require.True(t, ok)
	assert.Equal(t, "alice", identity)
}

func TestHandleLogin_RejectsBadCredentials(t *testing.T) {
	deps, _ := newTestDeps()

	_, reg := doJSON(HandleRegister(deps), http.MethodPost, "/api/auth/register",
		`{"username":"alice","password":"secret123"}`, nil)
	require.Equal(t, float64(0), reg["code"])

	t.Run("wrong password", func(t *testing.T) {
		_, envelope := doJSON(HandleLogin(deps), http.MethodPost, "/api/auth/login",
			`{"username":"alice","password":"wrong999"}`, nil)
		assert.Equal(t, float64(errs.ErrInvalidCredentials), envelope["code"])
	})

	t.Run("unknown user", func(t *testing.T) {
		_, envelope := doJSON(HandleLogin(deps), http.MethodPost, "/api/auth/login",
			`{"username":"nobody","password":"secret123"}`, nil)
		assert.Equal(t, float64(errs.ErrInvalidCredentials), envelope["code"])
	})

	assert.Equal(t, 0, deps.Sessions.Active())
}

func TestHandleLogout_RevokesToken(t *testing.T) {
	deps, _ := newTestDeps()
	token := deps.Sessions.Issue("alice")

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	rec, envelope := doJSON(HandleLogout(deps), http.MethodPost, "/api/auth/logout", `{}`, header)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), envelope["code"])

	_, ok := deps.Sessions.Resolve(token)
	assert.False(t, ok)
}

func TestHandleLogout_MissingToken(t *testing.T) {
	deps, _ := newTestDeps()

	rec, envelope := doJSON(HandleLogout(deps), http.MethodPost, "/api/auth/logout", `{}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, float64(errs.ErrInvalidToken), envelope["code"])
}

func TestHandleStats_ReportsCounts(t *testing.T) {
	deps, history := newTestDeps()

	_, reg := doJSON(HandleRegister(deps), http.MethodPost, "/api/auth/register",
		`{"username":"alice","password":"secret123"}`, nil)
	require.Equal(t, float64(0), reg["code"])

	deps.Sessions.Issue("alice")
	require.Equal(t, 0, history.appendCount())

	rec, envelope := doJSON(HandleStats(deps), http.MethodGet, "/api/stats", ``, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["total_users"])
	assert.Equal(t, float64(0), data["total_messages"])
	assert.Equal(t, float64(0), data["active_connections"])
	assert.Equal(t, float64(1), data["active_sessions"])
}
