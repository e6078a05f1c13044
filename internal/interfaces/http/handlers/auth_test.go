// internal/interfaces/http/handlers/auth_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSONRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	router, _, _ := setupAPI(t)

	register := gin.H{
		"email":     "jean@example.com",
		"password":  "password123",
		"firstName": "Jean",
		"lastName":  "Dupont",
	}

	w := doJSONRequest(t, router, http.MethodPost, "/api/auth/register", register, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Registering the same email again conflicts.
	w = doJSONRequest(t, router, http.MethodPost, "/api/auth/register", register, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSONRequest(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "jean@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		Data struct {
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.AccessToken)
	require.NotEmpty(t, login.Data.RefreshToken)

	w = doJSONRequest(t, router, http.MethodGet, "/api/auth/me", nil, login.Data.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		Data struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "jean@example.com", me.Data.Email)

	w = doJSONRequest(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "jean@example.com",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
