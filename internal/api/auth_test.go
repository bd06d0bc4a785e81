package api_test

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

func postJSON(t *testing.T, engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	env := setupTestEnv(t)

	payload := gin.H{
		"name":     "New User",
		"email":    "new@example.com",
		"password": "password123",
		"profile": gin.H{
			"weight_kg":      60,
			"height_cm":      165,
			"age":            25,
			"sex":            "female",
			"activity_level": "light",
			"goal":           "cut",
		},
	}

	w := postJSON(t, env.router, "/api/v1/auth/register", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, decodeBody(t, w)["token"])

	t.Run("duplicate email", func(t *testing.T) {
		w := postJSON(t, env.router, "/api/v1/auth/register", payload)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("out-of-range profile", func(t *testing.T) {
		bad := gin.H{
			"name":     "Too Young",
			"email":    "young@example.com",
			"password": "password123",
			"profile": gin.H{
				"weight_kg":      60,
				"height_cm":      165,
				"age":            15,
				"sex":            "female",
				"activity_level": "light",
				"goal":           "cut",
			},
		}
		w := postJSON(t, env.router, "/api/v1/auth/register", bad)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "age")
	})

	t.Run("missing profile", func(t *testing.T) {
		w := postJSON(t, env.router, "/api/v1/auth/register", gin.H{
			"name":     "No Profile",
			"email":    "np@example.com",
			"password": "password123",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogin(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("valid credentials", func(t *testing.T) {
		w := postJSON(t, env.router, "/api/v1/auth/login", gin.H{
			"email":    "test@example.com",
			"password": "password123",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.NotEmpty(t, decodeBody(t, w)["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		w := postJSON(t, env.router, "/api/v1/auth/login", gin.H{
			"email":    "test@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
