package user

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cookingapp/pkg/database/dbtest"
	"cookingapp/pkg/models"
)

func TestHandler_CreateGetUpdateCity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := NewRepo(dbtest.Open(t))
	r := gin.New()
	NewHandler(repo).RegisterRoutes(r.Group("/api/users"))

	body, _ := json.Marshal(gin.H{"user_name": "nok", "email": "nok@example.com", "city": " Bangkok "})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var u models.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &u))
	assert.Equal(t, "Bangkok", u.City)

	body, _ = json.Marshal(gin.H{"city": ""})
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/users/%d/city", u.ID), bytes.NewReader(body)))
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/users/%d", u.ID), http.NoBody))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "city")

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users/999", http.NoBody))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	body, _ = json.Marshal(gin.H{"city": "Hanoi"})
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/users/999/city", bytes.NewReader(body)))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
