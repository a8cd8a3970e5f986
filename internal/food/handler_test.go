package food

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

	"cookingapp/internal/httpx"
	"cookingapp/pkg/models"
)

func newRouter(t *testing.T) (*gin.Engine, int64) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, db, _ := newService(t)
	noodles := seedIngredient(t, db, "Rice noodles")

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/foods"))
	return r, noodles
}

func send(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandler_FoodLifecycle(t *testing.T) {
	r, noodles := newRouter(t)

	rr := send(r, http.MethodPost, "/api/foods", gin.H{
		"name": "Pad Thai",
		"recipes": []gin.H{{
			"version":      "classic",
			"ingredients":  []gin.H{{"ingredient_id": noodles, "quantity": 200, "unit": "G"}},
			"instructions": []gin.H{{"step": 1, "description": "Soak noodles"}},
		}},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var f models.Food
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &f))
	assert.Equal(t, 1, f.RecipeCount)

	rr = send(r, http.MethodGet, fmt.Sprintf("/api/foods/%d/recipe-status", f.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var st models.FoodRecipeStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.True(t, st.HasRecipe)
	assert.Equal(t, "Pad Thai", st.FoodName)

	rr = send(r, http.MethodPost, fmt.Sprintf("/api/foods/%d/recipes", f.ID), gin.H{
		"title":        "Vegan Pad Thai",
		"ingredients":  []gin.H{{"ingredient_id": noodles, "quantity": 150, "unit": "G"}},
		"instructions": []gin.H{{"step": 1, "description": "Soak noodles"}},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = send(r, http.MethodGet, fmt.Sprintf("/api/foods/%d/recipes", f.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var recs []models.Recipe
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recs))
	assert.Len(t, recs, 2)

	rr = send(r, http.MethodPost, "/api/foods", gin.H{"name": "pad thai"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = send(r, http.MethodDelete, fmt.Sprintf("/api/foods/%d", f.ID), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = send(r, http.MethodGet, fmt.Sprintf("/api/foods/%d", f.ID), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_RejectsBadPayload(t *testing.T) {
	r, _ := newRouter(t)

	rr := send(r, http.MethodPost, "/api/foods", gin.H{"category": "Soup"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, httpx.CodeValidationFailed, body.Code)

	rr = send(r, http.MethodGet, "/api/foods/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
