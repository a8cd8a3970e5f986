package recipe

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
	"cookingapp/internal/ingredient"
	"cookingapp/pkg/database/dbtest"
	"cookingapp/pkg/models"
)

func newTestRouter(t *testing.T) (*gin.Engine, int64, int64) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := dbtest.Open(t)

	garlic := seedIngredient(t, db, "Garlic")
	basil := seedIngredient(t, db, "Thai basil")

	svc := NewService(NewRepo(db), ingredient.NewRepo(db), fakeFoods{}, nil)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/recipes"))
	return r, garlic, basil
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
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

func TestHandler_CreateThenUpdateKeepsLineIDs(t *testing.T) {
	r, garlic, basil := newTestRouter(t)

	rr := do(r, http.MethodPost, "/api/recipes", gin.H{
		"title": "Pad kra pao",
		"ingredients": []gin.H{
			{"ingredient_id": garlic, "quantity": 4, "unit": "CLOVE"},
		},
		"instructions": []gin.H{{"step": 1, "description": "Pound garlic"}},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created models.Recipe
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	garlicLine := created.Ingredients[0].ID

	rr = do(r, http.MethodPut, fmt.Sprintf("/api/recipes/%d", created.ID), gin.H{
		"title": "Pad kra pao",
		"ingredients": []gin.H{
			{"ingredient_id": basil, "quantity": 1, "unit": "cup"},
			{"ingredient_id": garlic, "quantity": 6, "unit": "clove"},
		},
		"instructions": []gin.H{{"step": 1, "description": "Pound garlic"}, {"step": 3, "description": "Add basil"}},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var updated models.Recipe
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	require.Len(t, updated.Ingredients, 2)
	assert.Equal(t, "Garlic", updated.Ingredients[0].IngredientName)
	assert.Equal(t, garlicLine, updated.Ingredients[0].ID)
	assert.Equal(t, 6.0, updated.Ingredients[0].Quantity)
	assert.Equal(t, models.UnitClove, updated.Ingredients[0].Unit)
	assert.Equal(t, 3, updated.Instructions[1].Step)

	rr = do(r, http.MethodGet, fmt.Sprintf("/api/recipes/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"unit":"CLOVE"`)
}

func TestHandler_Errors(t *testing.T) {
	r, garlic, _ := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"missing title", http.MethodPost, "/api/recipes", gin.H{
			"ingredients":  []gin.H{{"ingredient_id": garlic, "quantity": 1, "unit": "g"}},
			"instructions": []gin.H{{"step": 1, "description": "x"}},
		}, http.StatusBadRequest, httpx.CodeValidationFailed},
		{"blank title", http.MethodPost, "/api/recipes", gin.H{
			"title":        "   ",
			"ingredients":  []gin.H{{"ingredient_id": garlic, "quantity": 1, "unit": "g"}},
			"instructions": []gin.H{{"step": 1, "description": "x"}},
		}, http.StatusBadRequest, httpx.CodeValidationFailed},
		{"blank step description", http.MethodPost, "/api/recipes", gin.H{
			"title":        "t",
			"ingredients":  []gin.H{{"ingredient_id": garlic, "quantity": 1, "unit": "g"}},
			"instructions": []gin.H{{"step": 1, "description": "   "}},
		}, http.StatusBadRequest, httpx.CodeValidationFailed},
		{"zero quantity", http.MethodPost, "/api/recipes", gin.H{
			"title":        "t",
			"ingredients":  []gin.H{{"ingredient_id": garlic, "quantity": 0, "unit": "g"}},
			"instructions": []gin.H{{"step": 1, "description": "x"}},
		}, http.StatusBadRequest, httpx.CodeValidationFailed},
		{"unknown unit", http.MethodPost, "/api/recipes", gin.H{
			"title":        "t",
			"ingredients":  []gin.H{{"ingredient_id": garlic, "quantity": 1, "unit": "bushel"}},
			"instructions": []gin.H{{"step": 1, "description": "x"}},
		}, http.StatusBadRequest, httpx.CodeValidationFailed},
		{"duplicate step", http.MethodPost, "/api/recipes", gin.H{
			"title":        "t",
			"ingredients":  []gin.H{{"ingredient_id": garlic, "quantity": 1, "unit": "g"}},
			"instructions": []gin.H{{"step": 2, "description": "x"}, {"step": 2, "description": "y"}},
		}, http.StatusBadRequest, "DUPLICATE_KEY"},
		{"unknown ingredient", http.MethodPost, "/api/recipes", gin.H{
			"title":        "t",
			"ingredients":  []gin.H{{"ingredient_id": 999, "quantity": 1, "unit": "g"}},
			"instructions": []gin.H{{"step": 1, "description": "x"}},
		}, http.StatusNotFound, "NOT_FOUND"},
		{"unknown food", http.MethodPost, "/api/recipes/foods/77", gin.H{
			"title":        "t",
			"ingredients":  []gin.H{{"ingredient_id": garlic, "quantity": 1, "unit": "g"}},
			"instructions": []gin.H{{"step": 1, "description": "x"}},
		}, http.StatusNotFound, "NOT_FOUND"},
		{"get missing", http.MethodGet, "/api/recipes/12345", nil, http.StatusNotFound, "NOT_FOUND"},
		{"bad id", http.MethodDelete, "/api/recipes/abc", nil, http.StatusBadRequest, httpx.CodeValidationFailed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(r, tc.method, tc.path, tc.body)
			require.Equal(t, tc.status, rr.Code, rr.Body.String())

			var body httpx.ErrorBody
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestHandler_BlankInputStoresNothing(t *testing.T) {
	r, garlic, _ := newTestRouter(t)

	rr := do(r, http.MethodPost, "/api/recipes", gin.H{
		"title":        "   ",
		"description":  "   ",
		"ingredients":  []gin.H{{"ingredient_id": garlic, "quantity": 1, "unit": "g"}},
		"instructions": []gin.H{{"step": 1, "description": "   "}},
	})
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())

	rr = do(r, http.MethodGet, "/api/recipes", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestHandler_DeleteAndList(t *testing.T) {
	r, garlic, _ := newTestRouter(t)

	rr := do(r, http.MethodPost, "/api/recipes", gin.H{
		"title":        "Garlic oil",
		"ingredients":  []gin.H{{"ingredient_id": garlic, "quantity": 10, "unit": "clove"}},
		"instructions": []gin.H{{"step": 1, "description": "Fry slowly"}},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(r, http.MethodGet, "/api/recipes", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []models.Recipe
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rr = do(r, http.MethodDelete, fmt.Sprintf("/api/recipes/%d", list[0].ID), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = do(r, http.MethodDelete, fmt.Sprintf("/api/recipes/%d", list[0].ID), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
