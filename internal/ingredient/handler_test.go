package ingredient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cookingapp/internal/apperr"
	"cookingapp/internal/httpx"
	"cookingapp/pkg/models"
)

type fakeDiscoverer struct {
	userID *int64
	city   string
	term   string
}

func (f *fakeDiscoverer) Discover(_ context.Context, userID *int64, city, term string) ([]models.DiscoveryResult, error) {
	f.userID, f.city, f.term = userID, city, term
	if term == "" {
		return nil, apperr.Business("Ingredient name is required for supermarket discovery")
	}
	return []models.DiscoveryResult{{City: city, SupermarketName: "Big C", IngredientMatched: true}}, nil
}

func newRouter(t *testing.T) (*gin.Engine, *fakeDiscoverer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _, _ := newService(t)
	disc := &fakeDiscoverer{}

	r := gin.New()
	NewHandler(svc, disc).RegisterRoutes(r.Group("/api/ingredients"))
	return r, disc
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

func TestHandler_CRUD(t *testing.T) {
	r, _ := newRouter(t)

	rr := send(r, http.MethodPost, "/api/ingredients", gin.H{
		"name":           "Galangal",
		"serving_amount": 10,
		"serving_unit":   "STK",
		"nutrition_list": []gin.H{{"nutrient": "calories", "value": 8, "unit": "kcal"}},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var ing models.Ingredient
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ing))
	assert.Equal(t, models.UnitPiece, ing.ServingUnit)
	require.Len(t, ing.Nutrition, 1)
	assert.Contains(t, rr.Body.String(), `"serving_unit":"PIECE"`)

	rr = send(r, http.MethodGet, fmt.Sprintf("/api/ingredients/%d", ing.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = send(r, http.MethodGet, fmt.Sprintf("/api/ingredients/%d/store-locations", ing.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = send(r, http.MethodPut, fmt.Sprintf("/api/ingredients/%d", ing.ID), gin.H{
		"name": "Galangal", "serving_amount": 10, "serving_unit": "g",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"nutrition_list":[]`)

	rr = send(r, http.MethodDelete, fmt.Sprintf("/api/ingredients/%d", ing.ID), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestHandler_Validation(t *testing.T) {
	r, _ := newRouter(t)

	cases := []struct {
		name string
		body any
	}{
		{"unknown unit", gin.H{"name": "x", "serving_amount": 1, "serving_unit": "bushel"}},
		{"unknown nutrient", gin.H{"name": "x", "serving_amount": 1, "serving_unit": "g",
			"nutrition_list": []gin.H{{"nutrient": "UMAMI", "value": 1, "unit": "g"}}}},
		{"non-positive value", gin.H{"name": "x", "serving_amount": 1, "serving_unit": "g",
			"nutrition_list": []gin.H{{"nutrient": "FAT", "value": 0, "unit": "g"}}}},
		{"missing name", gin.H{"serving_amount": 1, "serving_unit": "g"}},
		{"blank name", gin.H{"name": "   ", "serving_amount": 1, "serving_unit": "g"}},
		{"missing nutrition unit", gin.H{"name": "x", "serving_amount": 1, "serving_unit": "g",
			"nutrition_list": []gin.H{{"nutrient": "FAT", "value": 1}}}},
		{"blank nutrition unit", gin.H{"name": "x", "serving_amount": 1, "serving_unit": "g",
			"nutrition_list": []gin.H{{"nutrient": "FAT", "value": 1, "unit": "  "}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := send(r, http.MethodPost, "/api/ingredients", tc.body)
			require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())

			var body httpx.ErrorBody
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, httpx.CodeValidationFailed, body.Code)
		})
	}

	rr := send(r, http.MethodPost, "/api/ingredients", gin.H{
		"name": "x", "serving_amount": 1, "serving_unit": "g",
		"nutrition_list": []gin.H{{"nutrient": "FAT", "value": 1, "unit": "g"}, {"nutrient": "fat", "value": 2, "unit": "g"}},
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "DUPLICATE_KEY", body.Code)

	rr = send(r, http.MethodGet, "/api/ingredients/search/by-nutrition?nutrient=umami", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "BUSINESS_ERROR", body.Code)
}

func TestHandler_DiscoverRoutes(t *testing.T) {
	r, disc := newRouter(t)

	rr := send(r, http.MethodGet, "/api/ingredients/discover-supermarkets?ingredientName=Soy%20Sauce&city=Bangkok", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Soy Sauce", disc.term)
	assert.Equal(t, "Bangkok", disc.city)
	assert.Nil(t, disc.userID)

	rr = send(r, http.MethodGet, "/api/ingredients/Fish%20Sauce/discover-supermarkets?userId=7", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Fish Sauce", disc.term)
	require.NotNil(t, disc.userID)
	assert.Equal(t, int64(7), *disc.userID)

	rr = send(r, http.MethodGet, "/api/ingredients/discover-supermarkets?city=Bangkok", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = send(r, http.MethodGet, "/api/ingredients/discover-supermarkets?ingredientName=x&userId=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
