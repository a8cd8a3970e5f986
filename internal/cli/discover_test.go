package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cookingapp/pkg/models"
)

func TestDiscover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/villa") {
			fmt.Fprint(w, "<html><body>Kaffir lime leaves 50g</body></html>")
			return
		}
		fmt.Fprint(w, "<html><body>nothing here</body></html>")
	}))
	defer srv.Close()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "chef.db")
	csv := "city,supermarket_name,official_website,catalog_search_url\n" +
		"Chiang Mai,Villa Market," + srv.URL + "/villa," + srv.URL + "/villa/search\n" +
		"Chiang Mai,Rimping," + srv.URL + "/rimping,\n"
	_, err := run(t, dbPath, "import-markets", writeFile(t, dir, "markets.csv", csv))
	require.NoError(t, err)

	out, err := run(t, dbPath, "discover", "--city", "chiang mai", "kaffir", "lime", "--format", "json")
	require.NoError(t, err)

	var results []models.DiscoveryResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "Villa Market", results[0].SupermarketName)
	assert.True(t, results[0].IngredientMatched)
	assert.Equal(t, srv.URL+"/villa/search?q=kaffir+lime", results[0].CatalogSearchURL)
	assert.False(t, results[1].IngredientMatched)
	assert.Equal(t, models.SourceDB, results[1].DiscoverySource)

	out, err = run(t, dbPath, "discover", "--city", "Chiang Mai", "kaffir lime")
	require.NoError(t, err)
	assert.Contains(t, out, "SUPERMARKET")
	assert.Contains(t, out, "Villa Market")
}

func TestDiscover_NoCity(t *testing.T) {
	_, err := run(t, filepath.Join(t.TempDir(), "chef.db"), "discover", "tofu")
	require.Error(t, err)
	assert.Equal(t, "City is required when userId is not provided", err.Error())

	out, err := run(t, filepath.Join(t.TempDir(), "chef.db"), "discover", "--city", "Reykjavik", "tofu")
	require.NoError(t, err)
	assert.Equal(t, "no supermarkets known for this city\n", out)
}
