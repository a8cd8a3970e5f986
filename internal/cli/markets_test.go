package cli

import (
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marketsCSV = `city,supermarket_name,official_website,catalog_search_url,notes
Bangkok,Tops,https://www.tops.co.th,https://www.tops.co.th/en/search/{ingredient},
Bangkok,Big C,https://www.bigc.co.th,https://www.bigc.co.th/search?q={ingredient},"Hypermarket, 24h"
bangkok,BIG C,,,
Hanoi,WinMart,https://winmart.vn,,
,Nameless,,,
`

func TestImportExportMarkets(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "chef.db")
	in := writeFile(t, dir, "markets.csv", marketsCSV)

	out, err := run(t, dbPath, "import-markets", in)
	require.NoError(t, err)
	assert.Equal(t, "imported 3 of 4 markets\n", out)

	out, err = run(t, dbPath, "import-markets", in, "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows":4,"added":0}`, out)

	out, err = run(t, dbPath, "export-markets")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "export_markets", []byte(out))

	out, err = run(t, dbPath, "export-markets", "--city", "HANOI")
	require.NoError(t, err)
	assert.Equal(t, "city,supermarket_name,official_website,catalog_search_url,notes\nHanoi,WinMart,https://winmart.vn,,\n", out)
}

func TestImportMarkets_MissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, filepath.Join(dir, "chef.db"), "import-markets", filepath.Join(dir, "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.csv")
}
