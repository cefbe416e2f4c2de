package search

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() http.Handler {
	r := chi.NewRouter()
	NewHandler(newTestService(staticSource{listings: austinFixture()})).Routes(r)
	return r
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleSearch(t *testing.T) {
	rec := get(t, newTestRouter(), "/search?location=austin&guests=2&page=1&limit=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data       []map[string]interface{} `json:"data"`
		Pagination Meta                     `json:"pagination"`
		Showing    string                   `json:"showing"`
		Stay       *ValidationResult        `json:"stay"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, 2, body.Pagination.Total)
	assert.True(t, body.Pagination.HasNext)
	assert.Nil(t, body.Stay)
}

func TestHandleSearchWithGarbageParams(t *testing.T) {
	rec := get(t, newTestRouter(), "/search?guests=abc&limit=-4&page=zero&priceMax=-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Pagination.Limit)
	assert.Equal(t, 5, body.Pagination.Total)
}

func TestHandleValidateStay(t *testing.T) {
	rec := get(t, newTestRouter(), "/stays/validate?checkIn=2025-06-10&checkOut=2025-08-01")
	require.Equal(t, http.StatusOK, rec.Code)

	var res ValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.IsValid)
	assert.Equal(t, "Maximum stay is 30 nights", res.Errors[ErrKeyDateRange])
	assert.Equal(t, 52, *res.Nights)
}

func TestHandleCategories(t *testing.T) {
	rec := get(t, newTestRouter(), "/categories")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"beach"`)
}

func TestLoadCategories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Treehouses: [treehouse, canopy]\npools:\n  - pool\n"), 0o600))

	c, err := LoadCategories(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"treehouse", "canopy"}, c["Treehouses"])

	p := NewPipeline(c)
	assert.Equal(t, []string{"pools", "treehouses"}, p.Categories())

	_, err = LoadCategories(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	_, err = LoadCategories(path)
	assert.Error(t, err)
}
