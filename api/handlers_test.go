package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-wardrobe-search/config"
	"github.com/gcbaptista/go-wardrobe-search/internal/engine"
	"github.com/gcbaptista/go-wardrobe-search/internal/logger"
	"github.com/gcbaptista/go-wardrobe-search/internal/metrics"
	"github.com/gcbaptista/go-wardrobe-search/model"
	"github.com/gcbaptista/go-wardrobe-search/services"
)

func setupTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.NewEngine(t.TempDir(), engine.WithLogger(logger.Discard()))
}

func setupTestRouter(eng *engine.Engine, opts ...Option) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, eng, opts...)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr), w.Body.String())
	return apiErr
}

// setupWardrobe creates closet "wardrobe" holding A(Nike,M), B(Nike,L), C(Adidas,M).
func setupWardrobe(t *testing.T, router *gin.Engine) {
	t.Helper()
	w := doRequest(t, router, http.MethodPost, "/closets", config.ClosetSettings{Name: "wardrobe"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	items := `[
		{"itemID": "A", "brand": "Nike", "size": "M"},
		{"itemID": "B", "brand": "Nike", "size": "L"},
		{"itemID": "C", "brand": "Adidas", "size": "M"}
	]`
	w = doRequest(t, router, http.MethodPut, "/closets/wardrobe/items", items)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func hitIDs(t *testing.T, result services.SearchResult) []string {
	t.Helper()
	ids := make([]string, len(result.Hits))
	for i, h := range result.Hits {
		ids[i] = h.Item.ItemID
	}
	return ids
}

func TestHealthCheckHandler(t *testing.T) {
	router := setupTestRouter(setupTestEngine(t))

	w := doRequest(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestCreateClosetHandler(t *testing.T) {
	router := setupTestRouter(setupTestEngine(t))

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		expectedCode   ErrorCode
	}{
		{
			name:           "valid closet with default grammar",
			requestBody:    config.ClosetSettings{Name: "mine"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "duplicate closet",
			requestBody:    config.ClosetSettings{Name: "mine"},
			expectedStatus: http.StatusConflict,
			expectedCode:   ErrorCodeClosetExists,
		},
		{
			name:           "invalid JSON",
			requestBody:    "invalid json",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
		},
		{
			name:           "missing name",
			requestBody:    config.ClosetSettings{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
		},
		{
			name:           "path separator in name",
			requestBody:    config.ClosetSettings{Name: "a/b"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
		},
		{
			name:           "parent directory name",
			requestBody:    config.ClosetSettings{Name: ".."},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
		},
		{
			name:           "current directory name",
			requestBody:    config.ClosetSettings{Name: "."},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
		},
		{
			name: "ambiguous grammar",
			requestBody: config.ClosetSettings{
				Name:    "broken",
				Grammar: config.Grammar{Separator: ";", Terminator: ";"},
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/closets", tt.requestBody)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeAPIError(t, w).Code)
			}
		})
	}
}

func TestClosetLifecycle(t *testing.T) {
	router := setupTestRouter(setupTestEngine(t))
	setupWardrobe(t, router)

	w := doRequest(t, router, http.MethodGet, "/closets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Closets []string `json:"closets"`
		Count   int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, []string{"wardrobe"}, list.Closets)

	w = doRequest(t, router, http.MethodGet, "/closets/wardrobe", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var settings config.ClosetSettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, "=", settings.Grammar.Equality)

	w = doRequest(t, router, http.MethodGet, "/closets/wardrobe/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats services.ClosetStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.ItemCount)
	assert.Equal(t, 2, stats.Values["brand"])

	w = doRequest(t, router, http.MethodDelete, "/closets/wardrobe", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/closets/wardrobe", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrorCodeClosetNotFound, decodeAPIError(t, w).Code)

	w = doRequest(t, router, http.MethodDelete, "/closets/wardrobe", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDotClosetNamesCannotTouchParentDir(t *testing.T) {
	root := t.TempDir()
	sibling := filepath.Join(root, "precious", "keep.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(sibling), 0o755))
	require.NoError(t, os.WriteFile(sibling, []byte("keep"), 0o600))

	eng := engine.NewEngine(filepath.Join(root, "data"), engine.WithLogger(logger.Discard()))
	router := setupTestRouter(eng)
	setupWardrobe(t, router)

	for _, name := range []string{"..", "."} {
		w := doRequest(t, router, http.MethodPost, "/closets", config.ClosetSettings{Name: name})
		assert.Equal(t, http.StatusBadRequest, w.Code, "create %q: %s", name, w.Body.String())

		w = doRequest(t, router, http.MethodDelete, "/closets/"+name, nil)
		assert.NotEqual(t, http.StatusOK, w.Code, "delete %q: %s", name, w.Body.String())
	}

	_, err := os.Stat(sibling)
	assert.NoError(t, err)
	assert.Equal(t, []string{"wardrobe"}, eng.ListClosets())
}

func TestUpdateClosetSettingsHandler(t *testing.T) {
	router := setupTestRouter(setupTestEngine(t))
	setupWardrobe(t, router)

	french := config.ClosetSettings{Grammar: config.Grammar{
		Equality:   ":=",
		Separator:  "|",
		Terminator: ".",
		Yes:        "oui",
		No:         "non",
		Keys:       map[model.Dimension]string{model.DimensionBrand: "marque", model.DimensionSize: "taille"},
	}}
	w := doRequest(t, router, http.MethodPatch, "/closets/wardrobe/settings", french)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, router, http.MethodPost, "/closets/wardrobe/_search", SearchRequest{Query: "marque:=adidas."})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result services.SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, []string{"C"}, hitIDs(t, result))

	w = doRequest(t, router, http.MethodPatch, "/closets/wardrobe/settings", config.ClosetSettings{Name: "other"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPatch, "/closets/missing/settings", config.ClosetSettings{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestItemHandlers(t *testing.T) {
	router := setupTestRouter(setupTestEngine(t))
	setupWardrobe(t, router)

	w := doRequest(t, router, http.MethodPut, "/closets/wardrobe/items", `{"brand": "Puma", "colors": ["red"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var put struct {
		ItemIDs []string `json:"item_ids"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &put))
	require.Len(t, put.ItemIDs, 1)
	assert.NotEmpty(t, put.ItemIDs[0])

	w = doRequest(t, router, http.MethodGet, "/closets/wardrobe/items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":4`)

	w = doRequest(t, router, http.MethodGet, "/closets/wardrobe/items/A", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"brand":"Nike"`)

	w = doRequest(t, router, http.MethodDelete, "/closets/wardrobe/items/A", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/closets/wardrobe/items/A", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrorCodeItemNotFound, decodeAPIError(t, w).Code)

	w = doRequest(t, router, http.MethodDelete, "/closets/wardrobe/items/A", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodDelete, "/closets/wardrobe/items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, router, http.MethodGet, "/closets/wardrobe/items", nil)
	assert.Contains(t, w.Body.String(), `"total":0`)
}

func TestPutItemsValidation(t *testing.T) {
	router := setupTestRouter(setupTestEngine(t))
	setupWardrobe(t, router)

	tests := []struct {
		name         string
		body         string
		expectedCode ErrorCode
	}{
		{"not an object", `"nope"`, ErrorCodeInvalidJSON},
		{"empty array", `[]`, ErrorCodeValidationFailed},
		{"null item", `[null]`, ErrorCodeValidationFailed},
		{"duplicate ids", `[{"itemID": "x"}, {"itemID": "x"}]`, ErrorCodeValidationFailed},
		{"unknown size", `{"itemID": "x", "size": "HUGE"}`, ErrorCodeInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPut, "/closets/wardrobe/items", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.expectedCode, decodeAPIError(t, w).Code)
		})
	}

	w := doRequest(t, router, http.MethodPut, "/closets/missing/items", `{"itemID": "x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchHandler(t *testing.T) {
	router := setupTestRouter(setupTestEngine(t))
	setupWardrobe(t, router)

	one := 1
	tests := []struct {
		name     string
		request  SearchRequest
		expected []string
	}{
		{"weakest match first", SearchRequest{Query: "brand=nike;size=m;"}, []string{"B", "C", "A"}},
		{"limit keeps strongest", SearchRequest{Query: "brand=nike;size=m;", Limit: &one}, []string{"A"}},
		{"excludes non matching", SearchRequest{Query: "brand=adidas;"}, []string{"C"}},
		{"empty query", SearchRequest{Query: ""}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/closets/wardrobe/_search", tt.request)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var result services.SearchResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.Equal(t, tt.expected, hitIDs(t, result))
			assert.NotEmpty(t, result.QueryId)
		})
	}
}

func TestSearchHandlerErrors(t *testing.T) {
	router := setupTestRouter(setupTestEngine(t))
	setupWardrobe(t, router)

	w := doRequest(t, router, http.MethodPost, "/closets/wardrobe/_search", SearchRequest{Query: "brnad=nike;"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	apiErr := decodeAPIError(t, w)
	assert.Equal(t, ErrorCodeInvalidQuery, apiErr.Code)
	require.NotNil(t, apiErr.QueryError)
	assert.Equal(t, "unknown_field", apiErr.QueryError.Kind)
	assert.Equal(t, "brnad", apiErr.QueryError.Key)
	assert.Equal(t, "brand", apiErr.QueryError.Suggestion)
	assert.Equal(t, "capturing key", apiErr.QueryError.State)

	w = doRequest(t, router, http.MethodPost, "/closets/wardrobe/_search", SearchRequest{Query: "brand=nike"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unterminated_expression", decodeAPIError(t, w).QueryError.Kind)

	negative := -1
	w = doRequest(t, router, http.MethodPost, "/closets/wardrobe/_search", SearchRequest{Query: "", Limit: &negative})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrorCodeValidationFailed, decodeAPIError(t, w).Code)

	w = doRequest(t, router, http.MethodPost, "/closets/missing/_search", SearchRequest{Query: ""})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParseHandler(t *testing.T) {
	router := setupTestRouter(setupTestEngine(t))
	setupWardrobe(t, router)

	w := doRequest(t, router, http.MethodPost, "/closets/wardrobe/_parse", ParseRequest{Query: "brand=nike,adidas;size=l;dirty=no;"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := w.Body.String()
	assert.Contains(t, body, `"brands":["nike","adidas"]`)
	assert.Contains(t, body, `"sizes":["L"]`)
	assert.Contains(t, body, `"dirty":false`)

	w = doRequest(t, router, http.MethodPost, "/closets/wardrobe/_parse", ParseRequest{Query: "brand"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrorCodeInvalidQuery, decodeAPIError(t, w).Code)
}

func TestMultiSearchHandler(t *testing.T) {
	router := setupTestRouter(setupTestEngine(t))
	setupWardrobe(t, router)

	req := MultiSearchRequest{Queries: []services.NamedSearchQuery{
		{Name: "nike", Query: "brand=nike;"},
		{Name: "medium", Query: "size=m;"},
	}}
	w := doRequest(t, router, http.MethodPost, "/closets/wardrobe/_msearch", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result services.MultiSearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 2, result.TotalQueries)
	assert.Equal(t, []string{"A", "B"}, hitIDs(t, result.Results["nike"]))
	assert.Equal(t, []string{"A", "C"}, hitIDs(t, result.Results["medium"]))

	tests := []struct {
		name         string
		request      MultiSearchRequest
		expectedCode ErrorCode
	}{
		{"no queries", MultiSearchRequest{}, ErrorCodeValidationFailed},
		{"duplicate names", MultiSearchRequest{Queries: []services.NamedSearchQuery{
			{Name: "q", Query: ""}, {Name: "q", Query: ""},
		}}, ErrorCodeValidationFailed},
		{"invalid query", MultiSearchRequest{Queries: []services.NamedSearchQuery{
			{Name: "bad", Query: "colour=red;"},
		}}, ErrorCodeInvalidQuery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/closets/wardrobe/_msearch", tt.request)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.expectedCode, decodeAPIError(t, w).Code)
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	eng := engine.NewEngine(t.TempDir(), engine.WithLogger(logger.Discard()), engine.WithMetrics(m))
	router := setupTestRouter(eng, WithMetrics(m))
	setupWardrobe(t, router)

	doRequest(t, router, http.MethodPost, "/closets/wardrobe/_search", SearchRequest{Query: "brand=nike;"})

	w := doRequest(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "wardrobe_http_requests_total"), body)
	assert.Contains(t, body, `route="/closets/:name/_search"`)
	assert.Contains(t, body, "wardrobe_searches_total")

	plain := setupTestRouter(setupTestEngine(t))
	w = doRequest(t, plain, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestIDPropagation(t *testing.T) {
	router := setupTestRouter(setupTestEngine(t))

	req, err := http.NewRequest(http.MethodGet, "/closets/missing", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
	assert.Equal(t, "req-123", decodeAPIError(t, w).RequestID)
}

func TestRequestIDReplacedWhenUnsafe(t *testing.T) {
	router := setupTestRouter(setupTestEngine(t))

	tests := []struct {
		name string
		id   string
	}{
		{"oversized", strings.Repeat("x", maxRequestIDLength+1)},
		{"control characters", "abc\x01def"},
		{"inner space", "abc def"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "/health", nil)
			require.NoError(t, err)
			req.Header.Set(requestIDHeader, tt.id)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			got := w.Header().Get(requestIDHeader)
			assert.NotEqual(t, tt.id, got)
			assert.Len(t, got, 36)
		})
	}

	longest := strings.Repeat("y", maxRequestIDLength)
	req, err := http.NewRequest(http.MethodGet, "/health", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, longest)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, longest, w.Header().Get(requestIDHeader))
}
