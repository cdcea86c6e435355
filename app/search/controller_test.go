package search

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mdbase/core/logger"
	"mdbase/core/router"
)

func setupRouter(t *testing.T) *router.Router {
	t.Helper()

	db := setupSearchDB(t)
	seedDocument(t, db, "Hello World", "", "This is a hello test document with more than fifty characters of padding text here", time.Now())

	controller := NewSearchController(NewSearchService(db, logger.NewNop()), logger.NewNop())
	r := router.New()
	controller.Routes(r.Group("/api"))
	return r
}

func performSearch(t *testing.T, r *router.Router, query string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/documents/search?"+query, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	return w, body
}

func TestSearchEndpointSuccess(t *testing.T) {
	r := setupRouter(t)

	w, body := performSearch(t, r, "keyword=hello")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body["total"].(float64) != 1 {
		t.Errorf("total = %v, want 1", body["total"])
	}
	if body["keyword"] != "hello" || body["search_mode"] != "basic" {
		t.Errorf("echoed request = %v / %v", body["keyword"], body["search_mode"])
	}
	if _, ok := body["search_time_ms"].(float64); !ok {
		t.Error("search_time_ms must be present and numeric")
	}

	items := body["items"].([]any)
	item := items[0].(map[string]any)
	if _, ok := item["relevance_score"]; ok {
		t.Error("relevance_score must be omitted in basic mode")
	}
	if item["content_preview"] == "" {
		t.Error("content_preview must be present")
	}
	highlights := item["highlights"].(map[string]any)
	if highlights["title"] != "<mark>Hello</mark> World" {
		t.Errorf("title highlight = %v", highlights["title"])
	}
}

func TestSearchEndpointValidation(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		name  string
		query string
	}{
		{"missing keyword", ""},
		{"keyword too long", "keyword=" + strings.Repeat("a", 201)},
		{"bad mode", "keyword=hi&search_mode=fuzzy"},
		{"page below one", "keyword=hi&page=0"},
		{"per_page above cap", "keyword=hi&per_page=51"},
		{"bad highlight", "keyword=hi&highlight=sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := performSearch(t, r, tt.query)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if body["error"] == "" {
				t.Error("expected an error message")
			}
		})
	}
}

func TestSearchEndpointFulltextUnsupported(t *testing.T) {
	r := setupRouter(t)

	w, body := performSearch(t, r, "keyword=hello&search_mode=fulltext")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(body["error"].(string), "unsupported search mode") {
		t.Errorf("error = %v", body["error"])
	}
}

func TestSearchEndpointHighlightOff(t *testing.T) {
	r := setupRouter(t)

	w, body := performSearch(t, r, "keyword=hello&highlight=false")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	item := body["items"].([]any)[0].(map[string]any)
	if _, ok := item["highlights"]; ok {
		t.Error("highlights must be omitted when highlight=false")
	}
	if item["content_preview"] == "" {
		t.Error("content_preview must still be present")
	}
}
