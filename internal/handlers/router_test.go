package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/recommender/internal/catalog"
	"github.com/lehigh-university-libraries/recommender/internal/engine"
	"github.com/lehigh-university-libraries/recommender/internal/recommend"
	"github.com/lehigh-university-libraries/recommender/internal/shelf"
	"github.com/lehigh-university-libraries/recommender/internal/stats"
)

func testServer(t *testing.T, ready bool) *httptest.Server {
	t.Helper()

	holder := engine.NewHolder(filepath.Join(t.TempDir(), "missing.csv"), engine.DefaultSettings())
	if ready {
		corpus := catalog.Corpus{
			{ID: 1, Title: "Python Crash Course", Category: "Programming", Language: "Python", Tags: "beginner,python", Rating: 4.8, Pages: 280, Difficulty: catalog.Beginner},
			{ID: 2, Title: "Fluent Python", Category: "Programming", Language: "Python", Tags: "advanced,python", Rating: 4.6, Pages: 750, Difficulty: catalog.Advanced},
			{ID: 3, Title: "Learning Go", Category: "Programming", Language: "Go", Tags: "go", Rating: 4.4, Pages: 350, Difficulty: catalog.Intermediate},
		}
		s, err := engine.NewSnapshot(context.Background(), corpus, engine.DefaultSettings())
		if err != nil {
			t.Fatalf("NewSnapshot failed: %v", err)
		}
		holder.Publish(s)
	}

	store, err := shelf.Open(filepath.Join(t.TempDir(), "shelf.db"))
	if err != nil {
		t.Fatalf("Failed to open shelf: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(New(holder, store).Router())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestStatusCodes(t *testing.T) {
	srv := testServer(t, true)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"healthcheck", http.MethodGet, "/healthcheck", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"recommendations", http.MethodGet, "/api/recommendations?q=python", http.StatusOK},
		{"bad min rating", http.MethodGet, "/api/recommendations?min_rating=high", http.StatusBadRequest},
		{"bad max results", http.MethodGet, "/api/recommendations?max_results=x", http.StatusBadRequest},
		{"book", http.MethodGet, "/api/books/2", http.StatusOK},
		{"unknown book", http.MethodGet, "/api/books/99", http.StatusNotFound},
		{"bad book id", http.MethodGet, "/api/books/abc", http.StatusBadRequest},
		{"similar", http.MethodGet, "/api/books/2/similar?n=1", http.StatusOK},
		{"similar unknown", http.MethodGet, "/api/books/99/similar", http.StatusNotFound},
		{"top rated", http.MethodGet, "/api/top-rated?n=2", http.StatusOK},
		{"stats", http.MethodGet, "/api/stats", http.StatusOK},
		{"categories", http.MethodGet, "/api/categories", http.StatusOK},
		{"languages", http.MethodGet, "/api/languages", http.StatusOK},
		{"reload failure", http.MethodPost, "/api/reload", http.StatusInternalServerError},
		{"shelf entry missing", http.MethodGet, "/api/shelf/7", http.StatusNotFound},
		{"shelf bad id", http.MethodGet, "/api/shelf/x", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, srv.URL+tt.path, "")
			if resp.StatusCode != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}
}

func TestNotReady(t *testing.T) {
	srv := testServer(t, false)

	for _, path := range []string{"/api/recommendations", "/api/stats", "/api/books/1", "/api/top-rated"} {
		resp := do(t, http.MethodGet, srv.URL+path, "")
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("%s: expected 503, got %d", path, resp.StatusCode)
		}
	}

	// the shelf does not depend on the catalog
	if resp := do(t, http.MethodGet, srv.URL+"/api/shelf", ""); resp.StatusCode != http.StatusOK {
		t.Errorf("Expected shelf to be available, got %d", resp.StatusCode)
	}
}

func TestRecommendationsBody(t *testing.T) {
	srv := testServer(t, true)

	resp := do(t, http.MethodGet, srv.URL+"/api/recommendations?q=python&max_results=1&difficulty=All", "")
	var res recommend.Result
	decode(t, resp, &res)
	if res.Match != recommend.MatchExact {
		t.Errorf("Expected match %s, got %s", recommend.MatchExact, res.Match)
	}
	if len(res.Items) != 1 {
		t.Errorf("Expected 1 item, got %d", len(res.Items))
	}

	resp = do(t, http.MethodGet, srv.URL+"/api/stats", "")
	var st stats.Stats
	decode(t, resp, &st)
	if st.Total != 3 || st.DistinctLanguages != 2 {
		t.Errorf("Unexpected stats %+v", st)
	}
}

func TestShelfLifecycle(t *testing.T) {
	srv := testServer(t, false)

	resp := do(t, http.MethodPost, srv.URL+"/api/shelf", `{"title":"Learning Go","author":"Bodner","tags":"go"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	var created shelf.Entry
	decode(t, resp, &created)
	if created.ID == 0 || created.ReadingStatus != shelf.StatusUnread {
		t.Errorf("Unexpected entry %+v", created)
	}

	resp = do(t, http.MethodPost, srv.URL+"/api/shelf", `{"title":"No Author"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid entry, got %d", resp.StatusCode)
	}
	resp = do(t, http.MethodPost, srv.URL+"/api/shelf", `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid JSON, got %d", resp.StatusCode)
	}

	entryURL := srv.URL + "/api/shelf/" + strconv.FormatInt(created.ID, 10)
	resp = do(t, http.MethodPatch, entryURL, `{"reading_status":"read","personal_rating":5}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 on update, got %d", resp.StatusCode)
	}
	var updated shelf.Entry
	decode(t, resp, &updated)
	if updated.ReadingStatus != shelf.StatusRead || updated.PersonalRating != 5 {
		t.Errorf("Unexpected update %+v", updated)
	}

	resp = do(t, http.MethodGet, srv.URL+"/api/shelf?q=bodner", "")
	var found []shelf.Entry
	decode(t, resp, &found)
	if len(found) != 1 {
		t.Errorf("Expected 1 search hit, got %d", len(found))
	}

	resp = do(t, http.MethodGet, srv.URL+"/api/shelf/stats", "")
	var st shelf.Stats
	decode(t, resp, &st)
	if st.Total != 1 || st.ByStatus[shelf.StatusRead] != 1 {
		t.Errorf("Unexpected shelf stats %+v", st)
	}

	if resp = do(t, http.MethodDelete, entryURL, ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204 on delete, got %d", resp.StatusCode)
	}
	if resp = do(t, http.MethodDelete, entryURL, ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 on second delete, got %d", resp.StatusCode)
	}
}
