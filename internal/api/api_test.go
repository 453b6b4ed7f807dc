package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starford/noter/internal/testutil"
)

func testRouter(t *testing.T, token string, notes map[string]string) http.Handler {
	t.Helper()
	_, svc := testutil.TestService(t, notes)
	return NewRouter(svc, token != "", token, nil)
}

func get(t *testing.T, h http.Handler, target string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

var sampleNotes = map[string]string{
	"groceries": "milk #home #shopping",
	"standup":   "notes #work see [groceries](groceries)",
	"plan":      "#work #home",
}

func TestGetNote(t *testing.T) {
	router := testRouter(t, "", sampleNotes)

	w := get(t, router, "/notes/groceries")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	note := decode[NoteDetail](t, w)
	if note.Title != "groceries" || note.Text != "milk #home #shopping" {
		t.Errorf("note = %+v", note)
	}
	if len(note.Tags) != 2 || note.Tags[0] != "home" {
		t.Errorf("tags = %v", note.Tags)
	}
	if len(note.Backlinks) != 1 || note.Backlinks[0] != "standup" {
		t.Errorf("backlinks = %v", note.Backlinks)
	}
}

func TestGetNote_EncodedTitle(t *testing.T) {
	router := testRouter(t, "", map[string]string{"my note": "spaced"})
	w := get(t, router, "/notes/my%20note")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if note := decode[NoteDetail](t, w); note.Text != "spaced" {
		t.Errorf("text = %q", note.Text)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	router := testRouter(t, "", nil)
	if w := get(t, router, "/notes/missing"); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if w := get(t, router, "/notes/.hidden"); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListNotes(t *testing.T) {
	router := testRouter(t, "", sampleNotes)

	tests := []struct {
		target string
		want   []string
	}{
		{"/notes", []string{"groceries", "plan", "standup"}},
		{"/notes?tag=work", []string{"plan", "standup"}},
		{"/notes?tag=work&tag=shopping", []string{"groceries", "plan", "standup"}},
		{"/notes?tag=work&tag=home&match=all", []string{"plan"}},
		{"/notes?tag=%23work+%23home&match=all", []string{"plan"}},
		{"/notes?tag=none", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := get(t, router, tt.target)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			resp := decode[NoteListResponse](t, w)
			if resp.Total != len(tt.want) || len(resp.Notes) != len(tt.want) {
				t.Fatalf("notes = %+v, want %v", resp.Notes, tt.want)
			}
			for i, n := range resp.Notes {
				if n.Title != tt.want[i] {
					t.Errorf("notes[%d] = %q, want %q", i, n.Title, tt.want[i])
				}
			}
		})
	}
}

func TestSearch(t *testing.T) {
	router := testRouter(t, "", sampleNotes)

	if w := get(t, router, "/search"); w.Code != http.StatusBadRequest {
		t.Errorf("missing q: status = %d", w.Code)
	}
	w := get(t, router, "/search?q=milk")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[SearchResponse](t, w)
	if len(resp.Results) != 1 || resp.Results[0].Title != "groceries" {
		t.Errorf("results = %+v", resp.Results)
	}
	if resp := decode[SearchResponse](t, get(t, router, "/search?q=zzzz")); resp.Results == nil {
		t.Error("empty results should encode as []")
	}
}

func TestTags(t *testing.T) {
	router := testRouter(t, "", sampleNotes)
	resp := decode[TagsResponse](t, get(t, router, "/tags"))
	if len(resp.Tags) != 3 {
		t.Fatalf("tags = %+v", resp.Tags)
	}
	if resp.Tags[0].Tag != "home" || resp.Tags[0].Count != 2 {
		t.Errorf("first tag = %+v", resp.Tags[0])
	}
}

func TestBacklinks(t *testing.T) {
	router := testRouter(t, "", sampleNotes)
	resp := decode[BacklinksResponse](t, get(t, router, "/notes/groceries/backlinks"))
	if len(resp.Backlinks) != 1 || resp.Backlinks[0] != "standup" {
		t.Errorf("backlinks = %+v", resp)
	}
}

func TestAuthMiddleware(t *testing.T) {
	router := testRouter(t, "secret", sampleNotes)

	if w := get(t, router, "/notes"); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d", w.Code)
	}
	if w := get(t, router, "/notes", "Authorization", "Bearer wrong"); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d", w.Code)
	}
	if w := get(t, router, "/notes", "Authorization", "Bearer secret"); w.Code != http.StatusOK {
		t.Errorf("valid token: status = %d", w.Code)
	}
}

func TestEventsMounted(t *testing.T) {
	_, svc := testutil.TestService(t, nil)
	called := false
	sse := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})
	router := NewRouter(svc, false, "", sse)
	if w := get(t, router, "/events"); w.Code != http.StatusNoContent || !called {
		t.Errorf("events handler not mounted: status = %d", w.Code)
	}
}
