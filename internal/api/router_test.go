package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sesmlabs/fabric/internal/domain"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	app := NewApp(zap.NewNop())
	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func getJSON(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func deleteReq(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+path, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE %s: %v", path, err)
	}
	return resp
}

// --- Tests ---

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp := getJSON(t, ts, "/health")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	decodeJSON(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestWriteAndReadEpisodic(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/memory/write", map[string]any{
		"content":     "door is open",
		"ttl_seconds": 60,
	})
	if resp.StatusCode != 201 {
		t.Fatalf("write: expected 201, got %d", resp.StatusCode)
	}
	var written domain.Item
	decodeJSON(t, resp, &written)
	if written.Type != domain.MemoryTypeEpisodic {
		t.Errorf("expected type episodic, got %q", written.Type)
	}
	if written.Mentions != 1 {
		t.Errorf("expected 1 mention, got %d", written.Mentions)
	}
	if written.ID == "" {
		t.Error("expected an id")
	}

	resp = getJSON(t, ts, "/memory/episodic")
	if resp.StatusCode != 200 {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}
	var items []domain.Item
	decodeJSON(t, resp, &items)
	if len(items) != 1 {
		t.Fatalf("expected 1 episodic item, got %d", len(items))
	}
	if items[0].Content != "door is open" {
		t.Errorf("unexpected content %q", items[0].Content)
	}
	if items[0].CreatedAt.IsZero() {
		t.Error("created_at must round-trip as RFC 3339")
	}
}

func TestRepeatWritePromotesToKnowledge(t *testing.T) {
	ts := newTestServer(t)

	for i := 0; i < 2; i++ {
		resp := postJSON(t, ts, "/memory/write", map[string]any{
			"content":     "Door Is Open",
			"ttl_seconds": 60,
		})
		if resp.StatusCode != 201 {
			t.Fatalf("write %d: expected 201, got %d", i, resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp := getJSON(t, ts, "/memory/knowledge")
	var items []domain.Item
	decodeJSON(t, resp, &items)
	if len(items) != 1 {
		t.Fatalf("expected 1 knowledge item, got %d", len(items))
	}
	if items[0].Type != domain.MemoryTypeKnowledge {
		t.Errorf("expected type knowledge, got %q", items[0].Type)
	}
	if items[0].Trust <= 0 {
		t.Errorf("expected positive trust, got %v", items[0].Trust)
	}

	// Episodic list still holds the single live entry with 2 mentions.
	resp = getJSON(t, ts, "/memory/episodic")
	var episodic []domain.Item
	decodeJSON(t, resp, &episodic)
	if len(episodic) != 1 || episodic[0].Mentions != 2 {
		t.Fatalf("expected one episodic entry with 2 mentions, got %+v", episodic)
	}

	resp = getJSON(t, ts, "/memory/all")
	var all []domain.Item
	decodeJSON(t, resp, &all)
	if len(all) != 2 {
		t.Fatalf("expected 2 merged items, got %d", len(all))
	}
}

func TestWriteValidation(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"empty content", map[string]any{"content": "", "ttl_seconds": 60}},
		{"whitespace content", map[string]any{"content": "   ", "ttl_seconds": 60}},
		{"negative ttl", map[string]any{"content": "x", "ttl_seconds": -5}},
		{"zero ttl", map[string]any{"content": "x", "ttl_seconds": 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, ts, "/memory/write", tc.body)
			defer resp.Body.Close()
			if resp.StatusCode != 400 {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
		})
	}

	// Nothing should have been stored.
	resp := getJSON(t, ts, "/memory/episodic")
	var items []domain.Item
	decodeJSON(t, resp, &items)
	if len(items) != 0 {
		t.Errorf("expected empty store after rejected writes, got %d items", len(items))
	}
}

func TestOmittedTTLUsesDefault(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/memory/write", map[string]any{"content": "door is open"})
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var written domain.Item
	decodeJSON(t, resp, &written)
	if written.ExpiresAt == nil {
		t.Fatal("episodic item must expose expires_at")
	}
	ttl := written.ExpiresAt.Sub(written.CreatedAt)
	if ttl.Seconds() != 60 {
		t.Errorf("expected default 60s ttl, got %v", ttl)
	}
}

func TestKnowledgeAdminEndpoints(t *testing.T) {
	ts := newTestServer(t)

	for i := 0; i < 2; i++ {
		resp := postJSON(t, ts, "/memory/write", map[string]any{"content": "door is open"})
		resp.Body.Close()
	}

	resp := getJSON(t, ts, "/memory/knowledge")
	var items []domain.Item
	decodeJSON(t, resp, &items)
	if len(items) != 1 {
		t.Fatalf("expected 1 knowledge item, got %d", len(items))
	}

	resp = getJSON(t, ts, "/memory/knowledge/"+items[0].ID)
	if resp.StatusCode != 200 {
		t.Fatalf("get: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = deleteReq(t, ts, "/memory/knowledge/"+items[0].ID)
	if resp.StatusCode != 204 {
		t.Fatalf("delete: expected 204, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = deleteReq(t, ts, "/memory/knowledge/"+items[0].ID)
	if resp.StatusCode != 404 {
		t.Fatalf("second delete: expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = getJSON(t, ts, "/memory/knowledge/not-a-uuid")
	if resp.StatusCode != 400 {
		t.Fatalf("bad id: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
