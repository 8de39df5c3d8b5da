package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/flowmotion/flowmotion/pkg/pipeline"
	"github.com/flowmotion/flowmotion/pkg/store"
)

const sceneJSON = `{
	"grid": {"rows": 1, "cols": 2, "width": 1920, "height": 1080},
	"nodes": [
		{"id": "web", "row": 0, "col": 0},
		{"id": "db", "row": 0, "col": 1}
	],
	"connections": [
		{"from": {"node": "web"}, "to": {"node": "db"}}
	],
	"timeline": [
		{"kind": "sequence", "steps": [
			{"kind": "fillBox", "node": "web"},
			{"kind": "drawLine", "connection": "web->db"}
		]}
	]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(Config{
		Runner: pipeline.NewRunner(nil, nil, log.New(io.Discard)),
		Store:  store.NewMemoryStore(),
		Logger: log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return s
}

func doRequest(t *testing.T, s *Server, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestEval(t *testing.T) {
	s := newTestServer(t)
	body := fmt.Sprintf(`{"scene": %s, "options": {"frame": 10, "fps": 30}}`, sceneJSON)

	rec := doRequest(t, s, http.MethodPost, "/v1/eval", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result pipeline.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Diagram == nil {
		t.Error("response missing diagram")
	}
	if result.Frame == nil {
		t.Error("response missing frame state")
	}
	if result.TotalFrames <= 0 {
		t.Errorf("TotalFrames = %d, want > 0", result.TotalFrames)
	}
}

func TestEvalInvalidScene(t *testing.T) {
	s := newTestServer(t)
	// Connection references a node that doesn't exist.
	body := `{"scene": {
		"grid": {"rows": 1, "cols": 1, "width": 100, "height": 100},
		"nodes": [{"id": "a", "row": 0, "col": 0}],
		"connections": [{"from": {"node": "a"}, "to": {"node": "ghost"}}]
	}}`

	rec := doRequest(t, s, http.MethodPost, "/v1/eval", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d, body = %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}

	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if er.Code == "" {
		t.Error("error response missing code")
	}
}

func TestLayout(t *testing.T) {
	s := newTestServer(t)
	body := fmt.Sprintf(`{"scene": %s}`, sceneJSON)

	rec := doRequest(t, s, http.MethodPost, "/v1/layout", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp LayoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Diagram == nil {
		t.Fatal("response missing diagram")
	}
	if len(resp.Diagram.Nodes) != 2 {
		t.Errorf("diagram has %d nodes, want 2", len(resp.Diagram.Nodes))
	}
	if resp.SceneHash == "" {
		t.Error("response missing scene hash")
	}
}

func TestSceneCRUD(t *testing.T) {
	s := newTestServer(t)

	// Create
	rec := doRequest(t, s, http.MethodPost, "/v1/scenes", sceneJSON)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created store.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created record: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created record missing id")
	}

	// Get
	rec = doRequest(t, s, http.MethodGet, "/v1/scenes/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	// List
	rec = doRequest(t, s, http.MethodGet, "/v1/scenes", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var infos []store.RecordInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("list returned %d records, want 1", len(infos))
	}

	// Layout of stored scene
	rec = doRequest(t, s, http.MethodGet, "/v1/scenes/"+created.ID+"/layout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("layout status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Frame of stored scene
	rec = doRequest(t, s, http.MethodGet, "/v1/scenes/"+created.ID+"/frames/5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("frame status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var fr FrameResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &fr); err != nil {
		t.Fatalf("decode frame response: %v", err)
	}
	if fr.Frame == nil {
		t.Error("frame response missing state")
	}
	if fr.FrameIndex != 5 {
		t.Errorf("FrameIndex = %d, want 5", fr.FrameIndex)
	}

	// Delete
	rec = doRequest(t, s, http.MethodDelete, "/v1/scenes/"+created.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doRequest(t, s, http.MethodGet, "/v1/scenes/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSceneFrameBadIndex(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/v1/scenes", sceneJSON)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	var created store.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created record: %v", err)
	}

	rec = doRequest(t, s, http.MethodGet, "/v1/scenes/"+created.ID+"/frames/nope", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSceneCreateRejectsInvalidDocument(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/v1/scenes", `{"nodes": "not-an-array"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d, body = %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}
