package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/flowmotion/flowmotion/pkg/errors"
	"github.com/flowmotion/flowmotion/pkg/geometry"
	"github.com/flowmotion/flowmotion/pkg/pipeline"
	"github.com/flowmotion/flowmotion/pkg/scene"
	"github.com/flowmotion/flowmotion/pkg/store"
	"github.com/flowmotion/flowmotion/pkg/timeline"
)

// maxBodyBytes caps request bodies; scenes are small documents.
const maxBodyBytes = 4 << 20

// =============================================================================
// Request / Response Types
// =============================================================================

// EvalRequest is the body of POST /v1/eval.
type EvalRequest struct {
	Scene   scene.Scene      `json:"scene"`
	Options pipeline.Options `json:"options"`
}

// LayoutResponse is the body of layout endpoints.
type LayoutResponse struct {
	SceneHash string            `json:"scene_hash"`
	Diagram   *geometry.Diagram `json:"diagram"`
}

// FrameResponse is the body of frame endpoints. Frame is null in
// still-image mode.
type FrameResponse struct {
	SceneHash   string               `json:"scene_hash"`
	FrameIndex  int                  `json:"frame_index"`
	FPS         float64              `json:"fps"`
	TotalFrames int                  `json:"total_frames"`
	Frame       *timeline.FrameState `json:"frame"`
}

// =============================================================================
// Health
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Inline Pipeline
// =============================================================================

func (s *Server) handleEval(w http.ResponseWriter, r *http.Request) {
	var req EvalRequest
	if !s.decodeSceneRequest(w, r, &req) {
		return
	}

	result, err := s.cfg.Runner.Execute(r.Context(), req.Scene, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req EvalRequest
	if !s.decodeSceneRequest(w, r, &req) {
		return
	}
	opts := req.Options
	opts.FPS = pipeline.StillFPS // geometry only, skip frame evaluation

	result, err := s.cfg.Runner.Execute(r.Context(), req.Scene, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{
		SceneHash: result.SceneHash,
		Diagram:   result.Diagram,
	})
}

// decodeSceneRequest reads and schema-validates an EvalRequest body.
// On failure it writes the error response and returns false.
func (s *Server) decodeSceneRequest(w http.ResponseWriter, r *http.Request, req *EvalRequest) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidScene, err, "read request body"))
		return false
	}
	if err := json.Unmarshal(body, req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidScene, err, "parse request body"))
		return false
	}
	return true
}

// =============================================================================
// Stored Scenes
// =============================================================================

func (s *Server) handleSceneCreate(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.decodeSceneDocument(w, r)
	if !ok {
		return
	}

	rec, err := s.cfg.Store.Save(r.Context(), sc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleSceneList(w http.ResponseWriter, r *http.Request) {
	infos, err := s.cfg.Store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if infos == nil {
		infos = []store.RecordInfo{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleSceneGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleSceneUpdate(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.decodeSceneDocument(w, r)
	if !ok {
		return
	}

	rec, err := s.cfg.Store.Update(r.Context(), chi.URLParam(r, "id"), sc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleSceneDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSceneLayout(w http.ResponseWriter, r *http.Request) {
	rec, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.cfg.Runner.Execute(r.Context(), rec.Scene, pipeline.Options{
		FPS:     pipeline.StillFPS,
		Refresh: r.URL.Query().Get("refresh") == "true",
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{
		SceneHash: result.SceneHash,
		Diagram:   result.Diagram,
	})
}

func (s *Server) handleSceneFrame(w http.ResponseWriter, r *http.Request) {
	rec, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	frame, err := strconv.Atoi(chi.URLParam(r, "frame"))
	if err != nil || frame < 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidTimeline,
			"frame must be a non-negative integer"))
		return
	}

	opts := pipeline.Options{Frame: frame, FPS: pipeline.DefaultFPS}
	if v := r.URL.Query().Get("fps"); v != "" {
		fps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidTimeline,
				"fps must be numeric, got %q", v))
			return
		}
		opts.FPS = fps
	}

	result, err := s.cfg.Runner.Execute(r.Context(), rec.Scene, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FrameResponse{
		SceneHash:   result.SceneHash,
		FrameIndex:  frame,
		FPS:         opts.FPS,
		TotalFrames: result.TotalFrames,
		Frame:       result.Frame,
	})
}

// decodeSceneDocument reads a bare scene body, schema-validates it, and
// runs semantic validation before the scene is stored.
func (s *Server) decodeSceneDocument(w http.ResponseWriter, r *http.Request) (scene.Scene, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidScene, err, "read request body"))
		return scene.Scene{}, false
	}
	if err := scene.ValidateDocument(body); err != nil {
		s.writeError(w, err)
		return scene.Scene{}, false
	}
	sc, err := scene.Unmarshal(body)
	if err != nil {
		s.writeError(w, err)
		return scene.Scene{}, false
	}
	if err := sc.Validate(); err != nil {
		s.writeError(w, err)
		return scene.Scene{}, false
	}
	return sc, true
}
