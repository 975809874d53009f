package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sesmlabs/fabric/internal/domain"
	"github.com/sesmlabs/fabric/internal/service"
)

type MemoryHandler struct {
	svc *service.FabricService
}

func NewMemoryHandler(svc *service.FabricService) *MemoryHandler {
	return &MemoryHandler{svc: svc}
}

type writeMemoryRequest struct {
	Content string `json:"content"`
	// Pointer so an omitted field (use the default TTL) is
	// distinguishable from an explicit zero.
	TTLSeconds *int `json:"ttl_seconds"`
}

type writeMemoryResponse struct {
	domain.Item
	Promoted  bool         `json:"promoted"`
	Knowledge *domain.Item `json:"knowledge,omitempty"`
}

// Write records one event. The dashboard re-fetches both lists after a
// successful write, but the written item is returned anyway for
// clients that want it.
func (h *MemoryHandler) Write(w http.ResponseWriter, r *http.Request) {
	var req writeMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ttlSeconds := 0
	if req.TTLSeconds != nil {
		ttlSeconds = *req.TTLSeconds
		if ttlSeconds == 0 {
			// An explicit zero is invalid; only an omitted field means
			// "use the default".
			writeError(w, http.StatusBadRequest, service.ErrInvalidTTL.Error())
			return
		}
	}

	result, err := h.svc.Write(r.Context(), req.Content, ttlSeconds)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContentEmpty), errors.Is(err, service.ErrInvalidTTL):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to write memory")
		}
		return
	}

	resp := writeMemoryResponse{
		Item:     result.Episodic.Item(),
		Promoted: result.Promoted,
	}
	if result.Knowledge != nil {
		item := result.Knowledge.Item()
		resp.Knowledge = &item
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *MemoryHandler) ListEpisodic(w http.ResponseWriter, r *http.Request) {
	entries := h.svc.ReadEpisodic(r.Context())
	items := make([]domain.Item, 0, len(entries))
	for i := range entries {
		items = append(items, entries[i].Item())
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *MemoryHandler) ListKnowledge(w http.ResponseWriter, r *http.Request) {
	entries := h.svc.ReadKnowledge(r.Context())
	items := make([]domain.Item, 0, len(entries))
	for i := range entries {
		items = append(items, entries[i].Item())
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *MemoryHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ReadAll(r.Context()))
}

func (h *MemoryHandler) GetKnowledge(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid memory id")
		return
	}

	entry, err := h.svc.GetKnowledge(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrKnowledgeNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get memory")
		return
	}

	writeJSON(w, http.StatusOK, entry.Item())
}

func (h *MemoryHandler) DeleteKnowledge(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid memory id")
		return
	}

	if err := h.svc.DeleteKnowledge(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrKnowledgeNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete memory")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
