package api

import (
	"net/http"

	"github.com/okian/scoutops/internal/domain/picklist"
	"github.com/okian/scoutops/internal/domain/types"
)

// PicklistHandler handles picklist reads and mutations.
type PicklistHandler struct {
	deps PicklistDependencies
}

// NewPicklistHandler creates a new picklist handler.
func NewPicklistHandler(deps PicklistDependencies) *PicklistHandler {
	return &PicklistHandler{deps: deps}
}

// addEntryResponse carries the created entry. A replayed request id created
// nothing, so Entry is omitted and the status is 200.
type addEntryResponse struct {
	Entry    *picklist.Entry `json:"entry,omitempty"`
	Picklist types.Picklist  `json:"picklist"`
}

// HandleGet handles GET /picklists/{key}.
func (h *PicklistHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	key, err := pathValue(r, "key")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	view, err := h.deps.Picklist(r.Context(), key)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleExport handles GET /picklists/{key}/export.
func (h *PicklistHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	key, err := pathValue(r, "key")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	p, err := h.deps.Export(r.Context(), key)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleReplace handles PUT /picklists/{key} with a persisted group body.
func (h *PicklistHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	key, err := pathValue(r, "key")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	var p picklist.Persisted
	if err := decode(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	view, err := h.deps.ReplacePicklist(r.Context(), key, requestID(r, ""), p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleAddList handles POST /picklists/{key}/lists.
func (h *PicklistHandler) HandleAddList(w http.ResponseWriter, r *http.Request) {
	key, err := pathValue(r, "key")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req types.AddListRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	req.RequestID = requestID(r, req.RequestID)
	view, err := h.deps.AddList(r.Context(), key, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// HandleDeleteList handles DELETE /picklists/{key}/lists/{name}.
func (h *PicklistHandler) HandleDeleteList(w http.ResponseWriter, r *http.Request) {
	key, err := pathValue(r, "key")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	name, err := pathValue(r, "name")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	view, err := h.deps.DeleteList(r.Context(), key, requestID(r, ""), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleAddEntry handles POST /picklists/{key}/entries.
func (h *PicklistHandler) HandleAddEntry(w http.ResponseWriter, r *http.Request) {
	key, err := pathValue(r, "key")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req types.AddEntryRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	req.RequestID = requestID(r, req.RequestID)
	view, entry, err := h.deps.AddEntry(r.Context(), key, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entry.ID == "" {
		writeJSON(w, http.StatusOK, addEntryResponse{Picklist: view})
		return
	}
	writeJSON(w, http.StatusCreated, addEntryResponse{Entry: &entry, Picklist: view})
}

// HandleRemoveEntry handles DELETE /picklists/{key}/entries/{id}.
func (h *PicklistHandler) HandleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	key, err := pathValue(r, "key")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	id, err := pathValue(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	view, err := h.deps.RemoveEntry(r.Context(), key, requestID(r, ""), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleMove handles POST /picklists/{key}/moves.
func (h *PicklistHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	key, err := pathValue(r, "key")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req types.MoveRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	req.RequestID = requestID(r, req.RequestID)
	view, err := h.deps.MoveEntry(r.Context(), key, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleStruck handles POST /picklists/{key}/struck.
func (h *PicklistHandler) HandleStruck(w http.ResponseWriter, r *http.Request) {
	key, err := pathValue(r, "key")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req types.StruckRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	req.RequestID = requestID(r, req.RequestID)
	view, err := h.deps.SetStruck(r.Context(), key, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
