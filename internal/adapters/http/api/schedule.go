package api

import (
	"fmt"
	"net/http"

	"github.com/okian/scoutops/internal/domain/schedule"
	"github.com/okian/scoutops/internal/domain/types"
)

// ScheduleHandler handles schedule requests.
type ScheduleHandler struct {
	deps ScheduleDependencies
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(deps ScheduleDependencies) *ScheduleHandler {
	return &ScheduleHandler{deps: deps}
}

type scheduleResponse struct {
	Assignments schedule.Schedule `json:"assignments"`
	Stats       schedule.Stats    `json:"stats"`
}

// HandlePostSchedule handles POST /schedule requests.
func (h *ScheduleHandler) HandlePostSchedule(w http.ResponseWriter, r *http.Request) {
	var req types.ScheduleRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.QuantScouters == nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing quant_scouters", ErrBadRequest))
		return
	}

	sched, err := h.deps.GenerateSchedule(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduleResponse{Assignments: sched, Stats: schedule.Summarize(sched)})
}

