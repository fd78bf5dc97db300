// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	service "github.com/okian/scoutops/internal/app"
	"github.com/okian/scoutops/internal/domain/picklist"
	"github.com/okian/scoutops/internal/domain/schedule"
	"github.com/okian/scoutops/internal/domain/types"
)

const (
	maxBodyBytes    = 1 << 20
	requestIDHeader = "Idempotency-Key"
	contentTypeJSON = "application/json; charset=utf-8"
)

// ScheduleDependencies generates scouting rotations.
type ScheduleDependencies interface {
	GenerateSchedule(ctx context.Context, req types.ScheduleRequest) (schedule.Schedule, error)
}

// PicklistDependencies reads and edits picklist groups.
type PicklistDependencies interface {
	Picklist(ctx context.Context, key string) (types.Picklist, error)
	Export(ctx context.Context, key string) (picklist.Persisted, error)
	ReplacePicklist(ctx context.Context, key, requestID string, p picklist.Persisted) (types.Picklist, error)
	AddList(ctx context.Context, key string, req types.AddListRequest) (types.Picklist, error)
	DeleteList(ctx context.Context, key, requestID, name string) (types.Picklist, error)
	AddEntry(ctx context.Context, key string, req types.AddEntryRequest) (types.Picklist, picklist.Entry, error)
	MoveEntry(ctx context.Context, key string, req types.MoveRequest) (types.Picklist, error)
	RemoveEntry(ctx context.Context, key, requestID, id string) (types.Picklist, error)
	SetStruck(ctx context.Context, key string, req types.StruckRequest) (types.Picklist, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ScheduleDependencies
	PicklistDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	scheduleHandler *ScheduleHandler
	picklistHandler *PicklistHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		scheduleHandler: NewScheduleHandler(deps),
		picklistHandler: NewPicklistHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /schedule", MetricsMiddleware(s.scheduleHandler.HandlePostSchedule, "schedule"))

	p := s.picklistHandler
	mux.HandleFunc("GET /picklists/{key}", MetricsMiddleware(p.HandleGet, "picklist"))
	mux.HandleFunc("PUT /picklists/{key}", MetricsMiddleware(p.HandleReplace, "picklist"))
	mux.HandleFunc("GET /picklists/{key}/export", MetricsMiddleware(p.HandleExport, "picklist_export"))
	mux.HandleFunc("POST /picklists/{key}/lists", MetricsMiddleware(p.HandleAddList, "picklist_lists"))
	mux.HandleFunc("DELETE /picklists/{key}/lists/{name}", MetricsMiddleware(p.HandleDeleteList, "picklist_lists"))
	mux.HandleFunc("POST /picklists/{key}/entries", MetricsMiddleware(p.HandleAddEntry, "picklist_entries"))
	mux.HandleFunc("DELETE /picklists/{key}/entries/{id}", MetricsMiddleware(p.HandleRemoveEntry, "picklist_entries"))
	mux.HandleFunc("POST /picklists/{key}/moves", MetricsMiddleware(p.HandleMove, "picklist_moves"))
	mux.HandleFunc("POST /picklists/{key}/struck", MetricsMiddleware(p.HandleStruck, "picklist_struck"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps a service error onto its HTTP status.
func writeServiceError(w http.ResponseWriter, err error) {
	switch service.ErrorKind(err) {
	case "invalid":
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case "not_found":
		writeError(w, http.StatusNotFound, "not_found", err)
	case "conflict":
		writeError(w, http.StatusConflict, "conflict", err)
	case "unavailable":
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// decode reads a JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrBadRequest)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// pathValue returns a non-blank path parameter.
func pathValue(r *http.Request, name string) (string, error) {
	v := r.PathValue(name)
	if strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingPath, name)
	}
	return v, nil
}

// requestID prefers the id carried in the body and falls back to the
// Idempotency-Key header.
func requestID(r *http.Request, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return r.Header.Get(requestIDHeader)
}
