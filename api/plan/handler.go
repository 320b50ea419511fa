package plan

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kilianp07/teamday/core/model"
	"github.com/kilianp07/teamday/core/scheduler"
)

// MaxBodyBytes bounds the size of a planning request.
const MaxBodyBytes = 1 << 20

// Planner computes a plan from wishes.
type Planner interface {
	Compute(ctx context.Context, wishes []model.Wish) (*model.Plan, error)
}

// Request is the body accepted by POST /api/plan.
type Request struct {
	Wishes []model.Wish `json:"wishes"`
}

// ErrorResponse is returned with every non 2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
	Row   int    `json:"row,omitempty"`
}

// NewHandler returns an HTTP handler computing plans via POST /api/plan.
func NewHandler(p Planner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeError(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
			return
		}
		var req Request
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
			return
		}
		plan, err := p.Compute(r.Context(), req.Wishes)
		if err != nil {
			status, body := errorStatus(err)
			writeError(w, status, body)
			return
		}
		writeJSON(w, http.StatusOK, plan)
	})
}

// NewHealthHandler answers GET /health.
func NewHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// Routes registers the planning endpoints on a new ServeMux.
func Routes(p Planner) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/plan", NewHandler(p))
	mux.Handle("/health", NewHealthHandler())
	return mux
}

func errorStatus(err error) (int, ErrorResponse) {
	body := ErrorResponse{Error: err.Error()}
	var verr *scheduler.ValidationError
	switch {
	case errors.As(err, &verr):
		body.Row = verr.Row
		return http.StatusUnprocessableEntity, body
	case errors.Is(err, scheduler.ErrEmptyInput), errors.Is(err, scheduler.ErrInfeasible):
		return http.StatusUnprocessableEntity, body
	case errors.Is(err, scheduler.ErrSearchBudgetExceeded):
		return http.StatusServiceUnavailable, body
	default:
		return http.StatusInternalServerError, body
	}
}

func writeError(w http.ResponseWriter, status int, body ErrorResponse) {
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
