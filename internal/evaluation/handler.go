package evaluation

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/edurag/ragmark/internal/dataset"
	"github.com/edurag/ragmark/internal/history"
	apperrors "github.com/edurag/ragmark/internal/pkg/errors"
)

// Handler provides HTTP handlers for evaluation.
type Handler struct {
	evaluator *Evaluator
	runs      history.Store
}

// NewHandler creates a new evaluation handler. runs may be nil, which
// disables the history endpoint.
func NewHandler(e *Evaluator, runs history.Store) *Handler {
	return &Handler{evaluator: e, runs: runs}
}

// RegisterRoutes registers evaluation routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/evaluation/run", h.handleRun)
	mux.HandleFunc("GET /v1/evaluation/queries", h.handleQueries)
	mux.HandleFunc("GET /v1/evaluation/history/{metric}", h.handleHistory)
}

type RunRequest struct {
	Advanced bool     `json:"advanced"`
	QueryIDs []string `json:"query_ids"`
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apperrors.WriteError(w, apperrors.ValidationError("invalid request body"))
			return
		}
	}

	queries := dataset.Queries()
	if len(req.QueryIDs) > 0 {
		queries = queries[:0]
		for _, id := range req.QueryIDs {
			q, ok := dataset.QueryByID(id)
			if !ok {
				apperrors.WriteError(w,
					apperrors.ValidationError("unknown query id").WithDetail("query_id", id))
				return
			}
			queries = append(queries, q)
		}
	}

	result, err := h.evaluator.Run(r.Context(), queries, req.Advanced)
	if err != nil {
		apperrors.WriteError(w, apperrors.InternalError("evaluation run failed", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) handleQueries(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dataset.Queries())
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		apperrors.WriteError(w, apperrors.NotFoundError("run history"))
		return
	}

	metric := r.PathValue("metric")
	since := time.Now().Add(-30 * 24 * time.Hour)
	if v := r.URL.Query().Get("since"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			apperrors.WriteError(w, apperrors.ValidationError("since must be RFC 3339"))
			return
		}
		since = parsed
	}

	points, err := h.runs.LoadMetric(r.Context(), metric, since)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(points)
}
