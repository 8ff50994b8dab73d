package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cs-practicals/algosim/internal/models"
	"github.com/cs-practicals/algosim/internal/service"
	"github.com/cs-practicals/algosim/internal/sim"
	"github.com/cs-practicals/algosim/pkg/logger"
)

// Handler holds all HTTP handlers
type Handler struct {
	rounds *service.RoundService
	hub    *Hub
	logger *logger.Logger
}

// NewHandler creates a new handler
func NewHandler(rounds *service.RoundService, hub *Hub, logger *logger.Logger) *Handler {
	return &Handler{
		rounds: rounds,
		hub:    hub,
		logger: logger,
	}
}

// Routes sets up all routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/practicals", h.ListPracticals)
		r.Post("/practicals/{practicalID}/rounds", h.StartRound)
		r.Get("/practicals/{practicalID}/results", h.ListResults)

		r.Route("/rounds/{roundID}", func(r chi.Router) {
			r.Get("/", h.GetRound)
			r.Delete("/", h.DiscardRound)
			r.Post("/actions", h.Act)
			r.Post("/reset", h.ResetRound)
			r.Get("/events", h.Events)
		})
	})

	return r
}

// Health handles health check requests
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListPracticals returns the catalogue
func (h *Handler) ListPracticals(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.rounds.Practicals())
}

// StartRound mounts a new round. The body is optional.
func (h *Handler) StartRound(w http.ResponseWriter, r *http.Request) {
	practicalID := chi.URLParam(r, "practicalID")

	var req models.StartRoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	requestID := GetRequestID(r.Context())
	h.logger.Info("Starting round", logger.F("practical_id", practicalID), logger.F("request_id", requestID))

	resp, err := h.rounds.StartRound(r.Context(), practicalID, req)
	if err != nil {
		h.fail(w, r, "failed to start round", err)
		return
	}

	h.respondJSON(w, http.StatusCreated, resp)
}

// GetRound returns a round snapshot
func (h *Handler) GetRound(w http.ResponseWriter, r *http.Request) {
	resp, err := h.rounds.GetRound(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		h.fail(w, r, "failed to get round", err)
		return
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// Act forwards one action to the round
func (h *Handler) Act(w http.ResponseWriter, r *http.Request) {
	var action json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	resp, err := h.rounds.Act(r.Context(), chi.URLParam(r, "roundID"), action)
	if err != nil {
		h.fail(w, r, "action rejected", err)
		return
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// ResetRound starts the round over
func (h *Handler) ResetRound(w http.ResponseWriter, r *http.Request) {
	resp, err := h.rounds.Reset(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		h.fail(w, r, "failed to reset round", err)
		return
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// DiscardRound drops the round
func (h *Handler) DiscardRound(w http.ResponseWriter, r *http.Request) {
	if err := h.rounds.Discard(r.Context(), chi.URLParam(r, "roundID")); err != nil {
		h.fail(w, r, "failed to discard round", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Events streams the round's notifications over a websocket
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	roundID := chi.URLParam(r, "roundID")
	if _, err := h.rounds.GetRound(r.Context(), roundID); err != nil {
		h.fail(w, r, "failed to subscribe", err)
		return
	}
	h.hub.Serve(w, r, roundID)
}

// ListResults returns recorded scores for a practical, newest first
func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.respondError(w, http.StatusBadRequest, "invalid limit", v)
			return
		}
		limit = n
	}

	results, err := h.rounds.Results(r.Context(), chi.URLParam(r, "practicalID"), limit)
	if err != nil {
		h.fail(w, r, "failed to list results", err)
		return
	}
	if results == nil {
		results = []*models.Result{}
	}
	h.respondJSON(w, http.StatusOK, results)
}

// fail maps a service error to its status code and responds with it
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, errorMsg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(errorMsg, logger.F("error", err.Error()), logger.F("request_id", GetRequestID(r.Context())))
	}
	h.respondError(w, status, errorMsg, err.Error())
}

func statusFor(err error) int {
	switch {
	case sim.IsInputError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, sim.ErrBusy), errors.Is(err, sim.ErrNotActive):
		return http.StatusConflict
	case errors.Is(err, service.ErrRoundNotFound), errors.Is(err, service.ErrPracticalNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON sends a JSON response
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func (h *Handler) respondError(w http.ResponseWriter, status int, errorMsg, message string) {
	h.respondJSON(w, status, models.ErrorResponse{
		Error:   errorMsg,
		Message: message,
	})
}
