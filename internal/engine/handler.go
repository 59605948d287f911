package engine

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agendalivre/agenda/pkg/logging"
)

// Handler exposes the session engine over HTTP for the (external) renderer.
type Handler struct {
	manager      *Manager
	orchestrator *Orchestrator
	logger       *logging.Logger
}

func NewHandler(manager *Manager, orchestrator *Orchestrator, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		manager:      manager,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// Routes returns the session API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateSession)
	r.Get("/{sessionID}/state", h.GetState)
	r.Post("/{sessionID}/refresh", h.Refresh)
	r.Post("/{sessionID}/select", h.SelectDate)
	r.Post("/{sessionID}/page", h.PageMonth)
	r.Get("/{sessionID}/booking", h.Booking)
	return r
}

// CreateSession starts a fresh browsing session.
// POST /api/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.manager.Create()
	h.logger.Info("session created", "session_id", s.ID)
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": s.ID})
}

// GetState returns the current view state without side effects.
// GET /api/sessions/{sessionID}/state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.orchestrator.State(s))
}

// RefreshRequestBody is the JSON body of a refresh call.
type RefreshRequestBody struct {
	Version           string `json:"version,omitempty"`
	StartDate         string `json:"start_date,omitempty"`
	PreserveSelection bool   `json:"preserve_selection,omitempty"`
	ProfessionalID    string `json:"professional_id,omitempty"`
	UnitID            string `json:"unit_id,omitempty"`
}

// Refresh runs one refresh cycle and returns the resulting view state.
// POST /api/sessions/{sessionID}/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var body RefreshRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	if body.Version != "" && !KnownVersion(body.Version) {
		http.Error(w, `{"error": "unknown api version"}`, http.StatusBadRequest)
		return
	}

	state := h.orchestrator.Refresh(r.Context(), s, RefreshRequest{
		Version:           body.Version,
		StartDate:         body.StartDate,
		PreserveSelection: body.PreserveSelection,
		ProfessionalID:    body.ProfessionalID,
		UnitID:            body.UnitID,
	})
	writeJSON(w, http.StatusOK, state)
}

// SelectDate handles a calendar date click: selects the date and refreshes
// the window starting from it.
// POST /api/sessions/{sessionID}/select
func (h *Handler) SelectDate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var body struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Date == "" {
		http.Error(w, `{"error": "date required"}`, http.StatusBadRequest)
		return
	}

	state, err := h.orchestrator.Select(r.Context(), s, body.Date)
	if errors.Is(err, ErrDateUnavailable) {
		http.Error(w, `{"error": "date is not available"}`, http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// PageMonth moves the visible calendar month by ±1.
// POST /api/sessions/{sessionID}/page
func (h *Handler) PageMonth(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var body struct {
		Direction int `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	if body.Direction != -1 && body.Direction != 1 {
		http.Error(w, `{"error": "direction must be -1 or 1"}`, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.orchestrator.Page(s, body.Direction))
}

// Booking returns the confirmation rows for a slot on a cached date.
// GET /api/sessions/{sessionID}/booking?date=&start=
func (h *Handler) Booking(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	date := r.URL.Query().Get("date")
	start := r.URL.Query().Get("start")
	if date == "" || start == "" {
		http.Error(w, `{"error": "date and start required"}`, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	entry, cached := s.cache.Get(date)
	label := versionLabels[s.version]
	s.mu.Unlock()
	if !cached {
		http.Error(w, `{"error": "no schedule for date"}`, http.StatusNotFound)
		return
	}

	available := false
	for _, slot := range entry.Slots {
		if slot.Start == start {
			available = slot.Available
			break
		}
	}
	if !available {
		http.Error(w, `{"error": "slot is not available"}`, http.StatusConflict)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"details": BookingDetails(label, entry, start),
	})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := chi.URLParam(r, "sessionID")
	s, ok := h.manager.Get(id)
	if !ok {
		http.Error(w, `{"error": "session not found"}`, http.StatusNotFound)
		return nil, false
	}
	return s, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
