package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/skillduel/skillduel/internal/api/middleware"
	"github.com/skillduel/skillduel/internal/api/request"
	"github.com/skillduel/skillduel/internal/api/response"
	"github.com/skillduel/skillduel/internal/model"
	"github.com/skillduel/skillduel/internal/realtime"
	"github.com/skillduel/skillduel/internal/services/match"
)

// MatchHandler handles matchmaking and settlement endpoints
type MatchHandler struct {
	controller  *match.Controller
	hubManager  *realtime.HubManager
	broadcaster *realtime.Broadcaster
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(controller *match.Controller, hubManager *realtime.HubManager, broadcaster *realtime.Broadcaster) *MatchHandler {
	return &MatchHandler{
		controller:  controller,
		hubManager:  hubManager,
		broadcaster: broadcaster,
	}
}

// Enter handles POST /api/v1/matches
func (h *MatchHandler) Enter(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.EnterMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	wager, err := model.ParseMoney(req.Wager)
	if err != nil {
		WriteError(w, NewInvalidRequestError("wager must be a decimal string like \"0.50\""))
		return
	}

	m, err := h.controller.Enter(r.Context(), player.ID, wager)
	if err != nil {
		WriteError(w, err)
		return
	}

	// An active result means we joined someone's open match
	if m.Status == model.MatchStatusActive {
		h.broadcaster.BroadcastMatchJoined(m)
	}

	response.JSON(w, http.StatusCreated, response.MatchFromModel(m))
}

// Get handles GET /api/v1/matches/{id}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.MatchID(mux.Vars(r)["id"])

	m, err := h.controller.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	if !m.IsParticipant(player.ID) {
		WriteError(w, model.ErrNotParticipant)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

// ReportScore handles POST /api/v1/matches/{id}/score
func (h *MatchHandler) ReportScore(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.MatchID(mux.Vars(r)["id"])

	var req request.ReportScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Snapshot == nil {
		WriteError(w, NewInvalidRequestError("snapshot is required"))
		return
	}

	m, err := h.controller.Report(r.Context(), id, player.ID, req.Score, req.Snapshot)
	if err != nil {
		WriteError(w, err)
		return
	}

	if side, ok := m.SideOf(player.ID); ok {
		h.broadcaster.BroadcastScoreReported(m.ID, player.ID, side, req.Score)
	}
	if m.Status == model.MatchStatusFinished {
		var prize model.Money
		if m.Winner != "" {
			prize = match.Prize(m.Wager)
		}
		h.broadcaster.BroadcastMatchSettled(m, prize)
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

// Cancel handles DELETE /api/v1/matches/{id}
func (h *MatchHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.MatchID(mux.Vars(r)["id"])

	if err := h.controller.CancelSearch(r.Context(), id, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastMatchVoided(id, player.ID)

	response.NoContent(w)
}

// Events handles GET /api/v1/matches/{id}/events (SSE stream)
func (h *MatchHandler) Events(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.MatchID(mux.Vars(r)["id"])

	m, err := h.controller.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	if !m.IsParticipant(player.ID) {
		WriteError(w, model.ErrNotParticipant)
		return
	}

	hub := h.hubManager.GetOrCreateHub(id)
	realtime.ServeSSE(w, r, hub, player.ID)
}
