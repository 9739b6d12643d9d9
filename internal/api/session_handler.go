package api

import (
	"net/http"

	"github.com/phrazzld/carecompanion/internal/api/shared"
	"github.com/phrazzld/carecompanion/internal/domain/game"
	"github.com/phrazzld/carecompanion/internal/facade"
)

// SessionHandler serves game sessions.
type SessionHandler struct {
	facade *facade.Facade
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(f *facade.Facade) *SessionHandler {
	return &SessionHandler{facade: f}
}

// Start handles POST /api/sessions.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req StartSessionRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}

	view, err := h.facade.StartSession(r.Context(), userID, req.DefinitionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, view)
}

// Get handles GET /api/sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.facade.GameSession(r.Context(), userID, id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// Move handles POST /api/sessions/{id}/moves.
func (h *SessionHandler) Move(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var move game.Move
	if err := shared.DecodeJSON(r, &move); err != nil {
		badRequest(w, r, err)
		return
	}

	result, err := h.facade.ApplyMove(r.Context(), userID, id, move)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// End handles DELETE /api/sessions/{id}.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.facade.EndSession(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
