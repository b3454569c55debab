package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/service"
)

// NotifyHandler handles the endpoints the matchmaking collaborator calls
// after writing the match store.
type NotifyHandler struct {
	games *service.GameService
	log   *zap.SugaredLogger
}

// NewNotifyHandler creates a new notify handler.
func NewNotifyHandler(games *service.GameService, log *zap.SugaredLogger) *NotifyHandler {
	return &NotifyHandler{games: games, log: log}
}

// NotifyGameCreatedRequest is the body for POST /notifyGameCreated.
type NotifyGameCreatedRequest struct {
	GameCode string `json:"gameCode"`
	Player1  string `json:"player1"`
}

// NotifyGameJoinedRequest is the body for POST /notifyGameJoined.
type NotifyGameJoinedRequest struct {
	GameCode string `json:"gameCode"`
	Player2  string `json:"player2"`
}

// GameCreated handles POST /notifyGameCreated.
func (h *NotifyHandler) GameCreated(w http.ResponseWriter, r *http.Request) {
	var req NotifyGameCreatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameCode == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.log.Infof("game created notification for %s (player1 %s)", req.GameCode, req.Player1)
	if err := h.games.NotifyCreated(r.Context(), req.GameCode, req.Player1); err != nil {
		h.writeNotifyError(w, req.GameCode, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Game created and notification processed",
		"gameCode": req.GameCode,
	})
}

// GameJoined handles POST /notifyGameJoined.
func (h *NotifyHandler) GameJoined(w http.ResponseWriter, r *http.Request) {
	var req NotifyGameJoinedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameCode == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.log.Infof("game joined notification for %s (player2 %s)", req.GameCode, req.Player2)
	if err := h.games.NotifyJoined(r.Context(), req.GameCode, req.Player2); err != nil {
		h.writeNotifyError(w, req.GameCode, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Game joined and notification processed",
		"gameCode": req.GameCode,
	})
}

func (h *NotifyHandler) writeNotifyError(w http.ResponseWriter, code string, err error) {
	if errors.Is(err, service.ErrMatchNotFound) {
		h.log.Warnf("game not found for code %s", code)
		writeJSON(w, http.StatusNotFound, map[string]string{
			"message":  "Game not found",
			"gameCode": code,
		})
		return
	}
	h.log.Errorf("notification for %s failed: %v", code, err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"message": "Internal server error",
	})
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
