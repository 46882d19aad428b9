package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/wonny/vantage/backend/internal/research"
	"github.com/wonny/vantage/backend/pkg/logger"
)

// ResearchHandler handles research pipeline API endpoints
type ResearchHandler struct {
	pipeline *research.Pipeline
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewResearchHandler creates a new research handler
func NewResearchHandler(pipeline *research.Pipeline, log *logger.Logger) *ResearchHandler {
	return &ResearchHandler{
		pipeline: pipeline,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The report UI is served from another origin in dev.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: log,
	}
}

// Run executes a full research run and returns the result
// POST /api/v1/research
func (h *ResearchHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req research.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.pipeline.Run(ctx, req)
	if err != nil {
		h.logger.WithError(err).Error("Research run failed")
		respondError(w, http.StatusInternalServerError, "Research run failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// streamMessage is the websocket envelope for streamed runs.
type streamMessage struct {
	Type    string      `json:"type"` // "progress", "result", "error"
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Stream runs research over a websocket, pushing one progress event
// per completed stage and the final result as the last message.
// GET /api/v1/research/stream
func (h *ResearchHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	var req research.Request
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(streamMessage{Type: "error", Message: "Invalid request message"})
		return
	}

	// Progress events come from pipeline goroutines; gorilla
	// connections allow one concurrent writer.
	var writeMu sync.Mutex
	send := func(msg streamMessage) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.WithError(err).Debug("Websocket write failed")
		}
	}

	pipeline := h.pipeline.WithProgress(func(p research.Progress) {
		send(streamMessage{Type: "progress", Data: p})
	})

	result, err := pipeline.Run(r.Context(), req)
	if err != nil {
		h.logger.WithError(err).Error("Streamed research run failed")
		send(streamMessage{Type: "error", Message: err.Error()})
		return
	}

	send(streamMessage{Type: "result", Data: result})

	writeMu.Lock()
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
	writeMu.Unlock()
}
