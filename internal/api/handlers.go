package api

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/weblog-assistant/backend/internal/agent"
	"github.com/weblog-assistant/backend/internal/models"
	"github.com/weblog-assistant/backend/internal/session"
)

// Handler handles API requests.
type Handler struct {
	sessions SessionStore
	machine  TurnRunner
	version  string
}

// NewHandler creates a new API handler.
func NewHandler(sessions SessionStore, machine TurnRunner, version string) *Handler {
	return &Handler{
		sessions: sessions,
		machine:  machine,
		version:  version,
	}
}

// InferRequest is one conversation turn from the client.
type InferRequest struct {
	SessionID string `json:"sessionId"`
	Input     string `json:"input"`
}

// InferResponse carries the full message history after the turn plus the
// latest tool output when the log engine ran.
type InferResponse struct {
	SessionID  string                    `json:"sessionId"`
	Messages   []models.ConversationTurn `json:"messages"`
	ToolOutput string                    `json:"toolOutput,omitempty"`
}

// HandleInfer runs one conversation turn. The session is locked for the
// whole turn, so concurrent requests on the same session serialize; a failed
// turn leaves the stored state untouched and is safe to retry.
func (h *Handler) HandleInfer(c echo.Context) error {
	var req InferRequest
	if err := c.Bind(&req); err != nil {
		return RespondWithError(c, NewBadRequestError("invalid request body", err))
	}
	if strings.TrimSpace(req.Input) == "" {
		return RespondWithError(c, NewBadRequestError("input must not be empty", nil))
	}
	if req.SessionID == "" {
		req.SessionID = session.NewSessionID()
	}

	var resp InferResponse
	err := h.sessions.Turn(req.SessionID, func(state *models.ChatSession) error {
		turn := agent.TurnState{
			Messages: append(slices.Clone(state.Messages), models.ConversationTurn{
				Role:    models.RoleUser,
				Content: req.Input,
			}),
			ToolOutput: state.ToolOutput,
			ToolDetail: state.ToolDetail,
		}

		out, err := h.machine.RunTurn(c.Request().Context(), turn)
		if err != nil {
			return err
		}

		// The machine's output already includes the full history; overwrite
		// rather than append.
		state.Messages = out.Messages
		state.ToolOutput = out.ToolOutput
		state.ToolDetail = out.ToolDetail
		state.Intent = out.Intent

		resp = InferResponse{
			SessionID:  req.SessionID,
			Messages:   out.Messages,
			ToolOutput: out.ToolOutput,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, agent.ErrAdapter) {
			slog.Error("turn failed", "sessionId", req.SessionID, "error", err)
			return RespondWithError(c, NewUpstreamError())
		}
		return RespondWithError(c, NewInternalError("turn failed", err))
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleGetSessionTable returns the session's last structured table in
// MessagePack format for the frontend table view.
func (h *Handler) HandleGetSessionTable(c echo.Context) error {
	id := c.Param("sessionId")

	state, ok := h.sessions.Get(id)
	if !ok {
		return RespondWithError(c, NewNotFoundError("session", id))
	}
	if state.ToolDetail == nil {
		return RespondWithError(c, NewNotFoundError("table for session", id))
	}

	data, err := msgpack.Marshal(state.ToolDetail)
	if err != nil {
		return RespondWithError(c, NewInternalError("failed to encode msgpack", err))
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleGetSession returns the session's message history.
func (h *Handler) HandleGetSession(c echo.Context) error {
	id := c.Param("sessionId")

	state, ok := h.sessions.Get(id)
	if !ok {
		return RespondWithError(c, NewNotFoundError("session", id))
	}
	return c.JSON(http.StatusOK, state)
}
