package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/smartadvisor/backend/api/http/presenter"
	"github.com/smartadvisor/backend/pkg/advisor"
)

type ConversationHandler struct {
	uc  advisor.UseCase
	log *logrus.Logger
}

func NewConversationHandler(uc advisor.UseCase, log *logrus.Logger) *ConversationHandler {
	return &ConversationHandler{uc: uc, log: log}
}

// Get returns a session's message history and context snapshot.
// @Summary Get conversation history
// @Tags    conversations
// @Produce json
// @Param   session_id path string true "Session id"
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /conversations/{session_id} [get]
func (h *ConversationHandler) Get(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	sess, err := h.uc.History(c.Context(), sessionID)
	if err != nil {
		if errors.Is(err, advisor.ErrSessionNotFound) {
			return presenter.Error(c, http.StatusNotFound, "session not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load session")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"session_id": sess.SessionID,
		"messages":   sess.Messages,
		"context":    sess.Context,
	})
}

// Delete removes a conversation session.
// @Summary Delete a conversation session
// @Tags    conversations
// @Produce json
// @Param   session_id path string true "Session id"
// @Success 200 {object} presenter.MessageResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /conversations/{session_id} [delete]
func (h *ConversationHandler) Delete(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	if err := h.uc.DeleteSession(c.Context(), sessionID); err != nil {
		if errors.Is(err, advisor.ErrSessionNotFound) {
			return presenter.Error(c, http.StatusNotFound, "session not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to delete session")
	}
	return presenter.Message(c, http.StatusOK, "Session deleted successfully")
}
