package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/smartadvisor/backend/api/http/presenter"
	"github.com/smartadvisor/backend/pkg/contextengine"
)

// ContextHandler reads and mutates the process-wide business context.
type ContextHandler struct {
	store *contextengine.Store
	log   *logrus.Logger
}

func NewContextHandler(store *contextengine.Store, log *logrus.Logger) *ContextHandler {
	return &ContextHandler{store: store, log: log}
}

type contextUpdateRequest struct {
	Context contextengine.Context `json:"context"`
	// Merge defaults to true when omitted.
	Merge *bool `json:"merge"`
}

// Get returns the current business context.
// @Summary Get business context
// @Tags    context
// @Produce json
// @Success 200 {object} map[string]any
// @Router  /context [get]
func (h *ContextHandler) Get(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, fiber.Map{"context": h.store.Get()})
}

// Update merges into or replaces the business context.
// @Summary Update business context
// @Tags    context
// @Accept  json
// @Produce json
// @Param   input body contextUpdateRequest true "Context payload; merge defaults to true"
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /context [post]
func (h *ContextHandler) Update(c *fiber.Ctx) error {
	var req contextUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON body")
	}
	if req.Context == nil {
		return presenter.Error(c, http.StatusBadRequest, "context is required")
	}
	merge := true
	if req.Merge != nil {
		merge = *req.Merge
	}
	h.store.Update(req.Context, merge)
	h.log.WithField("keys", contextKeys(req.Context)).Info("context updated")
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"message": "Context updated successfully",
		"context": h.store.Get(),
	})
}

// Clear resets the business context to an empty mapping.
// @Summary Clear business context
// @Tags    context
// @Produce json
// @Success 200 {object} presenter.MessageResponse
// @Router  /context [delete]
func (h *ContextHandler) Clear(c *fiber.Ctx) error {
	h.store.Clear()
	h.log.Info("context cleared")
	return presenter.Message(c, http.StatusOK, "Context cleared successfully")
}

func contextKeys(ctx contextengine.Context) []string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	return keys
}
