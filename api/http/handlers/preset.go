package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/smartadvisor/backend/api/http/presenter"
	"github.com/smartadvisor/backend/pkg/contextengine"
	"github.com/smartadvisor/backend/pkg/preset"
)

type PresetHandler struct {
	uc  preset.UseCase
	log *logrus.Logger
}

func NewPresetHandler(uc preset.UseCase, log *logrus.Logger) *PresetHandler {
	return &PresetHandler{uc: uc, log: log}
}

type createPresetRequest struct {
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	ContextData contextengine.Context `json:"context_data"`
}

// List returns all stored presets.
// @Summary List context presets
// @Tags    presets
// @Produce json
// @Success 200 {array} preset.Preset
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /presets [get]
func (h *PresetHandler) List(c *fiber.Ctx) error {
	presets, err := h.uc.List(c.Context())
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list presets")
	}
	if presets == nil {
		presets = []preset.Preset{}
	}
	return presenter.JSON(c, http.StatusOK, presets)
}

// Create stores a new named preset.
// @Summary Create a context preset
// @Tags    presets
// @Accept  json
// @Produce json
// @Param   input body createPresetRequest true "Preset data"
// @Success 201 {object} preset.Preset
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /presets [post]
func (h *PresetHandler) Create(c *fiber.Ctx) error {
	var req createPresetRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON body")
	}
	p, err := h.uc.Create(c.Context(), preset.Preset{
		Name:        req.Name,
		Description: req.Description,
		ContextData: req.ContextData,
	})
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	h.log.WithField("preset", p.Name).Info("preset created")
	return presenter.JSON(c, http.StatusCreated, p)
}

// Apply replaces the active context with the preset's context data.
// @Summary Apply a context preset
// @Tags    presets
// @Produce json
// @Param   name path string true "Preset name"
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /presets/{name}/apply [post]
func (h *PresetHandler) Apply(c *fiber.Ctx) error {
	name := c.Params("name")
	ctx, err := h.uc.Apply(c.Context(), name)
	if err != nil {
		if errors.Is(err, preset.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "preset '"+name+"' not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to apply preset")
	}
	h.log.WithField("preset", name).Info("preset applied")
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"message": "Preset '" + name + "' applied",
		"context": ctx,
	})
}

// Delete removes a preset by name.
// @Summary Delete a context preset
// @Tags    presets
// @Produce json
// @Param   name path string true "Preset name"
// @Success 204 {object} nil
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /presets/{name} [delete]
func (h *PresetHandler) Delete(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := h.uc.Delete(c.Context(), name); err != nil {
		if errors.Is(err, preset.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "preset '"+name+"' not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to delete preset")
	}
	return c.SendStatus(http.StatusNoContent)
}
