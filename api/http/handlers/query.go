package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/smartadvisor/backend/api/http/presenter"
	"github.com/smartadvisor/backend/pkg/advisor"
	"github.com/smartadvisor/backend/pkg/contextengine"
)

type QueryHandler struct {
	uc  advisor.UseCase
	log *logrus.Logger
}

func NewQueryHandler(uc advisor.UseCase, log *logrus.Logger) *QueryHandler {
	return &QueryHandler{uc: uc, log: log}
}

type queryRequest struct {
	Query     string                `json:"query"`
	Context   contextengine.Context `json:"context,omitempty"`
	SessionID string                `json:"session_id,omitempty"`
}

type queryResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// Process runs one query through the orchestrator. The optional context field
// overrides the session context for this single call.
// @Summary Process a user query
// @Tags    query
// @Accept  json
// @Produce json
// @Param   input body queryRequest true "Query with optional context override and session id"
// @Success 200 {object} queryResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /query [post]
func (h *QueryHandler) Process(c *fiber.Ctx) error {
	var req queryRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return presenter.Error(c, http.StatusBadRequest, "query is required")
	}

	out, err := h.uc.Query(c.Context(), advisor.QueryInput{
		Query:     req.Query,
		Context:   req.Context,
		SessionID: req.SessionID,
	})
	if err != nil {
		h.log.WithError(err).Error("query failed")
		return presenter.Error(c, http.StatusInternalServerError, "error processing query: "+err.Error())
	}
	return presenter.JSON(c, http.StatusOK, queryResponse{
		Response:  out.Response,
		SessionID: out.SessionID,
	})
}
