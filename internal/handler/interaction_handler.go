package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sales-ops-api/internal/dto"
	"github.com/noah-isme/sales-ops-api/internal/models"
	appErrors "github.com/noah-isme/sales-ops-api/pkg/errors"
	"github.com/noah-isme/sales-ops-api/pkg/response"
)

type interactionService interface {
	RecordInteraction(ctx context.Context, req dto.RecordInteractionRequest) (*dto.RecordInteractionResult, error)
	History(ctx context.Context, opportunityID string) ([]models.Interaction, error)
}

// InteractionHandler exposes the sales interaction workflow.
type InteractionHandler struct {
	service interactionService
}

// NewInteractionHandler constructs the handler.
func NewInteractionHandler(service interactionService) *InteractionHandler {
	return &InteractionHandler{service: service}
}

// Record godoc
// @Summary Record a sales interaction
// @Description Creates the client when needed, upserts the open opportunity, logs the interaction and rotates the follow-up task.
// @Tags Interactions
// @Accept json
// @Produce json
// @Param payload body dto.RecordInteractionRequest true "Interaction payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /interactions [post]
func (h *InteractionHandler) Record(c *gin.Context) {
	var req dto.RecordInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid interaction payload"))
		return
	}
	actor, err := resolveActor(c, "createdBy", req.CreatedBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	req.CreatedBy = actor

	res, err := h.service.RecordInteraction(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res, "Interaction recorded successfully")
}

// History godoc
// @Summary List interactions of an opportunity
// @Tags Interactions
// @Produce json
// @Param id path string true "Opportunity ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /opportunities/{id}/interactions [get]
func (h *InteractionHandler) History(c *gin.Context) {
	items, err := h.service.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, "")
}
