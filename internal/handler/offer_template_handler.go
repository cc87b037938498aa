package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillnaav/skillnaav-api/internal/dto"
	"github.com/skillnaav/skillnaav-api/internal/models"
	appErrors "github.com/skillnaav/skillnaav-api/pkg/errors"
	"github.com/skillnaav/skillnaav-api/pkg/response"
)

type offerTemplateService interface {
	Create(ctx context.Context, req dto.CreateOfferTemplateRequest) (*models.OfferTemplate, error)
	ListByPartner(ctx context.Context, partnerID string) ([]models.OfferTemplate, error)
}

// OfferTemplateHandler serves partner offer templates.
type OfferTemplateHandler struct {
	service offerTemplateService
}

// NewOfferTemplateHandler builds a new handler.
func NewOfferTemplateHandler(svc offerTemplateService) *OfferTemplateHandler {
	return &OfferTemplateHandler{service: svc}
}

// List godoc
// @Summary List a partner's offer templates
// @Tags OfferTemplates
// @Produce json
// @Param partnerId query string true "Partner ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /templates [get]
func (h *OfferTemplateHandler) List(c *gin.Context) {
	items, err := h.service.ListByPartner(c.Request.Context(), c.Query("partnerId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, map[string]interface{}{"total": len(items)})
}

// Create godoc
// @Summary Save an offer template
// @Tags OfferTemplates
// @Accept json
// @Produce json
// @Param payload body dto.CreateOfferTemplateRequest true "Template payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /templates [post]
func (h *OfferTemplateHandler) Create(c *gin.Context) {
	var req dto.CreateOfferTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid offer template payload"))
		return
	}
	tpl, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tpl)
}
