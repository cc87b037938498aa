package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillnaav/skillnaav-api/internal/dto"
	"github.com/skillnaav/skillnaav-api/internal/models"
	"github.com/skillnaav/skillnaav-api/internal/service"
	appErrors "github.com/skillnaav/skillnaav-api/pkg/errors"
	"github.com/skillnaav/skillnaav-api/pkg/response"
)

type offerLetterService interface {
	Send(ctx context.Context, req dto.SendOfferLetterRequest) (*models.OfferLetter, error)
	LatestForStudent(ctx context.Context, studentID string) (*models.OfferLetter, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateOfferLetterStatusRequest) (*models.OfferLetter, error)
	Download(ctx context.Context, token string) (*service.OfferLetterFile, error)
}

// OfferLetterHandler exposes offer letter endpoints.
type OfferLetterHandler struct {
	service offerLetterService
}

// NewOfferLetterHandler builds a new handler.
func NewOfferLetterHandler(svc offerLetterService) *OfferLetterHandler {
	return &OfferLetterHandler{service: svc}
}

// Send godoc
// @Summary Generate and send an offer letter
// @Tags OfferLetters
// @Accept json
// @Produce json
// @Param payload body dto.SendOfferLetterRequest true "Offer letter payload"
// @Success 201 {object} response.Envelope
// @Router /offer-letters [post]
func (h *OfferLetterHandler) Send(c *gin.Context) {
	var req dto.SendOfferLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid offer letter payload"))
		return
	}
	letter, err := h.service.Send(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, letter)
}

// LatestForStudent godoc
// @Summary Get the latest offer letter of a student
// @Tags OfferLetters
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /offer-letters/student/{studentId} [get]
func (h *OfferLetterHandler) LatestForStudent(c *gin.Context) {
	letter, err := h.service.LatestForStudent(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, letter)
}

// UpdateStatus godoc
// @Summary Accept or reject an offer letter
// @Tags OfferLetters
// @Accept json
// @Produce json
// @Param id path string true "Offer letter ID"
// @Param payload body dto.UpdateOfferLetterStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /offer-letters/{id}/status [patch]
func (h *OfferLetterHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateOfferLetterStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	letter, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, fmt.Sprintf("Offer letter %s", letter.Status), letter)
}

// Download godoc
// @Summary Download an offer letter through a signed link
// @Tags OfferLetters
// @Produce application/pdf
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Router /offer-letters/download/{token} [get]
func (h *OfferLetterHandler) Download(c *gin.Context) {
	file, err := h.service.Download(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Content.Close()

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"%s\"", file.Name))
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file.Content)
}
