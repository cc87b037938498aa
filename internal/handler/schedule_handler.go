package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillnaav/skillnaav-api/internal/dto"
	"github.com/skillnaav/skillnaav-api/internal/models"
	appErrors "github.com/skillnaav/skillnaav-api/pkg/errors"
	"github.com/skillnaav/skillnaav-api/pkg/response"
)

type scheduleService interface {
	Save(ctx context.Context, req dto.UpsertScheduleRequest) (*models.Schedule, error)
	Get(ctx context.Context, internshipID, partnerID string) (*models.Schedule, error)
	Preview(req dto.PreviewScheduleRequest) (models.Timetable, error)
}

type calendarExporter interface {
	Render(schedule *models.Schedule) []byte
}

// ScheduleHandler manages internship schedule endpoints.
type ScheduleHandler struct {
	service  scheduleService
	exporter calendarExporter
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc scheduleService, exporter calendarExporter) *ScheduleHandler {
	return &ScheduleHandler{service: svc, exporter: exporter}
}

// Create godoc
// @Summary Create or replace an internship schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.UpsertScheduleRequest true "Schedule payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedule/create [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.UpsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}
	schedule, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Schedule saved successfully", schedule)
}

// Preview godoc
// @Summary Expand a date range into a timetable without saving it
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.PreviewScheduleRequest true "Expansion payload"
// @Success 200 {object} response.Envelope
// @Router /schedule/preview [post]
func (h *ScheduleHandler) Preview(c *gin.Context) {
	var req dto.PreviewScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preview payload"))
		return
	}
	timetable, err := h.service.Preview(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timetable, map[string]interface{}{"total": len(timetable)})
}

// Get godoc
// @Summary Get the schedule of an internship and partner
// @Tags Schedules
// @Produce json
// @Param internshipId query string true "Internship ID"
// @Param partnerId query string true "Partner ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedule/get-schedule [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, ok := h.lookup(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, schedule)
}

// ICS godoc
// @Summary Download a schedule as an iCalendar file
// @Tags Schedules
// @Produce text/calendar
// @Param internshipId query string true "Internship ID"
// @Param partnerId query string true "Partner ID"
// @Success 200 {file} file
// @Router /schedule/ics [get]
func (h *ScheduleHandler) ICS(c *gin.Context) {
	schedule, ok := h.lookup(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"internship-schedule-%s.ics\"", schedule.InternshipID))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", h.exporter.Render(schedule))
}

func (h *ScheduleHandler) lookup(c *gin.Context) (*models.Schedule, bool) {
	var key dto.ScheduleKey
	if err := c.ShouldBindQuery(&key); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "internshipId and partnerId are required"))
		return nil, false
	}
	schedule, err := h.service.Get(c.Request.Context(), key.InternshipID, key.PartnerID)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return schedule, true
}
