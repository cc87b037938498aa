package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/skillnaav/skillnaav-api/internal/dto"
	"github.com/skillnaav/skillnaav-api/internal/models"
	appErrors "github.com/skillnaav/skillnaav-api/pkg/errors"
	"github.com/skillnaav/skillnaav-api/pkg/response"
)

type oauthFlow interface {
	AuthURL(ctx context.Context) (string, error)
	VerifyState(ctx context.Context, state string) error
	Authenticate(ctx context.Context, code string) (string, error)
}

type calendarSyncer interface {
	SyncLatest(ctx context.Context, email string) (*models.SyncResult, error)
	SyncStored(ctx context.Context, req dto.SyncScheduleRequest) (*models.SyncResult, error)
	CreateTestEvent(ctx context.Context, email string) *models.TestEventResult
}

// GoogleHandler drives the Google OAuth popup and calendar sync endpoints.
type GoogleHandler struct {
	oauth       oauthFlow
	sync        calendarSyncer
	frontendURL string
	showDetail  bool
	logger      *zap.Logger
}

// NewGoogleHandler constructs the handler. showDetail adds raw error text to the callback error page.
func NewGoogleHandler(oauth oauthFlow, sync calendarSyncer, frontendURL string, showDetail bool, logger *zap.Logger) *GoogleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if frontendURL == "" {
		frontendURL = "*"
	}
	return &GoogleHandler{oauth: oauth, sync: sync, frontendURL: frontendURL, showDetail: showDetail, logger: logger}
}

// Auth godoc
// @Summary Redirect to the Google consent screen
// @Tags Google
// @Success 302
// @Router /google/auth [get]
func (h *GoogleHandler) Auth(c *gin.Context) {
	url, err := h.oauth.AuthURL(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// Callback godoc
// @Summary Complete the OAuth flow and sync the latest schedule
// @Tags Google
// @Produce html
// @Param code query string false "Authorization code"
// @Param state query string false "Anti-forgery state"
// @Param error query string false "Provider error"
// @Success 200 {string} string "HTML page"
// @Router /google/callback [get]
func (h *GoogleHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()
	if providerErr := c.Query("error"); providerErr != "" {
		h.renderError(c, http.StatusBadRequest, "Google sign-in was cancelled or denied.", providerErr)
		return
	}
	code := c.Query("code")
	if code == "" {
		h.renderError(c, http.StatusBadRequest, "Missing authorization code.", "")
		return
	}
	if err := h.oauth.VerifyState(ctx, c.Query("state")); err != nil {
		h.renderError(c, http.StatusBadRequest, "This sign-in link is invalid or has expired. Please try again.", err.Error())
		return
	}

	email, err := h.oauth.Authenticate(ctx, code)
	if err != nil {
		h.logger.Error("google oauth callback failed", zap.Error(err))
		h.renderError(c, appErrors.FromError(err).Status, classifyOAuthFailure(err.Error()), err.Error())
		return
	}

	view := successView{Email: email, Origin: h.frontendURL, Delay: popupCloseDelayMillis}
	result, err := h.sync.SyncLatest(ctx, email)
	switch {
	case err != nil:
		h.logger.Warn("automatic sync skipped", zap.String("email", email), zap.Error(err))
		view.Sync = &models.SyncResult{Success: false, Error: appErrors.FromError(err).Message}
	default:
		view.Sync = result
	}
	if view.Sync.Success {
		view.Summary = fmt.Sprintf("%d of %d sessions were added to your calendar.", len(view.Sync.CreatedEvents), view.Sync.TotalSlots)
	} else {
		view.Summary = "Your schedule could not be synced yet: " + view.Sync.Error
	}

	page, err := renderPage(successPage, view)
	if err != nil {
		h.logger.Error("render oauth success page", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (h *GoogleHandler) renderError(c *gin.Context, status int, message, detail string) {
	view := errorView{Message: message, Origin: h.frontendURL, Delay: popupCloseDelayMillis}
	if h.showDetail {
		view.Detail = detail
	}
	page, err := renderPage(errorPage, view)
	if err != nil {
		c.String(http.StatusInternalServerError, message)
		return
	}
	c.Data(status, "text/html; charset=utf-8", page)
}

// Sync godoc
// @Summary Re-run the calendar sync for a stored schedule
// @Tags Google
// @Accept json
// @Produce json
// @Param payload body dto.SyncScheduleRequest true "Sync payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /google/sync [post]
func (h *GoogleHandler) Sync(c *gin.Context) {
	var req dto.SyncScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid sync payload"))
		return
	}
	result, err := h.sync.SyncStored(context.WithoutCancel(c.Request.Context()), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !result.Success {
		response.Failure(c, syncFailureStatus(result.Action), syncFailureCode(result.Action), result.Error, result)
		return
	}
	response.Message(c, http.StatusOK, result.Message, result)
}

// TestEvent godoc
// @Summary Create a single test event on the student's calendar
// @Tags Google
// @Accept json
// @Produce json
// @Param payload body dto.TestEventRequest true "Test event payload"
// @Success 200 {object} response.Envelope
// @Router /google/test-event [post]
func (h *GoogleHandler) TestEvent(c *gin.Context) {
	var req dto.TestEventRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "email is required"))
		return
	}
	result := h.sync.CreateTestEvent(c.Request.Context(), req.Email)
	if !result.Success {
		response.Failure(c, syncFailureStatus(result.Action), syncFailureCode(result.Action), result.Error, result)
		return
	}
	response.Message(c, http.StatusOK, "Test event created", result)
}

func syncFailureStatus(action string) int {
	if action == models.ActionReauthenticate {
		return http.StatusUnauthorized
	}
	return http.StatusBadRequest
}

func syncFailureCode(action string) string {
	if action == models.ActionReauthenticate {
		return appErrors.ErrUnauthorized.Code
	}
	return "SYNC_FAILED"
}
