package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillnaav/skillnaav-api/internal/dto"
	"github.com/skillnaav/skillnaav-api/internal/models"
	appErrors "github.com/skillnaav/skillnaav-api/pkg/errors"
)

type scheduleServiceMock struct {
	saveResp   *models.Schedule
	saveErr    error
	getResp    *models.Schedule
	getErr     error
	preview    models.Timetable
	lastSave   dto.UpsertScheduleRequest
	lastKey    [2]string
	saveCalled bool
}

func (m *scheduleServiceMock) Save(ctx context.Context, req dto.UpsertScheduleRequest) (*models.Schedule, error) {
	m.saveCalled = true
	m.lastSave = req
	return m.saveResp, m.saveErr
}

func (m *scheduleServiceMock) Get(ctx context.Context, internshipID, partnerID string) (*models.Schedule, error) {
	m.lastKey = [2]string{internshipID, partnerID}
	return m.getResp, m.getErr
}

func (m *scheduleServiceMock) Preview(req dto.PreviewScheduleRequest) (models.Timetable, error) {
	return m.preview, nil
}

type exporterStub struct{}

func (exporterStub) Render(schedule *models.Schedule) []byte {
	return []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")
}

func newScheduleRouter(svc *scheduleServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewScheduleHandler(svc, exporterStub{})
	r := gin.New()
	r.POST("/api/schedule/create", h.Create)
	r.POST("/api/schedule/preview", h.Preview)
	r.GET("/api/schedule/get-schedule", h.Get)
	r.GET("/api/schedule/ics", h.ICS)
	return r
}

func TestScheduleHandlerCreate(t *testing.T) {
	svc := &scheduleServiceMock{saveResp: &models.Schedule{ID: "sch-1", InternshipID: "int-1"}}
	r := newScheduleRouter(svc)

	body := `{"internshipId":"int-1","partnerId":"p-1","startDate":"2024-01-01","endDate":"2024-01-07","workHours":"10-5","selectedDays":["Monday"]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/schedule/create", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "int-1", svc.lastSave.InternshipID)
	assert.Equal(t, []string{"Monday"}, svc.lastSave.SelectedDays)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "Schedule saved successfully", payload["message"])
}

func TestScheduleHandlerCreateInvalidBody(t *testing.T) {
	svc := &scheduleServiceMock{}
	r := newScheduleRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/schedule/create", bytes.NewBufferString(`{"internshipId":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, svc.saveCalled)
}

func TestScheduleHandlerGet(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		r := newScheduleRouter(&scheduleServiceMock{})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/schedule/get-schedule?internshipId=int-1", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		r := newScheduleRouter(&scheduleServiceMock{getErr: appErrors.Clone(appErrors.ErrNotFound, "Schedule not found")})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/schedule/get-schedule?internshipId=int-1&partnerId=p-1", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Schedule not found")
	})

	t.Run("found", func(t *testing.T) {
		svc := &scheduleServiceMock{getResp: &models.Schedule{ID: "sch-1"}}
		r := newScheduleRouter(svc)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/schedule/get-schedule?internshipId=int-1&partnerId=p-1", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, [2]string{"int-1", "p-1"}, svc.lastKey)
	})
}

func TestScheduleHandlerPreview(t *testing.T) {
	svc := &scheduleServiceMock{preview: models.Timetable{{Date: "2024-01-01"}, {Date: "2024-01-03"}}}
	r := newScheduleRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/schedule/preview", bytes.NewBufferString(`{"startDate":"2024-01-01","endDate":"2024-01-07","selectedDays":["Monday","Wednesday"]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var payload struct {
		Data []models.ScheduleEntry `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Len(t, payload.Data, 2)
	assert.Equal(t, float64(2), payload.Meta["total"])
}

func TestScheduleHandlerICS(t *testing.T) {
	r := newScheduleRouter(&scheduleServiceMock{getResp: &models.Schedule{ID: "sch-1", InternshipID: "int-1"}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/schedule/ics?internshipId=int-1&partnerId=p-1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "internship-schedule-int-1.ics")
	assert.Contains(t, w.Body.String(), "BEGIN:VCALENDAR")
}

func TestScheduleHandlerRejectsIncompleteQuery(t *testing.T) {
	for _, target := range []string{
		"/api/schedule/get-schedule?partnerId=p-1",
		"/api/schedule/get-schedule?internshipId=&partnerId=p-1",
		"/api/schedule/ics?internshipId=int-1",
	} {
		t.Run(target, func(t *testing.T) {
			svc := &scheduleServiceMock{getResp: &models.Schedule{ID: "sch-1"}}
			r := newScheduleRouter(svc)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

			require.Equal(t, http.StatusBadRequest, w.Code)
			var payload map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
			assert.Equal(t, appErrors.ErrValidation.Code, payload["code"])
			assert.Equal(t, "internshipId and partnerId are required", payload["error"])
			assert.Contains(t, payload["details"], "required")
			assert.Equal(t, [2]string{}, svc.lastKey)
		})
	}
}
