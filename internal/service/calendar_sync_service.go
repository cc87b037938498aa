package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/skillnaav/skillnaav-api/internal/dto"
	"github.com/skillnaav/skillnaav-api/internal/models"
	appErrors "github.com/skillnaav/skillnaav-api/pkg/errors"
	"github.com/skillnaav/skillnaav-api/pkg/google"
)

const (
	msgNoTokens         = "No authentication tokens found"
	msgCalendarAccess   = "Failed to access calendar"
	msgInvalidTimetable = "Invalid timetable"

	testEventLead     = time.Hour
	testEventDuration = 30 * time.Minute
)

type tokenSessions interface {
	Session(ctx context.Context, email string) (*TokenSession, error)
	PersistIfRefreshed(ctx context.Context, session *TokenSession)
}

type calendarOpener interface {
	Calendar(ctx context.Context, ts oauth2.TokenSource) (google.CalendarAPI, error)
}

type scheduleLookup interface {
	FindByPair(ctx context.Context, internshipID, partnerID string) (*models.Schedule, error)
	FindLatest(ctx context.Context) (*models.Schedule, error)
}

type internshipTitles interface {
	FindTitle(ctx context.Context, id string) (string, error)
}

// CalendarSyncConfig holds event defaults applied during a sync.
type CalendarSyncConfig struct {
	TimezoneOffset string
	ColorID        string
	Delay          time.Duration
}

// CalendarSyncService writes schedule entries to the student's calendar.
type CalendarSyncService struct {
	sessions  tokenSessions
	calendars calendarOpener
	schedules scheduleLookup
	titles    internshipTitles
	cfg       CalendarSyncConfig
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger

	now   func() time.Time
	sleep func(context.Context, time.Duration)
}

// NewCalendarSyncService wires the sync engine. metrics may be nil.
func NewCalendarSyncService(sessions tokenSessions, calendars calendarOpener, schedules scheduleLookup, titles internshipTitles, cfg CalendarSyncConfig, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *CalendarSyncService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarSyncService{
		sessions:  sessions,
		calendars: calendars,
		schedules: schedules,
		titles:    titles,
		cfg:       cfg,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
		sleep:     sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// open loads the stored tokens and checks the calendar is reachable with them.
func (s *CalendarSyncService) open(ctx context.Context, email string) (*TokenSession, google.CalendarAPI, string) {
	session, err := s.sessions.Session(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrNoTokens) {
			s.logger.Error("failed to load oauth tokens", zap.String("email", email), zap.Error(err))
		}
		return nil, nil, msgNoTokens
	}
	api, err := s.calendars.Calendar(ctx, session.Source)
	if err != nil {
		s.logger.Warn("calendar client unavailable", zap.String("email", email), zap.Error(err))
		return nil, nil, msgCalendarAccess
	}
	if err := api.Ping(ctx); err != nil {
		s.logger.Warn("calendar access check failed", zap.String("email", email), zap.Error(err))
		return nil, nil, msgCalendarAccess
	}
	return session, api, ""
}

// Sync creates one calendar event per timetable entry. Per-entry problems are collected in
// the result; batch-level problems come back as an unsuccessful result with an action hint.
func (s *CalendarSyncService) Sync(ctx context.Context, email string, timetable models.Timetable, internshipTitle, defaultLink string) *models.SyncResult {
	started := s.now()
	session, api, failure := s.open(ctx, email)
	if failure != "" {
		return &models.SyncResult{Success: false, Error: failure, Action: models.ActionReauthenticate}
	}
	defer s.sessions.PersistIfRefreshed(ctx, session)

	if len(timetable) == 0 {
		return &models.SyncResult{Success: false, Error: msgInvalidTimetable}
	}

	result := &models.SyncResult{
		TotalSlots:    len(timetable),
		CreatedEvents: make([]models.CreatedEvent, 0, len(timetable)),
		FailedEvents:  []models.FailedEvent{},
	}
	opts := EventOptions{
		TimezoneOffset: s.cfg.TimezoneOffset,
		ColorID:        s.cfg.ColorID,
		Reminders:      true,
		GeneratedAt:    started,
	}

	for i, entry := range timetable {
		if i > 0 {
			s.sleep(ctx, s.cfg.Delay)
		}
		prepared, err := prepareEntry(entry, s.cfg.TimezoneOffset)
		if err != nil {
			s.recordFailure(result, i, entry, err)
			continue
		}
		created, err := api.InsertEvent(ctx, buildEvent(prepared, internshipTitle, defaultLink, opts))
		if err != nil {
			s.recordFailure(result, i, entry, err)
			continue
		}
		result.CreatedEvents = append(result.CreatedEvents, models.CreatedEvent{
			Index:    i,
			Entry:    prepared.entry,
			EventID:  created.Id,
			HTMLLink: created.HtmlLink,
			MeetLink: meetingLink(created),
		})
	}

	created := len(result.CreatedEvents)
	result.Success = created > 0
	result.SuccessRate = fmt.Sprintf("%d%%", int(math.Round(float64(created)/float64(result.TotalSlots)*100)))
	result.Message = fmt.Sprintf("Created %d of %d events", created, result.TotalSlots)

	s.metrics.ObserveSync(created, len(result.FailedEvents), result.Success, s.now().Sub(started))
	s.logger.Info("calendar sync finished",
		zap.String("email", email),
		zap.Int("total", result.TotalSlots),
		zap.Int("created", created),
		zap.Int("failed", len(result.FailedEvents)),
		zap.String("success_rate", result.SuccessRate),
	)
	return result
}

func (s *CalendarSyncService) recordFailure(result *models.SyncResult, index int, entry models.ScheduleEntry, err error) {
	msg := providerMessage(err)
	result.FailedEvents = append(result.FailedEvents, models.FailedEvent{Index: index, Entry: entry, Error: msg})
	s.logger.Warn("calendar entry failed", zap.Int("index", index), zap.String("date", entry.Date), zap.String("error", msg))
}

// providerMessage prefers the API's own error message over the transport wrapper.
func providerMessage(err error) string {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return err.Error()
}

// CreateTestEvent writes a single short event an hour from now to confirm calendar access.
func (s *CalendarSyncService) CreateTestEvent(ctx context.Context, email string) *models.TestEventResult {
	session, api, failure := s.open(ctx, email)
	if failure != "" {
		return &models.TestEventResult{Success: false, Error: failure, Action: models.ActionReauthenticate}
	}
	defer s.sessions.PersistIfRefreshed(ctx, session)

	start := s.now().Add(testEventLead).Truncate(time.Minute)
	event := &calendar.Event{
		Summary:     "SkillNaav Calendar Connection Test",
		Description: "This event confirms SkillNaav can write to your calendar. You can delete it.",
		ColorId:     s.cfg.ColorID,
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: start.Add(testEventDuration).Format(time.RFC3339)},
	}
	created, err := api.InsertEvent(ctx, event)
	if err != nil {
		s.logger.Warn("test event failed", zap.String("email", email), zap.Error(err))
		return &models.TestEventResult{Success: false, Error: providerMessage(err)}
	}
	return &models.TestEventResult{
		Success:  true,
		EventID:  created.Id,
		HTMLLink: created.HtmlLink,
		MeetLink: meetingLink(created),
	}
}

// SyncStored syncs the schedule saved for an internship and partner.
func (s *CalendarSyncService) SyncStored(ctx context.Context, req dto.SyncScheduleRequest) (*models.SyncResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "email, internshipId and partnerId are required")
	}
	schedule, err := s.schedules.FindByPair(ctx, req.InternshipID, req.PartnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return s.syncSchedule(ctx, req.Email, schedule), nil
}

// SyncLatest syncs the most recently created schedule. It runs after the OAuth callback and
// keeps going if the caller disconnects.
func (s *CalendarSyncService) SyncLatest(ctx context.Context, email string) (*models.SyncResult, error) {
	ctx = context.WithoutCancel(ctx)
	schedule, err := s.schedules.FindLatest(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "No schedule to sync")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest schedule")
	}
	return s.syncSchedule(ctx, email, schedule), nil
}

func (s *CalendarSyncService) syncSchedule(ctx context.Context, email string, schedule *models.Schedule) *models.SyncResult {
	title := ""
	if s.titles != nil {
		found, err := s.titles.FindTitle(ctx, schedule.InternshipID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("internship title lookup failed", zap.String("internship_id", schedule.InternshipID), zap.Error(err))
		}
		title = found
	}
	return s.Sync(ctx, email, schedule.Timetable, scheduleTitle(title), schedule.DefaultEventLink)
}
