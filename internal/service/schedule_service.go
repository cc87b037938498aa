package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/skillnaav/skillnaav-api/internal/dto"
	"github.com/skillnaav/skillnaav-api/internal/models"
	appErrors "github.com/skillnaav/skillnaav-api/pkg/errors"
)

type scheduleRepository interface {
	Upsert(ctx context.Context, schedule *models.Schedule) error
	FindByPair(ctx context.Context, internshipID, partnerID string) (*models.Schedule, error)
	FindLatest(ctx context.Context) (*models.Schedule, error)
}

// ScheduleService saves and loads internship schedules.
type ScheduleService struct {
	repo      scheduleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(repo scheduleRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, validator: validate, logger: logger}
}

// Save normalizes the payload and upserts it by internship and partner.
func (s *ScheduleService) Save(ctx context.Context, req dto.UpsertScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Missing required fields")
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	defaultType, err := resolveType(req.DefaultType)
	if err != nil {
		return nil, err
	}
	timetable, err := normalizeTimetable(req.Timetable, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, err
	}

	defaultLocation := copyLocation(req.DefaultLocation)
	if defaultType == models.SessionOnline {
		defaultLocation = nil
	}
	selectedDays := make([]string, 0, len(req.SelectedDays))
	for _, day := range req.SelectedDays {
		if trimmed := strings.TrimSpace(day); trimmed != "" {
			selectedDays = append(selectedDays, trimmed)
		}
	}

	schedule := &models.Schedule{
		InternshipID:     req.InternshipID,
		PartnerID:        req.PartnerID,
		StartDate:        start,
		EndDate:          end,
		WorkHours:        req.WorkHours,
		DefaultStartTime: req.DefaultStartTime,
		DefaultEndTime:   req.DefaultEndTime,
		DefaultEventLink: req.DefaultEventLink,
		DefaultLocation:  defaultLocation,
		DefaultType:      defaultType,
		SelectedDays:     selectedDays,
		Timetable:        timetable,
	}
	if err := s.repo.Upsert(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule")
	}
	s.logger.Info("schedule saved",
		zap.String("schedule_id", schedule.ID),
		zap.String("internship_id", schedule.InternshipID),
		zap.String("partner_id", schedule.PartnerID),
		zap.Int("entries", len(schedule.Timetable)),
	)
	return schedule, nil
}

// Get loads the schedule for an internship and partner.
func (s *ScheduleService) Get(ctx context.Context, internshipID, partnerID string) (*models.Schedule, error) {
	if err := s.validator.Struct(dto.ScheduleKey{InternshipID: internshipID, PartnerID: partnerID}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "internshipId and partnerId are required")
	}
	schedule, err := s.repo.FindByPair(ctx, internshipID, partnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

// Latest returns the most recently created schedule.
func (s *ScheduleService) Latest(ctx context.Context) (*models.Schedule, error) {
	schedule, err := s.repo.FindLatest(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest schedule")
	}
	return schedule, nil
}

// Preview expands the request and applies manual dates and sub-events without saving.
func (s *ScheduleService) Preview(req dto.PreviewScheduleRequest) (models.Timetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	timetable, err := BuildTimetable(req.BuildTimetableRequest)
	if err != nil {
		return nil, err
	}
	for _, date := range req.ManualDates {
		if timetable, err = AddManualEntry(timetable, req.ScheduleDefaults, date); err != nil {
			return nil, err
		}
	}
	for _, sub := range req.SubEvents {
		if timetable, err = AddSubEvent(timetable, sub); err != nil {
			return nil, err
		}
	}
	return timetable, nil
}

// normalizeTimetable enforces the stored shape of entries: known types, YYYY-MM-DD dates
// inside the range, unique dates, and no location on online sessions.
func normalizeTimetable(entries []models.ScheduleEntry, start, end string) (models.Timetable, error) {
	out := make(models.Timetable, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, entry := range entries {
		date := NormalizeDate(entry.Date)
		if !IsValidDate(date) {
			return nil, scheduleError("Entry %d has an invalid date: %s", i+1, entry.Date)
		}
		if date < start || date > end {
			return nil, scheduleError("Entry %d date %s is outside %s to %s", i+1, date, start, end)
		}
		if seen[date] {
			return nil, scheduleError("Duplicate entry for %s", date)
		}
		seen[date] = true
		entry.Date = date
		if entry.Day == "" {
			day, _ := parseScheduleDate(date)
			entry.Day = day.Weekday().String()
		}

		entryType, err := resolveType(entry.Type)
		if err != nil {
			return nil, scheduleError("Entry %d: invalid session type %s", i+1, entry.Type)
		}
		entry.Type = entryType
		if entryType == models.SessionOnline {
			entry.Location = nil
		} else if !entry.Location.HasAddress() {
			return nil, scheduleError("%s (%s)", msgLocationRequired, date)
		}

		events := make([]models.SubEvent, 0, len(entry.Events))
		for _, sub := range entry.Events {
			subType, err := resolveType(sub.Type)
			if err != nil {
				return nil, scheduleError("Entry %d: invalid sub-event type %s", i+1, sub.Type)
			}
			sub.Type = subType
			if subType == models.SessionOnline {
				sub.Location = nil
			} else if !sub.Location.HasAddress() {
				return nil, scheduleError("%s (%s sub-event)", msgLocationRequired, date)
			}
			events = append(events, sub)
		}
		entry.Events = events
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// scheduleTitle falls back to the generic label when no internship title is known.
func scheduleTitle(title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return defaultInternshipTitle
}

