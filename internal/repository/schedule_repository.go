package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillnaav/skillnaav-api/internal/models"
)

const scheduleColumns = `id, internship_id, partner_id, start_date, end_date, work_hours, default_start_time, default_end_time, default_event_link, default_location, default_type, selected_days, timetable, created_at, updated_at`

// ScheduleRepository persists internship schedules, one per internship and partner.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Upsert inserts the schedule or replaces every mutable field of the existing one.
// The stored id and created_at are written back into schedule.
func (r *ScheduleRepository) Upsert(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now
	if schedule.SelectedDays == nil {
		schedule.SelectedDays = []string{}
	}
	if schedule.Timetable == nil {
		schedule.Timetable = models.Timetable{}
	}

	const query = `INSERT INTO internship_schedules (` + scheduleColumns + `)
		VALUES (:id, :internship_id, :partner_id, :start_date, :end_date, :work_hours, :default_start_time, :default_end_time, :default_event_link, :default_location, :default_type, :selected_days, :timetable, :created_at, :updated_at)
		ON CONFLICT (internship_id, partner_id) DO UPDATE
		SET start_date = EXCLUDED.start_date,
		    end_date = EXCLUDED.end_date,
		    work_hours = EXCLUDED.work_hours,
		    default_start_time = EXCLUDED.default_start_time,
		    default_end_time = EXCLUDED.default_end_time,
		    default_event_link = EXCLUDED.default_event_link,
		    default_location = EXCLUDED.default_location,
		    default_type = EXCLUDED.default_type,
		    selected_days = EXCLUDED.selected_days,
		    timetable = EXCLUDED.timetable,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`

	bound, args, err := r.db.BindNamed(query, schedule)
	if err != nil {
		return fmt.Errorf("bind upsert schedule: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, bound, args...).Scan(&schedule.ID, &schedule.CreatedAt); err != nil {
		return fmt.Errorf("upsert schedule: %w", err)
	}
	return nil
}

// FindByPair loads the schedule for an internship and partner.
func (r *ScheduleRepository) FindByPair(ctx context.Context, internshipID, partnerID string) (*models.Schedule, error) {
	const query = `SELECT ` + scheduleColumns + ` FROM internship_schedules WHERE internship_id = $1 AND partner_id = $2`
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, internshipID, partnerID); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// FindLatest returns the most recently created schedule.
func (r *ScheduleRepository) FindLatest(ctx context.Context) (*models.Schedule, error) {
	const query = `SELECT ` + scheduleColumns + ` FROM internship_schedules ORDER BY created_at DESC LIMIT 1`
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query); err != nil {
		return nil, err
	}
	return &schedule, nil
}
