package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS internships (
		id TEXT PRIMARY KEY,
		job_title TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS internship_schedules (
		id TEXT PRIMARY KEY,
		internship_id TEXT NOT NULL,
		partner_id TEXT NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		work_hours TEXT NOT NULL,
		default_start_time TEXT NOT NULL DEFAULT '',
		default_end_time TEXT NOT NULL DEFAULT '',
		default_event_link TEXT NOT NULL DEFAULT '',
		default_location JSONB,
		default_type TEXT NOT NULL DEFAULT 'online',
		selected_days TEXT[] NOT NULL DEFAULT '{}',
		timetable JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (internship_id, partner_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_internship_schedules_created_at ON internship_schedules (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS oauth_tokens (
		email TEXT PRIMARY KEY,
		tokens JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS offer_letters (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		internship_id TEXT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		position TEXT NOT NULL,
		company_name TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		start_date DATE NOT NULL,
		status TEXT NOT NULL,
		file_path TEXT NOT NULL,
		download_url TEXT NOT NULL,
		sent_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_offer_letters_student ON offer_letters (student_id, sent_at DESC)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		link TEXT NOT NULL DEFAULT '',
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_student ON notifications (student_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS offer_templates (
		id TEXT PRIMARY KEY,
		partner_id TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_offer_templates_partner ON offer_templates (partner_id, created_at DESC)`,
}

// EnsureSchema creates the tables used by the API when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
