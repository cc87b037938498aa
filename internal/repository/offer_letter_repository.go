package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillnaav/skillnaav-api/internal/models"
)

const offerLetterColumns = `id, student_id, internship_id, name, email, position, company_name, location, start_date, status, file_path, download_url, sent_at, updated_at`

// OfferLetterRepository persists issued offer letters.
type OfferLetterRepository struct {
	db *sqlx.DB
}

// NewOfferLetterRepository constructs the repository.
func NewOfferLetterRepository(db *sqlx.DB) *OfferLetterRepository {
	return &OfferLetterRepository{db: db}
}

// Create stores a new offer letter.
func (r *OfferLetterRepository) Create(ctx context.Context, letter *models.OfferLetter) error {
	if letter.ID == "" {
		letter.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if letter.SentAt.IsZero() {
		letter.SentAt = now
	}
	letter.UpdatedAt = now

	const query = `INSERT INTO offer_letters (` + offerLetterColumns + `)
		VALUES (:id, :student_id, :internship_id, :name, :email, :position, :company_name, :location, :start_date, :status, :file_path, :download_url, :sent_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, letter); err != nil {
		return fmt.Errorf("create offer letter: %w", err)
	}
	return nil
}

// FindByID loads one offer letter.
func (r *OfferLetterRepository) FindByID(ctx context.Context, id string) (*models.OfferLetter, error) {
	const query = `SELECT ` + offerLetterColumns + ` FROM offer_letters WHERE id = $1`
	var letter models.OfferLetter
	if err := r.db.GetContext(ctx, &letter, query, id); err != nil {
		return nil, err
	}
	return &letter, nil
}

// FindLatestByStudent returns the newest offer letter sent to a student.
func (r *OfferLetterRepository) FindLatestByStudent(ctx context.Context, studentID string) (*models.OfferLetter, error) {
	const query = `SELECT ` + offerLetterColumns + ` FROM offer_letters WHERE student_id = $1 ORDER BY sent_at DESC LIMIT 1`
	var letter models.OfferLetter
	if err := r.db.GetContext(ctx, &letter, query, studentID); err != nil {
		return nil, err
	}
	return &letter, nil
}

// UpdateStatus sets the status of an offer letter. It returns false when no row matched.
func (r *OfferLetterRepository) UpdateStatus(ctx context.Context, id string, status models.OfferLetterStatus) (bool, error) {
	const query = `UPDATE offer_letters SET status = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("update offer letter status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update offer letter status rows: %w", err)
	}
	return affected > 0, nil
}
