package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillnaav/skillnaav-api/internal/models"
)

// OfferTemplateRepository stores partner offer templates.
type OfferTemplateRepository struct {
	db *sqlx.DB
}

// NewOfferTemplateRepository constructs the repository.
func NewOfferTemplateRepository(db *sqlx.DB) *OfferTemplateRepository {
	return &OfferTemplateRepository{db: db}
}

// Create inserts a template.
func (r *OfferTemplateRepository) Create(ctx context.Context, tpl *models.OfferTemplate) error {
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	if tpl.CreatedAt.IsZero() {
		tpl.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO offer_templates (id, partner_id, title, content, created_at)
		VALUES (:id, :partner_id, :title, :content, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, tpl); err != nil {
		return fmt.Errorf("create offer template: %w", err)
	}
	return nil
}

// ListByPartner returns a partner's templates, newest first.
func (r *OfferTemplateRepository) ListByPartner(ctx context.Context, partnerID string) ([]models.OfferTemplate, error) {
	const query = `SELECT id, partner_id, title, content, created_at FROM offer_templates WHERE partner_id = $1 ORDER BY created_at DESC`
	var items []models.OfferTemplate
	if err := r.db.SelectContext(ctx, &items, query, partnerID); err != nil {
		return nil, fmt.Errorf("list offer templates: %w", err)
	}
	return items, nil
}
