package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/skillnaav/skillnaav-api/internal/models"
)

// OAuthTokenRepository stores provider tokens keyed by account email.
type OAuthTokenRepository struct {
	db *sqlx.DB
}

// NewOAuthTokenRepository constructs the repository.
func NewOAuthTokenRepository(db *sqlx.DB) *OAuthTokenRepository {
	return &OAuthTokenRepository{db: db}
}

// Save overwrites the token set stored for email, creating the record when absent.
func (r *OAuthTokenRepository) Save(ctx context.Context, email string, tokens models.TokenSet) error {
	now := time.Now().UTC()
	record := models.OAuthTokenRecord{Email: email, Tokens: tokens, CreatedAt: now, UpdatedAt: now}

	const query = `INSERT INTO oauth_tokens (email, tokens, created_at, updated_at)
		VALUES (:email, :tokens, :created_at, :updated_at)
		ON CONFLICT (email) DO UPDATE
		SET tokens = EXCLUDED.tokens,
		    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("save oauth tokens: %w", err)
	}
	return nil
}

// FindByEmail returns the stored token record for email.
func (r *OAuthTokenRepository) FindByEmail(ctx context.Context, email string) (*models.OAuthTokenRecord, error) {
	const query = `SELECT email, tokens, created_at, updated_at FROM oauth_tokens WHERE email = $1`
	var record models.OAuthTokenRecord
	if err := r.db.GetContext(ctx, &record, query, email); err != nil {
		return nil, err
	}
	return &record, nil
}
