package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// InternshipRepository reads internship postings owned by the marketplace.
type InternshipRepository struct {
	db *sqlx.DB
}

// NewInternshipRepository constructs the repository.
func NewInternshipRepository(db *sqlx.DB) *InternshipRepository {
	return &InternshipRepository{db: db}
}

// FindTitle returns the job title of an internship.
func (r *InternshipRepository) FindTitle(ctx context.Context, id string) (string, error) {
	const query = `SELECT job_title FROM internships WHERE id = $1`
	var title string
	if err := r.db.GetContext(ctx, &title, query, id); err != nil {
		return "", err
	}
	return title, nil
}
