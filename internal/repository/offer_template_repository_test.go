package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillnaav/skillnaav-api/internal/models"
)

func TestOfferTemplateRepositoryCreateAndList(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewOfferTemplateRepository(db)

	mock.ExpectExec("INSERT INTO offer_templates").
		WithArgs(sqlmock.AnyArg(), "p-1", "Summer offer", "Dear {{name}}", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	tpl := &models.OfferTemplate{PartnerID: "p-1", Title: "Summer offer", Content: "Dear {{name}}"}
	require.NoError(t, repo.Create(context.Background(), tpl))
	assert.NotEmpty(t, tpl.ID)
	assert.False(t, tpl.CreatedAt.IsZero())

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM offer_templates WHERE partner_id = $1 ORDER BY created_at DESC")).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "partner_id", "title", "content", "created_at"}).
			AddRow("t-2", "p-1", "Winter offer", "Hi", now).
			AddRow("t-1", "p-1", "Summer offer", "Dear {{name}}", now.Add(-time.Hour)))
	items, err := repo.ListByPartner(context.Background(), "p-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "t-2", items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferTemplateRepositoryCreateError(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewOfferTemplateRepository(db)

	mock.ExpectExec("INSERT INTO offer_templates").WillReturnError(errors.New("connection reset"))
	err := repo.Create(context.Background(), &models.OfferTemplate{PartnerID: "p-1", Title: "t", Content: "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create offer template")
}
