package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillnaav/skillnaav-api/internal/dto"
	"github.com/skillnaav/skillnaav-api/internal/models"
	appErrors "github.com/skillnaav/skillnaav-api/pkg/errors"
)

type offerTemplateRepoStub struct {
	created   []models.OfferTemplate
	listed    []models.OfferTemplate
	lastQuery string
	err       error
}

func (r *offerTemplateRepoStub) Create(ctx context.Context, tpl *models.OfferTemplate) error {
	if r.err != nil {
		return r.err
	}
	tpl.ID = "t-1"
	r.created = append(r.created, *tpl)
	return nil
}

func (r *offerTemplateRepoStub) ListByPartner(ctx context.Context, partnerID string) ([]models.OfferTemplate, error) {
	r.lastQuery = partnerID
	return r.listed, r.err
}

func TestOfferTemplateCreate(t *testing.T) {
	repo := &offerTemplateRepoStub{}
	svc := NewOfferTemplateService(repo, nil, nil)

	tpl, err := svc.Create(context.Background(), dto.CreateOfferTemplateRequest{PartnerID: " p-1 ", Title: "Summer offer", Content: "Dear candidate"})
	require.NoError(t, err)
	assert.Equal(t, "t-1", tpl.ID)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "p-1", repo.created[0].PartnerID)
}

func TestOfferTemplateCreateRequiresEveryField(t *testing.T) {
	repo := &offerTemplateRepoStub{}
	svc := NewOfferTemplateService(repo, nil, nil)

	for name, req := range map[string]dto.CreateOfferTemplateRequest{
		"partner": {Title: "t", Content: "c"},
		"title":   {PartnerID: "p-1", Title: "   ", Content: "c"},
		"content": {PartnerID: "p-1", Title: "t"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, appErrors.ErrValidation))
			assert.Equal(t, "All fields are required", appErrors.FromError(err).Message)
		})
	}
	assert.Empty(t, repo.created)
}

func TestOfferTemplateCreateStoreFailure(t *testing.T) {
	svc := NewOfferTemplateService(&offerTemplateRepoStub{err: errors.New("db down")}, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateOfferTemplateRequest{PartnerID: "p-1", Title: "t", Content: "c"})
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestOfferTemplateListByPartner(t *testing.T) {
	repo := &offerTemplateRepoStub{}
	svc := NewOfferTemplateService(repo, nil, nil)

	_, err := svc.ListByPartner(context.Background(), " ")
	require.Error(t, err)
	assert.Equal(t, "partnerId is required", appErrors.FromError(err).Message)

	items, err := svc.ListByPartner(context.Background(), "p-1")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, "p-1", repo.lastQuery)
}
