package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/skillnaav/skillnaav-api/internal/dto"
	"github.com/skillnaav/skillnaav-api/internal/models"
	appErrors "github.com/skillnaav/skillnaav-api/pkg/errors"
)

type offerTemplateRepository interface {
	Create(ctx context.Context, tpl *models.OfferTemplate) error
	ListByPartner(ctx context.Context, partnerID string) ([]models.OfferTemplate, error)
}

// OfferTemplateService manages reusable offer wording for partners.
type OfferTemplateService struct {
	repo      offerTemplateRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewOfferTemplateService builds the service.
func NewOfferTemplateService(repo offerTemplateRepository, validate *validator.Validate, logger *zap.Logger) *OfferTemplateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OfferTemplateService{repo: repo, validator: validate, logger: logger}
}

// Create stores a template. Blank fields count as missing.
func (s *OfferTemplateService) Create(ctx context.Context, req dto.CreateOfferTemplateRequest) (*models.OfferTemplate, error) {
	req.PartnerID = strings.TrimSpace(req.PartnerID)
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "All fields are required")
	}

	tpl := &models.OfferTemplate{PartnerID: req.PartnerID, Title: req.Title, Content: req.Content}
	if err := s.repo.Create(ctx, tpl); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save offer template")
	}
	s.logger.Info("offer template saved", zap.String("template_id", tpl.ID), zap.String("partner_id", tpl.PartnerID))
	return tpl, nil
}

// ListByPartner returns a partner's templates, newest first.
func (s *OfferTemplateService) ListByPartner(ctx context.Context, partnerID string) ([]models.OfferTemplate, error) {
	partnerID = strings.TrimSpace(partnerID)
	if partnerID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "partnerId is required")
	}
	items, err := s.repo.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list offer templates")
	}
	if items == nil {
		items = []models.OfferTemplate{}
	}
	return items, nil
}
