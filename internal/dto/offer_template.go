package dto

// CreateOfferTemplateRequest saves a partner's offer wording.
type CreateOfferTemplateRequest struct {
	PartnerID string `json:"partnerId" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content" validate:"required"`
}
