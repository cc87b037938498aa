package models

import "time"

// OfferTemplate is reusable offer wording saved by a partner.
type OfferTemplate struct {
	ID        string    `db:"id" json:"id"`
	PartnerID string    `db:"partner_id" json:"partnerId"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
