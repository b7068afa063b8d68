package models

// UnknownBuyerEmail is the sentinel stored when a webhook payload carries
// no resolvable buyer identity. The event is still logged for audit.
const UnknownBuyerEmail = "unknown@example.com"

// PaymentEvent is an append-only log of accepted webhook deliveries.
// Rows are never updated or deleted; plan changes are derived from the
// latest event per email (last-write-wins).
type PaymentEvent struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Provider string `gorm:"type:varchar(32);not null;index" json:"provider"`

	PayloadJSON string `gorm:"type:text;not null" json:"-"`
	UserEmail   string `gorm:"not null;index" json:"user_email"`
	Status      string `gorm:"type:varchar(16);not null" json:"status"`

	Timestamps
}
