package models

// Lead is a marketing capture from the landing pages. UserID is set when
// the lead later registers with the same email.
type Lead struct {
	ID     string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID *string `gorm:"index" json:"user_id,omitempty"`

	Name             string `gorm:"not null" json:"name"`
	Email            string `gorm:"not null;index" json:"email"`
	Phone            string `json:"phone,omitempty"`
	ConsentMarketing bool   `gorm:"default:false" json:"consent_marketing"`
	UTMSource        string `json:"utm_source,omitempty"`
	UTMCampaign      string `json:"utm_campaign,omitempty"`

	Timestamps
}
