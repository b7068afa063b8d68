package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles and plans are stored as plain strings so admin tooling can read them directly.
const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"

	PlanFree    = "FREE"
	PlanPremium = "PREMIUM"
)

// User is a platform account. Guests created at exam start are regular
// users with a generated email, so their attempts survive registration.
type User struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string `json:"phone,omitempty"`
	PasswordHash string `gorm:"not null" json:"-"`

	Role string `gorm:"type:varchar(16);default:'STUDENT'" json:"role"`
	Plan string `gorm:"type:varchar(16);default:'FREE'" json:"plan"` // upgraded by payment webhooks only

	// Leaderboard segmentation (all optional, filled in by the student)
	City      string `json:"city,omitempty"`
	College   string `json:"college,omitempty"`
	ClassName string `json:"class_name,omitempty"`

	// Marketing / lead attribution
	ConsentMarketing bool   `gorm:"default:false" json:"consent_marketing"`
	UTMSource        string `json:"utm_source,omitempty"`
	UTMCampaign      string `json:"utm_campaign,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
