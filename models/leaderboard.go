package models

const (
	PeriodAll  = "ALL"
	PeriodWeek = "WEEK"
)

// LeaderboardEntry is a scored, timestamped record used to rank users.
// Two rows are written per eligible finished attempt (ALL + WEEK); the
// weekly ranking additionally windows on CreatedAt.
type LeaderboardEntry struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Period string `gorm:"type:varchar(8);not null;index" json:"period"`
	UserID string `gorm:"not null;index" json:"user_id"`

	Score   float64 `gorm:"not null" json:"score"` // ranking score, not the raw attempt score
	TimeSec int     `gorm:"not null" json:"time_sec"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`

	Timestamps
}
