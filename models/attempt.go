package models

import "time"

const (
	AttemptInProgress = "IN_PROGRESS"
	AttemptFinished   = "FINISHED"
)

// Attempt is one user's run through one exam, from start to finish.
// Aggregates (correct count, total time, score) are frozen at finish.
type Attempt struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	ExamID string `gorm:"not null;index" json:"exam_id"`

	Status       string     `gorm:"type:varchar(16);default:'IN_PROGRESS'" json:"status"`
	CorrectCount int        `gorm:"default:0" json:"correct_count"`
	TotalTimeSec int        `gorm:"default:0" json:"total_time_sec"`
	Score        int        `gorm:"default:0" json:"score"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`

	Exam    Exam            `json:"exam,omitempty" gorm:"foreignKey:ExamID"`
	Answers []AttemptAnswer `json:"answers,omitempty" gorm:"foreignKey:AttemptID"`

	Timestamps
}

// AttemptAnswer is one submitted answer. Selected may be empty (skipped),
// in which case IsCorrect stays nil. Resubmitting replaces the row.
type AttemptAnswer struct {
	ID         string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	AttemptID  string `gorm:"not null;index:ux_attempt_answers_attempt_question,unique,priority:1" json:"attempt_id"`
	QuestionID string `gorm:"not null;index:ux_attempt_answers_attempt_question,unique,priority:2" json:"question_id"`

	Selected     string    `gorm:"type:varchar(1)" json:"selected,omitempty"`
	IsCorrect    *bool     `json:"is_correct"`
	TimeSpentSec int       `gorm:"default:0" json:"time_spent_sec"`
	ReviewLater  bool      `gorm:"default:false" json:"review_later"`
	AnsweredAt   time.Time `gorm:"autoCreateTime" json:"answered_at"`

	Question Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`

	Timestamps
}
