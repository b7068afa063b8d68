package models

// Exam is a published mock exam composed of ordered questions.
type Exam struct {
	ID              string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title           string `gorm:"not null" json:"title"`
	Description     string `gorm:"type:text" json:"description,omitempty"`
	DurationMinutes int    `gorm:"not null;default:300" json:"duration_minutes"`
	IsFree          bool   `gorm:"default:false" json:"is_free"` // free exams allow anonymous guest attempts

	Questions []ExamQuestion `json:"questions,omitempty" gorm:"foreignKey:ExamID"`

	Timestamps
}

// ExamQuestion links a question into an exam at a fixed position.
type ExamQuestion struct {
	ID         string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExamID     string `gorm:"not null;index:ux_exam_questions_exam_pos,unique,priority:1" json:"exam_id"`
	QuestionID string `gorm:"not null;index" json:"question_id"`
	Position   int    `gorm:"not null;index:ux_exam_questions_exam_pos,unique,priority:2" json:"position"`

	Question Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`

	Timestamps
}
