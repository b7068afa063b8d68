package models

// Subject groups questions by exam discipline (e.g., constitutional law).
type Subject struct {
	ID   string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name string `gorm:"not null" json:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`

	Topics []Topic `json:"topics,omitempty" gorm:"foreignKey:SubjectID"`

	Timestamps
}

// Topic is a subdivision of a subject. Slug is unique per subject.
type Topic struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	SubjectID string `gorm:"not null;index:ux_topics_subject_slug,unique,priority:1" json:"subject_id"`
	Name      string `gorm:"not null" json:"name"`
	Slug      string `gorm:"not null;index:ux_topics_subject_slug,unique,priority:2" json:"slug"`

	Timestamps
}

// Question is a single objective question with options A–E.
type Question struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	SubjectID string `gorm:"not null;index" json:"subject_id"`
	TopicID   string `gorm:"not null;index" json:"topic_id"`

	Text    string `gorm:"type:text;not null" json:"text"`
	OptionA string `gorm:"type:text" json:"option_a"`
	OptionB string `gorm:"type:text" json:"option_b"`
	OptionC string `gorm:"type:text" json:"option_c"`
	OptionD string `gorm:"type:text" json:"option_d"`
	OptionE string `gorm:"type:text" json:"option_e,omitempty"`
	Correct string `gorm:"type:varchar(1);not null" json:"correct"`

	// Post-exam commentary shown in mistake review
	CommentText string `gorm:"type:text" json:"comment_text,omitempty"`
	CommentRefs string `gorm:"type:text" json:"comment_refs,omitempty"`

	Subject Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Topic   Topic   `json:"topic,omitempty" gorm:"foreignKey:TopicID"`

	Timestamps
}
