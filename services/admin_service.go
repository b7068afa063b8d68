package services

import (
	"errors"

	"exam-prep-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type AdminService struct {
	DB *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{DB: db}
}

type questionRequest struct {
	SubjectID   string `json:"subject_id"`
	TopicID     string `json:"topic_id"`
	Text        string `json:"text"`
	OptionA     string `json:"option_a"`
	OptionB     string `json:"option_b"`
	OptionC     string `json:"option_c"`
	OptionD     string `json:"option_d"`
	OptionE     string `json:"option_e"`
	Correct     string `json:"correct"`
	CommentText string `json:"comment_text"`
	CommentRefs string `json:"comment_refs"`
}

// ListQuestions returns the question bank for the admin console.
func (s *AdminService) ListQuestions(c *fiber.Ctx) error {
	var questions []models.Question
	err := s.DB.Preload("Subject").Preload("Topic").Limit(200).Find(&questions).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load questions"})
	}
	return c.JSON(questions)
}

// CreateQuestion adds a question to the bank. Unknown subject or topic
// IDs come back as 400 so the console can point at /subjects.
func (s *AdminService) CreateQuestion(c *fiber.Ctx) error {
	var req questionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Text == "" || !validOption(req.Correct) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "text and a correct option (A-E) are required"})
	}
	if err := s.checkRefs(req.SubjectID, req.TopicID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	question := models.Question{
		ID:          uuid.NewString(),
		SubjectID:   req.SubjectID,
		TopicID:     req.TopicID,
		Text:        req.Text,
		OptionA:     req.OptionA,
		OptionB:     req.OptionB,
		OptionC:     req.OptionC,
		OptionD:     req.OptionD,
		OptionE:     req.OptionE,
		Correct:     req.Correct,
		CommentText: req.CommentText,
		CommentRefs: req.CommentRefs,
	}
	if err := s.DB.Create(&question).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not create question"})
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

// UpdateQuestion applies a partial update.
func (s *AdminService) UpdateQuestion(c *fiber.Ctx) error {
	id := c.Params("id")

	var question models.Question
	if err := s.DB.First(&question, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "question not found"})
	}

	var updates map[string]any
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	delete(updates, "id")

	if err := s.DB.Model(&question).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not update question"})
	}
	return c.JSON(question)
}

// DeleteQuestion removes a question from the bank.
func (s *AdminService) DeleteQuestion(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.DB.Delete(&models.Question{}, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not delete question"})
	}
	return c.JSON(fiber.Map{"deleted": true})
}

type subjectRequest struct {
	Name string `json:"name"`
}

// CreateSubject creates a subject with a URL slug derived from its name.
func (s *AdminService) CreateSubject(c *fiber.Ctx) error {
	var req subjectRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	subject := models.Subject{
		ID:   uuid.NewString(),
		Name: req.Name,
		Slug: slug.Make(req.Name),
	}
	if err := s.DB.Create(&subject).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "subject already exists"})
	}
	return c.Status(fiber.StatusCreated).JSON(subject)
}

// CreateTopic adds a topic under a subject, again slugged from the name.
func (s *AdminService) CreateTopic(c *fiber.Ctx) error {
	subjectID := c.Params("id")

	var subject models.Subject
	if err := s.DB.First(&subject, "id = ?", subjectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "subject not found"})
	}

	var req subjectRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	topic := models.Topic{
		ID:        uuid.NewString(),
		SubjectID: subjectID,
		Name:      req.Name,
		Slug:      slug.Make(req.Name),
	}
	if err := s.DB.Create(&topic).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "topic already exists for this subject"})
	}
	return c.Status(fiber.StatusCreated).JSON(topic)
}

func (s *AdminService) checkRefs(subjectID, topicID string) error {
	var count int64
	if err := s.DB.Model(&models.Subject{}).Where("id = ?", subjectID).Count(&count).Error; err != nil || count == 0 {
		return errors.New("unknown subject_id, use IDs from /subjects")
	}
	if err := s.DB.Model(&models.Topic{}).Where("id = ? AND subject_id = ?", topicID, subjectID).Count(&count).Error; err != nil || count == 0 {
		return errors.New("unknown topic_id for this subject, use IDs from /subjects")
	}
	return nil
}

func validOption(v string) bool {
	switch v {
	case "A", "B", "C", "D", "E":
		return true
	}
	return false
}
