package services

import (
	"sort"

	"exam-prep-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	weakAnswerSample      = 30
	suggestedQuestionsCap = 40
)

type RecommendationService struct {
	DB *gorm.DB
}

func NewRecommendationService(db *gorm.DB) *RecommendationService {
	return &RecommendationService{DB: db}
}

// PersonalizedExam suggests questions from the topics a user misses the
// most: recent wrong answers are tallied per topic, then similar
// questions from the weakest topics are mixed in with the missed ones.
func (s *RecommendationService) PersonalizedExam(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var wrong []models.AttemptAnswer
	err := s.DB.Preload("Question").
		Joins("JOIN attempts ON attempts.id = attempt_answers.attempt_id").
		Where("attempts.user_id = ? AND attempt_answers.is_correct = ?", userID, false).
		Limit(weakAnswerSample).
		Find(&wrong).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load answer history"})
	}

	misses := map[string]int{}
	for _, answer := range wrong {
		misses[answer.Question.TopicID]++
	}

	weakTopics := make([]string, 0, len(misses))
	for topicID := range misses {
		weakTopics = append(weakTopics, topicID)
	}
	sort.Slice(weakTopics, func(i, j int) bool {
		if misses[weakTopics[i]] != misses[weakTopics[j]] {
			return misses[weakTopics[i]] > misses[weakTopics[j]]
		}
		return weakTopics[i] < weakTopics[j] // stable order for equal counts
	})

	var similar []models.Question
	if len(weakTopics) > 0 {
		err = s.DB.Where("topic_id IN ?", weakTopics).Limit(suggestedQuestionsCap).Find(&similar).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load similar questions"})
		}
	}

	seen := map[string]bool{}
	suggested := []string{}
	for _, answer := range wrong {
		if !seen[answer.QuestionID] {
			seen[answer.QuestionID] = true
			suggested = append(suggested, answer.QuestionID)
		}
	}
	for _, question := range similar {
		if !seen[question.ID] {
			seen[question.ID] = true
			suggested = append(suggested, question.ID)
		}
	}
	if len(suggested) > suggestedQuestionsCap {
		suggested = suggested[:suggestedQuestionsCap]
	}

	return c.JSON(fiber.Map{
		"weak_topics":            weakTopics,
		"suggested_question_ids": suggested,
	})
}

type mistake struct {
	QuestionID  string `json:"question_id"`
	Selected    string `json:"selected,omitempty"`
	Correct     string `json:"correct"`
	Explanation string `json:"explanation,omitempty"`
	Refs        string `json:"refs,omitempty"`
}

// ExplainMistakes lists the wrong answers of one attempt with the
// correct option and the question commentary.
func (s *RecommendationService) ExplainMistakes(c *fiber.Ctx) error {
	attemptID := c.Params("attemptId")

	var wrong []models.AttemptAnswer
	err := s.DB.Preload("Question").
		Where("attempt_id = ? AND is_correct = ?", attemptID, false).
		Find(&wrong).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load answers"})
	}

	mistakes := make([]mistake, 0, len(wrong))
	for _, answer := range wrong {
		mistakes = append(mistakes, mistake{
			QuestionID:  answer.QuestionID,
			Selected:    answer.Selected,
			Correct:     answer.Question.Correct,
			Explanation: answer.Question.CommentText,
			Refs:        answer.Question.CommentRefs,
		})
	}
	return c.JSON(mistakes)
}
