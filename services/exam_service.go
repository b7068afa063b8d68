package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"exam-prep-system/cache"
	"exam-prep-system/config"
	"exam-prep-system/middleware"
	"exam-prep-system/models"
	"exam-prep-system/scoring"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// guestHashCost keeps guest account creation cheap; guests get a random
// throwaway password they never type.
const guestHashCost = 6

type ExamService struct {
	DB           *gorm.DB
	Cfg          *config.Config
	RankingCache *cache.RankingCache
}

func NewExamService(db *gorm.DB, cfg *config.Config, rankingCache *cache.RankingCache) *ExamService {
	return &ExamService{DB: db, Cfg: cfg, RankingCache: rankingCache}
}

// ListSubjects returns all subjects with their topics.
func (s *ExamService) ListSubjects(c *fiber.Ctx) error {
	var subjects []models.Subject
	if err := s.DB.Preload("Topics").Order("name").Find(&subjects).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load subjects"})
	}
	return c.JSON(subjects)
}

// ListExams returns every exam with its ordered question list.
func (s *ExamService) ListExams(c *fiber.Ctx) error {
	var exams []models.Exam
	err := s.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Questions.Question.Subject").
		Preload("Questions.Question.Topic").
		Order("created_at DESC").
		Find(&exams).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load exams"})
	}
	return c.JSON(exams)
}

// StartExam opens an attempt. Anonymous visitors may start free exams:
// a guest account is created on the fly and its token returned, so the
// attempt survives a later registration. Premium exams require a logged
// in PREMIUM user.
func (s *ExamService) StartExam(c *fiber.Ctx) error {
	examID := c.Params("id")

	var exam models.Exam
	if err := s.DB.First(&exam, "id = ?", examID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "exam not found"})
	}

	userID := ""
	issuedToken := ""
	if token := middleware.BearerToken(c); token != "" {
		if claims, err := middleware.ParseToken(s.Cfg.JWTSecret, token); err == nil {
			userID = claims.Subject
		}
	}

	if !exam.IsFree && userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "log in to start premium exams"})
	}

	if exam.IsFree && userID == "" {
		guest, token, err := s.createGuest()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create guest session"})
		}
		userID = guest.ID
		issuedToken = token
	}

	if !exam.IsFree {
		var user models.User
		if err := s.DB.First(&user, "id = ?", userID).Error; err != nil || user.Plan != models.PlanPremium {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "premium access required"})
		}
	}

	attempt := models.Attempt{
		ID:     uuid.NewString(),
		UserID: userID,
		ExamID: examID,
		Status: models.AttemptInProgress,
	}
	if err := s.DB.Create(&attempt).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create attempt"})
	}

	resp := fiber.Map{"attempt": attempt}
	if issuedToken != "" {
		resp["token"] = issuedToken
	}
	return c.JSON(resp)
}

func (s *ExamService) createGuest() (*models.User, string, error) {
	suffix := strconv.FormatInt(time.Now().UnixMilli(), 36)
	hash, err := bcrypt.GenerateFromPassword([]byte("guest-"+uuid.NewString()), guestHashCost)
	if err != nil {
		return nil, "", err
	}

	guest := models.User{
		ID:           uuid.NewString(),
		Name:         "Guest " + suffix,
		Email:        fmt.Sprintf("guest+%s@guest.local", suffix),
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		Plan:         models.PlanFree,
	}
	if err := s.DB.Create(&guest).Error; err != nil {
		return nil, "", err
	}

	token, err := middleware.SignToken(s.Cfg.JWTSecret, &guest)
	if err != nil {
		return nil, "", err
	}
	return &guest, token, nil
}

type answerRequest struct {
	QuestionID   string `json:"question_id"`
	Selected     string `json:"selected"`
	TimeSpentSec int    `json:"time_spent_sec"`
	ReviewLater  bool   `json:"review_later"`
}

// SubmitAnswer records or replaces one answer on an open attempt.
// Correctness is graded immediately but only revealed at finish.
func (s *ExamService) SubmitAnswer(c *fiber.Ctx) error {
	attemptID := c.Params("id")

	var req answerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var attempt models.Attempt
	if err := s.DB.First(&attempt, "id = ?", attemptID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "attempt not found"})
	}
	if attempt.UserID != middleware.UserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "attempt belongs to another user"})
	}
	if attempt.Status == models.AttemptFinished {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "attempt already finished"})
	}

	var question models.Question
	if err := s.DB.First(&question, "id = ?", req.QuestionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "question not found"})
	}

	var isCorrect *bool
	if req.Selected != "" {
		v := question.Correct == req.Selected
		isCorrect = &v
	}

	answer := models.AttemptAnswer{
		AttemptID:    attemptID,
		QuestionID:   req.QuestionID,
		Selected:     req.Selected,
		IsCorrect:    isCorrect,
		TimeSpentSec: req.TimeSpentSec,
		ReviewLater:  req.ReviewLater,
		AnsweredAt:   time.Now(),
	}

	var existing models.AttemptAnswer
	err := s.DB.Where("attempt_id = ? AND question_id = ?", attemptID, req.QuestionID).First(&existing).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		answer.ID = uuid.NewString()
		if err := s.DB.Create(&answer).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save answer"})
		}
	case err == nil:
		answer.ID = existing.ID
		if err := s.DB.Model(&existing).Updates(map[string]any{
			"selected":       req.Selected,
			"is_correct":     isCorrect,
			"time_spent_sec": req.TimeSpentSec,
			"review_later":   req.ReviewLater,
			"answered_at":    answer.AnsweredAt,
		}).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update answer"})
		}
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load answer"})
	}

	return c.JSON(answer)
}

type finishOutcome struct {
	correctCount int
	totalTimeSec int
	score        int
	eligible     bool
	rankingScore float64
}

var errAttemptFinished = errors.New("attempt already finished")

// evaluateFinish freezes the numbers for one attempt: answer
// aggregates, raw score, and leaderboard eligibility. Finishing is
// one-shot; a finished attempt must not mint another leaderboard pair.
func (s *ExamService) evaluateFinish(attempt *models.Attempt) (finishOutcome, error) {
	if attempt.Status == models.AttemptFinished {
		return finishOutcome{}, errAttemptFinished
	}

	var out finishOutcome
	for _, answer := range attempt.Answers {
		if answer.IsCorrect != nil && *answer.IsCorrect {
			out.correctCount++
		}
		out.totalTimeSec += answer.TimeSpentSec
	}
	out.score = scoring.AttemptScore(out.correctCount)

	questionCount := len(attempt.Answers)
	if questionCount == 0 {
		// empty attempts fall back to the exam length so a blank submit
		// can't sneak onto the leaderboard with zero average time
		questionCount = attempt.Exam.DurationMinutes
	}

	if scoring.EligibleForRanking(float64(out.totalTimeSec), questionCount, s.Cfg.RankingMinAvgSeconds) {
		out.eligible = true
		out.rankingScore = scoring.RankingScore(
			out.correctCount,
			float64(out.totalTimeSec),
			float64(attempt.Exam.DurationMinutes),
			s.Cfg.RankingTimeBonusFactor,
		)
	}
	return out, nil
}

// FinishAttempt freezes the attempt, computes the raw score, and writes
// the leaderboard rows when the attempt qualifies for ranking.
func (s *ExamService) FinishAttempt(c *fiber.Ctx) error {
	attemptID := c.Params("id")

	var attempt models.Attempt
	err := s.DB.Preload("Exam").Preload("Answers").First(&attempt, "id = ?", attemptID).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "attempt not found"})
	}
	if attempt.UserID != middleware.UserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "attempt belongs to another user"})
	}

	outcome, err := s.evaluateFinish(&attempt)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "attempt already finished"})
	}

	now := time.Now()
	updates := map[string]any{
		"status":         models.AttemptFinished,
		"finished_at":    now,
		"total_time_sec": outcome.totalTimeSec,
		"correct_count":  outcome.correctCount,
		"score":          outcome.score,
	}
	if err := s.DB.Model(&attempt).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to finish attempt"})
	}

	if outcome.eligible {
		entries := []models.LeaderboardEntry{
			{ID: uuid.NewString(), Period: models.PeriodAll, UserID: attempt.UserID, Score: outcome.rankingScore, TimeSec: outcome.totalTimeSec},
			{ID: uuid.NewString(), Period: models.PeriodWeek, UserID: attempt.UserID, Score: outcome.rankingScore, TimeSec: outcome.totalTimeSec},
		}
		if err := s.DB.Create(&entries).Error; err != nil {
			log.Printf("⚠️ [EXAM] Failed to write leaderboard entries for attempt %s: %v", attemptID, err)
		} else {
			s.RankingCache.Invalidate(c.UserContext())
		}
	}

	if err := s.DB.First(&attempt, "id = ?", attemptID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to reload attempt"})
	}
	return c.JSON(attempt)
}

type subjectStat struct {
	Subject  string  `json:"subject"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// AttemptResult returns the finished attempt with per-subject accuracy.
func (s *ExamService) AttemptResult(c *fiber.Ctx) error {
	attemptID := c.Params("id")

	var attempt models.Attempt
	err := s.DB.
		Preload("Exam").
		Preload("Answers.Question.Subject").
		First(&attempt, "id = ?", attemptID).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "attempt not found"})
	}
	if attempt.UserID != middleware.UserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "attempt belongs to another user"})
	}

	type counts struct{ total, correct int }
	bySubject := map[string]*counts{}
	order := []string{}
	for _, answer := range attempt.Answers {
		name := answer.Question.Subject.Name
		if name == "" {
			name = "No subject"
		}
		if _, ok := bySubject[name]; !ok {
			bySubject[name] = &counts{}
			order = append(order, name)
		}
		bySubject[name].total++
		if answer.IsCorrect != nil && *answer.IsCorrect {
			bySubject[name].correct++
		}
	}

	stats := make([]subjectStat, 0, len(order))
	for _, name := range order {
		cnt := bySubject[name]
		accuracy := 0.0
		if cnt.total > 0 {
			accuracy = math.Round(float64(cnt.correct)/float64(cnt.total)*100*100) / 100
		}
		stats = append(stats, subjectStat{Subject: name, Total: cnt.total, Correct: cnt.correct, Accuracy: accuracy})
	}

	return c.JSON(fiber.Map{
		"attempt":         attempt,
		"subject_stats":   stats,
		"recommendations": "Review subjects below 60% accuracy and redo the questions you missed.",
	})
}
