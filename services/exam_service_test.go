package services

import (
	"errors"
	"testing"

	"exam-prep-system/config"
	"exam-prep-system/models"
)

func newFinishService() *ExamService {
	return NewExamService(nil, &config.Config{
		RankingMinAvgSeconds:   10,
		RankingTimeBonusFactor: 0.2,
	}, nil)
}

func truePtr() *bool  { v := true; return &v }
func falsePtr() *bool { v := false; return &v }

// A finished attempt can never be finished again; a second finish would
// duplicate the ALL/WEEK leaderboard pair.
func TestEvaluateFinishRejectsFinishedAttempt(t *testing.T) {
	s := newFinishService()

	attempt := &models.Attempt{
		Status: models.AttemptFinished,
		Answers: []models.AttemptAnswer{
			{IsCorrect: truePtr(), TimeSpentSec: 30},
		},
	}

	if _, err := s.evaluateFinish(attempt); !errors.Is(err, errAttemptFinished) {
		t.Fatalf("expected errAttemptFinished, got %v", err)
	}
}

func TestEvaluateFinishAggregatesAnswers(t *testing.T) {
	s := newFinishService()

	attempt := &models.Attempt{
		Status: models.AttemptInProgress,
		Exam:   models.Exam{DurationMinutes: 10},
		Answers: []models.AttemptAnswer{
			{IsCorrect: truePtr(), TimeSpentSec: 400},
			{IsCorrect: truePtr(), TimeSpentSec: 500},
			{IsCorrect: falsePtr(), TimeSpentSec: 200},
			{IsCorrect: nil, TimeSpentSec: 100},
		},
	}

	out, err := s.evaluateFinish(attempt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.correctCount != 2 {
		t.Fatalf("expected 2 correct, got %d", out.correctCount)
	}
	if out.totalTimeSec != 1200 {
		t.Fatalf("expected 1200s total, got %d", out.totalTimeSec)
	}
	if out.score != 2 {
		t.Fatalf("expected raw score 2, got %d", out.score)
	}
	// 1200s over 4 questions averages 300s/question, above the 10s floor
	if !out.eligible {
		t.Fatal("expected attempt to qualify for ranking")
	}
	// 1200s spent on a 600s exam leaves no time bonus
	if out.rankingScore != 2 {
		t.Fatalf("expected ranking score 2, got %v", out.rankingScore)
	}
}

// With no answers the average-time check falls back to the exam length,
// so a blank submit stays off the leaderboard.
func TestEvaluateFinishEmptyAttemptNotEligible(t *testing.T) {
	s := newFinishService()

	attempt := &models.Attempt{
		Status: models.AttemptInProgress,
		Exam:   models.Exam{DurationMinutes: 60},
	}

	out, err := s.evaluateFinish(attempt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.eligible {
		t.Fatal("empty attempt must not qualify for ranking")
	}
	if out.score != 0 || out.correctCount != 0 || out.totalTimeSec != 0 {
		t.Fatalf("expected zeroed outcome, got %+v", out)
	}
}
