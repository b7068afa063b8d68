package handlers

import (
	"exam-prep-system/middleware"
	"exam-prep-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupExamRoutes(app *fiber.App, examService *services.ExamService, rankingService *services.RankingService, recommendationService *services.RecommendationService, jwtSecret string) {
	// 🔓 Public: browsing and the leaderboard need no account
	app.Get("/subjects", examService.ListSubjects)
	app.Get("/exams", examService.ListExams)
	app.Get("/ranking", rankingService.GetRanking)

	// Start reads an optional bearer itself (guest flow on free exams)
	app.Post("/exams/:id/start", examService.StartExam)

	// 🔐 Attempt lifecycle requires the attempt owner's token
	secured := app.Group("/", middleware.RequireAuth(jwtSecret))
	secured.Post("/attempts/:id/answer", examService.SubmitAnswer)
	secured.Post("/attempts/:id/finish", examService.FinishAttempt)
	secured.Get("/attempts/:id/result", examService.AttemptResult)

	secured.Get("/recommendations/:userId", recommendationService.PersonalizedExam)
	secured.Get("/recommendations/attempt/:attemptId/mistakes", recommendationService.ExplainMistakes)
}
