package handlers

import (
	"exam-prep-system/middleware"
	"exam-prep-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App, adminService *services.AdminService, jwtSecret string) {
	// 🔒 Admin console: auth + ADMIN role on everything
	admin := app.Group("/admin", middleware.RequireAuth(jwtSecret), middleware.RequireAdmin())

	admin.Get("/questions", adminService.ListQuestions)
	admin.Post("/questions", adminService.CreateQuestion)
	admin.Put("/questions/:id", adminService.UpdateQuestion)
	admin.Delete("/questions/:id", adminService.DeleteQuestion)

	admin.Post("/subjects", adminService.CreateSubject)
	admin.Post("/subjects/:id/topics", adminService.CreateTopic)
}
