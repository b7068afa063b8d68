package handlers

import (
	"exam-prep-system/middleware"
	"exam-prep-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAccountRoutes(app *fiber.App, userService *services.UserService, leadService *services.LeadService, jwtSecret string) {
	// 🔓 Lead capture comes from anonymous landing pages
	app.Post("/leads", leadService.CreateLead)

	secured := app.Group("/", middleware.RequireAuth(jwtSecret))
	secured.Get("/users/me", userService.Me)
	secured.Get("/users/:id/export", userService.ExportData)
	secured.Delete("/users/:id", userService.Delete)

	// Export is admin-only: it contains every lead's contact details
	secured.Get("/leads/export.csv", middleware.RequireAdmin(), leadService.ExportLeadsCSV)
}
