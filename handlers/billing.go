package handlers

import (
	"exam-prep-system/middleware"
	"exam-prep-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupBillingRoutes(app *fiber.App, paymentService *services.PaymentService, jwtSecret string) {
	// 🔓 Checkout links are public (landing page reads them pre-login)
	app.Get("/checkout", paymentService.Checkout)
	app.Get("/checkout/options", paymentService.CheckoutOptions)

	// 🔓 Webhooks authenticate themselves via signature, never via JWT
	app.Post("/webhooks/payments/:provider", paymentService.HandleWebhook)

	secured := app.Group("/", middleware.RequireAuth(jwtSecret))
	secured.Get("/billing/me", paymentService.BillingMe)
}
