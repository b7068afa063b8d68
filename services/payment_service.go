package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"exam-prep-system/config"
	"exam-prep-system/middleware"
	"exam-prep-system/models"
	"exam-prep-system/webhook"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// customerLookupTimeout bounds the best-effort Asaas email lookup so a
// slow provider API can't stall webhook processing.
const customerLookupTimeout = 5 * time.Second

type PaymentService struct {
	DB        *gorm.DB
	Cfg       *config.Config
	Directory CustomerDirectory
}

func NewPaymentService(db *gorm.DB, cfg *config.Config, directory CustomerDirectory) *PaymentService {
	return &PaymentService{DB: db, Cfg: cfg, Directory: directory}
}

type checkoutProvider struct {
	Provider string `json:"provider"`
	Label    string `json:"label"`
	URL      string `json:"url"`
}

func (s *PaymentService) checkoutProviders() []checkoutProvider {
	all := []checkoutProvider{
		{Provider: "asaas", Label: "Asaas", URL: s.Cfg.CheckoutURLAsaas},
		{Provider: "mercadopago", Label: "Mercado Pago", URL: s.Cfg.CheckoutURLMercadoPago},
		{Provider: "nubank_qr", Label: "Nubank QR", URL: s.Cfg.CheckoutURLNubankQR},
	}
	configured := make([]checkoutProvider, 0, len(all))
	for _, p := range all {
		if p.URL != "" {
			configured = append(configured, p)
		}
	}
	return configured
}

// Checkout answers the single checkout link for the landing page.
func (s *PaymentService) Checkout(c *fiber.Ctx) error {
	url := s.Cfg.PremiumCheckoutURL
	if providers := s.checkoutProviders(); len(providers) > 0 {
		url = providers[0].URL
	}
	return c.JSON(fiber.Map{"premium_checkout_url": url})
}

// CheckoutOptions lists every configured payment provider.
func (s *PaymentService) CheckoutOptions(c *fiber.Ctx) error {
	providers := s.checkoutProviders()

	defaultProvider := "custom"
	url := s.Cfg.PremiumCheckoutURL
	if len(providers) > 0 {
		defaultProvider = providers[0].Provider
		url = providers[0].URL
	}

	return c.JSON(fiber.Map{
		"providers":            providers,
		"default_provider":     defaultProvider,
		"premium_checkout_url": url,
	})
}

// BillingMe shows the caller's plan plus their recent payment events.
func (s *PaymentService) BillingMe(c *fiber.Ctx) error {
	var user models.User
	if err := s.DB.First(&user, "id = ?", middleware.UserID(c)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}

	var events []models.PaymentEvent
	err := s.DB.
		Where("user_email = ?", user.Email).
		Order("created_at DESC").
		Limit(20).
		Find(&events).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load payment events"})
	}

	return c.JSON(fiber.Map{
		"user":   fiber.Map{"id": user.ID, "email": user.Email, "plan": user.Plan},
		"events": events,
	})
}

// HandleWebhook is the payment trust boundary. Flow per delivery:
// validate signature (reject ⇒ 401, nothing persisted), normalize the
// provider status, resolve the buyer, append a PaymentEvent, and flip
// the matched user's plan. A malformed but authentic payload still gets
// logged with conservative defaults.
func (s *PaymentService) HandleWebhook(c *fiber.Ctx) error {
	provider := c.Params("provider")
	rawBody := c.Body()
	headerGet := func(key string) string { return c.Get(key) }

	if !webhook.ValidateRequest(provider, headerGet, rawBody, s.Cfg.WebhookSecrets()) {
		log.Printf("🚫 [WEBHOOK] Rejected %s delivery: invalid signature", provider)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid webhook signature"})
	}

	var payload map[string]any
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		payload = map[string]any{}
	}

	userEmail := webhook.ResolveBuyerEmail(payload)
	if userEmail == "" && provider == webhook.ProviderAsaas {
		if customerID := webhook.AsaasCustomerID(payload); customerID != "" {
			userEmail = s.lookupCustomerEmail(c.UserContext(), customerID)
		}
	}
	status := webhook.NormalizeStatus(provider, payload)

	event := models.PaymentEvent{
		ID:          uuid.NewString(),
		Provider:    provider,
		PayloadJSON: string(rawBody),
		UserEmail:   userEmail,
		Status:      status,
	}
	if event.UserEmail == "" {
		event.UserEmail = models.UnknownBuyerEmail
	}
	if err := s.DB.Create(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to persist payment event"})
	}

	if userEmail != "" {
		s.applyPlanTransition(userEmail, status)
	} else {
		log.Printf("💳 [WEBHOOK] %s event logged without buyer identity (status %s)", provider, status)
	}

	return c.JSON(fiber.Map{
		"ok":        true,
		"provider":  provider,
		"status":    status,
		"userEmail": userEmail,
	})
}

func (s *PaymentService) lookupCustomerEmail(ctx context.Context, customerID string) string {
	if s.Directory == nil {
		return ""
	}
	lookupCtx, cancel := context.WithTimeout(ctx, customerLookupTimeout)
	defer cancel()

	email, err := s.Directory.CustomerEmail(lookupCtx, customerID)
	if err != nil {
		// best-effort: unresolved, never a failed delivery
		log.Printf("⚠️ [WEBHOOK] Asaas customer lookup failed for %s: %v", customerID, err)
		return ""
	}
	return webhook.NormalizeEmail(email)
}

// applyPlanTransition sets the matched user's plan from the latest
// event: PREMIUM on approval, FREE on anything else (last-write-wins).
func (s *PaymentService) applyPlanTransition(email, status string) {
	var user models.User
	if err := s.DB.Where("LOWER(email) = ?", email).First(&user).Error; err != nil {
		log.Printf("💳 [WEBHOOK] No account matches %s, event logged only", email)
		return
	}

	plan := models.PlanFree
	if status == webhook.StatusApproved {
		plan = models.PlanPremium
	}
	if err := s.DB.Model(&user).Update("plan", plan).Error; err != nil {
		log.Printf("⚠️ [WEBHOOK] Failed to update plan for %s: %v", email, err)
		return
	}
	log.Printf("✅ [WEBHOOK] %s is now %s", email, plan)
}
