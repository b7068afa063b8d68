package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"time"

	"exam-prep-system/models"
	"exam-prep-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeadService struct {
	DB *gorm.DB
}

func NewLeadService(db *gorm.DB) *LeadService {
	return &LeadService{DB: db}
}

type leadRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	ConsentMarketing bool   `json:"consent_marketing"`
	UTMSource        string `json:"utm_source"`
	UTMCampaign      string `json:"utm_campaign"`
}

// CreateLead captures a landing-page signup.
func (s *LeadService) CreateLead(c *fiber.Ctx) error {
	var req leadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	email := normalizeEmail(req.Email)
	if req.Name == "" || email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name and email are required"})
	}

	lead := models.Lead{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Email:            email,
		Phone:            req.Phone,
		ConsentMarketing: req.ConsentMarketing,
		UTMSource:        req.UTMSource,
		UTMCampaign:      req.UTMCampaign,
	}

	// attach to an existing account when the email already registered
	var user models.User
	if err := s.DB.Where("LOWER(email) = ?", email).Select("id").First(&user).Error; err == nil {
		lead.UserID = &user.ID
	}

	if err := s.DB.Create(&lead).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save lead"})
	}
	return c.Status(fiber.StatusCreated).JSON(lead)
}

// ExportLeadsCSV streams every lead as CSV, newest first. When archive
// storage is configured the file is also uploaded for the marketing team.
func (s *LeadService) ExportLeadsCSV(c *fiber.Ctx) error {
	var leads []models.Lead
	if err := s.DB.Order("created_at DESC").Find(&leads).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load leads"})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "name", "email", "phone", "consent_marketing", "utm_source", "utm_campaign", "created_at"})
	for _, lead := range leads {
		_ = w.Write([]string{
			lead.ID,
			lead.Name,
			lead.Email,
			lead.Phone,
			strconv.FormatBool(lead.ConsentMarketing),
			lead.UTMSource,
			lead.UTMCampaign,
			lead.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render csv"})
	}

	if utils.StorageEnabled() {
		key := fmt.Sprintf("exports/leads-%s.csv", time.Now().UTC().Format("20060102-150405"))
		if err := utils.ArchiveExport(c.UserContext(), key, "text/csv", buf.Bytes()); err != nil {
			log.Printf("⚠️ [LEADS] Export archive failed: %v", err)
		}
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", `attachment; filename="leads.csv"`)
	return c.Send(buf.Bytes())
}
