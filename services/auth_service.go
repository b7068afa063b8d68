package services

import (
	"log"
	"strings"

	"exam-prep-system/config"
	"exam-prep-system/middleware"
	"exam-prep-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{DB: db, Cfg: cfg}
}

type registerRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Password         string `json:"password"`
	City             string `json:"city"`
	College          string `json:"college"`
	ClassName        string `json:"class_name"`
	ConsentMarketing bool   `json:"consent_marketing"`
	UTMSource        string `json:"utm_source"`
	UTMCampaign      string `json:"utm_campaign"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse pairs a bearer token with the fields the web app renders.
type authResponse struct {
	Token string    `json:"token"`
	User  userBrief `json:"user"`
}

type userBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Plan  string `json:"plan"`
}

// Register creates a student account and logs it straight in.
func (s *AuthService) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	req.Name = strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if req.Name == "" || email == "" || len(req.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, email and a password of at least 6 characters are required"})
	}

	var existing models.User
	err := s.DB.Where("LOWER(email) = ?", email).Select("id").First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already registered"})
	}
	if err != gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to check existing account"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to hash password"})
	}

	user := models.User{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Email:            email,
		Phone:            req.Phone,
		PasswordHash:     string(hash),
		Role:             models.RoleStudent,
		Plan:             models.PlanFree,
		City:             req.City,
		College:          req.College,
		ClassName:        req.ClassName,
		ConsentMarketing: req.ConsentMarketing,
		UTMSource:        req.UTMSource,
		UTMCampaign:      req.UTMCampaign,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create account"})
	}

	token, err := middleware.SignToken(s.Cfg.JWTSecret, &user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to issue token"})
	}

	log.Printf("👤 [AUTH] New account registered: %s", user.Email)
	return c.JSON(authResponse{Token: token, User: brief(&user)})
}

// Login checks credentials and answers with a fresh token.
func (s *AuthService) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var user models.User
	err := s.DB.Where("LOWER(email) = ?", normalizeEmail(req.Email)).First(&user).Error
	if err != nil {
		// same answer for unknown email and wrong password
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	token, err := middleware.SignToken(s.Cfg.JWTSecret, &user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to issue token"})
	}

	return c.JSON(authResponse{Token: token, User: brief(&user)})
}

func brief(u *models.User) userBrief {
	return userBrief{ID: u.ID, Name: u.Name, Email: u.Email, Plan: u.Plan}
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
