package services

import (
	"log"

	"exam-prep-system/middleware"
	"exam-prep-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// Me returns the authenticated user's profile.
func (s *UserService) Me(c *fiber.Ctx) error {
	var user models.User
	if err := s.DB.First(&user, "id = ?", middleware.UserID(c)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	return c.JSON(user)
}

// ExportData serves a full data export for one account: profile,
// attempts with answers, and any leads tied to the account or its email.
// Users may export their own data; admins may export anyone's.
func (s *UserService) ExportData(c *fiber.Ctx) error {
	id := c.Params("id")
	if !s.canAccess(c, id) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "cannot export another user's data"})
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}

	var attempts []models.Attempt
	if err := s.DB.Preload("Answers").Where("user_id = ?", id).Find(&attempts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load attempts"})
	}

	var leads []models.Lead
	if err := s.DB.Where("user_id = ? OR email = ?", id, user.Email).Find(&leads).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load leads"})
	}

	return c.JSON(fiber.Map{
		"user":     user,
		"attempts": attempts,
		"leads":    leads,
	})
}

// Delete removes an account and everything derived from it in one
// transaction: answers, attempts, leaderboard entries, leads, then the
// user row. Payment events stay, they are an append-only audit log.
func (s *UserService) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if !s.canAccess(c, id) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "cannot delete another user's account"})
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		return purgeUserData(tx, id, user.Email)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete account"})
	}

	log.Printf("🗑️ [USERS] Account %s deleted with all derived data", id)
	return c.JSON(fiber.Map{"deleted": true})
}

// purgeUserData removes an account and every row derived from it.
// Deletes bypass the soft-delete scope: a soft-deleted user would keep
// occupying the unique email index and block that address from ever
// registering again.
func purgeUserData(tx *gorm.DB, userID, email string) error {
	if err := tx.Unscoped().Where("attempt_id IN (?)",
		tx.Model(&models.Attempt{}).Select("id").Where("user_id = ?", userID),
	).Delete(&models.AttemptAnswer{}).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Attempt{}).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.LeaderboardEntry{}).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().Where("user_id = ? OR email = ?", userID, email).Delete(&models.Lead{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Delete(&models.User{}, "id = ?", userID).Error
}

func (s *UserService) canAccess(c *fiber.Ctx, targetID string) bool {
	if middleware.UserID(c) == targetID {
		return true
	}
	role, _ := c.Locals("user_role").(string)
	return role == models.RoleAdmin
}
