package middleware

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"crm-backend/internal/config"
	"crm-backend/internal/dto"
	"crm-backend/internal/models"
)

// AdminRequired allows either the configured admin token header or a user
// whose stored role is admin. Runs after JWTProtected.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return c.Next()
		}

		userID, err := UserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false, Message: "Unauthorized",
			})
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err == nil && user.Role == models.RoleAdmin {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Success: false, Message: "Admin access required",
		})
	}
}
