package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/pkg/apperr"
)

// getUserID pulls the authenticated staff-user id set by RequireAuth.
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// respondError maps the error taxonomy to an HTTP response. This is the
// only place core errors are logged or translated.
func respondError(c *fiber.Ctx, err error) error {
	status := apperr.StatusOf(err)
	body := fiber.Map{"error": err.Error()}
	if apperr.Retryable(err) {
		body["retryable"] = true
	}
	return c.Status(status).JSON(body)
}
