package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/antropov/habitd/internal/security"
)

// IssueLinkCode hands out a short one-time code bound to the caller's
// Telegram identity. A web account presents it to ClaimLinkCode.
func (handler *Handler) IssueLinkCode(c *fiber.Ctx) error {
	telegramID := currentTelegramID(c)
	if _, err := handler.repositories.Users.FindByID(telegramID); err != nil {
		return serviceError(c, err)
	}

	code, err := security.NewLinkCode()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}

	expiresAt := handler.now().Add(linkCodeTTL)
	if err := handler.repositories.Links.IssueCode(code, telegramID, expiresAt); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"code":       code,
		"expires_at": expiresAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// ClaimLinkCode consumes a code and binds the caller's web account to the
// Telegram identity behind it.
func (handler *Handler) ClaimLinkCode(c *fiber.Ctx) error {
	input := linkClaimInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return apiError(c, fiber.StatusBadRequest, "code is required")
	}

	telegramID, err := handler.repositories.Links.ClaimCode(code, currentWebUserID(c), handler.now())
	if err != nil {
		return apiError(c, fiber.StatusNotFound, "code is invalid or expired")
	}
	return c.JSON(fiber.Map{"ok": true, "telegram_id": telegramID})
}
