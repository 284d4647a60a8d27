package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/antropov/habitd/internal/models"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// UpsertProfile registers or refreshes the caller's Telegram identity. The
// bot backend calls this whenever it sees a user, so names stay current.
func (handler *Handler) UpsertProfile(c *fiber.Ctx) error {
	input := profileInput{}
	_ = c.BodyParser(&input)

	user := models.User{
		TelegramID: currentTelegramID(c),
		Username:   strings.TrimSpace(input.Username),
		FirstName:  strings.TrimSpace(input.FirstName),
	}
	if err := handler.repositories.Users.Upsert(&user); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// SetTimezoneOffset stores the caller's UTC offset in minutes, used when
// deciding whether a reminder is due.
func (handler *Handler) SetTimezoneOffset(c *fiber.Ctx) error {
	input := tzOffsetInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if input.TZOffsetMinutes < -12*60 || input.TZOffsetMinutes > 14*60 {
		return apiError(c, fiber.StatusBadRequest, "offset out of range")
	}

	if err := handler.repositories.Users.SetTZOffset(currentTelegramID(c), input.TZOffsetMinutes); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
