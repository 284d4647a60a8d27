package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/antropov/habitd/internal/models"
)

// ShareHabit grants another user read access to the caller's habit.
func (handler *Handler) ShareHabit(c *fiber.Ctx) error {
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	input := shareInput{}
	if err := c.BodyParser(&input); err != nil || (input.ViewerID == 0 && input.ViewerUsername == "") {
		return apiError(c, fiber.StatusBadRequest, "viewer_id or viewer_username is required")
	}

	viewerID, err := handler.resolveShareTarget(input)
	if err != nil {
		return serviceError(c, err)
	}

	ownerID := currentTelegramID(c)
	if viewerID == ownerID {
		return apiError(c, fiber.StatusBadRequest, "cannot share a habit with yourself")
	}

	// Only the owner can share, and only an existing active habit.
	if _, err := handler.repositories.Habits.FindOwned(habitID, ownerID); err != nil {
		return serviceError(c, err)
	}

	share := models.Share{HabitID: habitID, OwnerID: ownerID, ViewerID: viewerID}
	if err := handler.repositories.Shares.Create(&share); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
}

// resolveShareTarget turns the share input into a viewer telegram id. The
// bot passes usernames the way people type them, with or without the "@".
func (handler *Handler) resolveShareTarget(input shareInput) (int64, error) {
	if input.ViewerID != 0 {
		if _, err := handler.repositories.Users.FindByID(input.ViewerID); err != nil {
			return 0, err
		}
		return input.ViewerID, nil
	}
	username := strings.TrimPrefix(strings.TrimSpace(input.ViewerUsername), "@")
	viewer, err := handler.repositories.Users.FindByUsername(username)
	if err != nil {
		return 0, err
	}
	return viewer.TelegramID, nil
}

// ListHabitShares lists the viewers the owner has granted access to.
func (handler *Handler) ListHabitShares(c *fiber.Ctx) error {
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	ownerID := currentTelegramID(c)
	if _, err := handler.repositories.Habits.FindOwned(habitID, ownerID); err != nil {
		return serviceError(c, err)
	}

	shares, err := handler.repositories.Shares.ListByHabit(habitID, ownerID)
	if err != nil {
		return serviceError(c, err)
	}

	response := make([]fiber.Map, 0, len(shares))
	for _, share := range shares {
		entry := fiber.Map{"viewer_id": share.ViewerID}
		if viewer, err := handler.repositories.Users.FindByID(share.ViewerID); err == nil {
			entry["username"] = viewer.Username
		}
		response = append(response, entry)
	}
	return c.JSON(response)
}

// ListSharedWithMe lists habits other users have shared with the caller.
func (handler *Handler) ListSharedWithMe(c *fiber.Ctx) error {
	viewerID := currentTelegramID(c)
	shares, err := handler.repositories.Shares.ListByViewer(viewerID)
	if err != nil {
		return serviceError(c, err)
	}

	response := make([]fiber.Map, 0, len(shares))
	for _, share := range shares {
		habit, err := handler.repositories.Habits.FindVisible(share.HabitID, viewerID)
		if err != nil || !habit.Active {
			// Deactivated habits stay readable by id but drop off the list.
			continue
		}
		response = append(response, fiber.Map{
			"habit":    habitToResponse(habit),
			"owner_id": share.OwnerID,
		})
	}
	return c.JSON(response)
}

func (handler *Handler) RevokeShare(c *fiber.Ctx) error {
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	viewerID, err := parseInt64Param(c, "viewer")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := handler.repositories.Shares.Revoke(habitID, currentTelegramID(c), viewerID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
