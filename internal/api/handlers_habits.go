package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/antropov/habitd/internal/models"
	"github.com/antropov/habitd/internal/services"
)

var errInvalidReminderTime = errors.New("reminder time must look like HH:MM")

type habitResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	StartDate    string  `json:"start_date"`
	EndDate      *string `json:"end_date,omitempty"`
	ReminderTime string  `json:"reminder_time,omitempty"`
}

func habitToResponse(habit models.Habit) habitResponse {
	return habitResponse{
		ID:           habit.ID,
		Name:         habit.Name,
		StartDate:    formatDate(habit.StartDate),
		EndDate:      formatOptionalDate(habit.EndDate),
		ReminderTime: habit.ReminderTime,
	}
}

func (handler *Handler) ListHabits(c *fiber.Ctx) error {
	habits, err := handler.repositories.Habits.ListActiveByOwner(currentTelegramID(c))
	if err != nil {
		return serviceError(c, err)
	}

	response := make([]habitResponse, 0, len(habits))
	for _, habit := range habits {
		response = append(response, habitToResponse(habit))
	}
	return c.JSON(response)
}

func (handler *Handler) CreateHabit(c *fiber.Ctx) error {
	input := habitInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return apiError(c, fiber.StatusBadRequest, "name is required")
	}

	startDate, err := parseDateField(input.StartDate, handler.now())
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	endDate, err := parseOptionalDateField(input.EndDate)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := services.ValidateBounds(startDate, endDate); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	reminderTime, err := normalizeReminderTime(input.ReminderTime)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	habit := models.Habit{
		UserID:       currentTelegramID(c),
		Name:         name,
		StartDate:    startDate,
		EndDate:      endDate,
		ReminderTime: reminderTime,
		Active:       true,
	}
	if err := handler.repositories.Habits.Create(&habit); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(habitToResponse(habit))
}

func (handler *Handler) RenameHabit(c *fiber.Ctx) error {
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	input := renameInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return apiError(c, fiber.StatusBadRequest, "name is required")
	}

	if err := handler.repositories.Habits.Rename(habitID, currentTelegramID(c), name); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) SetHabitReminder(c *fiber.Ctx) error {
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	input := reminderInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	reminderTime, err := normalizeReminderTime(input.ReminderTime)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := handler.repositories.Habits.SetReminder(habitID, currentTelegramID(c), reminderTime); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) DeactivateHabit(c *fiber.Ctx) error {
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := handler.repositories.Habits.Deactivate(habitID, currentTelegramID(c)); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) RecordCheckin(c *fiber.Ctx) error {
	return handler.recordEvent(c, handler.habitService.RecordCheckin)
}

func (handler *Handler) RecordSkip(c *fiber.Ctx) error {
	return handler.recordEvent(c, handler.habitService.RecordSkip)
}

func (handler *Handler) recordEvent(c *fiber.Ctx, record func(uint, int64, time.Time) error) error {
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	input := eventInput{}
	_ = c.BodyParser(&input)
	day, err := parseDateField(input.Date, handler.now())
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := record(habitID, currentTelegramID(c), day); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "date": formatDate(day)})
}

// HabitStats serves the progress snapshot as of today. Share viewers see the
// same numbers as the owner.
func (handler *Handler) HabitStats(c *fiber.Ctx) error {
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	habit, snapshot, err := handler.habitService.Progress(habitID, currentTelegramID(c), handler.now())
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"habit": habitToResponse(habit),
		"stats": snapshot,
	})
}

// HabitCalendar serves one month of marked and skipped days. The month query
// parameter selects the window, defaulting to the current month.
func (handler *Handler) HabitCalendar(c *fiber.Ctx) error {
	habitID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	monthStart, monthEnd, err := parseMonthQuery(c, handler.now())
	if err != nil {
		return serviceError(c, err)
	}

	view, err := handler.habitService.Calendar(habitID, currentTelegramID(c), monthStart, monthEnd)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"month":   monthStart.Format("2006-01"),
		"marked":  formatDates(view.Marked),
		"skipped": formatDates(view.Skipped),
	})
}

func (handler *Handler) Today(c *fiber.Ctx) error {
	summary, err := handler.habitService.TodaySummary(currentTelegramID(c), handler.now())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(summary)
}

func normalizeReminderTime(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	parsed, err := time.Parse("15:04", trimmed)
	if err != nil {
		return "", errInvalidReminderTime
	}
	return parsed.Format("15:04"), nil
}
