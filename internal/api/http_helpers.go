package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/antropov/habitd/internal/services"
)

const dateLayout = "2006-01-02"

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// serviceError maps storage and admission failures onto HTTP statuses.
// Admission rejections are client conflicts, a missing record is 404,
// anything else is a server fault.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apiError(c, fiber.StatusNotFound, "not found")
	case services.IsAdmissionRejection(err):
		return apiError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidRange), errors.Is(err, services.ErrInvalidMonth):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	default:
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || value == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(value), nil
}

func parseInt64Param(c *fiber.Ctx, name string) (int64, error) {
	value, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || value == 0 {
		return 0, errors.New("invalid id")
	}
	return value, nil
}

// parseDateField reads a YYYY-MM-DD value, defaulting to today's UTC date
// when the field is empty.
func parseDateField(raw string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return services.DateOnly(now), nil
	}
	parsed, err := time.ParseInLocation(dateLayout, trimmed, time.UTC)
	if err != nil {
		return time.Time{}, errors.New("invalid date, expected YYYY-MM-DD")
	}
	return parsed, nil
}

func parseOptionalDateField(raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(dateLayout, trimmed, time.UTC)
	if err != nil {
		return nil, errors.New("invalid date, expected YYYY-MM-DD")
	}
	return &parsed, nil
}

// parseMonthQuery reads the month query parameter, defaulting to the current
// UTC month.
func parseMonthQuery(c *fiber.Ctx, now time.Time) (time.Time, time.Time, error) {
	raw := strings.TrimSpace(c.Query("month"))
	if raw == "" {
		start, end := services.MonthWindow(now.UTC().Year(), now.UTC().Month())
		return start, end, nil
	}
	return services.ParseMonthWindow(raw)
}

func formatDate(value time.Time) string {
	return value.Format(dateLayout)
}

func formatDates(values []time.Time) []string {
	formatted := make([]string, 0, len(values))
	for _, value := range values {
		formatted = append(formatted, formatDate(value))
	}
	return formatted
}

func formatOptionalDate(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := formatDate(*value)
	return &formatted
}
