package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/antropov/habitd/internal/models"
	"github.com/antropov/habitd/internal/services"
)

type challengeResponse struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	OwnerID       int64   `json:"owner_id"`
	StartDate     string  `json:"start_date"`
	EndDate       *string `json:"end_date,omitempty"`
	GoalPerMember int     `json:"goal_per_member"`
}

func challengeToResponse(challenge models.Challenge) challengeResponse {
	return challengeResponse{
		ID:            challenge.ID,
		Name:          challenge.Name,
		OwnerID:       challenge.OwnerID,
		StartDate:     formatDate(challenge.StartDate),
		EndDate:       formatOptionalDate(challenge.EndDate),
		GoalPerMember: challenge.GoalPerMember,
	}
}

func (handler *Handler) ListChallenges(c *fiber.Ctx) error {
	challenges, err := handler.repositories.Challenges.ListForMember(currentTelegramID(c))
	if err != nil {
		return serviceError(c, err)
	}

	response := make([]challengeResponse, 0, len(challenges))
	for _, challenge := range challenges {
		response = append(response, challengeToResponse(challenge))
	}
	return c.JSON(response)
}

// CreateChallenge opens a group challenge with the caller as owner and first
// member.
func (handler *Handler) CreateChallenge(c *fiber.Ctx) error {
	input := challengeInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return apiError(c, fiber.StatusBadRequest, "name is required")
	}
	if input.GoalPerMember < 0 {
		return apiError(c, fiber.StatusBadRequest, "goal must not be negative")
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

	challenge := models.Challenge{
		OwnerID:       currentTelegramID(c),
		Name:          name,
		StartDate:     startDate,
		EndDate:       endDate,
		GoalPerMember: input.GoalPerMember,
		Active:        true,
	}
	if err := handler.repositories.Challenges.Create(&challenge); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(challengeToResponse(challenge))
}

func (handler *Handler) JoinChallenge(c *fiber.Ctx) error {
	challengeID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	if _, err := handler.repositories.Challenges.FindActive(challengeID); err != nil {
		return serviceError(c, err)
	}
	if err := handler.repositories.Challenges.Join(challengeID, currentTelegramID(c)); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// ChallengeCheckin marks the caller's day in a challenge they belong to.
func (handler *Handler) ChallengeCheckin(c *fiber.Ctx) error {
	challengeID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	userID := currentTelegramID(c)
	if _, err := handler.repositories.Challenges.FindActive(challengeID); err != nil {
		return serviceError(c, err)
	}
	member, err := handler.repositories.Challenges.IsMember(challengeID, userID)
	if err != nil {
		return serviceError(c, err)
	}
	if !member {
		return apiError(c, fiber.StatusForbidden, "not a challenge member")
	}

	input := eventInput{}
	_ = c.BodyParser(&input)
	day, err := parseDateField(input.Date, handler.now())
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := handler.repositories.Challenges.RecordCheckin(challengeID, userID, day); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "date": formatDate(day)})
}

// ChallengeStandings serves the per-member leaderboard, best first.
func (handler *Handler) ChallengeStandings(c *fiber.Ctx) error {
	challengeID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	challenge, err := handler.repositories.Challenges.FindActive(challengeID)
	if err != nil {
		return serviceError(c, err)
	}
	member, err := handler.repositories.Challenges.IsMember(challengeID, currentTelegramID(c))
	if err != nil {
		return serviceError(c, err)
	}
	if !member {
		return apiError(c, fiber.StatusForbidden, "not a challenge member")
	}

	standings, err := handler.repositories.Challenges.MemberStandings(challengeID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"challenge": challengeToResponse(challenge),
		"standings": standings,
	})
}

func (handler *Handler) DeactivateChallenge(c *fiber.Ctx) error {
	challengeID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := handler.repositories.Challenges.Deactivate(challengeID, currentTelegramID(c)); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
