package api

import (
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/antropov/habitd/internal/db"
	"github.com/antropov/habitd/internal/services"
)

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	repositories *db.Repositories
	habitService *services.HabitService
	loginLimiter *attemptLimiter

	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration

	// now is swapped in tests to pin the clock.
	now func() time.Time
}

const (
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 30 * 24 * time.Hour
	linkCodeTTL            = 10 * time.Minute

	loginAttemptLimit  = 5
	loginAttemptWindow = 10 * time.Minute
)

type credentialsInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type refreshInput struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type habitInput struct {
	Name         string `json:"name" form:"name"`
	StartDate    string `json:"start_date" form:"start_date"`
	EndDate      string `json:"end_date" form:"end_date"`
	ReminderTime string `json:"reminder_time" form:"reminder_time"`
}

type renameInput struct {
	Name string `json:"name" form:"name"`
}

type reminderInput struct {
	ReminderTime string `json:"reminder_time" form:"reminder_time"`
}

type eventInput struct {
	Date string `json:"date" form:"date"`
}

type shareInput struct {
	ViewerID       int64  `json:"viewer_id" form:"viewer_id"`
	ViewerUsername string `json:"viewer_username" form:"viewer_username"`
}

type linkClaimInput struct {
	Code string `json:"code" form:"code"`
}

type challengeInput struct {
	Name          string `json:"name" form:"name"`
	StartDate     string `json:"start_date" form:"start_date"`
	EndDate       string `json:"end_date" form:"end_date"`
	GoalPerMember int    `json:"goal_per_member" form:"goal_per_member"`
}

type profileInput struct {
	Username  string `json:"username" form:"username"`
	FirstName string `json:"first_name" form:"first_name"`
}

type tzOffsetInput struct {
	TZOffsetMinutes int `json:"tz_offset_minutes" form:"tz_offset_minutes"`
}

func NewHandler(database *gorm.DB, secret string) *Handler {
	repositories := db.NewRepositories(database)
	return &Handler{
		db:              database,
		secretKey:       []byte(secret),
		repositories:    repositories,
		habitService:    services.NewHabitService(repositories.Habits, repositories.Events, repositories.Events),
		loginLimiter:    newAttemptLimiter(),
		accessTokenTTL:  ttlFromEnv("ACCESS_TTL_MIN", time.Minute, defaultAccessTokenTTL),
		refreshTokenTTL: ttlFromEnv("REFRESH_TTL_DAYS", 24*time.Hour, defaultRefreshTokenTTL),
		now:             time.Now,
	}
}

// ttlFromEnv reads a positive integer count of unit from the environment,
// falling back when the variable is unset or malformed.
func ttlFromEnv(key string, unit time.Duration, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	count, err := strconv.Atoi(value)
	if err != nil || count <= 0 {
		return fallback
	}
	return time.Duration(count) * unit
}
