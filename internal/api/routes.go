package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/refresh", handler.Refresh)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)

	link := api.Group("/link")
	link.Post("/code", handler.IdentityRequired, handler.IssueLinkCode)
	link.Post("", handler.AuthRequired, handler.ClaimLinkCode)

	profile := api.Group("/profile", handler.IdentityRequired)
	profile.Post("", handler.UpsertProfile)
	profile.Post("/timezone", handler.SetTimezoneOffset)

	habits := api.Group("/habits", handler.IdentityRequired)
	habits.Get("", handler.ListHabits)
	habits.Post("", handler.CreateHabit)
	habits.Patch("/:id", handler.RenameHabit)
	habits.Post("/:id/reminder", handler.SetHabitReminder)
	habits.Delete("/:id", handler.DeactivateHabit)
	habits.Post("/:id/checkin", handler.RecordCheckin)
	habits.Post("/:id/skip", handler.RecordSkip)
	habits.Get("/:id/stats", handler.HabitStats)
	habits.Get("/:id/calendar", handler.HabitCalendar)

	shares := api.Group("/shares", handler.IdentityRequired)
	shares.Get("", handler.ListSharedWithMe)
	shares.Get("/:id", handler.ListHabitShares)
	shares.Post("/:id", handler.ShareHabit)
	shares.Delete("/:id/:viewer", handler.RevokeShare)

	challenges := api.Group("/challenges", handler.IdentityRequired)
	challenges.Get("", handler.ListChallenges)
	challenges.Post("", handler.CreateChallenge)
	challenges.Post("/:id/join", handler.JoinChallenge)
	challenges.Post("/:id/checkin", handler.ChallengeCheckin)
	challenges.Get("/:id/stats", handler.ChallengeStandings)
	challenges.Delete("/:id", handler.DeactivateChallenge)

	api.Get("/today", handler.IdentityRequired, handler.Today)
}
