package db

import "gorm.io/gorm"

type Repositories struct {
	Users      *UserRepository
	Habits     *HabitRepository
	Events     *EventRepository
	Shares     *ShareRepository
	Challenges *ChallengeRepository
	WebUsers   *WebUserRepository
	Links      *LinkRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(database),
		Habits:     NewHabitRepository(database),
		Events:     NewEventRepository(database),
		Shares:     NewShareRepository(database),
		Challenges: NewChallengeRepository(database),
		WebUsers:   NewWebUserRepository(database),
		Links:      NewLinkRepository(database),
	}
}
