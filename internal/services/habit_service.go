package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/antropov/habitd/internal/models"
)

// ErrInvalidRange rejects habit bounds with an end date before the start.
var ErrInvalidRange = errors.New("end date must not be before start date")

// HabitReader resolves habits with visibility applied: FindVisible admits the
// owner and share viewers, FindOwned only the owner. Both report a missing or
// invisible habit as gorm.ErrRecordNotFound from the storage layer.
type HabitReader interface {
	FindOwned(habitID uint, ownerID int64) (models.Habit, error)
	FindVisible(habitID uint, viewerID int64) (models.Habit, error)
	CountActiveByOwner(ownerID int64) (int, error)
}

// EventReader supplies a habit's event log as sorted date sets from a single
// consistent read.
type EventReader interface {
	ListCheckinDates(habitID uint) ([]time.Time, error)
	ListSkipDates(habitID uint) ([]time.Time, error)
	CountOwnerCheckinsOn(ownerID int64, day time.Time) (int, error)
	CountOwnerSkipsOn(ownerID int64, day time.Time) (int, error)
}

// EventWriter persists admitted events. SaveCheckin removes a same-day skip
// and inserts the checkin in one transaction; uniqueness constraints back the
// admission rule against concurrent writers.
type EventWriter interface {
	SaveCheckin(habitID uint, day time.Time) error
	SaveSkip(habitID uint, day time.Time) error
}

type HabitService struct {
	habits HabitReader
	events EventReader
	writer EventWriter
}

// TodaySummary backs the "N of M done today" view: Pending is the active
// habit count minus today's skips, Done the habits checked in today.
type TodaySummary struct {
	Pending int `json:"pending"`
	Done    int `json:"done"`
}

func NewHabitService(habits HabitReader, events EventReader, writer EventWriter) *HabitService {
	return &HabitService{habits: habits, events: events, writer: writer}
}

// ValidateBounds checks a new habit's date range.
func ValidateBounds(start time.Time, end *time.Time) error {
	if end != nil && DateOnly(*end).Before(DateOnly(start)) {
		return ErrInvalidRange
	}
	return nil
}

// Progress loads the habit's bounds and event log and computes the snapshot
// as of today. Viewers with a share see the same numbers as the owner.
func (service *HabitService) Progress(habitID uint, viewerID int64, today time.Time) (models.Habit, ProgressSnapshot, error) {
	habit, err := service.habits.FindVisible(habitID, viewerID)
	if err != nil {
		return models.Habit{}, ProgressSnapshot{}, err
	}

	checkins, skips, err := service.loadEvents(habitID)
	if err != nil {
		return models.Habit{}, ProgressSnapshot{}, err
	}

	return habit, ComputeProgress(habit.StartDate, habit.EndDate, checkins, skips, today), nil
}

// Calendar projects the habit's events onto one month window.
func (service *HabitService) Calendar(habitID uint, viewerID int64, monthStart time.Time, monthEnd time.Time) (CalendarView, error) {
	if _, err := service.habits.FindVisible(habitID, viewerID); err != nil {
		return CalendarView{}, err
	}

	checkins, skips, err := service.loadEvents(habitID)
	if err != nil {
		return CalendarView{}, err
	}

	return ProjectMonth(checkins, skips, monthStart, monthEnd), nil
}

// RecordCheckin admits a checkin for day and persists it. A prior skip for
// the same day is displaced; a repeated checkin is rejected with
// ErrAlreadyCheckedIn.
func (service *HabitService) RecordCheckin(habitID uint, ownerID int64, day time.Time) error {
	if _, err := service.habits.FindOwned(habitID, ownerID); err != nil {
		return err
	}

	set, err := service.loadEventSet(habitID)
	if err != nil {
		return err
	}
	if err := set.AdmitCheckin(day); err != nil {
		return err
	}

	if err := service.writer.SaveCheckin(habitID, DateOnly(day)); err != nil {
		return fmt.Errorf("save checkin: %w", err)
	}
	return nil
}

// RecordSkip admits a skip for day and persists it. A completed day rejects
// with ErrSkipConflictsWithCheckin, a repeated skip with ErrAlreadySkipped.
func (service *HabitService) RecordSkip(habitID uint, ownerID int64, day time.Time) error {
	if _, err := service.habits.FindOwned(habitID, ownerID); err != nil {
		return err
	}

	set, err := service.loadEventSet(habitID)
	if err != nil {
		return err
	}
	if err := set.AdmitSkip(day); err != nil {
		return err
	}

	if err := service.writer.SaveSkip(habitID, DateOnly(day)); err != nil {
		return fmt.Errorf("save skip: %w", err)
	}
	return nil
}

// TodaySummary counts the owner's active habits still pending today and the
// ones already done.
func (service *HabitService) TodaySummary(ownerID int64, today time.Time) (TodaySummary, error) {
	total, err := service.habits.CountActiveByOwner(ownerID)
	if err != nil {
		return TodaySummary{}, err
	}
	skipped, err := service.events.CountOwnerSkipsOn(ownerID, DateOnly(today))
	if err != nil {
		return TodaySummary{}, err
	}
	done, err := service.events.CountOwnerCheckinsOn(ownerID, DateOnly(today))
	if err != nil {
		return TodaySummary{}, err
	}

	pending := total - skipped
	if pending < 0 {
		pending = 0
	}
	return TodaySummary{Pending: pending, Done: done}, nil
}

func (service *HabitService) loadEvents(habitID uint) ([]time.Time, []time.Time, error) {
	checkins, err := service.events.ListCheckinDates(habitID)
	if err != nil {
		return nil, nil, fmt.Errorf("load checkins: %w", err)
	}
	skips, err := service.events.ListSkipDates(habitID)
	if err != nil {
		return nil, nil, fmt.Errorf("load skips: %w", err)
	}
	return checkins, skips, nil
}

func (service *HabitService) loadEventSet(habitID uint) (*EventSet, error) {
	checkins, skips, err := service.loadEvents(habitID)
	if err != nil {
		return nil, err
	}
	return NewEventSet(checkins, skips), nil
}
