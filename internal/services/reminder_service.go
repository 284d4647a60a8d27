package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ReminderCandidate is one active habit with a reminder configured, joined
// with its owner's timezone offset.
type ReminderCandidate struct {
	HabitID         uint
	HabitName       string
	OwnerID         int64
	ReminderTime    string
	TZOffsetMinutes int
}

// ReminderSource lists the habits eligible for reminder delivery.
type ReminderSource interface {
	ListReminderCandidates() ([]ReminderCandidate, error)
}

// ReminderService polls once a minute and messages owners whose local clock
// matches a habit's reminder time. Local time is derived by adding the
// owner's stored offset to UTC; there is no scheduling state beyond a
// per-day de-duplication map.
type ReminderService struct {
	source   ReminderSource
	botToken string
	enabled  bool
	client   *http.Client

	mu   sync.Mutex
	sent map[string]time.Time
}

func NewReminderService(source ReminderSource, botToken string) *ReminderService {
	return &ReminderService{
		source:   source,
		botToken: botToken,
		enabled:  botToken != "",
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
		sent: make(map[string]time.Time),
	}
}

func (service *ReminderService) Start(ctx context.Context) {
	if !service.enabled {
		log.Print("reminders: no bot token, dispatch disabled")
		return
	}

	ticker := time.NewTicker(time.Minute)
	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				service.run(ctx, time.Now().UTC())
			}
		}
	}()
}

func (service *ReminderService) run(ctx context.Context, nowUTC time.Time) {
	candidates, err := service.source.ListReminderCandidates()
	if err != nil {
		log.Printf("reminders: fetch candidates failed: %v", err)
		return
	}

	for _, candidate := range candidates {
		if !ReminderDue(candidate.ReminderTime, candidate.TZOffsetMinutes, nowUTC) {
			continue
		}

		localDay := nowUTC.Add(time.Duration(candidate.TZOffsetMinutes) * time.Minute)
		key := fmt.Sprintf("%d:%s", candidate.HabitID, localDay.Format(dayKeyLayout))
		if !service.shouldSend(key, localDay) {
			continue
		}

		message := fmt.Sprintf("Reminder: time to check in %q (/checkin %d)", candidate.HabitName, candidate.HabitID)
		if err := service.sendTelegram(ctx, candidate.OwnerID, message); err != nil {
			log.Printf("reminders: send to %d failed: %v", candidate.OwnerID, err)
		}
	}
}

// ReminderDue reports whether the owner's local wall clock reads exactly the
// configured HH:MM right now.
func ReminderDue(reminderTime string, tzOffsetMinutes int, nowUTC time.Time) bool {
	if strings.TrimSpace(reminderTime) == "" {
		return false
	}
	localNow := nowUTC.Add(time.Duration(tzOffsetMinutes) * time.Minute)
	return localNow.Format("15:04") == reminderTime
}

func (service *ReminderService) shouldSend(key string, localDay time.Time) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	if sentOn, ok := service.sent[key]; ok && sentOn.Format(dayKeyLayout) == localDay.Format(dayKeyLayout) {
		return false
	}

	service.sent[key] = localDay
	if len(service.sent) > 2000 {
		service.sent = make(map[string]time.Time)
	}
	return true
}

func (service *ReminderService) sendTelegram(ctx context.Context, chatID int64, message string) error {
	values := url.Values{}
	values.Set("chat_id", strconv.FormatInt(chatID, 10))
	values.Set("text", message)

	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", service.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := service.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
