package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func createTestChallenge(t *testing.T, app *fiber.App, ownerID string) uint {
	t.Helper()

	status, body := doJSON(t, app, testRequest{
		method: http.MethodPost,
		path:   "/api/challenges",
		body: map[string]any{
			"name":            "march streak",
			"start_date":      "2026-03-01",
			"goal_per_member": 20,
		},
		headers: telegramHeaders(ownerID),
	})
	if status != http.StatusCreated {
		t.Fatalf("create challenge returned status %d, body %v", status, body)
	}

	id, ok := body["id"].(float64)
	if !ok {
		t.Fatalf("create challenge response missing id: %v", body)
	}
	return uint(id)
}

func TestChallengeJoinCheckinAndStandings(t *testing.T) {
	app, _ := newTestApp(t)
	registerTelegramUser(t, app, "100")
	registerTelegramUser(t, app, "200")
	challengeID := createTestChallenge(t, app, "100")

	status, _ := doJSON(t, app, testRequest{
		method:  http.MethodPost,
		path:    fmt.Sprintf("/api/challenges/%d/join", challengeID),
		headers: telegramHeaders("200"),
	})
	if status != http.StatusOK {
		t.Fatalf("join returned status %d", status)
	}

	for _, date := range []string{"2026-03-08", "2026-03-09", "2026-03-10"} {
		if status, _ := doJSON(t, app, testRequest{
			method: http.MethodPost, path: fmt.Sprintf("/api/challenges/%d/checkin", challengeID),
			body: map[string]any{"date": date}, headers: telegramHeaders("200"),
		}); status != http.StatusOK {
			t.Fatalf("checkin %s returned status %d", date, status)
		}
	}
	if status, _ := doJSON(t, app, testRequest{
		method: http.MethodPost, path: fmt.Sprintf("/api/challenges/%d/checkin", challengeID),
		body: map[string]any{}, headers: telegramHeaders("100"),
	}); status != http.StatusOK {
		t.Fatalf("owner checkin returned status %d", status)
	}

	status, body := doJSON(t, app, testRequest{
		method:  http.MethodGet,
		path:    fmt.Sprintf("/api/challenges/%d/stats", challengeID),
		headers: telegramHeaders("100"),
	})
	if status != http.StatusOK {
		t.Fatalf("standings returned status %d, body %v", status, body)
	}

	standings, _ := body["standings"].([]any)
	if len(standings) != 2 {
		t.Fatalf("standings len = %d, want 2", len(standings))
	}
	leader, _ := standings[0].(map[string]any)
	if userID, _ := leader["user_id"].(float64); userID != 200 {
		t.Fatalf("leader = %v, want user 200", leader)
	}
	if total, _ := leader["total"].(float64); total != 3 {
		t.Fatalf("leader total = %v, want 3", leader["total"])
	}
}

func TestChallengeCheckinRequiresMembership(t *testing.T) {
	app, _ := newTestApp(t)
	registerTelegramUser(t, app, "100")
	registerTelegramUser(t, app, "200")
	challengeID := createTestChallenge(t, app, "100")

	status, _ := doJSON(t, app, testRequest{
		method: http.MethodPost, path: fmt.Sprintf("/api/challenges/%d/checkin", challengeID),
		body: map[string]any{}, headers: telegramHeaders("200"),
	})
	if status != http.StatusForbidden {
		t.Fatalf("non-member checkin returned status %d, want 403", status)
	}

	status, _ = doJSON(t, app, testRequest{
		method:  http.MethodGet,
		path:    fmt.Sprintf("/api/challenges/%d/stats", challengeID),
		headers: telegramHeaders("200"),
	})
	if status != http.StatusForbidden {
		t.Fatalf("non-member standings returned status %d, want 403", status)
	}
}

func TestChallengeDuplicateCheckinConflicts(t *testing.T) {
	app, _ := newTestApp(t)
	registerTelegramUser(t, app, "100")
	challengeID := createTestChallenge(t, app, "100")

	payload := map[string]any{"date": "2026-03-10"}
	if status, _ := doJSON(t, app, testRequest{
		method: http.MethodPost, path: fmt.Sprintf("/api/challenges/%d/checkin", challengeID),
		body: payload, headers: telegramHeaders("100"),
	}); status != http.StatusOK {
		t.Fatalf("first checkin returned status %d", status)
	}

	status, _ := doJSON(t, app, testRequest{
		method: http.MethodPost, path: fmt.Sprintf("/api/challenges/%d/checkin", challengeID),
		body: payload, headers: telegramHeaders("100"),
	})
	if status != http.StatusConflict {
		t.Fatalf("duplicate checkin returned status %d, want 409", status)
	}
}

func TestListChallengesShowsMemberships(t *testing.T) {
	app, _ := newTestApp(t)
	registerTelegramUser(t, app, "100")
	registerTelegramUser(t, app, "200")
	challengeID := createTestChallenge(t, app, "100")
	createTestChallenge(t, app, "200")

	if status, _ := doJSON(t, app, testRequest{
		method:  http.MethodPost,
		path:    fmt.Sprintf("/api/challenges/%d/join", challengeID),
		headers: telegramHeaders("200"),
	}); status != http.StatusOK {
		t.Fatalf("join returned status %d", status)
	}

	status, list := doJSONList(t, app, testRequest{
		method:  http.MethodGet,
		path:    "/api/challenges",
		headers: telegramHeaders("200"),
	})
	if status != http.StatusOK {
		t.Fatalf("list returned status %d", status)
	}
	if len(list) != 2 {
		t.Fatalf("list len = %d, want 2", len(list))
	}
}
