package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/antropov/habitd/internal/db"
)

var testClock = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (*fiber.App, *Handler) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "habitd-api-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	handler := NewHandler(database, "test-secret")
	handler.now = func() time.Time { return testClock }

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, handler
}

type testRequest struct {
	method  string
	path    string
	body    any
	headers map[string]string
}

func doJSON(t *testing.T, app *fiber.App, request testRequest) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if request.body != nil {
		payload, err := json.Marshal(request.body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpRequest := httptest.NewRequest(request.method, request.path, reader)
	if request.body != nil {
		httpRequest.Header.Set("Content-Type", "application/json")
	}
	for key, value := range request.headers {
		httpRequest.Header.Set(key, value)
	}

	response, err := app.Test(httpRequest, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.method, request.path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("%s %s read body failed: %v", request.method, request.path, err)
	}

	decoded := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("%s %s decode body %q failed: %v", request.method, request.path, string(raw), err)
		}
	}
	return response.StatusCode, decoded
}

func doJSONList(t *testing.T, app *fiber.App, request testRequest) (int, []map[string]any) {
	t.Helper()

	var reader io.Reader
	if request.body != nil {
		payload, err := json.Marshal(request.body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpRequest := httptest.NewRequest(request.method, request.path, reader)
	if request.body != nil {
		httpRequest.Header.Set("Content-Type", "application/json")
	}
	for key, value := range request.headers {
		httpRequest.Header.Set(key, value)
	}

	response, err := app.Test(httpRequest, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.method, request.path, err)
	}
	defer response.Body.Close()

	decoded := make([]map[string]any, 0)
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		t.Fatalf("%s %s decode list failed: %v", request.method, request.path, err)
	}
	return response.StatusCode, decoded
}

func telegramHeaders(id string) map[string]string {
	return map[string]string{telegramIDHeader: id}
}

func registerTelegramUser(t *testing.T, app *fiber.App, id string) {
	t.Helper()

	status, _ := doJSON(t, app, testRequest{
		method:  http.MethodPost,
		path:    "/api/profile",
		body:    map[string]any{"username": "user" + id, "first_name": "User"},
		headers: telegramHeaders(id),
	})
	if status != http.StatusOK {
		t.Fatalf("profile upsert for %s returned status %d", id, status)
	}
}

func createTestHabit(t *testing.T, app *fiber.App, ownerID string, name string, startDate string) uint {
	t.Helper()

	status, body := doJSON(t, app, testRequest{
		method:  http.MethodPost,
		path:    "/api/habits",
		body:    map[string]any{"name": name, "start_date": startDate},
		headers: telegramHeaders(ownerID),
	})
	if status != http.StatusCreated {
		t.Fatalf("create habit returned status %d, body %v", status, body)
	}

	id, ok := body["id"].(float64)
	if !ok {
		t.Fatalf("create habit response missing id: %v", body)
	}
	return uint(id)
}
