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

	"github.com/VerenaSchrama/Decode-sub000/internal/db"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "decode-api-test.db")
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

	handler := NewHandler(database, "test-secret-key", time.UTC)
	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, database
}

func jsonRequest(t *testing.T, method string, path string, token string, payload any) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode request payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	return request
}

func performRequest(t *testing.T, app *fiber.App, request *http.Request, wantStatus int) map[string]any {
	t.Helper()

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if response.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected status %d, got %d (body %s)", request.Method, request.URL.Path, wantStatus, response.StatusCode, raw)
	}

	if len(raw) == 0 {
		return map[string]any{}
	}
	decoded := map[string]any{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode response body %s: %v", raw, err)
	}
	return decoded
}

func registerTestUser(t *testing.T, app *fiber.App, email string, password string) string {
	t.Helper()

	body := performRequest(t, app, jsonRequest(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email":    email,
		"password": password,
	}), http.StatusCreated)

	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("register response is missing a token: %v", body)
	}
	return token
}
