package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/uday132/hackhub/api"
	dbfiles "github.com/uday132/hackhub/db"
	"github.com/uday132/hackhub/internal/config"
	"github.com/uday132/hackhub/internal/db"
	"github.com/uday132/hackhub/internal/models"
)

// newTestServer wires the full router against a throwaway sqlite file so the
// middleware chain, route table, and store are exercised together.
func newTestServer(t *testing.T) (*httptest.Server, *config.Config) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbPath := filepath.Join(t.TempDir(), "hackhub_test.db")
	database, err := db.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := db.Migrate(ctx, database, dbfiles.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:      "routes-test-secret",
		TokenDuration:  time.Hour,
		AllowedOrigins: []string{"*"},
	}
	handler := api.SetupRoutes(cfg, "test", "now", database, &fakeGenerator{months: sampleMonths()})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, cfg
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(res.Body)
	return res, buf.Bytes()
}

func signupUser(t *testing.T, base, name, email string) (string, *models.User) {
	t.Helper()
	res, body := doJSON(t, http.MethodPost, base+"/api/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": "pw123456",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("signup %s: status %d body=%s", email, res.StatusCode, string(body))
	}
	var ar struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	if err := json.Unmarshal(body, &ar); err != nil {
		t.Fatalf("unmarshal signup response: %v", err)
	}
	return ar.Token, ar.User
}

func adminToken(t *testing.T, cfg *config.Config, id int64) string {
	t.Helper()
	return signTestToken(t, cfg.JWTSecret, map[string]any{
		"user_id": id,
		"email":   "admin@example.com",
		"role":    "admin",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
}

func TestRouterAccessControl(t *testing.T) {
	srv, cfg := newTestServer(t)
	base := srv.URL

	userToken, user := signupUser(t, base, "Uma", "uma@example.com")
	admin := adminToken(t, cfg, user.ID)

	t.Run("PublicEventReadsNeedNoToken", func(t *testing.T) {
		res, body := doJSON(t, http.MethodGet, base+"/api/events", "", nil)
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", res.StatusCode, string(body))
		}
	})

	t.Run("HealthAndVersionOpen", func(t *testing.T) {
		res, _ := doJSON(t, http.MethodGet, base+"/health", "", nil)
		if res.StatusCode != http.StatusOK {
			t.Fatalf("health: %d", res.StatusCode)
		}
		res, _ = doJSON(t, http.MethodGet, base+"/version", "", nil)
		if res.StatusCode != http.StatusOK {
			t.Fatalf("version: %d", res.StatusCode)
		}
	})

	t.Run("ProtectedNeedsToken", func(t *testing.T) {
		res, _ := doJSON(t, http.MethodGet, base+"/api/registrations", "", nil)
		if res.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", res.StatusCode)
		}
	})

	t.Run("AdminEndpointsRejectUsers", func(t *testing.T) {
		for _, path := range []string{"/api/admin/users", "/api/admin/stats", "/api/events/mine"} {
			res, _ := doJSON(t, http.MethodGet, base+path, userToken, nil)
			if res.StatusCode != http.StatusForbidden {
				t.Fatalf("%s: expected 403 for user role, got %d", path, res.StatusCode)
			}
		}
		res, _ := doJSON(t, http.MethodPost, base+"/api/events", userToken, map[string]any{
			"title": "X", "location": "Y", "date": "2026-11-01",
		})
		if res.StatusCode != http.StatusForbidden {
			t.Fatalf("create event: expected 403 for user role, got %d", res.StatusCode)
		}
	})

	t.Run("AdminEndpointsAllowAdmins", func(t *testing.T) {
		res, body := doJSON(t, http.MethodGet, base+"/api/admin/stats", admin, nil)
		if res.StatusCode != http.StatusOK {
			t.Fatalf("stats: expected 200, got %d body=%s", res.StatusCode, string(body))
		}
		var stats models.AdminStats
		if err := json.Unmarshal(body, &stats); err != nil {
			t.Fatalf("unmarshal stats: %v", err)
		}
		if stats.RecentUsers == nil {
			t.Fatalf("recentUsers should be an empty list, not null")
		}
	})
}

func TestRouterEventAndRegistrationFlow(t *testing.T) {
	srv, cfg := newTestServer(t)
	base := srv.URL

	userToken, user := signupUser(t, base, "Vik", "vik@example.com")
	admin := adminToken(t, cfg, user.ID)

	// admin creates an event
	res, body := doJSON(t, http.MethodPost, base+"/api/events", admin, map[string]any{
		"title":      "HackNight",
		"location":   "Delhi",
		"date":       "2026-11-01",
		"tech_stack": []string{"Go"},
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create event: %d body=%s", res.StatusCode, string(body))
	}
	var event models.Event
	if err := json.Unmarshal(body, &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.CreatedBy != user.ID {
		t.Fatalf("createdBy should be token subject %d, got %d", user.ID, event.CreatedBy)
	}

	// the event shows up in /events/mine for its creator
	res, body = doJSON(t, http.MethodGet, base+"/api/events/mine", admin, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("mine: %d body=%s", res.StatusCode, string(body))
	}
	var mine []models.Event
	if err := json.Unmarshal(body, &mine); err != nil {
		t.Fatalf("unmarshal mine: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != event.ID {
		t.Fatalf("mine should contain the created event, got %+v", mine)
	}

	// user registers once
	res, body = doJSON(t, http.MethodPost, base+"/api/registrations", userToken, map[string]any{"eventId": event.ID})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("register: %d body=%s", res.StatusCode, string(body))
	}

	// second attempt is rejected
	res, body = doJSON(t, http.MethodPost, base+"/api/registrations", userToken, map[string]any{"eventId": event.ID})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400, got %d body=%s", res.StatusCode, string(body))
	}

	// user's registration list has exactly one entry with the event joined in
	res, body = doJSON(t, http.MethodGet, base+"/api/registrations", userToken, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list registrations: %d body=%s", res.StatusCode, string(body))
	}
	var regs []models.RegistrationDetail
	if err := json.Unmarshal(body, &regs); err != nil {
		t.Fatalf("unmarshal registrations: %v", err)
	}
	if len(regs) != 1 || regs[0].EventID != event.ID {
		t.Fatalf("expected single registration for event %d, got %+v", event.ID, regs)
	}
	if regs[0].Event == nil || regs[0].Event.Title != "HackNight" {
		t.Fatalf("event not joined into registration detail: %+v", regs[0])
	}

	// admin stats reflect the activity
	res, body = doJSON(t, http.MethodGet, base+"/api/admin/stats", admin, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("stats: %d body=%s", res.StatusCode, string(body))
	}
	var stats models.AdminStats
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatalf("unmarshal stats: %v", err)
	}
	if stats.TotalEvents != 1 || stats.TotalRegistrations != 1 || stats.TotalUsers != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestRouterPathfinderFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	base := srv.URL

	userToken, _ := signupUser(t, base, "Wei", "wei@example.com")

	res, body := doJSON(t, http.MethodPost, base+"/api/pathfinder/generate", userToken, map[string]any{
		"careerGoal": "Backend Engineer",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("generate: %d body=%s", res.StatusCode, string(body))
	}
	var rm models.Roadmap
	if err := json.Unmarshal(body, &rm); err != nil {
		t.Fatalf("unmarshal roadmap: %v", err)
	}
	if rm.ID == 0 || rm.Goal != "Backend Engineer" || len(rm.Months) == 0 {
		t.Fatalf("unexpected roadmap: %+v", rm)
	}

	res, body = doJSON(t, http.MethodGet, base+"/api/pathfinder", userToken, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list roadmaps: %d body=%s", res.StatusCode, string(body))
	}
	var roadmaps []models.Roadmap
	if err := json.Unmarshal(body, &roadmaps); err != nil {
		t.Fatalf("unmarshal roadmaps: %v", err)
	}
	if len(roadmaps) != 1 {
		t.Fatalf("expected 1 roadmap, got %d", len(roadmaps))
	}
}
