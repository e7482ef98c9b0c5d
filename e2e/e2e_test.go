//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"parish-app-go/internal/config"
	"parish-app-go/internal/db"
	accessdomain "parish-app-go/internal/domain/access"
	analyticsdomain "parish-app-go/internal/domain/analytics"
	couplesdomain "parish-app-go/internal/domain/couples"
	financedomain "parish-app-go/internal/domain/finance"
	membersdomain "parish-app-go/internal/domain/members"
	programsdomain "parish-app-go/internal/domain/programs"
	"parish-app-go/internal/domain/schedule"
	staffdomain "parish-app-go/internal/domain/staff"
	"parish-app-go/internal/repository/inmemory"
	accessrepo "parish-app-go/internal/repository/postgres/access"
	analyticsrepo "parish-app-go/internal/repository/postgres/analytics"
	couplesrepo "parish-app-go/internal/repository/postgres/couples"
	financerepo "parish-app-go/internal/repository/postgres/finance"
	membersrepo "parish-app-go/internal/repository/postgres/members"
	programsrepo "parish-app-go/internal/repository/postgres/programs"
	staffrepo "parish-app-go/internal/repository/postgres/staff"
	"parish-app-go/internal/transport/httpserver"
	"parish-app-go/internal/transport/httpserver/handler"
	accesshandler "parish-app-go/internal/transport/httpserver/handler/access"
	analyticshandler "parish-app-go/internal/transport/httpserver/handler/analytics"
	commonhandler "parish-app-go/internal/transport/httpserver/handler/common"
	coupleshandler "parish-app-go/internal/transport/httpserver/handler/couples"
	financehandler "parish-app-go/internal/transport/httpserver/handler/finance"
	membershandler "parish-app-go/internal/transport/httpserver/handler/members"
	programshandler "parish-app-go/internal/transport/httpserver/handler/programs"
	"parish-app-go/pkg/logger"

	"gorm.io/gorm"
)

const staffToken = "11111111-1111-1111-1111-111111111111"

type testEnv struct {
	server     *httptest.Server
	authServer *httptest.Server
	db         *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	authServer := newAuthServer(t)
	log := logger.Nop()

	cfg := config.Config{
		Location: time.UTC,
		DB:       config.DBConfig{DSN: dsn},
		Auth: config.AuthConfig{
			URL:     authServer.URL,
			APIKey:  "test-key",
			Timeout: 2 * time.Second,
		},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	if _, err := db.Migrate(dbConn, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	programsService := programsdomain.NewService(programsrepo.NewPostgres(dbConn), schedule.NewEngine(time.UTC), inmemory.NewInMemoryAgendaCache())
	membersService := membersdomain.NewService(membersrepo.NewPostgres(dbConn))
	couplesService := couplesdomain.NewService(couplesrepo.NewPostgres(dbConn), time.UTC)
	financeService := financedomain.NewService(financerepo.NewPostgres(dbConn))
	accessService := accessdomain.NewService(accessrepo.NewPostgres(dbConn))
	staffService := staffdomain.NewService(staffrepo.NewPostgres(dbConn))
	analyticsService := analyticsdomain.NewService(analyticsrepo.NewPostgres(dbConn), programsService, time.UTC)

	handlers := &handler.Handlers{
		Common:    commonhandler.New(staffService, log),
		Members:   membershandler.New(membersService, financeService, log),
		Couples:   coupleshandler.New(couplesService, log),
		Programs:  programshandler.New(programsService, 7, log),
		Finance:   financehandler.New(financeService, log),
		Access:    accesshandler.New(accessService, log),
		Analytics: analyticshandler.New(analyticsService, log),
	}

	router := httpserver.NewRouter(cfg, handlers, staffService, log)
	server := httptest.NewServer(router)

	return &testEnv{server: server, authServer: authServer, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	e.authServer.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		if token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    token,
			"email": "staff-" + token[:4] + "@example.org",
			"user_metadata": map[string]interface{}{
				"name": "Staff " + token[:4],
			},
		})
	}))
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE marriage_programs, couples, member_roles, member_groups, groups, financial_transactions, material_donations, church_programs, access_requests, staff_accounts, members CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, respBody
}

func decode(t *testing.T, body []byte, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(body, dst); err != nil {
		t.Fatalf("decode %s: %v", string(body), err)
	}
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type idResponse struct {
	ID string `json:"id"`
}

func createMember(t *testing.T, env *testEnv, client *http.Client, first, email string) string {
	t.Helper()
	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/members", staffToken, map[string]interface{}{
		"last_name":        "Ndayishimiye",
		"first_name":       first,
		"birth_date":       "1990-04-12",
		"address":          "Rohero, Bujumbura",
		"phone":            "+25779000000",
		"email":            email,
		"baptismal_status": "baptized_here",
		"membership_date":  "2020-01-05",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create member: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var member idResponse
	decode(t, body, &member)
	return member.ID
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.StatusCode, string(body))
	}
	var errResp errorEnvelope
	decode(t, body, &errResp)
	if errResp.Error.Code != "invalid_token" {
		t.Fatalf("expected invalid_token, got %q", errResp.Error.Code)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", staffToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var me struct {
		ID       string `json:"id"`
		IsActive bool   `json:"is_active"`
	}
	decode(t, body, &me)
	if me.ID != staffToken || !me.IsActive {
		t.Fatalf("unexpected me: %+v", me)
	}
}

func TestE2ECoupleDeletionGuard(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	spouseA := createMember(t, env, client, "Jean", "jean@example.org")
	spouseB := createMember(t, env, client, "Aline", "aline@example.org")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/couples", staffToken, map[string]interface{}{
		"spouse_a_id": spouseA,
		"spouse_b_id": spouseB,
		"status":      "engaged",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var couple idResponse
	decode(t, body, &couple)

	starts := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/couples/"+couple.ID+"/marriage-programs", staffToken, map[string]interface{}{
		"title":     "Pre-marital counselling",
		"starts_at": starts,
		"ends_at":   starts.Add(2 * time.Hour),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var program struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, body, &program)
	if program.Status != "planned" {
		t.Fatalf("expected planned, got %q", program.Status)
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/couples/"+couple.ID, staffToken, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.StatusCode, string(body))
	}
	var errResp errorEnvelope
	decode(t, body, &errResp)
	if errResp.Error.Code != "active_programs_exist" {
		t.Fatalf("expected active_programs_exist, got %q", errResp.Error.Code)
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/members/"+spouseA, staffToken, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected member delete to be blocked, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPut, env.server.URL+"/api/marriage-programs/"+program.ID, staffToken, map[string]interface{}{
		"title":     "Pre-marital counselling",
		"starts_at": starts,
		"ends_at":   starts.Add(2 * time.Hour),
		"status":    "completed",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/couples/"+couple.ID, staffToken, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/marriage-programs/"+program.ID, staffToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected cascaded program to be gone, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2EWeeklyProgramNextOccurrence(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/programs", staffToken, map[string]interface{}{
		"title":      "Sunday worship",
		"start_date": "2024-01-07",
		"start_time": "09:00",
		"location":   "Main hall",
		"category":   "worship",
		"recurrence": "weekly",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var program struct {
		ID             string `json:"id"`
		NextOccurrence *struct {
			Date string `json:"date"`
		} `json:"next_occurrence"`
	}
	decode(t, body, &program)
	if program.NextOccurrence == nil {
		t.Fatalf("expected a next occurrence")
	}
	next, err := time.Parse("2006-01-02", program.NextOccurrence.Date)
	if err != nil {
		t.Fatalf("parse next occurrence: %v", err)
	}
	if next.Weekday() != time.Sunday {
		t.Fatalf("expected a Sunday, got %s", next.Weekday())
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if next.Before(today) || next.After(today.AddDate(0, 0, 7)) {
		t.Fatalf("expected next occurrence within a week, got %s", program.NextOccurrence.Date)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/programs", staffToken, map[string]interface{}{
		"title":      "Monthly prayer",
		"location":   "Chapel",
		"category":   "prayer_meeting",
		"recurrence": "monthly",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without a start date, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2EAccessRequestDuplicate(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	payload := map[string]string{
		"full_name":    "Grace Uwimana",
		"email":        "grace@example.org",
		"desired_role": "treasurer",
	}

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/access-requests", "", payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var request idResponse
	decode(t, body, &request)

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/access-requests", "", payload)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/access-requests/"+request.ID+"/process", staffToken, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/access-requests", "", payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 after processing, got %d: %s", resp.StatusCode, string(body))
	}
}
