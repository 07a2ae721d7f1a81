package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fdg312/health-diary/internal/auth"
	"github.com/fdg312/health-diary/internal/config"
)

var testNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.Local)

func testConfig() *config.Config {
	return &config.Config{
		Port:                8080,
		StorageMode:         config.StorageModeMemory,
		Blob:                config.BlobConfig{Mode: config.BlobModeLocal},
		AuthMode:            "none",
		JWTSecret:           "test-secret",
		JWTIssuer:           "health-diary",
		JWTTTLMinutes:       60,
		ReportsMaxRangeDays: 90,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	ctx := context.Background()
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	svcs, err := NewServices(ctx, cfg, store)
	if err != nil {
		t.Fatalf("new services: %v", err)
	}
	svcs.WithClock(func() time.Time { return testNow })
	srv := NewWithServices(cfg, svcs)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func call(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, testConfig())

	w := call(t, srv.mux, http.MethodGet, "/healthz", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp healthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	want := healthResponse{Status: "ok", Storage: "memory", Blob: "local"}
	if resp != want {
		t.Errorf("expected %+v, got %+v", want, resp)
	}
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, testConfig())

	w := call(t, srv.mux, http.MethodPost, "/healthz", "", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestOpenStoreSQLiteInMemory(t *testing.T) {
	cfg := testConfig()
	cfg.StorageMode = config.StorageModeSQLite
	cfg.SQLitePath = ":memory:"
	cfg.RunMigrationsOnStartup = true

	store, err := OpenStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()
	if got := storageName(store); got != "sqlite" {
		t.Errorf("expected sqlite backend, got %q", got)
	}
}

func TestOpenStoreUnknownMode(t *testing.T) {
	cfg := testConfig()
	cfg.StorageMode = "redis"
	if _, err := OpenStore(context.Background(), cfg); err == nil {
		t.Error("expected error for unknown storage mode")
	}
}

func TestRequireAuthFlow(t *testing.T) {
	cfg := testConfig()
	cfg.AuthMode = "dev"
	cfg.AuthRequired = true
	h := newTestServer(t, cfg).Handler()

	if w := call(t, h, http.MethodGet, "/v1/diary", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	if w := call(t, h, http.MethodGet, "/healthz", "", ""); w.Code != http.StatusOK {
		t.Fatalf("expected public healthz, got %d", w.Code)
	}

	w := call(t, h, http.MethodPost, "/v1/auth/dev", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("dev sign-in: expected 200, got %d. Body: %s", w.Code, w.Body.String())
	}
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	json.NewDecoder(w.Body).Decode(&tok)
	if tok.AccessToken == "" {
		t.Fatal("expected access token")
	}

	if w := call(t, h, http.MethodGet, "/v1/diary", "", tok.AccessToken); w.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", w.Code)
	}

	w = call(t, h, http.MethodPost, "/v1/reports", `{"from":"2024-03-14","to":"2024-03-15","format":"csv"}`, tok.AccessToken)
	if w.Code != http.StatusCreated {
		t.Fatalf("create report: expected 201, got %d. Body: %s", w.Code, w.Body.String())
	}
	var report struct {
		CreatedBy string `json:"created_by"`
	}
	json.NewDecoder(w.Body).Decode(&report)
	if report.CreatedBy != auth.DevSubject {
		t.Errorf("expected report created by %q, got %q", auth.DevSubject, report.CreatedBy)
	}
}

func TestDiaryFlow(t *testing.T) {
	h := newTestServer(t, testConfig()).Handler()

	w := call(t, h, http.MethodPost, "/v1/dashboard/water", `{"amount":16,"unit":"oz"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("add water: expected 200, got %d. Body: %s", w.Code, w.Body.String())
	}
	var dash struct {
		WaterOz   float64 `json:"water_oz"`
		WaterCups int     `json:"water_cups"`
	}
	json.NewDecoder(w.Body).Decode(&dash)
	if dash.WaterOz != 16 || dash.WaterCups != 2 {
		t.Errorf("expected 16 oz / 2 cups, got %+v", dash)
	}

	w = call(t, h, http.MethodGet, "/v1/diary?date=2024-03-15", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("diary: expected 200, got %d", w.Code)
	}
	var day struct {
		Date    string  `json:"date"`
		WaterOz float64 `json:"water_oz"`
	}
	json.NewDecoder(w.Body).Decode(&day)
	if day.Date != "2024-03-15" || day.WaterOz != 16 {
		t.Errorf("unexpected diary day %+v", day)
	}

	w = call(t, h, http.MethodPost, "/v1/reports", `{"from":"2024-03-14","to":"2024-03-15","format":"csv"}`, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create report: expected 201, got %d. Body: %s", w.Code, w.Body.String())
	}
	var report struct {
		ID          string `json:"id"`
		DownloadURL string `json:"download_url"`
	}
	json.NewDecoder(w.Body).Decode(&report)
	if !strings.HasSuffix(report.DownloadURL, "/v1/reports/"+report.ID+"/download") {
		t.Errorf("unexpected download url %q", report.DownloadURL)
	}

	w = call(t, h, http.MethodGet, "/v1/reports/"+report.ID+"/download", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("2024-03-15,0,0,0,0,16,")) {
		t.Errorf("expected today's water in csv, got:\n%s", w.Body.String())
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	h := newTestServer(t, testConfig()).Handler()
	if w := call(t, h, http.MethodGet, "/v1/profiles", "", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	cfg := testConfig()
	cfg.GoalSyncIntervalMinutes = 15
	cfg.DashboardRefreshSeconds = 60
	srv := newTestServer(t, cfg)

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("expected Start to return nil after shutdown, got %v", err)
	}
	if srv.scheduler == nil {
		t.Fatal("expected scheduler to be started")
	}
	if got := len(srv.scheduler.JobNames()); got != 2 {
		t.Errorf("expected 2 scheduled jobs, got %d", got)
	}
}
