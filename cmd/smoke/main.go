package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase    string
	token      string
	client     = &http.Client{Timeout: 30 * time.Second}
	testDate   string
	createdIDs = make(map[string]string) // created resources for cleanup
)

func main() {
	fmt.Println("=== Health Diary E2E Smoke Test ===")
	fmt.Println()

	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	token = getEnv("SMOKE_TOKEN", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Println()

	testDate = time.Now().Format("2006-01-02")

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Dev Token", testDevToken},
		{"Log Food", testLogFood},
		{"Add Water", testAddWater},
		{"Get Diary Day", testGetDiaryDay},
		{"Get Dashboard", testGetDashboard},
		{"Create Report (PDF)", testCreateReport},
		{"List Reports", testListReports},
		{"Download Report", testDownloadReport},
		{"Delete Report", testDeleteReport},
		{"Delete Food", testDeleteFood},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	var result struct {
		Status  string `json:"status"`
		Storage string `json:"storage"`
		Blob    string `json:"blob"`
	}
	if err := doJSON("GET", "/healthz", nil, http.StatusOK, &result); err != nil {
		return err
	}
	fmt.Printf("(storage=%s blob=%s) ", result.Storage, result.Blob)
	return nil
}

// testDevToken fetches a dev token when none was given. A 404 means dev
// auth is off, which is fine when the server does not require auth.
func testDevToken() error {
	if token != "" {
		return nil
	}

	resp, err := do("POST", "/v1/auth/dev", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var result struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}
		token = result.AccessToken
		return nil
	case http.StatusNotFound:
		return nil
	default:
		return statusError(resp)
	}
}

func testLogFood() error {
	payload := map[string]interface{}{
		"name":         "Smoke Test Oatmeal",
		"date":         testDate,
		"meal_type":    "breakfast",
		"serving_size": 1,
		"serving_unit": "bowl",
		"calories":     300,
		"protein":      10,
		"carbs":        54,
		"fat":          5,
	}
	var result struct {
		ID string `json:"id"`
	}
	if err := doJSON("POST", "/v1/foods", payload, http.StatusCreated, &result); err != nil {
		return err
	}
	if result.ID == "" {
		return fmt.Errorf("food entry without id")
	}
	createdIDs["food"] = result.ID
	return nil
}

func testAddWater() error {
	payload := map[string]interface{}{"amount": 8, "unit": "oz"}
	return doJSON("POST", "/v1/dashboard/water", payload, http.StatusOK, nil)
}

func testGetDiaryDay() error {
	var result struct {
		Date    string  `json:"date"`
		WaterOz float64 `json:"water_oz"`
		Totals  struct {
			Calories float64 `json:"calories"`
		} `json:"totals"`
	}
	if err := doJSON("GET", "/v1/diary?date="+testDate, nil, http.StatusOK, &result); err != nil {
		return err
	}
	if result.Totals.Calories < 300 {
		return fmt.Errorf("expected at least 300 kcal logged, got %v", result.Totals.Calories)
	}
	if result.WaterOz < 8 {
		return fmt.Errorf("expected at least 8 oz water, got %v", result.WaterOz)
	}
	return nil
}

func testGetDashboard() error {
	var result struct {
		CaloriesConsumed float64 `json:"calories_consumed"`
		Error            string  `json:"error"`
	}
	if err := doJSON("GET", "/v1/dashboard", nil, http.StatusOK, &result); err != nil {
		return err
	}
	if result.Error != "" {
		return fmt.Errorf("dashboard error: %s", result.Error)
	}
	return nil
}

func testCreateReport() error {
	payload := map[string]interface{}{
		"format": "pdf",
		"from":   time.Now().AddDate(0, 0, -7).Format("2006-01-02"),
		"to":     testDate,
	}
	var result struct {
		ID        string `json:"id"`
		SizeBytes int64  `json:"size_bytes"`
	}
	if err := doJSON("POST", "/v1/reports", payload, http.StatusCreated, &result); err != nil {
		return err
	}
	if result.SizeBytes < 10 {
		return fmt.Errorf("report size is %d bytes (too small)", result.SizeBytes)
	}
	createdIDs["report"] = result.ID
	return nil
}

func testListReports() error {
	var result struct {
		Reports []struct {
			ID string `json:"id"`
		} `json:"reports"`
	}
	if err := doJSON("GET", "/v1/reports", nil, http.StatusOK, &result); err != nil {
		return err
	}
	if len(result.Reports) == 0 {
		return fmt.Errorf("no reports found")
	}
	return nil
}

func testDownloadReport() error {
	reportID := createdIDs["report"]
	if reportID == "" {
		return fmt.Errorf("no report ID to download")
	}

	// redirects are checked by hand: local mode serves 200, S3 mode 302
	originalCheckRedirect := client.CheckRedirect
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	defer func() { client.CheckRedirect = originalCheckRedirect }()

	resp, err := do("GET", "/v1/reports/"+reportID+"/download", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return checkReportBody(resp.Body)
	case http.StatusFound:
		location := resp.Header.Get("Location")
		if location == "" {
			return fmt.Errorf("redirect without Location header")
		}
		getResp, err := client.Get(location)
		if err != nil {
			return fmt.Errorf("failed to follow redirect: %w", err)
		}
		defer getResp.Body.Close()
		if getResp.StatusCode != http.StatusOK {
			return fmt.Errorf("redirect failed: %w", statusError(getResp))
		}
		return checkReportBody(getResp.Body)
	default:
		return statusError(resp)
	}
}

func checkReportBody(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return fmt.Errorf("body is not a PDF (%d bytes)", len(data))
	}
	return nil
}

func testDeleteReport() error {
	reportID := createdIDs["report"]
	if reportID == "" {
		return fmt.Errorf("no report ID to delete")
	}
	return doJSON("DELETE", "/v1/reports/"+reportID, nil, http.StatusNoContent, nil)
}

func testDeleteFood() error {
	foodID := createdIDs["food"]
	if foodID == "" {
		return fmt.Errorf("no food ID to delete")
	}
	return doJSON("DELETE", "/v1/foods/"+foodID, nil, http.StatusNoContent, nil)
}

// Helper functions

func do(method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	addAuth(req)
	return client.Do(req)
}

// doJSON sends payload, checks the status and decodes into out when non-nil.
func doJSON(method, path string, payload any, wantStatus int, out any) error {
	resp, err := do(method, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
}

func addAuth(req *http.Request) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
