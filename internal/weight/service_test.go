package weight

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/storage/memory"
)

var testNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.Local)

func setupTestService() *Service {
	return NewService(memory.New().Weights()).WithClock(func() time.Time { return testNow })
}

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func TestLatestPrefersMostRecentDate(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService()

	svc.AddWeight(ctx, &storage.WeightEntry{Weight: 74.5, Date: testNow})
	svc.AddWeight(ctx, &storage.WeightEntry{Weight: 75.0, Date: daysAgo(1)})

	latest, err := svc.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.Weight != 74.5 {
		t.Errorf("expected latest 74.5, got %+v", latest)
	}
}

func TestStatistics(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService()

	empty, _ := svc.Statistics(ctx)
	if empty != (Stats{}) {
		t.Errorf("expected zero stats, got %+v", empty)
	}

	for i, w := range []float64{80, 78, 76} {
		svc.AddWeight(ctx, &storage.WeightEntry{Weight: w, Date: daysAgo(10 - i)})
	}
	st, err := svc.Statistics(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Current != 76 || st.Highest != 80 || st.Lowest != 76 || st.Average != 78 || st.Count != 3 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestMonthlyProgress(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService()

	svc.AddWeight(ctx, &storage.WeightEntry{Weight: 74, Date: testNow})
	progress, _ := svc.MonthlyProgress(ctx)
	if progress != 0 {
		t.Errorf("expected 0 without a prior entry, got %v", progress)
	}

	svc.AddWeight(ctx, &storage.WeightEntry{Weight: 76.5, Date: testNow.AddDate(0, -1, 0)})
	progress, _ = svc.MonthlyProgress(ctx)
	if math.Abs(progress-(-2.5)) > 1e-9 {
		t.Errorf("expected -2.5, got %v", progress)
	}
}

func TestTrendAndWeeklyAverage(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService()

	svc.AddWeight(ctx, &storage.WeightEntry{Weight: 70, Date: daysAgo(2)})
	svc.AddWeight(ctx, &storage.WeightEntry{Weight: 72, Date: daysAgo(5)})
	svc.AddWeight(ctx, &storage.WeightEntry{Weight: 90, Date: daysAgo(40)})

	points, err := svc.Trend(ctx, 30)
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Weight != 72 || points[1].Weight != 70 {
		t.Errorf("expected oldest first, got %+v", points)
	}

	avg, _ := svc.WeeklyAverage(ctx)
	if avg != 71 {
		t.Errorf("expected weekly average 71, got %v", avg)
	}
}

func TestWeightHandlers(t *testing.T) {
	handler := NewHandlers(setupTestService())

	body, _ := json.Marshal(CreateWeightRequest{Weight: 165, Unit: "lbs"})
	req := httptest.NewRequest("POST", "/v1/weights", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}
	var created WeightDTO
	json.NewDecoder(w.Body).Decode(&created)
	if math.Abs(created.WeightKg-74.84) > 0.01 {
		t.Errorf("expected ~74.84 kg, got %v", created.WeightKg)
	}

	body, _ = json.Marshal(CreateWeightRequest{Weight: 0})
	req = httptest.NewRequest("POST", "/v1/weights", bytes.NewReader(body))
	w = httptest.NewRecorder()
	handler.HandleCreate(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/v1/weights/latest", nil)
	w = httptest.NewRecorder()
	handler.HandleLatest(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/v1/weights/trend?days=0", nil)
	w = httptest.NewRecorder()
	handler.HandleTrend(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
