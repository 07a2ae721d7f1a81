package goals

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGoalHandlers(t *testing.T) {
	handler := NewHandlers(setupTestService())

	var created GoalDTO
	t.Run("Create", func(t *testing.T) {
		body := []byte(`{"type":"WATER","title":"Drink more","target_value":64,"deadline":"2024-03-20"}`)
		req := httptest.NewRequest("POST", "/v1/goals", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleCreate(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d. Body: %s", w.Code, w.Body.String())
		}
		json.NewDecoder(w.Body).Decode(&created)
		if created.Unit != "oz" || created.Presentation.Label != "Water Intake" {
			t.Errorf("unexpected goal %+v", created)
		}
		if created.Deadline == nil || *created.Deadline != "2024-03-20" {
			t.Errorf("expected deadline 2024-03-20, got %v", created.Deadline)
		}
	})

	t.Run("InvalidType", func(t *testing.T) {
		body := []byte(`{"type":"SLEEP","title":"Sleep","target_value":8}`)
		req := httptest.NewRequest("POST", "/v1/goals", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleCreate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("Progress", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/goals/"+created.ID.String()+"/progress", bytes.NewReader([]byte(`{"current_value":64}`)))
		req.SetPathValue("id", created.ID.String())
		w := httptest.NewRecorder()

		handler.HandleProgress(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
		}
		var got GoalDTO
		json.NewDecoder(w.Body).Decode(&got)
		if got.Progress != 100 || !got.IsCompleted || got.CompletedDate == nil || *got.CompletedDate != "2024-03-15" {
			t.Errorf("expected completed goal, got %+v", got)
		}
	})

	t.Run("Stats", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/goals/stats", nil)
		w := httptest.NewRecorder()

		handler.HandleStats(w, req)

		var st Stats
		json.NewDecoder(w.Body).Decode(&st)
		if st.Total != 1 || st.Completed != 1 {
			t.Errorf("unexpected stats %+v", st)
		}
	})

	t.Run("ListByStatus", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/goals?status=completed", nil)
		w := httptest.NewRecorder()

		handler.HandleList(w, req)

		var resp GoalsResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if len(resp.Goals) != 1 {
			t.Errorf("expected 1 completed goal, got %d", len(resp.Goals))
		}

		req = httptest.NewRequest("GET", "/v1/goals?status=paused", nil)
		w = httptest.NewRecorder()
		handler.HandleList(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("MissingGoal", func(t *testing.T) {
		id := "00000000-0000-0000-0000-000000000001"
		req := httptest.NewRequest("POST", "/v1/goals/"+id+"/complete", nil)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()

		handler.HandleComplete(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", w.Code)
		}
	})

	t.Run("Types", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/goals/types", nil)
		w := httptest.NewRecorder()

		handler.HandleTypes(w, req)

		var resp GoalTypesResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if len(resp.Types) != 6 {
			t.Errorf("expected 6 goal types, got %d", len(resp.Types))
		}
	})
}
