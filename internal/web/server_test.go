package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dayplan-cli/internal/agenda"
	"dayplan-cli/internal/model"
	"dayplan-cli/internal/store"
)

const day = "2026-03-02"

func ptr(s string) *string { return &s }

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	s := store.Store{Dir: t.TempDir()}
	db := &store.DB{
		Tasks: []model.Task{
			{ID: "task-open", Title: "Write notes", DurationMinutes: 30, Priority: 4, When: &model.DateTime{Date: day}},
			{ID: "task-sched", Title: "Review", DurationMinutes: 30, When: &model.DateTime{Date: day, Time: ptr("10:30")}},
		},
		Events: []model.Event{
			{ID: "event-standup", Title: "Standup", Date: day, StartMinutes: 540, EndMinutes: 600},
		},
	}
	if err := s.Save(context.Background(), db); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return NewServer(ServerConfig{Dir: s.Dir}), s
}

func TestAgendaEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/agenda?date="+day, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Date  string        `json:"date"`
		Items []agenda.Item `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Date != day || len(resp.Items) != 2 {
		t.Fatalf("unexpected agenda: %+v", resp)
	}
}

func TestAgendaEndpointMissingDate(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/agenda", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPlanEndpointDryRun(t *testing.T) {
	srv, st := newTestServer(t)
	body := `{"date":"` + day + `","from":"08:00","to":"12:00"}`

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plan", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res agenda.PlanResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Candidates != 1 || len(res.Placements) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Placements[0].From != "08:00" {
		t.Fatalf("expected placement at 08:00, got %+v", res.Placements[0])
	}

	// Dry run: nothing persisted.
	db, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tk, _ := db.FindTask("task-open")
	if tk.Scheduled() {
		t.Fatalf("dry run persisted a placement: %+v", tk)
	}
}

func TestPlanEndpointApply(t *testing.T) {
	srv, st := newTestServer(t)
	body := `{"date":"` + day + `","from":"08:00","to":"12:00","apply":true}`

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plan", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	db, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tk, _ := db.FindTask("task-open")
	if !tk.Scheduled() || *tk.When.Time != "08:00" {
		t.Fatalf("placement not persisted: %+v", tk)
	}
}

func TestPlanEndpointValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	cases := []string{
		`{`,                                                   // malformed
		`{"from":"08:00","to":"12:00"}`,                       // missing date
		`{"date":"` + day + `","from":"8am","to":"12:00"}`,    // bad clock
		`{"date":"` + day + `","from":"08:00","to":"08:10"}`,  // below minimum window
		`{"date":"` + day + `","from":"08:00","to":"12:00","strategy":"nope"}`,
		`{"date":"` + day + `","from":"08:00","to":"12:00","clarity":"huge"}`,
	}
	for _, body := range cases {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plan", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestPlanEndpointReadOnly(t *testing.T) {
	_, st := newTestServer(t)
	srv := NewServer(ServerConfig{Dir: st.Dir, ReadOnly: true})

	body := `{"date":"` + day + `","from":"08:00","to":"12:00","apply":true}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plan", strings.NewReader(body)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatalf("expected CORS headers on API response")
	}
}
