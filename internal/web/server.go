// Package web serves the day agenda and the planner over HTTP.
//
// The JSON API is the interesting part; the HTML index is a minimal
// server-rendered page for quickly eyeballing a day. CORS is enabled on the
// API so a browser frontend on another origin can drive it.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"

	"dayplan-cli/internal/agenda"
	"dayplan-cli/internal/interval"
	"dayplan-cli/internal/model"
	"dayplan-cli/internal/plan"
	"dayplan-cli/internal/store"

	"github.com/rs/cors"
)

type ServerConfig struct {
	Addr      string
	Dir       string
	Workspace string
	ReadOnly  bool
}

type Server struct {
	mu  sync.RWMutex
	cfg ServerConfig

	// Each server owns its strategy registry; two servers (or a server and a
	// CLI session) never share selection state.
	plans *plan.Registry
}

func NewServer(cfg ServerConfig) *Server {
	return &Server{cfg: cfg, plans: plan.NewRegistry()}
}

func (s *Server) cfgSnapshot() ServerConfig {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()
	return cfg
}

func (s *Server) loadDB(ctx context.Context) (*store.DB, store.Store, error) {
	st := store.Store{Dir: s.cfgSnapshot().Dir}
	db, err := st.Load(ctx)
	return db, st, err
}

// Handler returns the routed handler with CORS applied to the JSON API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleIndex)
	mux.HandleFunc("GET /api/agenda", s.handleAgenda)
	mux.HandleFunc("GET /api/tasks", s.handleTasks)
	mux.HandleFunc("GET /api/strategies", s.handleStrategies)
	mux.HandleFunc("POST /api/plan", s.handlePlan)

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func dateParam(r *http.Request) (string, error) {
	d := strings.TrimSpace(r.URL.Query().Get("date"))
	if d == "" {
		return "", errors.New("missing date (expected YYYY-MM-DD)")
	}
	return d, nil
}

type agendaResponse struct {
	Date  string        `json:"date"`
	Items []agenda.Item `json:"items"`
}

func (s *Server) handleAgenda(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}
	db, _, err := s.loadDB(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err)
		return
	}
	items := agenda.BuildDay(db, date)
	if items == nil {
		items = []agenda.Item{}
	}
	writeJSON(w, http.StatusOK, agendaResponse{Date: date, Items: items})
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	db, _, err := s.loadDB(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err)
		return
	}
	tasks := db.Tasks
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"active":     s.plans.ActiveName(),
		"strategies": s.plans.Names(),
	})
}

type planRequest struct {
	Date     string `json:"date"`
	From     string `json:"from"` // HH:MM
	To       string `json:"to"`   // HH:MM
	Strategy string `json:"strategy,omitempty"`
	Clarity  string `json:"clarity,omitempty"`
	Apply    bool   `json:"apply,omitempty"`
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(req.Date) == "" {
		writeJSONError(w, http.StatusBadRequest, errors.New("missing date"))
		return
	}
	start, err := interval.ParseClock(req.From)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}
	end, err := interval.ParseClock(req.To)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}
	if end-start < interval.SlotMinutes {
		writeJSONError(w, http.StatusBadRequest, fmt.Errorf("window must be at least %d minutes", interval.SlotMinutes))
		return
	}
	var cl model.Clarity
	if strings.TrimSpace(req.Clarity) != "" {
		cl = model.Clarity(strings.TrimSpace(req.Clarity))
		if !model.ValidClarity(cl) {
			writeJSONError(w, http.StatusBadRequest, errors.New("invalid clarity (expected low-effort|normal|deep-focus)"))
			return
		}
	}
	if req.Apply && s.cfgSnapshot().ReadOnly {
		writeJSONError(w, http.StatusForbidden, errors.New("server is read-only"))
		return
	}
	if strings.TrimSpace(req.Strategy) != "" {
		if err := s.plans.Use(strings.TrimSpace(req.Strategy)); err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}
	}

	db, st, err := s.loadDB(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err)
		return
	}
	res, err := agenda.RunPlan(r.Context(), st, db, s.plans, req.Date, interval.New(start, end), cl, req.Apply)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>dayplan{{if .Workspace}} — {{.Workspace}}{{end}}</title></head>
<body>
<h1>dayplan{{if .Workspace}} — {{.Workspace}}{{end}}</h1>
<p>JSON API:</p>
<ul>
<li><code>GET /api/agenda?date=YYYY-MM-DD</code></li>
<li><code>GET /api/tasks</code></li>
<li><code>GET /api/strategies</code></li>
<li><code>POST /api/plan</code> {"date","from","to","apply"}</li>
</ul>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexTmpl.Execute(w, map[string]string{"Workspace": s.cfgSnapshot().Workspace})
}
