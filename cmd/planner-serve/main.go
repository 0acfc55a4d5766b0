// Command planner-serve exposes the engine over a thin, unauthenticated
// local HTTP API — a JSON wrapper over internal/api, kept intentionally
// small since transport/auth concerns are out of scope for this engine.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/dayplan/planner/internal/api"
	"github.com/dayplan/planner/internal/appconfig"
	"github.com/dayplan/planner/internal/entities"
	"github.com/dayplan/planner/internal/fileio"
	"github.com/dayplan/planner/internal/tasks"
	"github.com/dayplan/planner/internal/workspace"
	"github.com/dayplan/planner/pkg/logger"
)

var configFile = flag.String("config", "", "path to config.toml")

func main() {
	flag.Parse()

	cfg, err := appconfig.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewDefaultLogger("planner-serve", cfg.General.LogLevel)

	ws, err := resolveWorkspace()
	if err != nil {
		log.Error("resolving workspace failed", "error", err)
		os.Exit(1)
	}
	eng := api.New(ws, log)

	s := newServer(eng, ws, log)
	srv := &http.Server{Addr: cfg.Serve.Bind, Handler: s.router}

	go func() {
		log.Info("planner-serve listening", "addr", cfg.Serve.Bind)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server stopped with error", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", "error", err)
	}
	log.Info("planner-serve stopped")
}

// resolveWorkspace loads the workspace root first under UTC (profile.yaml's
// own path does not depend on timezone), reads its configured timezone, and
// rebuilds the workspace in that zone.
func resolveWorkspace() (workspace.Workspace, error) {
	probe, err := workspace.New("")
	if err != nil {
		return workspace.Workspace{}, err
	}
	if err := probe.EnsureDirs(); err != nil {
		return workspace.Workspace{}, fmt.Errorf("preparing workspace: %w", err)
	}
	profile := entities.DefaultProfile()
	if err := fileio.ReadYAML(probe.ProfilePath(), &profile); err != nil {
		return workspace.Workspace{}, err
	}
	return workspace.New(profile.Timezone)
}

type server struct {
	eng    *api.Engine
	ws     workspace.Workspace
	log    logger.Logger
	router *mux.Router
}

func newServer(eng *api.Engine, ws workspace.Workspace, log logger.Logger) *server {
	s := &server{eng: eng, ws: ws, log: log, router: mux.NewRouter()}
	s.setupRoutes()
	return s
}

func (s *server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	s.router.HandleFunc("/profile", s.handleGetProfile).Methods("GET")
	s.router.HandleFunc("/profile", s.handleUpdateProfile).Methods("PUT")

	s.router.HandleFunc("/tasks", s.handleListTasks).Methods("GET")
	s.router.HandleFunc("/tasks", s.handleCreateTask).Methods("POST")
	s.router.HandleFunc("/tasks/{id}", s.handleUpdateTask).Methods("PATCH")
	s.router.HandleFunc("/tasks/{id}", s.handleDeleteTask).Methods("DELETE")

	s.router.HandleFunc("/plan", s.handleGeneratePlan).Methods("POST")
	s.router.HandleFunc("/plan", s.handleSavePlan).Methods("PUT")

	s.router.HandleFunc("/checkin", s.handleGetCheckin).Methods("GET")
	s.router.HandleFunc("/checkin", s.handleSaveCheckin).Methods("PUT")
	s.router.HandleFunc("/finalize", s.handleFinalize).Methods("POST")

	s.router.HandleFunc("/analytics", s.handleGetAnalytics).Methods("GET")
	s.router.HandleFunc("/analytics/refresh", s.handleRefreshAnalytics).Methods("POST")
	s.router.HandleFunc("/reflections", s.handleGetReflections).Methods("GET")

	s.router.HandleFunc("/focus", s.handleFocusCurrent).Methods("GET")
	s.router.HandleFunc("/focus/start", s.handleFocusStart).Methods("POST")
	s.router.HandleFunc("/focus/stop", s.handleFocusStop).Methods("POST")

	s.router.HandleFunc("/state", s.handleGetState).Methods("GET")
	s.router.HandleFunc("/agent-context", s.handleGetAgentContext).Methods("GET")
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("failed to encode response", "error", err)
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.eng.GetProfile()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var p entities.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.eng.UpdateProfile(p); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	list, err := s.eng.ListTasks(s.ws.Now())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var t entities.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	created, err := s.eng.CreateTask(t)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var patch tasks.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	updated, err := s.eng.UpdateTask(id, patch)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	archive := r.URL.Query().Get("archive") != "false"
	if err := s.eng.DeleteTask(id, archive); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	date := s.ws.Now()
	if q := r.URL.Query().Get("date"); q != "" {
		if d, err := parseDate(q, s.ws); err == nil {
			date = d
		}
	}
	sched, err := s.eng.GeneratePlan(r.Context(), date)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sched)
}

func (s *server) handleSavePlan(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.eng.SavePlan(body.Text); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *server) handleGetCheckin(w http.ResponseWriter, r *http.Request) {
	draft, err := s.eng.GetCheckinDraft(s.ws.Now())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, draft)
}

func (s *server) handleSaveCheckin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Day        string                          `json:"day"`
		Mode       entities.CheckinMode            `json:"mode"`
		Items      map[string]entities.CheckinItem `json:"items"`
		Reflection string                          `json:"reflection"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	draft, err := s.eng.SaveCheckinDraft(body.Day, body.Mode, body.Items, body.Reflection, s.ws.Now())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, draft)
}

func (s *server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	result, err := s.eng.FinalizeDay(r.Context(), s.ws.Now())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *server) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	summary, err := s.eng.GetAnalytics()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *server) handleRefreshAnalytics(w http.ResponseWriter, r *http.Request) {
	summary, err := s.eng.RefreshAnalytics()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *server) handleGetReflections(w http.ResponseWriter, r *http.Request) {
	n := 7
	if q := r.URL.Query().Get("n"); q != "" {
		fmt.Sscanf(q, "%d", &n)
	}
	records, err := s.eng.GetRecentReflections(n)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *server) handleFocusCurrent(w http.ResponseWriter, r *http.Request) {
	current, err := s.eng.FocusCurrent()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, current)
}

func (s *server) handleFocusStart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TaskID  string `json:"taskId"`
		Label   string `json:"label"`
		Minutes int    `json:"minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	session, err := s.eng.FocusStart(r.Context(), body.TaskID, body.Label, body.Minutes, s.ws.Now())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, session)
}

func (s *server) handleFocusStop(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Completed bool   `json:"completed"`
		Notes     string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	session, err := s.eng.FocusStop(r.Context(), body.Completed, body.Notes, s.ws.Now())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, session)
}

func (s *server) handleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := s.eng.GetState()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *server) handleGetAgentContext(w http.ResponseWriter, r *http.Request) {
	ctx, err := s.eng.GetAgentContext()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ctx)
}

func parseDate(s string, ws workspace.Workspace) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, ws.Location)
}
