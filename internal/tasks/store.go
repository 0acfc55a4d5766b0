// Package tasks owns tasks.yaml: loading, validating, CRUD, label matching
// for checkin items, progress accounting, the weekly-budget reset, and the
// urgency_score projection the scheduler and agent context both consume.
package tasks

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dayplan/planner/internal/apierr"
	"github.com/dayplan/planner/internal/entities"
	"github.com/dayplan/planner/internal/fileio"
	"github.com/dayplan/planner/internal/planparser"
	"github.com/dayplan/planner/internal/workspace"
	"github.com/dayplan/planner/pkg/logger"
)

// Store loads and persists tasks.yaml.
type Store struct {
	ws  workspace.Workspace
	log logger.Logger
}

// New returns a Store bound to ws.
func New(ws workspace.Workspace, log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{ws: ws, log: log}
}

// Load reads tasks.yaml, defaulting to an empty catalog when absent.
func (s *Store) Load() (entities.TasksFile, error) {
	f := entities.DefaultTasksFile()
	if err := fileio.ReadYAML(s.ws.TasksPath(), &f); err != nil {
		return entities.TasksFile{}, err
	}
	return f, nil
}

// Save atomically writes f to tasks.yaml after validating it.
func (s *Store) Save(f entities.TasksFile) error {
	if err := f.Validate(); err != nil {
		return apierr.New(apierr.KindValidation, "tasks.Save", err)
	}
	return fileio.WriteYAML(s.ws.TasksPath(), f)
}

// List returns the active tasks sorted descending by urgency_score.
func (s *Store) List(today time.Time) ([]entities.Task, error) {
	f, err := s.Load()
	if err != nil {
		return nil, err
	}
	out := append([]entities.Task(nil), f.Tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		return UrgencyScore(&out[i], today) > UrgencyScore(&out[j], today)
	})
	return out, nil
}

// Create adds a new task, generating an id when the caller left it blank,
// and rejects duplicates.
func (s *Store) Create(t entities.Task) (entities.Task, error) {
	f, err := s.Load()
	if err != nil {
		return entities.Task{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if f.FindActive(t.ID) != nil {
		return entities.Task{}, apierr.Newf(apierr.KindValidation, "tasks.Create", "task id %q already exists", t.ID)
	}
	t.ApplyDefaults()
	if t.Status == "" {
		t.Status = entities.StatusActive
	}
	if err := t.Validate(); err != nil {
		return entities.Task{}, apierr.New(apierr.KindValidation, "tasks.Create", err)
	}
	f.Tasks = append(f.Tasks, t)
	if err := s.Save(f); err != nil {
		return entities.Task{}, err
	}
	s.log.Info("task created", "id", t.ID, "type", t.Type)
	return t, nil
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Title                  *string
	Priority               *int
	Status                 *entities.TaskStatus
	Notes                  *string
	MinChunkMinutes        *int
	MaxChunkMinutes        *int
	Deadline               *string
	EstimatedMinutesPerDay *int
}

// Update applies patch to the task with id, validating the merged result
// before committing.
func (s *Store) Update(id string, patch Patch) (entities.Task, error) {
	f, err := s.Load()
	if err != nil {
		return entities.Task{}, err
	}
	t := f.FindActive(id)
	if t == nil {
		return entities.Task{}, apierr.Newf(apierr.KindNotFound, "tasks.Update", "task %q not found", id)
	}
	applyPatch(t, patch)
	if err := t.Validate(); err != nil {
		return entities.Task{}, apierr.New(apierr.KindValidation, "tasks.Update", err)
	}
	if err := s.Save(f); err != nil {
		return entities.Task{}, err
	}
	return *t, nil
}

func applyPatch(t *entities.Task, p Patch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.MinChunkMinutes != nil {
		t.MinChunkMinutes = *p.MinChunkMinutes
	}
	if p.MaxChunkMinutes != nil {
		t.MaxChunkMinutes = *p.MaxChunkMinutes
	}
	if p.Deadline != nil {
		t.Deadline = p.Deadline
	}
	if p.EstimatedMinutesPerDay != nil {
		t.EstimatedMinutesPerDay = p.EstimatedMinutesPerDay
	}
}

// Delete removes the task with id; when archive is true it is moved to the
// archive list with status=complete, otherwise it is discarded outright.
func (s *Store) Delete(id string, archive bool) error {
	f, err := s.Load()
	if err != nil {
		return err
	}
	idx := -1
	for i := range f.Tasks {
		if f.Tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apierr.Newf(apierr.KindNotFound, "tasks.Delete", "task %q not found", id)
	}
	t := f.Tasks[idx]
	f.Tasks = append(f.Tasks[:idx], f.Tasks[idx+1:]...)
	if archive {
		t.Status = entities.StatusComplete
		f.Archived = append(f.Archived, t)
	}
	return s.Save(f)
}

// MatchLabel finds the active task whose title matches a checkin item's
// label, comparing case-insensitively. A title equal to the full label or
// to its title-prefix (label with its duration suffix and post-colon detail
// stripped) wins first; failing that, the first task whose title is a
// prefix of the label's title-prefix, or the other way round, is returned.
// Returns nil if nothing matches.
func MatchLabel(tasksFile entities.TasksFile, label string) *entities.Task {
	prefix := strings.ToLower(planparser.TitlePrefix(label))
	lowerLabel := strings.ToLower(strings.TrimSpace(label))
	for i := range tasksFile.Tasks {
		t := &tasksFile.Tasks[i]
		title := strings.ToLower(t.Title)
		if title == lowerLabel || title == prefix || strings.ToLower(planparser.TitlePrefix(t.Title)) == prefix {
			return t
		}
	}
	if prefix == "" {
		return nil
	}
	for i := range tasksFile.Tasks {
		t := &tasksFile.Tasks[i]
		title := strings.ToLower(t.Title)
		if title != "" && (strings.HasPrefix(prefix, title) || strings.HasPrefix(title, prefix)) {
			return t
		}
	}
	return nil
}

// ApplyProgressFromLabel applies progress to the task matching label, using
// the label's embedded duration (falling back to the task's
// estimated_minutes_per_day, else 30 minutes). Returns the matched task id
// and whether anything changed; a nil match is not an error.
func ApplyProgressFromLabel(tasksFile *entities.TasksFile, label string) (taskID string, changed bool) {
	t := MatchLabel(*tasksFile, label)
	if t == nil {
		return "", false
	}
	minutes := planparser.DurationMinutes(label)
	if minutes == 0 {
		if t.Type == entities.TypeDailyRitual && t.EstimatedMinutesPerDay != nil && *t.EstimatedMinutesPerDay > 0 {
			minutes = *t.EstimatedMinutesPerDay
		} else {
			minutes = 30
		}
	}
	return t.ID, t.Variant().ApplyProgress(minutes)
}

// ResetWeeklyBudgetsIfDue performs the weekly-budget reset described in
// §4.3: on the first finalization of the configured week_start weekday,
// once state.WeekStartDate is unset or at least 7 days stale, every
// weekly_budget task's hours_this_week is zeroed and WeekStartDate is
// advanced to today. When WeekStartDate is unset but today is not the
// start day, it is backfilled to the most recent start day without
// resetting hours. Returns whether tasksFile was mutated.
func ResetWeeklyBudgetsIfDue(tasksFile *entities.TasksFile, state *entities.State, today time.Time) bool {
	startIdx := tasksFile.WeekStart.Index()
	if startIdx < 0 {
		startIdx = entities.Mon.Index()
	}
	todayIdx := mondayFirstIndex(today.Weekday())
	todayStr := today.Format("2006-01-02")
	wasUnset := state.WeekStartDate == ""

	due := false
	switch {
	case todayIdx != startIdx:
		due = false
	case wasUnset:
		due = true
	default:
		last, err := time.ParseInLocation("2006-01-02", state.WeekStartDate, today.Location())
		due = err == nil && int(today.Sub(last).Hours()/24) > 6
	}

	if due {
		changed := false
		for i := range tasksFile.Tasks {
			if tasksFile.Tasks[i].Type == entities.TypeWeeklyBudget {
				cur := tasksFile.Tasks[i].HoursThisWeek
				if cur == nil || !cur.IsZero() {
					z := decimal.Zero
					tasksFile.Tasks[i].HoursThisWeek = &z
					changed = true
				}
			}
		}
		state.WeekStartDate = todayStr
		return changed
	}

	if wasUnset && todayIdx != startIdx {
		state.WeekStartDate = mostRecentStartDay(today, startIdx)
	}
	return false
}

func mondayFirstIndex(d time.Weekday) int {
	// time.Weekday: Sunday=0..Saturday=6; convert to Monday-first 0..6.
	return (int(d) + 6) % 7
}

func mostRecentStartDay(today time.Time, startIdx int) string {
	todayIdx := mondayFirstIndex(today.Weekday())
	back := todayIdx - startIdx
	if back < 0 {
		back += 7
	}
	return today.AddDate(0, 0, -back).Format("2006-01-02")
}

// UrgencyScore computes priority + deadline_boost + budget_boost, the
// read-only projection consumed by the task list, scheduler, and agent
// context.
func UrgencyScore(t *entities.Task, today time.Time) float64 {
	return float64(t.Priority) + t.Variant().UrgencyBoost(today)
}

// ComputedFields returns the extra fields, as of today, that the "tasks
// list" CLI subcommand shows beside each active task: urgency_score, and
// days_until_deadline or weekly_progress_pct when applicable.
func ComputedFields(t *entities.Task, today time.Time) map[string]interface{} {
	out := map[string]interface{}{
		"urgency_score": UrgencyScore(t, today),
	}
	switch t.Type {
	case entities.TypeDeadlineProject:
		if t.Deadline != nil && *t.Deadline != "" {
			if d, err := time.Parse("2006-01-02", *t.Deadline); err == nil {
				out["days_until_deadline"] = int(d.Sub(today).Hours() / 24)
			}
		}
	case entities.TypeWeeklyBudget:
		if t.TargetHoursPerWeek != nil && !t.TargetHoursPerWeek.IsZero() {
			hoursThisWeek := decimal.Zero
			if t.HoursThisWeek != nil {
				hoursThisWeek = *t.HoursThisWeek
			}
			pct, _ := hoursThisWeek.Div(*t.TargetHoursPerWeek).Float64()
			out["weekly_progress_pct"] = pct * 100
		}
	}
	return out
}
