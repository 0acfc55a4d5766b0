// Package analytics mines reflections.md and state history into the
// rolling completion metrics and patterns written to analytics.json.
package analytics

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dayplan/planner/internal/entities"
	"github.com/dayplan/planner/internal/fileio"
	"github.com/dayplan/planner/internal/planparser"
	"github.com/dayplan/planner/internal/reflections"
	"github.com/dayplan/planner/internal/workspace"
)

// Engine computes AnalyticsSummary from a workspace's reflection log and
// state history.
type Engine struct {
	ws workspace.Workspace
}

// New returns an Engine bound to ws.
func New(ws workspace.Workspace) *Engine {
	return &Engine{ws: ws}
}

// Refresh recomputes the summary and writes it atomically to
// analytics.json, returning the computed value.
func (e *Engine) Refresh(history []entities.HistoryEntry) (entities.AnalyticsSummary, error) {
	text, err := reflections.New(e.ws).Read()
	if err != nil {
		return entities.AnalyticsSummary{}, err
	}
	records := ParseReflections(text)
	summary := Compute(records, history)
	if err := fileio.WriteJSON(e.ws.AnalyticsPath(), summary); err != nil {
		return entities.AnalyticsSummary{}, err
	}
	return summary, nil
}

// Load reads the last-written analytics.json, defaulting to an empty
// summary when absent.
func (e *Engine) Load() (entities.AnalyticsSummary, error) {
	s := entities.DefaultAnalyticsSummary()
	if err := fileio.ReadJSON(e.ws.AnalyticsPath(), &s); err != nil {
		return entities.AnalyticsSummary{}, err
	}
	return s, nil
}

var weekdayTags = []entities.Weekday{entities.Mon, entities.Tue, entities.Wed, entities.Thu, entities.Fri, entities.Sat, entities.Sun}

func weekdayTagOf(day string) (entities.Weekday, bool) {
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		return "", false
	}
	return weekdayTags[(int(d.Weekday())+6)%7], true
}

func completionRate(rec entities.ReflectionRecord) float64 {
	all := AllItems(rec)
	if len(all) == 0 {
		return 0
	}
	return float64(len(rec.Done)) / float64(len(all))
}

var timedPattern = regexp.MustCompile(`(?i)\d+(\.\d+)?\s*[hm]\b`)

func classifyItem(label string) string {
	lower := strings.ToLower(label)
	if timedPattern.MatchString(lower) {
		return "timed_task"
	}
	if strings.Contains(lower, "maintenance") || strings.Contains(lower, "ritual") {
		return "daily_ritual"
	}
	return "other"
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

// Compute is the pure computation behind Refresh, split out for testing.
func Compute(records []entities.ReflectionRecord, history []entities.HistoryEntry) entities.AnalyticsSummary {
	summary := entities.DefaultAnalyticsSummary()
	summary.TotalDaysTracked = len(records)

	sorted := append([]entities.ReflectionRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Day < sorted[j].Day })

	// completionByWeekday
	sums := map[entities.Weekday]float64{}
	counts := map[entities.Weekday]int{}
	for _, rec := range sorted {
		tag, ok := weekdayTagOf(rec.Day)
		if !ok {
			continue
		}
		sums[tag] += completionRate(rec)
		counts[tag]++
	}
	for _, tag := range weekdayTags {
		if counts[tag] > 0 {
			summary.CompletionByWeekday[string(tag)] = round3(sums[tag] / float64(counts[tag]))
		}
	}

	// completionByTaskType
	typeDone := map[string]int{}
	typeTotal := map[string]int{}
	doneSet := func(rec entities.ReflectionRecord) map[string]bool {
		m := make(map[string]bool, len(rec.Done))
		for _, d := range rec.Done {
			m[d] = true
		}
		return m
	}
	for _, rec := range sorted {
		done := doneSet(rec)
		for _, item := range AllItems(rec) {
			kind := classifyItem(item)
			typeTotal[kind]++
			if done[item] {
				typeDone[kind]++
			}
		}
	}
	for kind, total := range typeTotal {
		summary.CompletionByTaskType[kind] = entities.TaskTypeCompletion{Done: typeDone[kind], Total: total}
	}

	// bestTimeBlocks: top-3 weekdays by completion rate.
	type wdRate struct {
		tag  entities.Weekday
		rate float64
	}
	var wds []wdRate
	for tag, rate := range summary.CompletionByWeekday {
		wds = append(wds, wdRate{entities.Weekday(tag), rate})
	}
	sort.Slice(wds, func(i, j int) bool { return wds[i].rate > wds[j].rate })
	for i := 0; i < len(wds) && i < 3; i++ {
		summary.BestTimeBlocks = append(summary.BestTimeBlocks, string(wds[i].tag))
	}

	// mostSkippedTasks: by stem, >=3 occurrences, skip rate >=0.5, top 5.
	type stemStat struct {
		total, done int
	}
	stemStats := map[string]*stemStat{}
	stemDisplay := map[string]string{}
	for _, rec := range sorted {
		done := doneSet(rec)
		for _, item := range AllItems(rec) {
			key := stem(item)
			if stemStats[key] == nil {
				stemStats[key] = &stemStat{}
				stemDisplay[key] = labelStem(item)
			}
			stemStats[key].total++
			if done[item] {
				stemStats[key].done++
			}
		}
	}
	var skipped []entities.SkippedTask
	for key, s := range stemStats {
		if s.total < 3 {
			continue
		}
		skipRate := float64(s.total-s.done) / float64(s.total)
		if skipRate >= 0.5 {
			skipped = append(skipped, entities.SkippedTask{Label: stemDisplay[key], SkipRate: round3(skipRate), Count: s.total})
		}
	}
	sort.Slice(skipped, func(i, j int) bool { return skipped[i].SkipRate > skipped[j].SkipRate })
	if len(skipped) > 5 {
		skipped = skipped[:5]
	}
	summary.MostSkippedTasks = skipped

	// streakHistory: contiguous runs of StreakCounted over sorted history.
	sortedHistory := append([]entities.HistoryEntry(nil), history...)
	sort.Slice(sortedHistory, func(i, j int) bool { return sortedHistory[i].Day < sortedHistory[j].Day })
	var runs []entities.StreakRun
	runStart := ""
	runLen := 0
	flush := func(endDay string) {
		if runLen > 0 {
			runs = append(runs, entities.StreakRun{Start: runStart, End: endDay, Length: runLen})
		}
		runLen = 0
	}
	var prevDay string
	for _, h := range sortedHistory {
		if h.StreakCounted {
			if runLen == 0 {
				runStart = h.Day
			}
			runLen++
		} else {
			flush(prevDay)
		}
		prevDay = h.Day
	}
	flush(prevDay)
	summary.StreakHistory = runs

	// rolling 7/30-day averages over the most recent N records by date.
	summary.Rolling7DayAvg = rollingAvg(sorted, 7)
	summary.Rolling30DayAvg = rollingAvg(sorted, 30)

	// recoverySuccessRate
	var recoveryTotal, recoverySuccess int
	for _, rec := range sorted {
		if rec.Mode == entities.ModeRecovery {
			recoveryTotal++
			if rec.Rating == entities.RatingGood || rec.Rating == entities.RatingFair {
				recoverySuccess++
			}
		}
	}
	if recoveryTotal > 0 {
		summary.RecoverySuccessRate = round3(float64(recoverySuccess) / float64(recoveryTotal))
	}

	return summary
}

func rollingAvg(sorted []entities.ReflectionRecord, n int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	start := len(sorted) - n
	if start < 0 {
		start = 0
	}
	window := sorted[start:]
	sum := 0.0
	for _, rec := range window {
		sum += completionRate(rec)
	}
	return round3(sum / float64(len(window)))
}

// labelStem renders a human-readable version of a label's stem (same
// normalization as stem(), but without lowercasing, for display purposes).
func labelStem(label string) string {
	return planparser.TitlePrefix(label)
}
