// Package scheduler allocates a user's active tasks into the free time left
// over after fixed routines and weekly events, and renders the result as
// plan.md.
package scheduler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dayplan/planner/internal/entities"
	"github.com/dayplan/planner/internal/fileio"
	"github.com/dayplan/planner/internal/tasks"
	"github.com/dayplan/planner/internal/workspace"
)

const (
	minSlotMinutes      = 10
	interBlockBufferMin = 5
)

// Scheduler generates DaySchedule values and renders them to plan.md.
type Scheduler struct {
	ws workspace.Workspace
}

// New returns a Scheduler bound to ws.
func New(ws workspace.Workspace) *Scheduler {
	return &Scheduler{ws: ws}
}

// AvailableSlots computes the free, non-overlapping ranges left in the
// profile's work_blocks after subtracting every fixed routine and any
// weekly event whose weekday matches date (commute buffers applied on each
// side), dropping anything shorter than minSlotMinutes.
func AvailableSlots(profile entities.Profile, date time.Time) []entities.TimeRange {
	weekday := weekdayTagOf(date)

	var blocked []entities.TimeRange
	for _, routine := range profile.FixedRoutines {
		blocked = append(blocked, routine.Window)
	}
	for _, ev := range profile.WeeklyFixedEvents {
		if ev.Day != weekday {
			continue
		}
		buffer := ev.CommuteMinEachWay
		if buffer == 0 {
			buffer = profile.Commute.TypicalOneWayMin
		}
		blocked = append(blocked, ev.Time.WithBuffer(buffer))
	}

	var free []entities.TimeRange
	for _, block := range profile.WorkBlocks {
		pieces := []entities.TimeRange{block}
		for _, b := range blocked {
			var next []entities.TimeRange
			for _, p := range pieces {
				next = append(next, p.Subtract(b)...)
			}
			pieces = next
		}
		free = append(free, pieces...)
	}

	var out []entities.TimeRange
	for _, r := range free {
		if r.DurationMinutes() >= minSlotMinutes {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartMin < out[j].StartMin })
	return out
}

func weekdayTagOf(d time.Time) entities.Weekday {
	tags := []entities.Weekday{entities.Mon, entities.Tue, entities.Wed, entities.Thu, entities.Fri, entities.Sat, entities.Sun}
	return tags[(int(d.Weekday())+6)%7]
}

// placementCursor tracks how far into a slot placement has already consumed.
type placementCursor struct {
	slot   entities.TimeRange
	cursor int
}

// Generate builds a DaySchedule for date from the profile and active tasks.
// Tasks are walked in descending urgency-score order and greedily placed
// into the free slots computed by AvailableSlots. A task that receives no
// block at all is listed in UnscheduledTasks.
func Generate(profile entities.Profile, activeTasks []entities.Task, date time.Time) entities.DaySchedule {
	slots := AvailableSlots(profile, date)
	cursors := make([]*placementCursor, len(slots))
	for i, s := range slots {
		cursors[i] = &placementCursor{slot: s, cursor: s.StartMin}
	}

	ordered := append([]entities.Task(nil), activeTasks...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return tasks.UrgencyScore(&ordered[i], date) > tasks.UrgencyScore(&ordered[j], date)
	})

	var taskBlocks []entities.ScheduledBlock
	var unscheduled []string

	for i := range ordered {
		t := &ordered[i]
		t.ApplyDefaults()
		demand := t.Variant().DailyDemandMinutes()
		placed := false

		for _, c := range cursors {
			if demand <= 0 {
				break
			}
			available := c.slot.EndMin - c.cursor
			if available < t.MinChunkMinutes {
				continue
			}
			size := min3(demand, available, t.MaxChunkMinutes)
			if size < t.MinChunkMinutes {
				continue
			}
			taskBlocks = append(taskBlocks, entities.ScheduledBlock{
				Start:           c.cursor,
				End:             c.cursor + size,
				TaskID:          t.ID,
				TaskTitle:       t.Title,
				DurationMinutes: size,
				BlockType:       entities.BlockTask,
			})
			c.cursor += size + interBlockBufferMin
			demand -= size
			placed = true
		}
		if !placed {
			unscheduled = append(unscheduled, t.ID)
		}
	}

	weekday := weekdayTagOf(date)
	var infoBlocks []entities.ScheduledBlock
	for name, routine := range profile.FixedRoutines {
		infoBlocks = append(infoBlocks, entities.ScheduledBlock{
			Start: routine.Window.StartMin, End: routine.Window.EndMin,
			TaskTitle: name, DurationMinutes: routine.Window.DurationMinutes(), BlockType: entities.BlockRoutine,
		})
	}
	for _, ev := range profile.WeeklyFixedEvents {
		if ev.Day != weekday {
			continue
		}
		infoBlocks = append(infoBlocks, entities.ScheduledBlock{
			Start: ev.Time.StartMin, End: ev.Time.EndMin,
			TaskTitle: ev.Name, DurationMinutes: ev.Time.DurationMinutes(), BlockType: entities.BlockEvent,
		})
	}

	all := append(taskBlocks, infoBlocks...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Start < all[j].Start })

	totalWork := 0
	for _, s := range slots {
		totalWork += s.DurationMinutes()
	}
	usedMinutes := 0
	for _, b := range taskBlocks {
		usedMinutes += b.DurationMinutes
	}
	utilization := 0.0
	if totalWork > 0 {
		utilization = float64(usedMinutes) / float64(totalWork) * 100
	}

	return entities.DaySchedule{
		Date:             date.Format("2006-01-02"),
		Blocks:           all,
		UnscheduledTasks: unscheduled,
		TotalWorkMinutes: totalWork,
		UtilizationPct:   utilization,
	}
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// RenderPlan renders a DaySchedule into the markdown contract described in
// §4.8 step 6: header, top priorities, schedule, minimum-viable-day
// checkboxes, and carryover.
func RenderPlan(sched entities.DaySchedule, taskByID map[string]entities.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Plan — %s\n\n", sched.Date)

	b.WriteString("## Top priorities\n")
	seen := map[string]bool{}
	count := 0
	for _, block := range sched.Blocks {
		if block.BlockType != entities.BlockTask || seen[block.TaskTitle] {
			continue
		}
		seen[block.TaskTitle] = true
		count++
		fmt.Fprintf(&b, "- %s\n", block.TaskTitle)
		if count >= 5 {
			break
		}
	}
	b.WriteString("\n## Schedule\n")
	for _, block := range sched.Blocks {
		fmt.Fprintf(&b, "- %s–%s %s [%dm]\n", clockOf(block.Start), clockOf(block.End), block.TaskTitle, block.DurationMinutes)
	}

	b.WriteString("\n## Minimum viable day\n")
	mvdSeen := map[string]bool{}
	for _, block := range sched.Blocks {
		if block.BlockType != entities.BlockTask || mvdSeen[block.TaskTitle] {
			continue
		}
		mvdSeen[block.TaskTitle] = true
		fmt.Fprintf(&b, "- [ ] %s %dm\n", block.TaskTitle, block.DurationMinutes)
	}

	b.WriteString("\n## Carryover\n")
	if len(sched.UnscheduledTasks) == 0 {
		b.WriteString("- (none)\n")
	} else {
		for _, id := range sched.UnscheduledTasks {
			title := id
			if t, ok := taskByID[id]; ok {
				title = t.Title
			}
			fmt.Fprintf(&b, "- %s\n", title)
		}
	}
	return b.String()
}

func clockOf(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// SavePlan writes text to plan.md, first copying the current plan.md to
// plan_prev.md when it is non-empty.
func (s *Scheduler) SavePlan(text string) error {
	current, err := fileio.ReadText(s.ws.PlanPath())
	if err != nil {
		return err
	}
	if strings.TrimSpace(current) != "" {
		if err := fileio.WriteText(s.ws.PlanPrevPath(), current); err != nil {
			return err
		}
	}
	return fileio.WriteText(s.ws.PlanPath(), text)
}
