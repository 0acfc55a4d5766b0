package entities

// Weekday is the three-letter lowercase tag the workspace files use for days
// of the week ("mon".."sun"), distinct from time.Weekday's English/Sunday-
// first numbering.
type Weekday string

const (
	Mon Weekday = "mon"
	Tue Weekday = "tue"
	Wed Weekday = "wed"
	Thu Weekday = "thu"
	Fri Weekday = "fri"
	Sat Weekday = "sat"
	Sun Weekday = "sun"
)

// weekdayOrder maps a tag to its Monday-first index (0=mon..6=sun).
var weekdayOrder = map[Weekday]int{Mon: 0, Tue: 1, Wed: 2, Thu: 3, Fri: 4, Sat: 5, Sun: 6}

// Index returns the Monday-first index of w, or -1 if w is not a valid tag.
func (w Weekday) Index() int {
	if i, ok := weekdayOrder[w]; ok {
		return i
	}
	return -1
}

// Valid reports whether w is one of the seven recognized tags.
func (w Weekday) Valid() bool {
	return w.Index() >= 0
}

// FixedRoutine is a named block that applies every day (e.g. "lunch",
// "gym"), with an optional explicit duration distinct from the window size.
type FixedRoutine struct {
	Window      TimeRange `yaml:"window" json:"window"`
	DurationMin *int      `yaml:"duration_min,omitempty" json:"duration_min,omitempty"`
}

// WeeklyEvent is a one-day-a-week fixed commitment with optional commute
// buffers applied on each side when computing blocked time.
type WeeklyEvent struct {
	Name              string  `yaml:"name" json:"name"`
	Day               Weekday `yaml:"day" json:"day"`
	Time              TimeRange `yaml:"time" json:"time"`
	Location          string  `yaml:"location,omitempty" json:"location,omitempty"`
	CommuteMinEachWay int     `yaml:"commute_min_each_way,omitempty" json:"commute_min_each_way,omitempty"`
}

// Commute holds the user's typical one-way commute length, used to pad
// weekly events that carry no explicit commute override.
type Commute struct {
	TypicalOneWayMin int `yaml:"typical_one_way_min" json:"typical_one_way_min"`
}

// Profile is the user's constraints, read-only to the engine. It is re-read
// on every operation rather than cached, since it is treated as live,
// user-editable configuration.
type Profile struct {
	Timezone              string                  `yaml:"timezone" json:"timezone"`
	WakeTime              string                  `yaml:"wake_time" json:"wake_time"`
	DailyPlanDeliveryTime string                  `yaml:"daily_plan_delivery_time" json:"daily_plan_delivery_time"`
	WorkBlocks            []TimeRange             `yaml:"work_blocks" json:"work_blocks"`
	FixedRoutines         map[string]FixedRoutine `yaml:"fixed_routines" json:"fixed_routines"`
	Commute               Commute                 `yaml:"commute" json:"commute"`
	WeeklyFixedEvents     []WeeklyEvent           `yaml:"weekly_fixed_events" json:"weekly_fixed_events"`
}

// DefaultProfile is returned when profile.yaml does not yet exist.
func DefaultProfile() Profile {
	return Profile{
		Timezone:              "UTC",
		WakeTime:              "07:00",
		DailyPlanDeliveryTime: "06:30",
		WorkBlocks:            nil,
		FixedRoutines:         map[string]FixedRoutine{},
		WeeklyFixedEvents:     nil,
	}
}
