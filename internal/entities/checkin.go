package entities

// CheckinMode selects how leniently the finalization pipeline rates the day.
type CheckinMode string

const (
	ModeCommit   CheckinMode = "commit"
	ModeRecovery CheckinMode = "recovery"
)

// CheckinItem is one line item of today's draft checkin.
type CheckinItem struct {
	Label   string `json:"label"`
	Done    bool   `json:"done"`
	Comment string `json:"comment,omitempty"`
}

// CheckinDraft is today's in-progress checkin state, auto-saved continuously
// by the UI and consumed (then cleared) by finalization. A draft whose Day
// is not today is logically empty: FreshDraft is what the loader should
// substitute when that's detected.
type CheckinDraft struct {
	Day        string                 `json:"day"`
	UpdatedAt  string                 `json:"updatedAt"`
	Mode       CheckinMode            `json:"mode"`
	Items      map[string]CheckinItem `json:"items"`
	Reflection string                 `json:"reflection"`
}

// FreshDraft returns the empty draft for the given ISO day, timestamped now.
func FreshDraft(day, nowISO string) CheckinDraft {
	return CheckinDraft{
		Day:       day,
		UpdatedAt: nowISO,
		Mode:      ModeCommit,
		Items:     map[string]CheckinItem{},
	}
}

// PlanCheckbox is a derived, non-persisted line item extracted from plan.md.
type PlanCheckbox struct {
	Key     string
	Label   string
	Checked bool
}
