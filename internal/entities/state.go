package entities

// Rating is the deterministic day grade computed by the rating package.
type Rating string

const (
	RatingGood Rating = "good"
	RatingFair Rating = "fair"
	RatingBad  Rating = "bad"
)

// HistoryEntry is one day's finalization record kept in State.History.
type HistoryEntry struct {
	Day           string      `json:"day"`
	Rating        Rating      `json:"rating"`
	Mode          CheckinMode `json:"mode"`
	StreakCounted bool        `json:"streakCounted"`
	DoneCount     int         `json:"doneCount"`
	Total         int         `json:"total"`
}

// MaxHistoryEntries is the rolling cap applied to State.History.
const MaxHistoryEntries = 30

// State is the persisted, process-wide aggregate updated by finalization.
type State struct {
	Streak            int            `json:"streak"`
	LastStreakDate    string         `json:"lastStreakDate,omitempty"`
	LastRating        Rating         `json:"lastRating,omitempty"`
	LastMode          CheckinMode    `json:"lastMode,omitempty"`
	LastSummary       string         `json:"lastSummary,omitempty"`
	LastFinalizedDate string         `json:"lastFinalizedDate,omitempty"`
	History           []HistoryEntry `json:"history"`
	WeekStartDate     string         `json:"weekStartDate,omitempty"`
}

// DefaultState is used when state.json does not yet exist.
func DefaultState() State {
	return State{History: []HistoryEntry{}}
}

// PushHistory inserts or replaces entry (keyed by Day), keeps the list
// sorted ascending by day, and trims it to MaxHistoryEntries.
func (s *State) PushHistory(entry HistoryEntry) {
	out := make([]HistoryEntry, 0, len(s.History)+1)
	for _, e := range s.History {
		if e.Day != entry.Day {
			out = append(out, e)
		}
	}
	out = append(out, entry)
	sortHistoryByDay(out)
	if len(out) > MaxHistoryEntries {
		out = out[len(out)-MaxHistoryEntries:]
	}
	s.History = out
}

func sortHistoryByDay(h []HistoryEntry) {
	for i := 1; i < len(h); i++ {
		for j := i; j > 0 && h[j-1].Day > h[j].Day; j-- {
			h[j-1], h[j] = h[j], h[j-1]
		}
	}
}
