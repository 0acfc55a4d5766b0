package entities

// StreakRun is one contiguous run of streak-counted days.
type StreakRun struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Length int    `json:"length"`
}

// TaskTypeCompletion is a done/total pair for one heuristic item category.
type TaskTypeCompletion struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// SkippedTask is one entry of AnalyticsSummary.MostSkippedTasks.
type SkippedTask struct {
	Label    string  `json:"label"`
	SkipRate float64 `json:"skipRate"`
	Count    int     `json:"count"`
}

// AnalyticsSummary is the derived artifact written to analytics.json.
type AnalyticsSummary struct {
	CompletionByWeekday  map[string]float64            `json:"completionByWeekday"`
	CompletionByTaskType map[string]TaskTypeCompletion  `json:"completionByTaskType"`
	BestTimeBlocks       []string                       `json:"bestTimeBlocks"`
	MostSkippedTasks     []SkippedTask                  `json:"mostSkippedTasks"`
	StreakHistory        []StreakRun                    `json:"streakHistory"`
	Rolling7DayAvg       float64                        `json:"rolling7dayAvg"`
	Rolling30DayAvg      float64                        `json:"rolling30dayAvg"`
	RecoverySuccessRate  float64                        `json:"recoverySuccessRate"`
	TotalDaysTracked     int                            `json:"totalDaysTracked"`
}

// DefaultAnalyticsSummary is used when analytics.json does not yet exist.
func DefaultAnalyticsSummary() AnalyticsSummary {
	return AnalyticsSummary{
		CompletionByWeekday:  map[string]float64{},
		CompletionByTaskType: map[string]TaskTypeCompletion{},
	}
}

// ReflectionRecord is one parsed "## <date>" section of reflections.md,
// the analytics engine's sole input besides State.History.
type ReflectionRecord struct {
	Day        string
	Rating     Rating
	Mode       CheckinMode
	Done       []string
	Notes      map[string]string
	Reflection string
}
