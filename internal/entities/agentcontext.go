package entities

// Suggestion is one fixed-rule recommendation surfaced in agent_context.json.
type Suggestion struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// BudgetProgress summarizes one weekly_budget task's standing.
type BudgetProgress struct {
	TaskID        string  `json:"taskId"`
	Title         string  `json:"title"`
	TargetHours   float64 `json:"target"`
	ActualHours   float64 `json:"actual"`
	RemainingHours float64 `json:"remaining"`
	ProgressPct   float64 `json:"progress_pct"`
}

// UrgentTask is one entry of the agent context's top-5 urgent task list.
type UrgentTask struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	UrgencyScore float64 `json:"urgency_score"`
}

// StateSnapshot is the slice of State + AnalyticsSummary embedded in the
// agent context artifact.
type StateSnapshot struct {
	Streak              int                `json:"streak"`
	LastRating          Rating             `json:"lastRating,omitempty"`
	TotalDaysTracked     int                `json:"totalDaysTracked"`
	Rolling7DayAvg       float64            `json:"rolling7dayAvg"`
	Rolling30DayAvg      float64            `json:"rolling30dayAvg"`
	CompletionByWeekday  map[string]float64 `json:"completionByWeekday"`
}

// AgentContext is the aggregated snapshot written to agent_context.json for
// external consumers (agents, dashboards).
type AgentContext struct {
	GeneratedAt    string           `json:"generatedAt"`
	State          StateSnapshot    `json:"state"`
	UrgentTasks    []UrgentTask     `json:"urgentTasks"`
	BudgetProgress []BudgetProgress `json:"budgetProgress"`
	Suggestions    []Suggestion     `json:"suggestions"`
}
