package entities

import "fmt"

// TasksFile is the on-disk contents of tasks.yaml: the active catalog plus
// an archive of completed/discarded tasks.
type TasksFile struct {
	WeekStart Weekday `yaml:"week_start" json:"week_start"`
	Tasks     []Task  `yaml:"tasks" json:"tasks"`
	Archived  []Task  `yaml:"archived,omitempty" json:"archived,omitempty"`
}

// DefaultTasksFile is used when tasks.yaml does not yet exist.
func DefaultTasksFile() TasksFile {
	return TasksFile{WeekStart: Mon, Tasks: nil, Archived: nil}
}

// Validate checks every active task and the id-uniqueness invariant.
func (f *TasksFile) Validate() error {
	seen := make(map[string]bool, len(f.Tasks))
	for i := range f.Tasks {
		t := &f.Tasks[i]
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.ID] {
			return fmt.Errorf("tasks file: duplicate task id %q", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

// FindActive returns a pointer to the active task with the given id, or nil.
func (f *TasksFile) FindActive(id string) *Task {
	for i := range f.Tasks {
		if f.Tasks[i].ID == id {
			return &f.Tasks[i]
		}
	}
	return nil
}
