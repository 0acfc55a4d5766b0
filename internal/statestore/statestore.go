// Package statestore loads and atomically persists state.json, the
// process-wide aggregate the finalization pipeline and task store both
// update.
package statestore

import (
	"github.com/dayplan/planner/internal/entities"
	"github.com/dayplan/planner/internal/fileio"
	"github.com/dayplan/planner/internal/workspace"
)

// Load reads state.json, defaulting to entities.DefaultState() when absent.
func Load(ws workspace.Workspace) (entities.State, error) {
	s := entities.DefaultState()
	if err := fileio.ReadJSON(ws.StatePath(), &s); err != nil {
		return entities.State{}, err
	}
	if s.History == nil {
		s.History = []entities.HistoryEntry{}
	}
	return s, nil
}

// Save atomically writes s to state.json.
func Save(ws workspace.Workspace, s entities.State) error {
	return fileio.WriteJSON(ws.StatePath(), s)
}
