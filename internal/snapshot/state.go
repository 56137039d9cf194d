package snapshot

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ar90n/bookmarkdown-sub001/internal/model"
)

// State records, per document, when this device last completed a successful
// sync. It is strictly local bookkeeping: the stamps here seed the merge's
// deletion inference and are never transmitted.
type State struct {
	Documents map[string]model.Timestamp `yaml:"documents"`
}

// stateFileName is the name of the sync-state file.
const stateFileName = "sync-state.yaml"

// NewState returns an empty sync state.
func NewState() *State {
	return &State{Documents: make(map[string]model.Timestamp)}
}

// LastSynced returns the last successful sync stamp for a document, or the
// epoch when the document has never synced.
func (s *State) LastSynced(document string) model.Timestamp {
	if s.Documents == nil {
		return model.Epoch
	}
	if t, ok := s.Documents[document]; ok && t != "" {
		return t
	}
	return model.Epoch
}

// MarkSynced records a completed sync for a document.
func (s *State) MarkSynced(document string, t model.Timestamp) {
	if s.Documents == nil {
		s.Documents = make(map[string]model.Timestamp)
	}
	s.Documents[document] = t
}

// LoadState reads the sync state from dir. A missing file is an empty state,
// not an error.
func LoadState(dir string) (*State, error) {
	path := filepath.Join(dir, stateFileName)
	// #nosec G304 - path is constructed from the configured state directory
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	state := NewState()
	if err := yaml.Unmarshal(data, state); err != nil {
		return nil, err
	}
	return state, nil
}

// SaveState writes the sync state to dir.
func SaveState(dir string, state *State) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return err
	}

	// #nosec G306 - state file holds only timestamps
	return os.WriteFile(filepath.Join(dir, stateFileName), data, 0o644)
}
