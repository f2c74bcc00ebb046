package runner

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/reusee/taibf/bf"
)

var ErrStateLocked = errors.New("state file locked")

type State struct {
	Cursor int    `json:"cursor"`
	Cells  []byte `json:"cells"`
}

func lockState(path string) (unlock func(), err error) {
	lockFile := path + ".lock"
	f, err := os.OpenFile(lockFile, os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) {
			// another process, or a crashed one
			return nil, fmt.Errorf("%w: %s", ErrStateLocked, lockFile)
		}
		return nil, err
	}
	f.Close()
	return func() {
		os.Remove(lockFile)
	}, nil
}

// loadState restores session from path; a missing file leaves the session untouched.
func loadState(path string, session *bf.Session) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("decode state %s: %w", path, err)
	}
	if len(state.Cells) > len(session.Tape) {
		return fmt.Errorf("state %s holds %d cells, tape has %d", path, len(state.Cells), len(session.Tape))
	}
	if state.Cursor < 0 || state.Cursor >= len(session.Tape) {
		return fmt.Errorf("state %s cursor %d outside of tape", path, state.Cursor)
	}
	clear(session.Tape)
	copy(session.Tape, state.Cells)
	session.Cursor = state.Cursor
	return nil
}

func saveState(path string, session *bf.Session) error {
	data, err := json.Marshal(State{
		Cursor: session.Cursor,
		Cells:  session.Tape,
	})
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
