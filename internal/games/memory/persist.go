package memory

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/memory-match/internal/config"
	"github.com/vovakirdan/memory-match/internal/games/memory/engine"
)

// Keys used in the key/value store.
const (
	SaveKey = "memory_save_v1"
	GridKey = "memory_grid_v1"
)

// KV is the persistence contract for the save slot and preferences.
// storage.Store and storage.MemoryKV implement it.
type KV interface {
	Put(key string, data []byte) error
	Get(key string) ([]byte, bool, error)
	Delete(key string) error
}

// SaveSlot holds the single saved checkpoint and the last chosen grid.
type SaveSlot struct {
	kv     KV
	logger *log.Logger
}

// NewSaveSlot creates a save slot on top of kv.
func NewSaveSlot(kv KV, logger *log.Logger) *SaveSlot {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SaveSlot{kv: kv, logger: logger}
}

// Save stores an encoded checkpoint for a mode, replacing any previous save.
// The data must decode; a checkpoint from Game.Checkpoint always does.
func (s *SaveSlot) Save(gameID string, data []byte) error {
	snap, err := engine.DecodeSnapshot(data)
	if err != nil {
		return fmt.Errorf("memory: refusing to save: %w", err)
	}
	if snap.Mode != "" && snap.Mode != gameID {
		return fmt.Errorf("memory: checkpoint of %q saved as %q", snap.Mode, gameID)
	}
	if err := s.kv.Put(SaveKey, data); err != nil {
		return err
	}
	s.logger.Debug("saved", "mode", gameID, "run", snap.RunID, "score", snap.Score)
	return nil
}

// Load returns the saved checkpoint for a mode.
// A missing, corrupt or other-mode save reports false; corrupt data is left in
// place and logged.
func (s *SaveSlot) Load(gameID string) ([]byte, bool) {
	snap, data, ok := s.load()
	if !ok {
		return nil, false
	}
	if snap.Mode != "" && snap.Mode != gameID {
		s.logger.Debug("save belongs to another mode", "save", snap.Mode, "mode", gameID)
		return nil, false
	}
	return data, true
}

// Clear removes the save if it belongs to gameID.
func (s *SaveSlot) Clear(gameID string) error {
	snap, _, ok := s.load()
	if !ok || (snap.Mode != "" && snap.Mode != gameID) {
		return nil
	}
	return s.kv.Delete(SaveKey)
}

// Snapshot returns the decoded save regardless of mode.
func (s *SaveSlot) Snapshot() (engine.Snapshot, bool) {
	snap, _, ok := s.load()
	return snap, ok
}

// Raw returns the stored bytes without decoding them.
func (s *SaveSlot) Raw() ([]byte, bool, error) {
	return s.kv.Get(SaveKey)
}

// Discard removes the save unconditionally, corrupt or not.
func (s *SaveSlot) Discard() error {
	return s.kv.Delete(SaveKey)
}

func (s *SaveSlot) load() (engine.Snapshot, []byte, bool) {
	data, ok, err := s.kv.Get(SaveKey)
	if err != nil {
		s.logger.Warn("cannot read save", "err", err)
		return engine.Snapshot{}, nil, false
	}
	if !ok {
		return engine.Snapshot{}, nil, false
	}

	snap, err := engine.DecodeSnapshot(data)
	if err == nil {
		err = snap.Validate()
	}
	if err != nil {
		s.logger.Warn("ignoring unreadable save", "key", SaveKey, "err", err)
		return engine.Snapshot{}, nil, false
	}
	return snap, data, true
}

// SaveGrid remembers the last grid chosen in the selector.
func (s *SaveSlot) SaveGrid(g config.GridSize) error {
	return s.kv.Put(GridKey, []byte(g.String()))
}

// LoadGrid returns the remembered grid.
func (s *SaveSlot) LoadGrid() (config.GridSize, bool) {
	data, ok, err := s.kv.Get(GridKey)
	if err != nil || !ok {
		return config.GridSize{}, false
	}
	g, err := config.ParseGridSize(string(data))
	if err != nil {
		s.logger.Warn("ignoring stored grid", "value", string(data), "err", err)
		return config.GridSize{}, false
	}
	return g, true
}
