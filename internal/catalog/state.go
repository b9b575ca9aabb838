package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"avtobot/internal/domain/entity"
	"avtobot/internal/platform/logger"
)

// FileStore keeps every user's filter state in memory and mirrors the whole
// map into one JSON file after each mutation, so filters survive restarts.
type FileStore struct {
	mu     sync.Mutex
	path   string
	states map[string]entity.FilterState
	log    logger.Logger
}

func NewFileStore(path string, log logger.Logger) *FileStore {
	s := &FileStore{
		path:   path,
		states: make(map[string]entity.FilterState),
		log:    log,
	}
	s.load()
	return s
}

// load reads the snapshot from disk. A missing file is a fresh start; a
// corrupt one is logged and skipped so the bot still comes up.
func (s *FileStore) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warnf("filter store: read %s: %v", s.path, err)
		}
		return
	}
	states := make(map[string]entity.FilterState)
	if err := json.Unmarshal(raw, &states); err != nil {
		s.log.Warnf("filter store: corrupt %s, starting empty: %v", s.path, err)
		return
	}
	s.states = states
}

// persist must be called with the mutex held.
func (s *FileStore) persist() {
	raw, err := json.MarshalIndent(s.states, "", "  ")
	if err != nil {
		s.log.Errorf("filter store: marshal: %v", err)
		return
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.log.Errorf("filter store: mkdir %s: %v", dir, err)
			return
		}
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		s.log.Errorf("filter store: write %s: %v", s.path, err)
	}
}

// Get returns the sender's filter state with defaults filled in. Unknown
// senders get a fresh default state without touching the file.
func (s *FileStore) Get(sender string) entity.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.states[sender]
	if !ok {
		return entity.DefaultFilterState()
	}
	f.Normalize()
	return f
}

// Set stores the sender's state and writes the snapshot to disk.
func (s *FileStore) Set(sender string, f entity.FilterState) {
	f.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[sender] = f
	s.persist()
}

// Reset puts the sender back on the default state.
func (s *FileStore) Reset(sender string) {
	s.Set(sender, entity.DefaultFilterState())
}

// Describe renders the active filters as chat text.
func Describe(f entity.FilterState) string {
	var parts []string
	if f.MinPrice != nil || f.MaxPrice != nil {
		parts = append(parts, "цена "+rangeText(f.MinPrice, f.MaxPrice))
	}
	if f.Year != nil {
		parts = append(parts, fmt.Sprintf("год %d", *f.Year))
	} else if f.MinYear != nil || f.MaxYear != nil {
		parts = append(parts, "год "+rangeText(f.MinYear, f.MaxYear))
	}
	if f.MinMileage != nil || f.MaxMileage != nil {
		parts = append(parts, "пробег "+rangeText(f.MinMileage, f.MaxMileage))
	}
	if f.BrandName != nil {
		parts = append(parts, "марка "+*f.BrandName)
	}
	if f.Region != nil {
		parts = append(parts, "регион "+*f.Region)
	}
	if f.Condition != nil {
		parts = append(parts, "состояние "+string(*f.Condition))
	}
	if len(parts) == 0 {
		return "Фильтры не заданы."
	}
	return "Фильтры: " + strings.Join(parts, ", ")
}

func rangeText(lo, hi *int) string {
	switch {
	case lo != nil && hi != nil:
		return fmt.Sprintf("%d-%d", *lo, *hi)
	case lo != nil:
		return fmt.Sprintf("от %d", *lo)
	case hi != nil:
		return fmt.Sprintf("до %d", *hi)
	default:
		return ""
	}
}
