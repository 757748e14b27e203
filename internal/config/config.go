// Package config loads process-lifetime solver configuration from a small
// JSON file: a single package-level value populated once via sync.Once and
// read thereafter.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// SolverConfig holds the tunables the core search and its hosts read at
// startup. NodeBudget caps the number of arena nodes game.Search may
// allocate before giving up with game.ErrNodeBudgetExceeded; zero or
// negative means unlimited.
type SolverConfig struct {
	NodeBudget int `json:"node_budget"`
}

var (
	cfg      *SolverConfig
	loadOnce sync.Once
	loadErr  error
)

// defaultConfig is used whenever no config file is loaded: an unlimited
// search budget, matching game.NewGame's default.
var defaultConfig = SolverConfig{NodeBudget: -1}

// Load reads the solver configuration from path. Safe to call more than
// once; only the first call's path and outcome stick for the process's
// lifetime.
func Load(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("config: failed to read solver config: %w", err)
			return
		}
		var c SolverConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("config: failed to unmarshal solver config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// Get returns the process's solver configuration, or defaultConfig if Load
// was never called or failed.
func Get() SolverConfig {
	if cfg == nil {
		return defaultConfig
	}
	return *cfg
}

// NodeBudget returns the configured node budget, or -1 (unlimited) if none
// was loaded.
func NodeBudget() int {
	b := Get().NodeBudget
	if b == 0 {
		return -1
	}
	return b
}
