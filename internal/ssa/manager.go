package ssa

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunID identifies one Engine instance owned by an EngineManager.
type RunID string

// NewRunID mints a fresh random run identifier.
func NewRunID() RunID { return RunID(uuid.New().String()) }

// EngineManager owns a set of independently-running Engines, keyed by
// RunID, adapted from daniacca-achemdb's EnvironmentManager
// (internal/achem/environment_manager.go) and Environment's own
// goroutine-driven Run/Stop (internal/achem/environment.go).
type EngineManager struct {
	mu      sync.RWMutex
	engines map[RunID]*managedEngine
}

type managedEngine struct {
	engine    *Engine
	stopCh    chan struct{}
	isRunning bool
}

func NewEngineManager() *EngineManager {
	return &EngineManager{engines: make(map[RunID]*managedEngine)}
}

// Create builds an Engine from cfg and registers it under a fresh RunID.
func (em *EngineManager) Create(cfg ModelConfig, rng RNG, log Logger) (RunID, *Engine, error) {
	e, err := Build(cfg, rng, log)
	if err != nil {
		return "", nil, err
	}
	id := NewRunID()
	em.mu.Lock()
	em.engines[id] = &managedEngine{engine: e}
	em.mu.Unlock()
	return id, e, nil
}

// Get retrieves the Engine registered under id.
func (em *EngineManager) Get(id RunID) (*Engine, bool) {
	em.mu.RLock()
	defer em.mu.RUnlock()
	m, ok := em.engines[id]
	if !ok {
		return nil, false
	}
	return m.engine, true
}

// Delete stops (if running) and removes the Engine registered under id.
func (em *EngineManager) Delete(id RunID) error {
	em.mu.Lock()
	m, ok := em.engines[id]
	if ok {
		delete(em.engines, id)
	}
	em.mu.Unlock()
	if !ok {
		return newInvalidArgument(string(id), "no such run")
	}
	em.stopRunning(m)
	return nil
}

// List returns every currently registered RunID.
func (em *EngineManager) List() []RunID {
	em.mu.RLock()
	defer em.mu.RUnlock()
	ids := make([]RunID, 0, len(em.engines))
	for id := range em.engines {
		ids = append(ids, id)
	}
	return ids
}

// Run starts a background goroutine that drives the Engine registered
// under id one step at a time, pausing interval between steps, until
// Stop is called or the Engine's propensity sum reaches zero. It is a
// no-op if that run is already active.
func (em *EngineManager) Run(id RunID, interval time.Duration) error {
	em.mu.Lock()
	m, ok := em.engines[id]
	if !ok {
		em.mu.Unlock()
		return newInvalidArgument(string(id), "no such run")
	}
	if m.isRunning {
		em.mu.Unlock()
		return nil
	}
	m.stopCh = make(chan struct{})
	m.isRunning = true
	stopCh := m.stopCh
	engine := m.engine
	em.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := engine.Step(); err != nil {
					engine.log.Errorf("run %s: step failed: %v", id, err)
				}
				if engine.A0() == 0 {
					em.mu.Lock()
					m.isRunning = false
					em.mu.Unlock()
					return
				}
			case <-stopCh:
				em.mu.Lock()
				m.isRunning = false
				em.mu.Unlock()
				return
			}
		}
	}()
	return nil
}

// Stop halts the background goroutine for id, if running.
func (em *EngineManager) Stop(id RunID) error {
	em.mu.Lock()
	m, ok := em.engines[id]
	em.mu.Unlock()
	if !ok {
		return newInvalidArgument(string(id), "no such run")
	}
	em.stopRunning(m)
	return nil
}

func (em *EngineManager) stopRunning(m *managedEngine) {
	em.mu.Lock()
	defer em.mu.Unlock()
	if !m.isRunning {
		return
	}
	close(m.stopCh)
}
