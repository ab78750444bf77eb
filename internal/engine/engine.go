// Package engine manages closets: each closet keeps an item store and the
// category index derived from it in lockstep, and persists both under the
// engine's data directory.
package engine

import (
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/gcbaptista/go-wardrobe-search/config"
	"github.com/gcbaptista/go-wardrobe-search/internal/errors"
	"github.com/gcbaptista/go-wardrobe-search/internal/metrics"
	"github.com/gcbaptista/go-wardrobe-search/services"
)

const (
	dataDirPerm  = 0755
	settingsFile = "settings.gob"
	itemsFile    = "items.gob"
)

// Engine manages multiple closets.
// It implements the services.ClosetManager interface.
type Engine struct {
	mu             sync.RWMutex
	closets        map[string]*ClosetInstance
	dataDir        string
	defaultGrammar config.Grammar
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics enables Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithDefaultGrammar sets the grammar given to closets created without one.
func WithDefaultGrammar(g config.Grammar) Option {
	return func(e *Engine) { e.defaultGrammar = g }
}

// NewEngine creates the closet orchestrator and loads every closet found in dataDir.
func NewEngine(dataDir string, opts ...Option) *Engine {
	eng := &Engine{
		closets:        make(map[string]*ClosetInstance),
		dataDir:        dataDir,
		defaultGrammar: config.DefaultGrammar(),
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	eng.logger = eng.logger.With("component", "engine")

	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		eng.logger.Warn("could not create data directory, persistence may fail", "dir", dataDir, "error", err)
	}
	eng.loadClosetsFromDisk()
	return eng
}

// GetCloset returns the closet with the given name.
func (e *Engine) GetCloset(name string) (services.ClosetAccessor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.closets[name]
	if !exists {
		return nil, errors.NewClosetNotFoundError(name)
	}
	return instance, nil
}

// GetClosetSettings returns a copy of a closet's settings.
func (e *Engine) GetClosetSettings(name string) (config.ClosetSettings, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.closets[name]
	if !exists {
		return config.ClosetSettings{}, errors.NewClosetNotFoundError(name)
	}
	return instance.Settings(), nil
}

// ListClosets returns the closet names in sorted order.
func (e *Engine) ListClosets() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.closets))
	for name := range e.closets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
