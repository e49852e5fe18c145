// Package store implements a controlled-mutation state container.
//
// A Store holds an immutable node tree whose root is a mapping. The only way
// to change it is SetState, which merges a partial update into the tree
// without ever introducing a key the tree did not already have:
//
//	s, err := store.Init(map[string]any{
//	    "user": map[string]any{"name": "ada", "age": 36},
//	}, func(state *node.Mapping) {
//	    render(state)
//	})
//
//	err = s.SetState(map[string]any{"user": map[string]any{"name": "grace"}})
//
// At the root, keys left out of the partial keep their values. Below the root
// the default merge mode keeps only the keys the partial names, so the update
// above leaves user as {name: "grace"}. Config.MergeMode "preserve" keeps the
// omitted nested keys instead.
//
// A rejected update returns *node.UnknownKeyError and leaves the state exactly
// as it was. The update callback runs once per successful SetState, after the
// store is locked again, and never for a rejected one.
//
// # Concurrency
//
// SetState calls are serialised by a mutex and State may be called from any
// goroutine. The mutex is released before the update callback runs, so a
// callback may call SetState itself. Nothing bounds that recursion other than
// the goroutine stack.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/sealstore/node"
	"github.com/tailored-agentic-units/sealstore/observability"
)

// UpdateFunc is invoked after each successful update with the new state.
type UpdateFunc func(state *node.Mapping)

// Phase is the store's position in its lifecycle.
type Phase uint8

const (
	PhaseCreated Phase = iota
	PhaseLocked
	PhaseUnlocked
)

func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseLocked:
		return "locked"
	case PhaseUnlocked:
		return "unlocked"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Option configures a Store after config-driven initialization.
type Option func(*Store)

// WithObserver overrides the config-selected observer.
func WithObserver(o observability.Observer) Option {
	return func(s *Store) { s.observer = o }
}

// WithLogger routes store events to logger through a SlogObserver.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.observer = observability.NewSlogObserver(logger) }
}

// WithOnUpdate sets the update callback.
func WithOnUpdate(fn UpdateFunc) Option {
	return func(s *Store) { s.onUpdate = fn }
}

// WithMergeMode overrides the config-selected merge mode.
func WithMergeMode(mode node.Mode) Option {
	return func(s *Store) { s.mode = mode }
}

// Store owns a state tree and the single gateway that changes it.
type Store struct {
	id       string
	freezer  node.Freezer
	mode     node.Mode
	observer observability.Observer
	onUpdate UpdateFunc
	metrics  *Metrics

	write sync.Mutex // held for the merge and commit of one update

	mu    sync.RWMutex
	root  *node.Mapping
	phase Phase
}

// Init creates a quiet Store: default configuration with the "noop"
// observer, so nothing is logged. A nil initial state is an empty mapping and
// a nil onUpdate is a no-op. Use New to select an observer.
func Init(initial map[string]any, onUpdate UpdateFunc) (*Store, error) {
	return New(&Config{Observer: "noop"}, initial, WithOnUpdate(onUpdate))
}

// New creates a Store from configuration. The initial state is deep-copied;
// the caller keeps ownership of the map it passed in. A nil cfg uses
// DefaultConfig.
func New(cfg *Config, initial map[string]any, opts ...Option) (*Store, error) {
	resolved := DefaultConfig()
	if cfg != nil {
		resolved.Merge(cfg)
	}
	if err := resolved.Validate(); err != nil {
		return nil, err
	}

	mode, err := node.ParseMode(resolved.MergeMode)
	if err != nil {
		return nil, err
	}

	observer, err := observability.GetObserver(resolved.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	var minLevel observability.Level
	if resolved.MinLevel != "" {
		if minLevel, err = observability.ParseLevel(resolved.MinLevel); err != nil {
			return nil, err
		}
	}

	s := &Store{
		id:       uuid.Must(uuid.NewV7()).String(),
		freezer:  node.Freezer{MaxDepth: resolved.MaxDepth},
		mode:     mode,
		observer: observer,
		metrics:  NewMetrics(),
		phase:    PhaseCreated,
	}

	for _, opt := range opts {
		opt(s)
	}
	s.observer = observability.NewThresholdObserver(minLevel, s.observer)

	root, err := s.freezer.FreezeMapping(initial)
	if err != nil {
		return nil, fmt.Errorf("failed to freeze initial state: %w", err)
	}

	s.mu.Lock()
	s.root = root
	s.phase = PhaseLocked
	s.mu.Unlock()

	s.emit(context.Background(), EventCreate, observability.LevelVerbose, map[string]any{
		"keys": root.Len(),
		"mode": s.mode.String(),
	})

	return s, nil
}

// ID returns the store's unique identifier.
func (s *Store) ID() string {
	return s.id
}

// State returns the current root. The returned mapping never changes; later
// updates replace the store's root rather than modifying it.
func (s *Store) State() *node.Mapping {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

// Get looks up a value in the current state by path.
func (s *Store) Get(path ...string) (node.Node, bool) {
	return s.State().Lookup(path...)
}

// Snapshot returns a mutable deep copy of the current state.
func (s *Store) Snapshot() map[string]any {
	return s.State().ExportMap()
}

// Phase returns the current lifecycle phase.
func (s *Store) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Metrics returns the store's activity counters.
func (s *Store) Metrics() *Metrics {
	return s.metrics
}

// SetState merges partial into the state. A nil partial changes nothing but
// still counts as an update.
func (s *Store) SetState(partial map[string]any) error {
	return s.SetStateContext(context.Background(), partial)
}

// SetStateContext is SetState with a context for observers.
func (s *Store) SetStateContext(ctx context.Context, partial map[string]any) error {
	frozen, err := s.freezer.FreezeMapping(partial)
	if err != nil {
		s.reject(ctx, err)
		return err
	}
	return s.apply(ctx, frozen)
}

// Apply merges an already-frozen partial into the state. The partial is held
// to the same depth and number limits as SetState input.
func (s *Store) Apply(ctx context.Context, partial *node.Mapping) error {
	if partial == nil {
		partial = node.EmptyMapping()
	}
	if err := s.freezer.Check(partial); err != nil {
		s.reject(ctx, err)
		return err
	}
	return s.apply(ctx, partial)
}

func (s *Store) apply(ctx context.Context, partial *node.Mapping) error {
	s.emit(ctx, EventUpdateStart, observability.LevelVerbose, map[string]any{
		"keys": partial.Len(),
	})

	before, after, err := s.merge(partial)
	if err != nil {
		s.reject(ctx, err)
		return err
	}

	s.metrics.RecordUpdate(time.Now())
	s.emit(ctx, EventUpdateComplete, observability.LevelVerbose, map[string]any{
		"keys":    partial.Len(),
		"changed": node.Diff(before, after),
	})

	if s.onUpdate != nil {
		s.metrics.RecordCallback()
		s.emit(ctx, EventCallback, observability.LevelVerbose, nil)
		s.onUpdate(after)
	}

	return nil
}

// merge holds the write lock and the unlocked phase for exactly the span of
// one merge and commit.
func (s *Store) merge(partial *node.Mapping) (before, after *node.Mapping, err error) {
	s.write.Lock()
	defer s.write.Unlock()

	s.setPhase(PhaseUnlocked)
	defer s.setPhase(PhaseLocked)

	before = s.State()
	after, err = node.Merge(before, partial, s.mode)
	if err != nil {
		return before, nil, err
	}

	s.mu.Lock()
	s.root = after
	s.mu.Unlock()

	return before, after, nil
}

func (s *Store) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

func (s *Store) reject(ctx context.Context, err error) {
	s.metrics.RecordRejected()
	s.emit(ctx, EventUpdateRejected, observability.LevelWarning, map[string]any{
		"error": err.Error(),
	})
}

func (s *Store) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["store"] = s.id

	s.observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "store",
		Data:      data,
	})
}
