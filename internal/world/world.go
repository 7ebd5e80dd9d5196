package world

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"spacebattle/internal/collision"
	"spacebattle/internal/spatial"
	"spacebattle/internal/vector"
)

var ErrNoEntity = errors.New("world: no such entity")

// Options configures a World
type Options struct {
	TileSize         int
	Arity            int
	Priorities       collision.PriorityTable
	Tables           collision.TableProvider
	StrictPriorities bool
	// Handler is told about every confirmed collision. Nil discards them.
	Handler collision.ImpactHandler
	// Workers bounds the narrow-phase fan-out. 1 checks pairs inline;
	// 0 uses GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

// World owns the grid and every entity in it and advances them in steps.
// All methods are safe for concurrent use; a step runs under one lock.
type World struct {
	mu        sync.Mutex
	arity     int
	grid      *spatial.Grid
	entities  map[uuid.UUID]*spatial.Entity
	verifier  *collision.Verifier
	processor *collision.Processor
	handler   collision.ImpactHandler
	workers   int
	log       *slog.Logger

	tick atomic.Uint64
}

// Pair is a broad-phase candidate, ordered by entity ID
type Pair struct {
	A, B *spatial.Entity
}

// New builds a world from opts
func New(opts Options) (*World, error) {
	if opts.Arity < 2 {
		return nil, fmt.Errorf("world: arity must be at least 2, got %d", opts.Arity)
	}
	if opts.Tables == nil {
		return nil, errors.New("world: no node tables")
	}
	grid, err := spatial.NewGrid(opts.TileSize)
	if err != nil {
		return nil, err
	}

	var calcOpts []collision.CalculatorOption
	if opts.StrictPriorities {
		calcOpts = append(calcOpts, collision.WithStrictPriorities())
	}
	calc := collision.NewCalculator(collision.TypeResolverFunc(KindOf), opts.Priorities, calcOpts...)
	verifier := collision.NewVerifier(calc, opts.Tables)

	handler := opts.Handler
	if handler == nil {
		handler = collision.ImpactHandlerFunc(func(context.Context, collision.Impact) error { return nil })
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &World{
		arity:     opts.Arity,
		grid:      grid,
		entities:  make(map[uuid.UUID]*spatial.Entity),
		verifier:  verifier,
		processor: collision.NewProcessor(verifier, handler),
		handler:   handler,
		workers:   workers,
		log:       logger,
	}, nil
}

// KindOf resolves the type tag of a world entity. Bodies that are not
// entities have the empty tag.
func KindOf(b collision.Body) string {
	if e, ok := b.(*spatial.Entity); ok {
		return e.Kind()
	}
	return ""
}

// Tick returns the number of completed steps
func (w *World) Tick() uint64 { return w.tick.Load() }

// Spawn creates an entity and indexes it
func (w *World) Spawn(kind string, position, velocity vector.Vector, shape string) (*spatial.Entity, error) {
	if position.Len() != w.arity || velocity.Len() != w.arity {
		return nil, fmt.Errorf("%w: %s needs %d components, got position %d velocity %d",
			vector.ErrArityMismatch, kind, w.arity, position.Len(), velocity.Len())
	}
	e, err := spatial.NewEntity(kind, position, velocity)
	if err != nil {
		return nil, err
	}
	e.SetShape(shape)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.entities[e.ID()] = e
	w.grid.Insert(e)
	return e, nil
}

// Despawn removes an entity. Unknown IDs are ignored and return false.
func (w *World) Despawn(id uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entities[id]
	if !ok {
		return false
	}
	w.grid.Remove(e)
	delete(w.entities, id)
	return true
}

// Entity looks up an entity by ID
func (w *World) Entity(id uuid.UUID) (*spatial.Entity, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entities[id]
	return e, ok
}

// Entities returns every entity ordered by ID
func (w *World) Entities() []*spatial.Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sortedEntities()
}

func (w *World) sortedEntities() []*spatial.Entity {
	out := make([]*spatial.Entity, 0, len(w.entities))
	for _, e := range w.entities {
		out = append(out, e)
	}
	slices.SortFunc(out, compareEntities)
	return out
}

func compareEntities(a, b *spatial.Entity) int {
	ida, idb := a.ID(), b.ID()
	return bytes.Compare(ida[:], idb[:])
}

// Move teleports an entity, keeping the grid in sync
func (w *World) Move(id uuid.UUID, position vector.Vector) error {
	if position.Len() != w.arity {
		return fmt.Errorf("%w: position has %d components, want %d", vector.ErrArityMismatch, position.Len(), w.arity)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entities[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoEntity, id)
	}
	w.grid.Relocate(e, position)
	return nil
}

// Neighbors returns the broad-phase candidates of an entity, ordered by ID
func (w *World) Neighbors(id uuid.UUID) ([]*spatial.Entity, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entities[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoEntity, id)
	}
	out := w.grid.NeighborsOf(e)
	slices.SortFunc(out, compareEntities)
	return out, nil
}

// ActiveTiles returns the occupied tiles of the grid
func (w *World) ActiveTiles() []spatial.Tile {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.grid.ActiveTiles()
}

// ProcessPair runs the narrow phase on two entities and fires the handler
// when they collide.
func (w *World) ProcessPair(ctx context.Context, a, b uuid.UUID) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	ea, ok := w.entities[a]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNoEntity, a)
	}
	eb, ok := w.entities[b]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNoEntity, b)
	}
	return w.processor.Process(ctx, ea, eb)
}

// Step advances every entity by its velocity, then checks every
// broad-phase pair and reports the collisions in pair order.
func (w *World) Step(ctx context.Context) ([]collision.Impact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	tick := w.tick.Add(1)
	for _, e := range w.sortedEntities() {
		next, err := e.Position().Add(e.Velocity())
		if err != nil {
			return nil, fmt.Errorf("move %s: %w", e, err)
		}
		w.grid.Relocate(e, next)
	}

	pairs := w.candidatePairs()
	w.log.DebugContext(ctx, "step", "tick", tick, "entities", len(w.entities), "pairs", len(pairs))

	var impacts []collision.Impact
	if w.workers == 1 {
		for _, p := range pairs {
			imp, hit, err := w.processor.Run(ctx, p.A, p.B)
			if err != nil {
				return impacts, fmt.Errorf("tick %d: %w", tick, err)
			}
			if hit {
				impacts = append(impacts, imp)
			}
		}
		return impacts, nil
	}

	deltas, hits, err := w.checkPairs(ctx, pairs)
	if err != nil {
		return nil, fmt.Errorf("tick %d: %w", tick, err)
	}
	for i := range pairs {
		if !hits[i] {
			continue
		}
		imp := collision.Impact{Delta: deltas[i]}
		if err := w.handler.HandleImpact(ctx, imp); err != nil {
			return impacts, fmt.Errorf("tick %d: handle %s impact: %w", tick, imp.NodeType, err)
		}
		impacts = append(impacts, imp)
	}
	return impacts, nil
}

// candidatePairs lists every unordered neighbor pair once
func (w *World) candidatePairs() []Pair {
	var pairs []Pair
	for _, e := range w.sortedEntities() {
		for _, n := range w.grid.NeighborsOf(e) {
			if compareEntities(e, n) < 0 {
				pairs = append(pairs, Pair{A: e, B: n})
			}
		}
	}
	slices.SortFunc(pairs, func(x, y Pair) int {
		if c := compareEntities(x.A, y.A); c != 0 {
			return c
		}
		return compareEntities(x.B, y.B)
	})
	return pairs
}

// checkPairs runs the narrow phase concurrently. It only reads the grid
// and the tables, which nothing mutates while the step lock is held.
func (w *World) checkPairs(ctx context.Context, pairs []Pair) ([]collision.Delta, []bool, error) {
	deltas := make([]collision.Delta, len(pairs))
	hits := make([]bool, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)
	for i, p := range pairs {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, hit, err := w.verifier.Check(p.A, p.B)
			if err != nil {
				return fmt.Errorf("%s/%s: %w", p.A.ID(), p.B.ID(), err)
			}
			deltas[i], hits[i] = d, hit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return deltas, hits, nil
}
