package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/barooo/wires/pkg/models"
)

// Store is the subset of the storage layer the engine needs. Defining it
// here keeps core independent of the storage package.
type Store interface {
	// WithTx runs fn inside a single transaction, committing on nil and
	// rolling back on error.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	GetWireWithDeps(ctx context.Context, id string) (*models.WireWithDeps, error)
	ListWires(ctx context.Context, status *models.Status) ([]models.Wire, error)
	ListWiresWithDeps(ctx context.Context, status *models.Status) ([]models.WireWithDeps, error)
	ListEdges(ctx context.Context) ([]models.GraphEdge, error)
}

// Tx is one atomic unit of work against the store.
type Tx interface {
	WireExists(ctx context.Context, id string) (bool, error)
	GetWire(ctx context.Context, id string) (*models.Wire, error)
	InsertWire(ctx context.Context, wire *models.Wire) error
	UpdateWire(ctx context.Context, id string, upd models.WireUpdate, now int64) error
	DeleteWire(ctx context.Context, id string) error
	Dependencies(ctx context.Context, id string) ([]string, error)
	DependencyInfos(ctx context.Context, id string) ([]models.DependencyInfo, error)
	InsertEdge(ctx context.Context, wireID, dependsOn string) error
	DeleteEdge(ctx context.Context, wireID, dependsOn string) error
}

// Engine defines the graph and lifecycle operations behind every command.
type Engine interface {
	CreateWire(ctx context.Context, title, description string, priority int) (*models.Wire, error)
	GetWire(ctx context.Context, id string) (*models.WireWithDeps, error)
	ListWires(ctx context.Context, status *models.Status) ([]models.WireWithDeps, error)
	UpdateWire(ctx context.Context, id string, upd models.WireUpdate) (*models.Wire, []models.DependencyInfo, error)
	SetStatus(ctx context.Context, id string, status models.Status) (*models.Wire, []models.DependencyInfo, error)
	AddDependency(ctx context.Context, wireID, dependsOn string) error
	RemoveDependency(ctx context.Context, wireID, dependsOn string) error
	ReadyWires(ctx context.Context) ([]models.Wire, error)
	DeleteWire(ctx context.Context, id string) error
	ExportGraph(ctx context.Context) (*models.Graph, error)
}

// maxIDAttempts bounds how often CreateWire retries a colliding id before
// giving up.
const maxIDAttempts = 5

type engine struct {
	store Store
	ids   IDGenerator
	now   func() int64
}

// NewEngine creates an Engine backed by the given store and id generator.
func NewEngine(store Store, ids IDGenerator) Engine {
	return &engine{
		store: store,
		ids:   ids,
		now:   func() int64 { return time.Now().Unix() },
	}
}

func (e *engine) CreateWire(ctx context.Context, title, description string, priority int) (*models.Wire, error) {
	now := e.now()
	wire := &models.Wire{
		Title:       title,
		Description: description,
		Status:      models.StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
		Priority:    priority,
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		wire.ID = e.ids.NewID()
		err := e.store.WithTx(ctx, func(tx Tx) error {
			return tx.InsertWire(ctx, wire)
		})
		if errors.Is(err, models.ErrWireExists) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("creating wire: %w", err)
		}
		return wire, nil
	}
	return nil, fmt.Errorf("creating wire: %d id collisions in a row", maxIDAttempts)
}

func (e *engine) GetWire(ctx context.Context, id string) (*models.WireWithDeps, error) {
	return e.store.GetWireWithDeps(ctx, id)
}

func (e *engine) ListWires(ctx context.Context, status *models.Status) ([]models.WireWithDeps, error) {
	return e.store.ListWiresWithDeps(ctx, status)
}

// UpdateWire applies every set field in a single transaction and returns the
// updated wire. When the update moves the wire to Done, incomplete
// prerequisites are reported as warnings without blocking the transition.
func (e *engine) UpdateWire(ctx context.Context, id string, upd models.WireUpdate) (*models.Wire, []models.DependencyInfo, error) {
	var (
		wire     *models.Wire
		warnings []models.DependencyInfo
	)
	err := e.store.WithTx(ctx, func(tx Tx) error {
		if upd.Status != nil && *upd.Status == models.StatusDone {
			infos, err := tx.DependencyInfos(ctx, id)
			if err != nil {
				return err
			}
			warnings = incompleteDeps(infos)
		}

		if !upd.Empty() {
			if err := tx.UpdateWire(ctx, id, upd, e.now()); err != nil {
				return err
			}
		}

		var err error
		wire, err = tx.GetWire(ctx, id)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return wire, warnings, nil
}

func (e *engine) SetStatus(ctx context.Context, id string, status models.Status) (*models.Wire, []models.DependencyInfo, error) {
	return e.UpdateWire(ctx, id, models.WireUpdate{Status: &status})
}

// AddDependency records that wireID depends on dependsOn. Both wires must
// exist and the edge must not close a cycle; re-adding an existing edge is a
// no-op.
func (e *engine) AddDependency(ctx context.Context, wireID, dependsOn string) error {
	return e.store.WithTx(ctx, func(tx Tx) error {
		for _, id := range []string{wireID, dependsOn} {
			ok, err := tx.WireExists(ctx, id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", models.ErrWireNotFound, id)
			}
		}

		cycle, err := findCycle(ctx, wireID, dependsOn, tx.Dependencies)
		if err != nil {
			return err
		}
		if cycle != nil {
			return &models.CycleError{Path: cycle}
		}

		return tx.InsertEdge(ctx, wireID, dependsOn)
	})
}

// RemoveDependency deletes the edge if present. Removing an edge that does
// not exist succeeds silently.
func (e *engine) RemoveDependency(ctx context.Context, wireID, dependsOn string) error {
	return e.store.WithTx(ctx, func(tx Tx) error {
		return tx.DeleteEdge(ctx, wireID, dependsOn)
	})
}

// ReadyWires returns the wires that can be worked on now: Todo or InProgress
// with every prerequisite Done. InProgress wires sort before Todo, higher
// priority first within each group.
func (e *engine) ReadyWires(ctx context.Context) ([]models.Wire, error) {
	all, err := e.store.ListWiresWithDeps(ctx, nil)
	if err != nil {
		return nil, err
	}

	ready := make([]models.Wire, 0)
	for _, w := range all {
		if w.Status != models.StatusTodo && w.Status != models.StatusInProgress {
			continue
		}
		if len(incompleteDeps(w.DependsOn)) > 0 {
			continue
		}
		ready = append(ready, w.Wire)
	}

	sort.SliceStable(ready, func(i, j int) bool {
		ri, rj := readyRank(ready[i].Status), readyRank(ready[j].Status)
		if ri != rj {
			return ri < rj
		}
		return ready[i].Priority > ready[j].Priority
	})
	return ready, nil
}

func (e *engine) DeleteWire(ctx context.Context, id string) error {
	return e.store.WithTx(ctx, func(tx Tx) error {
		ok, err := tx.WireExists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", models.ErrWireNotFound, id)
		}
		return tx.DeleteWire(ctx, id)
	})
}

func (e *engine) ExportGraph(ctx context.Context) (*models.Graph, error) {
	wires, err := e.store.ListWires(ctx, nil)
	if err != nil {
		return nil, err
	}
	edges, err := e.store.ListEdges(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make([]models.GraphNode, 0, len(wires))
	for _, w := range wires {
		nodes = append(nodes, models.GraphNode{
			ID:       w.ID,
			Title:    w.Title,
			Status:   w.Status,
			Priority: w.Priority,
		})
	}
	return &models.Graph{Nodes: nodes, Edges: edges}, nil
}

// incompleteDeps filters prerequisites that are not Done yet. Cancelled
// prerequisites still count as incomplete here; only completion satisfies a
// dependency.
func incompleteDeps(infos []models.DependencyInfo) []models.DependencyInfo {
	var out []models.DependencyInfo
	for _, d := range infos {
		if d.Status != models.StatusDone {
			out = append(out, d)
		}
	}
	return out
}

func readyRank(s models.Status) int {
	if s == models.StatusInProgress {
		return 0
	}
	return 1
}
