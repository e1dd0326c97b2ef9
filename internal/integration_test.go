package internal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/barooo/wires/internal/cli"
	"github.com/barooo/wires/internal/core"
	"github.com/barooo/wires/internal/storage"
	"github.com/barooo/wires/pkg/models"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// newTestApp initializes a fresh repository in a temporary directory and
// wires an App against it. The database is closed when the test finishes.
func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	if _, err := storage.Init(dir); err != nil {
		t.Fatalf("initializing repository: %v", err)
	}
	app := NewApp(dir)
	if app.Engine == nil {
		t.Fatalf("engine not wired: %v", cli.EngineErr)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func mustCreate(t *testing.T, app *App, title string, priority int) *models.Wire {
	t.Helper()
	w, err := app.Engine.CreateWire(context.Background(), title, "", priority)
	if err != nil {
		t.Fatalf("creating wire %q: %v", title, err)
	}
	return w
}

func mustDepend(t *testing.T, app *App, wireID, dependsOn string) {
	t.Helper()
	if err := app.Engine.AddDependency(context.Background(), wireID, dependsOn); err != nil {
		t.Fatalf("adding dependency %s -> %s: %v", wireID, dependsOn, err)
	}
}

// =========================================================================
// 1. End-to-end wire lifecycle: create -> depend -> ready -> start -> done
// =========================================================================

func TestIntegration_WireLifecycle(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	auth := mustCreate(t, app, "Design auth flow", 5)
	db := mustCreate(t, app, "Provision database", 9)
	api := mustCreate(t, app, "Build API endpoints", 8)

	if auth.Status != models.StatusTodo {
		t.Fatalf("new wire status = %s, want %s", auth.Status, models.StatusTodo)
	}
	if auth.ID == db.ID || db.ID == api.ID || auth.ID == api.ID {
		t.Fatalf("expected distinct ids, got %s %s %s", auth.ID, db.ID, api.ID)
	}

	mustDepend(t, app, api.ID, auth.ID)
	mustDepend(t, app, api.ID, db.ID)

	// Both prerequisites are ready, the api wire is blocked. Among todo
	// wires the higher priority comes first.
	ready, err := app.Engine.ReadyWires(ctx)
	if err != nil {
		t.Fatalf("ready: %v", err)
	}
	if len(ready) != 2 {
		t.Fatalf("expected 2 ready wires, got %d", len(ready))
	}
	if ready[0].ID != db.ID || ready[1].ID != auth.ID {
		t.Errorf("ready order = [%s %s], want [%s %s]", ready[0].ID, ready[1].ID, db.ID, auth.ID)
	}

	// Starting a wire moves it ahead of higher-priority todo wires.
	if _, _, err := app.Engine.SetStatus(ctx, auth.ID, models.StatusInProgress); err != nil {
		t.Fatalf("starting auth: %v", err)
	}
	ready, err = app.Engine.ReadyWires(ctx)
	if err != nil {
		t.Fatalf("ready after start: %v", err)
	}
	if len(ready) != 2 || ready[0].ID != auth.ID {
		t.Fatalf("expected in-progress wire first, got %+v", ready)
	}

	// Completing both prerequisites frees the blocked wire.
	for _, id := range []string{auth.ID, db.ID} {
		_, warnings, err := app.Engine.SetStatus(ctx, id, models.StatusDone)
		if err != nil {
			t.Fatalf("completing %s: %v", id, err)
		}
		if len(warnings) != 0 {
			t.Errorf("unexpected warnings completing %s: %+v", id, warnings)
		}
	}
	ready, err = app.Engine.ReadyWires(ctx)
	if err != nil {
		t.Fatalf("ready after completion: %v", err)
	}
	if len(ready) != 1 || ready[0].ID != api.ID {
		t.Fatalf("expected only the api wire ready, got %+v", ready)
	}

	// The detail view carries prerequisite statuses in both directions.
	got, err := app.Engine.GetWire(ctx, api.ID)
	if err != nil {
		t.Fatalf("getting api wire: %v", err)
	}
	if len(got.DependsOn) != 2 {
		t.Fatalf("expected 2 prerequisites, got %d", len(got.DependsOn))
	}
	for _, d := range got.DependsOn {
		if d.Status != models.StatusDone {
			t.Errorf("prerequisite %s status = %s, want %s", d.ID, d.Status, models.StatusDone)
		}
	}
	back, err := app.Engine.GetWire(ctx, auth.ID)
	if err != nil {
		t.Fatalf("getting auth wire: %v", err)
	}
	if len(back.Blocks) != 1 || back.Blocks[0].ID != api.ID {
		t.Errorf("auth blocks = %+v, want [%s]", back.Blocks, api.ID)
	}

	// Finishing the api wire raises no warnings now.
	wire, warnings, err := app.Engine.SetStatus(ctx, api.ID, models.StatusDone)
	if err != nil {
		t.Fatalf("completing api: %v", err)
	}
	if wire.Status != models.StatusDone {
		t.Errorf("api status = %s, want %s", wire.Status, models.StatusDone)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %+v", warnings)
	}
}

// =========================================================================
// 2. Done-with-warnings policy: incomplete prerequisites warn, never block.
// =========================================================================

func TestIntegration_DoneWithIncompletePrerequisitesWarns(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	parent := mustCreate(t, app, "Ship feature", 5)
	dep := mustCreate(t, app, "Write docs", 1)
	mustDepend(t, app, parent.ID, dep.ID)

	wire, warnings, err := app.Engine.SetStatus(ctx, parent.ID, models.StatusDone)
	if err != nil {
		t.Fatalf("completing parent: %v", err)
	}
	if wire.Status != models.StatusDone {
		t.Errorf("status = %s, want %s", wire.Status, models.StatusDone)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].ID != dep.ID || warnings[0].Status != models.StatusTodo {
		t.Errorf("warning = %+v, want %s in %s", warnings[0], dep.ID, models.StatusTodo)
	}

	// The transition persisted despite the warning.
	got, err := app.Engine.GetWire(ctx, parent.ID)
	if err != nil {
		t.Fatalf("reloading parent: %v", err)
	}
	if got.Status != models.StatusDone {
		t.Errorf("persisted status = %s, want %s", got.Status, models.StatusDone)
	}

	// Cancelled prerequisites still warn; only completion satisfies.
	if _, _, err := app.Engine.SetStatus(ctx, dep.ID, models.StatusCancelled); err != nil {
		t.Fatalf("cancelling dep: %v", err)
	}
	other := mustCreate(t, app, "Announce release", 2)
	mustDepend(t, app, other.ID, dep.ID)
	_, warnings, err = app.Engine.SetStatus(ctx, other.ID, models.StatusDone)
	if err != nil {
		t.Fatalf("completing other: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Status != models.StatusCancelled {
		t.Errorf("expected one cancelled-prerequisite warning, got %+v", warnings)
	}
}

// =========================================================================
// 3. Cycle guard against the persisted graph.
// =========================================================================

func TestIntegration_CycleRejectedAcrossPersistedEdges(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	a := mustCreate(t, app, "alpha", 0)
	b := mustCreate(t, app, "beta", 0)
	c := mustCreate(t, app, "gamma", 0)
	mustDepend(t, app, a.ID, b.ID)
	mustDepend(t, app, b.ID, c.ID)

	// Closing the loop through two stored edges reports the full path.
	err := app.Engine.AddDependency(ctx, c.ID, a.ID)
	var cerr *models.CycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	want := []string{c.ID, a.ID, b.ID, c.ID}
	if len(cerr.Path) != len(want) {
		t.Fatalf("cycle path = %v, want %v", cerr.Path, want)
	}
	for i, id := range want {
		if cerr.Path[i] != id {
			t.Fatalf("cycle path = %v, want %v", cerr.Path, want)
		}
	}

	// Self-dependency is the shortest cycle.
	err = app.Engine.AddDependency(ctx, a.ID, a.ID)
	if !errors.As(err, &cerr) {
		t.Fatalf("expected CycleError for self-dependency, got %v", err)
	}

	// Rejected edges leave no trace, and re-adding an existing edge is
	// a no-op.
	if err := app.Engine.AddDependency(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("re-adding edge: %v", err)
	}
	graph, err := app.Engine.ExportGraph(ctx)
	if err != nil {
		t.Fatalf("exporting graph: %v", err)
	}
	if len(graph.Edges) != 2 {
		t.Errorf("expected 2 edges, got %d: %+v", len(graph.Edges), graph.Edges)
	}

	// Converging paths on a shared prerequisite are not a cycle.
	d := mustCreate(t, app, "delta", 0)
	mustDepend(t, app, d.ID, a.ID)
	mustDepend(t, app, d.ID, c.ID)
}

// =========================================================================
// 4. Cascade delete: removing a prerequisite unblocks its dependents.
// =========================================================================

func TestIntegration_DeletePrerequisiteCascades(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	a := mustCreate(t, app, "Deploy service", 4)
	b := mustCreate(t, app, "Obsolete migration", 1)
	mustDepend(t, app, a.ID, b.ID)

	if err := app.Engine.DeleteWire(ctx, b.ID); err != nil {
		t.Fatalf("deleting prerequisite: %v", err)
	}
	if _, err := app.Engine.GetWire(ctx, b.ID); !errors.Is(err, models.ErrWireNotFound) {
		t.Fatalf("expected %v after delete, got %v", models.ErrWireNotFound, err)
	}

	// The dependent wire survives with the edge gone.
	got, err := app.Engine.GetWire(ctx, a.ID)
	if err != nil {
		t.Fatalf("getting dependent: %v", err)
	}
	if len(got.DependsOn) != 0 {
		t.Errorf("expected no prerequisites left, got %+v", got.DependsOn)
	}

	graph, err := app.Engine.ExportGraph(ctx)
	if err != nil {
		t.Fatalf("exporting graph: %v", err)
	}
	if len(graph.Nodes) != 1 || len(graph.Edges) != 0 {
		t.Errorf("graph = %d nodes %d edges, want 1 node 0 edges", len(graph.Nodes), len(graph.Edges))
	}

	ready, err := app.Engine.ReadyWires(ctx)
	if err != nil {
		t.Fatalf("ready: %v", err)
	}
	if len(ready) != 1 || ready[0].ID != a.ID {
		t.Errorf("expected the dependent to be ready, got %+v", ready)
	}
}

// =========================================================================
// 5. Multi-field update lands atomically.
// =========================================================================

func TestIntegration_UpdateWireAppliesAllFields(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	w := mustCreate(t, app, "Draft schema", 1)

	title := "Final schema"
	desc := "agreed in review"
	priority := 6
	status := models.StatusInProgress
	wire, warnings, err := app.Engine.UpdateWire(ctx, w.ID, models.WireUpdate{
		Title:       &title,
		Description: &desc,
		Priority:    &priority,
		Status:      &status,
	})
	if err != nil {
		t.Fatalf("updating wire: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %+v", warnings)
	}
	if wire.Title != title || wire.Description != desc || wire.Priority != priority || wire.Status != status {
		t.Errorf("updated wire = %+v", wire)
	}
	if wire.UpdatedAt < wire.CreatedAt {
		t.Errorf("updated_at %d before created_at %d", wire.UpdatedAt, wire.CreatedAt)
	}

	// The graph export reflects the new fields.
	graph, err := app.Engine.ExportGraph(ctx)
	if err != nil {
		t.Fatalf("exporting graph: %v", err)
	}
	if len(graph.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(graph.Nodes))
	}
	node := graph.Nodes[0]
	if node.Title != title || node.Status != status || node.Priority != priority {
		t.Errorf("node = %+v", node)
	}
}

// =========================================================================
// 6. Repository discovery and wiring.
// =========================================================================

func TestIntegration_DiscoveryFromNestedDirectory(t *testing.T) {
	root := t.TempDir()
	if _, err := storage.Init(root); err != nil {
		t.Fatalf("initializing repository: %v", err)
	}
	app := NewApp(root)
	t.Cleanup(func() { _ = app.Close() })
	w := mustCreate(t, app, "Visible from below", 0)

	nested := filepath.Join(root, "services", "api")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("creating nested dir: %v", err)
	}
	nestedApp := NewApp(nested)
	t.Cleanup(func() { _ = nestedApp.Close() })
	if nestedApp.Engine == nil {
		t.Fatalf("engine not wired from nested dir: %v", cli.EngineErr)
	}

	wires, err := nestedApp.Engine.ListWires(context.Background(), nil)
	if err != nil {
		t.Fatalf("listing from nested dir: %v", err)
	}
	if len(wires) != 1 || wires[0].ID != w.ID {
		t.Errorf("expected [%s], got %+v", w.ID, wires)
	}
}

func TestIntegration_NewAppWithoutRepository(t *testing.T) {
	app := NewApp(t.TempDir())
	t.Cleanup(func() { _ = app.Close() })

	if app.Engine != nil {
		t.Fatal("expected no engine outside a repository")
	}
	if !errors.Is(cli.EngineErr, models.ErrNotRepository) {
		t.Errorf("EngineErr = %v, want %v", cli.EngineErr, models.ErrNotRepository)
	}
}

// =========================================================================
// 7. Configuration pickup.
// =========================================================================

func TestIntegration_ConfigLoadedFromRepository(t *testing.T) {
	dir := t.TempDir()
	dbPath, err := storage.Init(dir)
	if err != nil {
		t.Fatalf("initializing repository: %v", err)
	}
	cfgYAML := "format: json\ndefault_priority: 7\n"
	if err := os.WriteFile(filepath.Join(filepath.Dir(dbPath), "config.yaml"), []byte(cfgYAML), 0o644); err != nil {
		t.Fatalf("writing config.yaml: %v", err)
	}

	app := NewApp(dir)
	t.Cleanup(func() { _ = app.Close() })
	if app.Config == nil {
		t.Fatal("expected loaded config")
	}
	if app.Config.Format != core.FormatJSON {
		t.Errorf("Format = %q, want %q", app.Config.Format, core.FormatJSON)
	}
	if app.Config.DefaultPriority != 7 {
		t.Errorf("DefaultPriority = %d, want 7", app.Config.DefaultPriority)
	}
	if cli.Cfg != app.Config {
		t.Error("cli layer should receive the loaded config")
	}
}

func TestIntegration_InvalidConfigFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	dbPath, err := storage.Init(dir)
	if err != nil {
		t.Fatalf("initializing repository: %v", err)
	}
	if err := os.WriteFile(filepath.Join(filepath.Dir(dbPath), "config.yaml"), []byte("format: banana\n"), 0o644); err != nil {
		t.Fatalf("writing config.yaml: %v", err)
	}

	app := NewApp(dir)
	t.Cleanup(func() { _ = app.Close() })
	if app.Engine == nil {
		t.Fatal("config problems must not prevent engine wiring")
	}
	if app.Config.Format != core.FormatAuto {
		t.Errorf("Format = %q, want %q", app.Config.Format, core.FormatAuto)
	}
}
