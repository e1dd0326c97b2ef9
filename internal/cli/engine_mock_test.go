package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/barooo/wires/pkg/models"
)

// engineMock implements core.Engine for testing. Tests set only the
// function fields they need; everything else fails loudly.
type engineMock struct {
	createWireFn       func(title, description string, priority int) (*models.Wire, error)
	getWireFn          func(id string) (*models.WireWithDeps, error)
	listWiresFn        func(status *models.Status) ([]models.WireWithDeps, error)
	updateWireFn       func(id string, upd models.WireUpdate) (*models.Wire, []models.DependencyInfo, error)
	setStatusFn        func(id string, status models.Status) (*models.Wire, []models.DependencyInfo, error)
	addDependencyFn    func(wireID, dependsOn string) error
	removeDependencyFn func(wireID, dependsOn string) error
	readyWiresFn       func() ([]models.Wire, error)
	deleteWireFn       func(id string) error
	exportGraphFn      func() (*models.Graph, error)
}

func (m *engineMock) CreateWire(_ context.Context, title, description string, priority int) (*models.Wire, error) {
	if m.createWireFn != nil {
		return m.createWireFn(title, description, priority)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *engineMock) GetWire(_ context.Context, id string) (*models.WireWithDeps, error) {
	if m.getWireFn != nil {
		return m.getWireFn(id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *engineMock) ListWires(_ context.Context, status *models.Status) ([]models.WireWithDeps, error) {
	if m.listWiresFn != nil {
		return m.listWiresFn(status)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *engineMock) UpdateWire(_ context.Context, id string, upd models.WireUpdate) (*models.Wire, []models.DependencyInfo, error) {
	if m.updateWireFn != nil {
		return m.updateWireFn(id, upd)
	}
	return nil, nil, fmt.Errorf("not implemented")
}

func (m *engineMock) SetStatus(_ context.Context, id string, status models.Status) (*models.Wire, []models.DependencyInfo, error) {
	if m.setStatusFn != nil {
		return m.setStatusFn(id, status)
	}
	return nil, nil, fmt.Errorf("not implemented")
}

func (m *engineMock) AddDependency(_ context.Context, wireID, dependsOn string) error {
	if m.addDependencyFn != nil {
		return m.addDependencyFn(wireID, dependsOn)
	}
	return fmt.Errorf("not implemented")
}

func (m *engineMock) RemoveDependency(_ context.Context, wireID, dependsOn string) error {
	if m.removeDependencyFn != nil {
		return m.removeDependencyFn(wireID, dependsOn)
	}
	return fmt.Errorf("not implemented")
}

func (m *engineMock) ReadyWires(_ context.Context) ([]models.Wire, error) {
	if m.readyWiresFn != nil {
		return m.readyWiresFn()
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *engineMock) DeleteWire(_ context.Context, id string) error {
	if m.deleteWireFn != nil {
		return m.deleteWireFn(id)
	}
	return fmt.Errorf("not implemented")
}

func (m *engineMock) ExportGraph(_ context.Context) (*models.Graph, error) {
	if m.exportGraphFn != nil {
		return m.exportGraphFn()
	}
	return nil, fmt.Errorf("not implemented")
}

// captureStdout captures stdout output during fn execution.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("creating pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = origStdout

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading pipe: %v", err)
	}
	return string(out)
}
