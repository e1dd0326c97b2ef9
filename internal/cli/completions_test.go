package cli

import (
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/barooo/wires/pkg/models"
)

func setupCompletionTest(t *testing.T, mock *engineMock) {
	t.Helper()
	origEngine := Engine
	t.Cleanup(func() { Engine = origEngine })
	Engine = mock
}

func completionWires() []models.WireWithDeps {
	return []models.WireWithDeps{
		tableWire("a1b2c3d", "Ship it", models.StatusTodo),
		tableWire("a9f8e7d", "Write docs", models.StatusInProgress),
		tableWire("b2c3d4e", "Old release", models.StatusDone),
	}
}

func TestCompleteWireIDs_NilEngine(t *testing.T) {
	origEngine := Engine
	defer func() { Engine = origEngine }()
	Engine = nil

	ids, directive := completeWireIDs()(showCmd, nil, "")
	if ids != nil {
		t.Errorf("expected no completions, got %v", ids)
	}
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v, want NoFileComp", directive)
	}
}

func TestCompleteWireIDs_ListsAll(t *testing.T) {
	setupCompletionTest(t, &engineMock{
		listWiresFn: func(status *models.Status) ([]models.WireWithDeps, error) {
			return completionWires(), nil
		},
	})

	ids, directive := completeWireIDs()(showCmd, nil, "")
	if len(ids) != 3 {
		t.Fatalf("expected 3 completions, got %v", ids)
	}
	if !strings.HasPrefix(ids[0], "a1b2c3d\t") {
		t.Errorf("expected id with title description, got %q", ids[0])
	}
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v, want NoFileComp", directive)
	}
}

func TestCompleteWireIDs_PrefixFilter(t *testing.T) {
	setupCompletionTest(t, &engineMock{
		listWiresFn: func(status *models.Status) ([]models.WireWithDeps, error) {
			return completionWires(), nil
		},
	})

	ids, _ := completeWireIDs()(showCmd, nil, "a")
	if len(ids) != 2 {
		t.Fatalf("expected 2 completions for prefix a, got %v", ids)
	}
	for _, id := range ids {
		if !strings.HasPrefix(id, "a") {
			t.Errorf("completion %q does not match prefix", id)
		}
	}
}

func TestCompleteWireIDs_ExcludesStatuses(t *testing.T) {
	setupCompletionTest(t, &engineMock{
		listWiresFn: func(status *models.Status) ([]models.WireWithDeps, error) {
			return completionWires(), nil
		},
	})

	ids, _ := completeWireIDs(models.StatusDone, models.StatusInProgress)(showCmd, nil, "")
	if len(ids) != 1 {
		t.Fatalf("expected 1 completion, got %v", ids)
	}
	if !strings.HasPrefix(ids[0], "a1b2c3d") {
		t.Errorf("expected only the todo wire, got %q", ids[0])
	}
}

func TestCompleteWireIDs_EngineError(t *testing.T) {
	setupCompletionTest(t, &engineMock{
		listWiresFn: func(status *models.Status) ([]models.WireWithDeps, error) {
			return nil, fmt.Errorf("database locked")
		},
	})

	ids, directive := completeWireIDs()(showCmd, nil, "")
	if ids != nil {
		t.Errorf("expected no completions on error, got %v", ids)
	}
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v, want NoFileComp", directive)
	}
}
