package models

import "fmt"

// Status represents the lifecycle state of a wire.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
	StatusCancelled  Status = "CANCELLED"
)

// AllStatuses lists every valid status in lifecycle order.
var AllStatuses = []Status{StatusTodo, StatusInProgress, StatusDone, StatusCancelled}

// ParseStatus maps a user-supplied or persisted label onto the status enum.
// Unknown labels are rejected so free-form strings never reach the engine or
// the database.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusTodo, StatusInProgress, StatusDone, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidStatus, s)
}

// Symbol returns the single-character marker used in table output.
func (s Status) Symbol() string {
	switch s {
	case StatusInProgress:
		return "◐"
	case StatusDone:
		return "●"
	case StatusCancelled:
		return "✗"
	default:
		return "○"
	}
}

// Blocking reports whether a prerequisite in this state still blocks its
// dependents in table and board views. Cancelled prerequisites are not shown
// as blockers, but only Done satisfies readiness.
func (s Status) Blocking() bool {
	return s != StatusDone && s != StatusCancelled
}

// Wire is a single tracked task. Description is optional and omitted from
// JSON when empty; timestamps are Unix seconds.
type Wire struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
	Priority    int    `json:"priority"`
}

// WireWithDeps is a wire plus both directions of its dependency
// relationships. The wire fields are flattened into the JSON object.
type WireWithDeps struct {
	Wire
	DependsOn []DependencyInfo `json:"depends_on"`
	Blocks    []DependencyInfo `json:"blocks"`
}

// DependencyInfo summarizes one side of a dependency relationship.
type DependencyInfo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status Status `json:"status"`
}

// WireUpdate is an atomic multi-field update. Nil fields are left unchanged.
// A non-nil empty Description clears the stored value.
type WireUpdate struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *int
}

// Empty reports whether the update would change nothing.
func (u WireUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil && u.Priority == nil
}

// GraphNode is a wire reduced to the fields the graph export carries.
type GraphNode struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   Status `json:"status"`
	Priority int    `json:"priority"`
}

// GraphEdge points from a dependent wire to its prerequisite.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the full dependency graph in export form.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}
