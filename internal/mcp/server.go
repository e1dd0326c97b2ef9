// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the wires dependency graph as MCP tools for AI coding assistants.
package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/barooo/wires/internal/core"
	"github.com/barooo/wires/pkg/models"
)

// Server wraps the wires engine and exposes it as MCP tools.
type Server struct {
	server *gomcp.Server
	engine core.Engine
}

// NewServer creates a new MCP server around the given engine.
func NewServer(engine core.Engine, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{engine: engine}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "wires", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on the given transport, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type wireOutput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Priority    int    `json:"priority"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

type dependencyOutput struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type wireDetailOutput struct {
	wireOutput
	DependsOn []dependencyOutput `json:"depends_on"`
	Blocks    []dependencyOutput `json:"blocks"`
}

type listWiresInput struct {
	Status string `json:"status,omitempty" jsonschema:"filter wires by status (TODO, IN_PROGRESS, DONE, CANCELLED)"`
}

type listWiresOutput struct {
	Wires []wireDetailOutput `json:"wires"`
	Count int                `json:"count"`
}

type getWireInput struct {
	WireID string `json:"wire_id" jsonschema:"required,the 7-character wire id"`
}

type createWireInput struct {
	Title       string `json:"title" jsonschema:"required,short display title for the wire"`
	Description string `json:"description,omitempty" jsonschema:"optional free-form description"`
	Priority    int    `json:"priority,omitempty" jsonschema:"priority, higher sorts first in ready output (default 0)"`
}

type updateWireInput struct {
	WireID      string `json:"wire_id" jsonschema:"required,the 7-character wire id"`
	Title       string `json:"title,omitempty" jsonschema:"new title, unchanged when omitted"`
	Description string `json:"description,omitempty" jsonschema:"new description, unchanged when omitted"`
	Status      string `json:"status,omitempty" jsonschema:"new status (TODO, IN_PROGRESS, DONE, CANCELLED), unchanged when omitted"`
	Priority    *int   `json:"priority,omitempty" jsonschema:"new priority, unchanged when omitted"`
}

type setStatusInput struct {
	WireID string `json:"wire_id" jsonschema:"required,the 7-character wire id"`
	Status string `json:"status" jsonschema:"required,the new status (TODO, IN_PROGRESS, DONE, CANCELLED)"`
}

type warningOutput struct {
	Type   string `json:"type"`
	WireID string `json:"wire_id"`
	Status string `json:"status"`
}

type setStatusOutput struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	UpdatedAt int64           `json:"updated_at"`
	Warnings  []warningOutput `json:"warnings,omitempty"`
}

type edgeInput struct {
	WireID    string `json:"wire_id" jsonschema:"required,the wire that depends on another"`
	DependsOn string `json:"depends_on" jsonschema:"required,the wire it depends on"`
}

type messageOutput struct {
	Message string `json:"message"`
}

type readyWiresInput struct{}

type readyWiresOutput struct {
	Wires []wireOutput `json:"wires"`
	Count int          `json:"count"`
}

type deleteWireInput struct {
	WireID string `json:"wire_id" jsonschema:"required,the 7-character wire id"`
}

type exportGraphInput struct{}

type graphNodeOutput struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Priority int    `json:"priority"`
}

type graphEdgeOutput struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type exportGraphOutput struct {
	Nodes []graphNodeOutput `json:"nodes"`
	Edges []graphEdgeOutput `json:"edges"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_wires",
		Description: "List all wires with their dependencies, newest first. Optionally filter by status.",
	}, s.handleListWires)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_wire",
		Description: "Get one wire by id, including what it depends on and what it blocks.",
	}, s.handleGetWire)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "create_wire",
		Description: "Create a new wire in TODO status and return it with its generated id.",
	}, s.handleCreateWire)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "update_wire",
		Description: "Update any combination of a wire's title, description, status, and priority atomically.",
	}, s.handleUpdateWire)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "set_status",
		Description: "Set a wire's status. Completing a wire with unfinished dependencies succeeds but returns warnings naming them.",
	}, s.handleSetStatus)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_dependency",
		Description: "Record that one wire depends on another. Rejected if the edge would close a cycle, re-adding an existing edge is a no-op.",
	}, s.handleAddDependency)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "remove_dependency",
		Description: "Remove a dependency edge. Removing an edge that does not exist succeeds silently.",
	}, s.handleRemoveDependency)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "ready_wires",
		Description: "List wires ready to work on: TODO or IN_PROGRESS with every dependency DONE, in-progress first, then priority descending.",
	}, s.handleReadyWires)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_wire",
		Description: "Delete a wire permanently, removing dependency edges in both directions.",
	}, s.handleDeleteWire)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "export_graph",
		Description: "Export the full dependency graph as nodes and edges. Edges point from the dependent wire to its prerequisite.",
	}, s.handleExportGraph)
}

// --- Tool handlers ---

func (s *Server) handleListWires(ctx context.Context, _ *gomcp.CallToolRequest, input listWiresInput) (*gomcp.CallToolResult, listWiresOutput, error) {
	var filter *models.Status
	if input.Status != "" {
		status, err := models.ParseStatus(input.Status)
		if err != nil {
			return errorResult(err.Error()), listWiresOutput{}, nil
		}
		filter = &status
	}

	wires, err := s.engine.ListWires(ctx, filter)
	if err != nil {
		return errorResult(fmt.Sprintf("listing wires: %s", err)), listWiresOutput{}, nil
	}

	out := listWiresOutput{
		Wires: make([]wireDetailOutput, len(wires)),
		Count: len(wires),
	}
	for i := range wires {
		out.Wires[i] = wireToDetailOutput(&wires[i])
	}

	return nil, out, nil
}

func (s *Server) handleGetWire(ctx context.Context, _ *gomcp.CallToolRequest, input getWireInput) (*gomcp.CallToolResult, wireDetailOutput, error) {
	if input.WireID == "" {
		return errorResult("wire_id is required"), wireDetailOutput{}, nil
	}

	wire, err := s.engine.GetWire(ctx, input.WireID)
	if err != nil {
		return errorResult(err.Error()), wireDetailOutput{}, nil
	}

	return nil, wireToDetailOutput(wire), nil
}

func (s *Server) handleCreateWire(ctx context.Context, _ *gomcp.CallToolRequest, input createWireInput) (*gomcp.CallToolResult, wireOutput, error) {
	if input.Title == "" {
		return errorResult("title is required"), wireOutput{}, nil
	}

	wire, err := s.engine.CreateWire(ctx, input.Title, input.Description, input.Priority)
	if err != nil {
		return errorResult(fmt.Sprintf("creating wire: %s", err)), wireOutput{}, nil
	}

	return nil, wireToOutput(wire), nil
}

func (s *Server) handleUpdateWire(ctx context.Context, _ *gomcp.CallToolRequest, input updateWireInput) (*gomcp.CallToolResult, wireOutput, error) {
	if input.WireID == "" {
		return errorResult("wire_id is required"), wireOutput{}, nil
	}

	var upd models.WireUpdate
	if input.Title != "" {
		upd.Title = &input.Title
	}
	if input.Description != "" {
		upd.Description = &input.Description
	}
	if input.Status != "" {
		status, err := models.ParseStatus(input.Status)
		if err != nil {
			return errorResult(err.Error()), wireOutput{}, nil
		}
		upd.Status = &status
	}
	upd.Priority = input.Priority

	wire, _, err := s.engine.UpdateWire(ctx, input.WireID, upd)
	if err != nil {
		return errorResult(err.Error()), wireOutput{}, nil
	}

	return nil, wireToOutput(wire), nil
}

func (s *Server) handleSetStatus(ctx context.Context, _ *gomcp.CallToolRequest, input setStatusInput) (*gomcp.CallToolResult, setStatusOutput, error) {
	if input.WireID == "" {
		return errorResult("wire_id is required"), setStatusOutput{}, nil
	}
	status, err := models.ParseStatus(input.Status)
	if err != nil {
		return errorResult(err.Error()), setStatusOutput{}, nil
	}

	wire, incomplete, err := s.engine.SetStatus(ctx, input.WireID, status)
	if err != nil {
		return errorResult(err.Error()), setStatusOutput{}, nil
	}

	out := setStatusOutput{
		ID:        wire.ID,
		Status:    string(wire.Status),
		UpdatedAt: wire.UpdatedAt,
	}
	for _, dep := range incomplete {
		out.Warnings = append(out.Warnings, warningOutput{
			Type:   "incomplete_dependency",
			WireID: dep.ID,
			Status: string(dep.Status),
		})
	}

	return nil, out, nil
}

func (s *Server) handleAddDependency(ctx context.Context, _ *gomcp.CallToolRequest, input edgeInput) (*gomcp.CallToolResult, messageOutput, error) {
	if input.WireID == "" || input.DependsOn == "" {
		return errorResult("wire_id and depends_on are required"), messageOutput{}, nil
	}

	if err := s.engine.AddDependency(ctx, input.WireID, input.DependsOn); err != nil {
		return errorResult(err.Error()), messageOutput{}, nil
	}

	out := messageOutput{
		Message: fmt.Sprintf("wire %s now depends on %s", input.WireID, input.DependsOn),
	}
	return nil, out, nil
}

func (s *Server) handleRemoveDependency(ctx context.Context, _ *gomcp.CallToolRequest, input edgeInput) (*gomcp.CallToolResult, messageOutput, error) {
	if input.WireID == "" || input.DependsOn == "" {
		return errorResult("wire_id and depends_on are required"), messageOutput{}, nil
	}

	if err := s.engine.RemoveDependency(ctx, input.WireID, input.DependsOn); err != nil {
		return errorResult(err.Error()), messageOutput{}, nil
	}

	out := messageOutput{
		Message: fmt.Sprintf("wire %s no longer depends on %s", input.WireID, input.DependsOn),
	}
	return nil, out, nil
}

func (s *Server) handleReadyWires(ctx context.Context, _ *gomcp.CallToolRequest, _ readyWiresInput) (*gomcp.CallToolResult, readyWiresOutput, error) {
	wires, err := s.engine.ReadyWires(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("resolving ready wires: %s", err)), readyWiresOutput{}, nil
	}

	out := readyWiresOutput{
		Wires: make([]wireOutput, len(wires)),
		Count: len(wires),
	}
	for i := range wires {
		out.Wires[i] = wireToOutput(&wires[i])
	}

	return nil, out, nil
}

func (s *Server) handleDeleteWire(ctx context.Context, _ *gomcp.CallToolRequest, input deleteWireInput) (*gomcp.CallToolResult, messageOutput, error) {
	if input.WireID == "" {
		return errorResult("wire_id is required"), messageOutput{}, nil
	}

	if err := s.engine.DeleteWire(ctx, input.WireID); err != nil {
		return errorResult(err.Error()), messageOutput{}, nil
	}

	out := messageOutput{
		Message: fmt.Sprintf("wire %s deleted", input.WireID),
	}
	return nil, out, nil
}

func (s *Server) handleExportGraph(ctx context.Context, _ *gomcp.CallToolRequest, _ exportGraphInput) (*gomcp.CallToolResult, exportGraphOutput, error) {
	graph, err := s.engine.ExportGraph(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("exporting graph: %s", err)), exportGraphOutput{}, nil
	}

	out := exportGraphOutput{
		Nodes: make([]graphNodeOutput, len(graph.Nodes)),
		Edges: make([]graphEdgeOutput, len(graph.Edges)),
	}
	for i, n := range graph.Nodes {
		out.Nodes[i] = graphNodeOutput{
			ID:       n.ID,
			Title:    n.Title,
			Status:   string(n.Status),
			Priority: n.Priority,
		}
	}
	for i, e := range graph.Edges {
		out.Edges[i] = graphEdgeOutput{From: e.From, To: e.To}
	}

	return nil, out, nil
}

// --- Helpers ---

func wireToOutput(w *models.Wire) wireOutput {
	return wireOutput{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Status:      string(w.Status),
		Priority:    w.Priority,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func wireToDetailOutput(w *models.WireWithDeps) wireDetailOutput {
	out := wireDetailOutput{
		wireOutput: wireToOutput(&w.Wire),
		DependsOn:  make([]dependencyOutput, len(w.DependsOn)),
		Blocks:     make([]dependencyOutput, len(w.Blocks)),
	}
	for i, dep := range w.DependsOn {
		out.DependsOn[i] = dependencyOutput{ID: dep.ID, Title: dep.Title, Status: string(dep.Status)}
	}
	for i, blocked := range w.Blocks {
		out.Blocks[i] = dependencyOutput{ID: blocked.ID, Title: blocked.Title, Status: string(blocked.Status)}
	}
	return out
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
