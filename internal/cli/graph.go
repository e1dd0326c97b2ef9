package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/barooo/wires/internal/core"
	"github.com/barooo/wires/pkg/models"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the dependency graph",
	Long: `Export all wires and dependency edges. The default output is JSON with
"nodes" and "edges" arrays. Use --format dot for GraphViz DOT notation,
e.g. "wires graph --format dot | dot -Tsvg -o wires.svg".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := requireEngine()
		if err != nil {
			return err
		}

		graph, err := eng.ExportGraph(cmd.Context())
		if err != nil {
			return err
		}

		switch formatFlag {
		case "", core.FormatJSON:
			return printJSON(graph)
		case "dot":
			fmt.Print(renderDOT(graph))
			return nil
		default:
			return fmt.Errorf("unsupported graph format: %s (expected json or dot)", formatFlag)
		}
	},
}

// renderDOT renders the graph in GraphViz DOT notation. Edges point from
// the dependent wire to its prerequisite.
func renderDOT(g *models.Graph) string {
	var b strings.Builder
	b.WriteString("digraph wires {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=rounded];\n")
	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "  \"%s\" [label=\"%s\\n%s\"];\n", n.ID, n.ID, dotEscape(n.Title))
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "  \"%s\" -> \"%s\";\n", e.From, e.To)
	}
	b.WriteString("}\n")
	return b.String()
}

func dotEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
