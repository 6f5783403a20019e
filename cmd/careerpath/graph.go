package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/careerpath/internal/presentation/graph"
	"github.com/aretw0/careerpath/internal/runtime"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the agent pipeline visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the supervisor routes and the agent chain.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out := cmd.OutOrStdout()

		switch format {
		case "mermaid":
			fmt.Fprint(out, graph.GenerateMermaid(runtime.Transitions(), nil))
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(runtime.Transitions())
		default:
			return fmt.Errorf("unknown format %q (supported: mermaid, json)", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("format", "f", "mermaid", "Output format: mermaid or json")
}
