package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/triage/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the workflow visualization",
	Long:  `Compiles the workflow and outputs a Mermaid diagram (graph TD), optionally highlighting a visited path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		eng, err := a.engine(cmd)
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if path, _ := cmd.Flags().GetString("path"); path != "" {
			overlay = graph.OverlayFromPath(strings.Split(path, ","))
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(eng.Graph(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("path", "", "Comma separated node ids to highlight")
}
