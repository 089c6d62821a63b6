package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the workflow and prompts for consistency",
	Long:  `Loads the configuration and prompt overrides, compiles the workflow and reports errors and warnings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		eng, err := a.engine(cmd)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, w := range eng.Graph().Warnings() {
			fmt.Fprintf(out, "warning: %v\n", w)
		}
		fmt.Fprintln(out, "Workflow is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
