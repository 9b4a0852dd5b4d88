package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"convoy/internal/config"
	"convoy/internal/engine"
	"convoy/internal/formatting"
)

// orderCmd prints the computed startup order, one service per line, which
// makes it easy to consume from shell scripts.
var orderCmd = &cobra.Command{
	Use:   "order [stack-dir]",
	Short: "Print the service startup order",
	Long: `Resolve the stack and print the startup order, one service per line.
Earlier services must be started, and confirmed available, before later
services that depend on them.

When the configuration has fatal issues no order exists; the diagnostics are
printed to stderr and the command exits with code 2.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOrder,
}

func init() {
	rootCmd.AddCommand(orderCmd)
}

func runOrder(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	st, err := config.LoadStack(dir)
	if err != nil {
		return err
	}

	result := engine.Resolve(st.Catalog, st.Instances)
	if !result.Report.Ok() {
		if err := formatting.Render(cmd.ErrOrStderr(), result.Report, formatting.FormatTable); err != nil {
			return err
		}
		return &FatalIssuesError{Count: len(result.Report.Fatal)}
	}

	for _, name := range result.Report.StartupOrder {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
