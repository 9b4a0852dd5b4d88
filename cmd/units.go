package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"convoy/internal/config"
	"convoy/internal/engine"
	"convoy/internal/formatting"
	"convoy/internal/unit"
	"convoy/pkg/logging"
)

var unitsOutDir string

// unitsCmd emits the per-service supervisor drop-ins: the Wants/After/
// Conflicts lists derived from dependency resolution. Full unit generation
// is the supervisor layer's job; convoy only contributes the ordering and
// conflict constraints.
var unitsCmd = &cobra.Command{
	Use:   "units [stack-dir]",
	Short: "Emit systemd drop-ins with the resolved ordering constraints",
	Long: `Resolve the stack and emit, per enabled service, a systemd drop-in
fragment carrying its Wants=, After= and Conflicts= options.

Without --out the fragments are printed to stdout. With --out they are
written to <out>/<service>.service.d/convoy.conf.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUnits,
}

func init() {
	rootCmd.AddCommand(unitsCmd)

	unitsCmd.Flags().StringVar(&unitsOutDir, "out", "", "Directory to write drop-in files to")
}

func runUnits(cmd *cobra.Command, args []string) error {
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

	for _, res := range result.Resolved {
		directive := unit.FromResolved(res)
		dropIn, err := directive.DropIn()
		if err != nil {
			return err
		}

		if unitsOutDir == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s\n", directive.FileName(), dropIn)
			continue
		}

		unitDir := filepath.Join(unitsOutDir, res.Name+".service.d")
		if err := os.MkdirAll(unitDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", unitDir, err)
		}
		path := filepath.Join(unitDir, "convoy.conf")
		if err := os.WriteFile(path, []byte(dropIn), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		logging.Info("Units", "Wrote %s", path)
	}
	return nil
}
