package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"convoy/internal/config"
	"convoy/internal/engine"
	"convoy/internal/formatting"
	"convoy/pkg/logging"
)

var (
	checkOutputFormat string
	checkQuiet        bool
	checkWatch        bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [stack-dir...]",
	Short: "Resolve and validate one or more stack configurations",
	Long: `Load each stack directory (catalog.yaml plus services/*.yaml), resolve
service dependencies and validate the cross-service configuration.

Independent stacks are resolved concurrently; resolution itself is a pure
function of the stack contents, so the reports are identical no matter
how the work is scheduled.

Examples:
  convoy check                     # check the stack in the current directory
  convoy check ./prod ./staging    # check two stacks concurrently
  convoy check --watch ./prod      # re-check whenever the stack changes

Exit codes: 0 when no fatal issues were found, 2 when resolution completed
but found fatal issues, 1 on any other error.`,
	Args: cobra.ArbitraryArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "Suppress non-essential output")
	checkCmd.Flags().BoolVarP(&checkWatch, "watch", "w", false, "Re-run the check when the stack directory changes")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := formatting.ParseFormat(checkOutputFormat)
	if err != nil {
		return err
	}

	dirs := args
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	if checkWatch {
		if len(dirs) != 1 {
			return fmt.Errorf("--watch supports exactly one stack directory")
		}
		return watchStack(cmd, dirs[0], format)
	}

	fatal, err := checkStacks(cmd, dirs, format)
	if err != nil {
		return err
	}
	if fatal > 0 {
		return &FatalIssuesError{Count: fatal}
	}
	return nil
}

// checkStacks loads and resolves every stack directory, printing one report
// per stack. It returns the total number of fatal issues found.
func checkStacks(cmd *cobra.Command, dirs []string, format formatting.Format) (int, error) {
	runID := uuid.NewString()
	logging.Info("Check", "Run %s: checking %d stack(s)", runID, len(dirs))

	var spin *spinner.Spinner
	if !checkQuiet && format == formatting.FormatTable {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond,
			spinner.WithWriter(cmd.ErrOrStderr()))
		spin.Suffix = " resolving stacks..."
		spin.Start()
	}

	// Each stack is an independent configuration; nothing is shared between
	// resolutions, so they may run concurrently.
	results := make([]engine.Result, len(dirs))
	g, _ := errgroup.WithContext(cmd.Context())
	for i, dir := range dirs {
		g.Go(func() error {
			st, err := config.LoadStack(dir)
			if err != nil {
				return err
			}
			results[i] = engine.Resolve(st.Catalog, st.Instances)
			return nil
		})
	}
	err := g.Wait()
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return 0, err
	}

	fatal := 0
	for i, dir := range dirs {
		rep := results[i].Report
		fatal += len(rep.Fatal)
		if len(dirs) > 1 && format == formatting.FormatTable && !checkQuiet {
			fmt.Fprintf(cmd.OutOrStdout(), "==> %s\n", dir)
		}
		if err := formatting.Render(cmd.OutOrStdout(), rep, format); err != nil {
			return 0, err
		}
	}
	return fatal, nil
}

// watchStack re-runs the check whenever files under the stack directory
// change. Events are debounced because editors typically produce bursts of
// writes for a single save.
func watchStack(cmd *cobra.Command, dir string, format formatting.Format) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, path := range []string{dir, filepath.Join(dir, "services")} {
		if err := watcher.Add(path); err != nil {
			logging.Warn("Check", "Cannot watch %s: %v", path, err)
		}
	}

	runOnce := func() {
		if _, err := checkStacks(cmd, []string{dir}, format); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}
	runOnce()

	var debounce *time.Timer
	rerun := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			logging.Debug("Check", "Filesystem event: %s", event)
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(250*time.Millisecond, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("Check", "Watcher error: %v", err)
		case <-rerun:
			runOnce()
		}
	}
}
