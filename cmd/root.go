package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"convoy/pkg/logging"
)

// Exit codes for CLI commands. These follow common conventions so that
// scripting and automation can distinguish usage errors from failed checks.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeFatalIssues indicates resolution completed but found fatal
	// configuration issues, so the configuration must not be activated.
	ExitCodeFatalIssues = 2
)

// FatalIssuesError signals that a check completed but the configuration
// carries fatal diagnostics. It exists so Execute can map the condition to
// its own exit code.
type FatalIssuesError struct {
	Count int
}

func (e *FatalIssuesError) Error() string {
	return "configuration has fatal issues"
}

var debugLogging bool

// rootCmd represents the base command for the convoy application.
var rootCmd = &cobra.Command{
	Use:   "convoy",
	Short: "Resolve and validate service stack configurations",
	Long: `convoy computes a safe startup order for a declaratively configured
stack of self-hosted services, and reports configuration problems
(missing capabilities, dependency cycles, port and directory collisions,
inconsistent SSL or database settings) before anything is started.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelWarn
		if debugLogging {
			level = logging.LevelDebug
		}
		logging.Init(level, cmd.ErrOrStderr())
	},
}

// SetVersion sets the version for the root command. This is typically called
// from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "convoy version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	var fatalIssues *FatalIssuesError
	if errors.As(err, &fatalIssues) {
		return ExitCodeFatalIssues
	}
	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
