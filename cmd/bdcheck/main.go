// bdcheck validates the structure of a bd issue database: dependency
// integrity, cycles, readiness, priorities, and PRD coverage. It is the
// pre-flight gate a planning workflow runs before handing work to agents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/steveyegge/bdcheck/internal/config"
	"github.com/steveyegge/bdcheck/internal/telemetry"
)

// Persistent flags, bound in init.
var (
	jsonOutput  bool
	formatFlag  string
	strictFlag  bool
	verboseFlag bool
	quietFlag   bool
	pathFlag    string
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "bdcheck",
	Short: "bdcheck - Validation gate for bd issue databases",
	Long:  `Validates issue dependency graphs before work begins: referential integrity, circular dependencies, ready work, priorities, and PRD coverage.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("bdcheck version %s (%s)\n", Version, Build)
			return
		}
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verboseFlag && quietFlag {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}
		if formatFlag != "text" && formatFlag != "json" && formatFlag != "yaml" {
			return fmt.Errorf("unknown format %q (valid: text, json, yaml)", formatFlag)
		}
		if jsonOutput {
			formatFlag = "json"
		}
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			color.NoColor = true
		}

		var err error
		cfg, err = config.Load(pathFlag)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("strict") {
			cfg.Strict = strictFlag
		}

		if err := telemetry.Init(cmd.Context(), "bdcheck", Version); err != nil {
			// Telemetry is optional; a broken exporter must not block checks.
			fmt.Fprintf(os.Stderr, "Warning: telemetry disabled: %v\n", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		telemetry.Shutdown(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (same as --format json)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&strictFlag, "strict", false, "Treat warnings as errors")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")
	rootCmd.PersistentFlags().StringVar(&pathFlag, "path", ".", "Project directory")

	rootCmd.Flags().BoolP("version", "V", false, "Print version information")

	rootCmd.AddGroup(&cobra.Group{ID: "checks", Title: "Validation Gates:"})
	for _, cmd := range []*cobra.Command{issuesCmd, prdCmd, verifyCmd} {
		cmd.GroupID = "checks"
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(versionCmd)
}

// verbosef prints diagnostics to stderr when --verbose is set.
func verbosef(format string, args ...interface{}) {
	if verboseFlag {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// notef prints progress to stderr unless --quiet is set.
func notef(format string, args ...interface{}) {
	if !quietFlag {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// exitWith flushes telemetry and exits. Cobra's PostRun hooks do not run
// past os.Exit, so the flush happens here.
func exitWith(code int) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	telemetry.Shutdown(ctx)
	os.Exit(code)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if jsonOutput || formatFlag == "json" {
			outputJSONError(err, "")
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
