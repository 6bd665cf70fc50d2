package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/steveyegge/bdcheck/internal/verify"
)

var (
	languageFlag    string
	skipStartupFlag bool
	failFastFlag    bool
	portFlag        int
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run the pre-completion verification gate",
	Long: `Runs the project's quality gate: tests, lint, format, and build for
the detected language, a startup health probe for services, a manifest
dependency check, and a secrets scan. Exit 0 only when everything passes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := verify.ParseLanguage(languageFlag)
		if err != nil {
			return err
		}
		if lang == "" {
			detected, ok := verify.DetectLanguage(pathFlag)
			if !ok {
				return fmt.Errorf("could not detect project language under %s; use --language", pathFlag)
			}
			lang = detected
		}
		verbosef("language: %s", lang)

		port := portFlag
		if port == 0 {
			port = cfg.HealthPort
		}

		rep := verify.Run(cmd.Context(), pathFlag, lang, verify.Options{
			Timeout:      cfg.RunnerTimeout,
			Port:         port,
			PollInterval: cfg.HealthInterval,
			PollRetries:  cfg.HealthRetries,
			SkipStartup:  skipStartupFlag,
			FailFast:     failFastFlag,
		})
		rep.Add(verify.CheckManifest(pathFlag))
		rep.Finish()

		if !outputStructured(rep) {
			renderVerifyReport(lang, rep)
		}
		if rep.Passed {
			exitWith(0)
		}
		exitWith(1)
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&languageFlag, "language", "", "Project language: rust, python, node (default: auto-detect)")
	verifyCmd.Flags().BoolVar(&skipStartupFlag, "skip-startup", false, "Skip the startup health probe")
	verifyCmd.Flags().BoolVar(&failFastFlag, "fail-fast", false, "Stop at the first failed check")
	verifyCmd.Flags().IntVar(&portFlag, "port", 0, "Health endpoint port (default: from config)")
}

func renderVerifyReport(lang verify.Language, rep verify.Report) {
	cyan := color.New(color.FgCyan).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Println()
	fmt.Printf("%s %s (%s)\n\n", cyan("Verification Report:"), pathFlag, lang)

	for _, check := range rep.Checks {
		if check.Passed {
			fmt.Printf("  %s %s: PASS\n", green("✓"), check.Name)
			continue
		}
		fmt.Printf("  %s %s: FAIL\n", red("✗"), check.Name)
		fmt.Printf("    %s\n", truncate(check.Message, 200))
		if check.AutoFixable {
			fmt.Println("    (auto-fixable)")
		}
	}

	fmt.Println()
	if rep.Passed {
		fmt.Println(green(rep.Summary))
	} else {
		fmt.Println(red(rep.Summary))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
