package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version is the current version of bdcheck (overridden by ldflags at build time)
	Version = "0.3.0"
	// Build describes the build ("dev" for local builds, set by ldflags in releases)
	Build = "dev"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if formatFlag == "json" {
			outputJSON(map[string]string{
				"version": Version,
				"build":   Build,
				"go":      runtime.Version(),
			})
			return
		}
		fmt.Printf("bdcheck version %s (%s)\n", Version, Build)
	},
}
