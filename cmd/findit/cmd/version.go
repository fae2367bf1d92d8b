package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/yift/findit/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Display detailed version information, including the git commit this
binary was built from (falling back to the Go build info's embedded VCS
revision when that wasn't set via -ldflags) and the config file findit
would load on this machine.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("findit version %s\n", Version)
		fmt.Printf("Git Commit: %s\n", resolveCommit())
		fmt.Printf("Build Date: %s\n", BuildDate)
		if path, err := config.Path(); err == nil {
			fmt.Printf("Config file: %s\n", path)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// resolveCommit prefers a -ldflags-injected GitCommit, falling back to
// the VCS revision the Go toolchain embeds automatically when building
// from a checkout.
func resolveCommit() string {
	if GitCommit != "unknown" {
		return GitCommit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return GitCommit
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return GitCommit
}
