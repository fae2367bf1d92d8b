package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "findit [path...]",
	Short: "Walk a directory tree and evaluate an expression against every path",
	Long: `findit walks one or more directory trees and, for each path, evaluates a
user-supplied boolean expression (--where) to decide whether to emit it, and
an optional display expression (--display) to format it.

Running findit with no subcommand is shorthand for "findit search": with no
arguments at all it walks the current directory.`,
	Version: Version,
	Args:    cobra.ArbitraryArgs,
	RunE:    runSearch,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	registerSearchFlags(rootCmd)
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
