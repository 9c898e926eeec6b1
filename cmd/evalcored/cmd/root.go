package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	storePath string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "evalcored",
	Short: "Declarative configuration-management evaluation core",
	Long: `evalcored drives the evaluation core's EvalContext façade against a
sample policy, for inspection and demonstration purposes.

It is not a policy-language parser: it builds bundle and promise frames
directly through the façade API and reports the global classes that
result, plus a JSON report of promise outcomes when --dump-reports is set.`,
	Version: Version,
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

	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "path to the bbolt persistent-class store (empty uses an in-memory store)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
