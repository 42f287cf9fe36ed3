// Command netmesh runs multi-domain coordination episodes from a YAML config.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "netmesh",
	Short: "netmesh coordinates network-control agents across simulated domains",
	Long: `netmesh builds a composite simulation from a YAML run description,
solicits proposals from the configured agents each tick, commits the best one,
and records a telemetry trace of the run.

Example:
  netmesh run --config run.yaml --telemetry-out run.jsonl`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}
