package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/acpkit/netmesh"
	"github.com/acpkit/netmesh/config"
)

type runFlags struct {
	configPath   string
	maxSteps     int
	logLevel     string
	logFormat    string
	telemetryOut string
	skipFailed   bool
}

func newRunCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one coordination run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnce(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "path to the YAML run description (required)")
	cmd.Flags().IntVar(&flags.maxSteps, "max-steps", 0, "override the document's step horizon")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", "", "override log format (json, text)")
	cmd.Flags().StringVar(&flags.telemetryOut, "telemetry-out", "", "override the telemetry JSONL path")
	cmd.Flags().BoolVar(&flags.skipFailed, "skip-failed-delegates", false, "park failed delegates instead of aborting")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runOnce(cmd *cobra.Command, flags *runFlags) error {
	doc, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	applyOverrides(doc, flags)

	mesh := netmesh.New(func(o *netmesh.Options) {
		o.SkipFailedDelegates = flags.skipFailed
	})
	orch, err := mesh.BuildFromConfig(doc)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := orch.Run(ctx)
	if res != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "run %s: %s (%s) after %d steps\n",
			res.RunID, res.Status, res.Reason, res.Steps)
	}
	return err
}

func applyOverrides(doc *config.Document, flags *runFlags) {
	if flags.maxSteps > 0 {
		doc.MaxSteps = flags.maxSteps
	}
	if flags.logLevel != "" {
		doc.Logging.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		doc.Logging.Format = flags.logFormat
	}
	if flags.telemetryOut != "" {
		doc.Telemetry.Path = flags.telemetryOut
	}
}
