// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/langflow-bootstrap/cmd/langflow-bootstrap/handlers"
)

// Root returns the root command for the langflow-bootstrap CLI.
//
// Persistent flags shared by the bootstrap commands are bound here and
// handed to the handlers as handlers.RunOptions.
func Root() *cobra.Command {
	opts := &handlers.RunOptions{}

	cmd := &cobra.Command{
		Use:           "langflow-bootstrap",
		Short:         "Provision Langflow accounts, API keys and flows",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a YAML config file (environment variables take precedence)")
	flags.BoolVar(&opts.LogJSON, "log-json", false, "Write logs as JSON")
	flags.BoolVar(&opts.LogDebug, "log-debug", false, "Enable debug logging")
	flags.StringVar(&opts.MetricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	flags.StringVar(&opts.ReportFile, "report-file", "", "Write a run report to this file (.json or .yaml)")
	flags.BoolVar(&opts.StrictUploads, "strict-uploads", false, "Fail the run if any flow upload fails")
	flags.StringVar(&opts.Kubeconfig, "kubeconfig", "", "Kubeconfig for the Secret mirror (in-cluster config when empty)")

	// Bootstrap commands
	cmd.AddCommand(Benchmark(opts))
	cmd.AddCommand(PublicUser(opts))
	cmd.AddCommand(ServiceUser(opts))

	// Utility commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Version())

	return cmd
}
