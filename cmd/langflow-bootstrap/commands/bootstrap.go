package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/langflow-bootstrap/cmd/langflow-bootstrap/handlers"
	"github.com/imamik/langflow-bootstrap/internal/bootstrap"
)

// Benchmark returns the command preparing a benchmark flow and API key.
//
// The flow id and key are printed to stdout as
// BENCHMARK_DATA:FLOW_ID=<id> and BENCHMARK_DATA:API_KEY=<key>.
func Benchmark(opts *handlers.RunOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "benchmark",
		Short: "Create a benchmark flow and API key",
		Long: `Create a two-node benchmark flow and a fresh API key as the superuser.

A single login attempt is made. The results are printed to stdout:

  BENCHMARK_DATA:FLOW_ID=<id>
  BENCHMARK_DATA:API_KEY=<key>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Run(cmd.Context(), bootstrap.Benchmark, *opts)
		},
	}
}

// PublicUser returns the command provisioning the public account and flows.
func PublicUser(opts *handlers.RunOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "public-user",
		Short: "Provision the public account, its API key and public flows",
		Long: `Provision the public account and upload the public flows.

Steps:
  - log in as the superuser, retrying while the server starts
  - create the account if absent and make sure it is active
  - log in as the account and mint the public_flows_key API key
  - write LANGFLOW_PUBLIC_SECRET_KEY to the env file
  - upload the public flows root with the API key, creating one project
    per sub-directory

Re-running is safe: existing accounts and projects are reused.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Run(cmd.Context(), bootstrap.PublicUser, *opts)
		},
	}
}

// ServiceUser returns the command provisioning the service flows.
func ServiceUser(opts *handlers.RunOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "service-user",
		Short: "Provision the service API key and flows and export flow ids",
		Long: `Provision the superuser's service flows.

Steps:
  - log in as the superuser, retrying while the server starts
  - mint the secret_flows_key API key
  - write LANGFLOW_SERVICE_SECRET_KEY to the env file
  - upload the service flows root
  - write the ids of the tracked flows to the env file (empty when absent)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Run(cmd.Context(), bootstrap.ServiceUser, *opts)
		},
	}
}
