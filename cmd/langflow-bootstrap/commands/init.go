package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/langflow-bootstrap/cmd/langflow-bootstrap/handlers"
	"github.com/imamik/langflow-bootstrap/internal/config"
)

// Init returns the command for interactively creating a bootstrap configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "langflow-bootstrap.yaml")
//	--force, -f: Overwrite an existing file without asking
func Init() *cobra.Command {
	var (
		outputPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a bootstrap configuration",
		Long: `Interactively create a bootstrap configuration file.

This command asks about:

  - the Langflow URL and login retry bound
  - the public account
  - where public and service flows live (directories or S3)
  - the env file receiving keys and flow ids
  - an optional Kubernetes Secret mirror

Superuser credentials are never written; set LANGFLOW_SUPERUSER and
LANGFLOW_SUPERUSER_PASSWORD when running the bootstrap commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, force)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFilename, "Output file path")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file without asking")

	return cmd
}
