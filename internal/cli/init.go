package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jobb/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	var backend string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize jobb configuration and storage",
		Long: "Create the configuration and data directories, write a default config.yaml\n" +
			"if none exists, then attach and detach the registry so its storage is ready.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd, backend)
		},
	}
	cmd.Flags().StringVar(&backend, "backend", types.BackendSQLite, "backend written to a new config.yaml")
	return cmd
}

func (a *app) runInit(cmd *cobra.Command, backend string) error {
	if err := os.MkdirAll(a.settings.ConfigDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}

	written, err := writeConfigIfMissing(a.settings.ConfigDir, defaultConfigFile(backend, a.flags.dataDir))
	if err != nil {
		return sysError(err)
	}
	if written {
		// A fresh config selects the backend being initialized.
		a.settings.Backend = backend
	}

	if err := a.withRegistry(func(types.FittingRegistry) error { return nil }); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "jobb initialized successfully (backend: %s)\n", a.settings.Backend)
	return nil
}
