package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize shelf storage",
		Long: "Create the configuration and data directories, then open the configured\n" +
			"backend once to confirm it is reachable. Running init again is harmless.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	cfg, err := a.storeConfig()
	if err != nil {
		return sysError(err)
	}
	if cfg.Backend == types.BackendFile || cfg.Backend == types.BackendSQLite {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return sysError(fmt.Errorf("create data directory: %w", err))
		}
	}

	store, closeFn, err := a.openCatalog(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	if a.flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"config_dir": a.configDir,
			"data_dir":   cfg.DataDir,
			"backend":    cfg.Backend,
			"key":        cfg.Key(),
			"resources":  store.Len(),
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Shelf initialized successfully")
	fmt.Fprintf(out, "  config:    %s\n", a.configDir)
	fmt.Fprintf(out, "  backend:   %s\n", cfg.Backend)
	if cfg.Backend == types.BackendFile || cfg.Backend == types.BackendSQLite {
		fmt.Fprintf(out, "  data:      %s\n", cfg.DataDir)
	}
	fmt.Fprintf(out, "  resources: %d\n", store.Len())
	return nil
}
