package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			store, closeFn, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			r, ok := store.Get(id)
			if !ok {
				return userError(fmt.Errorf("resource %d: %w", id, types.ErrNotFound))
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), r)
			}
			printResource(cmd.OutOrStdout(), r)
			return nil
		},
	}
}
