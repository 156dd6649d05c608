package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a resource by id",
		Long: `Delete removes the resource with the given id. Ids are never reused.

Deleting an id that does not exist changes nothing and is not an error.`,
		Args: cobra.ExactArgs(1),
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

			deleted, res := store.Delete(cmd.Context(), id)
			warnUnsaved(cmd.ErrOrStderr(), res)

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"id": id, "deleted": deleted})
			}
			if deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted resource %d\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No resource with id %d\n", id)
			}
			return nil
		},
	}
}
