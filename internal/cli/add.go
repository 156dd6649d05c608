package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

func newAddCmd(a *app) *cobra.Command {
	var fields types.NewResource
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a resource to the catalog",
		Long: `Add creates a resource with the next id and the current time.

Title and type are required. Status defaults to planned and priority to medium.

Example:
  shelf add --title "Rust Book" --type book --priority high \
    --link https://doc.rust-lang.org/book/ --notes "ownership chapters"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			r, res, err := store.Create(cmd.Context(), fields)
			if err != nil {
				if errors.Is(err, types.ErrValidation) {
					return userError(err)
				}
				return sysError(err)
			}
			warnUnsaved(cmd.ErrOrStderr(), res)

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), r)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added resource %d: %s\n", r.ID, r.Title)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&fields.Title, "title", "", "resource title (required)")
	f.StringVar(&fields.Type, "type", "", "resource type, e.g. book, course, video (required)")
	f.StringVar(&fields.Link, "link", "", "URL of the resource")
	f.StringVar(&fields.Status, "status", "", "status: "+strings.Join(types.Statuses, ", "))
	f.StringVar(&fields.Priority, "priority", "", "priority: "+strings.Join(types.Priorities, ", "))
	f.StringVar(&fields.Notes, "notes", "", "free-form notes")
	return cmd
}
