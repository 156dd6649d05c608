package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/query"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// listOutput is the --json form of a list result.
type listOutput struct {
	Resources []types.Resource `json:"resources"`
	Total     int              `json:"total"`
	Message   string           `json:"message,omitempty"`
}

func newListCmd(a *app) *cobra.Command {
	var q types.Query
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List resources with optional search, filter, and sort",
		Long: `List prints the resources that match the search text and status filter.

Search is case-insensitive and matches title, type, and notes. An empty search
matches everything.

Example:
  shelf list
  shelf list --search rust --sort priority
  shelf list --status completed --sort oldest`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := query.Validate(q); err != nil {
				return userError(err)
			}

			store, closeFn, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			view := query.Apply(store.List(), q)
			out := cmd.OutOrStdout()

			if a.flags.jsonMode {
				result := listOutput{Resources: view.Items, Total: store.Len()}
				if view.Empty != types.EmptyNone {
					result.Message = view.Empty.String()
				}
				return writeJSON(out, result)
			}
			if view.Empty != types.EmptyNone {
				fmt.Fprintln(out, view.Empty.String())
				return nil
			}
			for _, r := range view.Items {
				printResource(out, r)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&q.Search, "search", "", "case-insensitive text to match in title, type, or notes")
	f.StringVar(&q.Status, "status", types.StatusAll,
		"status filter: "+types.StatusAll+", "+strings.Join(types.Statuses, ", "))
	f.StringVar(&q.Sort, "sort", types.SortNewest, "sort order: "+strings.Join(types.SortKeys, ", "))
	return cmd
}
