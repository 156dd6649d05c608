package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/catalog"
	"github.com/mesh-intelligence/shelf/internal/jsonl"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// importRecord is the subset of an exported line that import reads back.
// Ids and timestamps are reassigned by the store.
type importRecord struct {
	Title    string `json:"title"`
	Type     string `json:"type"`
	Link     string `json:"link"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Notes    string `json:"notes"`
}

// importSummary counts the outcome of importRecords. Every Create rewrites
// the whole collection, so only LastSave decides whether the imported
// records reached storage; FailedSaves counts the intermediate failures that
// a later successful write covered.
type importSummary struct {
	Imported    int
	Skipped     int
	FailedSaves int
	LastSave    catalog.SaveResult
}

// importRecords creates one resource per decodable, valid line.
func importRecords(ctx context.Context, store *catalog.Store, lines []json.RawMessage, logger *slog.Logger) importSummary {
	var sum importSummary
	for i, line := range lines {
		var rec importRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			logger.WarnContext(ctx, "skipping import line", "index", i, "error", err)
			sum.Skipped++
			continue
		}
		_, res, err := store.Create(ctx, types.NewResource(rec))
		if err != nil {
			logger.WarnContext(ctx, "skipping import line", "index", i, "error", err)
			sum.Skipped++
			continue
		}
		sum.Imported++
		if !res.OK() {
			sum.FailedSaves++
		}
		sum.LastSave = res
	}
	return sum
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write every resource to a JSONL file",
		Long:  "Export writes one JSON object per line, in insertion order. The file is\nreplaced atomically.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			resources := store.List()
			lines := make([]json.RawMessage, 0, len(resources))
			for _, r := range resources {
				data, err := json.Marshal(r)
				if err != nil {
					return sysError(fmt.Errorf("marshal resource %d: %w", r.ID, err))
				}
				lines = append(lines, data)
			}
			if err := jsonl.Write(args[0], lines); err != nil {
				return sysError(err)
			}
			a.logger.InfoContext(cmd.Context(), "catalog exported", "path", args[0], "records", len(lines))

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"path": args[0], "exported": len(lines)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d resources to %s\n", len(lines), args[0])
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add resources from a JSONL file",
		Long: `Import adds every valid line of a JSONL file as a new resource.

Each line goes through the same validation as "shelf add" and receives a new
id and creation time. Malformed lines and lines that fail validation are
skipped and counted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, skipped, err := jsonl.Read(args[0])
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return userError(err)
				}
				return sysError(err)
			}

			store, closeFn, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			sum := importRecords(cmd.Context(), store, lines, a.logger)
			sum.Skipped += skipped
			if sum.FailedSaves > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d of %d writes failed\n", sum.FailedSaves, sum.Imported)
			}
			warnUnsaved(cmd.ErrOrStderr(), sum.LastSave)

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"imported": sum.Imported, "skipped": sum.Skipped, "failed_saves": sum.FailedSaves,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d resources (%d skipped)\n", sum.Imported, sum.Skipped)
			return nil
		},
	}
}
