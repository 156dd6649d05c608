// Shared helpers for shelf CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/shelf/internal/catalog"
	"github.com/mesh-intelligence/shelf/internal/kv"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// configErrors are backend selection problems the user can fix in
// config.yaml.
var configErrors = []error{
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrBucketEmpty,
	types.ErrDSNEmpty,
}

// openCatalog opens the configured backend and loads the catalog from it.
// The caller must call the returned close function.
func (a *app) openCatalog(ctx context.Context) (*catalog.Store, func(), error) {
	cfg, err := a.storeConfig()
	if err != nil {
		return nil, nil, sysError(err)
	}

	backend, err := kv.Open(ctx, cfg)
	if err != nil {
		for _, target := range configErrors {
			if errors.Is(err, target) {
				return nil, nil, userError(fmt.Errorf("config: %w", err))
			}
		}
		return nil, nil, sysError(fmt.Errorf("open %s backend: %w", cfg.Backend, err))
	}
	a.logger.DebugContext(ctx, "backend opened", "backend", cfg.Backend, "data_dir", cfg.DataDir)

	adapter := catalog.NewAdapter(backend, cfg.Key(), a.logger)
	store := catalog.Open(ctx, adapter, catalog.WithLogger(a.logger))

	closeFn := func() {
		if err := backend.Close(); err != nil {
			a.logger.WarnContext(ctx, "closing backend", "error", err)
		}
	}
	return store, closeFn, nil
}

// parseID parses a resource id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, userError(fmt.Errorf("invalid id %q: must be an integer", arg))
	}
	return id, nil
}

// warnUnsaved reports a failed write. The change is kept for the rest of
// this run but will not survive it.
func warnUnsaved(w io.Writer, res catalog.SaveResult) {
	if res.OK() {
		return
	}
	fmt.Fprintf(w, "warning: change not saved: %v\n", res.Err)
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal output: %w", err))
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// printResource writes the human-readable form of r.
func printResource(w io.Writer, r types.Resource) {
	fmt.Fprintf(w, "#%d %s (%s)\n", r.ID, r.Title, r.Type)
	fmt.Fprintf(w, "    %s | Priority: %s", types.FormatStatus(r.Status), r.Priority)
	if !r.CreatedAt.IsZero() {
		fmt.Fprintf(w, " | Added %s", r.CreatedAt.Local().Format("2006-01-02"))
	}
	fmt.Fprintln(w)
	if r.Notes != "" {
		fmt.Fprintf(w, "    %s\n", r.Notes)
	}
	if r.Link != "" {
		fmt.Fprintf(w, "    %s\n", r.Link)
	}
}
