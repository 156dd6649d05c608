package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	res := env.mustRun("version")
	assert.Contains(t, res.Stdout, "shelf v"+Version)
	assert.Contains(t, res.Stdout, modulePath)
}

func TestInit(t *testing.T) {
	t.Run("creates directories and is idempotent", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, os.Remove(filepath.Join(env.configDir, configFileExt)))

		res := env.mustRun("init")
		assert.Contains(t, res.Stdout, "Shelf initialized successfully")
		assert.DirExists(t, env.dataDir)

		data, err := os.ReadFile(filepath.Join(env.configDir, configFileExt))
		require.NoError(t, err)
		assert.Contains(t, string(data), "backend: file")

		env.mustRun("init")
	})

	t.Run("json mode reports the resolved layout", func(t *testing.T) {
		env := newTestEnv(t)
		out := parseJSON[map[string]any](t, env.mustRun("--json", "init").Stdout)
		assert.Equal(t, types.BackendFile, out["backend"])
		assert.Equal(t, env.dataDir, out["data_dir"])
		assert.Equal(t, types.DefaultStorageKey, out["key"])
		assert.EqualValues(t, 0, out["resources"])
	})
}

func TestAddAndList(t *testing.T) {
	env := newTestEnv(t)

	res := env.mustRun("add", "--title", "Go Tour", "--type", "tutorial", "--status", "completed", "--priority", "low")
	assert.Equal(t, "Added resource 1: Go Tour\n", res.Stdout)
	env.mustRun("add", "--title", "Rust Book", "--type", "book", "--priority", "high",
		"--link", "https://doc.rust-lang.org/book/", "--notes", "ownership")

	res = env.mustRun("list", "--sort", "priority")
	assert.Less(t, strings.Index(res.Stdout, "Rust Book"), strings.Index(res.Stdout, "Go Tour"))
	assert.Contains(t, res.Stdout, "#2 Rust Book (book)")
	assert.Contains(t, res.Stdout, "Planned | Priority: high")
	assert.Contains(t, res.Stdout, "Completed | Priority: low")
	assert.Contains(t, res.Stdout, "https://doc.rust-lang.org/book/")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"search is case-insensitive", []string{"--search", "RUST"}, []string{"Rust Book"}},
		{"search matches notes", []string{"--search", "owner"}, []string{"Rust Book"}},
		{"status filter", []string{"--status", "completed"}, []string{"Go Tour"}},
		{"oldest first", []string{"--sort", "oldest"}, []string{"Go Tour", "Rust Book"}},
		{"priority first", []string{"--sort", "priority", "--status", "all"}, []string{"Rust Book", "Go Tour"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--json", "list"}, tt.args...)
			out := parseJSON[listOutput](t, env.mustRun(args...).Stdout)
			titles := make([]string, 0, len(out.Resources))
			for _, r := range out.Resources {
				titles = append(titles, r.Title)
			}
			assert.Equal(t, tt.want, titles)
			assert.Equal(t, 2, out.Total)
			assert.Empty(t, out.Message)
		})
	}
}

func TestListEmptyMessages(t *testing.T) {
	env := newTestEnv(t)

	res := env.mustRun("list")
	assert.Equal(t, types.MessageEmptyCatalog+"\n", res.Stdout)

	env.mustRun("add", "--title", "Go Tour", "--type", "tutorial")
	res = env.mustRun("list", "--search", "haskell")
	assert.Equal(t, types.MessageEmptyNoMatch+"\n", res.Stdout)

	out := parseJSON[listOutput](t, env.mustRun("--json", "list", "--status", "in-progress").Stdout)
	assert.NotNil(t, out.Resources)
	assert.Empty(t, out.Resources)
	assert.Equal(t, types.MessageEmptyNoMatch, out.Message)
}

func TestListRejectsUnknownOptions(t *testing.T) {
	env := newTestEnv(t)

	res := env.run("list", "--status", "done")
	assert.Equal(t, exitUserError, res.ExitCode)
	assert.Contains(t, res.Stderr, "invalid query")

	res = env.run("list", "--sort", "title")
	assert.Equal(t, exitUserError, res.ExitCode)
}

func TestAddValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing title", []string{"add", "--type", "book"}},
		{"blank title", []string{"add", "--title", "   ", "--type", "book"}},
		{"missing type", []string{"add", "--title", "T"}},
		{"unknown status", []string{"add", "--title", "T", "--type", "book", "--status", "done"}},
		{"unknown priority", []string{"add", "--title", "T", "--type", "book", "--priority", "urgent"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.run(tt.args...)
			assert.Equal(t, exitUserError, res.ExitCode)
			assert.Contains(t, res.Stderr, "validation")
		})
	}

	assert.Equal(t, types.MessageEmptyCatalog+"\n", env.mustRun("list").Stdout, "nothing was stored")
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "--title", "A", "--type", "a")
	env.mustRun("add", "--title", "B", "--type", "b")

	res := env.mustRun("delete", "1")
	assert.Equal(t, "Deleted resource 1\n", res.Stdout)

	res = env.mustRun("delete", "42")
	assert.Equal(t, "No resource with id 42\n", res.Stdout)

	out := parseJSON[map[string]any](t, env.mustRun("--json", "delete", "1").Stdout)
	assert.Equal(t, false, out["deleted"])

	res = env.run("delete", "abc")
	assert.Equal(t, exitUserError, res.ExitCode)

	list := parseJSON[listOutput](t, env.mustRun("--json", "list").Stdout)
	require.Len(t, list.Resources, 1)
	assert.Equal(t, "B", list.Resources[0].Title)
}

func TestIDsAreNotReusedAcrossRuns(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "--title", "A", "--type", "a")
	env.mustRun("add", "--title", "B", "--type", "b")
	env.mustRun("delete", "2")

	r := parseJSON[types.Resource](t, env.mustRun("--json", "add", "--title", "C", "--type", "c").Stdout)
	assert.Equal(t, int64(3), r.ID)
	assert.Equal(t, types.StatusPlanned, r.Status)
	assert.Equal(t, types.PriorityMedium, r.Priority)
	assert.False(t, r.CreatedAt.IsZero())
}

func TestShow(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "--title", "Go Tour", "--type", "tutorial", "--notes", "basics")

	res := env.mustRun("show", "1")
	assert.Contains(t, res.Stdout, "#1 Go Tour (tutorial)")
	assert.Contains(t, res.Stdout, "basics")

	r := parseJSON[types.Resource](t, env.mustRun("--json", "show", "1").Stdout)
	assert.Equal(t, "Go Tour", r.Title)

	res = env.run("show", "7")
	assert.Equal(t, exitUserError, res.ExitCode)
	assert.Contains(t, res.Stderr, "not found")
}

func TestExportImport(t *testing.T) {
	src := newTestEnv(t)
	src.mustRun("add", "--title", "Go Tour", "--type", "tutorial", "--status", "completed")
	src.mustRun("add", "--title", "Rust Book", "--type", "book", "--priority", "high")

	path := filepath.Join(t.TempDir(), "export.jsonl")
	res := src.mustRun("export", path)
	assert.Equal(t, "Exported 2 resources to "+path+"\n", res.Stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"title":"Go Tour"`)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("not json\n{\"title\":\"\",\"type\":\"x\"}\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	dst := newTestEnv(t)
	dst.mustRun("add", "--title", "Existing", "--type", "note")
	res = dst.mustRun("import", path)
	assert.Equal(t, "Imported 2 resources (2 skipped)\n", res.Stdout)

	out := parseJSON[listOutput](t, dst.mustRun("--json", "list", "--sort", "oldest").Stdout)
	require.Len(t, out.Resources, 3)
	assert.Equal(t, int64(2), out.Resources[1].ID, "imported records get fresh ids")
	assert.Equal(t, "Go Tour", out.Resources[1].Title)
	assert.Equal(t, types.StatusCompleted, out.Resources[1].Status)
	assert.Equal(t, types.PriorityHigh, out.Resources[2].Priority)

	res = dst.run("import", filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Equal(t, exitUserError, res.ExitCode)
}

func TestCorruptStorageStartsEmpty(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(env.dataDir, 0o755))
	stored := filepath.Join(env.dataDir, types.DefaultStorageKey+".json")
	require.NoError(t, os.WriteFile(stored, []byte("not json"), 0o644))

	res := env.mustRun("list")
	assert.Equal(t, types.MessageEmptyCatalog+"\n", res.Stdout)

	r := parseJSON[types.Resource](t, env.mustRun("--json", "add", "--title", "A", "--type", "a").Stdout)
	assert.Equal(t, int64(1), r.ID)
}

func TestConfigSelection(t *testing.T) {
	t.Run("storage_key renames the stored value", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeConfig("backend: file\nstorage_key: reading-list\n")
		env.mustRun("add", "--title", "A", "--type", "a")
		assert.FileExists(t, filepath.Join(env.dataDir, "reading-list.json"))
	})

	t.Run("sqlite backend persists across runs", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeConfig("backend: sqlite\n")
		env.mustRun("add", "--title", "A", "--type", "a")
		out := parseJSON[listOutput](t, env.mustRun("--json", "list").Stdout)
		assert.Len(t, out.Resources, 1)
		assert.FileExists(t, filepath.Join(env.dataDir, "shelf.db"))
	})

	t.Run("environment overrides config.yaml", func(t *testing.T) {
		env := newTestEnv(t)
		t.Setenv("SHELF_BACKEND", "memory")
		env.mustRun("add", "--title", "A", "--type", "a")
		assert.Equal(t, types.MessageEmptyCatalog+"\n", env.mustRun("list").Stdout, "memory backend forgets between runs")
	})

	t.Run("unknown backend is a user error", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeConfig("backend: floppy\n")
		res := env.run("list")
		assert.Equal(t, exitUserError, res.ExitCode)
		assert.Contains(t, res.Stderr, "unknown backend")
	})

	t.Run("s3 without a bucket is a user error", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeConfig("backend: s3\n")
		res := env.run("list")
		assert.Equal(t, exitUserError, res.ExitCode)
	})

	t.Run("invalid log level is a user error", func(t *testing.T) {
		env := newTestEnv(t)
		res := env.run("--log-level", "loud", "list")
		assert.Equal(t, exitUserError, res.ExitCode)
		assert.Contains(t, res.Stderr, "invalid log level")
	})

	t.Run("debug logging carries a run id", func(t *testing.T) {
		env := newTestEnv(t)
		res := env.mustRun("--log-level", "debug", "list")
		assert.Contains(t, res.Stderr, "run=")
		assert.Contains(t, res.Stderr, "catalog opened")
	})
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(userError(os.ErrInvalid)))
	assert.Equal(t, exitSysError, exitCode(sysError(os.ErrPermission)))
	assert.Equal(t, exitUserError, exitCode(os.ErrClosed))
	assert.ErrorIs(t, sysError(os.ErrPermission), os.ErrPermission)
}
