package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// testEnv provides an isolated config and data directory for running the
// command tree in-process.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

// cmdResult holds the outcome of one command execution.
type cmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// newTestEnv writes a config.yaml selecting the file backend under a temp
// directory and clears SHELF_* overrides from the environment.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, name := range []string{
		"SHELF_BACKEND", "SHELF_STORAGE_KEY", "SHELF_LOG_LEVEL", "SHELF_DATA_DIR",
		"SHELF_S3_BUCKET", "SHELF_POSTGRES_DSN",
	} {
		t.Setenv(name, "")
	}

	dir := t.TempDir()
	env := &testEnv{
		t:         t,
		configDir: filepath.Join(dir, "config"),
		dataDir:   filepath.Join(dir, "data"),
	}
	env.writeConfig("backend: file\nlog_level: warn\n")
	return env
}

// writeConfig replaces config.yaml.
func (e *testEnv) writeConfig(content string) {
	e.t.Helper()
	if err := os.MkdirAll(e.configDir, 0o755); err != nil {
		e.t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(e.configDir, configFileExt), []byte(content), 0o644); err != nil {
		e.t.Fatalf("write config: %v", err)
	}
}

// run executes shelf with the env's directories prepended to args.
func (e *testEnv) run(args ...string) cmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(allArgs)

	err := root.Execute()
	if err != nil {
		stderr.WriteString("Error: " + err.Error() + "\n")
	}
	return cmdResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: exitCode(err)}
}

// mustRun executes shelf and fails the test on a non-zero exit code.
func (e *testEnv) mustRun(args ...string) cmdResult {
	e.t.Helper()
	res := e.run(args...)
	if res.ExitCode != 0 {
		e.t.Fatalf("shelf %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, res.ExitCode, res.Stdout, res.Stderr)
	}
	return res
}

// parseJSON decodes command output into T.
func parseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var out T
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		t.Fatalf("parse JSON %q: %v", s, err)
	}
	return out
}
