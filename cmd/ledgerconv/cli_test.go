package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ledgerconv/internal/config"
	"ledgerconv/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, extra string) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")
	cfg := testsupport.NewConfig(t)
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg, extra)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config, extra string) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nsource_dir = %q\noutput_dir = %q\nexception_dir = %q\narchive_dir = %q\nlog_dir = %q\nstate_dir = %q\n%s",
		cfg.Paths.SourceDir,
		cfg.Paths.OutputDir,
		cfg.Paths.ExceptionDir,
		cfg.Paths.ArchiveDir,
		cfg.Paths.LogDir,
		cfg.Paths.StateDir,
		extra,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}

func TestInvalidLogLevelFlag(t *testing.T) {
	env := setupCLITestEnv(t, "")
	if _, _, err := runCLI(t, []string{"--log-level", "loud", "check"}, env.configPath); err == nil {
		t.Fatal("expected invalid log level to fail")
	}
}

func TestRunThenHistory(t *testing.T) {
	env := setupCLITestEnv(t, "")
	testsupport.WriteSource(t, env.cfg.Paths.SourceDir, "acme.csv", "ACME", "JAN-15-24",
		testsupport.Person("111111111", "Jane", "Doe"),
		testsupport.Person("222222222", "Happy Kids", "Center"),
	)

	out, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "ACME_JAN_15_24")
	requireContains(t, out, "1 processed, 0 failed")

	if _, err := os.Stat(filepath.Join(env.cfg.Paths.OutputDir, "2024", "output_ACME_JAN_15_24.txt")); err != nil {
		t.Fatalf("expected ledger: %v", err)
	}

	out, _, err = runCLI(t, []string{"history", "--limit", "5"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "acme.csv")
	requireContains(t, out, "processed")
}

func TestRunReportsFailedFiles(t *testing.T) {
	env := setupCLITestEnv(t, "")
	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.SourceDir, "broken.csv"), []byte("just one line\n"))

	out, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err == nil {
		t.Fatal("expected run to report the failed file")
	}
	requireContains(t, out, "malformed_input")
}

func TestPeriodsAndFormat(t *testing.T) {
	env := setupCLITestEnv(t, "")
	src := testsupport.WriteSource(t, t.TempDir(), "acme.csv", "ACME", "MAR-01-24",
		testsupport.Person("111111111", "Jane", "Doe"),
		testsupport.Person("12-3456789", "John", "Roe"),
	)

	out, _, err := runCLI(t, []string{"periods", src}, env.configPath)
	if err != nil {
		t.Fatalf("periods: %v", err)
	}
	requireContains(t, out, "ACME_MAR_01_24")
	requireContains(t, out, "JAN_01_24, JAN_15_24, FEB_01_24, FEB_15_24")

	out, errOut, err := runCLI(t, []string{"format", "--exceptions", src}, env.configPath)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "PIC111111111JANE") {
		t.Fatalf("unexpected formatted output %q", out)
	}
	requireContains(t, errOut, "1 ledger lines, 1 exceptions")
	requireContains(t, errOut, "invalid-tax-id")

	if _, err := os.Stat(src); err != nil {
		t.Fatalf("format must not archive the source: %v", err)
	}
}

func TestCheckAndDirectoryImport(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "people.db")
	env := setupCLITestEnv(t, fmt.Sprintf("\n[lookup]\nenabled = true\ndatabase_path = %q\n", dbPath))

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected check to fail before the directory exists")
	}
	requireContains(t, out, "Record directory")
	requireContains(t, out, "[ERROR]")

	export := filepath.Join(t.TempDir(), "people.csv")
	testsupport.WriteFile(t, export, []byte("SSN,First,Middle,Last\n111-11-1111,Janet,R,Dough\n"))
	out, _, err = runCLI(t, []string{"directory", "import", export}, env.configPath)
	if err != nil {
		t.Fatalf("directory import: %v", err)
	}
	requireContains(t, out, "Imported 1 entries")

	out, _, err = runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "[OK]")
}
