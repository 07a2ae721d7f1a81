package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, storageMode, sqlitePath = "", "", ""
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := run(t, "--help")
	if err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	for _, sub := range []string{"serve", "migrate", "seed", "stats", "export"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected %q in help output", sub)
		}
	}
}

func TestStatsBMRFromFlags(t *testing.T) {
	out, err := run(t, "stats", "bmr", "--weight-kg", "80", "--height-cm", "180", "--age", "30", "--gender", "male", "--activity", "moderate")
	if err != nil {
		t.Fatalf("stats bmr: %v", err)
	}
	if !strings.Contains(out, "mifflin\t1780\t2759\t*") {
		t.Errorf("unexpected mifflin row:\n%s", out)
	}
	if !strings.Contains(out, "harris_benedict\t1854\t") {
		t.Errorf("unexpected harris-benedict row:\n%s", out)
	}
}

func TestMigrateRejectsUnknownCommand(t *testing.T) {
	if _, err := run(t, "migrate", "redo"); err == nil {
		t.Error("expected error for unknown migrate command")
	}
}

func TestUnknownStorageMode(t *testing.T) {
	if _, err := run(t, "--storage", "redis", "seed"); err == nil {
		t.Error("expected error for unknown storage mode")
	}
}

func TestSeedThenExport(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "diary.db")

	out, err := run(t, "--storage", "sqlite", "--sqlite-path", db, "seed")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.Contains(out, "foods\t") {
		t.Errorf("expected row counts, got:\n%s", out)
	}

	out, err = run(t, "--storage", "sqlite", "--sqlite-path", db, "seed")
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if !strings.Contains(out, "already loaded") {
		t.Errorf("expected idempotent seed, got:\n%s", out)
	}

	csvPath := filepath.Join(dir, "diary.csv")
	from := time.Now().AddDate(0, 0, -2).Format("2006-01-02")
	to := time.Now().Format("2006-01-02")
	if _, err := run(t, "--storage", "sqlite", "--sqlite-path", db, "export", "--from", from, "--to", to, "--format", "csv", "-o", csvPath); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 day rows, got %d lines:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "date,calories,") || !strings.HasPrefix(lines[3], to+",") {
		t.Errorf("unexpected csv:\n%s", data)
	}
}
