package archive_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ledgerconv/internal/archive"
	"ledgerconv/internal/testsupport"
)

func TestScanListsSourcesSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.CSV", "notes.txt", ".hidden.csv", "output_X.txt"} {
		testsupport.WriteFile(t, filepath.Join(dir, name), []byte("x"))
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := archive.Scan(dir)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	want := []string{filepath.Join(dir, "a.CSV"), filepath.Join(dir, "b.csv")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("scan mismatch (-want +got):\n%s", diff)
	}
}

func TestScanMissingDir(t *testing.T) {
	if _, err := archive.Scan(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error")
	}
}

func TestMoveArchivesByYear(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "in", "acme.csv")
	testsupport.WriteFile(t, src, []byte("data"))
	a := archive.Archiver{Root: filepath.Join(base, "archive")}

	dst, err := a.Move(src, "2024")
	if err != nil {
		t.Fatalf("Move returned error: %v", err)
	}
	if want := filepath.Join(base, "archive", "2024", "acme.csv"); dst != want {
		t.Fatalf("destination got %q want %q", dst, want)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source removed, stat err %v", err)
	}
	if data, err := os.ReadFile(dst); err != nil || string(data) != "data" {
		t.Fatalf("unexpected archive content %q, %v", data, err)
	}
}

func TestMoveRefusesOverwrite(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "in", "acme.csv")
	testsupport.WriteFile(t, src, []byte("new"))
	a := archive.Archiver{Root: filepath.Join(base, "archive")}
	if err := a.CheckFree(src, "2024"); err != nil {
		t.Fatalf("CheckFree before collision returned %v", err)
	}
	testsupport.WriteFile(t, a.Destination(src, "2024"), []byte("old"))
	if err := a.CheckFree(src, "2024"); !errors.Is(err, archive.ErrArchiveExists) {
		t.Fatalf("CheckFree expected ErrArchiveExists, got %v", err)
	}

	_, err := a.Move(src, "2024")
	if !errors.Is(err, archive.ErrArchiveExists) {
		t.Fatalf("expected ErrArchiveExists, got %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source must stay in place: %v", err)
	}
}
