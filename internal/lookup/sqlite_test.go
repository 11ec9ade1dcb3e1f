package lookup_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"

	"ledgerconv/internal/lookup"
)

func TestNopIsDisabled(t *testing.T) {
	people, err := lookup.Nop{}.LookupByTaxID(context.Background(), []string{"123456789"})
	if err != nil || people != nil {
		t.Fatalf("Nop returned %v, %v", people, err)
	}
	if lookup.Enabled(lookup.Nop{}) || lookup.Enabled(nil) {
		t.Fatal("expected Nop and nil to be disabled")
	}
}

func TestSQLiteDirectoryLookup(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "people.db")
	n, err := lookup.Import(ctx, path, []lookup.Person{
		{TaxID: "123-45-6789", FirstName: "Jane", MiddleName: "Quinn", LastName: "Doe"},
		{TaxID: "987654321", FirstName: "John", LastName: "Roe"},
		{TaxID: "--", FirstName: "Nobody"},
	})
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if n != 2 {
		t.Fatalf("imported %d, want 2", n)
	}

	dir, err := lookup.OpenSQLite(path, time.Second)
	if err != nil {
		t.Fatalf("OpenSQLite returned error: %v", err)
	}
	t.Cleanup(func() { _ = dir.Close() })
	if !lookup.Enabled(dir) {
		t.Fatal("expected SQLite directory to be enabled")
	}

	people, err := dir.LookupByTaxID(ctx, []string{"123456789", "123-45-6789", "555555555"})
	if err != nil {
		t.Fatalf("LookupByTaxID returned error: %v", err)
	}
	want := []lookup.Person{{TaxID: "123456789", FirstName: "Jane", MiddleName: "Quinn", LastName: "Doe"}}
	if diff := cmp.Diff(want, people); diff != "" {
		t.Fatalf("lookup mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteDirectoryChunksLargeQueries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "people.db")
	var people []lookup.Person
	var ids []string
	for i := 0; i < 1200; i++ {
		id := strconv.Itoa(100000000 + i)
		ids = append(ids, id)
		if i%2 == 0 {
			people = append(people, lookup.Person{TaxID: id, FirstName: "P" + id})
		}
	}
	if _, err := lookup.Import(ctx, path, people); err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	dir, err := lookup.OpenSQLite(path, 0)
	if err != nil {
		t.Fatalf("OpenSQLite returned error: %v", err)
	}
	defer dir.Close()

	found, err := dir.LookupByTaxID(ctx, ids)
	if err != nil {
		t.Fatalf("LookupByTaxID returned error: %v", err)
	}
	if len(found) != 600 {
		t.Fatalf("found %d people, want 600", len(found))
	}
	sort.Slice(found, func(i, j int) bool { return found[i].TaxID < found[j].TaxID })
	if found[0].TaxID != "100000000" {
		t.Fatalf("unexpected first id %q", found[0].TaxID)
	}
}

func TestOpenSQLiteRequiresPersonsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("CREATE TABLE other (id INTEGER)"); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	if _, err := lookup.OpenSQLite(path, 0); !errors.Is(err, lookup.ErrMissingTable) {
		t.Fatalf("expected ErrMissingTable, got %v", err)
	}
}
