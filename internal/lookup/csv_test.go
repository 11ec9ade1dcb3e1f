package lookup_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ledgerconv/internal/lookup"
)

func TestReadPeopleCSV(t *testing.T) {
	input := "SSN,First Name,Middle Name,Last Name\n" +
		"123-45-6789, Jane ,Q,Doe\n" +
		",Nobody,,Here\n" +
		"987654321,John\n"

	people, err := lookup.ReadPeopleCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadPeopleCSV returned error: %v", err)
	}
	want := []lookup.Person{
		{TaxID: "123456789", FirstName: "Jane", MiddleName: "Q", LastName: "Doe"},
		{TaxID: "987654321", FirstName: "John"},
	}
	if diff := cmp.Diff(want, people); diff != "" {
		t.Fatalf("people mismatch (-want +got):\n%s", diff)
	}
}

func TestReadPeopleCSVRejectsBrokenQuotes(t *testing.T) {
	if _, err := lookup.ReadPeopleCSV(strings.NewReader("1,\"Jane\n")); err == nil {
		t.Fatal("expected parse error")
	}
}
