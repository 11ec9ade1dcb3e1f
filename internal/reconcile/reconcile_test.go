package reconcile_test

import (
	"errors"
	"fmt"
	"testing"

	"ledgerconv/internal/reconcile"
)

func TestValidate(t *testing.T) {
	ok := reconcile.Result{SourceFile: "a.csv", SourceRows: 5, OutputRows: 3, ExceptionRows: 2}
	if err := reconcile.Validate(ok); err != nil {
		t.Fatalf("expected balanced result to pass, got %v", err)
	}

	bad := ok
	bad.OutputRows = 2
	err := reconcile.Validate(bad)
	if err == nil {
		t.Fatal("expected mismatch")
	}
	var mismatch *reconcile.MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *MismatchError, got %T", err)
	}
	if mismatch.Stage != reconcile.StageOutput || mismatch.ErrorKind() != "reconciliation" {
		t.Fatalf("unexpected mismatch %+v", mismatch)
	}
	if !errors.Is(fmt.Errorf("process: %w", err), reconcile.ErrMismatch) {
		t.Fatal("expected wrapped error to match ErrMismatch")
	}
	if !reconcile.IsMismatch(fmt.Errorf("wrapped: %w", err)) {
		t.Fatal("IsMismatch should see through wrapping")
	}
}

func TestCheckPartition(t *testing.T) {
	if err := reconcile.CheckPartition("a.csv", 4, 3, 1); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	err := reconcile.CheckPartition("a.csv", 4, 3, 0)
	var mismatch *reconcile.MismatchError
	if !errors.As(err, &mismatch) || mismatch.Stage != reconcile.StageClassification {
		t.Fatalf("expected classification mismatch, got %v", err)
	}
	if reconcile.IsMismatch(errors.New("other")) {
		t.Fatal("plain errors are not mismatches")
	}
}
