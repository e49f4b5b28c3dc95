// Package audit records composite-write failures and membership drift
// for manual reconciliation. The document store offers no cross-document
// transactions, so a two-write operation can fail halfway; nothing here
// compensates automatically, it only makes the damage findable.
package audit

import (
	"context"
	"fmt"
	"time"
)

// PartialWriteError reports a composite two-write operation that failed
// after its first half succeeded. It carries enough detail to reconcile
// by hand.
type PartialWriteError struct {
	Entity     string // e.g. "project", "hackathon"
	EntityID   string
	FailedStep string // which half did not land
	Err        error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial write on %s %s: %s failed: %v", e.Entity, e.EntityID, e.FailedStep, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// Record is one ledger entry.
type Record struct {
	Entity     string
	EntityID   string
	UserID     string
	FailedStep string
	Detail     string
	OccurredAt time.Time
}

// Recorder persists ledger entries. Services must not fail an operation
// because the ledger write failed; implementations log and swallow.
type Recorder interface {
	RecordPartialWrite(ctx context.Context, rec Record)
}

// NopRecorder discards entries. Used when the audit database is not
// configured.
type NopRecorder struct{}

func (NopRecorder) RecordPartialWrite(context.Context, Record) {}
