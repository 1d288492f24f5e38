package service

import (
	"errors"
	"fmt"
)

// FaultKind is the machine-readable classification of a ledger failure.
// The values travel on the wire inside the apierror envelope.
type FaultKind string

const (
	// KindItemNotFound: the referenced product/material id does not resolve.
	// Detected before any write.
	KindItemNotFound FaultKind = "item_not_found"
	// KindInsufficientStock: a sale exceeds the reconciled stock. Detected
	// before any write; the message states the available quantity.
	KindInsufficientStock FaultKind = "insufficient_stock"
	// KindStoreUnavailable: an underlying read or write failed. No partial
	// state is assumed consistent.
	KindStoreUnavailable FaultKind = "store_unavailable"
	// KindWriteInconsistency: the ledger append succeeded, the stock
	// write-back failed, and the compensating delete failed too. The ledger
	// and the registry now disagree — this must never be swallowed.
	KindWriteInconsistency FaultKind = "write_inconsistency"
)

// Fault is the typed error returned by the ledger services. Handlers map the
// Kind to an HTTP status; Message is safe to show to the client.
type Fault struct {
	Kind    FaultKind
	Message string
	Err     error // underlying store error, for logs only
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Fault) Unwrap() error { return f.Err }

// AsFault extracts a *Fault from an error chain, or nil.
func AsFault(err error) *Fault {
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return nil
}

func notFound(format string, args ...interface{}) *Fault {
	return &Fault{Kind: KindItemNotFound, Message: fmt.Sprintf(format, args...)}
}

func insufficientStock(format string, args ...interface{}) *Fault {
	return &Fault{Kind: KindInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

func storeUnavailable(msg string, err error) *Fault {
	return &Fault{Kind: KindStoreUnavailable, Message: msg, Err: err}
}

func writeInconsistency(msg string, err error) *Fault {
	return &Fault{Kind: KindWriteInconsistency, Message: msg, Err: err}
}
