package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// Operation identifies a single remote operation kind.
type Operation string

const (
	OpScript      Operation = "script"
	OpVoice       Operation = "voice"
	OpThumbnail   Operation = "thumbnail"
	OpStockSearch Operation = "stock_search"
	OpMetadata    Operation = "metadata"
	OpAssemble    Operation = "assemble"
	OpStatus      Operation = "status"
	OpProbe       Operation = "probe"
	OpDownload    Operation = "download"
)

// ErrorKind classifies an operation failure.
type ErrorKind int

const (
	// KindTimeout means the client-side deadline expired before the server
	// answered. Distinct from a provider rejection: the remote work may
	// still be running or may even have succeeded.
	KindTimeout ErrorKind = iota

	// KindProvider means the server answered with a non-success status.
	KindProvider

	// KindTransport means the request failed before an HTTP status was
	// received (connection refused, DNS, reset).
	KindTransport
)

// OpError is the uniform error for remote operations.
type OpError struct {
	Op     Operation
	Kind   ErrorKind
	Status int    // HTTP status for KindProvider
	Detail string // Server-provided detail, when available
	Err    error
}

func (e *OpError) Error() string {
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("%s operation timed out", e.Op)
	case KindProvider:
		if e.Detail != "" {
			return fmt.Sprintf("%s operation rejected (status %d): %s", e.Op, e.Status, e.Detail)
		}
		return fmt.Sprintf("%s operation rejected (status %d)", e.Op, e.Status)
	default:
		return fmt.Sprintf("%s operation failed: %v", e.Op, e.Err)
	}
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a client-side deadline expiry.
func IsTimeout(err error) bool {
	var opErr *OpError
	return errors.As(err, &opErr) && opErr.Kind == KindTimeout
}

// wrapTransportErr classifies a transport-level error, detecting deadline
// expiry so callers can distinguish a premature client abort from a remote
// rejection.
func wrapTransportErr(op Operation, err error) *OpError {
	kind := KindTransport
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		kind = KindTimeout
	}
	return &OpError{Op: op, Kind: kind, Err: err}
}
