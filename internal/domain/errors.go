package domain

import (
	"errors"
	"fmt"
)

// ErrNoValidData reports that every cell of a coverage was excluded by the
// NoData mask in a context where an empty pixel set is not acceptable
// (whole-coverage summaries).
var ErrNoValidData = errors.New("coverage contains no valid data")

// InvalidGeometryError reports a structurally or topologically invalid input
// geometry.
type InvalidGeometryError struct {
	Reason string
}

func (e *InvalidGeometryError) Error() string {
	return "invalid geometry: " + e.Reason
}

// UnsupportedCRSError reports a declared reference system other than the one
// fixed supported system.
type UnsupportedCRSError struct {
	CRS string
}

func (e *UnsupportedCRSError) Error() string {
	return fmt.Sprintf("unsupported reference system %q: only %s is supported", e.CRS, SupportedCRS)
}

// CoverageNotFoundError reports that the backend does not serve the requested
// coverage.
type CoverageNotFoundError struct {
	Coverage string
}

func (e *CoverageNotFoundError) Error() string {
	return fmt.Sprintf("coverage %q not found", e.Coverage)
}

// LayerUnavailableError reports that the AOI vector layer is absent or
// misconfigured (client-error class response). The spatial gate degrades this
// to an allowed outcome; it is never surfaced to callers as a failure.
type LayerUnavailableError struct {
	Layer      string
	StatusCode int
}

func (e *LayerUnavailableError) Error() string {
	return fmt.Sprintf("aoi layer %q unavailable (status %d)", e.Layer, e.StatusCode)
}

// BackendError reports a non-success response from the raster or vector
// backend other than the soft layer-absent case.
type BackendError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *BackendError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: backend returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: backend returned status %d: %s", e.Op, e.StatusCode, e.Detail)
}

// UnreachableError reports a network-level failure talking to the backend.
type UnreachableError struct {
	Op  string
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("%s: backend unreachable: %v", e.Op, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }
