package domain

import "context"

// CoverageSource provides raster cell data for named coverages.
// Implementations return *CoverageNotFoundError, *BackendError, or
// *UnreachableError on failure.
type CoverageSource interface {
	// FetchCoverage returns the full grid for a coverage.
	FetchCoverage(ctx context.Context, coverage string) (Grid, error)

	// FetchWindow returns a small grid centered on the given point.
	FetchWindow(ctx context.Context, coverage string, lat, lon float64) (Grid, error)

	// FetchArea returns the grid restricted to the AOI. Implementations
	// attempt a precise polygon clip first and fall back to the AOI's
	// bounding box when the backend rejects the clip request.
	FetchArea(ctx context.Context, coverage string, aoi AOI) (Grid, error)
}

// MembershipSource counts AOI-layer features intersecting a point.
// Implementations distinguish *LayerUnavailableError (layer absent or
// misconfigured), *BackendError, and *UnreachableError.
type MembershipSource interface {
	CountIntersecting(ctx context.Context, layer string, lat, lon float64) (int, error)
}
