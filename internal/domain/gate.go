package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// DecisionKind records why the gate allowed or denied a point query.
type DecisionKind string

const (
	// DecisionInside: the point intersects the AOI polygon.
	DecisionInside DecisionKind = "inside"
	// DecisionSkipped: the AOI layer is absent or misconfigured, so the
	// membership check is unavailable and the raster coverage extent becomes
	// the effective spatial boundary.
	DecisionSkipped DecisionKind = "skipped"
	// DecisionOutside: the point does not intersect the AOI polygon.
	DecisionOutside DecisionKind = "outside"
	// DecisionBackendError: the vector backend returned a server-error
	// class response.
	DecisionBackendError DecisionKind = "backend_error"
	// DecisionUnreachable: the vector backend could not be reached.
	DecisionUnreachable DecisionKind = "unreachable"
)

// Decision is the gate's verdict. Allowed collapses "confirmed inside" and
// "cannot confirm, proceed anyway" into one outcome; everything else denies
// the query before any raster access happens.
type Decision struct {
	Allowed bool
	Kind    DecisionKind
	Reason  string
}

// Gate validates that a query point lies inside the authoritative AOI
// polygon before the pipeline touches any raster data.
type Gate struct {
	source MembershipSource
	layer  string
	logger *slog.Logger
}

// NewGate creates a spatial gate over the given membership source and AOI
// layer name.
func NewGate(source MembershipSource, layer string, logger *slog.Logger) *Gate {
	return &Gate{source: source, layer: layer, logger: logger}
}

// Check runs the point-in-polygon membership query and maps the outcome to a
// Decision. An absent or misconfigured AOI layer allows the query to
// proceed: raster NoData then provides the natural spatial validation.
func (g *Gate) Check(ctx context.Context, lat, lon float64) Decision {
	count, err := g.source.CountIntersecting(ctx, g.layer, lat, lon)

	var layerErr *LayerUnavailableError
	var unreachErr *UnreachableError
	switch {
	case errors.As(err, &layerErr):
		g.logger.Warn("aoi layer unavailable, skipping membership check",
			"layer", g.layer, "status", layerErr.StatusCode)
		return Decision{Allowed: true, Kind: DecisionSkipped}

	case errors.As(err, &unreachErr):
		return Decision{
			Kind:   DecisionUnreachable,
			Reason: fmt.Sprintf("cannot reach boundary service for membership check: %v", unreachErr.Err),
		}

	case err != nil:
		return Decision{
			Kind:   DecisionBackendError,
			Reason: fmt.Sprintf("membership check failed: %v", err),
		}

	case count == 0:
		g.logger.Info("point outside aoi boundary", "lat", lat, "lon", lon, "layer", g.layer)
		return Decision{
			Kind:   DecisionOutside,
			Reason: "selected point is outside the area of interest",
		}
	}

	return Decision{Allowed: true, Kind: DecisionInside}
}
