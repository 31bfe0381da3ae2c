package domain

import (
	"context"
	"log/slog"
	"time"
)

// PointStatus tags the terminal state of a point analysis.
type PointStatus string

const (
	// PointOK: the primary coverage was sampled and classified.
	PointOK PointStatus = "ok"
	// PointOutsideCoverage: the primary coverage had no valid data at the
	// point. A normal outcome, not an error.
	PointOutsideCoverage PointStatus = "outside_coverage"
	// PointRejected: the spatial gate denied the query.
	PointRejected PointStatus = "rejected"
	// PointServiceError: the gate's backing service was unreachable.
	PointServiceError PointStatus = "service_error"
)

// PointResult is the terminal record of a point analysis.
type PointResult struct {
	Lat    float64     `json:"lat"`
	Lon    float64     `json:"lon"`
	Status PointStatus `json:"status"`

	Message string `json:"message,omitempty"`

	Classification

	// PrimaryValue is the windowed mean of the primary classification
	// coverage at the point, nil when the window held no valid pixel.
	PrimaryValue *float64 `json:"primary_value"`

	// Samples holds the windowed means of the informational coverages by
	// name. A nil value means the coverage had no valid data at the point.
	Samples map[string]*float64 `json:"samples"`

	Recommendations []string  `json:"recommendations"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// PointAnalyzer runs the gate → sample → classify → recommend pipeline for a
// single coordinate.
type PointAnalyzer struct {
	gate          *Gate
	source        CoverageSource
	primary       string
	informational []string
	logger        *slog.Logger
}

// NewPointAnalyzer wires the point pipeline. primary is the required
// classification coverage; informational coverages are sampled best-effort.
func NewPointAnalyzer(gate *Gate, source CoverageSource, primary string, informational []string, logger *slog.Logger) *PointAnalyzer {
	return &PointAnalyzer{
		gate:          gate,
		source:        source,
		primary:       primary,
		informational: informational,
		logger:        logger,
	}
}

// Analyze runs the linear point pipeline. It never returns an error: every
// outcome, including gate denial and backend unavailability, is a tagged
// terminal state on the result.
func (a *PointAnalyzer) Analyze(ctx context.Context, lat, lon float64) PointResult {
	res := PointResult{
		Lat:             lat,
		Lon:             lon,
		Classification:  Classify(nil),
		Samples:         map[string]*float64{},
		Recommendations: []string{},
		GeneratedAt:     clock.Now(),
	}

	decision := a.gate.Check(ctx, lat, lon)
	if !decision.Allowed {
		res.Status = PointRejected
		if decision.Kind == DecisionUnreachable {
			res.Status = PointServiceError
		}
		res.Message = decision.Reason
		return res
	}

	res.PrimaryValue = a.sample(ctx, a.primary, lat, lon)
	for _, name := range a.informational {
		res.Samples[name] = a.sample(ctx, name, lat, lon)
	}

	if res.PrimaryValue == nil {
		res.Status = PointOutsideCoverage
		res.Message = "location is outside the classification coverage"
		res.Classification = classificationFor(TierUnknown)
		res.Description = "Outside coverage area"
		return res
	}

	res.Status = PointOK
	res.Classification = Classify(res.PrimaryValue)
	res.Recommendations = RecommendationsForTier(res.Label)
	return res
}

// sample fetches a window around the point and averages its valid pixels.
// Fetch failures are folded into a nil sample: for the primary coverage the
// pipeline then terminates in the outside-coverage state rather than
// escalating, and informational coverages are best-effort by contract.
func (a *PointAnalyzer) sample(ctx context.Context, coverage string, lat, lon float64) *float64 {
	grid, err := a.source.FetchWindow(ctx, coverage, lat, lon)
	if err != nil {
		a.logger.Warn("coverage window fetch failed",
			"coverage", coverage, "lat", lat, "lon", lon, "error", err)
		return nil
	}
	return MeanOfValid(grid)
}
