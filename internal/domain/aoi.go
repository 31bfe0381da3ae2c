package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// AOIStatus tags the terminal state of an AOI analysis.
type AOIStatus string

const (
	// AOISuccess: statistics, distribution, and a zone plan were produced.
	AOISuccess AOIStatus = "success"
	// AOINoData: the AOI lies outside the primary coverage or contains no
	// valid pixel. The projected area is still reported.
	AOINoData AOIStatus = "no_data"
)

// AOIResult is the terminal record of an AOI analysis. Fields beyond
// AreaSqKm are populated only for the success status.
type AOIResult struct {
	Status   AOIStatus `json:"status"`
	AreaSqKm float64   `json:"area_sq_km"`
	Message  string    `json:"message,omitempty"`

	Classification *Classification `json:"classification,omitempty"`
	Distribution   *Distribution   `json:"distribution,omitempty"`
	Plan           *ZonePlan       `json:"recommendations,omitempty"`

	// PrimaryStats describes the primary classification coverage inside the
	// AOI. InformationalStats holds per-coverage statistics for the
	// informational layers; a nil entry means that extraction failed or was
	// empty, which never aborts the analysis.
	PrimaryStats       *Summary            `json:"primary_statistics,omitempty"`
	InformationalStats map[string]*Summary `json:"statistics,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
}

// AOIAnalyzer runs the area pipeline: projected area, clipped extraction,
// distribution analysis, and zone planning.
type AOIAnalyzer struct {
	source        CoverageSource
	primary       string
	informational []string
	logger        *slog.Logger
}

// NewAOIAnalyzer wires the AOI pipeline over a coverage source.
func NewAOIAnalyzer(source CoverageSource, primary string, informational []string, logger *slog.Logger) *AOIAnalyzer {
	return &AOIAnalyzer{
		source:        source,
		primary:       primary,
		informational: informational,
		logger:        logger,
	}
}

// Analyze extracts the primary coverage restricted to the AOI and derives
// statistics, the tier distribution, and a zone plan. Extraction failure on
// the primary coverage is a hard error; informational coverages degrade to
// nil statistics. An empty primary extraction is the no_data terminal state.
func (a *AOIAnalyzer) Analyze(ctx context.Context, aoi AOI) (AOIResult, error) {
	area := round3(aoi.AreaSqKm())

	grid, err := a.source.FetchArea(ctx, a.primary, aoi)
	if err != nil {
		return AOIResult{}, fmt.Errorf("extract primary coverage %q: %w", a.primary, err)
	}

	pixels := grid.ValidPixels()
	if len(pixels) == 0 {
		return AOIResult{
			Status:      AOINoData,
			AreaSqKm:    area,
			Message:     "area of interest is outside raster coverage or contains no valid data",
			GeneratedAt: clock.Now(),
		}, nil
	}

	stats := Summarize(pixels)
	dist := AnalyzeDistribution(pixels)

	info := make(map[string]*Summary, len(a.informational))
	for _, name := range a.informational {
		info[name] = a.describeCoverage(ctx, name, aoi)
	}

	// The dominant tier drives the zone label; a non-empty pixel set always
	// has one, but the scalar rule on the mean remains as the fallback.
	cls := Classify(stats.Mean)
	if dist.Dominant != TierUnknown {
		cls = classificationFor(dist.Dominant)
	}

	plan := PlanForDistribution(dist, area)

	return AOIResult{
		Status:             AOISuccess,
		AreaSqKm:           area,
		Classification:     &cls,
		Distribution:       &dist,
		Plan:               &plan,
		PrimaryStats:       &stats,
		InformationalStats: info,
		GeneratedAt:        clock.Now(),
	}, nil
}

// describeCoverage extracts one informational coverage and summarizes it.
// Any failure yields nil statistics for that coverage only.
func (a *AOIAnalyzer) describeCoverage(ctx context.Context, coverage string, aoi AOI) *Summary {
	grid, err := a.source.FetchArea(ctx, coverage, aoi)
	if err != nil {
		a.logger.Warn("informational coverage extraction failed",
			"coverage", coverage, "error", err)
		return nil
	}
	s := Summarize(grid.ValidPixels())
	return &s
}
