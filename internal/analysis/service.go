// Package analysis orchestrates the domain pipelines behind the HTTP API:
// whole-coverage summaries, point analyses, AOI analyses, readiness, and the
// audit trail.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/urbansignal/heatlens/internal/domain"
	"github.com/urbansignal/heatlens/internal/observability"
)

// AuditRecord is the event published for every completed analysis.
type AuditRecord struct {
	Kind   string `json:"kind"` // point or aoi
	Status string `json:"status"`

	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
	AreaSqKm *float64 `json:"area_sq_km,omitempty"`

	Tier string `json:"tier,omitempty"`
	Zone string `json:"zone,omitempty"`

	At time.Time `json:"analyzed_at"`
}

// AuditSink receives audit records. Publishing is best-effort: failures are
// logged and counted but never affect the analysis response.
type AuditSink interface {
	Publish(ctx context.Context, record AuditRecord) error
}

// LayerReport is one coverage's entry in the whole-coverage summary. Exactly
// one of Statistics and Error is set.
type LayerReport struct {
	Statistics *domain.Summary `json:"statistics,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// SummaryReport aggregates per-coverage statistics. Individual coverage
// failures are reported inline so one broken layer does not hide the rest.
type SummaryReport struct {
	Layers      map[string]LayerReport `json:"layers"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// AllFailed reports whether every layer entry carries an error.
func (r SummaryReport) AllFailed() bool {
	if len(r.Layers) == 0 {
		return false
	}
	for _, layer := range r.Layers {
		if layer.Error == "" {
			return false
		}
	}
	return true
}

// Service wires the domain pipelines to the data sources and instruments
// them.
type Service struct {
	source    domain.CoverageSource
	point     *domain.PointAnalyzer
	aoi       *domain.AOIAnalyzer
	primary   string
	coverages []string

	audit   AuditSink // nil when auditing is disabled
	metrics *observability.Metrics
	logger  *slog.Logger

	ready atomic.Bool
}

// New creates the analysis service. coverages is the full set reported by the
// summary endpoint, primary first.
func New(
	source domain.CoverageSource,
	point *domain.PointAnalyzer,
	aoi *domain.AOIAnalyzer,
	primary string,
	informational []string,
	audit AuditSink,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Service {
	coverages := append([]string{primary}, informational...)
	return &Service{
		source:    source,
		point:     point,
		aoi:       aoi,
		primary:   primary,
		coverages: coverages,
		audit:     audit,
		metrics:   metrics,
		logger:    logger,
	}
}

// CoverageSummary computes NoData-aware statistics for every configured
// coverage. Per-layer failures degrade to inline error entries.
func (s *Service) CoverageSummary(ctx context.Context) SummaryReport {
	report := SummaryReport{
		Layers:      make(map[string]LayerReport, len(s.coverages)),
		GeneratedAt: clock.Now().UTC(),
	}

	for _, name := range s.coverages {
		stats, err := s.layerStats(ctx, name)
		if err != nil {
			s.logger.Warn("coverage summary layer failed", "coverage", name, "error", err)
			report.Layers[name] = LayerReport{Error: err.Error()}
			continue
		}
		report.Layers[name] = LayerReport{Statistics: &stats}
	}
	return report
}

// LayerStats computes statistics for one coverage. An all-NoData coverage is
// domain.ErrNoValidData; unknown coverages surface *domain.CoverageNotFoundError.
func (s *Service) LayerStats(ctx context.Context, name string) (domain.Summary, error) {
	return s.layerStats(ctx, name)
}

func (s *Service) layerStats(ctx context.Context, name string) (domain.Summary, error) {
	grid, err := s.source.FetchCoverage(ctx, name)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("fetch coverage %q: %w", name, err)
	}
	return domain.SummarizeStrict(grid.ValidPixels())
}

// AnalyzePoint runs the point pipeline and records metrics and the audit
// event.
func (s *Service) AnalyzePoint(ctx context.Context, lat, lon float64) domain.PointResult {
	start := clock.Now()
	res := s.point.Analyze(ctx, lat, lon)
	s.metrics.AnalysisDuration.WithLabelValues("point").Observe(clock.Since(start).Seconds())
	s.metrics.AnalysesTotal.WithLabelValues("point", string(res.Status)).Inc()

	s.publishAudit(ctx, AuditRecord{
		Kind:   "point",
		Status: string(res.Status),
		Lat:    &res.Lat,
		Lon:    &res.Lon,
		Tier:   string(res.Label),
		At:     res.GeneratedAt,
	})
	return res
}

// AnalyzeAOI runs the area pipeline and records metrics and the audit event.
func (s *Service) AnalyzeAOI(ctx context.Context, aoi domain.AOI) (domain.AOIResult, error) {
	start := clock.Now()
	res, err := s.aoi.Analyze(ctx, aoi)
	s.metrics.AnalysisDuration.WithLabelValues("aoi").Observe(clock.Since(start).Seconds())
	if err != nil {
		s.metrics.AnalysesTotal.WithLabelValues("aoi", "error").Inc()
		return domain.AOIResult{}, err
	}
	s.metrics.AnalysesTotal.WithLabelValues("aoi", string(res.Status)).Inc()

	record := AuditRecord{
		Kind:     "aoi",
		Status:   string(res.Status),
		AreaSqKm: &res.AreaSqKm,
		At:       res.GeneratedAt,
	}
	if res.Classification != nil {
		record.Tier = string(res.Classification.Label)
	}
	if res.Plan != nil {
		record.Zone = res.Plan.ZoneType
	}
	s.publishAudit(ctx, record)
	return res, nil
}

// CheckReadiness probes the raster backend with a minimal window request.
// Any response at all, including a not-found coverage, proves the backend is
// reachable; only a network-level failure marks the service not ready.
func (s *Service) CheckReadiness(ctx context.Context) error {
	_, err := s.source.FetchWindow(ctx, s.primary, 0, 0)

	var unreachable *domain.UnreachableError
	if errors.As(err, &unreachable) {
		s.ready.Store(false)
		s.metrics.ServiceReady.Set(0)
		return unreachable
	}

	s.ready.Store(true)
	s.metrics.ServiceReady.Set(1)
	return nil
}

// Ready reports the outcome of the last readiness probe.
func (s *Service) Ready() bool {
	return s.ready.Load()
}

func (s *Service) publishAudit(ctx context.Context, record AuditRecord) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Publish(ctx, record); err != nil {
		s.logger.Warn("audit publish failed", "kind", record.Kind, "error", err)
	}
}
