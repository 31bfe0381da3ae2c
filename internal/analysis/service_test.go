package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbansignal/heatlens/internal/domain"
	"github.com/urbansignal/heatlens/internal/observability"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSource struct {
	grids map[string]domain.Grid
	errs  map[string]error
}

func (f *fakeSource) FetchCoverage(_ context.Context, coverage string) (domain.Grid, error) {
	if err := f.errs[coverage]; err != nil {
		return domain.Grid{}, err
	}
	return f.grids[coverage], nil
}

func (f *fakeSource) FetchWindow(_ context.Context, coverage string, _, _ float64) (domain.Grid, error) {
	if err := f.errs[coverage]; err != nil {
		return domain.Grid{}, err
	}
	return f.grids[coverage], nil
}

func (f *fakeSource) FetchArea(_ context.Context, coverage string, _ domain.AOI) (domain.Grid, error) {
	if err := f.errs[coverage]; err != nil {
		return domain.Grid{}, err
	}
	return f.grids[coverage], nil
}

type allowAll struct{}

func (allowAll) CountIntersecting(context.Context, string, float64, float64) (int, error) {
	return 1, nil
}

type recordingSink struct {
	records []AuditRecord
	err     error
}

func (s *recordingSink) Publish(_ context.Context, record AuditRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func grid(values ...float64) domain.Grid {
	return domain.Grid{Cells: [][]float64{values}}
}

func newService(source *fakeSource, sink AuditSink) *Service {
	logger := testLogger()
	gate := domain.NewGate(allowAll{}, "aoi_boundary", logger)
	point := domain.NewPointAnalyzer(gate, source, "UHI", []string{"LST"}, logger)
	aoi := domain.NewAOIAnalyzer(source, "UHI", []string{"LST"}, logger)
	return New(source, point, aoi, "UHI", []string{"LST"}, sink, observability.NewMetricsForTesting(), logger)
}

func testAOI(t *testing.T) domain.AOI {
	t.Helper()
	aoi, err := domain.AOIFromGeometry(orb.Polygon{{
		{76.26, 9.93}, {76.27, 9.93}, {76.27, 9.94}, {76.26, 9.94}, {76.26, 9.93},
	}})
	require.NoError(t, err)
	return aoi
}

func TestService_CoverageSummary(t *testing.T) {
	source := &fakeSource{
		grids: map[string]domain.Grid{"UHI": grid(1, 2, 3)},
		errs:  map[string]error{"LST": &domain.CoverageNotFoundError{Coverage: "LST"}},
	}
	svc := newService(source, nil)

	report := svc.CoverageSummary(context.Background())

	require.Contains(t, report.Layers, "UHI")
	require.NotNil(t, report.Layers["UHI"].Statistics)
	assert.Equal(t, 3, report.Layers["UHI"].Statistics.Count)
	assert.Empty(t, report.Layers["UHI"].Error)

	require.Contains(t, report.Layers, "LST")
	assert.Nil(t, report.Layers["LST"].Statistics)
	assert.Contains(t, report.Layers["LST"].Error, "not found")
	assert.False(t, report.GeneratedAt.IsZero())
	assert.False(t, report.AllFailed())
}

func TestService_CoverageSummary_FrozenClock(t *testing.T) {
	frozen := time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	svc := newService(&fakeSource{grids: map[string]domain.Grid{
		"UHI": grid(1),
		"LST": grid(2),
	}}, nil)

	report := svc.CoverageSummary(context.Background())
	assert.Equal(t, frozen, report.GeneratedAt)
}

func TestService_CoverageSummary_AllFailed(t *testing.T) {
	unreachable := &domain.UnreachableError{Op: "wcs", Err: errors.New("refused")}
	source := &fakeSource{errs: map[string]error{"UHI": unreachable, "LST": unreachable}}
	svc := newService(source, nil)

	report := svc.CoverageSummary(context.Background())
	assert.True(t, report.AllFailed())
}

func TestService_LayerStats(t *testing.T) {
	t.Run("valid coverage", func(t *testing.T) {
		svc := newService(&fakeSource{grids: map[string]domain.Grid{"UHI": grid(2, 4)}}, nil)
		stats, err := svc.LayerStats(context.Background(), "UHI")
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Count)
		assert.Equal(t, 3.0, *stats.Mean)
	})

	t.Run("all nodata coverage", func(t *testing.T) {
		svc := newService(&fakeSource{grids: map[string]domain.Grid{"UHI": grid(math.NaN())}}, nil)
		_, err := svc.LayerStats(context.Background(), "UHI")
		require.ErrorIs(t, err, domain.ErrNoValidData)
	})

	t.Run("unknown coverage", func(t *testing.T) {
		svc := newService(&fakeSource{errs: map[string]error{"NOPE": &domain.CoverageNotFoundError{Coverage: "NOPE"}}}, nil)
		_, err := svc.LayerStats(context.Background(), "NOPE")
		var notFound *domain.CoverageNotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestService_AnalyzePoint_Audits(t *testing.T) {
	sink := &recordingSink{}
	svc := newService(&fakeSource{grids: map[string]domain.Grid{
		"UHI": grid(12),
		"LST": grid(41),
	}}, sink)

	res := svc.AnalyzePoint(context.Background(), 9.93, 76.26)
	assert.Equal(t, domain.PointOK, res.Status)

	require.Len(t, sink.records, 1)
	rec := sink.records[0]
	assert.Equal(t, "point", rec.Kind)
	assert.Equal(t, "ok", rec.Status)
	assert.Equal(t, 9.93, *rec.Lat)
	assert.Equal(t, 76.26, *rec.Lon)
	assert.Equal(t, "High", rec.Tier)
	assert.Nil(t, rec.AreaSqKm)
}

func TestService_AnalyzePoint_AuditFailureIsSwallowed(t *testing.T) {
	sink := &recordingSink{err: errors.New("broker down")}
	svc := newService(&fakeSource{grids: map[string]domain.Grid{"UHI": grid(3)}}, sink)

	res := svc.AnalyzePoint(context.Background(), 9.93, 76.26)
	assert.Equal(t, domain.PointOK, res.Status)
}

func TestService_AnalyzeAOI(t *testing.T) {
	t.Run("audited success", func(t *testing.T) {
		sink := &recordingSink{}
		svc := newService(&fakeSource{grids: map[string]domain.Grid{
			"UHI": grid(11, 12, 13),
			"LST": grid(40),
		}}, sink)

		res, err := svc.AnalyzeAOI(context.Background(), testAOI(t))
		require.NoError(t, err)
		assert.Equal(t, domain.AOISuccess, res.Status)

		require.Len(t, sink.records, 1)
		rec := sink.records[0]
		assert.Equal(t, "aoi", rec.Kind)
		assert.Equal(t, "success", rec.Status)
		assert.Equal(t, res.AreaSqKm, *rec.AreaSqKm)
		assert.Equal(t, "High", rec.Tier)
		assert.Equal(t, domain.ZoneSevereHeat, rec.Zone)
		assert.Nil(t, rec.Lat)
	})

	t.Run("primary failure propagates and skips audit", func(t *testing.T) {
		sink := &recordingSink{}
		svc := newService(&fakeSource{errs: map[string]error{
			"UHI": &domain.BackendError{Op: "wcs area", StatusCode: 500},
		}}, sink)

		_, err := svc.AnalyzeAOI(context.Background(), testAOI(t))
		require.Error(t, err)
		assert.Empty(t, sink.records)
	})

	t.Run("no data is audited", func(t *testing.T) {
		sink := &recordingSink{}
		svc := newService(&fakeSource{grids: map[string]domain.Grid{
			"UHI": grid(math.NaN()),
		}}, sink)

		res, err := svc.AnalyzeAOI(context.Background(), testAOI(t))
		require.NoError(t, err)
		assert.Equal(t, domain.AOINoData, res.Status)

		require.Len(t, sink.records, 1)
		assert.Equal(t, "no_data", sink.records[0].Status)
		assert.Empty(t, sink.records[0].Zone)
	})
}

func TestService_CheckReadiness(t *testing.T) {
	t.Run("reachable backend is ready", func(t *testing.T) {
		svc := newService(&fakeSource{grids: map[string]domain.Grid{"UHI": grid(1)}}, nil)
		require.NoError(t, svc.CheckReadiness(context.Background()))
		assert.True(t, svc.Ready())
	})

	t.Run("coverage errors still prove reachability", func(t *testing.T) {
		svc := newService(&fakeSource{errs: map[string]error{
			"UHI": &domain.CoverageNotFoundError{Coverage: "UHI"},
		}}, nil)
		require.NoError(t, svc.CheckReadiness(context.Background()))
		assert.True(t, svc.Ready())
	})

	t.Run("unreachable backend is not ready", func(t *testing.T) {
		svc := newService(&fakeSource{errs: map[string]error{
			"UHI": &domain.UnreachableError{Op: "wcs", Err: errors.New("refused")},
		}}, nil)
		require.Error(t, svc.CheckReadiness(context.Background()))
		assert.False(t, svc.Ready())
	})
}
