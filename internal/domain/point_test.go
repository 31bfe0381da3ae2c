package domain

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCoverages struct {
	windows    map[string]Grid
	windowErrs map[string]error
	areas      map[string]Grid
	areaErrs   map[string]error

	windowCalls int
	areaCalls   int
}

func (f *fakeCoverages) FetchCoverage(_ context.Context, coverage string) (Grid, error) {
	return f.windows[coverage], f.windowErrs[coverage]
}

func (f *fakeCoverages) FetchWindow(_ context.Context, coverage string, _, _ float64) (Grid, error) {
	f.windowCalls++
	if err := f.windowErrs[coverage]; err != nil {
		return Grid{}, err
	}
	return f.windows[coverage], nil
}

func (f *fakeCoverages) FetchArea(_ context.Context, coverage string, _ AOI) (Grid, error) {
	f.areaCalls++
	if err := f.areaErrs[coverage]; err != nil {
		return Grid{}, err
	}
	return f.areas[coverage], nil
}

func grid(values ...float64) Grid {
	return Grid{Cells: [][]float64{values}}
}

func TestPointAnalyzerAnalyze(t *testing.T) {
	const primary = "uhi"

	t.Run("high intensity point", func(t *testing.T) {
		frozen := time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
		SetClock(clockwork.NewFakeClockAt(frozen))
		defer SetClock(nil)

		source := &fakeCoverages{windows: map[string]Grid{
			primary: grid(11, 13),
			"lst":   grid(41.5),
			"ndvi":  grid(0.12),
		}}
		a := NewPointAnalyzer(
			NewGate(&fakeMembership{count: 1}, "city:aoi", testLogger()),
			source, primary, []string{"lst", "ndvi"}, testLogger(),
		)

		res := a.Analyze(context.Background(), 9.93, 76.26)

		assert.Equal(t, PointOK, res.Status)
		require.NotNil(t, res.PrimaryValue)
		assert.InDelta(t, 12.0, *res.PrimaryValue, 1e-12)
		assert.Equal(t, TierHigh, res.Label)
		require.Len(t, res.Recommendations, 3)
		assert.Contains(t, res.Recommendations[0], "CRITICAL ACTION REQUIRED")
		require.NotNil(t, res.Samples["lst"])
		assert.Equal(t, 41.5, *res.Samples["lst"])
		assert.Equal(t, frozen, res.GeneratedAt)
	})

	t.Run("gate denial skips all raster access", func(t *testing.T) {
		source := &fakeCoverages{windows: map[string]Grid{primary: grid(12)}}
		a := NewPointAnalyzer(
			NewGate(&fakeMembership{count: 0}, "city:aoi", testLogger()),
			source, primary, []string{"lst"}, testLogger(),
		)

		res := a.Analyze(context.Background(), 9.93, 76.26)

		assert.Equal(t, PointRejected, res.Status)
		assert.NotEmpty(t, res.Message)
		assert.Zero(t, source.windowCalls)
		assert.Equal(t, TierUnknown, res.Label)
		assert.Empty(t, res.Recommendations)
	})

	t.Run("unreachable boundary service is a service error", func(t *testing.T) {
		source := &fakeCoverages{}
		a := NewPointAnalyzer(
			NewGate(&fakeMembership{err: &UnreachableError{Op: "wfs", Err: errors.New("timeout")}}, "city:aoi", testLogger()),
			source, primary, nil, testLogger(),
		)

		res := a.Analyze(context.Background(), 9.93, 76.26)

		assert.Equal(t, PointServiceError, res.Status)
		assert.Zero(t, source.windowCalls)
	})

	t.Run("no valid data at the point is outside coverage", func(t *testing.T) {
		source := &fakeCoverages{windows: map[string]Grid{
			primary: grid(math.NaN()),
			"lst":   grid(40),
		}}
		a := NewPointAnalyzer(
			NewGate(&fakeMembership{count: 1}, "city:aoi", testLogger()),
			source, primary, []string{"lst"}, testLogger(),
		)

		res := a.Analyze(context.Background(), 9.93, 76.26)

		assert.Equal(t, PointOutsideCoverage, res.Status)
		assert.Nil(t, res.PrimaryValue)
		assert.Equal(t, TierUnknown, res.Label)
		assert.Equal(t, "Outside coverage area", res.Description)
		assert.Empty(t, res.Recommendations)
		// Informational samples are still reported.
		require.NotNil(t, res.Samples["lst"])
	})

	t.Run("primary fetch failure folds into outside coverage", func(t *testing.T) {
		source := &fakeCoverages{windowErrs: map[string]error{
			primary: &BackendError{Op: "wcs window", StatusCode: 500},
		}}
		a := NewPointAnalyzer(
			NewGate(&fakeMembership{count: 1}, "city:aoi", testLogger()),
			source, primary, nil, testLogger(),
		)

		res := a.Analyze(context.Background(), 9.93, 76.26)

		assert.Equal(t, PointOutsideCoverage, res.Status)
		assert.Nil(t, res.PrimaryValue)
	})

	t.Run("informational fetch failure yields nil sample only", func(t *testing.T) {
		source := &fakeCoverages{
			windows:    map[string]Grid{primary: grid(3)},
			windowErrs: map[string]error{"ndbi": &BackendError{Op: "wcs window", StatusCode: 500}},
		}
		a := NewPointAnalyzer(
			NewGate(&fakeMembership{count: 1}, "city:aoi", testLogger()),
			source, primary, []string{"ndbi"}, testLogger(),
		)

		res := a.Analyze(context.Background(), 9.93, 76.26)

		assert.Equal(t, PointOK, res.Status)
		assert.Equal(t, TierLow, res.Label)
		require.Contains(t, res.Samples, "ndbi")
		assert.Nil(t, res.Samples["ndbi"])
	})

	t.Run("skipped gate still samples", func(t *testing.T) {
		source := &fakeCoverages{windows: map[string]Grid{primary: grid(7)}}
		a := NewPointAnalyzer(
			NewGate(&fakeMembership{err: &LayerUnavailableError{Layer: "city:aoi", StatusCode: 404}}, "city:aoi", testLogger()),
			source, primary, nil, testLogger(),
		)

		res := a.Analyze(context.Background(), 9.93, 76.26)

		assert.Equal(t, PointOK, res.Status)
		assert.Equal(t, TierModerate, res.Label)
		assert.Len(t, res.Recommendations, 3)
	})
}
