package geoserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/urbansignal/heatlens/internal/domain"
)

// pixelDegrees is the coverage resolution assumed when buffering a point into
// a sampling window.
const pixelDegrees = 0.0001

// wcsQuery builds the base GetCoverage parameter set for a coverage. The
// arcgrid output format keeps responses plain text.
func (c *Client) wcsQuery(layer string) url.Values {
	return url.Values{
		"service":    {"WCS"},
		"version":    {"2.0.1"},
		"request":    {"GetCoverage"},
		"coverageId": {c.coverageID(layer)},
		"format":     {"application/arcgrid"},
	}
}

// FetchCoverage returns the full grid for a coverage.
func (c *Client) FetchCoverage(ctx context.Context, coverage string) (domain.Grid, error) {
	ctx, cancel := context.WithTimeout(ctx, c.coverageTimeout)
	defer cancel()

	return c.getCoverage(ctx, coverage, c.wcsQuery(coverage))
}

// FetchWindow returns a small grid centered on the point, buffered by half
// the configured window size in each direction.
func (c *Client) FetchWindow(ctx context.Context, coverage string, lat, lon float64) (domain.Grid, error) {
	ctx, cancel := context.WithTimeout(ctx, c.coverageTimeout)
	defer cancel()

	buffer := float64(c.windowSize) / 2 * pixelDegrees
	params := c.wcsQuery(coverage)
	params["subset"] = []string{
		fmt.Sprintf("Lat(%f,%f)", lat-buffer, lat+buffer),
		fmt.Sprintf("Long(%f,%f)", lon-buffer, lon+buffer),
	}
	return c.getCoverage(ctx, coverage, params)
}

// FetchArea returns the grid restricted to the AOI. The first attempt clips
// precisely to the polygon; if the backend rejects the clip request the
// bounding-box subset alone is used, and the NoData mask absorbs the pixels
// outside the polygon.
func (c *Client) FetchArea(ctx context.Context, coverage string, aoi domain.AOI) (domain.Grid, error) {
	ctx, cancel := context.WithTimeout(ctx, c.areaTimeout)
	defer cancel()

	bound := aoi.Bound()
	params := c.wcsQuery(coverage)
	params["subset"] = []string{
		fmt.Sprintf("Lat(%f,%f)", bound.Min[1], bound.Max[1]),
		fmt.Sprintf("Long(%f,%f)", bound.Min[0], bound.Max[0]),
	}

	clipped := cloneValues(params)
	clipped.Set("CLIP", aoi.WKT())
	clipped.Set("CLIPCRS", domain.SupportedCRS)

	grid, err := c.getCoverage(ctx, coverage, clipped)
	var backendErr *domain.BackendError
	if errors.As(err, &backendErr) {
		c.metrics.ClipFallbacks.Inc()
		c.logger.Warn("polygon clip rejected, falling back to bounding box",
			"coverage", coverage, "status", backendErr.StatusCode)
		return c.getCoverage(ctx, coverage, params)
	}
	return grid, err
}

// getCoverage performs one GetCoverage request and parses the grid.
func (c *Client) getCoverage(ctx context.Context, coverage string, params url.Values) (domain.Grid, error) {
	const op = "wcs getcoverage"
	fullURL := c.baseURL + "/" + c.workspace + "/wcs?" + params.Encode()

	resp, err := c.get(ctx, "wcs", op, fullURL)
	if err != nil {
		return domain.Grid{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.metrics.BackendRequests.WithLabelValues("wcs", "error").Inc()
		return domain.Grid{}, &domain.CoverageNotFoundError{Coverage: coverage}
	case resp.StatusCode != http.StatusOK:
		c.metrics.BackendRequests.WithLabelValues("wcs", "error").Inc()
		return domain.Grid{}, &domain.BackendError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body),
		}
	}

	grid, err := parseArcGrid(resp.Body)
	if err != nil {
		c.metrics.BackendRequests.WithLabelValues("wcs", "error").Inc()
		return domain.Grid{}, fmt.Errorf("%s: %w", op, err)
	}

	c.metrics.BackendRequests.WithLabelValues("wcs", "success").Inc()
	return grid, nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
