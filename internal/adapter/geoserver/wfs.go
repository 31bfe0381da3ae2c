package geoserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/urbansignal/heatlens/internal/domain"
)

// CountIntersecting queries the AOI vector layer for features intersecting
// the point. A client-error response means the layer is absent or
// misconfigured and maps to *domain.LayerUnavailableError so the gate can
// degrade instead of failing.
func (c *Client) CountIntersecting(ctx context.Context, layer string, lat, lon float64) (int, error) {
	const op = "wfs getfeature"

	ctx, cancel := context.WithTimeout(ctx, c.membershipTimeout)
	defer cancel()

	params := url.Values{
		"service":      {"WFS"},
		"version":      {"2.0.0"},
		"request":      {"GetFeature"},
		"typeNames":    {c.workspace + ":" + layer},
		"outputFormat": {"application/json"},
		// WKT point order is lon lat.
		"CQL_FILTER": {fmt.Sprintf("INTERSECTS(geom, POINT(%f %f))", lon, lat)},
	}

	resp, err := c.get(ctx, "wfs", op, c.baseURL+"/"+c.workspace+"/wfs?"+params.Encode())
	if err != nil {
		c.metrics.MembershipChecks.WithLabelValues("error").Inc()
		return 0, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound:
		c.metrics.BackendRequests.WithLabelValues("wfs", "error").Inc()
		c.metrics.MembershipChecks.WithLabelValues("skipped").Inc()
		return 0, &domain.LayerUnavailableError{Layer: layer, StatusCode: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		c.metrics.BackendRequests.WithLabelValues("wfs", "error").Inc()
		c.metrics.MembershipChecks.WithLabelValues("error").Inc()
		return 0, &domain.BackendError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body),
		}
	}

	var fc struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		c.metrics.BackendRequests.WithLabelValues("wfs", "error").Inc()
		c.metrics.MembershipChecks.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("%s: decode response: %w", op, err)
	}

	c.metrics.BackendRequests.WithLabelValues("wfs", "success").Inc()
	count := len(fc.Features)
	if count == 0 {
		c.metrics.MembershipChecks.WithLabelValues("outside").Inc()
	} else {
		c.metrics.MembershipChecks.WithLabelValues("inside").Inc()
	}
	return count, nil
}
