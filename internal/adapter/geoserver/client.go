// Package geoserver implements the raster and vector data sources over
// GeoServer's WCS and WFS endpoints.
package geoserver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/urbansignal/heatlens/internal/config"
	"github.com/urbansignal/heatlens/internal/domain"
	"github.com/urbansignal/heatlens/internal/observability"
)

// Client talks to a single GeoServer instance. It implements both
// domain.CoverageSource (WCS) and domain.MembershipSource (WFS).
type Client struct {
	baseURL   string
	workspace string
	user      string
	password  string

	windowSize int

	membershipTimeout time.Duration
	coverageTimeout   time.Duration
	areaTimeout       time.Duration

	// The underlying client carries no timeout of its own; each operation
	// sets a per-request deadline via context.
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a GeoServer client from service configuration.
func NewClient(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL:           strings.TrimRight(cfg.GeoServerURL, "/"),
		workspace:         cfg.GeoServerWorkspace,
		user:              cfg.GeoServerUser,
		password:          cfg.GeoServerPassword,
		windowSize:        cfg.WindowSize,
		membershipTimeout: cfg.MembershipTimeout,
		coverageTimeout:   cfg.CoverageTimeout,
		areaTimeout:       cfg.AreaTimeout,
		httpClient:        &http.Client{},
		logger:            logger,
		metrics:           metrics,
	}
}

// coverageID qualifies a layer name the way GeoServer identifies coverages.
func (c *Client) coverageID(layer string) string {
	return c.workspace + "__" + layer
}

// get issues one GET and returns the response. Network-level failures are
// wrapped in *domain.UnreachableError; status handling is left to callers.
func (c *Client) get(ctx context.Context, service, op, fullURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.BackendRequests.WithLabelValues(service, "unreachable").Inc()
		return nil, &domain.UnreachableError{Op: op, Err: err}
	}
	return resp, nil
}

// readDetail extracts a short error detail from a response body. GeoServer
// failure bodies are XML service exceptions; the first line is enough.
func readDetail(body io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(body, 512))
	if err != nil {
		return ""
	}
	detail := strings.TrimSpace(string(b))
	if i := strings.IndexByte(detail, '\n'); i >= 0 {
		detail = detail[:i]
	}
	return detail
}
