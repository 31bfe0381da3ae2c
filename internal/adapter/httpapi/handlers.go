package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/urbansignal/heatlens/internal/domain"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	report := s.service.CoverageSummary(r.Context())
	if report.AllFailed() {
		s.reqLogger(r.Context()).Error("coverage summary failed for every layer")
		writeJSON(w, http.StatusBadGateway, report)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleLayerStats(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	stats, err := s.service.LayerStats(r.Context(), name)
	if err != nil {
		s.reqLogger(r.Context()).Warn("layer stats failed", "layer", name, "error", err)
		status, msg := mapError(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"layer":      name,
		"statistics": stats,
	})
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	lat, err := parseCoord(r.URL.Query().Get("lat"), -90, 90)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lat must be a number in [-90, 90]")
		return
	}
	lon, err := parseCoord(r.URL.Query().Get("lon"), -180, 180)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lon must be a number in [-180, 180]")
		return
	}

	res := s.service.AnalyzePoint(r.Context(), lat, lon)
	writeJSON(w, pointStatusCode(res.Status), res)
}

// pointStatusCode maps the pipeline's terminal states onto HTTP codes.
// outside_coverage is a normal analysis outcome, not a client error.
func pointStatusCode(status domain.PointStatus) int {
	switch status {
	case domain.PointRejected:
		return http.StatusBadRequest
	case domain.PointServiceError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusOK
	}
}

// aoiRequest is the body of POST /api/analysis/aoi. CRS defaults to the
// supported system when omitted.
type aoiRequest struct {
	Geometry json.RawMessage `json:"geometry"`
	CRS      string          `json:"crs"`
}

func (s *Server) handleAOI(w http.ResponseWriter, r *http.Request) {
	var req aoiRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Geometry) == 0 {
		writeError(w, http.StatusBadRequest, "geometry is required")
		return
	}
	if req.CRS == "" {
		req.CRS = domain.SupportedCRS
	}

	aoi, err := domain.ParseAOI(req.Geometry, req.CRS)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondAOI(w, r, aoi, nil)
}

// respondAOI runs the area pipeline and writes the result, optionally
// annotated with upload metadata.
func (s *Server) respondAOI(w http.ResponseWriter, r *http.Request, aoi domain.AOI, upload *uploadInfo) {
	res, err := s.service.AnalyzeAOI(r.Context(), aoi)
	if err != nil {
		s.reqLogger(r.Context()).Error("aoi analysis failed", "error", err)
		status, msg := mapError(err)
		writeError(w, status, msg)
		return
	}

	if upload == nil {
		writeJSON(w, http.StatusOK, res)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{AOIResult: res, UploadInfo: *upload})
}

// mapError translates domain errors into HTTP status codes.
func mapError(err error) (int, string) {
	var (
		geomErr     *domain.InvalidGeometryError
		crsErr      *domain.UnsupportedCRSError
		notFound    *domain.CoverageNotFoundError
		backendErr  *domain.BackendError
		unreachable *domain.UnreachableError
	)
	switch {
	case errors.As(err, &geomErr), errors.As(err, &crsErr):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &notFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrNoValidData):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.As(err, &backendErr):
		return http.StatusBadGateway, err.Error()
	case errors.As(err, &unreachable):
		return http.StatusServiceUnavailable, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func parseCoord(s string, lo, hi float64) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, errors.New("out of range")
	}
	return v, nil
}
