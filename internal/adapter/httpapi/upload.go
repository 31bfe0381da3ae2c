package httpapi

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/urbansignal/heatlens/internal/domain"
)

// maxBodyBytes bounds request bodies; uploaded boundary files are small.
const maxBodyBytes = 20 << 20

type uploadInfo struct {
	Filename     string `json:"filename"`
	FeatureCount int    `json:"feature_count"`
}

type uploadResponse struct {
	domain.AOIResult
	UploadInfo uploadInfo `json:"upload_info"`
}

// handleAOIUpload accepts a multipart "file" part holding either a GeoJSON
// document or a zip archive containing one, dissolves its polygonal features
// into a single AOI, and runs the area pipeline on it.
func (s *Server) handleAOIUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, `multipart part "file" is required`)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}

	if strings.EqualFold(path.Ext(header.Filename), ".zip") {
		data, err = extractGeoJSONFromZip(data)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	geom, count, err := dissolveDocument(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	aoi, err := domain.AOIFromGeometry(geom)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondAOI(w, r, aoi, &uploadInfo{Filename: header.Filename, FeatureCount: count})
}

// extractGeoJSONFromZip returns the content of the first .geojson or .json
// entry in the archive.
func extractGeoJSONFromZip(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("invalid zip archive: %w", err)
	}

	for _, f := range zr.File {
		ext := strings.ToLower(path.Ext(f.Name))
		if ext != ".geojson" && ext != ".json" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %q in archive: %w", f.Name, err)
		}
		defer rc.Close()
		return io.ReadAll(io.LimitReader(rc, maxBodyBytes))
	}
	return nil, fmt.Errorf("zip archive contains no .geojson or .json entry")
}

// dissolveDocument reads a GeoJSON document (a FeatureCollection, a Feature,
// or a bare geometry) and merges every polygonal geometry it holds into a
// single MultiPolygon.
func dissolveDocument(data []byte) (orb.Geometry, int, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, 0, fmt.Errorf("upload is not valid GeoJSON: %w", err)
	}

	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, 0, fmt.Errorf("upload is not valid GeoJSON: %w", err)
		}
		var polys orb.MultiPolygon
		for _, f := range fc.Features {
			polys, err = appendPolygons(polys, f.Geometry)
			if err != nil {
				return nil, 0, err
			}
		}
		if len(polys) == 0 {
			return nil, 0, fmt.Errorf("feature collection contains no polygonal features")
		}
		if len(polys) == 1 {
			return polys[0], len(fc.Features), nil
		}
		return polys, len(fc.Features), nil

	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, 0, fmt.Errorf("upload is not valid GeoJSON: %w", err)
		}
		return f.Geometry, 1, nil

	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, 0, fmt.Errorf("upload is not valid GeoJSON: %w", err)
		}
		return g.Geometry(), 1, nil
	}
}

func appendPolygons(dst orb.MultiPolygon, geom orb.Geometry) (orb.MultiPolygon, error) {
	switch g := geom.(type) {
	case orb.Polygon:
		return append(dst, g), nil
	case orb.MultiPolygon:
		return append(dst, g...), nil
	default:
		return nil, fmt.Errorf("feature geometry type %q is not supported: only Polygon and MultiPolygon are accepted", geom.GeoJSONType())
	}
}
