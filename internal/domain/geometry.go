package domain

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"
)

// SupportedCRS is the only reference system accepted for input geometry.
const SupportedCRS = "EPSG:4326"

// AOI is a validated polygonal area of interest in the supported reference
// system. Construct with ParseAOI or AOIFromGeometry.
type AOI struct {
	geom orb.Geometry
}

// ParseAOI parses a GeoJSON geometry document into a validated AOI.
// Geometry is validated before the reference system, so a document that is
// wrong on both counts reports the geometry problem. The declared reference
// system must be SupportedCRS. Returns *InvalidGeometryError or
// *UnsupportedCRSError on rejection.
func ParseAOI(raw json.RawMessage, crs string) (AOI, error) {
	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return AOI{}, &InvalidGeometryError{Reason: fmt.Sprintf("parse geojson: %v", err)}
	}

	aoi, err := AOIFromGeometry(g.Geometry())
	if err != nil {
		return AOI{}, err
	}

	if crs != SupportedCRS {
		return AOI{}, &UnsupportedCRSError{CRS: crs}
	}
	return aoi, nil
}

// AOIFromGeometry validates an already-decoded geometry. Only non-empty,
// topologically valid Polygon and MultiPolygon geometries are accepted.
func AOIFromGeometry(geom orb.Geometry) (AOI, error) {
	switch g := geom.(type) {
	case orb.Polygon:
		if err := validatePolygon(g); err != nil {
			return AOI{}, err
		}
	case orb.MultiPolygon:
		if len(g) == 0 {
			return AOI{}, &InvalidGeometryError{Reason: "geometry is empty"}
		}
		for _, p := range g {
			if err := validatePolygon(p); err != nil {
				return AOI{}, err
			}
		}
	default:
		return AOI{}, &InvalidGeometryError{
			Reason: fmt.Sprintf("geometry type %q is not supported: only Polygon and MultiPolygon are accepted", geom.GeoJSONType()),
		}
	}
	return AOI{geom: geom}, nil
}

// Geometry returns the underlying polygonal geometry.
func (a AOI) Geometry() orb.Geometry { return a.geom }

// GeoJSON returns the geometry in GeoJSON form for echoing back to callers.
func (a AOI) GeoJSON() *geojson.Geometry { return geojson.NewGeometry(a.geom) }

// Bound returns the geometry's bounding box.
func (a AOI) Bound() orb.Bound { return a.geom.Bound() }

// WKT serializes the geometry as well-known text for backend clip requests.
func (a AOI) WKT() string { return wkt.MarshalString(a.geom) }

// AreaSqKm projects the geometry to Web Mercator and returns its planar area
// in square kilometers. The geometry is cloned first because projection
// transforms coordinates in place.
func (a AOI) AreaSqKm() float64 {
	projected := project.Geometry(orb.Clone(a.geom), project.WGS84.ToMercator)
	return planar.Area(projected) / 1e6
}

func validatePolygon(p orb.Polygon) error {
	if len(p) == 0 {
		return &InvalidGeometryError{Reason: "geometry is empty"}
	}
	for _, ring := range p {
		if len(ring) < 4 {
			return &InvalidGeometryError{Reason: "ring has fewer than four points"}
		}
		if !ring.Closed() {
			return &InvalidGeometryError{Reason: "ring is not closed"}
		}
		if ringSelfIntersects(ring) {
			return &InvalidGeometryError{Reason: "ring is self-intersecting"}
		}
	}
	if planar.Area(p) == 0 {
		return &InvalidGeometryError{Reason: "polygon has zero area"}
	}
	return nil
}

// ringSelfIntersects reports whether any two non-adjacent edges of the ring
// cross. Adjacent edges share an endpoint and are skipped, as is the pair of
// first and last edges on a closed ring.
func ringSelfIntersects(ring orb.Ring) bool {
	n := len(ring) - 1 // number of edges on a closed ring
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			if segmentsCross(ring[i], ring[i+1], ring[j], ring[j+1]) {
				return true
			}
		}
	}
	return false
}

func segmentsCross(a, b, c, d orb.Point) bool {
	o1 := orientation(a, b, c)
	o2 := orientation(a, b, d)
	o3 := orientation(c, d, a)
	o4 := orientation(c, d, b)

	if o1 != o2 && o3 != o4 {
		return true
	}

	// Collinear overlap cases.
	return (o1 == 0 && onSegment(a, b, c)) ||
		(o2 == 0 && onSegment(a, b, d)) ||
		(o3 == 0 && onSegment(c, d, a)) ||
		(o4 == 0 && onSegment(c, d, b))
}

// orientation returns -1, 0, or 1 for clockwise, collinear, or
// counterclockwise ordering of the triplet.
func orientation(p, q, r orb.Point) int {
	cross := (q[0]-p[0])*(r[1]-p[1]) - (q[1]-p[1])*(r[0]-p[0])
	switch {
	case cross > 0:
		return 1
	case cross < 0:
		return -1
	default:
		return 0
	}
}

// onSegment reports whether collinear point p lies within segment ab.
func onSegment(a, b, p orb.Point) bool {
	return min(a[0], b[0]) <= p[0] && p[0] <= max(a[0], b[0]) &&
		min(a[1], b[1]) <= p[1] && p[1] <= max(a[1], b[1])
}
