// Package domain models raster heat analytics over coverages served by an
// external map backend.
//
// # Rasters and masking
//
// A coverage is a named raster layer (for example a heat classification grid,
// a surface temperature grid, or a vegetation index grid). The backend marks
// cells with no measurement using a per-coverage NoData sentinel. A cell is
// valid when it is not NaN and does not equal the sentinel exactly; no other
// exclusion applies. All statistics and classifications operate on the valid
// subset only.
//
// # Severity tiers
//
// The primary classification coverage encodes heat intensity as raw cell
// values bucketed into three ordered tiers:
//
//	value < 5    → Low       (cooling or neutral zone)
//	5 ≤ value<10 → Moderate  (potential heat accumulation)
//	value ≥ 10   → High      (heat hotspot requiring mitigation)
//
// The same thresholds apply to a scalar sample (point analysis) and to each
// pixel of an extracted area (distribution analysis). A missing sample maps
// to the Unknown tier, which carries no recommendations.
//
// # Spatial gate
//
// Point queries are gated on membership in an authoritative AOI polygon
// served by a vector backend. The gate deliberately treats an absent or
// misconfigured AOI layer as "check unavailable, proceed": the raster's own
// NoData extent then acts as the spatial boundary. Any other backend failure,
// a connectivity failure, or a zero-feature response denies the query.
//
// # Pipelines
//
// PointAnalyzer runs gate → window sampling → scalar classification →
// recommendation. AOIAnalyzer runs geometry validation → projected area →
// clipped extraction → statistics and tier distribution → zone planning.
// Both produce concrete result records tagged with a terminal status so a
// caller can never observe a success status paired with missing data.
package domain
