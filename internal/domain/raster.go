package domain

import "math"

// Grid is a rectangular block of raster cell values returned by the coverage
// backend, together with the backend-declared NoData sentinel when one exists.
type Grid struct {
	Cells    [][]float64
	Sentinel *float64
}

// ValidPixels flattens the grid into the subset of valid cell values.
// A cell is dropped when it is NaN or equals the sentinel exactly.
// Infinities pass through: classification rasters never carry them and the
// backend's sentinel is the only reserved value.
func (g Grid) ValidPixels() []float64 {
	var out []float64
	for _, row := range g.Cells {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			if g.Sentinel != nil && v == *g.Sentinel {
				continue
			}
			out = append(out, v)
		}
	}
	return out
}

// MeanOfValid returns the mean of the grid's valid pixels, or nil when the
// grid has no valid pixel. Used for window sampling around a point, where an
// all-NoData window is a normal outcome rather than an error.
func MeanOfValid(g Grid) *float64 {
	pixels := g.ValidPixels()
	if len(pixels) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range pixels {
		sum += v
	}
	mean := sum / float64(len(pixels))
	return &mean
}
