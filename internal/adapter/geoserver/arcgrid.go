package geoserver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urbansignal/heatlens/internal/domain"
)

// parseArcGrid reads an Arc/Info ASCII Grid document into a domain.Grid.
// The header is a sequence of "key value" pairs (ncols, nrows, xllcorner,
// yllcorner, cellsize, nodata_value); the first purely numeric token that is
// not a header value starts the cell data. nodata_value is optional and
// becomes the grid's sentinel when present.
func parseArcGrid(r io.Reader) (domain.Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)

	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	var (
		ncols, nrows int
		sentinel     *float64
		pending      string // first cell token, read while scanning the header
	)

	for {
		tok, ok := next()
		if !ok {
			return domain.Grid{}, fmt.Errorf("arcgrid: unexpected end of header")
		}

		if _, err := strconv.ParseFloat(tok, 64); err == nil {
			pending = tok
			break
		}

		key := strings.ToLower(tok)
		val, ok := next()
		if !ok {
			return domain.Grid{}, fmt.Errorf("arcgrid: header key %q has no value", key)
		}

		switch key {
		case "ncols":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return domain.Grid{}, fmt.Errorf("arcgrid: invalid ncols %q", val)
			}
			ncols = n
		case "nrows":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return domain.Grid{}, fmt.Errorf("arcgrid: invalid nrows %q", val)
			}
			nrows = n
		case "nodata_value":
			v, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return domain.Grid{}, fmt.Errorf("arcgrid: invalid nodata_value %q", val)
			}
			sentinel = &v
		case "xllcorner", "yllcorner", "xllcenter", "yllcenter", "cellsize", "dx", "dy":
			// Georeferencing keys are not needed for statistics.
		default:
			return domain.Grid{}, fmt.Errorf("arcgrid: unknown header key %q", key)
		}

		if ncols > 0 && nrows > 0 && key == "nodata_value" {
			// nodata_value is always the last header line when present.
			break
		}
	}

	if ncols == 0 || nrows == 0 {
		return domain.Grid{}, fmt.Errorf("arcgrid: header missing ncols or nrows")
	}

	cells := make([][]float64, nrows)
	for row := range cells {
		cells[row] = make([]float64, ncols)
		for col := range cells[row] {
			tok := pending
			if tok == "" {
				var ok bool
				tok, ok = next()
				if !ok {
					return domain.Grid{}, fmt.Errorf("arcgrid: expected %d cells, data ended at row %d", nrows*ncols, row)
				}
			}
			pending = ""

			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return domain.Grid{}, fmt.Errorf("arcgrid: invalid cell value %q: %w", tok, err)
			}
			cells[row][col] = v
		}
	}

	if err := sc.Err(); err != nil {
		return domain.Grid{}, fmt.Errorf("arcgrid: read: %w", err)
	}

	return domain.Grid{Cells: cells, Sentinel: sentinel}, nil
}
