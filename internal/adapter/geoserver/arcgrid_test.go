package geoserver

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGrid = `ncols 3
nrows 2
xllcorner 76.26
yllcorner 9.93
cellsize 0.0001
NODATA_value -9999
1.5 2.5 -9999
4.0 -9999 6.25
`

func TestParseArcGrid(t *testing.T) {
	t.Run("full document", func(t *testing.T) {
		grid, err := parseArcGrid(strings.NewReader(sampleGrid))
		require.NoError(t, err)

		require.NotNil(t, grid.Sentinel)
		assert.Equal(t, -9999.0, *grid.Sentinel)
		require.Len(t, grid.Cells, 2)
		assert.Equal(t, []float64{1.5, 2.5, -9999}, grid.Cells[0])
		assert.Equal(t, []float64{4.0, -9999, 6.25}, grid.Cells[1])
		assert.ElementsMatch(t, []float64{1.5, 2.5, 4.0, 6.25}, grid.ValidPixels())
	})

	t.Run("missing nodata header", func(t *testing.T) {
		doc := "ncols 2\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 0.0001\n7 8\n"
		grid, err := parseArcGrid(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Nil(t, grid.Sentinel)
		assert.Equal(t, [][]float64{{7, 8}}, grid.Cells)
	})

	t.Run("nan cells parse", func(t *testing.T) {
		doc := "ncols 2\nnrows 1\nNaN 3\n"
		grid, err := parseArcGrid(strings.NewReader(doc))
		require.NoError(t, err)
		assert.True(t, math.IsNaN(grid.Cells[0][0]))
		assert.Equal(t, []float64{3}, grid.ValidPixels())
	})

	t.Run("truncated cell data", func(t *testing.T) {
		doc := "ncols 3\nnrows 2\n1 2 3 4\n"
		_, err := parseArcGrid(strings.NewReader(doc))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "data ended")
	})

	t.Run("non-numeric cell", func(t *testing.T) {
		doc := "ncols 2\nnrows 1\n1 oops\n"
		_, err := parseArcGrid(strings.NewReader(doc))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid cell value")
	})

	t.Run("missing dimensions", func(t *testing.T) {
		doc := "xllcorner 0\nyllcorner 0\n1 2 3\n"
		_, err := parseArcGrid(strings.NewReader(doc))
		require.Error(t, err)
	})

	t.Run("unknown header key", func(t *testing.T) {
		doc := "ncols 2\nnrows 1\nbogus 9\n1 2\n"
		_, err := parseArcGrid(strings.NewReader(doc))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bogus")
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := parseArcGrid(strings.NewReader(""))
		require.Error(t, err)
	})
}
