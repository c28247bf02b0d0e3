/*
Copyright © 2024 the eclio authors.
This file is part of eclio.

eclio is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

eclio is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with eclio.  If not, see <http://www.gnu.org/licenses/>.
*/

package eclio

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
)

// CellPolygon returns the (x,y) footprint of cell (i,j,k) at its top
// face, as a closed geom.Polygon ring, for shapefile export and other
// GIS consumers.
func (g *EGrid) CellPolygon(i, j, k int) (geom.Polygon, error) {
	corners, err := g.CellCorners(i, j, k)
	if err != nil {
		return nil, err
	}
	ring := []geom.Point{
		{X: corners[0].X, Y: corners[0].Y},
		{X: corners[1].X, Y: corners[1].Y},
		{X: corners[3].X, Y: corners[3].Y},
		{X: corners[2].X, Y: corners[2].Y},
		{X: corners[0].X, Y: corners[0].Y},
	}
	return geom.Polygon{ring}, nil
}

// ExportShapefile writes one polygon per active cell to fileName (a
// ".shp" path), with one float64 field per entry in cellValues, keyed by
// field name. Every value slice must be as long as ActiveCellCount().
func (g *EGrid) ExportShapefile(fileName string, cellValues map[string][]float64) error {
	for name, vals := range cellValues {
		if len(vals) != g.ActiveCellCount() {
			return &InvalidArgumentError{Reason: fmt.Sprintf("field %q has %d values, want %d", name, len(vals), g.ActiveCellCount())}
		}
	}

	names := make([]string, 0, len(cellValues))
	for name := range cellValues {
		names = append(names, name)
	}

	fileBase := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	fields := make([]goshp.Field, len(names))
	for i, name := range names {
		fields[i] = shpFieldFromArray(name, cellValues[name])
	}
	enc, err := shp.NewEncoderFromFields(fileBase+".shp", goshp.POLYGON, fields...)
	if err != nil {
		return fmt.Errorf("eclio: creating shapefile: %w", err)
	}
	defer enc.Close()

	for active := 0; active < g.ActiveCellCount(); active++ {
		i, j, k, err := g.IJKFromActive(active)
		if err != nil {
			return err
		}
		poly, err := g.CellPolygon(i, j, k)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(names))
		for f, name := range names {
			row[f] = cellValues[name][active]
		}
		if err := enc.EncodeFields(poly, row...); err != nil {
			return fmt.Errorf("eclio: writing shapefile row: %w", err)
		}
	}
	return nil
}

// decimalExponentRange scans d for the base-10 exponent range of its
// nonzero magnitudes (min, max) and whether any value is negative.
func decimalExponentRange(d []float64) (minExp, maxExp float64, hasNegative bool) {
	minExp, maxExp = math.Inf(1), math.Inf(-1)
	for _, v := range d {
		if v == 0 {
			continue
		}
		exp := math.Log10(math.Abs(v))
		minExp = min(minExp, exp)
		maxExp = max(maxExp, exp)
		if v < 0 {
			hasNegative = true
		}
	}
	return minExp, maxExp, hasNegative
}

// shpFieldFromArray sizes a float field wide enough for every value in d
// to round-trip with about 9 significant digits.
func shpFieldFromArray(name string, d []float64) goshp.Field {
	const sigDigits = 9
	minExp, maxExp, hasNegative := decimalExponentRange(d)

	precision := uint8(sigDigits - 1)
	if !math.IsInf(minExp, 0) {
		precision = uint8(max(0, sigDigits-1-math.Floor(minExp)))
	}

	size := precision + 1
	if !math.IsInf(maxExp, 0) && maxExp >= 1 {
		size = uint8(math.Floor(maxExp)) + 1 + precision
	}
	if precision > 0 {
		size++
	}
	if hasNegative {
		size++
	}
	return goshp.FloatField(name, size, precision)
}
