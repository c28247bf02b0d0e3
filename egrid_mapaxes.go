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

import "math"

// mapAxesTransform is the affine map from a grid's local (x,y) plane onto
// the map's coordinate system, built from a MAPAXES record: a point on the
// Y axis, the origin, and a point on the X axis, in that order.
type mapAxesTransform struct {
	originX, originY float64
	unitXx, unitXy   float64
	unitYx, unitYy   float64
}

func newMapAxesTransform(raw []float32) *mapAxesTransform {
	if len(raw) < 6 {
		return nil
	}
	yx, yy := float64(raw[0]), float64(raw[1])
	ox, oy := float64(raw[2]), float64(raw[3])
	xx, xy := float64(raw[4]), float64(raw[5])

	ux, uy := xx-ox, xy-oy
	vx, vy := yx-ox, yy-oy
	if n := math.Hypot(ux, uy); n > 0 {
		ux, uy = ux/n, uy/n
	}
	if n := math.Hypot(vx, vy); n > 0 {
		vx, vy = vx/n, vy/n
	}
	return &mapAxesTransform{originX: ox, originY: oy, unitXx: ux, unitXy: uy, unitYx: vx, unitYy: vy}
}

// apply maps a local (x,y) pair expressed along the grid's own axes onto
// map coordinates.
func (m *mapAxesTransform) apply(x, y float64) (float64, float64) {
	if m == nil {
		return x, y
	}
	return m.originX + x*m.unitXx + y*m.unitYx, m.originY + x*m.unitXy + y*m.unitYy
}

// mapUnitsFactor returns the multiplier that converts a MAPUNITS length
// unit to metres; unrecognised units pass through unscaled.
func mapUnitsFactor(unit string) float32 {
	switch unit {
	case "METRES", "MET":
		return 1
	case "FEET", "FT":
		return 0.3048
	case "CM":
		return 0.01
	default:
		return 1
	}
}

func (g *EGrid) buildMapAxes() error {
	if g.shared == nil || g.shared.mapAxesRaw == nil {
		return nil
	}
	raw := g.shared.mapAxesRaw
	factor := g.shared.mapUnitFactor
	if factor != 1 {
		scaled := make([]float32, len(raw))
		for i, v := range raw {
			scaled[i] = v * factor
		}
		raw = scaled
	}
	g.mapAxes = newMapAxesTransform(raw)
	return nil
}

// radialToCartesian converts a (r, theta) pair, theta in degrees, into
// (x, y) for a radial grid's corner points.
func radialToCartesian(r, thetaDeg float64) (x, y float64) {
	rad := thetaDeg * math.Pi / 180
	return r * math.Cos(rad), r * math.Sin(rad)
}
