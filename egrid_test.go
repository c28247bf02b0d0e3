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
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestEmptyGridIndexing(t *testing.T) {
	path := tempPath(t, "SINGLE.EGRID")
	buildFile(t, path, intRecord("GRIDHEAD", []int32{0, 1, 1, 1}))

	g, err := OpenEGrid(path)
	if err != nil {
		t.Fatalf("OpenEGrid: %v", err)
	}
	global, err := g.GlobalIndex(0, 0, 0)
	if err != nil || global != 0 {
		t.Fatalf("GlobalIndex(0,0,0) = (%d, %v), want (0, nil)", global, err)
	}
	i, j, k, err := g.IJKFromGlobal(0)
	if err != nil || (i != 0 || j != 0 || k != 0) {
		t.Fatalf("IJKFromGlobal(0) = (%d,%d,%d,%v), want (0,0,0,nil)", i, j, k, err)
	}
	active, err := g.ActiveIndex(0, 0, 0)
	if err != nil || active != 0 {
		t.Fatalf("ActiveIndex(0,0,0) = (%d,%v), want (0, nil)", active, err)
	}
}

func TestGlobalIndexRoundTrip(t *testing.T) {
	path := tempPath(t, "ROUNDTRIP.EGRID")
	buildFile(t, path, intRecord("GRIDHEAD", []int32{0, 4, 3, 2}))

	g, err := OpenEGrid(path)
	if err != nil {
		t.Fatalf("OpenEGrid: %v", err)
	}
	for gidx := 0; gidx < g.Nijk.size(); gidx++ {
		i, j, k, err := g.IJKFromGlobal(gidx)
		if err != nil {
			t.Fatalf("IJKFromGlobal(%d): %v", gidx, err)
		}
		back, err := g.GlobalIndex(i, j, k)
		if err != nil || back != gidx {
			t.Fatalf("GlobalIndex(IJKFromGlobal(%d)) = %d, want %d", gidx, back, gidx)
		}
	}
}

func TestActiveMapWithHoles(t *testing.T) {
	path := tempPath(t, "HOLES.EGRID")
	buildFile(t, path,
		intRecord("GRIDHEAD", []int32{0, 6, 1, 1}),
		intRecord("ACTNUM", []int32{1, 0, 1, 1, 0, 1}),
	)

	g, err := OpenEGrid(path)
	if err != nil {
		t.Fatalf("OpenEGrid: %v", err)
	}
	if g.ActiveCellCount() != 4 {
		t.Fatalf("ActiveCellCount() = %d, want 4", g.ActiveCellCount())
	}
	wantGlob := []int{0, 2, 3, 5}
	for a, wantG := range wantGlob {
		_, _, _, err := g.IJKFromActive(a)
		if err != nil {
			t.Fatalf("IJKFromActive(%d): %v", a, err)
		}
		gl, err := g.GlobalIndex(wantG, 0, 0)
		if err != nil || gl != wantG {
			t.Fatalf("sanity check on GlobalIndex failed for %d", wantG)
		}
	}
	wantAct := []int{0, -1, 1, 2, -1, 3}
	for gidx, want := range wantAct {
		i, j, k, err := g.IJKFromGlobal(gidx)
		if err != nil {
			t.Fatalf("IJKFromGlobal(%d): %v", gidx, err)
		}
		got, err := g.ActiveIndex(i, j, k)
		if err != nil || got != want {
			t.Fatalf("ActiveIndex for global %d = (%d, %v), want %d", gidx, got, err, want)
		}
	}
	// Mutual inverse: active_index(ijk_from_active(a)) == a for every a.
	for a := 0; a < g.ActiveCellCount(); a++ {
		i, j, k, err := g.IJKFromActive(a)
		if err != nil {
			t.Fatalf("IJKFromActive(%d): %v", a, err)
		}
		back, err := g.ActiveIndex(i, j, k)
		if err != nil || back != a {
			t.Fatalf("ActiveIndex(IJKFromActive(%d)) = %d, want %d", a, back, a)
		}
	}
}

func TestPillarInterpolation(t *testing.T) {
	top := Point3{X: 0, Y: 0, Z: 0}
	bot := Point3{X: 10, Y: 0, Z: 100}
	p := interpolatePillarAtZ(top, bot, 50)
	if p.X != 5 || p.Y != 0 {
		t.Errorf("interpolatePillarAtZ at mid-depth = (%g,%g), want (5,0)", p.X, p.Y)
	}

	degenerate := interpolatePillarAtZ(Point3{X: 3, Y: 4, Z: 0}, Point3{X: 3, Y: 4, Z: 0}, 0)
	if degenerate.X != 3 || degenerate.Y != 4 {
		t.Errorf("interpolatePillarAtZ on a degenerate pillar = (%g,%g), want (3,4)", degenerate.X, degenerate.Y)
	}
}

func TestCellCornersSingleCell(t *testing.T) {
	// A 1x1x1 cell whose four pillars run straight down from z=0 to
	// z=10 at the corners of a 10x10 square, ZCORN pinning top at 0 and
	// bottom at 10 everywhere: the cell should come out as the unit box
	// scaled by 10 in every direction.
	path := tempPath(t, "CELL.EGRID")
	coord := make([]float32, 0, 4*6)
	for _, xy := range [][2]float32{{0, 0}, {10, 0}, {0, 10}, {10, 10}} {
		coord = append(coord, xy[0], xy[1], 0, xy[0], xy[1], 10)
	}
	zcorn := []float32{0, 0, 0, 0, 10, 10, 10, 10}
	buildFile(t, path,
		intRecord("GRIDHEAD", []int32{0, 1, 1, 1}),
		realRecord("COORD", coord),
		realRecord("ZCORN", zcorn),
	)

	g, err := OpenEGrid(path)
	if err != nil {
		t.Fatalf("OpenEGrid: %v", err)
	}
	corners, err := g.CellCorners(0, 0, 0)
	if err != nil {
		t.Fatalf("CellCorners: %v", err)
	}
	center, err := g.CellCenter(0, 0, 0)
	if err != nil {
		t.Fatalf("CellCenter: %v", err)
	}
	const tol = 1e-9
	if !floats.EqualWithinAbsOrRel(center.X, 5, tol, tol) ||
		!floats.EqualWithinAbsOrRel(center.Y, 5, tol, tol) ||
		!floats.EqualWithinAbsOrRel(center.Z, 5, tol, tol) {
		t.Errorf("CellCenter = %+v, want (5,5,5)", center)
	}
	if corners[0].Z != 0 || corners[4].Z != 10 {
		t.Errorf("corners[0].Z=%g corners[4].Z=%g, want 0 and 10 (top/bottom split)", corners[0].Z, corners[4].Z)
	}
}

func TestNNCsWithoutInit(t *testing.T) {
	path := tempPath(t, "NNC.EGRID")
	buildFile(t, path,
		intRecord("GRIDHEAD", []int32{0, 2, 1, 2}),
		intRecord("NNC1", []int32{1, 2}),
		intRecord("NNC2", []int32{3, 4}),
	)
	g, err := OpenEGrid(path)
	if err != nil {
		t.Fatalf("OpenEGrid: %v", err)
	}
	nncs, err := g.NNCs(nil)
	if err != nil {
		t.Fatalf("NNCs: %v", err)
	}
	if len(nncs) != 2 {
		t.Fatalf("len(NNCs) = %d, want 2", len(nncs))
	}
	for _, n := range nncs {
		if n.Trans != -1 {
			t.Errorf("NNC.Trans = %g, want -1 when no INIT file is supplied", n.Trans)
		}
	}
	if nncs[0].K1 != 0 || nncs[0].K2 != 1 {
		t.Errorf("first NNC = %+v, want K1=0 K2=1 (global 0 -> global 2 in a 2x1x2 grid)", nncs[0])
	}
}

func TestNNCsWithInitMismatch(t *testing.T) {
	egridPath := tempPath(t, "MISMATCH.EGRID")
	buildFile(t, egridPath,
		intRecord("GRIDHEAD", []int32{0, 2, 1, 2}),
		intRecord("NNC1", []int32{1}),
		intRecord("NNC2", []int32{3}),
	)
	g, err := OpenEGrid(egridPath)
	if err != nil {
		t.Fatalf("OpenEGrid: %v", err)
	}

	initPath := tempPath(t, "MISMATCH.INIT")
	intehead := make([]int32, 11)
	intehead[8], intehead[9], intehead[10] = 3, 1, 2 // nx differs from the grid's 2
	buildFile(t, initPath, intRecord("INTEHEAD", intehead))
	init, err := OpenEclFile(initPath)
	if err != nil {
		t.Fatalf("OpenEclFile(INIT): %v", err)
	}

	if _, err := g.NNCs(init); err == nil {
		t.Fatal("NNCs with mismatched INIT dimensions succeeded, want MismatchError")
	} else if _, ok := err.(*MismatchError); !ok {
		t.Fatalf("error type = %T, want *MismatchError", err)
	}
}

func TestMapUnitsScalesMapAxes(t *testing.T) {
	path := tempPath(t, "FEET.EGRID")
	// MAPAXES layout is (Y-axis point, origin, X-axis point); put a
	// non-zero origin so the FEET->metres scaling is observable.
	buildFile(t, path,
		charRecord("MAPUNITS", []string{"FEET"}),
		realRecord("MAPAXES", []float32{0, 100, 50, 60, 100, 0}),
		intRecord("GRIDHEAD", []int32{0, 1, 1, 1}),
	)
	g, err := OpenEGrid(path)
	if err != nil {
		t.Fatalf("OpenEGrid: %v", err)
	}
	if g.mapAxes == nil {
		t.Fatal("mapAxes is nil, want a transform built from MAPAXES")
	}
	x, y := g.mapAxes.apply(0, 0)
	wantOriginX := 50.0 * 0.3048
	wantOriginY := 60.0 * 0.3048
	const tol = 1e-6
	if !floats.EqualWithinAbsOrRel(x, wantOriginX, tol, tol) || !floats.EqualWithinAbsOrRel(y, wantOriginY, tol, tol) {
		t.Errorf("mapAxes.apply(0,0) = (%g,%g), want origin scaled by the FEET factor (%g,%g)", x, y, wantOriginX, wantOriginY)
	}
}

// TestXYZLayerPartialRead builds a grid whose ZCORN record is large
// enough to split into two framed blocks (maxBlockReal = 1000 elements
// per block), then checks that XYZLayer's partial disk read produces
// the same corners as a full load, both for a query that falls
// entirely in the second block and one whose corners straddle the
// block boundary.
func TestXYZLayerPartialRead(t *testing.T) {
	nx, ny, nz := 6, 6, 4
	path := tempPath(t, "LAYER.EGRID")

	coord := make([]float32, 0, (nx+1)*(ny+1)*6)
	for pj := 0; pj <= ny; pj++ {
		for pi := 0; pi <= nx; pi++ {
			x, y := float32(pi*10), float32(pj*10)
			coord = append(coord, x, y, 0, x, y, 1000)
		}
	}

	// Every corner of every cell gets a depth that only depends on its
	// layer and top/bottom side (100*k + 10*kk), so the expected Z at
	// any corner is known without re-deriving zcornIndex's layout here.
	nx2, ny2, nz2 := 2*nx, 2*ny, 2*nz
	zcorn := make([]float32, nx2*ny2*nz2)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				for _, kk := range [2]int{0, 1} {
					for _, jj := range [2]int{0, 1} {
						for _, ii := range [2]int{0, 1} {
							x, y, z := 2*i+ii, 2*j+jj, 2*k+kk
							idx := z*ny2*nx2 + y*nx2 + x
							zcorn[idx] = float32(100*k + 10*kk)
						}
					}
				}
			}
		}
	}
	if len(zcorn) <= 1000 {
		t.Fatalf("fixture ZCORN has %d elements, want more than 1000 to span a block boundary", len(zcorn))
	}

	buildFile(t, path,
		intRecord("GRIDHEAD", []int32{0, int32(nx), int32(ny), int32(nz)}),
		realRecord("COORD", coord),
		realRecord("ZCORN", zcorn),
	)

	g, err := OpenEGrid(path)
	if err != nil {
		t.Fatalf("OpenEGrid: %v", err)
	}

	check := func(label string, k int, box [4]int, bottom bool, wantZ float64) {
		t.Helper()
		pts, err := g.XYZLayer(k, box, bottom)
		if err != nil {
			t.Fatalf("%s: XYZLayer: %v", label, err)
		}
		i1, i2, j1, j2 := box[0], box[1], box[2], box[3]
		if want := (i2 - i1) * (j2 - j1) * 4; len(pts) != want {
			t.Fatalf("%s: len(XYZLayer) = %d, want %d", label, len(pts), want)
		}
		n := 0
		for j := j1; j < j2; j++ {
			for i := i1; i < i2; i++ {
				for _, jj := range [2]int{0, 1} {
					for _, ii := range [2]int{0, 1} {
						p := pts[n]
						wantX, wantY := float64((i+ii)*10), float64((j+jj)*10)
						if !floats.EqualWithinAbsOrRel(p.X, wantX, 1e-9, 1e-9) ||
							!floats.EqualWithinAbsOrRel(p.Y, wantY, 1e-9, 1e-9) ||
							!floats.EqualWithinAbsOrRel(p.Z, wantZ, 1e-9, 1e-9) {
							t.Errorf("%s: corner %d = %+v, want (%g,%g,%g)", label, n, p, wantX, wantY, wantZ)
						}
						n++
					}
				}
			}
		}
	}

	// This box's top face (kk=0) straddles the 1000-element block
	// boundary; its bottom face (kk=1) falls entirely past it.
	box := [4]int{4, 6, 4, 6}
	check("top face, partial read", nz-1, box, false, 100*float64(nz-1))
	check("bottom face, partial read", nz-1, box, true, 100*float64(nz-1)+10)

	// Once ZCORN is cached (triggered by an ordinary CellCorners call),
	// XYZLayer must read from the cache and still agree.
	if _, err := g.CellCorners(0, 0, 0); err != nil {
		t.Fatalf("CellCorners: %v", err)
	}
	check("top face, cached", nz-1, box, false, 100*float64(nz-1))
}

// TestXYZLayerRejectsFormatted checks that a partial ZCORN read on a
// formatted file fails instead of silently falling back to a full scan,
// per spec.md §4.3.
func TestXYZLayerRejectsFormatted(t *testing.T) {
	g := &EGrid{file: &EclFile{Formatted: true}}
	if _, err := g.readZcornSlab([]int{0}); err == nil {
		t.Fatal("readZcornSlab on a formatted file succeeded, want an error")
	} else if _, ok := err.(*InvalidArgumentError); !ok {
		t.Fatalf("error type = %T, want *InvalidArgumentError", err)
	}
}
