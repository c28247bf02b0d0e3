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

// Nijk is a (nx, ny, nz) grid dimension triple.
type Nijk struct {
	Nx, Ny, Nz int
}

func (n Nijk) size() int { return n.Nx * n.Ny * n.Nz }

// EGrid is a corner-point grid parsed from an EGRID file's record
// directory: header dimensions, the active/global index maps, and the
// raw pillar/depth records needed to reconstruct cell geometry on demand.
type EGrid struct {
	file   *EclFile
	shared *egridShared

	Nijk      Nijk
	HostNijk  Nijk // global grid dims, when this EGrid describes an LGR
	NumRes    int
	Radial    bool
	LGRName   string // empty for the global grid

	res []int // per-layer reservoir index, len == Nz

	actIndex []int32 // global -> active, -1 if inactive
	globIndex []int  // active -> global

	coordIdx  int // directory index of COORD, -1 if absent
	zcornIdx  int
	actnumIdx int
	hostnumIdx int

	coord []float32 // cached once loaded
	zcorn []float32

	mapAxes *mapAxesTransform

	nnc1Idx, nnc2Idx, nnchead1Idx int
	coordsysIdx                  int

	lgrNames []string
}

// ActiveCellCount returns the number of active cells.
func (g *EGrid) ActiveCellCount() int { return len(g.globIndex) }

// GlobalIndex returns the linear global-cell index i + j*nx + k*nx*ny for
// zero-based (i,j,k), or an error if out of range.
func (g *EGrid) GlobalIndex(i, j, k int) (int, error) {
	if i < 0 || i >= g.Nijk.Nx || j < 0 || j >= g.Nijk.Ny || k < 0 || k >= g.Nijk.Nz {
		return 0, errOutOfRange()
	}
	return i + j*g.Nijk.Nx + k*g.Nijk.Nx*g.Nijk.Ny, nil
}

// IJKFromGlobal inverts GlobalIndex.
func (g *EGrid) IJKFromGlobal(global int) (i, j, k int, err error) {
	if global < 0 || global >= g.Nijk.size() {
		return 0, 0, 0, errOutOfRange()
	}
	plane := g.Nijk.Nx * g.Nijk.Ny
	k = global / plane
	rest := global % plane
	j = rest / g.Nijk.Nx
	i = rest % g.Nijk.Nx
	return i, j, k, nil
}

// ActiveIndex returns the active-cell index of (i,j,k), or -1 if the cell
// is inactive.
func (g *EGrid) ActiveIndex(i, j, k int) (int, error) {
	global, err := g.GlobalIndex(i, j, k)
	if err != nil {
		return 0, err
	}
	if g.actIndex == nil {
		return global, nil
	}
	return int(g.actIndex[global]), nil
}

// IJKFromActive inverts ActiveIndex: given an active-cell ordinal in
// [0, ActiveCellCount), returns its (i,j,k).
func (g *EGrid) IJKFromActive(active int) (i, j, k int, err error) {
	if active < 0 || active >= len(g.globIndex) {
		return 0, 0, 0, errOutOfRange()
	}
	return g.IJKFromGlobal(g.globIndex[active])
}

// ReservoirOf returns the reservoir-region index of layer k (0-based),
// per the COORDSYS record; 0 when the grid has a single reservoir.
func (g *EGrid) ReservoirOf(k int) (int, error) {
	if k < 0 || k >= g.Nijk.Nz {
		return 0, errOutOfRange()
	}
	if g.res == nil {
		return 0, nil
	}
	return g.res[k], nil
}
