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

import "strings"

// gridContextRaw is the set of directory indices collected for one grid
// context (the global grid, or one named LGR) during the single-pass scan
// of an EGRID file's record directory.
type gridContextRaw struct {
	name                                       string
	gridheadIdx, coordIdx, zcornIdx, actnumIdx int
	hostnumIdx, coordsysIdx                    int
	nnc1Idx, nnc2Idx                           int
}

func newGridContextRaw(name string) *gridContextRaw {
	return &gridContextRaw{name: name, gridheadIdx: -1, coordIdx: -1, zcornIdx: -1,
		actnumIdx: -1, hostnumIdx: -1, coordsysIdx: -1, nnc1Idx: -1, nnc2Idx: -1}
}

// egridShared is scan state shared by the global grid and every LGR view
// built from the same EGRID file.
type egridShared struct {
	ef       *EclFile
	contexts map[string]*gridContextRaw
	lgrNames []string
	mapAxesRaw []float32
	mapUnitFactor float32
}

// OpenEGrid builds an EGrid from the EGRID (or FEGRID) file at path: the
// global grid's geometry, plus access to any nested LGR grids the file
// defines via (*EGrid).LGR.
func OpenEGrid(path string) (*EGrid, error) {
	ef, err := OpenEclFile(path)
	if err != nil {
		return nil, err
	}
	shared := &egridShared{ef: ef, contexts: map[string]*gridContextRaw{"": newGridContextRaw("")}, mapUnitFactor: 1}

	current := ""
	nncContext := ""
	for idx, rec := range ef.records {
		switch rec.Name {
		case "LGR":
			names, err := ef.GetCharAt(idx)
			if err != nil {
				return nil, err
			}
			name := strings.TrimSpace(firstOr(names, ""))
			shared.lgrNames = append(shared.lgrNames, name)
			if _, ok := shared.contexts[name]; !ok {
				shared.contexts[name] = newGridContextRaw(name)
			}
			current = name
		case "ENDLGR":
			current = ""
		case "NNCHEAD":
			ints, err := ef.GetIntAt(idx)
			if err != nil {
				return nil, err
			}
			if len(ints) < 2 || ints[1] <= 0 {
				nncContext = ""
			} else if int(ints[1])-1 < len(shared.lgrNames) {
				nncContext = shared.lgrNames[ints[1]-1]
			}
		case "MAPUNITS":
			units, err := ef.GetCharAt(idx)
			if err == nil && len(units) > 0 {
				shared.mapUnitFactor = mapUnitsFactor(strings.TrimSpace(units[0]))
			}
		case "MAPAXES":
			reals, err := ef.GetRealAt(idx)
			if err != nil {
				return nil, err
			}
			shared.mapAxesRaw = reals
		case "GRIDHEAD":
			ctx := contextFor(shared, current)
			ctx.gridheadIdx = idx
		case "COORD":
			contextFor(shared, current).coordIdx = idx
		case "ZCORN":
			contextFor(shared, current).zcornIdx = idx
		case "ACTNUM":
			contextFor(shared, current).actnumIdx = idx
		case "HOSTNUM":
			contextFor(shared, current).hostnumIdx = idx
		case "COORDSYS":
			contextFor(shared, current).coordsysIdx = idx
		case "NNC1":
			contextFor(shared, nncContext).nnc1Idx = idx
		case "NNC2":
			contextFor(shared, nncContext).nnc2Idx = idx
		}
	}

	return buildEGrid(shared, "")
}

func contextFor(shared *egridShared, name string) *gridContextRaw {
	ctx, ok := shared.contexts[name]
	if !ok {
		ctx = newGridContextRaw(name)
		shared.contexts[name] = ctx
	}
	return ctx
}

func firstOr(s []string, def string) string {
	if len(s) == 0 {
		return def
	}
	return s[0]
}

// LGRNames returns the names of the local grid refinements defined in the
// same EGRID file as g.
func (g *EGrid) LGRNames() []string {
	if g.shared == nil {
		return nil
	}
	out := make([]string, len(g.shared.lgrNames))
	copy(out, g.shared.lgrNames)
	return out
}

// LGR returns the named local grid refinement's own EGrid view.
func (g *EGrid) LGR(name string) (*EGrid, error) {
	if g.shared == nil {
		return nil, &NotFoundError{File: g.file.Path, Name: name}
	}
	if _, ok := g.shared.contexts[name]; !ok {
		return nil, &NotFoundError{File: g.file.Path, Name: name}
	}
	return buildEGrid(g.shared, name)
}

// buildEGrid resolves one grid context (global, or a named LGR) into a
// fully indexed EGrid: header dimensions, active-cell maps, and the
// reservoir-layer map, per spec.md §4.3.
func buildEGrid(shared *egridShared, name string) (*EGrid, error) {
	ctx, ok := shared.contexts[name]
	if !ok || ctx.gridheadIdx < 0 {
		return nil, &NotFoundError{File: shared.ef.Path, Name: "GRIDHEAD"}
	}
	ef := shared.ef
	head, err := ef.GetIntAt(ctx.gridheadIdx)
	if err != nil {
		return nil, err
	}
	if len(head) < 4 {
		return nil, &MalformedError{File: ef.Path, Record: "GRIDHEAD", Reason: "too short"}
	}

	g := &EGrid{
		file:       ef,
		shared:     shared,
		LGRName:    name,
		Nijk:       Nijk{Nx: int(head[1]), Ny: int(head[2]), Nz: int(head[3])},
		coordIdx:   ctx.coordIdx,
		zcornIdx:   ctx.zcornIdx,
		actnumIdx:  ctx.actnumIdx,
		hostnumIdx: ctx.hostnumIdx,
		nnc1Idx:    ctx.nnc1Idx,
		nnc2Idx:    ctx.nnc2Idx,
		lgrNames:   shared.lgrNames,
	}
	g.NumRes = 1
	if len(head) > 24 && head[24] > 0 {
		g.NumRes = int(head[24])
	}
	if len(head) > 26 && head[26] > 0 {
		g.Radial = true
	}

	if err := g.buildActiveMap(); err != nil {
		return nil, err
	}
	if err := g.buildReservoirMap(ctx.coordsysIdx); err != nil {
		return nil, err
	}
	if err := g.buildMapAxes(); err != nil {
		return nil, err
	}
	return g, nil
}

// buildActiveMap scans ACTNUM once (or assumes every cell active if
// ACTNUM is absent) to produce the act_index/glob_index pair described in
// spec.md §3.
func (g *EGrid) buildActiveMap() error {
	n := g.Nijk.size()
	if g.actnumIdx < 0 {
		g.globIndex = make([]int, n)
		for i := range g.globIndex {
			g.globIndex[i] = i
		}
		return nil
	}
	actnum, err := g.file.GetIntAt(g.actnumIdx)
	if err != nil {
		return err
	}
	if len(actnum) != n {
		return &MismatchError{Reason: "ACTNUM length does not match nx*ny*nz"}
	}
	g.actIndex = make([]int32, n)
	active := 0
	for i, v := range actnum {
		if v > 0 {
			g.actIndex[i] = int32(active)
			g.globIndex = append(g.globIndex, i)
			active++
		} else {
			g.actIndex[i] = -1
		}
	}
	return nil
}

// buildReservoirMap reads COORDSYS (6 ints per reservoir: l1,l2,...)
// assigning res[l] = r for l in [l1-1, l2); absent COORDSYS means a
// single reservoir spanning every layer.
func (g *EGrid) buildReservoirMap(coordsysIdx int) error {
	g.res = make([]int, g.Nijk.Nz)
	if coordsysIdx < 0 {
		return nil
	}
	vals, err := g.file.GetIntAt(coordsysIdx)
	if err != nil {
		return err
	}
	for r := 0; r*6+1 < len(vals); r++ {
		l1 := int(vals[r*6])
		l2 := int(vals[r*6+1])
		for l := l1 - 1; l < l2 && l < g.Nijk.Nz; l++ {
			if l >= 0 {
				g.res[l] = r
			}
		}
	}
	return nil
}
