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

// Package eclio reads and writes the Eclipse-style binary/formatted file
// formats used to exchange reservoir-simulation grid geometry (EGRID) and
// summary vector time series (SMSPEC/UNSMRY, and the compact ESMRY form).
package eclio

import "path/filepath"

// specFile is one SMSPEC file in a restart chain, with its own column
// layout resolved against the chain-wide key union.
type specFile struct {
	ef   *EclFile
	path string
	dir  string

	nlist       int
	nijk        [3]int
	restartStep int
	startdatCache [6]int

	keys  []string
	nodes []SummaryNode
	units []string

	dataFiles []dataFileRef
}

// dataFileRef is one UNSMRY/.Snnnn/.Annnn result file belonging to a
// specFile, opened once and scanned for its time steps.
type dataFileRef struct {
	path      string
	formatted bool
}

// ESmry resolves a chain of (possibly restarted) simulation runs into a
// single flat, keyword-indexed vector time series.
type ESmry struct {
	specs []*specFile // leaves (base runs) first, primary last

	keys     []string // ordinal -> union key
	keyIndex map[string]int
	units    []string // ordinal -> unit
	nodes    []SummaryNode
	arrayPos [][]int // [specIdx][ordinal] -> column in that spec, or -1

	timeSteps []esmrySourceStep
	seqIndex  map[int]bool // time-step indices that are report steps

	vectors      [][]float32
	vectorLoaded []bool
	miniSteps    []int32
	miniLoaded   bool

	startdat [6]int // day, month, year, hour, minute, microsecond

	loadBaseRunData bool
}

// esmrySourceStep locates one PARAMS record: which spec file defines the
// column layout, which of that spec's data files holds the record, and
// the record's offset (byte offset for binary files, header line number
// for formatted files — the same convention Record.Offset uses).
type esmrySourceStep struct {
	specIdx      int
	fileIdx      int
	offset       int64
	formatted    bool
	miniOffset   int64
	hasMiniStep  bool
}

// OpenESmry opens the SMSPEC file at path and, when loadBaseRunData is
// true, walks its RESTART chain to resolve a single unioned vector index
// across every run.
func OpenESmry(path string, loadBaseRunData bool) (*ESmry, error) {
	s := &ESmry{loadBaseRunData: loadBaseRunData, seqIndex: map[int]bool{}}
	if err := s.loadChain(path); err != nil {
		return nil, err
	}
	if err := s.unionKeys(); err != nil {
		return nil, err
	}
	if err := s.discoverTimeSteps(); err != nil {
		return nil, err
	}
	s.vectors = make([][]float32, len(s.keys))
	s.vectorLoaded = make([]bool, len(s.keys))
	return s, nil
}

// loadChain reads path's SMSPEC header and, if it names a RESTART parent,
// recurses onto that file first so s.specs ends up leaves (base runs)
// first and the primary spec last.
func (s *ESmry) loadChain(path string) error {
	visited := map[string]bool{}
	var walk func(p string) error
	walk = func(p string) error {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if visited[abs] {
			return &MalformedError{File: p, Record: "RESTART", Reason: "restart chain revisits an already-opened spec file"}
		}
		visited[abs] = true

		sf, restartRoot, err := readSpecHeader(p)
		if err != nil {
			return err
		}
		if restartRoot != "" && s.loadBaseRunData {
			parentPath, ok := resolveRestartPath(sf.dir, restartRoot)
			if ok {
				if err := walk(parentPath); err != nil {
					return err
				}
			}
		}
		s.specs = append(s.specs, sf)
		return nil
	}
	return walk(path)
}

// resolveRestartPath tries name.SMSPEC then name.FSMSPEC relative to dir.
func resolveRestartPath(dir, name string) (string, bool) {
	for _, ext := range []string{".SMSPEC", ".FSMSPEC"} {
		p := filepath.Join(dir, name+ext)
		if fileExists(p) {
			return p, true
		}
	}
	return "", false
}

// unionKeys merges every spec file's per-column keys, preserving
// first-appearance order across the chain (leaves first), then computes
// each spec file's arrayPos.
func (s *ESmry) unionKeys() error {
	s.keyIndex = map[string]int{}
	for _, sf := range s.specs {
		for col, key := range sf.keys {
			if key == "" {
				continue
			}
			if _, ok := s.keyIndex[key]; ok {
				continue
			}
			s.keyIndex[key] = len(s.keys)
			s.keys = append(s.keys, key)
			s.units = append(s.units, sf.units[col])
			s.nodes = append(s.nodes, sf.nodes[col])
		}
	}

	s.arrayPos = make([][]int, len(s.specs))
	for i, sf := range s.specs {
		pos := make([]int, len(s.keys))
		for j := range pos {
			pos[j] = -1
		}
		for col, key := range sf.keys {
			if key == "" {
				continue
			}
			ord, ok := s.keyIndex[key]
			if !ok {
				continue
			}
			pos[ord] = col
		}
		s.arrayPos[i] = pos
	}

	// startdat comes from the primary (last) spec file.
	if len(s.specs) > 0 {
		primary := s.specs[len(s.specs)-1]
		s.startdat = primary.startdatCache
	}
	return nil
}

// Keys returns the unioned vector keys, in first-appearance order.
func (s *ESmry) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// HasKey reports whether key is present in the unioned index.
func (s *ESmry) HasKey(key string) bool {
	_, ok := s.keyIndex[key]
	return ok
}

// Unit returns the unit string of key.
func (s *ESmry) Unit(key string) (string, error) {
	ord, ok := s.keyIndex[key]
	if !ok {
		return "", &NotFoundError{File: "", Name: key}
	}
	return s.units[ord], nil
}

// Node returns the resolved SummaryNode of key.
func (s *ESmry) Node(key string) (SummaryNode, error) {
	ord, ok := s.keyIndex[key]
	if !ok {
		return SummaryNode{}, &NotFoundError{File: "", Name: key}
	}
	return s.nodes[ord], nil
}

// NumSteps returns the number of time steps discovered across the chain.
func (s *ESmry) NumSteps() int { return len(s.timeSteps) }

func fileExists(p string) bool {
	_, err := osStat(p)
	return err == nil
}
