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
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ctessum/unit"
)

// Get returns the vector for key, loading it from disk on first request.
func (s *ESmry) Get(key string) ([]float32, error) {
	ord, ok := s.keyIndex[key]
	if !ok {
		return nil, &NotFoundError{Name: key}
	}
	if !s.vectorLoaded[ord] {
		if err := s.loadOrdinal(ord); err != nil {
			return nil, err
		}
	}
	return s.vectors[ord], nil
}

// Load eagerly materializes every key in keys.
func (s *ESmry) Load(keys []string) error {
	for _, k := range keys {
		if _, err := s.Get(k); err != nil {
			return err
		}
	}
	return nil
}

// LoadAll materializes every vector in the unioned key index.
func (s *ESmry) LoadAll() error {
	for ord := range s.keys {
		if !s.vectorLoaded[ord] {
			if err := s.loadOrdinal(ord); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *ESmry) loadOrdinal(ord int) error {
	vec := make([]float32, len(s.timeSteps))
	for ti, step := range s.timeSteps {
		col := s.arrayPos[step.specIdx][ord]
		if col < 0 {
			vec[ti] = float32(math.NaN())
			continue
		}
		df := s.specs[step.specIdx].dataFiles[step.fileIdx]
		v, err := readParamScalar(df, step.offset, col)
		if err != nil {
			return err
		}
		vec[ti] = v
	}
	s.vectors[ord] = vec
	s.vectorLoaded[ord] = true
	return nil
}

// readParamScalar reads the col-th float of the PARAMS record located at
// offset in df, per the seek formulas in spec.md §4.5.
func readParamScalar(df dataFileRef, offset int64, col int) (float32, error) {
	if df.formatted {
		return readFormattedParamScalar(df.path, offset, col)
	}
	return readBinaryParamScalar(df.path, offset, col)
}

func readBinaryParamScalar(path string, stepOffset int64, p int) (float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	maxElems := maxBlockElems(TypeREAL)
	nFull := p / maxElems
	off := stepOffset + int64(2*nFull+1)*4 + int64(p)*4
	buf := make([]byte, 4)
	if _, err := f.ReadAt(buf, off); err != nil {
		return 0, &MalformedError{File: path, Record: "PARAMS", Offset: off, Reason: "reading scalar: " + err.Error()}
	}
	return math.Float32frombits(beU32(buf)), nil
}

func readFormattedParamScalar(path string, headerLine int64, p int) (float32, error) {
	layout := formattedLayoutFor(TypeREAL)
	maxElems := maxBlockElems(TypeREAL)
	linesPerBlock := maxElems / layout.numColumns

	nBlocks := p / maxElems
	rem := p % maxElems
	nLines := rem / layout.numColumns
	col := rem % layout.numColumns

	targetLine := headerLine + int64(nBlocks*linesPerBlock+nLines)

	f, err := os.Open(path)
	if err != nil {
		return 0, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	lines, err := seekToLines(f, targetLine, 1)
	if err != nil {
		return 0, &MalformedError{File: path, Record: "PARAMS", Offset: targetLine, Reason: err.Error()}
	}
	line := lines[0]
	start := col * layout.columnWidth
	end := start + layout.columnWidth
	if end > len(line) {
		end = len(line)
	}
	field := strings.TrimSpace(line[start:end])
	v, err := strconv.ParseFloat(field, 32)
	if err != nil {
		return 0, &MalformedError{File: path, Record: "PARAMS", Offset: targetLine, Reason: "bad float field: " + err.Error()}
	}
	return float32(v), nil
}

// MiniSteps returns the per-time-step MINISTEP integer, read from its
// stored offset on first request.
func (s *ESmry) MiniSteps() ([]int32, error) {
	if s.miniLoaded {
		return s.miniSteps, nil
	}
	out := make([]int32, len(s.timeSteps))
	for i, step := range s.timeSteps {
		if !step.hasMiniStep {
			continue
		}
		df := s.specs[step.specIdx].dataFiles[step.fileIdx]
		v, err := readMiniStep(df, step.miniOffset)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	s.miniSteps = out
	s.miniLoaded = true
	return out, nil
}

func readMiniStep(df dataFileRef, offset int64) (int32, error) {
	if df.formatted {
		f, err := os.Open(df.path)
		if err != nil {
			return 0, &IOError{Path: df.path, Err: err}
		}
		defer f.Close()
		lines, err := seekToLines(f, offset, 1)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			return 0, &MalformedError{File: df.path, Record: "MINISTEP", Offset: offset, Reason: err.Error()}
		}
		return int32(v), nil
	}
	f, err := os.Open(df.path)
	if err != nil {
		return 0, &IOError{Path: df.path, Err: err}
	}
	defer f.Close()
	buf := make([]byte, 4)
	// offset lands on the leading block-size framing int (MINISTEP is
	// always a single scalar, so it never spans more than one block);
	// skip it to reach the actual payload, same as readBinaryParamScalar.
	if _, err := f.ReadAt(buf, offset+4); err != nil {
		return 0, &MalformedError{File: df.path, Record: "MINISTEP", Offset: offset, Reason: err.Error()}
	}
	return int32(beU32(buf)), nil
}

// ReportSteps returns, for every time step, whether it is a report step
// (the one on which full output was written, marked by a SEQHDR).
func (s *ESmry) ReportSteps() []bool {
	out := make([]bool, len(s.timeSteps))
	for i := range out {
		out[i] = s.seqIndex[i]
	}
	return out
}

// Dates returns the wall-clock timestamp of every time step: the run's
// START date plus TIME (days) for that step, carried as an
// ctessum/unit-wrapped duration so its dimension travels with the value.
func (s *ESmry) Dates() ([]time.Time, error) {
	times, err := s.Get("TIME")
	if err != nil {
		return nil, err
	}
	base := time.Date(s.startdat[2], time.Month(s.startdat[1]), s.startdat[0],
		s.startdat[3], s.startdat[4], 0, int(s.startdat[5])*1000, time.UTC)

	out := make([]time.Time, len(times))
	for i, t := range times {
		elapsed := unit.New(float64(t)*86400, unit.Dimensions{unit.TimeDim: 1})
		out[i] = base.Add(time.Duration(elapsed.Value() * float64(time.Second)))
	}
	return out, nil
}
