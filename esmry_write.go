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
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// MakeEsmryFile writes the compact derived ESMRY form of s to path: every
// vector forced into memory, plus START/KEYCHECK/UNITS/RSTEP/TSTEP
// bookkeeping records. Per spec.md §4.5 this is only defined for a single
// run (loadBaseRunData == false); writing over an existing file is
// refused rather than overwritten.
func (s *ESmry) MakeEsmryFile(path string) (bool, error) {
	if s.loadBaseRunData {
		return false, &InvalidArgumentError{Reason: "ESMRY write is only defined for a single run, not a restart chain"}
	}
	if fileExists(path) {
		return false, nil
	}
	if err := s.LoadAll(); err != nil {
		return false, err
	}

	f, err := os.Create(path)
	if err != nil {
		return false, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	sec := s.startdat[5] / 1_000_000
	ms := (s.startdat[5] / 1000) % 1000
	start := []int32{
		int32(s.startdat[0]), int32(s.startdat[1]), int32(s.startdat[2]),
		int32(s.startdat[3]), int32(s.startdat[4]), int32(sec), int32(ms),
	}
	if err := writeIntRecord(f, "START", start); err != nil {
		return false, err
	}
	if err := writeCharRecord(f, "KEYCHECK", s.keys); err != nil {
		return false, err
	}
	if err := writeCharRecord(f, "UNITS", s.units); err != nil {
		return false, err
	}

	reportSteps := s.ReportSteps()
	rstep := make([]int32, len(reportSteps))
	for i, v := range reportSteps {
		if v {
			rstep[i] = 1
		}
	}
	if err := writeIntRecord(f, "RSTEP", rstep); err != nil {
		return false, err
	}

	miniSteps, err := s.MiniSteps()
	if err != nil {
		return false, err
	}
	if err := writeIntRecord(f, "TSTEP", miniSteps); err != nil {
		return false, err
	}

	for i, key := range s.keys {
		vec, err := s.Get(key)
		if err != nil {
			return false, err
		}
		if err := writeRealRecord(f, fmt.Sprintf("V%d", i), vec); err != nil {
			return false, err
		}
	}
	return true, nil
}

func writeRecordHeader(w io.Writer, name string, t EclType, count int32) error {
	var nameBuf [8]byte
	copy(nameBuf[:], name)
	for i := len(name); i < 8; i++ {
		nameBuf[i] = ' '
	}
	var typeBuf [4]byte
	copy(typeBuf[:], string(t))
	for i := len(t); i < 4; i++ {
		typeBuf[i] = ' '
	}
	if err := binary.Write(w, binary.BigEndian, int32(16)); err != nil {
		return err
	}
	if _, err := w.Write(nameBuf[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, count); err != nil {
		return err
	}
	if _, err := w.Write(typeBuf[:]); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, int32(16))
}

func writeIntRecord(w io.Writer, name string, vals []int32) error {
	if err := writeRecordHeader(w, name, TypeINTE, int32(len(vals))); err != nil {
		return err
	}
	return writeBlocks(w, vals, maxBlockElems(TypeINTE), 4)
}

func writeRealRecord(w io.Writer, name string, vals []float32) error {
	if err := writeRecordHeader(w, name, TypeREAL, int32(len(vals))); err != nil {
		return err
	}
	return writeBlocks(w, vals, maxBlockElems(TypeREAL), 4)
}

func writeCharRecord(w io.Writer, name string, vals []string) error {
	if err := writeRecordHeader(w, name, TypeCHAR, int32(len(vals))); err != nil {
		return err
	}
	maxElems := maxBlockElems(TypeCHAR)
	if len(vals) == 0 {
		return binary.Write(w, binary.BigEndian, [2]int32{0, 0})
	}
	for start := 0; start < len(vals); start += maxElems {
		end := start + maxElems
		if end > len(vals) {
			end = len(vals)
		}
		chunk := vals[start:end]
		if err := binary.Write(w, binary.BigEndian, int32(len(chunk)*8)); err != nil {
			return err
		}
		for _, s := range chunk {
			var b [8]byte
			copy(b[:], s)
			for i := len(s); i < 8; i++ {
				b[i] = ' '
			}
			if _, err := w.Write(b[:]); err != nil {
				return err
			}
		}
		if err := binary.Write(w, binary.BigEndian, int32(len(chunk)*8)); err != nil {
			return err
		}
	}
	return nil
}

// writeBlocks writes vals (a []int32 or []float32) as one or more framed
// blocks of at most maxElems elements, elemSize bytes each.
func writeBlocks(w io.Writer, vals interface{}, maxElems, elemSize int) error {
	switch v := vals.(type) {
	case []int32:
		if len(v) == 0 {
			return binary.Write(w, binary.BigEndian, [2]int32{0, 0})
		}
		for start := 0; start < len(v); start += maxElems {
			end := start + maxElems
			if end > len(v) {
				end = len(v)
			}
			chunk := v[start:end]
			n := int32(len(chunk) * elemSize)
			if err := binary.Write(w, binary.BigEndian, n); err != nil {
				return err
			}
			if err := binary.Write(w, binary.BigEndian, chunk); err != nil {
				return err
			}
			if err := binary.Write(w, binary.BigEndian, n); err != nil {
				return err
			}
		}
		return nil
	case []float32:
		if len(v) == 0 {
			return binary.Write(w, binary.BigEndian, [2]int32{0, 0})
		}
		for start := 0; start < len(v); start += maxElems {
			end := start + maxElems
			if end > len(v) {
				end = len(v)
			}
			chunk := v[start:end]
			n := int32(len(chunk) * elemSize)
			if err := binary.Write(w, binary.BigEndian, n); err != nil {
				return err
			}
			if err := binary.Write(w, binary.BigEndian, chunk); err != nil {
				return err
			}
			if err := binary.Write(w, binary.BigEndian, n); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("eclio: unsupported block value type %T", vals)
	}
}

// EsmryCompact is a reader for the derived ESMRY form written by
// (*ESmry).MakeEsmryFile: a flat EclFile whose records are already
// directly addressable, with no time-step seeking required.
type EsmryCompact struct {
	ef    *EclFile
	Keys  []string
	Units []string
	Start time.Time
	RStep []bool
	TStep []int32
}

// OpenEsmryCompact opens a compact ESMRY file written by MakeEsmryFile.
func OpenEsmryCompact(path string) (*EsmryCompact, error) {
	ef, err := OpenEclFile(path)
	if err != nil {
		return nil, err
	}
	keys, err := ef.GetChar("KEYCHECK")
	if err != nil {
		return nil, err
	}
	units, err := ef.GetChar("UNITS")
	if err != nil {
		return nil, err
	}
	start, err := ef.GetInt("START")
	if err != nil {
		return nil, err
	}
	if len(start) < 7 {
		return nil, &MalformedError{File: path, Record: "START", Reason: "too short"}
	}
	rstep, err := ef.GetInt("RSTEP")
	if err != nil {
		return nil, err
	}
	tstep, err := ef.GetInt("TSTEP")
	if err != nil {
		return nil, err
	}

	c := &EsmryCompact{
		ef:    ef,
		Keys:  trimAll(keys),
		Units: trimAll(units),
		Start: time.Date(int(start[2]), time.Month(start[1]), int(start[0]),
			int(start[3]), int(start[4]), int(start[5]), int(start[6])*1_000_000, time.UTC),
		TStep: tstep,
	}
	c.RStep = make([]bool, len(rstep))
	for i, v := range rstep {
		c.RStep[i] = v != 0
	}
	return c, nil
}

// Vector returns the data for the i-th key (V{i} in the compact file).
func (c *EsmryCompact) Vector(i int) ([]float32, error) {
	return c.ef.GetReal(fmt.Sprintf("V%d", i))
}

// VectorByKey returns the data for the named key.
func (c *EsmryCompact) VectorByKey(key string) ([]float32, error) {
	for i, k := range c.Keys {
		if k == key {
			return c.Vector(i)
		}
	}
	return nil, &NotFoundError{File: "", Name: key}
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimRight(s, " ")
	}
	return out
}
