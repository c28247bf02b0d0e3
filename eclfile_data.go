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
	"errors"
	"io"
	"math"
	"os"
	"strings"
)

var errEOFAtBoundary = errors.New("eclio: clean EOF at a record boundary")

func beU32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

// readU32BE reads one big-endian uint32. A clean EOF (zero bytes read,
// nothing consumed) is reported as errEOFAtBoundary so callers scanning a
// stream of records can distinguish "no more records" from a truncated one.
func readU32BE(r io.Reader) (uint32, error) {
	var buf [4]byte
	n, err := io.ReadFull(r, buf[:])
	if n == 0 && err == io.EOF {
		return 0, errEOFAtBoundary
	}
	if err != nil {
		return 0, err
	}
	return beU32(buf[:]), nil
}

func readFull(r io.Reader, buf []byte) (int, error) {
	return io.ReadFull(r, buf)
}

// LoadData materializes and caches the payload of the records at the given
// directory indices. Subsequent Get* calls for those indices return the
// cached value without touching disk again.
func (ef *EclFile) LoadData(indices []int) error {
	f, err := os.Open(ef.Path)
	if err != nil {
		return &IOError{Path: ef.Path, Err: err}
	}
	defer f.Close()

	for _, idx := range indices {
		if idx < 0 || idx >= len(ef.records) {
			return errOutOfRange()
		}
		if _, ok := ef.loaded[idx]; ok {
			continue
		}
		rec := ef.records[idx]
		val, err := ef.readRecord(f, rec)
		if err != nil {
			return err
		}
		ef.loaded[idx] = val
	}
	return nil
}

// LoadDataByName loads every occurrence of each named record.
func (ef *EclFile) LoadDataByName(names []string) error {
	var idxs []int
	for _, n := range names {
		idxs = append(idxs, ef.indicesOf(n)...)
	}
	return ef.LoadData(idxs)
}

// LoadAll materializes and caches every record in the directory.
func (ef *EclFile) LoadAll() error {
	idxs := make([]int, len(ef.records))
	for i := range ef.records {
		idxs[i] = i
	}
	return ef.LoadData(idxs)
}

// readRecord reads and decodes one full record's payload, binary or
// formatted, by seeking to its stored offset.
func (ef *EclFile) readRecord(f *os.File, rec Record) (interface{}, error) {
	if ef.Formatted {
		return ef.readRecordFormatted(rec)
	}
	if _, err := f.Seek(rec.Offset, io.SeekStart); err != nil {
		return nil, &IOError{Path: ef.Path, Err: err}
	}
	return ef.readBlocksBinary(f, rec)
}

// readBlocksBinary reads every [len|payload|len] block of a record's data
// area and concatenates the payload into a typed slice, verifying that
// each block's header and trailer integers agree.
func (ef *EclFile) readBlocksBinary(f *os.File, rec Record) (interface{}, error) {
	elemSize := rec.Type.elemSize()
	switch {
	case rec.Type == TypeCHAR:
		elemSize = 8
	case strings.HasPrefix(string(rec.Type), "C0"):
		elemSize = c0nnSize(rec.Type)
	}
	if rec.Type == TypeMESS || rec.Count == 0 {
		return emptyOf(rec.Type), nil
	}

	remaining := rec.Count
	out := newSliceOf(rec.Type, rec.Count)
	filled := 0
	for remaining > 0 {
		head, err := readU32BE(f)
		if err != nil {
			return nil, &MalformedError{File: ef.Path, Record: rec.Name, Offset: rec.Offset, Reason: "reading block length"}
		}
		n := int(head) / elemSize
		if n <= 0 || n > remaining {
			// A record's last block may be shorter than a full block but
			// never longer than what remains.
			if n <= 0 {
				return nil, &MalformedError{File: ef.Path, Record: rec.Name, Offset: rec.Offset, Reason: "zero-length block"}
			}
			return nil, &MalformedError{File: ef.Path, Record: rec.Name, Offset: rec.Offset, Reason: "block longer than the rest of the record"}
		}
		buf := make([]byte, int(head))
		if _, err := readFull(f, buf); err != nil {
			return nil, &MalformedError{File: ef.Path, Record: rec.Name, Offset: rec.Offset, Reason: "truncated block payload"}
		}
		tail, err := readU32BE(f)
		if err != nil || tail != head {
			return nil, &MalformedError{File: ef.Path, Record: rec.Name, Offset: rec.Offset, Reason: "tail not matching header"}
		}
		decodeInto(out, filled, buf, rec.Type)
		filled += n
		remaining -= n
	}
	return out, nil
}

func c0nnSize(t EclType) int {
	n := 0
	for _, c := range string(t)[2:] {
		if c < '0' || c > '9' {
			return 8
		}
		n = n*10 + int(c-'0')
	}
	if n == 0 {
		return 8
	}
	return n
}

func newSliceOf(t EclType, n int) interface{} {
	switch t {
	case TypeINTE:
		return make([]int32, n)
	case TypeREAL:
		return make([]float32, n)
	case TypeDOUB:
		return make([]float64, n)
	case TypeLOGI:
		return make([]bool, n)
	default:
		return make([]string, n)
	}
}

func emptyOf(t EclType) interface{} {
	return newSliceOf(t, 0)
}

func decodeInto(out interface{}, offset int, buf []byte, t EclType) {
	switch t {
	case TypeINTE:
		s := out.([]int32)
		for i := 0; i*4 < len(buf); i++ {
			s[offset+i] = int32(beU32(buf[i*4 : i*4+4]))
		}
	case TypeREAL:
		s := out.([]float32)
		for i := 0; i*4 < len(buf); i++ {
			s[offset+i] = math.Float32frombits(beU32(buf[i*4 : i*4+4]))
		}
	case TypeDOUB:
		s := out.([]float64)
		for i := 0; i*8 < len(buf); i++ {
			bits := binary.BigEndian.Uint64(buf[i*8 : i*8+8])
			s[offset+i] = math.Float64frombits(bits)
		}
	case TypeLOGI:
		s := out.([]bool)
		for i := 0; i*4 < len(buf); i++ {
			s[offset+i] = beU32(buf[i*4:i*4+4]) != 0
		}
	default: // CHAR, C0nn
		s := out.([]string)
		elemSize := 8
		if strings.HasPrefix(string(t), "C0") {
			elemSize = c0nnSize(t)
		}
		for i := 0; i*elemSize < len(buf); i++ {
			s[offset+i] = strings.TrimRight(string(buf[i*elemSize:i*elemSize+elemSize]), " ")
		}
	}
}

// readRecordFormatted re-opens the file and scans to the stored line
// number, then parses count values in the column layout for the type.
func (ef *EclFile) readRecordFormatted(rec Record) (interface{}, error) {
	f, err := os.Open(ef.Path)
	if err != nil {
		return nil, &IOError{Path: ef.Path, Err: err}
	}
	defer f.Close()

	lines, err := seekToLines(f, rec.Offset, linesForFormattedPayload(rec.Count, rec.Type))
	if err != nil {
		return nil, &MalformedError{File: ef.Path, Record: rec.Name, Offset: rec.Offset, Reason: "truncated formatted payload"}
	}
	return parseFormattedValues(lines, rec.Count, rec.Type)
}
