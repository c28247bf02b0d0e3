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

// Package eclio reads Eclipse-format binary/formatted grid (EGRID) and
// summary (SMSPEC/UNSMRY) files.
//
// The on-disk container is a sequence of named, typed array records. Each
// record is written as one or more fixed-size blocks, every block preceded
// and followed by a 4-byte big-endian integer giving the block's payload
// size in bytes (mirroring Fortran unformatted sequential access). This
// file holds the block-level primitives that every higher layer builds on:
// endian flips, the disk-footprint calculators used to skip over a
// record's data while building the directory, and the per-type block-size
// limits that partial reads use to re-synchronize on block boundaries.
package eclio

import "math"

// EclType is the on-disk element type code of a record, stored as the
// 4-character ASCII tag that appears in the record header.
type EclType string

const (
	TypeINTE EclType = "INTE"
	TypeREAL EclType = "REAL"
	TypeDOUB EclType = "DOUB"
	TypeLOGI EclType = "LOGI"
	TypeCHAR EclType = "CHAR"
	TypeMESS EclType = "MESS"
)

// elemSize returns the on-disk size in bytes of one element of t, or 0 for
// variable-width C0nn types (handled by callers that already know nn).
func (t EclType) elemSize() int {
	switch t {
	case TypeINTE, TypeREAL:
		return 4
	case TypeDOUB:
		return 8
	case TypeLOGI:
		return 4
	case TypeCHAR:
		return 8
	case TypeMESS:
		return 0
	default:
		return 0
	}
}

// Block size limits per §1/§6 of spec.md: the maximum number of elements
// that may appear in a single framed block before the writer starts a new
// one.
const (
	maxBlockInt  = 1000
	maxBlockReal = 1000
	maxBlockDoub = 200
	maxBlockChar = 105
)

func maxBlockElems(t EclType) int {
	switch t {
	case TypeINTE, TypeREAL, TypeLOGI:
		return maxBlockInt
	case TypeDOUB:
		return maxBlockDoub
	case TypeCHAR:
		return maxBlockChar
	default:
		return maxBlockInt
	}
}

// flipEndianU32 byte-reverses a 32-bit unsigned integer.
func flipEndianU32(x uint32) uint32 {
	return (x>>24)&0xff | (x>>8)&0xff00 | (x<<8)&0xff0000 | (x<<24)&0xff000000
}

// flipEndianF32 byte-reverses a 32-bit float via its bit pattern.
func flipEndianF32(f float32) float32 {
	bits := math.Float32bits(f)
	return math.Float32frombits(flipEndianU32(bits))
}

// sizeOnDiskBinary returns the disk footprint, in bytes, of an unformatted
// array of n elements of the given type, stored as consecutive blocks of
// at most maxBlockElems(t) elements, each framed by a 4-byte header and a
// matching 4-byte trailer.
func sizeOnDiskBinary(n int, t EclType, elemSize int) int64 {
	if n == 0 {
		// Eclipse still writes one empty-payload block for a zero-length
		// record: header + trailer, no data.
		return 8
	}
	maxElems := maxBlockElems(t)
	nBlocks := (n + maxElems - 1) / maxElems
	var total int64
	remaining := n
	for i := 0; i < nBlocks; i++ {
		count := maxElems
		if remaining < maxElems {
			count = remaining
		}
		total += 8 + int64(count*elemSize)
		remaining -= count
	}
	return total
}

// formatted layout widths, per §6 of spec.md.
type formattedLayout struct {
	numColumns   int
	columnWidth  int
}

func formattedLayoutFor(t EclType) formattedLayout {
	switch t {
	case TypeINTE:
		return formattedLayout{numColumns: 6, columnWidth: 12}
	case TypeREAL:
		return formattedLayout{numColumns: 4, columnWidth: 17}
	case TypeDOUB:
		return formattedLayout{numColumns: 3, columnWidth: 23}
	case TypeLOGI:
		return formattedLayout{numColumns: 20, columnWidth: 3}
	case TypeCHAR:
		return formattedLayout{numColumns: 7, columnWidth: 11}
	default:
		return formattedLayout{numColumns: 6, columnWidth: 12}
	}
}

// sizeOnDiskFormatted returns the disk footprint, in bytes, of a formatted
// (ASCII) array of n elements of the given type: numColumns values per
// line, each columnWidth characters wide, with a trailing newline on every
// row including a short final row.
func sizeOnDiskFormatted(n int, t EclType) int64 {
	if n == 0 {
		return 0
	}
	layout := formattedLayoutFor(t)
	nLines := (n + layout.numColumns - 1) / layout.numColumns
	var total int64
	remaining := n
	for i := 0; i < nLines; i++ {
		cols := layout.numColumns
		if remaining < cols {
			cols = remaining
		}
		total += int64(cols*layout.columnWidth) + 1 // +1 newline
		remaining -= cols
	}
	return total
}
