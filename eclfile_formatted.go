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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// seekToLines scans f from the beginning, discarding lines up to and
// including headerLine (1-based, matching Record.Offset for a formatted
// file), then returns the following nLines lines of payload.
func seekToLines(f *os.File, headerLine int64, nLines int) ([]string, error) {
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lineNo int64
	for lineNo < headerLine {
		if !sc.Scan() {
			return nil, io.ErrUnexpectedEOF
		}
		lineNo++
	}
	out := make([]string, 0, nLines)
	for i := 0; i < nLines; i++ {
		if !sc.Scan() {
			return nil, io.ErrUnexpectedEOF
		}
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}

// parseFormattedValues parses count fixed-width values of type t out of
// the given payload lines.
func parseFormattedValues(lines []string, count int, t EclType) (interface{}, error) {
	layout := formattedLayoutFor(t)
	switch t {
	case TypeINTE:
		out := make([]int32, 0, count)
		for _, line := range lines {
			for _, f := range splitFixedWidth(line, layout.columnWidth) {
				if len(out) >= count {
					break
				}
				v, err := strconv.Atoi(strings.TrimSpace(f))
				if err != nil {
					return nil, fmt.Errorf("bad INTE value %q: %w", f, err)
				}
				out = append(out, int32(v))
			}
		}
		return out, nil
	case TypeREAL:
		out := make([]float32, 0, count)
		for _, line := range lines {
			for _, f := range splitFixedWidth(line, layout.columnWidth) {
				if len(out) >= count {
					break
				}
				v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
				if err != nil {
					return nil, fmt.Errorf("bad REAL value %q: %w", f, err)
				}
				out = append(out, float32(v))
			}
		}
		return out, nil
	case TypeDOUB:
		out := make([]float64, 0, count)
		for _, line := range lines {
			for _, f := range splitFixedWidth(line, layout.columnWidth) {
				if len(out) >= count {
					break
				}
				v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
				if err != nil {
					return nil, fmt.Errorf("bad DOUB value %q: %w", f, err)
				}
				out = append(out, v)
			}
		}
		return out, nil
	case TypeLOGI:
		out := make([]bool, 0, count)
		for _, line := range lines {
			for _, f := range splitFixedWidth(line, layout.columnWidth) {
				if len(out) >= count {
					break
				}
				out = append(out, strings.TrimSpace(f) == "T")
			}
		}
		return out, nil
	default: // CHAR
		out := make([]string, 0, count)
		for _, line := range lines {
			for _, f := range splitQuotedFixed(line) {
				if len(out) >= count {
					break
				}
				out = append(out, strings.TrimRight(f, " "))
			}
		}
		return out, nil
	}
}

func splitFixedWidth(line string, width int) []string {
	var out []string
	for len(line) > 0 {
		if len(line) < width {
			out = append(out, line)
			break
		}
		out = append(out, line[:width])
		line = line[width:]
	}
	return out
}

func splitQuotedFixed(line string) []string {
	fields, _ := splitQuoted(line)
	return fields
}
