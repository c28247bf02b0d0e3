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
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Record describes one named array in an EclFile's directory. It is
// immutable after the directory is built; the payload itself is not read
// until something asks for it.
type Record struct {
	Name   string
	Type   EclType
	Count  int
	Offset int64 // binary: absolute file position of the start of the record's data blocks; formatted: 1-based line number of the record's header line
}

// EclFile is a directory of records built by streaming a file once, plus a
// lazily-populated cache of materialized payloads.
type EclFile struct {
	Path      string
	Formatted bool

	records []Record
	byName  map[string][]int // name -> indices into records, in file order

	loaded map[int]interface{} // index -> decoded slice, populated on demand
}

// formattedExtensions maps the Eclipse file-extension convention to
// whether the file is ASCII-formatted. Unformatted (binary) is assumed for
// anything not listed here, per spec.md §4.2.
var formattedExtensions = map[string]bool{
	".FEGRID":  true,
	".FINIT":   true,
	".FUNSMRY": true,
	".FSMSPEC": true,
	".FGRID":   true,
	".FRST":    true,
}

func isFormattedExt(path string) bool {
	ext := strings.ToUpper(filepath.Ext(path))
	return formattedExtensions[ext]
}

// OpenEclFile streams path once to build its record directory. No payload
// is read at this point.
func OpenEclFile(path string) (*EclFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	ef := &EclFile{
		Path:      path,
		Formatted: isFormattedExt(path),
		byName:    make(map[string][]int),
		loaded:    make(map[int]interface{}),
	}

	if ef.Formatted {
		err = ef.scanFormatted(f)
	} else {
		err = ef.scanBinary(f)
	}
	if err != nil {
		return nil, err
	}
	for i, r := range ef.records {
		ef.byName[r.Name] = append(ef.byName[r.Name], i)
	}
	log.WithField("file", path).WithField("records", len(ef.records)).Debug("eclio: built record directory")
	return ef, nil
}

// scanBinary walks a sequence of [16|name,count,type|16] header blocks,
// skipping over each record's data blocks with a single seek sized by the
// size calculator, so that only the 24 header bytes per record are
// actually read; the data blocks' framing ints are not read or checked
// here.
func (ef *EclFile) scanBinary(f *os.File) error {
	var pos int64
	for {
		head, err := readU32BE(f)
		if err == errEOFAtBoundary {
			return nil
		}
		if err != nil {
			return &MalformedError{File: ef.Path, Offset: pos, Reason: "reading record header length"}
		}
		if head != 16 {
			return &MalformedError{File: ef.Path, Offset: pos, Reason: fmt.Sprintf("expected 16-byte record header, got %d", head)}
		}
		buf := make([]byte, 16)
		if _, err := readFull(f, buf); err != nil {
			return &MalformedError{File: ef.Path, Offset: pos + 4, Reason: "truncated record header"}
		}
		name := strings.TrimRight(string(buf[0:8]), " ")
		count := int(int32(beU32(buf[8:12])))
		typ := EclType(strings.TrimRight(string(buf[12:16]), " "))

		tail, err := readU32BE(f)
		if err != nil || tail != head {
			return &MalformedError{File: ef.Path, Record: name, Offset: pos, Reason: "tail not matching header"}
		}

		dataOffset, err := f.Seek(0, 1)
		if err != nil {
			return &IOError{Path: ef.Path, Err: err}
		}

		elemSize := typ.elemSize()
		if typ == TypeCHAR && elemSize == 0 {
			elemSize = 8
		}
		if strings.HasPrefix(string(typ), "C0") {
			n, convErr := strconv.Atoi(strings.TrimPrefix(string(typ), "C0"))
			if convErr == nil {
				elemSize = n
			}
		}

		ef.records = append(ef.records, Record{Name: name, Type: typ, Count: count, Offset: dataOffset})

		if typ != TypeMESS {
			size := sizeOnDiskBinary(count, typ, elemSize)
			if _, err := f.Seek(size, 1); err != nil {
				return &IOError{Path: ef.Path, Err: err}
			}
		}
		newPos, err := f.Seek(0, 1)
		if err != nil {
			return &IOError{Path: ef.Path, Err: err}
		}
		pos = newPos
	}
}

// scanFormatted walks the ASCII equivalent: one header line per record of
// the form  'NAME    ' count 'TYPE'  followed by the formatted payload.
func (ef *EclFile) scanFormatted(f *os.File) error {
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		name, count, typ, err := parseFormattedHeader(line)
		if err != nil {
			return &MalformedError{File: ef.Path, Offset: int64(lineNo), Reason: err.Error()}
		}
		ef.records = append(ef.records, Record{Name: name, Type: typ, Count: count, Offset: int64(lineNo)})

		nLines := linesForFormattedPayload(count, typ)
		for i := 0; i < nLines; i++ {
			if !sc.Scan() {
				return &MalformedError{File: ef.Path, Record: name, Offset: int64(lineNo), Reason: "unexpected EOF mid-record"}
			}
			lineNo++
		}
	}
	if err := sc.Err(); err != nil {
		return &IOError{Path: ef.Path, Err: err}
	}
	return nil
}

func linesForFormattedPayload(count int, t EclType) int {
	if count == 0 {
		return 0
	}
	layout := formattedLayoutFor(t)
	return (count + layout.numColumns - 1) / layout.numColumns
}

// parseFormattedHeader parses a line like  'KEYWORD '         100 'REAL'
func parseFormattedHeader(line string) (name string, count int, typ EclType, err error) {
	fields, err := splitQuoted(line)
	if err != nil || len(fields) < 3 {
		return "", 0, "", fmt.Errorf("malformed formatted record header %q", line)
	}
	name = strings.TrimRight(fields[0], " ")
	count, convErr := strconv.Atoi(strings.TrimSpace(fields[1]))
	if convErr != nil {
		return "", 0, "", fmt.Errorf("bad count in header %q: %v", line, convErr)
	}
	typ = EclType(strings.TrimSpace(fields[2]))
	return name, count, typ, nil
}

// splitQuoted splits  'A' 100 'B'  into ["A", "100", "B"].
func splitQuoted(line string) ([]string, error) {
	var fields []string
	inQuote := false
	var cur strings.Builder
	for _, r := range line {
		switch {
		case r == '\'':
			if inQuote {
				fields = append(fields, cur.String())
				cur.Reset()
			}
			inQuote = !inQuote
		case r == ' ' && !inQuote:
			if cur.Len() > 0 {
				fields = append(fields, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		fields = append(fields, cur.String())
	}
	return fields, nil
}

// List returns the record directory in file order.
func (ef *EclFile) List() []Record {
	out := make([]Record, len(ef.records))
	copy(out, ef.records)
	return out
}

// HasKey reports whether any record with the given name exists.
func (ef *EclFile) HasKey(name string) bool {
	return len(ef.byName[name]) > 0
}

// indexOfLast returns the directory index of the last occurrence of name.
func (ef *EclFile) indexOfLast(name string) (int, bool) {
	idxs := ef.byName[name]
	if len(idxs) == 0 {
		return 0, false
	}
	return idxs[len(idxs)-1], true
}

// indicesOf returns all directory indices for name, in file order.
func (ef *EclFile) indicesOf(name string) []int {
	return ef.byName[name]
}
