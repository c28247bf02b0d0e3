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

// Test fixtures are built by hand with the package's own block-level
// writers (the same ones (*ESmry).MakeEsmryFile uses), the way the
// teacher's cdf package builds headers by hand in its own tests instead
// of shipping binary golden files.

import (
	"os"
	"path/filepath"
	"testing"
)

// recordWriter appends one record to a file being assembled for a test
// fixture.
type recordWriter func(f *os.File) error

func intRecord(name string, vals []int32) recordWriter {
	return func(f *os.File) error { return writeIntRecord(f, name, vals) }
}

func realRecord(name string, vals []float32) recordWriter {
	return func(f *os.File) error { return writeRealRecord(f, name, vals) }
}

func charRecord(name string, vals []string) recordWriter {
	return func(f *os.File) error { return writeCharRecord(f, name, vals) }
}

// buildFile assembles a binary Eclipse-format fixture at path from an
// ordered list of records.
func buildFile(t *testing.T, path string, records ...recordWriter) string {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture %s: %v", path, err)
	}
	defer f.Close()
	for _, w := range records {
		if err := w(f); err != nil {
			t.Fatalf("writing record into %s: %v", path, err)
		}
	}
	return path
}

// paramsStep is one discovered (MINISTEP, PARAMS) pair for a synthetic
// UNSMRY fixture, optionally preceded by a SEQHDR report-step marker.
type paramsStep struct {
	ministep int32
	values   []float32
	report   bool
}

// buildUnsmry assembles a synthetic .UNSMRY fixture at path.
func buildUnsmry(t *testing.T, path string, steps []paramsStep) string {
	t.Helper()
	var recs []recordWriter
	for i, st := range steps {
		if st.report {
			recs = append(recs, intRecord("SEQHDR", []int32{int32(i)}))
		}
		recs = append(recs, intRecord("MINISTEP", []int32{st.ministep}))
		recs = append(recs, realRecord("PARAMS", st.values))
	}
	return buildFile(t, path, recs...)
}

// specFixture describes one SMSPEC file in a synthetic restart chain.
type specFixture struct {
	keywords    []string
	units       []string
	nijk        [3]int
	startdat    []int32
	restartRoot string
	restartStep int
}

// buildSpec assembles a synthetic .SMSPEC fixture at path.
func buildSpec(t *testing.T, path string, sf specFixture) string {
	t.Helper()
	dimens := []int32{
		int32(len(sf.keywords)), int32(sf.nijk[0]), int32(sf.nijk[1]), int32(sf.nijk[2]),
		0, int32(sf.restartStep),
	}
	recs := []recordWriter{
		intRecord("DIMENS", dimens),
		charRecord("KEYWORDS", sf.keywords),
		charRecord("UNITS", sf.units),
		intRecord("STARTDAT", sf.startdat),
	}
	if sf.restartRoot != "" {
		recs = append(recs, charRecord("RESTART", []string{sf.restartRoot}))
	}
	return buildFile(t, path, recs...)
}

func tempPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}
