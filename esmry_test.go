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
	"path/filepath"
	"testing"
	"time"
)

// TestESmryRestartChain builds a two-run restart chain (a base run and a
// child run that restarts from its second step) and checks that the
// union of keys, the NaN-fill for keys absent from one run, and the
// per-run step budget (restartStep) all come out the way spec.md §4.5
// describes.
func TestESmryRestartChain(t *testing.T) {
	dir := t.TempDir()

	basePath := filepath.Join(dir, "BASE.SMSPEC")
	buildSpec(t, basePath, specFixture{
		keywords: []string{"TIME", "XA", "XB", "XC"},
		units:    []string{"DAYS", "BARSA", "BARSA", "BARSA"},
		nijk:     [3]int{1, 1, 1},
		startdat: []int32{1, 1, 2020, 0, 0, 0},
	})
	buildUnsmry(t, filepath.Join(dir, "BASE.UNSMRY"), []paramsStep{
		{ministep: 0, values: []float32{1, 10, 20, 30}, report: true},
		{ministep: 1, values: []float32{2, 11, 21, 31}},
		{ministep: 2, values: []float32{3, 12, 22, 32}}, // dropped: child's restartStep=2
	})

	childPath := filepath.Join(dir, "CHILD.SMSPEC")
	buildSpec(t, childPath, specFixture{
		keywords:    []string{"TIME", "XA", "XC", "XD"},
		units:       []string{"DAYS", "BARSA", "BARSA", "BARSA"},
		nijk:        [3]int{1, 1, 1},
		startdat:    []int32{1, 1, 2020, 0, 0, 0},
		restartRoot: "BASE",
		restartStep: 2,
	})
	buildUnsmry(t, filepath.Join(dir, "CHILD.UNSMRY"), []paramsStep{
		{ministep: 0, values: []float32{3, 13, 33, 40}, report: true},
		{ministep: 1, values: []float32{4, 14, 34, 41}},
	})

	s, err := OpenESmry(childPath, true)
	if err != nil {
		t.Fatalf("OpenESmry: %v", err)
	}

	wantKeys := []string{"TIME", "XA", "XB", "XC", "XD"}
	if got := s.Keys(); !equalStrings(got, wantKeys) {
		t.Fatalf("Keys() = %v, want %v", got, wantKeys)
	}
	if s.NumSteps() != 4 {
		t.Fatalf("NumSteps() = %d, want 4", s.NumSteps())
	}

	checkVector(t, s, "TIME", []float32{1, 2, 3, 4})
	checkVector(t, s, "XA", []float32{10, 11, 13, 14})
	checkVector(t, s, "XB", []float32{20, 21, float32(math.NaN()), float32(math.NaN())})
	checkVector(t, s, "XC", []float32{30, 31, 33, 34})
	checkVector(t, s, "XD", []float32{float32(math.NaN()), float32(math.NaN()), 40, 41})
}

func checkVector(t *testing.T, s *ESmry, key string, want []float32) {
	t.Helper()
	got, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get(%s): %v", key, err)
	}
	if len(got) != len(want) {
		t.Fatalf("Get(%s) = %v, want length %d", key, got, len(want))
	}
	for i := range want {
		if math.IsNaN(float64(want[i])) {
			if !math.IsNaN(float64(got[i])) {
				t.Errorf("Get(%s)[%d] = %v, want NaN", key, i, got[i])
			}
			continue
		}
		if got[i] != want[i] {
			t.Errorf("Get(%s)[%d] = %v, want %v", key, i, got[i], want[i])
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestESmryRoundTripThroughCompactForm writes a single run's worth of
// summary data, derives the compact ESMRY form with MakeEsmryFile, and
// checks that OpenEsmryCompact reads back the same keys, units, start
// date, report-step flags and vector values.
func TestESmryRoundTripThroughCompactForm(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "RUN.SMSPEC")
	buildSpec(t, specPath, specFixture{
		keywords: []string{"TIME", "PRES", "RATE"},
		units:    []string{"DAYS", "BARSA", "SM3/DAY"},
		nijk:     [3]int{1, 1, 1},
		startdat: []int32{1, 1, 2020, 0, 0, 0},
	})
	buildUnsmry(t, filepath.Join(dir, "RUN.UNSMRY"), []paramsStep{
		{ministep: 10, values: []float32{1, 100, 5}, report: true},
		{ministep: 20, values: []float32{2, 101, 5}},
		{ministep: 30, values: []float32{3, 102, 6}},
		{ministep: 40, values: []float32{4, 103, 6}, report: true},
		{ministep: 50, values: []float32{5, 104, 7}},
	})

	s, err := OpenESmry(specPath, false)
	if err != nil {
		t.Fatalf("OpenESmry: %v", err)
	}
	if s.NumSteps() != 5 {
		t.Fatalf("NumSteps() = %d, want 5", s.NumSteps())
	}

	outPath := filepath.Join(dir, "RUN.ESMRY")
	wrote, err := s.MakeEsmryFile(outPath)
	if err != nil {
		t.Fatalf("MakeEsmryFile: %v", err)
	}
	if !wrote {
		t.Fatal("MakeEsmryFile reported it did not write, want a fresh write")
	}

	c, err := OpenEsmryCompact(outPath)
	if err != nil {
		t.Fatalf("OpenEsmryCompact: %v", err)
	}

	wantKeys := []string{"TIME", "PRES", "RATE"}
	if !equalStrings(c.Keys, wantKeys) {
		t.Fatalf("Keys = %v, want %v", c.Keys, wantKeys)
	}
	wantUnits := []string{"DAYS", "BARSA", "SM3/DAY"}
	if !equalStrings(c.Units, wantUnits) {
		t.Fatalf("Units = %v, want %v", c.Units, wantUnits)
	}
	if want := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC); !c.Start.Equal(want) {
		t.Fatalf("Start = %v, want %v", c.Start, want)
	}

	wantRStep := []bool{true, false, false, true, false}
	if len(c.RStep) != len(wantRStep) {
		t.Fatalf("RStep = %v, want length %d", c.RStep, len(wantRStep))
	}
	for i, want := range wantRStep {
		if c.RStep[i] != want {
			t.Errorf("RStep[%d] = %v, want %v", i, c.RStep[i], want)
		}
	}

	wantTStep := []int32{10, 20, 30, 40, 50}
	if len(c.TStep) != len(wantTStep) {
		t.Fatalf("TStep = %v, want %v", c.TStep, wantTStep)
	}
	for i, want := range wantTStep {
		if c.TStep[i] != want {
			t.Errorf("TStep[%d] = %d, want %d (regression check for the MINISTEP block-header offset fix)", i, c.TStep[i], want)
		}
	}

	time32, err := c.VectorByKey("TIME")
	if err != nil {
		t.Fatalf("VectorByKey(TIME): %v", err)
	}
	wantTime := []float32{1, 2, 3, 4, 5}
	for i, want := range wantTime {
		if time32[i] != want {
			t.Errorf("TIME[%d] = %v, want %v", i, time32[i], want)
		}
	}

	rate, err := c.VectorByKey("RATE")
	if err != nil {
		t.Fatalf("VectorByKey(RATE): %v", err)
	}
	wantRate := []float32{5, 5, 6, 6, 7}
	for i, want := range wantRate {
		if rate[i] != want {
			t.Errorf("RATE[%d] = %v, want %v", i, rate[i], want)
		}
	}

	if _, err := c.VectorByKey("MISSING"); err == nil {
		t.Fatal("VectorByKey(MISSING) succeeded, want NotFoundError")
	} else if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("VectorByKey(MISSING) error type = %T, want *NotFoundError", err)
	}
}

// TestESmryRefusesOverwriteAndChainWrite checks the two guard rails
// documented on (*ESmry).MakeEsmryFile.
func TestESmryRefusesOverwriteAndChainWrite(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "RUN.SMSPEC")
	buildSpec(t, specPath, specFixture{
		keywords: []string{"TIME"},
		units:    []string{"DAYS"},
		nijk:     [3]int{1, 1, 1},
		startdat: []int32{1, 1, 2020, 0, 0, 0},
	})
	buildUnsmry(t, filepath.Join(dir, "RUN.UNSMRY"), []paramsStep{
		{ministep: 0, values: []float32{1}, report: true},
	})

	s, err := OpenESmry(specPath, false)
	if err != nil {
		t.Fatalf("OpenESmry: %v", err)
	}
	outPath := filepath.Join(dir, "RUN.ESMRY")
	if wrote, err := s.MakeEsmryFile(outPath); err != nil || !wrote {
		t.Fatalf("first MakeEsmryFile = (%v, %v), want (true, nil)", wrote, err)
	}
	if wrote, err := s.MakeEsmryFile(outPath); err != nil || wrote {
		t.Fatalf("second MakeEsmryFile over an existing file = (%v, %v), want (false, nil)", wrote, err)
	}

	chain, err := OpenESmry(specPath, true)
	if err != nil {
		t.Fatalf("OpenESmry(loadBaseRunData=true): %v", err)
	}
	if _, err := chain.MakeEsmryFile(filepath.Join(dir, "CHAIN.ESMRY")); err == nil {
		t.Fatal("MakeEsmryFile on a chain-loaded ESmry succeeded, want InvalidArgumentError")
	} else if _, ok := err.(*InvalidArgumentError); !ok {
		t.Fatalf("error type = %T, want *InvalidArgumentError", err)
	}
}
