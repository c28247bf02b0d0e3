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

import "testing"

func TestEclFileDirectoryAndLastOccurrence(t *testing.T) {
	path := tempPath(t, "SAMPLE.EGRID")
	buildFile(t, path,
		intRecord("GRIDHEAD", []int32{0, 2, 2, 1}),
		realRecord("COORD", []float32{1, 2, 3}),
		intRecord("GRIDHEAD", []int32{0, 3, 3, 1}), // second occurrence
	)

	ef, err := OpenEclFile(path)
	if err != nil {
		t.Fatalf("OpenEclFile: %v", err)
	}
	if list := ef.List(); len(list) != 3 {
		t.Fatalf("List() returned %d records, want 3", len(list))
	}
	if !ef.HasKey("GRIDHEAD") {
		t.Fatal("HasKey(GRIDHEAD) = false, want true")
	}
	if ef.HasKey("ACTNUM") {
		t.Fatal("HasKey(ACTNUM) = true, want false")
	}

	got, err := ef.GetInt("GRIDHEAD")
	if err != nil {
		t.Fatalf("GetInt(GRIDHEAD): %v", err)
	}
	want := []int32{0, 3, 3, 1}
	if len(got) != len(want) || got[1] != want[1] {
		t.Fatalf("GetInt(GRIDHEAD) returned the wrong occurrence: got %v, want %v (last)", got, want)
	}

	first, err := ef.GetIntAt(0)
	if err != nil {
		t.Fatalf("GetIntAt(0): %v", err)
	}
	if first[1] != 2 {
		t.Fatalf("GetIntAt(0) = %v, want the first GRIDHEAD occurrence", first)
	}
}

func TestEclFileNotFound(t *testing.T) {
	path := tempPath(t, "EMPTY.EGRID")
	buildFile(t, path, intRecord("GRIDHEAD", []int32{0, 1, 1, 1}))

	ef, err := OpenEclFile(path)
	if err != nil {
		t.Fatalf("OpenEclFile: %v", err)
	}
	if _, err := ef.GetInt("MISSING"); err == nil {
		t.Fatal("GetInt(MISSING) succeeded, want NotFoundError")
	} else if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("GetInt(MISSING) error type = %T, want *NotFoundError", err)
	}
}

func TestEclFileWrongType(t *testing.T) {
	path := tempPath(t, "TYPED.EGRID")
	buildFile(t, path, intRecord("GRIDHEAD", []int32{0, 1, 1, 1}))

	ef, err := OpenEclFile(path)
	if err != nil {
		t.Fatalf("OpenEclFile: %v", err)
	}
	if _, err := ef.GetReal("GRIDHEAD"); err == nil {
		t.Fatal("GetReal(GRIDHEAD) succeeded on an INTE record, want WrongTypeError")
	} else if _, ok := err.(*WrongTypeError); !ok {
		t.Fatalf("GetReal(GRIDHEAD) error type = %T, want *WrongTypeError", err)
	}
}

func TestEclFileLoadDataCaches(t *testing.T) {
	path := tempPath(t, "CACHE.EGRID")
	buildFile(t, path, realRecord("COORD", []float32{1.5, 2.5, 3.5}))

	ef, err := OpenEclFile(path)
	if err != nil {
		t.Fatalf("OpenEclFile: %v", err)
	}
	if err := ef.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	got, err := ef.GetReal("COORD")
	if err != nil {
		t.Fatalf("GetReal(COORD): %v", err)
	}
	if len(got) != 3 || got[0] != 1.5 {
		t.Fatalf("GetReal(COORD) = %v, want [1.5 2.5 3.5]", got)
	}
}
