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
	"os"
	"path/filepath"
	"strings"
)

func osStat(p string) (os.FileInfo, error) { return os.Stat(p) }

func osReadDir(dir string) ([]os.DirEntry, error) { return os.ReadDir(dir) }

// readSpecHeader opens the SMSPEC file at path and resolves every column
// into a user key, SummaryNode and unit, per spec.md §4.5 step 1-2. It
// returns the restart root name (empty if the run has no parent).
func readSpecHeader(path string) (*specFile, string, error) {
	ef, err := OpenEclFile(path)
	if err != nil {
		return nil, "", err
	}

	dimens, err := ef.GetInt("DIMENS")
	if err != nil {
		return nil, "", err
	}
	if len(dimens) < 6 {
		return nil, "", &MalformedError{File: path, Record: "DIMENS", Reason: "too short"}
	}
	sf := &specFile{
		ef:          ef,
		path:        path,
		dir:         filepath.Dir(path),
		nlist:       int(dimens[0]),
		nijk:        [3]int{int(dimens[1]), int(dimens[2]), int(dimens[3])},
		restartStep: int(dimens[5]),
	}

	keywords, err := ef.GetChar("KEYWORDS")
	if err != nil {
		return nil, "", err
	}
	wgnames, err := wgnamesOf(ef)
	if err != nil {
		return nil, "", err
	}
	nums, err := optionalInts(ef, "NUMS", len(keywords))
	if err != nil {
		return nil, "", err
	}
	units, err := ef.GetChar("UNITS")
	if err != nil {
		return nil, "", err
	}

	lgrInfos, err := lgrInfosOf(ef, len(keywords))
	if err != nil {
		return nil, "", err
	}

	sf.keys = make([]string, len(keywords))
	sf.nodes = make([]SummaryNode, len(keywords))
	sf.units = make([]string, len(keywords))
	for i, kw := range keywords {
		kw = strings.TrimRight(kw, " ")
		wg := ""
		if i < len(wgnames) {
			wg = strings.TrimRight(wgnames[i], " ")
		}
		num := 0
		if i < len(nums) {
			num = int(nums[i])
		}
		unit := ""
		if i < len(units) {
			unit = strings.TrimSpace(units[i])
		}
		var lgr *LGRInfo
		if i < len(lgrInfos) {
			lgr = lgrInfos[i]
		}
		key, node := BuildKey(kw, wg, num, unit, lgr, sf.nijk)
		sf.keys[i] = key
		sf.nodes[i] = node
		sf.units[i] = unit
	}

	startdat, err := ef.GetInt("STARTDAT")
	if err != nil {
		return nil, "", err
	}
	sf.startdatCache = parseStartdat(startdat)

	restartRoot := ""
	if chunks, err := ef.GetChar("RESTART"); err == nil {
		var b strings.Builder
		for _, c := range chunks {
			b.WriteString(c)
		}
		restartRoot = strings.TrimSpace(b.String())
	}

	return sf, restartRoot, nil
}

func wgnamesOf(ef *EclFile) ([]string, error) {
	if ef.HasKey("WGNAMES") {
		return ef.GetChar("WGNAMES")
	}
	if ef.HasKey("NAMES") {
		return ef.GetChar("NAMES")
	}
	return nil, nil
}

func optionalInts(ef *EclFile, name string, want int) ([]int32, error) {
	if !ef.HasKey(name) {
		return make([]int32, want), nil
	}
	return ef.GetInt(name)
}

// lgrInfosOf builds a per-column LGRInfo slice from the optional
// LGRS/NUMLX/NUMLY/NUMLZ records; columns outside an LGR get a nil entry.
func lgrInfosOf(ef *EclFile, n int) ([]*LGRInfo, error) {
	if !ef.HasKey("LGRS") {
		return make([]*LGRInfo, n), nil
	}
	names, err := ef.GetChar("LGRS")
	if err != nil {
		return nil, err
	}
	lx, _ := optionalInts(ef, "NUMLX", n)
	ly, _ := optionalInts(ef, "NUMLY", n)
	lz, _ := optionalInts(ef, "NUMLZ", n)

	out := make([]*LGRInfo, n)
	for i := 0; i < n && i < len(names); i++ {
		name := strings.TrimSpace(names[i])
		if name == "" {
			continue
		}
		info := &LGRInfo{Name: name}
		if i < len(lx) {
			info.I = int(lx[i])
		}
		if i < len(ly) {
			info.J = int(ly[i])
		}
		if i < len(lz) {
			info.K = int(lz[i])
		}
		out[i] = info
	}
	return out, nil
}

// parseStartdat decodes STARTDAT's 3 or 6 ints (day, month, year, [hour,
// minute, microsecond]) into a fixed 6-element form.
func parseStartdat(v []int32) [6]int {
	var out [6]int
	for i := 0; i < 6 && i < len(v); i++ {
		out[i] = int(v[i])
	}
	return out
}
