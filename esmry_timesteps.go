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
	"path/filepath"
	"sort"
	"strings"
)

// discoverTimeSteps walks every spec file leaves-first, locates its
// result files, and scans them with the SEQHDR/MINISTEP/PARAMS state
// machine described in spec.md §4.5.
func (s *ESmry) discoverTimeSteps() error {
	for specIdx, sf := range s.specs {
		files, err := discoverDataFiles(sf.path)
		if err != nil {
			return err
		}
		sf.dataFiles = files

		limit := -1
		if specIdx+1 < len(s.specs) {
			limit = s.specs[specIdx+1].restartStep
		}

		count := 0
		for fileIdx, df := range files {
			steps, err := scanResultFile(df)
			if err != nil {
				return err
			}
			for _, step := range steps {
				if limit >= 0 && count >= limit {
					break
				}
				step.specIdx = specIdx
				step.fileIdx = fileIdx
				if step.isReport {
					s.seqIndex[len(s.timeSteps)] = true
				}
				s.timeSteps = append(s.timeSteps, step.esmrySourceStep)
				count++
			}
		}
	}
	return nil
}

// discoveredStep pairs the source-step location with whether a SEQHDR
// immediately preceded its MINISTEP/PARAMS pair in the file (report-step
// flag).
type discoveredStep struct {
	esmrySourceStep
	isReport bool
}

// discoverDataFiles finds the result files for the run whose SMSPEC
// lives at specPath: a unified UNSMRY/FUNSMRY if present and at least as
// new as any numbered sibling, else the lexically sorted .Snnnn/.Annnn
// set.
func discoverDataFiles(specPath string) ([]dataFileRef, error) {
	dir := filepath.Dir(specPath)
	ext := filepath.Ext(specPath)
	root := strings.TrimSuffix(filepath.Base(specPath), ext)
	formattedSpec := ext == ".FSMSPEC"

	unifiedPath := filepath.Join(dir, root+".UNSMRY")
	unifiedFormatted := false
	if formattedSpec {
		unifiedPath = filepath.Join(dir, root+".FUNSMRY")
		unifiedFormatted = true
	}
	unifiedInfo, unifiedErr := osStat(unifiedPath)

	entries, err := osReadDir(dir)
	if err != nil {
		return nil, &IOError{Path: dir, Err: err}
	}
	var numbered []string
	var numberedNewest int64
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, root+".") {
			continue
		}
		suf := name[len(root)+1:]
		isBinary := len(suf) == 5 && suf[0] == 'S'
		isFormatted := len(suf) == 5 && suf[0] == 'A'
		if !isBinary && !isFormatted {
			continue
		}
		if formattedSpec != isFormatted {
			continue
		}
		numbered = append(numbered, filepath.Join(dir, name))
		if info, err := osStat(filepath.Join(dir, name)); err == nil {
			if mt := info.ModTime().Unix(); mt > numberedNewest {
				numberedNewest = mt
			}
		}
	}
	sort.Strings(numbered)

	if unifiedErr == nil && (len(numbered) == 0 || unifiedInfo.ModTime().Unix() >= numberedNewest) {
		return []dataFileRef{{path: unifiedPath, formatted: unifiedFormatted}}, nil
	}
	out := make([]dataFileRef, len(numbered))
	for i, p := range numbered {
		out[i] = dataFileRef{path: p, formatted: formattedSpec}
	}
	return out, nil
}

// scanResultFile opens one result file and walks its record directory
// with the SEQHDR/MINISTEP/PARAMS state machine, producing one
// discoveredStep per PARAMS record. TNAVHEAD/TNAVTIME records are
// skipped without changing state.
func scanResultFile(df dataFileRef) ([]discoveredStep, error) {
	ef, err := OpenEclFile(df.path)
	if err != nil {
		return nil, err
	}

	const (
		stateExpectMiniOrSeq = iota
		stateExpectParams
	)
	state := stateExpectMiniOrSeq
	var pendingMini int64
	haveMini := false

	var out []discoveredStep
	for idx, rec := range ef.records {
		switch rec.Name {
		case "TNAVHEAD", "TNAVTIME":
			continue
		case "SEQHDR":
			if state != stateExpectMiniOrSeq {
				return nil, &MalformedError{File: df.path, Record: rec.Name, Offset: rec.Offset, Reason: "unexpected SEQHDR"}
			}
		case "MINISTEP":
			if state != stateExpectMiniOrSeq {
				return nil, &MalformedError{File: df.path, Record: rec.Name, Offset: rec.Offset, Reason: "unexpected MINISTEP"}
			}
			pendingMini = rec.Offset
			haveMini = true
			state = stateExpectParams
		case "PARAMS":
			if state != stateExpectParams {
				return nil, &MalformedError{File: df.path, Record: rec.Name, Offset: rec.Offset, Reason: "unexpected PARAMS"}
			}
			step := discoveredStep{
				esmrySourceStep: esmrySourceStep{
					offset:      rec.Offset,
					formatted:   df.formatted,
					miniOffset:  pendingMini,
					hasMiniStep: haveMini,
				},
			}
			out = append(out, step)
			state = stateExpectMiniOrSeq
			pendingMini = 0
			haveMini = false
			_ = idx
		default:
			return nil, &MalformedError{File: df.path, Record: rec.Name, Offset: rec.Offset, Reason: "unexpected record in time-step stream"}
		}
	}
	// SEQHDR always precedes the MINISTEP/PARAMS pair it bounds, so
	// re-walk the directory pairing each SEQHDR with the step that
	// immediately follows it.
	markReportSteps(ef, out)
	return out, nil
}

// markReportSteps re-derives which discovered step each SEQHDR in the
// directory bounds, since SEQHDR always appears immediately before the
// MINISTEP/PARAMS pair it marks as a report-step boundary.
func markReportSteps(ef *EclFile, steps []discoveredStep) {
	stepIdx := 0
	pending := false
	for _, rec := range ef.records {
		switch rec.Name {
		case "SEQHDR":
			pending = true
		case "PARAMS":
			if stepIdx < len(steps) {
				steps[stepIdx].isReport = pending
				stepIdx++
			}
			pending = false
		}
	}
}
