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
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Category classifies a summary keyword by its first letter, per the
// dispatch table in spec.md §4.4. It is a tagged variant rather than a
// chain of prefix tests so the key-building and key-parsing rules can
// switch on it directly.
type Category int

const (
	CategoryField Category = iota
	CategoryAquifer
	CategoryBlock
	CategoryCompletion
	CategoryGroup
	CategoryLGR
	CategoryRegion
	CategorySegment
	CategoryWell
	CategoryMisc
)

// sentinelWGName marks "no well/group" in WGNAMES/NAMES records.
const sentinelWGName = ":+:+:+:+"

// LGRInfo is attached to a SummaryNode when the vector is scoped to a
// local grid refinement.
type LGRInfo struct {
	Name string
	I, J, K int
}

// SummaryNode is the resolved, user-facing description of one summary
// vector column.
type SummaryNode struct {
	Keyword  string
	Category Category
	WGName   string
	Number   int
	Unit     string
	LGR      *LGRInfo
}

var completionPattern = regexp.MustCompile(`^W[OGWLV][PIGOLCF][RT]L`)
var paddedSuffixPattern = regexp.MustCompile(`^(.+?)_+([0-9]+)$`)

// isRegionFluxKeyword reports whether keyword names a region-to-region
// flux/flow vector: "FR" or "FT" at character positions 3-4 (e.g. "RGFR",
// "ROFTG") or 4-5 (e.g. "RNLFR"), per spec.md §4.4.
func isRegionFluxKeyword(keyword string) bool {
	for _, start := range [2]int{2, 3} {
		if len(keyword) < start+2 {
			continue
		}
		if pair := keyword[start : start+2]; pair == "FR" || pair == "FT" {
			return true
		}
	}
	return false
}

// normalizeKeyword strips a trailing run of underscores-then-digits that
// the simulator uses to pack a completion/segment number into a padded
// 8-character keyword (e.g. "WOPRL__1"), returning the bare keyword and
// the packed number. ok is false if there was nothing to strip.
func normalizeKeyword(raw string) (keyword string, packedNum int, ok bool) {
	m := paddedSuffixPattern.FindStringSubmatch(raw)
	if m == nil {
		return raw, 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return raw, 0, false
	}
	return m[1], n, true
}

// categoryOf infers a Category from a keyword's first character, per
// spec.md §4.4.
func categoryOf(keyword string) Category {
	if keyword == "" {
		return CategoryMisc
	}
	switch keyword[0] {
	case 'A':
		return CategoryAquifer
	case 'B':
		return CategoryBlock
	case 'C':
		return CategoryCompletion
	case 'G':
		return CategoryGroup
	case 'L':
		return CategoryLGR
	case 'R':
		return CategoryRegion
	case 'S':
		return CategorySegment
	case 'W':
		return CategoryWell
	default:
		return CategoryMisc
	}
}

// BuildKey synthesizes a canonical user-facing key and its resolved
// SummaryNode from a raw simulator keyword and its NUMS/WGNAMES context.
// nijk gives the (nx,ny,nz) of the grid the block/completion number is
// unpacked against. It is not used when lgr is set: LGR keys take their
// cell coordinates from lgr itself.
func BuildKey(rawKeyword, wgname string, num int, unit string, lgr *LGRInfo, nijk [3]int) (string, SummaryNode) {
	keyword := rawKeyword
	if base, packed, ok := normalizeKeyword(rawKeyword); ok {
		keyword = base
		if num <= 0 {
			num = packed
		}
	}

	node := SummaryNode{Keyword: keyword, WGName: wgname, Number: num, Unit: unit, LGR: lgr}

	if lgr != nil {
		node.Category = CategoryLGR
		return buildLGRKey(keyword, wgname, num, lgr), node
	}

	node.Category = categoryOf(keyword)
	switch node.Category {
	case CategoryAquifer:
		if num <= 0 {
			return keyword, node
		}
		return fmt.Sprintf("%s:%d", keyword, num), node

	case CategoryBlock:
		if num <= 0 {
			return keyword, node
		}
		i, j, k := ijkFromPackedNum(num, nijk[0], nijk[1])
		return fmt.Sprintf("%s:%d,%d,%d", keyword, i, j, k), node

	case CategoryCompletion:
		if num <= 0 {
			return keyword, node
		}
		i, j, k := ijkFromPackedNum(num, nijk[0], nijk[1])
		return fmt.Sprintf("%s:%s:%d,%d,%d", keyword, wgname, i, j, k), node

	case CategoryGroup:
		if wgname == sentinelWGName {
			return keyword, node
		}
		return fmt.Sprintf("%s:%s", keyword, wgname), node

	case CategoryRegion:
		if keyword == "RORFR" {
			if num <= 0 {
				return keyword, node
			}
			return fmt.Sprintf("%s:%d", keyword, num), node
		}
		if isRegionFluxKeyword(keyword) {
			r1 := num % 32768
			r2 := num/32768 - 10
			return fmt.Sprintf("%s:%d-%d", keyword, r1, r2), node
		}
		if num <= 0 {
			return keyword, node
		}
		return fmt.Sprintf("%s:%d", keyword, num), node

	case CategorySegment:
		if wgname == sentinelWGName || num <= 0 {
			return keyword, node
		}
		return fmt.Sprintf("%s:%s:%d", keyword, wgname, num), node

	case CategoryWell:
		if wgname == sentinelWGName {
			return keyword, node
		}
		if completionPattern.MatchString(keyword) && num > 0 {
			return fmt.Sprintf("%s:%s:%d", keyword, wgname, num), node
		}
		return fmt.Sprintf("%s:%s", keyword, wgname), node

	default:
		return keyword, node
	}
}

// buildLGRKey handles the L-prefixed categories: LBxxx, LCxxx, LWxxx.
func buildLGRKey(keyword, wgname string, num int, lgr *LGRInfo) string {
	rest := keyword
	if strings.HasPrefix(rest, "L") {
		rest = rest[1:]
	}
	if rest == "" {
		return fmt.Sprintf("%s: %s:%d,%d,%d", keyword, lgr.Name, lgr.I, lgr.J, lgr.K)
	}
	switch rest[0] {
	case 'B':
		return fmt.Sprintf("%s: %s:%d,%d,%d", keyword, lgr.Name, lgr.I, lgr.J, lgr.K)
	case 'C':
		return fmt.Sprintf("%s: %s:%s:%d,%d,%d", keyword, lgr.Name, wgname, lgr.I, lgr.J, lgr.K)
	case 'W':
		return fmt.Sprintf("%s: %s:%s", keyword, lgr.Name, wgname)
	default:
		return fmt.Sprintf("%s: %s", keyword, lgr.Name)
	}
}

// ijkFromPackedNum decodes a 1-based NUMS block/completion index the same
// way EGrid decodes a global cell index, but applied directly to num
// (rather than num-1): this is the empirically-observed Eclipse
// convention for NUMS, and it is what makes the boundary arithmetic work
// out to display coordinates without a separate +1 step.
func ijkFromPackedNum(num, nx, ny int) (i, j, k int) {
	if nx <= 0 {
		nx = 1
	}
	if ny <= 0 {
		ny = 1
	}
	plane := nx * ny
	k = num / plane
	rem := num % plane
	j = rem / nx
	i = rem % nx
	return i, j, k
}
