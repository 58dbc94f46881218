// Copyright 2026 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2026 Charles University, Faculty of Arts,
//                Institute of the Czech National Corpus
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package translate implements component E: it maps a compiled,
// branched TJA course onto the fumen in-memory model - symbol to
// type_id, balloon item_id assignment, branch_info derivation for
// #BRANCHSTART/#LEVELHOLD/#SECTION.
package translate

import (
	"github.com/tjatools/tja2fumen/cliopts"
	"github.com/tjatools/tja2fumen/compile"
	"github.com/tjatools/tja2fumen/errs"
	"github.com/tjatools/tja2fumen/fumen"
	"github.com/tjatools/tja2fumen/tja"
)

// sectionFlagBit marks a #SECTION sentinel measure in the otherwise
// unused low bit of padding1 - there being no surviving documentation
// of the real fumen convention's exact bit, this is this codec's own
// choice (see DESIGN.md).
const sectionFlagBit = 0x1

const accuracyMultiplier = 4

// downgradeTargets maps the unrecognized simulator note symbols this
// codec tolerates to the nearest note type_id supported by official
// fumen. There is no surviving reference distinguishing them further,
// so all six collapse to don.
var downgradeTargets = map[rune]uint16{
	'C': fumen.TypeDon, 'D': fumen.TypeDon, 'E': fumen.TypeDon,
	'G': fumen.TypeDon, 'H': fumen.TypeDon, 'I': fumen.TypeDon,
}

func symbolTypeID(sym rune, senote int, downgrade bool) (typeID uint16, ok bool, wasDowngraded bool) {
	var base uint16
	switch sym {
	case '1':
		base = fumen.TypeDon
	case '2':
		base = fumen.TypeKa
	case '3':
		base = fumen.TypeBigDon
	case '4':
		base = fumen.TypeBigKa
	case '5':
		base = fumen.TypeRoll
	case '6':
		base = fumen.TypeBigRoll
	case '7':
		base = fumen.TypeBalloon
	case '9':
		base = fumen.TypeKusudama
	case 'A', 'a':
		base = fumen.TypeHandLeft
	case 'B', 'b':
		base = fumen.TypeHandRight
	case 'F', 'f':
		base = fumen.TypeAdlib
	default:
		if target, known := downgradeTargets[sym]; known {
			if !downgrade {
				return 0, false, true
			}
			return fumen.WithSenote(target, senote), true, true
		}
		return 0, false, false
	}
	return fumen.WithSenote(base, senote), true, false
}

// balloonCursor hands out sequential item_ids and hit counts for
// balloon/kusudama openers, one independent cursor per branch - see
// DESIGN.md for why "global" is read as per-branch here.
type balloonCursor struct {
	balloons []int
	next     int
}

// take returns the item_id and required hit count for the next
// balloon/kusudama opener. A BALLOON list shorter than the number of
// openers is padded with its last value (or 5 if the list is empty),
// reporting padded=true so the caller can warn; a list longer than the
// number of openers simply leaves its surplus entries unread, per
// spec's "longer lists truncate silently".
func (b *balloonCursor) take() (itemID uint32, hitCount int, padded bool) {
	idx := b.next
	b.next++
	itemID = uint32(idx)
	switch {
	case idx < len(b.balloons):
		return itemID, b.balloons[idx], false
	case len(b.balloons) > 0:
		return itemID, b.balloons[len(b.balloons)-1], true
	default:
		return itemID, 5, true
	}
}

// branchHold tracks a #LEVELHOLD in effect for a branch: once set, the
// branch's entry threshold is forced into every subsequent measure's
// branch_info slots for the rest of the course.
type branchHold struct {
	active    bool
	threshold int32
}

// Translate maps every course of a parsed song onto the fumen model.
func Translate(song *tja.Song, opts cliopts.Options) (map[tja.CourseKey]*fumen.Course, []errs.ConvertWarning, error) {
	out := make(map[tja.CourseKey]*fumen.Course, len(song.Courses))
	var warnings []errs.ConvertWarning

	for key, tc := range song.Courses {
		compiled, w, err := compile.Compile(song, tc)
		warnings = append(warnings, w...)
		if err != nil {
			return nil, warnings, err
		}
		fc, w2, err := translateCourse(compiled, opts)
		warnings = append(warnings, w2...)
		if err != nil {
			return nil, warnings, err
		}
		out[key] = fc
	}
	return out, warnings, nil
}

func translateCourse(cc *compile.Course, opts cliopts.Options) (*fumen.Course, []errs.ConvertWarning, error) {
	var warnings []errs.ConvertWarning

	header := fumen.NewHeader()
	header.Difficulty = uint8(cc.Course)
	header.Style = uint8(cc.Style)

	stars := cc.Level
	if stars < 0 || stars > 10 {
		warnings = append(warnings, errs.NewWarning(errs.WarnLevelClamped, cc.Course.String(), 0,
			"level %d out of [0,10], clamped", stars))
		if stars < 0 {
			stars = 0
		} else {
			stars = 10
		}
	}
	header.Stars = uint8(stars)
	header.ScoreInit = clampU16(cc.ScoreInit)
	header.ScoreDiff = clampU16(cc.ScoreDiff)

	fc := &fumen.Course{
		Header:    header,
		ScoreInit: int32(cc.ScoreInit),
		ScoreDiff: int32(cc.ScoreDiff),
	}

	branchKeys := [...]int{fumen.BranchNormal, fumen.BranchAdvanced, fumen.BranchMaster}
	branchNames := [...]string{"N", "E", "M"}

	holds := map[string]*branchHold{"N": {}, "E": {}, "M": {}}
	// entryThreshold[b] is the threshold that routes play into branch b,
	// used by #LEVELHOLD's "current branch's entry threshold".
	entryThreshold := map[string]int32{"N": -1, "E": -1, "M": -1}
	cursors := map[string]*balloonCursor{
		"N": {balloons: cc.Balloons}, "E": {balloons: cc.Balloons}, "M": {balloons: cc.Balloons},
	}

	n := len(cc.Branches["N"])
	measures := make([]fumen.Measure, n)

	for i := 0; i < n; i++ {
		var branchInfo [6]int32
		for j := range branchInfo {
			branchInfo[j] = -1
		}

		var shared fumen.Measure
		first := true

		for bi, name := range branchNames {
			srcList := cc.Branches[name]
			if i >= len(srcList) {
				continue
			}
			src := srcList[i]

			if fork := src.Fork; fork != nil {
				mul := int32(1)
				if fork.Kind == "p" {
					mul = accuracyMultiplier
				}
				branchInfo[0] = int32(fork.AdvThreshold) * mul
				branchInfo[1] = int32(fork.MasThreshold) * mul
				entryThreshold["E"] = branchInfo[0]
				entryThreshold["M"] = branchInfo[1]
			}

			hold := holds[name]
			if src.LevelHold {
				hold.active = true
				hold.threshold = entryThreshold[name]
			}
			if hold.active {
				branchInfo[0] = hold.threshold
				branchInfo[1] = hold.threshold
			}

			notes, w := translateNotes(src, opts, cursors[name])
			warnings = append(warnings, w...)

			m := fumen.Measure{
				BPM: float32(src.BPM), OffsetStart: float32(src.StartMS),
				Gogo: src.Gogo, Barline: src.Barline,
			}
			if src.Section {
				m.Padding1 |= sectionFlagBit
				for j := range branchInfo {
					branchInfo[j] = -1
				}
			}
			m.Branches[branchKeys[bi]] = fumen.Branch{Speed: float32(src.Scroll), Notes: notes}

			if first {
				shared = m
				first = false
			} else {
				shared.Branches[branchKeys[bi]] = m.Branches[branchKeys[bi]]
			}
		}

		shared.BranchInfo = branchInfo
		measures[i] = shared
	}

	fc.Measures = measures
	return fc, warnings, nil
}

func translateNotes(m compile.Measure, opts cliopts.Options, cursor *balloonCursor) ([]fumen.Note, []errs.ConvertWarning) {
	var notes []fumen.Note
	var warnings []errs.ConvertWarning

	for _, cn := range m.Notes {
		typeID, ok, downgraded := symbolTypeID(cn.Symbol, cn.Senote, opts.DowngradeUnknownNotes)
		if !ok {
			if downgraded {
				warnings = append(warnings, errs.NewWarning(errs.WarnUnknownCommand, "", 0,
					"unknown simulator note %q dropped", cn.Symbol))
			}
			continue
		}
		if downgraded {
			warnings = append(warnings, errs.NewWarning(errs.WarnDowngradedNote, "", 0,
				"note %q downgraded to nearest supported type", cn.Symbol))
		}

		n := fumen.Note{TypeID: typeID, PosMS: float32(cn.PosMS - m.StartMS)}
		switch {
		case fumen.IsBalloonOrKusudama(typeID):
			itemID, hitCount, padded := cursor.take()
			n.ItemID = itemID
			n.DurationMS = float32(hitCount)
			if padded {
				warnings = append(warnings, errs.NewWarning(errs.WarnBalloonCountPadded, "", 0,
					"balloon count list exhausted at item_id %d, padded with %d hits", itemID, hitCount))
			}
		case fumen.HasDuration(typeID):
			if cn.EndMS != nil {
				n.DurationMS = float32(*cn.EndMS - cn.PosMS)
			}
		}
		notes = append(notes, n)
	}
	return notes, warnings
}

func clampU16(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}
