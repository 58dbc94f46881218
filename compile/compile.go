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

// Package compile implements component C: it walks a tja.Course's
// linear measure stream, resolves state-command fallthrough (tempo,
// scroll, gogo, barline, time signature, delay) into absolute
// millisecond timestamps, and splits the result into the three fumen
// branches (N/E/M).
package compile

import (
	"golang.org/x/exp/slices"

	"github.com/tjatools/tja2fumen/errs"
	"github.com/tjatools/tja2fumen/tja"
)

// ForkCondition is attached to the compiled measure immediately
// preceding a #BRANCHSTART - see spec section 4.C, "Every #BRANCHSTART
// marks a fork boundary".
type ForkCondition struct {
	Kind         string // "r" (rolls), "p" (accuracy percent), "s" (score)
	AdvThreshold int
	MasThreshold int
}

// Note is one playable event within a compiled measure, timestamped in
// absolute song milliseconds.
type Note struct {
	PosMS  float64
	Symbol rune
	Senote int

	// EndMS is set only for roll/balloon/kusudama openers ('5','6','7',
	// '9') once their paired '8' (or song end) is found.
	EndMS *float64
}

// Measure is one bar of a compiled course: the tempo/scroll/gogo/
// barline/time-signature state in effect at its start, its absolute
// span, and its notes.
type Measure struct {
	BPM                    float64
	Scroll                 float64
	Gogo                   bool
	Barline                bool
	TimeSigNum, TimeSigDen int
	Subdivisions           int
	StartMS, EndMS         float64
	Notes                  []Note
	Senote                 int

	Fork      *ForkCondition
	Section   bool
	LevelHold bool
}

// Course is a fully compiled chart: three equal-length branch measure
// lists (N always populated; E/M clone N wherever the source TJA
// didn't diverge).
type Course struct {
	Course    tja.Difficulty
	Level     int
	Balloons  []int
	ScoreInit int
	ScoreDiff int
	Style     tja.Style
	Player    tja.Player
	Branches  map[string][]Measure
}

type tempoState struct {
	bpm          float64
	scroll       float64
	gogo         bool
	barline      bool
	num, den     int
	senote       int
	clockMs      float64
}

func (s tempoState) clone() *tempoState {
	c := s
	return &c
}

type rollTracker struct {
	open     []*Note
	lastNote *Note
}

func (rt *rollTracker) push(n *Note) {
	rt.open = append(rt.open, n)
}

// closeTop pairs the most recently opened roll with an end timestamp,
// returning false if nothing was open.
func (rt *rollTracker) closeTop(atMs float64) bool {
	if len(rt.open) == 0 {
		return false
	}
	n := rt.open[len(rt.open)-1]
	rt.open = rt.open[:len(rt.open)-1]
	end := atMs
	n.EndMS = &end
	return true
}

// closeAll force-closes any still-open rolls (branch fork, song end),
// returning how many were closed.
func (rt *rollTracker) closeAll(atMs float64) int {
	n := 0
	for rt.closeTop(atMs) {
		n++
	}
	return n
}

func measureDurationMs(num, den int, bpm float64) float64 {
	if bpm == 0 {
		return 0
	}
	return 4 * (float64(num) / float64(den)) * 60000.0 / bpm
}

const (
	symRest     = '0'
	symRoll     = '5'
	symBigRoll  = '6'
	symBalloon  = '7'
	symRollEnd  = '8'
	symKusudama = '9'
)

func isRollOpener(r rune) bool {
	return r == symRoll || r == symBigRoll || r == symBalloon || r == symKusudama
}

// Compile resolves one course's linear measure stream into timed,
// branched measures.
func Compile(song *tja.Song, course *tja.Course) (*Course, []errs.ConvertWarning, error) {
	var warnings []errs.ConvertWarning

	shared := &tempoState{
		bpm: song.BPM, scroll: 1.0, barline: true, num: 4, den: 4,
		clockMs: -song.OffsetSeconds * 1000,
	}
	sharedRT := &rollTracker{}

	branchStates := map[string]*tempoState{}
	branchRT := map[string]*rollTracker{}
	lists := map[string][]Measure{"N": nil, "E": nil, "M": nil}

	inBranch := false
	activeBranch := "N"

	for _, m := range course.Measures {
		for _, ev := range m.Events {
			if ev.Kind != tja.EvBranchStart {
				continue
			}
			if closed := sharedRT.closeAll(shared.clockMs); closed > 0 {
				warnings = append(warnings, errs.NewWarning(
					errs.WarnRollSplitAtBranchFork, course.Course.String(), len(lists["N"]),
					"drumroll open at a branch fork; terminated using the N-branch timeline"))
			}
			if n := len(lists["N"]); n > 0 {
				fc := &ForkCondition{Kind: ev.BranchKind, AdvThreshold: ev.AdvThreshold, MasThreshold: ev.MasThreshold}
				for _, k := range [...]string{"N", "E", "M"} {
					lists[k][len(lists[k])-1].Fork = fc
				}
			}
			inBranch = true
			activeBranch = "N"
			branchStates["N"] = shared.clone()
			branchStates["E"] = shared.clone()
			branchStates["M"] = shared.clone()
			branchRT["N"] = &rollTracker{}
			branchRT["E"] = &rollTracker{}
			branchRT["M"] = &rollTracker{}
		}
		for _, ev := range m.Events {
			switch ev.Kind {
			case tja.EvBranchN:
				activeBranch = "N"
			case tja.EvBranchE:
				activeBranch = "E"
			case tja.EvBranchM:
				activeBranch = "M"
			}
		}

		st, rt := shared, sharedRT
		if inBranch {
			st, rt = branchStates[activeBranch], branchRT[activeBranch]
		}

		cm, w := processMeasure(st, rt, m)
		warnings = append(warnings, w...)
		for _, ev := range m.Events {
			switch ev.Kind {
			case tja.EvSection:
				cm.Section = true
			case tja.EvLevelHold:
				cm.LevelHold = true
			}
		}

		if inBranch {
			lists[activeBranch] = append(lists[activeBranch], cm)
		} else {
			// E and M share N's Notes here, so a roll closed in a later
			// measure gets its EndMS in all three branches.
			lists["N"] = append(lists["N"], cm)
			lists["E"] = append(lists["E"], cm)
			lists["M"] = append(lists["M"], cm)
		}

		for _, ev := range m.Events {
			if ev.Kind != tja.EvBranchEnd {
				continue
			}
			shared = branchStates["N"]
			sharedRT = branchRT["N"]
			inBranch = false
			activeBranch = "N"
			padBranchesEqual(lists)
		}
	}

	if inBranch {
		shared = branchStates[activeBranch]
		sharedRT = branchRT[activeBranch]
		padBranchesEqual(lists)
	}

	for _, k := range [...]string{"N", "E", "M"} {
		list := lists[k]
		if len(list) == 0 {
			continue
		}
		var rt *rollTracker
		if k == activeBranch && !inBranch {
			rt = sharedRT
		} else if br, ok := branchRT[k]; ok {
			rt = br
		} else {
			rt = sharedRT
		}
		if closed := rt.closeAll(list[len(list)-1].EndMS); closed > 0 {
			warnings = append(warnings, errs.NewWarning(
				errs.WarnUnterminatedDrumroll, course.Course.String(), len(list)-1,
				"drumroll still open at end of course; terminated at song end"))
		}
	}
	padBranchesEqual(lists)

	_ = shared
	return &Course{
		Course:    course.Course,
		Level:     course.Level,
		Balloons:  course.Balloons,
		ScoreInit: course.ScoreInit,
		ScoreDiff: course.ScoreDiff,
		Style:     course.Style,
		Player:    course.Player,
		Branches:  lists,
	}, warnings, nil
}

// processMeasure applies one raw measure's inline commands to state,
// producing its compiled, timestamped form. Events exactly at position
// 0 apply before the measure's own properties are captured; events at
// position == len(notes) apply only after, carrying into later
// measures.
func processMeasure(state *tempoState, rt *rollTracker, m tja.Measure) (Measure, []errs.ConvertWarning) {
	var warnings []errs.ConvertWarning

	eventsByPos := make(map[int][]tja.Event)
	var delayMs float64
	for _, ev := range m.Events {
		if ev.Kind == tja.EvDelay {
			delayMs += ev.Float * 1000
			continue
		}
		eventsByPos[ev.Pos] = append(eventsByPos[ev.Pos], ev)
	}
	if delayMs < 0 {
		delayMs = 0
	}

	applyTempoEvents(state, eventsByPos[0])

	cm := Measure{
		BPM: state.bpm, Scroll: state.scroll, Gogo: state.gogo, Barline: state.barline,
		TimeSigNum: state.num, TimeSigDen: state.den, Subdivisions: len(m.Notes),
		StartMS: state.clockMs + delayMs, Senote: state.senote,
	}

	n := len(m.Notes)
	if n == 0 {
		cm.EndMS = cm.StartMS + measureDurationMs(state.num, state.den, state.bpm)
		state.clockMs = cm.EndMS
		return cm, warnings
	}

	// Full capacity up front: rt keeps pointers into cm.Notes, which a
	// reallocating append would leave pointing at a stale copy.
	cm.Notes = make([]Note, 0, n)
	clock := cm.StartMS
	for k := 0; k < n; k++ {
		if k > 0 {
			applyTempoEvents(state, eventsByPos[k])
		}
		interval := measureDurationMs(state.num, state.den, state.bpm) / float64(n)
		sym := m.Notes[k]
		switch {
		case sym == symRest:
			// no note emitted
		case sym == symRollEnd:
			rt.closeTop(clock)
		case sym == symKusudama && rt.lastNote != nil && rt.lastNote.Symbol == symKusudama && rt.lastNote.EndMS == nil:
			// A second kusudama opener immediately following an
			// already-open one (no intervening note) collapses into
			// the single open kusudama - see spec's drumroll-pairing
			// design note.
		default:
			note := Note{PosMS: clock, Symbol: sym, Senote: state.senote}
			cm.Notes = append(cm.Notes, note)
			last := &cm.Notes[len(cm.Notes)-1]
			rt.lastNote = last
			if isRollOpener(sym) {
				rt.push(last)
			}
		}
		clock += interval
	}
	cm.EndMS = clock
	state.clockMs = clock

	applyTempoEvents(state, eventsByPos[n])
	return cm, warnings
}

func applyTempoEvents(state *tempoState, events []tja.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case tja.EvBPMChange:
			state.bpm = ev.Float
		case tja.EvMeasure:
			state.num, state.den = ev.Num, ev.Den
		case tja.EvScroll:
			state.scroll = ev.Float
		case tja.EvGogoStart:
			state.gogo = true
		case tja.EvGogoEnd:
			state.gogo = false
		case tja.EvBarlineOff:
			state.barline = false
		case tja.EvBarlineOn:
			state.barline = true
		case tja.EvSenoteChange:
			state.senote = ev.SenoteVal
		}
	}
}

func cloneMeasure(m Measure) Measure {
	c := m
	c.Notes = slices.Clone(m.Notes)
	return c
}

// padBranchesEqual enforces the "equal length, padded by cloning from
// N" invariant: any branch shorter than the longest gets the missing
// tail measures cloned from N.
func padBranchesEqual(lists map[string][]Measure) {
	max := 0
	for _, k := range [...]string{"N", "E", "M"} {
		if l := len(lists[k]); l > max {
			max = l
		}
	}
	nList := lists["N"]
	for _, k := range [...]string{"N", "E", "M"} {
		for len(lists[k]) < max {
			idx := len(lists[k])
			var src Measure
			if idx < len(nList) {
				src = nList[idx]
			} else if len(nList) > 0 {
				src = nList[len(nList)-1]
			}
			lists[k] = append(lists[k], cloneMeasure(src))
		}
	}
}
