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

// Package tja implements component B of the conversion pipeline's
// text side: the TJA parser and the data types it
// produces (the TJA AST). The chart compiler that resolves these into
// timed, branched measures lives in package compile.
package tja

import "strings"

// Difficulty is the TJA COURSE value.
type Difficulty int

const (
	Easy Difficulty = iota
	Normal
	Hard
	Oni
	Ura
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Normal:
		return "Normal"
	case Hard:
		return "Hard"
	case Oni:
		return "Oni"
	case Ura:
		return "Ura"
	default:
		return "Unknown"
	}
}

// ParseDifficulty maps a COURSE value to a Difficulty. "Ura" and the
// common community alias "Edit" both map to Ura.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, true
	case "normal":
		return Normal, true
	case "hard":
		return Hard, true
	case "oni":
		return Oni, true
	case "ura", "edit":
		return Ura, true
	default:
		return 0, false
	}
}

// Style is the TJA STYLE value.
type Style int

const (
	Single Style = iota
	Double
)

// Player distinguishes the two charts of a Double-style course.
type Player int

const (
	PlayerNone Player = iota
	PlayerP1
	PlayerP2
)

func (p Player) String() string {
	switch p {
	case PlayerP1:
		return "P1"
	case PlayerP2:
		return "P2"
	default:
		return ""
	}
}

// CourseKey identifies one playable chart within a song: a difficulty,
// a style, and - for Double style - which player's chart this is.
type CourseKey struct {
	Difficulty Difficulty
	Style      Style
	Player     Player
}

// EventKind enumerates the inline #COMMAND directives the parser
// understands and turns into positioned events within a measure.
type EventKind int

const (
	EvBPMChange EventKind = iota
	EvMeasure
	EvScroll
	EvGogoStart
	EvGogoEnd
	EvBarlineOff
	EvBarlineOn
	EvDelay
	EvBranchStart
	EvBranchEnd
	EvBranchN
	EvBranchE
	EvBranchM
	EvSection
	EvLevelHold
	EvSenoteChange
)

// Event is one inline command, anchored to the 0-based sub-position
// within the measure where it was encountered. Pos == len(measure
// notes) means "end of measure, before the barline".
type Event struct {
	Pos  int
	Kind EventKind

	Float float64 // BPMChange/Scroll value, or Delay in seconds
	Num   int     // Measure time signature numerator
	Den   int     // Measure time signature denominator

	BranchKind   string // "r" (rolls), "p" (accuracy percent), "s" (score)
	AdvThreshold int
	MasThreshold int

	SenoteVal int
}

// Measure is a maximal run of note characters terminated by a comma,
// together with any inline commands encountered while scanning it.
type Measure struct {
	Notes  []rune
	Events []Event
}

// Course is one playable chart as parsed, before compilation: a linear
// measure stream with branch-switch events still embedded in it. See
// compile.Course for the post-compile, per-branch form.
type Course struct {
	Course    Difficulty
	Level     int
	Balloons  []int
	ScoreInit int
	ScoreDiff int
	Style     Style
	Player    Player
	Measures  []Measure
}

// Song is the full parse of one .tja file: the song-wide BPM/offset
// and every course/style/player combination found in it.
type Song struct {
	BPM           float64
	OffsetSeconds float64
	Courses       map[CourseKey]*Course
}
