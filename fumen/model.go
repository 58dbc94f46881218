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

// Package fumen implements component D: the in-memory model of the
// proprietary binary fumen chart format and a bit-exact reader/writer
// for it.
package fumen

import "golang.org/x/exp/slices"

// Note type_id values, per the fixed symbol table.
const (
	TypeDon       uint16 = 1
	TypeKa        uint16 = 2
	TypeBigDon    uint16 = 3
	TypeBigKa     uint16 = 4
	TypeRoll      uint16 = 5
	TypeBigRoll   uint16 = 6
	TypeBalloon   uint16 = 7
	TypeRollEnd   uint16 = 8
	TypeKusudama  uint16 = 9
	TypeHandLeft  uint16 = 0xA
	TypeHandRight uint16 = 0xB
	TypeAdlib     uint16 = 0xF
)

// senoteOffset is added to a base type_id to produce its SENOTE
// variant. The exact encoding of SENOTE-flagged notes is not pinned
// down by any surviving reference; this mirrors the scheme used by
// other open fumen tooling (a flat +0x10 offset) - see DESIGN.md.
const senoteOffset = 0x10

// WithSenote returns the type_id to use for a note carrying the given
// non-zero SENOTE value.
func WithSenote(base uint16, senote int) uint16 {
	if senote == 0 {
		return base
	}
	return base + senoteOffset*uint16(senote)
}

// HasDuration reports whether type_id carries a trailing duration_ms
// field: drumroll, big-drumroll, balloon (covers "big-balloon" too -
// the TJA symbol distinguishes them, not the fumen type_id) and
// kusudama, including their SENOTE variants.
func HasDuration(typeID uint16) bool {
	base := typeID
	if base >= senoteOffset {
		base = base % senoteOffset
	}
	return slices.Contains([]uint16{TypeRoll, TypeBigRoll, TypeBalloon, TypeKusudama}, base)
}

// IsBalloonOrKusudama reports whether type_id (any SENOTE variant)
// carries a required hit count in its duration_ms field, rather than a
// millisecond duration.
func IsBalloonOrKusudama(typeID uint16) bool {
	base := typeID
	if base >= senoteOffset {
		base = base % senoteOffset
	}
	return slices.Contains([]uint16{TypeBalloon, TypeKusudama}, base)
}

// Note is one playable event within a branch.
type Note struct {
	TypeID     uint16
	PosMS      float32 // relative to the measure's offset_start
	ItemID     uint32  // balloon index, or 0
	ScoreInit  uint16
	ScoreDiff  uint16
	DurationMS float32 // only meaningful when HasDuration(TypeID)
}

// Branch is one of a measure's three note lanes.
type Branch struct {
	Speed float32 // TJA #SCROLL value in effect
	Notes []Note
}

// Branch indices into Measure.Branches, in fumen's fixed order.
const (
	BranchNormal = iota
	BranchAdvanced
	BranchMaster
)

// Measure is one bar of a fumen course.
type Measure struct {
	BPM         float32
	OffsetStart float32 // ms from song start
	OffsetEnd   float32 // derived on read, not persisted
	Duration    float32 // derived on read, not persisted
	Gogo        bool
	Barline     bool
	BranchInfo  [6]int32
	Branches    [3]Branch
	Padding1    uint16
	Padding2    uint32
}

// Course is one playable chart, exclusively owning its measures,
// branches and notes.
type Course struct {
	Header    Header
	ScoreInit int32
	ScoreDiff int32

	// Headroom1/Headroom2 are the two u16 fields immediately following
	// measure_count in the on-disk layout. Neither is interpreted by
	// this codec; they are preserved verbatim across a read/write
	// cycle, the same way Header.Opaque is.
	Headroom1 uint16
	Headroom2 uint16

	Measures []Measure
}
