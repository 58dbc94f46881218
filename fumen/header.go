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

package fumen

import (
	"encoding/binary"
	"math"
)

// HeaderSize is the fixed size of a fumen header, in bytes.
const HeaderSize = 520

// timingWindowsSize covers 36 records of three floats (12 bytes) each
// (b000..b431); branchPointsSize covers the branch-point tables
// (b432..b507). Neither is interpreted or modified by this codec -
// they are opaque, preserved verbatim across a read/write cycle.
const (
	timingWindowRecordSize = 3 * 4
	timingWindowsSize      = 36 * timingWindowRecordSize
	branchPointsSize       = 76
	opaqueSize             = timingWindowsSize + branchPointsSize // 508
	tailPadSize            = 4
)

// orderProbeCount is the number of leading timing-window records whose
// first float carries the order-probe sentinel a real fumen file
// carries there, the same value DetectByteOrder looks for at offset 0
// (the file's first four bytes are the first record's first float).
const orderProbeCount = 8

// orderProbeValue is written little-endian at each probe offset so a
// freshly translated course's own bytes satisfy DetectByteOrder the
// same way a real fumen file's do.
const orderProbeValue = float32(1.0)

// Header is the 520-byte fumen header. Only the fields named in the
// format description are given typed accessors; everything else is
// kept as opaque bytes so an unmodified header round-trips exactly.
type Header struct {
	Opaque [opaqueSize]byte

	Difficulty uint8
	Stars      uint8
	ScoreInit  uint16
	ScoreDiff  uint16
	Style      uint8
	IsPapamama uint8

	TailPad [tailPadSize]byte
}

// NewHeader returns a header suitable for a freshly translated course
// (no source binary to preserve opaque bytes from), with the
// order-probe sentinel seeded at its fixed offsets so the file this
// codec writes round-trips through DetectByteOrder correctly.
func NewHeader() Header {
	var h Header
	bits := math.Float32bits(orderProbeValue)
	for i := 0; i < orderProbeCount; i++ {
		off := i * timingWindowRecordSize
		binary.LittleEndian.PutUint32(h.Opaque[off:off+4], bits)
	}
	return h
}
