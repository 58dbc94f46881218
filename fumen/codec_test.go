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
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCourse() *Course {
	c := &Course{Header: NewHeader(), ScoreInit: 100, ScoreDiff: 50}
	c.Header.Difficulty = 3
	c.Header.Style = 0
	m := Measure{BPM: 120, OffsetStart: 0, Gogo: false, Barline: true}
	m.Branches[BranchNormal] = Branch{Speed: 1.0, Notes: []Note{
		{TypeID: TypeDon, PosMS: 0},
		{TypeID: TypeKa, PosMS: 1000},
	}}
	m.Branches[BranchAdvanced] = m.Branches[BranchNormal]
	m.Branches[BranchMaster] = m.Branches[BranchNormal]
	c.Measures = []Measure{m}
	return c
}

func TestDetectByteOrderLittleEndian(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleCourse()))
	order, err := DetectByteOrder(buf.Bytes())
	assert.NoError(t, err)
	assert.Equal(t, binary.LittleEndian, order)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	orig := sampleCourse()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, orig))

	decoded, order, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, binary.LittleEndian, order)
	assert.Len(t, decoded.Measures, 1)
	assert.Equal(t, float32(120), decoded.Measures[0].BPM)
	assert.Len(t, decoded.Measures[0].Branches[BranchNormal].Notes, 2)
	assert.Equal(t, TypeKa, decoded.Measures[0].Branches[BranchNormal].Notes[1].TypeID)

	var buf2 bytes.Buffer
	require.NoError(t, Encode(&buf2, decoded))
	assert.Equal(t, buf.Bytes(), buf2.Bytes())
}

func TestDecodeDrumrollDuration(t *testing.T) {
	c := sampleCourse()
	c.Measures[0].Branches[BranchNormal].Notes = []Note{
		{TypeID: TypeRoll, PosMS: 0, DurationMS: 500},
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, c))
	decoded, _, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, float32(500), decoded.Measures[0].Branches[BranchNormal].Notes[0].DurationMS)
}

func TestDecodeTruncatedFileFails(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleCourse()))
	truncated := buf.Bytes()[:buf.Len()-10]
	_, _, err := Decode(truncated)
	assert.Error(t, err)
}

func TestDecodeUnknownTypeIDFails(t *testing.T) {
	c := sampleCourse()
	c.Measures[0].Branches[BranchNormal].Notes = []Note{
		{TypeID: 0xC, PosMS: 0},
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, c))
	_, _, err := Decode(buf.Bytes())
	assert.Error(t, err)
}

func TestEncodeDecodePreservesMeasureCountAndHeadroom(t *testing.T) {
	c := sampleCourse()
	c.Headroom1 = 7
	c.Headroom2 = 42
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, c))
	decoded, _, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint16(7), decoded.Headroom1)
	assert.Equal(t, uint16(42), decoded.Headroom2)
	assert.Len(t, decoded.Measures, 1)
}

func TestHasDuration(t *testing.T) {
	assert.True(t, HasDuration(TypeRoll))
	assert.True(t, HasDuration(TypeBigRoll))
	assert.True(t, HasDuration(TypeBalloon))
	assert.True(t, HasDuration(TypeKusudama))
	assert.False(t, HasDuration(TypeDon))
	assert.False(t, HasDuration(TypeHandLeft))
}
