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

package tja

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tjatools/tja2fumen/textdecode"
)

func parseText(t *testing.T, text string) (*Song, error) {
	t.Helper()
	song, _, err := Parse(textdecode.Lines(text))
	return song, err
}

func TestParseMinimalSong(t *testing.T) {
	song, err := parseText(t, "BPM:120\nOFFSET:0\nCOURSE:Oni\n#START\n1010,\n#END\n")
	assert.NoError(t, err)
	assert.Equal(t, 120.0, song.BPM)
	course, ok := song.Courses[CourseKey{Difficulty: Oni}]
	assert.True(t, ok)
	assert.Len(t, course.Measures, 1)
	assert.Equal(t, []rune("1010"), course.Measures[0].Notes)
}

func TestParseMissingBPMFails(t *testing.T) {
	_, err := parseText(t, "OFFSET:0\nCOURSE:Oni\n#START\n1010,\n#END\n")
	assert.Error(t, err)
}

func TestParseNestedStartFails(t *testing.T) {
	_, err := parseText(t, "BPM:120\nOFFSET:0\nCOURSE:Oni\n#START\n#START\n1010,\n#END\n#END\n")
	assert.Error(t, err)
}

func TestParseUnmatchedBranchEndFails(t *testing.T) {
	_, err := parseText(t, "BPM:120\nOFFSET:0\nCOURSE:Oni\n#START\n#BRANCHEND\n1010,\n#END\n")
	assert.Error(t, err)
}

func TestParseDuplicatedCourseFails(t *testing.T) {
	_, err := parseText(t, "BPM:120\nOFFSET:0\nCOURSE:Oni\n#START\n1010,\n#END\nCOURSE:Oni\n#START\n2020,\n#END\n")
	assert.Error(t, err)
}

func TestParseDoubleStyleTwoPlayers(t *testing.T) {
	song, err := parseText(t,
		"BPM:120\nOFFSET:0\nCOURSE:Oni\nSTYLE:Double\n#START P1\n1010,\n#END\n#START P2\n2020,\n#END\n")
	assert.NoError(t, err)
	assert.Len(t, song.Courses, 2)
	_, hasP1 := song.Courses[CourseKey{Difficulty: Oni, Style: Double, Player: PlayerP1}]
	_, hasP2 := song.Courses[CourseKey{Difficulty: Oni, Style: Double, Player: PlayerP2}]
	assert.True(t, hasP1)
	assert.True(t, hasP2)
}

func TestParseInlineCommandPosition(t *testing.T) {
	song, err := parseText(t, "BPM:120\nOFFSET:0\nCOURSE:Oni\n#START\n10\n#BPMCHANGE 240\n10,\n#END\n")
	assert.NoError(t, err)
	course := song.Courses[CourseKey{Difficulty: Oni}]
	assert.Len(t, course.Measures, 1)
	m := course.Measures[0]
	assert.Equal(t, []rune("1010"), m.Notes)
	assert.Len(t, m.Events, 1)
	assert.Equal(t, 2, m.Events[0].Pos)
	assert.Equal(t, 240.0, m.Events[0].Float)
}

func TestParseEmptyMeasureIsKept(t *testing.T) {
	song, err := parseText(t, "BPM:120\nOFFSET:0\nCOURSE:Oni\n#START\n,\n1010,\n#END\n")
	assert.NoError(t, err)
	course := song.Courses[CourseKey{Difficulty: Oni}]
	assert.Len(t, course.Measures, 2)
	assert.Empty(t, course.Measures[0].Notes)
}

func TestParseBranching(t *testing.T) {
	text := "BPM:120\nOFFSET:0\nCOURSE:Oni\n#START\n" +
		"1010,\n#BRANCHSTART p,50,80\n#N\n1111,\n#E\n2222,\n#M\n3333,\n#BRANCHEND\n#END\n"
	song, err := parseText(t, text)
	assert.NoError(t, err)
	course := song.Courses[CourseKey{Difficulty: Oni}]
	// measure0 (plain), measures 1-3 (the N/E/M notes; #BRANCHSTART and #N
	// attach at position 0 of measure 1), measure4 (only the #BRANCHEND event)
	assert.True(t, len(course.Measures) >= 4)
}
