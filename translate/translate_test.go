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

package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tjatools/tja2fumen/cliopts"
	"github.com/tjatools/tja2fumen/errs"
	"github.com/tjatools/tja2fumen/fumen"
	"github.com/tjatools/tja2fumen/textdecode"
	"github.com/tjatools/tja2fumen/tja"
)

func translateText(t *testing.T, text string) (*fumen.Course, []error) {
	t.Helper()
	song, _, err := tja.Parse(textdecode.Lines(text))
	require.NoError(t, err)
	courses, warnings, err := Translate(song, cliopts.Default())
	require.NoError(t, err)
	errsOut := make([]error, len(warnings))
	for i, w := range warnings {
		errsOut[i] = w
	}
	return courses[tja.CourseKey{Difficulty: tja.Oni}], errsOut
}

func TestTranslateMinimalSong(t *testing.T) {
	fc, _ := translateText(t, "BPM:120\nOFFSET:0\nCOURSE:Oni\n#START\n1010,\n#END\n")
	require.Len(t, fc.Measures, 1)
	m := fc.Measures[0]
	assert.Equal(t, float32(120), m.BPM)
	notes := m.Branches[fumen.BranchNormal].Notes
	require.Len(t, notes, 2)
	assert.Equal(t, fumen.TypeDon, notes[0].TypeID)
	assert.Equal(t, float32(0), notes[0].PosMS)
	assert.Equal(t, float32(1000), notes[1].PosMS)
}

func TestTranslateBalloonItemIDsAdvance(t *testing.T) {
	fc, _ := translateText(t, "BPM:120\nOFFSET:0\nCOURSE:Oni\nBALLOON:5,8\n#START\n7008,\n7008,\n#END\n")
	require.Len(t, fc.Measures, 2)
	first := fc.Measures[0].Branches[fumen.BranchNormal].Notes[0]
	second := fc.Measures[1].Branches[fumen.BranchNormal].Notes[0]
	assert.Equal(t, uint32(0), first.ItemID)
	assert.Equal(t, uint32(1), second.ItemID)
	assert.Equal(t, float32(5), first.DurationMS)
	assert.Equal(t, float32(8), second.DurationMS)
}

func TestTranslateBalloonCountListPaddedWhenShort(t *testing.T) {
	fc, warnings := translateText(t, "BPM:120\nOFFSET:0\nCOURSE:Oni\nBALLOON:5\n#START\n7008,\n7008,\n#END\n")
	notes := []fumen.Note{
		fc.Measures[0].Branches[fumen.BranchNormal].Notes[0],
		fc.Measures[1].Branches[fumen.BranchNormal].Notes[0],
	}
	assert.Equal(t, float32(5), notes[0].DurationMS)
	assert.Equal(t, float32(5), notes[1].DurationMS)
	found := false
	for _, w := range warnings {
		if cw, ok := w.(errs.ConvertWarning); ok && cw.Kind == errs.WarnBalloonCountPadded {
			found = true
		}
	}
	assert.True(t, found, "expected a balloon-count-padded warning")
}

func TestTranslateForkConditionOnPrecedingMeasure(t *testing.T) {
	text := "BPM:120\nOFFSET:0\nCOURSE:Oni\n#START\n" +
		"1010,\n#BRANCHSTART p,50,80\n#N\n1111,\n#E\n2222,\n#M\n3333,\n#BRANCHEND\n#END\n"
	fc, _ := translateText(t, text)
	require.NotEmpty(t, fc.Measures)
	assert.Equal(t, int32(200), fc.Measures[0].BranchInfo[0])
	assert.Equal(t, int32(320), fc.Measures[0].BranchInfo[1])
}

func TestTranslateDowngradesUnknownSimulatorNote(t *testing.T) {
	fc, warnings := translateText(t, "BPM:120\nOFFSET:0\nCOURSE:Oni\n#START\nC000,\n#END\n")
	notes := fc.Measures[0].Branches[fumen.BranchNormal].Notes
	require.Len(t, notes, 1)
	assert.Equal(t, fumen.TypeDon, notes[0].TypeID)
	assert.NotEmpty(t, warnings)
}

func TestTranslateDoubleStyleHeaderFlag(t *testing.T) {
	song, _, err := tja.Parse(textdecode.Lines(
		"BPM:120\nOFFSET:0\nCOURSE:Oni\nSTYLE:Double\n#START P1\n1010,\n#END\n#START P2\n2020,\n#END\n"))
	require.NoError(t, err)
	courses, _, err := Translate(song, cliopts.Default())
	require.NoError(t, err)
	p1 := courses[tja.CourseKey{Difficulty: tja.Oni, Style: tja.Double, Player: tja.PlayerP1}]
	p2 := courses[tja.CourseKey{Difficulty: tja.Oni, Style: tja.Double, Player: tja.PlayerP2}]
	assert.Equal(t, uint8(1), p1.Header.Style)
	assert.Equal(t, uint8(1), p2.Header.Style)
}
