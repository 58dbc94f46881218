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

package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tjatools/tja2fumen/textdecode"
	"github.com/tjatools/tja2fumen/tja"
)

func compileText(t *testing.T, text string) (*Course, []error, error) {
	t.Helper()
	song, _, err := tja.Parse(textdecode.Lines(text))
	if err != nil {
		return nil, nil, err
	}
	course := song.Courses[tja.CourseKey{Difficulty: tja.Oni}]
	cc, warnings, err := Compile(song, course)
	errsOut := make([]error, len(warnings))
	for i, w := range warnings {
		errsOut[i] = w
	}
	return cc, errsOut, err
}

func TestCompileSimpleMeasureTiming(t *testing.T) {
	cc, _, err := compileText(t, "BPM:120\nOFFSET:0\nCOURSE:Oni\n#START\n1010,\n#END\n")
	assert.NoError(t, err)
	n := cc.Branches["N"]
	assert.Len(t, n, 1)
	assert.Equal(t, 0.0, n[0].StartMS)
	assert.Equal(t, 2000.0, n[0].EndMS)
	assert.Len(t, n[0].Notes, 2)
	assert.Equal(t, 0.0, n[0].Notes[0].PosMS)
	assert.Equal(t, 1000.0, n[0].Notes[1].PosMS)
}

func TestCompileMidMeasureBPMChange(t *testing.T) {
	cc, _, err := compileText(t, "BPM:120\nOFFSET:0\nCOURSE:Oni\n#START\n10\n#BPMCHANGE 240\n10,\n#END\n")
	assert.NoError(t, err)
	n := cc.Branches["N"]
	assert.Len(t, n, 1)
	assert.Equal(t, 1500.0, n[0].EndMS-n[0].StartMS)
}

func TestCompileOffsetShiftsFirstMeasure(t *testing.T) {
	cc, _, err := compileText(t, "BPM:120\nOFFSET:2\nCOURSE:Oni\n#START\n1010,\n#END\n")
	assert.NoError(t, err)
	n := cc.Branches["N"]
	assert.Equal(t, -2000.0, n[0].StartMS)
}

func TestCompileDrumrollPairing(t *testing.T) {
	cc, _, err := compileText(t, "BPM:120\nOFFSET:0\nCOURSE:Oni\n#START\n5000,\n0008,\n#END\n")
	assert.NoError(t, err)
	n := cc.Branches["N"]
	assert.Len(t, n, 2)
	assert.Len(t, n[0].Notes, 1)
	assert.NotNil(t, n[0].Notes[0].EndMS)
}

func TestCompileUnterminatedDrumrollWarns(t *testing.T) {
	_, warnings, err := compileText(t, "BPM:120\nOFFSET:0\nCOURSE:Oni\n#START\n5000,\n#END\n")
	assert.NoError(t, err)
	assert.NotEmpty(t, warnings)
}

func TestCompileBranchesEqualLength(t *testing.T) {
	text := "BPM:120\nOFFSET:0\nCOURSE:Oni\n#START\n" +
		"1010,\n#BRANCHSTART p,50,80\n#N\n1111,\n#E\n2222,\n#M\n3333,\n#BRANCHEND\n#END\n"
	cc, _, err := compileText(t, text)
	assert.NoError(t, err)
	assert.Equal(t, len(cc.Branches["N"]), len(cc.Branches["E"]))
	assert.Equal(t, len(cc.Branches["N"]), len(cc.Branches["M"]))
}

func TestCompileForkConditionOnPrecedingMeasure(t *testing.T) {
	text := "BPM:120\nOFFSET:0\nCOURSE:Oni\n#START\n" +
		"1010,\n#BRANCHSTART p,50,80\n#N\n1111,\n#E\n2222,\n#M\n3333,\n#BRANCHEND\n#END\n"
	cc, _, err := compileText(t, text)
	assert.NoError(t, err)
	n := cc.Branches["N"]
	assert.NotNil(t, n[0].Fork)
	assert.Equal(t, "p", n[0].Fork.Kind)
	assert.Equal(t, 50, n[0].Fork.AdvThreshold)
	assert.Equal(t, 80, n[0].Fork.MasThreshold)
}

func TestCompileEmptyMeasureAdvancesClock(t *testing.T) {
	cc, _, err := compileText(t, "BPM:120\nOFFSET:0\nCOURSE:Oni\n#START\n,\n1010,\n#END\n")
	assert.NoError(t, err)
	n := cc.Branches["N"]
	assert.Len(t, n, 2)
	assert.Equal(t, 0.0, n[0].StartMS)
	assert.Equal(t, 2000.0, n[0].EndMS)
	assert.Equal(t, 2000.0, n[1].StartMS)
}
