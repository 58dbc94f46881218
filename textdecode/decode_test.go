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

package textdecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodePlainUTF8(t *testing.T) {
	text, enc, err := Decode([]byte("BPM:120\nCOURSE:Oni\n"))
	assert.NoError(t, err)
	assert.Equal(t, UTF8, enc)
	assert.Equal(t, "BPM:120\nCOURSE:Oni\n", text)
}

func TestDecodeUTF8BOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("BPM:120\n")...)
	text, enc, err := Decode(raw)
	assert.NoError(t, err)
	assert.Equal(t, UTF8BOM, enc)
	assert.Equal(t, "BPM:120\n", text)
}

func TestDecodeShiftJIS(t *testing.T) {
	// "オニ" (Oni, katakana) encoded as Shift-JIS.
	sjis := []byte{0x83, 0x49, 0x83, 0x6A}
	text, enc, err := Decode(sjis)
	assert.NoError(t, err)
	assert.Equal(t, ShiftJIS, enc)
	assert.Equal(t, "オニ", text)
}

func TestLinesStripsCommentsAndBlanks(t *testing.T) {
	in := "BPM:120  \n// a comment\n\nCOURSE:Oni // trailing\n1010,\\\n2020,\n"
	lines := Lines(in)
	assert.Equal(t, []string{"BPM:120", "COURSE:Oni", "1010,\\", "2020,"}, lines)
}

func TestLinesHandlesCRLF(t *testing.T) {
	lines := Lines("BPM:120\r\nCOURSE:Oni\r\n")
	assert.Equal(t, []string{"BPM:120", "COURSE:Oni"}, lines)
}
