// Copyright 2025 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2025 Charles University, Faculty of Arts,
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

// lineCursor walks the already-decoded, already-cleaned lines produced
// by textdecode.Lines one at a time, tracking the 1-based source line
// number for error messages. It plays the same role the teacher's
// MultiFileScanner plays for vert-tagextract's line-oriented scan, cut
// down to a single in-memory slice since component A has already done
// the file/encoding work by the time the parser sees anything.
type lineCursor struct {
	lines []string
	pos   int // index of the line last returned by Scan, -1 before first Scan
}

func newLineCursor(lines []string) *lineCursor {
	return &lineCursor{lines: lines, pos: -1}
}

// Scan advances to the next line, returning false once exhausted.
func (c *lineCursor) Scan() bool {
	if c.pos+1 >= len(c.lines) {
		return false
	}
	c.pos++
	return true
}

// Text returns the current line.
func (c *lineCursor) Text() string {
	if c.pos < 0 || c.pos >= len(c.lines) {
		return ""
	}
	return c.lines[c.pos]
}

// LineNo returns the 1-based line number of the current line, for use
// in ParseError messages.
func (c *lineCursor) LineNo() int {
	return c.pos + 1
}
