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

// Package textdecode implements component A of the pipeline: decoding
// a raw .tja file into clean text and splitting it into logical lines.
// TJA files in the wild are UTF-8 with a BOM, plain UTF-8, or legacy
// Shift-JIS, and nothing in the file announces which.
package textdecode

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Encoding names the decoder that produced a clean result, surfaced as
// a diagnostic per the "Design notes" section of the spec.
type Encoding string

const (
	UTF8BOM   Encoding = "utf-8-bom"
	UTF8      Encoding = "utf-8"
	ShiftJIS  Encoding = "shift-jis"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode attempts, in order, UTF-8 with BOM, UTF-8 without BOM and
// Shift-JIS, returning the text produced by the first decoder whose
// output contains no replacement character (U+FFFD). When both UTF-8
// and Shift-JIS would produce a clean decoding, UTF-8 wins - TJA is
// overwhelmingly UTF-8 today and Shift-JIS bytes only rarely happen to
// also be valid UTF-8.
func Decode(raw []byte) (string, Encoding, error) {
	if bytes.HasPrefix(raw, utf8BOM) {
		body := raw[len(utf8BOM):]
		if s := string(body); utf8.ValidString(s) && !strings.ContainsRune(s, utf8.RuneError) {
			return s, UTF8BOM, nil
		}
	}

	if s := string(raw); utf8.ValidString(s) && !strings.ContainsRune(s, utf8.RuneError) {
		return s, UTF8, nil
	}

	decoded, _, err := transform.String(japanese.ShiftJIS.NewDecoder(), string(raw))
	if err == nil && !strings.ContainsRune(decoded, utf8.RuneError) {
		return decoded, ShiftJIS, nil
	}

	return "", "", &DecodeError{Tried: []string{string(UTF8BOM), string(UTF8), string(ShiftJIS)}}
}

// DecodeError reports that no candidate decoder produced a clean
// decoding of the input. It is the textdecode-local cause wrapped by
// errs.EncodingError at the façade boundary.
type DecodeError struct {
	Tried []string
}

func (e *DecodeError) Error() string {
	return "no decoder produced a clean decoding (tried " + strings.Join(e.Tried, ", ") + ")"
}

// Lines splits decoded text into logical lines: split on \n or \r\n,
// inline // comments stripped to end of line, blank lines discarded,
// leading/trailing whitespace trimmed. Lines ending in a backslash are
// NOT continued - TJA has no line-continuation escape.
func Lines(text string) []string {
	rawLines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(rawLines))
	for _, l := range rawLines {
		if idx := strings.Index(l, "//"); idx >= 0 {
			l = l[:idx]
		}
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}
