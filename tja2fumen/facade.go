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

// Package tja2fumen is component F: the public façade over A-E. It is
// a thin, synchronous wrapper - no goroutines, no channels - unlike
// the teacher's ExtractData, which streams proc.Status over a channel
// because a vertical-file import is long-running and multi-file. A
// single chart conversion finishes fast enough, and simply enough,
// that a channel would only add ceremony; see spec section 5.
package tja2fumen

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/tjatools/tja2fumen/cliopts"
	"github.com/tjatools/tja2fumen/errs"
	"github.com/tjatools/tja2fumen/fumen"
	"github.com/tjatools/tja2fumen/textdecode"
	"github.com/tjatools/tja2fumen/tja"
	"github.com/tjatools/tja2fumen/translate"
)

// ParseTJA decodes and parses a .tja file into its AST, without
// compiling or translating it.
func ParseTJA(path string) (*tja.Song, []errs.ConvertWarning, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errs.NewIoError(path, err)
	}
	text, enc, err := textdecode.Decode(raw)
	if err != nil {
		if de, ok := err.(*textdecode.DecodeError); ok {
			return nil, nil, errs.NewEncodingError(path, de.Tried)
		}
		return nil, nil, err
	}
	log.Debug().Str("path", path).Str("encoding", string(enc)).Msg("decoded tja source")
	return tja.Parse(textdecode.Lines(text))
}

// ParseFumen decodes a .bin fumen file. When excludeEmptyMeasures is
// set, measures whose every branch has zero notes are dropped from
// the result - useful for inspecting a file without its dummy padding
// measures.
func ParseFumen(path string, excludeEmptyMeasures bool) (*fumen.Course, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewIoError(path, err)
	}
	course, _, err := fumen.Decode(raw)
	if err != nil {
		return nil, err
	}
	if excludeEmptyMeasures {
		course.Measures = filterEmptyMeasures(course.Measures)
	}
	return course, nil
}

func filterEmptyMeasures(measures []fumen.Measure) []fumen.Measure {
	out := measures[:0]
	for _, m := range measures {
		empty := true
		for _, b := range m.Branches {
			if len(b.Notes) > 0 {
				empty = false
				break
			}
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}

// ConvertTJAToFumen compiles and translates every course of a parsed
// song into its fumen form, keyed the same way the TJA AST keys them.
func ConvertTJAToFumen(song *tja.Song, opts cliopts.Options) (map[tja.CourseKey]*fumen.Course, []errs.ConvertWarning, error) {
	return translate.Translate(song, opts)
}

// WriteFumen writes one course as a little-endian fumen binary.
func WriteFumen(path string, course *fumen.Course) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.NewIoError(path, err)
	}
	defer f.Close()
	if err := fumen.Encode(f, course); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("measures", len(course.Measures)).Msg("wrote fumen binary")
	return nil
}

// Result bundles one TJA-to-fumen conversion run for the CLI: the
// per-course binaries are already written to disk; Warnings
// accumulates every ConvertWarning raised across every course.
type Result struct {
	Courses  map[tja.CourseKey]*fumen.Course
	Warnings []errs.ConvertWarning
}

// ConvertFile runs the full pipeline for one input .tja file, writing
// a sibling .bin per course. A fatal error while parsing or translating
// aborts before anything is written; a write failure stops at that
// course, and courses already written stay on disk.
func ConvertFile(inputPath string, opts cliopts.Options, outputPathFor func(tja.CourseKey) string) (*Result, error) {
	song, warnings, err := ParseTJA(inputPath)
	if err != nil {
		return nil, err
	}
	courses, w2, err := ConvertTJAToFumen(song, opts)
	warnings = append(warnings, w2...)
	if err != nil {
		return nil, err
	}
	for key, course := range courses {
		if err := WriteFumen(outputPathFor(key), course); err != nil {
			return nil, err
		}
	}
	return &Result{Courses: courses, Warnings: warnings}, nil
}
