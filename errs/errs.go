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

// Package errs holds the fatal error taxonomy shared by every stage of
// the conversion pipeline (text decoding, TJA parsing, fumen codec).
// Non-fatal issues are not errors at all - see ConvertWarning, which is
// collected rather than returned.
package errs

import "fmt"

// IoError wraps a failure to open, read or write a file.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("io error on %s: %s", e.Path, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// NewIoError builds an IoError, returning nil when err is nil so
// callers can write `return errs.NewIoError(path, err)` unconditionally.
func NewIoError(path string, err error) error {
	if err == nil {
		return nil
	}
	return &IoError{Path: path, Err: err}
}

// EncodingError means no candidate decoder (UTF-8 BOM, UTF-8, Shift-JIS)
// produced a clean decoding of the input.
type EncodingError struct {
	Path string
	Tried []string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("could not decode %s with any of: %v", e.Path, e.Tried)
}

// NewEncodingError builds an EncodingError from the decoders that were
// tried and failed, for the façade boundary to wrap textdecode's local
// DecodeError in the §7 taxonomy.
func NewEncodingError(path string, tried []string) error {
	return &EncodingError{Path: path, Tried: tried}
}

// ParseError reports malformed TJA source: a missing BPM/OFFSET, an
// unmatched #BRANCHEND, a non-numeric value where one was required, or
// a duplicated course/style key.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("parse error: %s", e.Msg)
}

func NewParseError(line int, format string, args ...any) error {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// FumenReadError reports a truncated binary, an impossible type_id or a
// measure/branch length that overruns the remaining file size.
type FumenReadError struct {
	Offset int
	Msg    string
}

func (e *FumenReadError) Error() string {
	return fmt.Sprintf("fumen read error at offset %d: %s", e.Offset, e.Msg)
}

func NewFumenReadError(offset int, format string, args ...any) error {
	return &FumenReadError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// WarningKind enumerates the non-fatal diagnostics a conversion can
// surface without aborting. See spec section "ConvertWarning".
type WarningKind int

const (
	WarnUnterminatedDrumroll WarningKind = iota
	WarnUnknownCommand
	WarnDowngradedNote
	WarnLevelClamped
	WarnBalloonCountPadded
	WarnRollSplitAtBranchFork
	WarnAmbiguousEncoding
)

func (k WarningKind) String() string {
	switch k {
	case WarnUnterminatedDrumroll:
		return "unterminated-drumroll"
	case WarnUnknownCommand:
		return "unknown-command"
	case WarnDowngradedNote:
		return "downgraded-note"
	case WarnLevelClamped:
		return "level-clamped"
	case WarnBalloonCountPadded:
		return "balloon-count-padded"
	case WarnRollSplitAtBranchFork:
		return "roll-split-at-branch-fork"
	case WarnAmbiguousEncoding:
		return "ambiguous-encoding"
	default:
		return "unknown"
	}
}

// ConvertWarning is a non-fatal diagnostic raised during parsing or
// translation. It is never returned as an error; callers accumulate it
// (see tja2fumen.Result.Warnings) and decide what, if anything, to do
// with it.
type ConvertWarning struct {
	Kind    WarningKind
	Course  string
	Measure int
	Msg     string
}

func (w ConvertWarning) Error() string {
	if w.Course != "" {
		return fmt.Sprintf("%s [%s#%d]: %s", w.Kind, w.Course, w.Measure, w.Msg)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Msg)
}

func NewWarning(kind WarningKind, course string, measure int, format string, args ...any) ConvertWarning {
	return ConvertWarning{Kind: kind, Course: course, Measure: measure, Msg: fmt.Sprintf(format, args...)}
}
