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

// Package cliopts holds the optional converter-options file. Nothing
// in tja2fumen requires it - no env vars, no persistent state - but a
// batch conversion run (many .tja files through the same CLI
// invocation) often wants the same overrides applied to each one, so
// the options file plays the same role the teacher's cnf.VTEConf plays
// for vte: a small JSON document loaded once by the CLI and threaded
// down into the library calls.
package cliopts

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// Options configures one conversion run. All fields have sane zero
// values, so an absent options file is equivalent to Options{}.
type Options struct {
	// OutputDir overrides the default "sibling of the input file"
	// location for written .bin files.
	OutputDir string `json:"outputDir,omitempty"`

	// KeepGoingOnWarning is decoded from the options file and carried
	// in Options. Library calls always continue past ConvertWarning,
	// and the convert command writes every course and exits 0 after
	// logging warnings whatever this field's value.
	KeepGoingOnWarning bool `json:"keepGoingOnWarning"`

	// DowngradeUnknownNotes controls whether notes in {C,D,E,G,H,I}
	// are downgraded to their nearest supported kind (the default,
	// per spec) or dropped outright. Either way a ConvertWarning is
	// raised - these symbols have no ParseError of their own.
	DowngradeUnknownNotes bool `json:"downgradeUnknownNotes"`

	// Verbosity follows the teacher's convention of a plain integer
	// knob rather than named log levels.
	Verbosity int `json:"verbosity"`
}

// Default returns the options in effect when no options file is given.
func Default() Options {
	return Options{DowngradeUnknownNotes: true}
}

// Load reads and decodes a converter-options file with sonic, mirroring
// cnf.LoadConf's read-then-unmarshal shape.
func Load(path string) (Options, error) {
	opts := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to load options: %w", err)
	}
	if err := sonic.Unmarshal(raw, &opts); err != nil {
		return opts, fmt.Errorf("failed to parse options: %w", err)
	}
	return opts, nil
}
