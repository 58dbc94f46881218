// Copyright 2019 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2019 Charles University, Faculty of Arts,
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

// Package fsutil collects small filesystem helpers: existence checks,
// sibling-path derivation for the per-course .bin outputs, and a
// file-size lookup. The fumen codec does not use them; it detects an
// overrunning length as a truncated read.
package fsutil

import (
	"os"
	"path/filepath"
	"strings"
)

// IsFile tests whether a provided path represents a file. If not, or
// in case of an IO error, false is returned.
func IsFile(path string) bool {
	finfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return finfo.Mode().IsRegular()
}

// FileSize returns the size in bytes of the file at path, or -1 if it
// cannot be stat-ed.
func FileSize(path string) int64 {
	finfo, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return finfo.Size()
}

// SiblingBinPath derives the output path for one course's fumen binary,
// following the CLI naming rule from spec section 6: a sibling .bin
// named <stem>_<difficulty>[_<player>].bin in the input's directory.
func SiblingBinPath(inputPath, difficulty, player string) string {
	dir := filepath.Dir(inputPath)
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	name := stem + "_" + difficulty
	if player != "" {
		name += "_" + player
	}
	return filepath.Join(dir, name+".bin")
}
