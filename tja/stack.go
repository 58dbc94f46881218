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

import "github.com/tjatools/tja2fumen/errs"

// markerStack tracks nested open/close command pairs (#BRANCHSTART /
// #BRANCHEND being the only one TJA actually uses). It is the same
// begin/end-with-name-check shape as the teacher's structStack, except
// a mismatched close reports a ParseError instead of panicking - an
// unmatched #BRANCHEND is explicitly a recoverable-at-the-file-boundary
// condition here, not a programmer error.
type markerStack struct {
	names []string
}

func (s *markerStack) push(name string) {
	s.names = append(s.names, name)
}

func (s *markerStack) pop(name string) error {
	if len(s.names) == 0 {
		return errs.NewParseError(0, "#%s without matching open", name)
	}
	top := s.names[len(s.names)-1]
	if top != name {
		return errs.NewParseError(0, "expected close for %s, got %s", top, name)
	}
	s.names = s.names[:len(s.names)-1]
	return nil
}

func (s *markerStack) size() int {
	return len(s.names)
}
