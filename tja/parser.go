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

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/tjatools/tja2fumen/errs"
)

// simulator-only or Dan-i Dojo/exam commands: recognized by name so
// they never surface an "unknown command" warning, then discarded
// with no effect on the compiled output. See SPEC_FULL.md.
var recognizedNonGoalCommands = map[string]bool{
	"LYRIC": true, "BMSCROLL": true, "HBSCROLL": true, "DIRECTION": true,
	"DAN": true, "DANCOURSE": true, "GAUGEINCR": true, "EXAM1": true,
	"EXAM2": true, "EXAM3": true, "EXAM4": true, "EXAMASSIST": true,
	"TOTAL": true, "NOTESPAWN": true,
}

type pendingCourse struct {
	difficulty    Difficulty
	level         int
	balloons      []int
	scoreInit     int
	scoreDiff     int
	style         Style
	hasStyle      bool
}

type parser struct {
	cur     *lineCursor
	song    *Song
	pending pendingCourse
	hasBPM  bool
	hasOffset bool

	inBody    bool
	branches  markerStack
	course    *Course
	key       CourseKey
	measure   Measure
	warnings  []errs.ConvertWarning
}

// Parse parses the already-decoded, already-line-split text of a .tja
// file (see textdecode.Decode / textdecode.Lines) into a Song.
func Parse(lines []string) (*Song, []errs.ConvertWarning, error) {
	p := &parser{
		cur:  newLineCursor(lines),
		song: &Song{Courses: make(map[CourseKey]*Course)},
	}
	for p.cur.Scan() {
		line := p.cur.Text()
		var err error
		switch {
		case strings.HasPrefix(line, "#"):
			err = p.handleCommand(line[1:])
		case !p.inBody:
			err = p.handleMetadataLine(line)
		default:
			p.handleNoteLine(line)
		}
		if err != nil {
			return nil, p.warnings, err
		}
	}

	if p.inBody {
		// Tolerate a missing trailing #END at EOF: close out whatever
		// was open rather than failing the whole file.
		p.closeCourse()
	}

	if !p.hasBPM || !p.hasOffset {
		return nil, p.warnings, errs.NewParseError(p.cur.LineNo(), "BPM and OFFSET must both be set")
	}
	return p.song, p.warnings, nil
}

func (p *parser) warn(kind errs.WarningKind, format string, args ...any) {
	p.warnings = append(p.warnings, errs.NewWarning(kind, p.key.Difficulty.String(), len(p.course.measuresIfAny()), format, args...))
}

// measuresIfAny lets warn() report a measure count even before a
// course's Course struct has been promoted into the song map.
func (c *Course) measuresIfAny() []Measure {
	if c == nil {
		return nil
	}
	return c.Measures
}

func (p *parser) handleMetadataLine(line string) error {
	idx := strings.Index(line, ":")
	if idx < 0 {
		// Not a KEY:VALUE line and not a command; ignore.
		return nil
	}
	return p.handleMetadata(line[:idx], line[idx+1:])
}

func (p *parser) handleNoteLine(line string) {
	if !p.inBody {
		// Stray note-looking data outside any course body; ignore.
		return
	}
	for _, r := range line {
		switch {
		case r == ',':
			p.course.Measures = append(p.course.Measures, p.measure)
			p.measure = Measure{}
		case unicode.IsSpace(r):
			// ignore
		default:
			p.measure.Notes = append(p.measure.Notes, r)
		}
	}
}

func (p *parser) handleCommand(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return nil
	}
	name := strings.ToUpper(fields[0])
	args := fields[1:]

	if !p.inBody {
		return p.handleHeaderCommand(name, args)
	}
	return p.handleBodyCommand(name, args)
}

func (p *parser) handleHeaderCommand(name string, args []string) error {
	switch name {
	case "START":
		return p.openCourse(args)
	case "END":
		return errs.NewParseError(p.cur.LineNo(), "#END seen outside an open body")
	default:
		if !recognizedNonGoalCommands[name] {
			p.warnings = append(p.warnings, errs.NewWarning(errs.WarnUnknownCommand, "", 0, "unrecognized command #%s", name))
		}
		return nil
	}
}

func (p *parser) handleBodyCommand(name string, args []string) error {
	pos := len(p.measure.Notes)
	switch name {
	case "START":
		return errs.NewParseError(p.cur.LineNo(), "nested #START")
	case "END":
		return p.closeCourse()
	case "BPMCHANGE":
		v, err := p.parseFloat(args, "BPMCHANGE")
		if err != nil {
			return err
		}
		p.measure.Events = append(p.measure.Events, Event{Pos: pos, Kind: EvBPMChange, Float: v})
	case "MEASURE":
		num, den, err := p.parseFraction(args)
		if err != nil {
			return err
		}
		p.measure.Events = append(p.measure.Events, Event{Pos: pos, Kind: EvMeasure, Num: num, Den: den})
	case "SCROLL":
		v, err := p.parseFloat(args, "SCROLL")
		if err != nil {
			return err
		}
		p.measure.Events = append(p.measure.Events, Event{Pos: pos, Kind: EvScroll, Float: v})
	case "GOGOSTART":
		p.measure.Events = append(p.measure.Events, Event{Pos: pos, Kind: EvGogoStart})
	case "GOGOEND":
		p.measure.Events = append(p.measure.Events, Event{Pos: pos, Kind: EvGogoEnd})
	case "BARLINEOFF":
		p.measure.Events = append(p.measure.Events, Event{Pos: pos, Kind: EvBarlineOff})
	case "BARLINEON":
		p.measure.Events = append(p.measure.Events, Event{Pos: pos, Kind: EvBarlineOn})
	case "DELAY":
		v, err := p.parseFloat(args, "DELAY")
		if err != nil {
			return err
		}
		p.measure.Events = append(p.measure.Events, Event{Pos: pos, Kind: EvDelay, Float: v})
	case "BRANCHSTART":
		kind, adv, mas, err := p.parseBranchStart(args)
		if err != nil {
			return err
		}
		p.branches.push("branch")
		p.measure.Events = append(p.measure.Events, Event{
			Pos: pos, Kind: EvBranchStart, BranchKind: kind, AdvThreshold: adv, MasThreshold: mas,
		})
	case "N":
		p.measure.Events = append(p.measure.Events, Event{Pos: pos, Kind: EvBranchN})
	case "E":
		p.measure.Events = append(p.measure.Events, Event{Pos: pos, Kind: EvBranchE})
	case "M":
		p.measure.Events = append(p.measure.Events, Event{Pos: pos, Kind: EvBranchM})
	case "BRANCHEND":
		if err := p.branches.pop("branch"); err != nil {
			return errs.NewParseError(p.cur.LineNo(), "#BRANCHEND without matching #BRANCHSTART")
		}
		p.measure.Events = append(p.measure.Events, Event{Pos: pos, Kind: EvBranchEnd})
	case "SECTION":
		p.measure.Events = append(p.measure.Events, Event{Pos: pos, Kind: EvSection})
	case "LEVELHOLD":
		p.measure.Events = append(p.measure.Events, Event{Pos: pos, Kind: EvLevelHold})
	case "SENOTECHANGE":
		v, err := p.parseInt(args, "SENOTECHANGE")
		if err != nil {
			return err
		}
		p.measure.Events = append(p.measure.Events, Event{Pos: pos, Kind: EvSenoteChange, SenoteVal: v})
	default:
		if !recognizedNonGoalCommands[name] {
			p.warnings = append(p.warnings, errs.NewWarning(errs.WarnUnknownCommand, p.key.Difficulty.String(), len(p.course.Measures), "unrecognized command #%s", name))
		}
	}
	return nil
}

func (p *parser) openCourse(args []string) error {
	key := CourseKey{Difficulty: p.pending.difficulty, Style: p.pending.style}
	if p.pending.style == Double {
		if len(args) == 0 {
			return errs.NewParseError(p.cur.LineNo(), "STYLE:Double requires #START P1 or #START P2")
		}
		switch strings.ToUpper(args[0]) {
		case "P1":
			key.Player = PlayerP1
		case "P2":
			key.Player = PlayerP2
		default:
			return errs.NewParseError(p.cur.LineNo(), "unrecognized #START argument %q", args[0])
		}
	}
	if _, exists := p.song.Courses[key]; exists {
		return errs.NewParseError(p.cur.LineNo(), "duplicated course/style key %v", key)
	}
	p.key = key
	p.course = &Course{
		Course:    p.pending.difficulty,
		Level:     p.pending.level,
		Balloons:  append([]int(nil), p.pending.balloons...),
		ScoreInit: p.pending.scoreInit,
		ScoreDiff: p.pending.scoreDiff,
		Style:     p.pending.style,
		Player:    key.Player,
	}
	p.measure = Measure{}
	p.branches = markerStack{}
	p.inBody = true
	return nil
}

func (p *parser) closeCourse() error {
	if len(p.measure.Notes) > 0 || len(p.measure.Events) > 0 {
		p.course.Measures = append(p.course.Measures, p.measure)
		p.measure = Measure{}
	}
	p.song.Courses[p.key] = p.course
	p.course = nil
	p.inBody = false
	return nil
}

func (p *parser) handleMetadata(key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToUpper(strings.TrimSpace(key)) {
	case "BPM":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errs.NewParseError(p.cur.LineNo(), "BPM is not numeric: %q", value)
		}
		p.song.BPM = v
		p.hasBPM = true
	case "OFFSET":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errs.NewParseError(p.cur.LineNo(), "OFFSET is not numeric: %q", value)
		}
		p.song.OffsetSeconds = v
		p.hasOffset = true
	case "COURSE":
		if d, ok := ParseDifficulty(value); ok {
			p.pending.difficulty = d
		}
		// An unrecognized COURSE name is left as the previous/default
		// difficulty rather than treated as fatal.
	case "LEVEL":
		v, err := strconv.Atoi(value)
		if err != nil {
			return errs.NewParseError(p.cur.LineNo(), "LEVEL is not numeric: %q", value)
		}
		if v < 1 || v > 10 {
			p.warnings = append(p.warnings, errs.NewWarning(errs.WarnLevelClamped, "", 0, "LEVEL %d clamped to [1,10]", v))
			if v < 1 {
				v = 1
			} else {
				v = 10
			}
		}
		p.pending.level = v
	case "BALLOON":
		balloons, err := parseBalloonList(value)
		if err != nil {
			return errs.NewParseError(p.cur.LineNo(), "%s", err)
		}
		p.pending.balloons = balloons
	case "SCOREINIT":
		v, err := strconv.Atoi(value)
		if err != nil {
			return errs.NewParseError(p.cur.LineNo(), "SCOREINIT is not numeric: %q", value)
		}
		p.pending.scoreInit = v
	case "SCOREDIFF":
		v, err := strconv.Atoi(value)
		if err != nil {
			return errs.NewParseError(p.cur.LineNo(), "SCOREDIFF is not numeric: %q", value)
		}
		p.pending.scoreDiff = v
	case "STYLE":
		switch strings.ToLower(value) {
		case "single":
			p.pending.style = Single
		case "double":
			p.pending.style = Double
		}
		p.pending.hasStyle = true
	default:
		// unknown metadata keys are ignored silently, per spec.
	}
	return nil
}

func parseBalloonList(value string) ([]int, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (p *parser) parseFloat(args []string, cmd string) (float64, error) {
	if len(args) == 0 {
		return 0, errs.NewParseError(p.cur.LineNo(), "#%s requires a numeric argument", cmd)
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, errs.NewParseError(p.cur.LineNo(), "#%s argument %q is not numeric", cmd, args[0])
	}
	return v, nil
}

func (p *parser) parseInt(args []string, cmd string) (int, error) {
	if len(args) == 0 {
		return 0, errs.NewParseError(p.cur.LineNo(), "#%s requires a numeric argument", cmd)
	}
	v, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errs.NewParseError(p.cur.LineNo(), "#%s argument %q is not numeric", cmd, args[0])
	}
	return v, nil
}

func (p *parser) parseFraction(args []string) (int, int, error) {
	if len(args) == 0 {
		return 0, 0, errs.NewParseError(p.cur.LineNo(), "#MEASURE requires a n/d argument")
	}
	parts := strings.SplitN(args[0], "/", 2)
	if len(parts) != 2 {
		return 0, 0, errs.NewParseError(p.cur.LineNo(), "#MEASURE argument %q is not n/d", args[0])
	}
	num, err1 := strconv.Atoi(parts[0])
	den, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || den == 0 {
		return 0, 0, errs.NewParseError(p.cur.LineNo(), "#MEASURE argument %q is not a valid n/d", args[0])
	}
	return num, den, nil
}

func (p *parser) parseBranchStart(args []string) (string, int, int, error) {
	if len(args) == 0 {
		return "", 0, 0, errs.NewParseError(p.cur.LineNo(), "#BRANCHSTART requires kind,adv,mas")
	}
	parts := strings.Split(args[0], ",")
	if len(parts) != 3 {
		return "", 0, 0, errs.NewParseError(p.cur.LineNo(), "#BRANCHSTART argument %q is not kind,adv,mas", args[0])
	}
	kind := strings.ToLower(strings.TrimSpace(parts[0]))
	adv, err1 := strconv.Atoi(strings.TrimSpace(parts[1]))
	mas, err2 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil {
		return "", 0, 0, errs.NewParseError(p.cur.LineNo(), "#BRANCHSTART thresholds %q are not numeric", args[0])
	}
	return kind, adv, mas, nil
}
