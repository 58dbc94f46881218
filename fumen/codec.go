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

package fumen

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"golang.org/x/exp/slices"

	"github.com/tjatools/tja2fumen/errs"
)

// stickyReader accumulates the first error seen across a sequence of
// reads so callers can check it once at the end instead of after every
// field, mirroring the codec's single FumenReadError contract.
type stickyReader struct {
	r      io.Reader
	order  binary.ByteOrder
	offset int
	err    error
}

func (s *stickyReader) read(buf []byte) {
	if s.err != nil {
		return
	}
	n, err := io.ReadFull(s.r, buf)
	s.offset += n
	if err != nil {
		s.err = errs.NewFumenReadError(s.offset, "unexpected end of file: %s", err)
	}
}

func (s *stickyReader) u8() uint8 {
	var b [1]byte
	s.read(b[:])
	return b[0]
}

func (s *stickyReader) u16() uint16 {
	var b [2]byte
	s.read(b[:])
	if s.err != nil {
		return 0
	}
	return s.order.Uint16(b[:])
}

func (s *stickyReader) u32() uint32 {
	var b [4]byte
	s.read(b[:])
	if s.err != nil {
		return 0
	}
	return s.order.Uint32(b[:])
}

func (s *stickyReader) i32() int32 {
	return int32(s.u32())
}

func (s *stickyReader) f32() float32 {
	return math.Float32frombits(s.u32())
}

// DetectByteOrder probes the first four bytes of a fumen file: if they
// decode to ~1.0 as a little-endian f32, the file is little-endian;
// otherwise big-endian.
func DetectByteOrder(raw []byte) (binary.ByteOrder, error) {
	if len(raw) < 4 {
		return nil, errs.NewFumenReadError(0, "file too short to probe byte order")
	}
	probe := math.Float32frombits(binary.LittleEndian.Uint32(raw[:4]))
	if probe > 0.9 && probe < 1.1 {
		return binary.LittleEndian, nil
	}
	return binary.BigEndian, nil
}

// Decode parses a complete fumen binary.
func Decode(raw []byte) (*Course, binary.ByteOrder, error) {
	order, err := DetectByteOrder(raw)
	if err != nil {
		return nil, nil, err
	}
	s := &stickyReader{r: bytes.NewReader(raw), order: order}

	var h Header
	s.read(h.Opaque[:])
	h.Difficulty = s.u8()
	h.Stars = s.u8()
	h.ScoreInit = s.u16()
	h.ScoreDiff = s.u16()
	h.Style = s.u8()
	h.IsPapamama = s.u8()
	s.read(h.TailPad[:])
	if s.err != nil {
		return nil, nil, s.err
	}

	measureCount := s.i32()
	headroom1 := s.u16()
	headroom2 := s.u16()
	if s.err != nil {
		return nil, nil, s.err
	}

	c := &Course{
		Header: h, ScoreInit: int32(h.ScoreInit), ScoreDiff: int32(h.ScoreDiff),
		Headroom1: headroom1, Headroom2: headroom2,
	}

	for mi := int32(0); mi < measureCount; mi++ {
		m := Measure{}
		m.BPM = s.f32()
		m.OffsetStart = s.f32()
		gogo := s.u8()
		barline := s.u8()
		m.Gogo = gogo != 0
		m.Barline = barline != 0
		m.Padding1 = s.u16()
		for i := range m.BranchInfo {
			m.BranchInfo[i] = s.i32()
		}
		m.Padding2 = s.u32()
		if s.err != nil {
			return nil, nil, s.err
		}

		for b := 0; b < 3; b++ {
			length := s.u16()
			speed := s.f32()
			if s.err != nil {
				return nil, nil, s.err
			}
			branch := Branch{Speed: speed, Notes: make([]Note, 0, length)}
			for ni := uint16(0); ni < length; ni++ {
				n := Note{}
				n.TypeID = s.u16()
				if s.err == nil && !validTypeID(n.TypeID) {
					return nil, nil, errs.NewFumenReadError(s.offset, "unknown type_id %#x", n.TypeID)
				}
				n.PosMS = s.f32()
				n.ItemID = s.u32()
				s.u16() // padding
				n.ScoreInit = s.u16()
				n.ScoreDiff = s.u16()
				if s.err != nil {
					return nil, nil, s.err
				}
				if HasDuration(n.TypeID) {
					n.DurationMS = s.f32()
					if s.err != nil {
						return nil, nil, s.err
					}
				}
				branch.Notes = append(branch.Notes, n)
			}
			m.Branches[b] = branch
		}

		m.Duration = measureDuration(m.BPM)
		m.OffsetEnd = m.OffsetStart + m.Duration
		c.Measures = append(c.Measures, m)
	}

	return c, order, nil
}

// knownTypeIDs is the fixed symbol-table enum, stripped of any SENOTE
// offset before checking.
var knownTypeIDs = []uint16{
	TypeDon, TypeKa, TypeBigDon, TypeBigKa, TypeRoll, TypeBigRoll,
	TypeBalloon, TypeRollEnd, TypeKusudama, TypeHandLeft, TypeHandRight,
	TypeAdlib,
}

// validTypeID reports whether typeID (any SENOTE variant) belongs to
// the known note symbol table.
func validTypeID(typeID uint16) bool {
	base := typeID
	if base >= senoteOffset {
		base %= senoteOffset
	}
	return slices.Contains(knownTypeIDs, base)
}

// measureDuration recomputes a 4/4-assumption duration from bpm alone,
// since offset_end/duration are not persisted on disk. The binary
// carries no time signature, so for any measure that was not 4/4 in
// its source (including ones written by translate.Translate, which
// stores a #MEASURE-changed measure's BPM unchanged) the result is an
// estimate, not the measure's real length.
func measureDuration(bpm float32) float32 {
	if bpm == 0 {
		return 0
	}
	return float32(4 * 60000.0 / float64(bpm))
}

type stickyWriter struct {
	w     io.Writer
	order binary.ByteOrder
	err   error
}

func (s *stickyWriter) write(buf []byte) {
	if s.err != nil {
		return
	}
	_, s.err = s.w.Write(buf)
}

func (s *stickyWriter) u8(v uint8)  { s.write([]byte{v}) }
func (s *stickyWriter) u16(v uint16) {
	var b [2]byte
	s.order.PutUint16(b[:], v)
	s.write(b[:])
}
func (s *stickyWriter) u32(v uint32) {
	var b [4]byte
	s.order.PutUint32(b[:], v)
	s.write(b[:])
}
func (s *stickyWriter) i32(v int32) { s.u32(uint32(v)) }
func (s *stickyWriter) f32(v float32) { s.u32(math.Float32bits(v)) }

// Encode writes a course little-endian, per the write contract - big-
// endian is only ever a read-side accommodation for third-party files.
func Encode(w io.Writer, c *Course) error {
	s := &stickyWriter{w: w, order: binary.LittleEndian}

	s.write(c.Header.Opaque[:])
	s.u8(c.Header.Difficulty)
	s.u8(c.Header.Stars)
	s.u16(c.Header.ScoreInit)
	s.u16(c.Header.ScoreDiff)
	s.u8(c.Header.Style)
	s.u8(c.Header.IsPapamama)
	s.write(c.Header.TailPad[:])

	s.i32(int32(len(c.Measures)))
	s.u16(c.Headroom1)
	s.u16(c.Headroom2)

	for _, m := range c.Measures {
		s.f32(m.BPM)
		s.f32(m.OffsetStart)
		if m.Gogo {
			s.u8(1)
		} else {
			s.u8(0)
		}
		if m.Barline {
			s.u8(1)
		} else {
			s.u8(0)
		}
		s.u16(m.Padding1)
		for _, v := range m.BranchInfo {
			s.i32(v)
		}
		s.u32(m.Padding2)

		for b := 0; b < 3; b++ {
			branch := m.Branches[b]
			s.u16(uint16(len(branch.Notes)))
			s.f32(branch.Speed)
			for _, n := range branch.Notes {
				s.u16(n.TypeID)
				s.f32(n.PosMS)
				s.u32(n.ItemID)
				s.u16(0) // padding
				s.u16(n.ScoreInit)
				s.u16(n.ScoreDiff)
				if HasDuration(n.TypeID) {
					s.f32(n.DurationMS)
				}
			}
		}
	}

	if s.err != nil {
		return errs.NewIoError("", s.err)
	}
	return nil
}
