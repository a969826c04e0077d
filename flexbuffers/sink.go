// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package flexbuffers implements a single-pass, in-memory encoder for the
// FlexBuffers binary format: a self-describing, schema-less document that
// supports O(1) random access to any nested value without parsing the
// whole buffer.
package flexbuffers

import "encoding/binary"

// sink is an append-only byte buffer with random-access write, used to
// back-patch descriptor bytes once an enclosing vector or map's element
// width is known. Apart from reset, it never shrinks, and it never
// reorders bytes that have already been committed by Finish.
type sink struct {
	buf []byte
}

// len returns the number of bytes currently committed to the sink.
func (s *sink) len() int {
	return len(s.buf)
}

// reserve grows the sink by n zero bytes and returns the position at
// which they start.
func (s *sink) reserve(n int) int {
	off := len(s.buf)
	if cap(s.buf)-off >= n {
		s.buf = s.buf[:off+n]
		for i := off; i < off+n; i++ {
			s.buf[i] = 0
		}
	} else {
		nb := make([]byte, off+n, n+(2*off)+16)
		copy(nb, s.buf)
		s.buf = nb
	}
	return off
}

// appendBytes appends p verbatim and returns the offset it starts at.
func (s *sink) appendBytes(p []byte) int {
	off := len(s.buf)
	copy(s.buf[s.reserve(len(p)):], p)
	return off
}

// appendByte appends a single byte and returns the offset it starts at.
func (s *sink) appendByte(b byte) int {
	off := len(s.buf)
	s.buf = append(s.buf, b)
	return off
}

// writeByte overwrites the byte at offset with b.
func (s *sink) writeByte(offset int, b byte) {
	s.buf[offset] = b
}

// writeUint writes value little-endian at offset using exactly width
// bytes (width must be one of 1, 2, 4, 8). Space must already exist at
// offset (typically via reserve).
func (s *sink) writeUint(offset int, value uint64, width int) {
	switch width {
	case 1:
		s.buf[offset] = byte(value)
	case 2:
		binary.LittleEndian.PutUint16(s.buf[offset:], uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(s.buf[offset:], uint32(value))
	case 8:
		binary.LittleEndian.PutUint64(s.buf[offset:], value)
	default:
		panic("flexbuffers: invalid width")
	}
}

// padTo appends zero bytes until len(s.buf) is a multiple of alignment.
func (s *sink) padTo(alignment int) {
	for s.len()%alignment != 0 {
		s.appendByte(0)
	}
}

// bytes returns the sink's current contents. The slice is only valid
// until the next mutating call.
func (s *sink) bytes() []byte {
	return s.buf
}

// reset truncates the sink back to empty, retaining its storage.
func (s *sink) reset() {
	s.buf = s.buf[:0]
}

// set replaces the sink's backing storage, discarding prior contents.
func (s *sink) set(p []byte) {
	s.buf = p
}
