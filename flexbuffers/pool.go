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

package flexbuffers

import (
	"bytes"

	"github.com/dchest/siphash"
	"golang.org/x/exp/maps"
)

// poolEntry is one interned occurrence: where in the sink the content
// (not its framing) starts and how long it is. The siphash of the content
// is the key of the bucket the entry sits in. Keeping (hash, offset, len)
// rather than a copy of the bytes lets find verify a candidate against
// the sink without allocating.
type poolEntry struct {
	offset int
	length int
}

// pool is a content-addressed cache mapping a byte sequence to the
// absolute offset at which it was first emitted (§4.3). Equality is
// byte-wise; the siphash value is only a bucket selector, never trusted
// on its own, per the "sorted index of (hash, offset, len) with
// verification" alternative design called out in §9.
type pool struct {
	sink    *sink
	buckets map[uint64][]poolEntry
}

func newPool(s *sink) *pool {
	return &pool{sink: s, buckets: make(map[uint64][]poolEntry)}
}

const (
	poolK0 = 0
	poolK1 = 0x666c657862756666 // "flexbuff" — fixed so pool lookups (and
	// therefore dedup behavior) are reproducible across runs, preserving
	// P7 (determinism); only internal bucket placement depends on this,
	// never the emitted bytes.
)

func poolHash(data []byte) uint64 {
	return siphash.Hash(poolK0, poolK1, data)
}

// find returns the offset of a previously interned occurrence of data, or
// (0, false) if data has never been interned through this pool.
func (p *pool) find(data []byte) (int, bool) {
	h := poolHash(data)
	for _, e := range p.buckets[h] {
		if e.length == len(data) && bytes.Equal(p.sink.buf[e.offset:e.offset+e.length], data) {
			return e.offset, true
		}
	}
	return 0, false
}

// record registers that data's content bytes begin at offset, so future
// find calls return it. Callers must have already written data's content
// bytes (not including any length/terminator framing) at offset.
func (p *pool) record(data []byte, offset int) {
	h := poolHash(data)
	p.buckets[h] = append(p.buckets[h], poolEntry{offset: offset, length: len(data)})
}

// reset clears all interned entries.
func (p *pool) reset() {
	maps.Clear(p.buckets)
}
