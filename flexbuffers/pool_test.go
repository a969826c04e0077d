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

import "testing"

func TestPoolFindRecord(t *testing.T) {
	s := &sink{}
	p := newPool(s)

	if _, ok := p.find([]byte("hello")); ok {
		t.Fatal("find on empty pool returned a hit")
	}

	off := s.appendBytes([]byte("hello"))
	p.record([]byte("hello"), off)

	got, ok := p.find([]byte("hello"))
	if !ok || got != off {
		t.Fatalf("find(%q) = (%d, %v), want (%d, true)", "hello", got, ok, off)
	}

	if _, ok := p.find([]byte("goodbye")); ok {
		t.Fatal("find matched an unrelated string")
	}
}

func TestPoolHashCollisionIsVerifiedByContent(t *testing.T) {
	// Two distinct byte strings that land in the same bucket must not be
	// confused with each other; find must verify equality, not just hash.
	s := &sink{}
	p := newPool(s)
	off1 := s.appendBytes([]byte("alpha"))
	p.record([]byte("alpha"), off1)
	off2 := s.appendBytes([]byte("bravo"))
	p.record([]byte("bravo"), off2)
	// Force a collision: file bravo's same-length entry in alpha's bucket
	// too, ahead of alpha's own entry.
	h := poolHash([]byte("alpha"))
	p.buckets[h] = append([]poolEntry{{offset: off2, length: 5}}, p.buckets[h]...)

	if got, ok := p.find([]byte("alpha")); !ok || got != off1 {
		t.Fatalf("find(alpha) = (%d,%v), want (%d,true)", got, ok, off1)
	}
	if got, ok := p.find([]byte("bravo")); !ok || got != off2 {
		t.Fatalf("find(bravo) = (%d,%v), want (%d,true)", got, ok, off2)
	}
}

func TestPoolReset(t *testing.T) {
	s := &sink{}
	p := newPool(s)
	off := s.appendBytes([]byte("hello"))
	p.record([]byte("hello"), off)
	p.reset()
	if _, ok := p.find([]byte("hello")); ok {
		t.Fatal("find found an entry after reset")
	}
}

func TestPoolHashIsDeterministic(t *testing.T) {
	if poolHash([]byte("abc")) != poolHash([]byte("abc")) {
		t.Fatal("poolHash is not deterministic across calls")
	}
}
