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

func TestBuilderFixedArrays(t *testing.T) {
	buf, err := Vector(func(v *VectorBuilder) {
		v.FixedInts([]int64{1, 2, 3})
		v.FixedUInts([]uint64{4, 5})
		v.FixedFloats([]float64{1.5, 2.5, 3.5, 4.5})
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) == 0 {
		t.Fatal("empty buffer")
	}
}

func TestBuilderFixedArrayRejectsBadLength(t *testing.T) {
	_, err := Vector(func(v *VectorBuilder) {
		v.FixedInts([]int64{1})
	})
	if err == nil {
		t.Fatal("expected an error for a 1-element fixed array")
	}
}

func TestBuilderLatchesFirstError(t *testing.T) {
	calls := 0
	_, err := Vector(func(v *VectorBuilder) {
		v.FixedInts([]int64{1}) // fails
		calls++
		v.AddInt(42) // must be a no-op once latched
		calls++
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if calls != 2 {
		t.Fatalf("populate callback body did not run to completion: calls=%d", calls)
	}
}

func TestMapBuilderKeyedArrays(t *testing.T) {
	buf, err := Map(func(m *MapBuilder) {
		m.IntArray("ints", []int64{1, 2, 3})
		m.UIntArray("uints", []uint64{1, 2, 3})
		m.FloatArray("floats", []float64{1, 2, 3})
		m.AddIndirectInt("big", 1<<40)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) == 0 {
		t.Fatal("empty buffer")
	}
}

func TestBuilderErrorPropagatesFromNestedScope(t *testing.T) {
	_, err := Map(func(m *MapBuilder) {
		m.Vector("bad", func(v *VectorBuilder) {
			v.FixedInts([]int64{1}) // fails inside the nested vector
		})
	})
	if err == nil {
		t.Fatal("expected an error from the nested vector to propagate")
	}
}
