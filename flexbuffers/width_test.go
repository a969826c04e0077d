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

func TestWidthInt(t *testing.T) {
	cases := []struct {
		v    int64
		want Width
	}{
		{0, W8},
		{-1, W8},
		{127, W8},
		{-128, W8},
		{128, W16},
		{-129, W16},
		{32767, W16},
		{32768, W32},
		{1 << 40, W64},
	}
	for _, c := range cases {
		if got := WidthInt(c.v); got != c.want {
			t.Errorf("WidthInt(%d) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestWidthUint(t *testing.T) {
	cases := []struct {
		v    uint64
		want Width
	}{
		{0, W8},
		{255, W8},
		{256, W16},
		{65535, W16},
		{65536, W32},
		{128, W8}, // 128 as unsigned fits width 1 (§8)
	}
	for _, c := range cases {
		if got := WidthUint(c.v); got != c.want {
			t.Errorf("WidthUint(%d) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestWidthFloat(t *testing.T) {
	if got := WidthFloat(1.5); got != W32 {
		t.Errorf("WidthFloat(1.5) = %v, want W32", got)
	}
	if got := WidthFloat(0.1); got != W64 {
		t.Errorf("WidthFloat(0.1) = %v, want W64 (not exact in float32)", got)
	}
}

func TestPackedType(t *testing.T) {
	if got := PackedType(Null, W8); got != 0x00 {
		t.Errorf("PackedType(Null, W8) = %#x, want 0x00", got)
	}
	if got := PackedType(Bool, W8); got != 0x68 {
		t.Errorf("PackedType(Bool, W8) = %#x, want 0x68", got)
	}
	if got := PackedType(Int, W16); got != 0x05 {
		t.Errorf("PackedType(Int, W16) = %#x, want 0x05", got)
	}
}
