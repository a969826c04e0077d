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

import "math"

// WidthUint returns the smallest width whose unsigned range contains v.
func WidthUint(v uint64) Width {
	switch {
	case v <= math.MaxUint8:
		return W8
	case v <= math.MaxUint16:
		return W16
	case v <= math.MaxUint32:
		return W32
	default:
		return W64
	}
}

// WidthInt returns the smallest signed width whose range contains v.
// Per §8, 0 and -1 both fit in a single byte; 128 requires two.
func WidthInt(v int64) Width {
	switch {
	case v >= math.MinInt8 && v <= math.MaxInt8:
		return W8
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return W16
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return W32
	default:
		return W64
	}
}

// WidthFloat returns W32 iff v round-trips through float32 bit-exactly,
// else W64.
func WidthFloat(v float64) Width {
	if float64(float32(v)) == v {
		return W32
	}
	return W64
}

// widthUintForOffset computes the width needed to express the relative
// (backwards) offset from referrerPos to targetOffset, i.e. the smallest
// W such that (referrerPos - targetOffset) fits unsigned in W bytes.
// This is the single-shot form used outside of a fixpoint loop: rootWidth
// uses it as the starting width for the root suffix, which has no sibling
// elements to widen against.
func widthUintForOffset(referrerPos, targetOffset int) Width {
	rel := uint64(referrerPos - targetOffset)
	return WidthUint(rel)
}

// fits reports whether v fits unsigned in w bytes.
func fits(v uint64, w Width) bool {
	switch w {
	case W8:
		return v <= math.MaxUint8
	case W16:
		return v <= math.MaxUint16
	case W32:
		return v <= math.MaxUint32
	default:
		return true
	}
}
