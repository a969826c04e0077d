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

// Type is a FlexBuffers logical type tag. The numeric values match the
// canonical FlexBuffers type-code table and must never be renumbered;
// they are written directly into encoded buffers.
type Type byte

const (
	Null Type = iota
	Int
	UInt
	Float
	Key
	String
	IndirectInt
	IndirectUInt
	IndirectFloat
	Map
	Vector
	VectorInt
	VectorUInt
	VectorFloat
	VectorKey
	VectorStringDeprecated
	VectorInt2
	VectorUInt2
	VectorFloat2
	VectorInt3
	VectorUInt3
	VectorFloat3
	VectorInt4
	VectorUInt4
	VectorFloat4
	Blob
	Bool
	VectorBool
)

func (t Type) String() string {
	switch t {
	case Null:
		return "null"
	case Int:
		return "int"
	case UInt:
		return "uint"
	case Float:
		return "float"
	case Key:
		return "key"
	case String:
		return "string"
	case IndirectInt:
		return "indirect_int"
	case IndirectUInt:
		return "indirect_uint"
	case IndirectFloat:
		return "indirect_float"
	case Map:
		return "map"
	case Vector:
		return "vector"
	case VectorInt:
		return "vector_int"
	case VectorUInt:
		return "vector_uint"
	case VectorFloat:
		return "vector_float"
	case VectorKey:
		return "vector_key"
	case VectorStringDeprecated:
		return "vector_string_deprecated"
	case VectorInt2, VectorInt3, VectorInt4:
		return "vector_int_fixed"
	case VectorUInt2, VectorUInt3, VectorUInt4:
		return "vector_uint_fixed"
	case VectorFloat2, VectorFloat3, VectorFloat4:
		return "vector_float_fixed"
	case Blob:
		return "blob"
	case Bool:
		return "bool"
	case VectorBool:
		return "vector_bool"
	default:
		return "unknown"
	}
}

// isAnyVector reports whether t is some flavor of vector (typed, untyped,
// fixed, or key/bool vector) as opposed to a scalar or Map.
func (t Type) isAnyVector() bool {
	switch t {
	case Vector, VectorInt, VectorUInt, VectorFloat, VectorKey,
		VectorStringDeprecated, VectorBool,
		VectorInt2, VectorUInt2, VectorFloat2,
		VectorInt3, VectorUInt3, VectorFloat3,
		VectorInt4, VectorUInt4, VectorFloat4:
		return true
	}
	return false
}

// fixedTypedVector returns the type tag for a fixed-length typed vector
// of n (2, 3, or 4) elements of the given scalar tag, and true if such a
// tag exists. Per §6.4, only Int/UInt/Float support fixed vectors.
func fixedTypedVector(elem Type, n int) (Type, bool) {
	switch elem {
	case Int:
		switch n {
		case 2:
			return VectorInt2, true
		case 3:
			return VectorInt3, true
		case 4:
			return VectorInt4, true
		}
	case UInt:
		switch n {
		case 2:
			return VectorUInt2, true
		case 3:
			return VectorUInt3, true
		case 4:
			return VectorUInt4, true
		}
	case Float:
		switch n {
		case 2:
			return VectorFloat2, true
		case 3:
			return VectorFloat3, true
		case 4:
			return VectorFloat4, true
		}
	}
	return 0, false
}

// typedVectorOf returns the homogeneous typed-vector tag for a vector
// whose elements all share scalar tag elem, if one exists in the
// canonical type table (§6.1); Vector (heterogeneous) otherwise.
func typedVectorOf(elem Type) Type {
	switch elem {
	case Int:
		return VectorInt
	case UInt:
		return VectorUInt
	case Float:
		return VectorFloat
	case Key:
		return VectorKey
	case Bool:
		return VectorBool
	default:
		return Vector
	}
}

// Width is one of the four FlexBuffers bit-widths, encoded 0..3 as per
// §3 "Bit-widths" and §6.2.
type Width byte

const (
	W8 Width = iota
	W16
	W32
	W64
)

// Bytes returns the number of bytes occupied by w.
func (w Width) Bytes() int {
	switch w {
	case W8:
		return 1
	case W16:
		return 2
	case W32:
		return 4
	case W64:
		return 8
	}
	panic("flexbuffers: invalid width code")
}

// max returns the wider of two widths.
func (w Width) max(o Width) Width {
	if o > w {
		return o
	}
	return w
}

// PackedType encodes a (type, width) pair into the single canonical
// descriptor byte used throughout the format: (type << 2) | width.
func PackedType(t Type, w Width) byte {
	return byte(t)<<2 | byte(w)
}
