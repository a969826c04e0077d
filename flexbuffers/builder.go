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

// VectorBuilder and MapBuilder are thin, typed façades over Encoder
// (§6.10): the language-binding surface that a caller actually drives.
// They are scoped-acquisition handles — Map and Vector own the Encoder
// and the StartMap/StartVector...SortAndEndMap/EndVector pairing, the
// same way a closure-taking "populate" callback does in this repository's
// other builder-style APIs. When populate returns without an error the
// scope is closed; once an error is latched the open scopes are left
// unclosed and the Encoder is dropped along with the partial build.
//
// The first error encountered anywhere in a build is latched and
// returned by Map/Vector; every later call on any builder sharing that
// latch becomes a no-op, so a populate callback never needs to thread
// errors through itself.

// VectorBuilder appends elements to an open vector scope.
type VectorBuilder struct {
	enc *Encoder
	err *error
}

// MapBuilder appends key/value pairs to an open map scope.
type MapBuilder struct {
	enc *Encoder
	err *error
}

func (b *VectorBuilder) fail(err error) {
	if *b.err == nil {
		*b.err = err
	}
}

func (b *MapBuilder) fail(err error) {
	if *b.err == nil {
		*b.err = err
	}
}

func (b *VectorBuilder) ok() bool { return *b.err == nil }
func (b *MapBuilder) ok() bool    { return *b.err == nil }

// Map builds a finished FlexBuffers buffer whose root is a struct/map
// value, by opening a map scope, invoking populate with a handle to it,
// and closing with SortAndEndMap before calling Finish (§6.10 build_map).
func Map(populate func(*MapBuilder)) ([]byte, error) {
	enc := NewEncoder()
	var err error
	enc.StartMap()
	populate(&MapBuilder{enc: enc, err: &err})
	if err != nil {
		return nil, err
	}
	if e := enc.SortAndEndMap(); e != nil {
		return nil, e
	}
	return enc.Finish()
}

// Vector builds a finished FlexBuffers buffer whose root is a
// heterogeneous vector value (§6.10 build_vector).
func Vector(populate func(*VectorBuilder)) ([]byte, error) {
	enc := NewEncoder()
	var err error
	enc.StartVector()
	populate(&VectorBuilder{enc: enc, err: &err})
	if err != nil {
		return nil, err
	}
	if e := enc.EndVector(false, false); e != nil {
		return nil, e
	}
	return enc.Finish()
}

// --- VectorBuilder element primitives ---

func (b *VectorBuilder) AddNull() {
	if b.ok() {
		b.enc.AddNull()
	}
}
func (b *VectorBuilder) AddBool(v bool) {
	if b.ok() {
		b.enc.AddBool(v)
	}
}
func (b *VectorBuilder) AddInt(v int64) {
	if b.ok() {
		b.enc.AddInt(v)
	}
}
func (b *VectorBuilder) AddUInt(v uint64) {
	if b.ok() {
		b.enc.AddUInt(v)
	}
}
func (b *VectorBuilder) AddFloat(v float64) {
	if b.ok() {
		b.enc.AddFloat(v)
	}
}
func (b *VectorBuilder) AddString(v string) {
	if b.ok() {
		b.enc.AddString(v)
	}
}
func (b *VectorBuilder) AddBlob(v []byte) {
	if b.ok() {
		b.enc.AddBlob(v)
	}
}

// AddIndirectInt/UInt/Float store v out-of-line; see Encoder's methods of
// the same name for when this is useful.
func (b *VectorBuilder) AddIndirectInt(v int64) {
	if b.ok() {
		b.enc.AddIndirectInt(v)
	}
}
func (b *VectorBuilder) AddIndirectUInt(v uint64) {
	if b.ok() {
		b.enc.AddIndirectUInt(v)
	}
}
func (b *VectorBuilder) AddIndirectFloat(v float64) {
	if b.ok() {
		b.enc.AddIndirectFloat(v)
	}
}

// IntArray appends vals as a typed vector of ints (no per-element type
// table).
func (b *VectorBuilder) IntArray(vals []int64) {
	if !b.ok() {
		return
	}
	b.enc.StartVector()
	for _, v := range vals {
		b.enc.AddInt(v)
	}
	if err := b.enc.EndVector(true, false); err != nil {
		b.fail(err)
	}
}

// UIntArray appends vals as a typed vector of unsigned ints.
func (b *VectorBuilder) UIntArray(vals []uint64) {
	if !b.ok() {
		return
	}
	b.enc.StartVector()
	for _, v := range vals {
		b.enc.AddUInt(v)
	}
	if err := b.enc.EndVector(true, false); err != nil {
		b.fail(err)
	}
}

// FloatArray appends vals as a typed vector of floats.
func (b *VectorBuilder) FloatArray(vals []float64) {
	if !b.ok() {
		return
	}
	b.enc.StartVector()
	for _, v := range vals {
		b.enc.AddFloat(v)
	}
	if err := b.enc.EndVector(true, false); err != nil {
		b.fail(err)
	}
}

// FixedInts appends vals (len 2, 3, or 4) as a fixed typed vector
// (VectorIntN), omitting both the length prefix and the type table.
func (b *VectorBuilder) FixedInts(vals []int64) {
	if !b.ok() {
		return
	}
	b.enc.StartVector()
	for _, v := range vals {
		b.enc.AddInt(v)
	}
	if err := b.enc.EndVector(true, true); err != nil {
		b.fail(err)
	}
}

// FixedUInts is the unsigned counterpart of FixedInts.
func (b *VectorBuilder) FixedUInts(vals []uint64) {
	if !b.ok() {
		return
	}
	b.enc.StartVector()
	for _, v := range vals {
		b.enc.AddUInt(v)
	}
	if err := b.enc.EndVector(true, true); err != nil {
		b.fail(err)
	}
}

// FixedFloats is the float counterpart of FixedInts.
func (b *VectorBuilder) FixedFloats(vals []float64) {
	if !b.ok() {
		return
	}
	b.enc.StartVector()
	for _, v := range vals {
		b.enc.AddFloat(v)
	}
	if err := b.enc.EndVector(true, true); err != nil {
		b.fail(err)
	}
}

// Vector opens a nested heterogeneous vector scope.
func (b *VectorBuilder) Vector(populate func(*VectorBuilder)) {
	if !b.ok() {
		return
	}
	b.enc.StartVector()
	populate(&VectorBuilder{enc: b.enc, err: b.err})
	if !b.ok() {
		return
	}
	if err := b.enc.EndVector(false, false); err != nil {
		b.fail(err)
	}
}

// Map opens a nested map scope.
func (b *VectorBuilder) Map(populate func(*MapBuilder)) {
	if !b.ok() {
		return
	}
	b.enc.StartMap()
	populate(&MapBuilder{enc: b.enc, err: b.err})
	if !b.ok() {
		return
	}
	if err := b.enc.SortAndEndMap(); err != nil {
		b.fail(err)
	}
}

// --- MapBuilder key/value primitives ---

func (b *MapBuilder) AddNull(key string) {
	if b.ok() {
		b.enc.AddKey(key)
		b.enc.AddNull()
	}
}
func (b *MapBuilder) AddBool(key string, v bool) {
	if b.ok() {
		b.enc.AddKey(key)
		b.enc.AddBool(v)
	}
}
func (b *MapBuilder) AddInt(key string, v int64) {
	if b.ok() {
		b.enc.AddKey(key)
		b.enc.AddInt(v)
	}
}
func (b *MapBuilder) AddUInt(key string, v uint64) {
	if b.ok() {
		b.enc.AddKey(key)
		b.enc.AddUInt(v)
	}
}
func (b *MapBuilder) AddFloat(key string, v float64) {
	if b.ok() {
		b.enc.AddKey(key)
		b.enc.AddFloat(v)
	}
}
func (b *MapBuilder) AddString(key string, v string) {
	if b.ok() {
		b.enc.AddKey(key)
		b.enc.AddString(v)
	}
}
func (b *MapBuilder) AddBlob(key string, v []byte) {
	if b.ok() {
		b.enc.AddKey(key)
		b.enc.AddBlob(v)
	}
}

func (b *MapBuilder) AddIndirectInt(key string, v int64) {
	if b.ok() {
		b.enc.AddKey(key)
		b.enc.AddIndirectInt(v)
	}
}
func (b *MapBuilder) AddIndirectUInt(key string, v uint64) {
	if b.ok() {
		b.enc.AddKey(key)
		b.enc.AddIndirectUInt(v)
	}
}
func (b *MapBuilder) AddIndirectFloat(key string, v float64) {
	if b.ok() {
		b.enc.AddKey(key)
		b.enc.AddIndirectFloat(v)
	}
}

// IntArray adds key with a typed vector of ints as its value.
func (b *MapBuilder) IntArray(key string, vals []int64) {
	if !b.ok() {
		return
	}
	b.enc.AddKey(key)
	b.enc.StartVector()
	for _, v := range vals {
		b.enc.AddInt(v)
	}
	if err := b.enc.EndVector(true, false); err != nil {
		b.fail(err)
	}
}

// UIntArray adds key with a typed vector of unsigned ints as its value.
func (b *MapBuilder) UIntArray(key string, vals []uint64) {
	if !b.ok() {
		return
	}
	b.enc.AddKey(key)
	b.enc.StartVector()
	for _, v := range vals {
		b.enc.AddUInt(v)
	}
	if err := b.enc.EndVector(true, false); err != nil {
		b.fail(err)
	}
}

// FloatArray adds key with a typed vector of floats as its value.
func (b *MapBuilder) FloatArray(key string, vals []float64) {
	if !b.ok() {
		return
	}
	b.enc.AddKey(key)
	b.enc.StartVector()
	for _, v := range vals {
		b.enc.AddFloat(v)
	}
	if err := b.enc.EndVector(true, false); err != nil {
		b.fail(err)
	}
}

// Vector adds key with a nested heterogeneous vector as its value.
func (b *MapBuilder) Vector(key string, populate func(*VectorBuilder)) {
	if !b.ok() {
		return
	}
	b.enc.AddKey(key)
	b.enc.StartVector()
	populate(&VectorBuilder{enc: b.enc, err: b.err})
	if !b.ok() {
		return
	}
	if err := b.enc.EndVector(false, false); err != nil {
		b.fail(err)
	}
}

// Map adds key with a nested map as its value.
func (b *MapBuilder) Map(key string, populate func(*MapBuilder)) {
	if !b.ok() {
		return
	}
	b.enc.AddKey(key)
	b.enc.StartMap()
	populate(&MapBuilder{enc: b.enc, err: b.err})
	if !b.ok() {
		return
	}
	if err := b.enc.SortAndEndMap(); err != nil {
		b.fail(err)
	}
}
