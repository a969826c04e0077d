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
	"math"

	"golang.org/x/exp/slices"
)

// Encoder is a single-pass, forward-only FlexBuffers writer. It owns a
// sink, a stack of pending values, and two content-addressed pools for
// strings and keys. Construct an Encoder with NewEncoder, which creates
// those pools; the zero value has no pools, so AddString, AddRawString,
// AddKey and Reset on it panic.
//
// Every Start call (StartVector, StartMap) must be paired with exactly
// one matching End call (EndVector, SortAndEndMap); Finish requires
// exactly one value left on the stack. Any error returned by an Encoder
// method is fatal to that instance: there is no partial-recovery path,
// and the Encoder must be discarded (§7).
type Encoder struct {
	sink    sink
	stack   []stackEntry
	scopes  []int
	strings *pool
	keys    *pool
}

// NewEncoder returns a ready-to-use Encoder.
func NewEncoder() *Encoder {
	e := &Encoder{}
	e.strings = newPool(&e.sink)
	e.keys = newPool(&e.sink)
	return e
}

// Reset returns e to its initial empty state, discarding all buffered
// content and interned strings/keys.
func (e *Encoder) Reset() {
	e.sink.reset()
	e.stack = e.stack[:0]
	e.scopes = e.scopes[:0]
	e.strings.reset()
	e.keys.reset()
}

// Set installs p as the buffer e appends to, first resetting e.
func (e *Encoder) Set(p []byte) {
	e.Reset()
	e.sink.set(p)
}

// Bytes returns the encoder's current buffer contents. The slice is only
// valid until the next mutating call.
func (e *Encoder) Bytes() []byte {
	return e.sink.bytes()
}

func (e *Encoder) push(v stackEntry) {
	e.stack = append(e.stack, v)
}

// --- scalar and indirect-scalar primitives (§4.4) ---

// AddNull pushes a null value.
func (e *Encoder) AddNull() {
	e.push(stackEntry{typeTag: Null, minWidth: W8})
}

// AddBool pushes a boolean value.
func (e *Encoder) AddBool(v bool) {
	var bits uint64
	if v {
		bits = 1
	}
	e.push(stackEntry{typeTag: Bool, minWidth: W8, payload: bits})
}

// AddInt pushes a signed integer, choosing the smallest width that fits.
func (e *Encoder) AddInt(v int64) {
	e.push(stackEntry{typeTag: Int, minWidth: WidthInt(v), payload: uint64(v)})
}

// AddUInt pushes an unsigned integer, choosing the smallest width that fits.
func (e *Encoder) AddUInt(v uint64) {
	e.push(stackEntry{typeTag: UInt, minWidth: WidthUint(v), payload: v})
}

// AddFloat pushes a float, using 32-bit storage when v round-trips
// through float32 bit-exactly and 64-bit storage otherwise.
func (e *Encoder) AddFloat(v float64) {
	w := WidthFloat(v)
	var bits uint64
	if w == W32 {
		bits = uint64(math.Float32bits(float32(v)))
	} else {
		bits = math.Float64bits(v)
	}
	e.push(stackEntry{typeTag: Float, minWidth: w, payload: bits})
}

// AddIndirectInt stores v out-of-line at its natural width and pushes a
// reference to it. Useful to keep an enclosing vector's element width
// small when one value in it would otherwise force every sibling wider.
func (e *Encoder) AddIndirectInt(v int64) {
	w := WidthInt(v)
	e.sink.padTo(w.Bytes())
	off := e.sink.reserve(w.Bytes())
	e.sink.writeUint(off, uint64(v), w.Bytes())
	e.push(stackEntry{
		typeTag:  IndirectInt,
		minWidth: w,
		payload:  uint64(off),
		isOffset: true,
	})
}

// AddIndirectUInt is the unsigned counterpart of AddIndirectInt.
func (e *Encoder) AddIndirectUInt(v uint64) {
	w := WidthUint(v)
	e.sink.padTo(w.Bytes())
	off := e.sink.reserve(w.Bytes())
	e.sink.writeUint(off, v, w.Bytes())
	e.push(stackEntry{
		typeTag:  IndirectUInt,
		minWidth: w,
		payload:  uint64(off),
		isOffset: true,
	})
}

// AddIndirectFloat is the float counterpart of AddIndirectInt.
func (e *Encoder) AddIndirectFloat(v float64) {
	w := WidthFloat(v)
	e.sink.padTo(w.Bytes())
	off := e.sink.reserve(w.Bytes())
	if w == W32 {
		e.sink.writeUint(off, uint64(math.Float32bits(float32(v))), 4)
	} else {
		e.sink.writeUint(off, math.Float64bits(v), 8)
	}
	e.push(stackEntry{
		typeTag:  IndirectFloat,
		minWidth: w,
		payload:  uint64(off),
		isOffset: true,
	})
}

// --- strings, keys, blobs (§4.4, §6.6-§6.8) ---

// AddString interns s (UTF-8 bytes, written verbatim per the §9 open
// question on validation: invalid UTF-8 is passed through rather than
// rejected) and pushes a reference to it. Encoding the same string twice
// emits its bytes only once (P6).
func (e *Encoder) AddString(s string) {
	e.addStringBytes([]byte(s))
}

// AddRawString is identical to AddString but takes 8-bit-clean bytes
// directly, for callers whose payload is not valid UTF-8 and whose string
// type would otherwise reject it.
func (e *Encoder) AddRawString(b []byte) {
	e.addStringBytes(b)
}

func (e *Encoder) addStringBytes(data []byte) {
	// lw is the width of the string's own length prefix (§6.6), a
	// function of len(data) alone; it must not be re-derived from the
	// sink position, which would make the same interned string record a
	// different width depending on how much else has been written since.
	lw := WidthUint(uint64(len(data)))
	if off, ok := e.strings.find(data); ok {
		e.push(stackEntry{
			typeTag:  String,
			minWidth: lw,
			payload:  uint64(off),
			isOffset: true,
		})
		return
	}
	e.sink.padTo(lw.Bytes())
	lenPos := e.sink.reserve(lw.Bytes())
	e.sink.writeUint(lenPos, uint64(len(data)), lw.Bytes())
	contentOff := e.sink.appendBytes(data)
	e.sink.appendByte(0)
	e.strings.record(data, contentOff)
	e.push(stackEntry{
		typeTag:  String,
		minWidth: lw,
		payload:  uint64(contentOff),
		isOffset: true,
	})
}

// AddKey interns k (null-terminated, always width 1) and pushes a
// reference to it. An AddKey call must immediately precede every value
// appended inside a map scope (I4); SortAndEndMap verifies this
// positionally.
func (e *Encoder) AddKey(k string) {
	data := []byte(k)
	if off, ok := e.keys.find(data); ok {
		e.push(stackEntry{typeTag: Key, minWidth: W8, payload: uint64(off), isOffset: true})
		return
	}
	contentOff := e.sink.appendBytes(data)
	e.sink.appendByte(0)
	e.keys.record(data, contentOff)
	e.push(stackEntry{typeTag: Key, minWidth: W8, payload: uint64(contentOff), isOffset: true})
}

// AddBlob pushes a length-prefixed, unterminated byte blob (§6.8). Blobs
// are not deduplicated.
func (e *Encoder) AddBlob(b []byte) {
	lw := WidthUint(uint64(len(b)))
	e.sink.padTo(lw.Bytes())
	lenPos := e.sink.reserve(lw.Bytes())
	e.sink.writeUint(lenPos, uint64(len(b)), lw.Bytes())
	contentOff := e.sink.appendBytes(b)
	e.push(stackEntry{
		typeTag:  Blob,
		minWidth: lw,
		payload:  uint64(contentOff),
		isOffset: true,
	})
}

// --- scope management (§3 Invariant I3) ---

// StartVector opens a vector scope. It must be paired with exactly one
// call to EndVector.
func (e *Encoder) StartVector() {
	e.scopes = append(e.scopes, len(e.stack))
}

// StartMap opens a map scope. It must be paired with exactly one call to
// SortAndEndMap.
func (e *Encoder) StartMap() {
	e.scopes = append(e.scopes, len(e.stack))
}

func (e *Encoder) popScope(fn string) (int, error) {
	if len(e.scopes) == 0 {
		return 0, scopeErr(fn, "no matching Start call")
	}
	start := e.scopes[len(e.scopes)-1]
	e.scopes = e.scopes[:len(e.scopes)-1]
	return start, nil
}

// --- width-relaxation fixpoint (§4.4, §9) ---

func align(n, a int) int {
	if n%a == 0 {
		return n
	}
	return n + (a - n%a)
}

func nextWidth(w Width) Width {
	switch w {
	case W8:
		return W16
	case W16:
		return W32
	default:
		return W64
	}
}

// vectorWidth computes the minimum element width W for elems, given that
// the vector payload will begin at some position computed by aligning
// sinkLen up to W (plus, if !fixed, one more W-wide slot for the length
// prefix). The loop is bounded to the four possible widths (§9).
func vectorWidth(elems []stackEntry, sinkLen int, fixed bool) Width {
	w := W8
	for _, en := range elems {
		w = w.max(en.minWidth)
	}
	for {
		base := align(sinkLen, w.Bytes())
		elemStart := base
		if !fixed {
			elemStart = base + w.Bytes()
		}
		ok := fixed || fits(uint64(len(elems)), w)
		if ok {
			for i, en := range elems {
				if !en.isOffset {
					continue
				}
				pos := elemStart + i*w.Bytes()
				rel := uint64(pos) - en.payload
				if !fits(rel, w) {
					ok = false
					break
				}
			}
		}
		if ok || w == W64 {
			return w
		}
		w = nextWidth(w)
	}
}

// rootWidth computes the width of the root suffix's value slot (§4.4
// finish()), by the same align-then-check logic as vectorWidth but for a
// single entry with no length prefix.
func rootWidth(root stackEntry, sinkLen int) Width {
	if !root.isOffset {
		return root.minWidth
	}
	w := widthUintForOffset(sinkLen, int(root.payload))
	for {
		pos := align(sinkLen, w.Bytes())
		rel := uint64(pos) - root.payload
		if fits(rel, w) || w == W64 {
			return w
		}
		w = nextWidth(w)
	}
}

// writeSlots pads to w, optionally writes a length prefix (count at width
// w), then writes each element's w-byte slot (scalar bits or relative
// offset). It returns the absolute offset of the first element slot.
func (e *Encoder) writeSlots(elems []stackEntry, w Width, fixed bool) int {
	e.sink.padTo(w.Bytes())
	var lenPos int
	if !fixed {
		lenPos = e.sink.reserve(w.Bytes())
	}
	elemStart := e.sink.reserve(w.Bytes() * len(elems))
	for i, en := range elems {
		pos := elemStart + i*w.Bytes()
		var v uint64
		if en.isOffset {
			v = en.relativeOffset(pos)
		} else {
			v = en.payload
		}
		e.sink.writeUint(pos, v, w.Bytes())
	}
	if !fixed {
		e.sink.writeUint(lenPos, uint64(len(elems)), w.Bytes())
	}
	return elemStart
}

func (e *Encoder) writeTypeTable(elems []stackEntry) {
	for _, en := range elems {
		e.sink.appendByte(PackedType(en.typeTag, en.minWidth))
	}
}

// EndVector closes the vector scope most recently opened with
// StartVector, consuming every value pushed since (§4.4).
//
// typed requests a homogeneous typed vector (no per-element type table);
// the caller is responsible for having pushed only same-tag scalar
// elements in that case. fixed additionally omits the length prefix and
// requires exactly 2, 3, or 4 elements, producing a VectorInt2/3/4-style
// fixed tuple.
func (e *Encoder) EndVector(typed, fixed bool) error {
	start, err := e.popScope("EndVector")
	if err != nil {
		return err
	}
	elems := append([]stackEntry(nil), e.stack[start:]...)
	e.stack = e.stack[:start]

	if fixed && (len(elems) < 2 || len(elems) > 4) {
		return scopeErr("EndVector", "fixed vector must have 2, 3, or 4 elements")
	}
	var elemType Type
	if len(elems) > 0 {
		elemType = elems[0].typeTag
	}
	if typed {
		if elemType.isAnyVector() || elemType == Map {
			return scopeErr("EndVector", "typed vector elements must be scalar, not Vector/Map")
		}
		for _, en := range elems {
			if en.typeTag != elemType {
				return scopeErr("EndVector", "typed vector requires homogeneous elements")
			}
		}
	}

	w := vectorWidth(elems, e.sink.len(), fixed)
	elemStart := e.writeSlots(elems, w, fixed)
	if !typed {
		e.writeTypeTable(elems)
	}

	var tag Type
	switch {
	case fixed:
		var ok bool
		tag, ok = fixedTypedVector(elemType, len(elems))
		if !ok {
			return scopeErr("EndVector", "fixed vector element type must be Int, UInt, or Float")
		}
	case typed:
		tag = typedVectorOf(elemType)
	default:
		tag = Vector
	}

	e.push(stackEntry{
		typeTag:  tag,
		minWidth: w,
		payload:  uint64(elemStart),
		isOffset: true,
	})
	return nil
}

// keyBytes returns the null-terminated key's content bytes (excluding the
// terminator) starting at the given absolute offset.
func (e *Encoder) keyBytes(offset int) []byte {
	buf := e.sink.buf
	end := offset
	for end < len(buf) && buf[end] != 0 {
		end++
	}
	return buf[offset:end]
}

// keysVectorWidth computes the width needed for the keys vector (no
// length prefix of its own) plus the map descriptor's keys_vector_offset
// field that will immediately follow it (§6.5), which sits strictly
// farther from the keys' content than any individual key element.
func keysVectorWidth(keys []stackEntry, sinkLen int) Width {
	w := W8
	for _, k := range keys {
		w = w.max(k.minWidth)
	}
	for {
		elemStart := align(sinkLen, w.Bytes())
		ok := true
		for i, k := range keys {
			pos := elemStart + i*w.Bytes()
			rel := uint64(pos) - k.payload
			if !fits(rel, w) {
				ok = false
				break
			}
		}
		if ok {
			descPos := align(elemStart+len(keys)*w.Bytes(), w.Bytes())
			rel := uint64(descPos) - uint64(elemStart)
			if !fits(rel, w) {
				ok = false
			}
		}
		if ok || w == W64 {
			return w
		}
		w = nextWidth(w)
	}
}

// SortAndEndMap closes the map scope most recently opened with StartMap
// (§4.4). The pending stack suffix must alternate Key, value, Key,
// value, ...; pairs are reordered by the UTF-8 byte-lexicographic order
// of their keys (P5) before being emitted. Duplicate keys are passed
// through undefined but valid, per §4.4 step 3.
func (e *Encoder) SortAndEndMap() error {
	start, err := e.popScope("SortAndEndMap")
	if err != nil {
		return err
	}
	elems := append([]stackEntry(nil), e.stack[start:]...)
	e.stack = e.stack[:start]

	if len(elems)%2 != 0 {
		return mapErr("SortAndEndMap", "odd number of pending entries")
	}
	n := len(elems) / 2
	type pair struct {
		key     stackEntry
		val     stackEntry
		keyData []byte
	}
	pairs := make([]pair, n)
	for i := 0; i < n; i++ {
		k := elems[2*i]
		v := elems[2*i+1]
		if k.typeTag != Key {
			return mapErr("SortAndEndMap", "value appended without a preceding AddKey")
		}
		pairs[i] = pair{key: k, val: v, keyData: e.keyBytes(int(k.payload))}
	}
	slices.SortFunc(pairs, func(a, b pair) bool {
		return bytes.Compare(a.keyData, b.keyData) < 0
	})

	keys := make([]stackEntry, n)
	vals := make([]stackEntry, n)
	for i, p := range pairs {
		keys[i] = p.key
		vals[i] = p.val
	}

	kw := keysVectorWidth(keys, e.sink.len())
	e.sink.padTo(kw.Bytes())
	keysOffset := e.sink.reserve(kw.Bytes() * n)
	for i, k := range keys {
		pos := keysOffset + i*kw.Bytes()
		e.sink.writeUint(pos, k.relativeOffset(pos), kw.Bytes())
	}

	e.sink.padTo(kw.Bytes())
	descPos := e.sink.reserve(2 * kw.Bytes())
	e.sink.writeUint(descPos, uint64(descPos)-uint64(keysOffset), kw.Bytes())
	e.sink.writeUint(descPos+kw.Bytes(), uint64(kw.Bytes()), kw.Bytes())

	w := vectorWidth(vals, e.sink.len(), false)
	valsOffset := e.writeSlots(vals, w, false)
	e.writeTypeTable(vals)

	e.push(stackEntry{
		typeTag:  Map,
		minWidth: w,
		payload:  uint64(valsOffset),
		isOffset: true,
	})
	return nil
}

// Finish requires exactly one value remain on the stack (I2) and no open
// Start scopes, then appends the three-field root suffix (§4.4, §6.9):
// the root value's slot, its packed type byte, and the slot's byte width.
func (e *Encoder) Finish() ([]byte, error) {
	if len(e.scopes) != 0 {
		return nil, scopeErr("Finish", "unbalanced StartVector/StartMap scope")
	}
	if len(e.stack) != 1 {
		return nil, scopeErr("Finish", "exactly one root value is required")
	}
	root := e.stack[0]
	rw := rootWidth(root, e.sink.len())
	e.sink.padTo(rw.Bytes())
	pos := e.sink.reserve(rw.Bytes())
	var v uint64
	if root.isOffset {
		v = root.relativeOffset(pos)
	} else {
		v = root.payload
	}
	e.sink.writeUint(pos, v, rw.Bytes())
	e.sink.appendByte(PackedType(root.typeTag, root.minWidth))
	e.sink.appendByte(byte(rw.Bytes()))
	e.stack = e.stack[:0]
	return e.sink.bytes(), nil
}
