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

// stackEntry is a pending value awaiting either inline emission (when its
// enclosing vector/map closes) or it is itself the thing that was already
// emitted out-of-line (strings, blobs, indirect scalars, nested
// maps/vectors), in which case payload is an absolute sink offset.
//
// Invariant I1 (width relaxability): for an offset-pointing entry, payload
// is absolute and never changes; EndVector/SortAndEndMap recompute the
// relative offset under successively wider trial widths until all
// elements of the enclosing scope fit.
type stackEntry struct {
	typeTag  Type
	minWidth Width // width of the inline bits, or of the pointed-to value's own stored representation
	payload  uint64
	isOffset bool // true if payload is an absolute sink offset, not raw bits
}

// relativeOffset computes (referrerPos - e.payload), the backwards
// distance a reader subtracts from its own position to find e's content.
func (e stackEntry) relativeOffset(referrerPos int) uint64 {
	return uint64(referrerPos) - e.payload
}
