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

import "fmt"

// ScopeError reports that EndVector, SortAndEndMap, or Finish was called
// when the encoder's stack was not in the shape that operation requires
// (§7 UnbalancedScope). Once returned, the Encoder must be discarded;
// there is no partial recovery (§7).
type ScopeError struct {
	Func string
	Msg  string
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("flexbuffers.%s: %s", e.Func, e.Msg)
}

func scopeErr(fn, msg string) error {
	return &ScopeError{Func: fn, Msg: msg}
}

// MapError reports a malformed map scope: an odd number of pending slots
// (§7 OddMapEntries) or a value appended without a preceding AddKey
// (§7 MissingKey).
type MapError struct {
	Func string
	Msg  string
}

func (e *MapError) Error() string {
	return fmt.Sprintf("flexbuffers.%s: %s", e.Func, e.Msg)
}

func mapErr(fn, msg string) error {
	return &MapError{Func: fn, Msg: msg}
}
