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
	"encoding/json"
	"fmt"
	"io"
)

// FromJSON decodes exactly one JSON datum from dec and returns it as a
// finished FlexBuffers buffer: JSON objects become Maps (key order is
// not preserved — SortAndEndMap re-sorts them), arrays become
// heterogeneous Vectors, and numbers whose literal parses as an int64
// become Int, all others (fractions, exponents such as 1.0 or 1e3, and
// integers outside the int64 range) Float; UInt is never produced. Only
// the first datum is read: anything after it is left in dec and not
// checked. This mirrors this
// repository's own JSON-to-self-describing-binary ingestion path, just
// targeting FlexBuffers append calls instead of ion.Datum construction.
func FromJSON(dec *json.Decoder) ([]byte, error) {
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	enc := NewEncoder()
	if err := fromJSON(enc, tok, dec); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return enc.Finish()
}

func jsonObject(enc *Encoder, dec *json.Decoder) error {
	enc.StartMap()
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if tok == json.Delim('}') {
			break
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("flexbuffers.FromJSON: expected a string object key; found %v", tok)
		}
		val, err := dec.Token()
		if err != nil {
			return err
		}
		enc.AddKey(key)
		if err := fromJSON(enc, val, dec); err != nil {
			return err
		}
	}
	return enc.SortAndEndMap()
}

func jsonArray(enc *Encoder, dec *json.Decoder) error {
	enc.StartVector()
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if tok == json.Delim(']') {
			break
		}
		if err := fromJSON(enc, tok, dec); err != nil {
			return err
		}
	}
	return enc.EndVector(false, false)
}

func fromJSON(enc *Encoder, tok json.Token, dec *json.Decoder) error {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case json.Delim('{'):
			return jsonObject(enc, dec)
		case json.Delim('['):
			return jsonArray(enc, dec)
		}
		return fmt.Errorf("flexbuffers.FromJSON: unexpected delimiter %v", t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			enc.AddInt(i)
			return nil
		}
		f, err := t.Float64()
		if err != nil {
			return fmt.Errorf("flexbuffers.FromJSON: number %q out of range", t.String())
		}
		enc.AddFloat(f)
		return nil
	case string:
		enc.AddString(t)
		return nil
	case bool:
		enc.AddBool(t)
		return nil
	case nil:
		enc.AddNull()
		return nil
	default:
		return fmt.Errorf("flexbuffers.FromJSON: unexpected token %v", t)
	}
}
