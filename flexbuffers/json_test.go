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
	"encoding/json"
	"testing"
)

func fromJSONString(t *testing.T, src string) []byte {
	t.Helper()
	buf, err := FromJSON(json.NewDecoder(bytes.NewReader([]byte(src))))
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestFromJSONScalars(t *testing.T) {
	cases := []string{"null", "true", "false", "1", "-257", "1.5", `"hi"`}
	for _, c := range cases {
		buf := fromJSONString(t, c)
		if len(buf) == 0 {
			t.Errorf("FromJSON(%q) produced an empty buffer", c)
		}
	}
}

func TestFromJSONObject(t *testing.T) {
	buf := fromJSONString(t, `{"b": 2, "a": 1}`)
	_, _, typ := rootSuffix(buf)
	if typ != Map {
		t.Fatalf("root type = %v, want Map", typ)
	}
}

func TestFromJSONArray(t *testing.T) {
	buf := fromJSONString(t, `[1, "two", 3.0, null, true]`)
	_, _, typ := rootSuffix(buf)
	if typ != Vector {
		t.Fatalf("root type = %v, want Vector", typ)
	}
}

func TestFromJSONNested(t *testing.T) {
	buf := fromJSONString(t, `{"items": [{"id": 1}, {"id": 2}], "count": 2}`)
	_, _, typ := rootSuffix(buf)
	if typ != Map {
		t.Fatalf("root type = %v, want Map", typ)
	}
}

func TestFromJSONRejectsInvalidInput(t *testing.T) {
	_, err := FromJSON(json.NewDecoder(bytes.NewReader([]byte("not json"))))
	if err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestFromJSONLargeIntegerBecomesFloat(t *testing.T) {
	// Not representable as int64 but still a valid float64, so it must
	// fall back to Float rather than erroring out.
	buf := fromJSONString(t, "1e300")
	_, _, typ := rootSuffix(buf)
	if typ != Float {
		t.Fatalf("root type = %v, want Float for an out-of-int64-range number", typ)
	}
}
