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

func TestFromYAMLObject(t *testing.T) {
	src := []byte("name: sensor-1\ncount: 3\nactive: true\n")
	buf, err := FromYAML(src)
	if err != nil {
		t.Fatal(err)
	}
	_, _, typ := rootSuffix(buf)
	if typ != Map {
		t.Fatalf("root type = %v, want Map", typ)
	}
}

func TestFromYAMLSequence(t *testing.T) {
	src := []byte("- 1\n- 2\n- 3\n")
	buf, err := FromYAML(src)
	if err != nil {
		t.Fatal(err)
	}
	_, _, typ := rootSuffix(buf)
	if typ != Vector {
		t.Fatalf("root type = %v, want Vector", typ)
	}
}

func TestFromYAMLRejectsInvalid(t *testing.T) {
	_, err := FromYAML([]byte("not: valid: yaml: at: all: :::"))
	if err == nil {
		t.Fatal("expected a decode error")
	}
}
