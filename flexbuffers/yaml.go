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
	"fmt"

	"sigs.k8s.io/yaml"
)

// FromYAML decodes one YAML document in src and returns it as a finished
// FlexBuffers buffer. YAML has no native representation distinct from
// JSON's data model here, so this normalizes via yaml.YAMLToJSON (the
// same bridge this library's ecosystem uses elsewhere to treat YAML as
// "JSON with a friendlier syntax") and reuses FromJSON.
func FromYAML(src []byte) ([]byte, error) {
	j, err := yaml.YAMLToJSON(src)
	if err != nil {
		return nil, fmt.Errorf("flexbuffers.FromYAML: %w", err)
	}
	return FromJSON(json.NewDecoder(bytes.NewReader(j)))
}
