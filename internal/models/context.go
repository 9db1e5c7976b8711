// Copyright (C) 2026  The mailroom authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ContextMap is a dynamic json object. Context shape varies per trigger type,
// so no per-trigger structs are imposed.
type ContextMap map[string]interface{}

// Lookup resolves a dotted path ("user.email") by descending into nested
// json objects. The second return value reports whether the path exists.
func (m ContextMap) Lookup(path string) (interface{}, bool) {
	var (
		current interface{} = map[string]interface{}(m)
		parts               = strings.Split(path, ".")
	)

	for _, part := range parts {
		var value interface{}

		switch obj := current.(type) {
		case map[string]interface{}:
			v, ok := obj[part]
			if !ok {
				return nil, false
			}
			value = v

		case ContextMap:
			v, ok := obj[part]
			if !ok {
				return nil, false
			}
			value = v

		default:
			return nil, false
		}

		current = value
	}

	return current, true
}

// Scan implements the sql.Scanner interface. Null and empty values scan to an
// empty map.
func (m *ContextMap) Scan(src interface{}) error {
	var data []byte

	switch v := src.(type) {
	case nil:
		*m = ContextMap{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("models: cannot scan %T into ContextMap", src)
	}

	if len(data) == 0 {
		*m = ContextMap{}
		return nil
	}

	return json.Unmarshal(data, m)
}

// Value implements the driver.Valuer interface.
func (m ContextMap) Value() (driver.Value, error) {
	if m == nil {
		m = ContextMap{}
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	return string(data), nil
}
