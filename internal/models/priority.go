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

import "fmt"

// Priority governs claim order. Higher values are claimed first.
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityNormal Priority = 2
	PriorityHigh   Priority = 3
	PriorityUrgent Priority = 4
)

// ParsePriority checks a raw value against the 1..4 range.
func ParsePriority(raw int) (Priority, error) {
	p := Priority(raw)
	if !p.Valid() {
		return 0, fmt.Errorf("models: priority %d out of range", raw)
	}

	return p, nil
}

// Valid reports whether p is within the 1..4 range.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityUrgent
}
