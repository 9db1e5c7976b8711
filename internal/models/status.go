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
	"fmt"
)

// DeliveryStatus is the lifecycle state of an envelope.
type DeliveryStatus string

const (
	// StatusPending is an envelope waiting to become eligible for a claim.
	StatusPending DeliveryStatus = "pending"
	// StatusProcessing is an envelope claimed by exactly one worker attempt.
	StatusProcessing DeliveryStatus = "processing"
	// StatusSent is a delivered envelope. Terminal.
	StatusSent DeliveryStatus = "sent"
	// StatusFailed is an envelope whose last attempt failed. It may be
	// promoted back to pending while the retry budget lasts.
	StatusFailed DeliveryStatus = "failed"
	// StatusCancelled is an envelope withdrawn before any claim. Terminal.
	StatusCancelled DeliveryStatus = "cancelled"
)

// Valid reports whether s is one of the known states.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusSent, StatusFailed, StatusCancelled:
		return true
	}

	return false
}

// Terminal reports whether no further transition out of s is possible.
func (s DeliveryStatus) Terminal() bool {
	return s == StatusSent || s == StatusCancelled
}

// CanTransition reports whether the state machine permits moving from s to
// next.
func (s DeliveryStatus) CanTransition(next DeliveryStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusCancelled
	case StatusProcessing:
		return next == StatusSent || next == StatusFailed
	case StatusFailed:
		return next == StatusPending
	}

	return false
}

// String returns the stable identifier.
func (s DeliveryStatus) String() string {
	return string(s)
}

// Scan implements the sql.Scanner interface.
func (s *DeliveryStatus) Scan(src interface{}) error {
	v, err := driver.String.ConvertValue(src)
	if err != nil {
		return err
	}

	raw, ok := v.(string)
	if !ok {
		return fmt.Errorf("models: cannot scan %T into DeliveryStatus", src)
	}

	status := DeliveryStatus(raw)
	if !status.Valid() {
		return fmt.Errorf("models: unknown delivery status %q", raw)
	}

	*s = status
	return nil
}

// Value implements the driver.Valuer interface.
func (s DeliveryStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("models: unknown delivery status %q", string(s))
	}

	return string(s), nil
}
