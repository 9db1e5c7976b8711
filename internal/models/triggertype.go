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

// TriggerType is the closed set of domain events the pipeline reacts to.
// The identifier strings are stable; trigger records key off them.
type TriggerType string

const (
	TriggerUserRegistration     TriggerType = "user_registration"
	TriggerApplicationSubmitted TriggerType = "application_submitted"
	TriggerApplicationReviewed  TriggerType = "application_reviewed"
	TriggerInterviewScheduled   TriggerType = "interview_scheduled"
	TriggerApplicationApproved  TriggerType = "application_approved"
	TriggerApplicationRejected  TriggerType = "application_rejected"
	TriggerPasswordReset        TriggerType = "password_reset"
	TriggerWelcome              TriggerType = "welcome"
	TriggerCustom               TriggerType = "custom"
)

// TriggerTypes lists every known trigger type.
var TriggerTypes = []TriggerType{
	TriggerUserRegistration,
	TriggerApplicationSubmitted,
	TriggerApplicationReviewed,
	TriggerInterviewScheduled,
	TriggerApplicationApproved,
	TriggerApplicationRejected,
	TriggerPasswordReset,
	TriggerWelcome,
	TriggerCustom,
}

// ParseTriggerType checks a raw tag against the known set.
func ParseTriggerType(raw string) (TriggerType, error) {
	t := TriggerType(raw)
	if !t.Valid() {
		return "", fmt.Errorf("models: unknown trigger type %q", raw)
	}

	return t, nil
}

// Valid reports whether t is one of the known trigger types.
func (t TriggerType) Valid() bool {
	switch t {
	case TriggerUserRegistration,
		TriggerApplicationSubmitted,
		TriggerApplicationReviewed,
		TriggerInterviewScheduled,
		TriggerApplicationApproved,
		TriggerApplicationRejected,
		TriggerPasswordReset,
		TriggerWelcome,
		TriggerCustom:
		return true
	}

	return false
}

// String returns the stable identifier.
func (t TriggerType) String() string {
	return string(t)
}

// Scan implements the sql.Scanner interface. Unknown tags are rejected at
// load time.
func (t *TriggerType) Scan(src interface{}) error {
	s, err := driver.String.ConvertValue(src)
	if err != nil {
		return err
	}

	raw, ok := s.(string)
	if !ok {
		return fmt.Errorf("models: cannot scan %T into TriggerType", src)
	}

	v, err := ParseTriggerType(raw)
	if err != nil {
		return err
	}

	*t = v
	return nil
}

// Value implements the driver.Valuer interface.
func (t TriggerType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("models: unknown trigger type %q", string(t))
	}

	return string(t), nil
}
