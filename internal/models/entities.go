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
	"database/sql"
)

// SMTPConfigEntity is the entity for the "smtp_configs" table. It is a named
// delivery profile owned by operators.
type SMTPConfigEntity struct {
	ID            int64  `db:"id"`
	Name          string `db:"name"`
	Host          string `db:"host"`
	Port          int    `db:"port"`
	UseTLS        bool   `db:"use_tls"`
	UseSSL        bool   `db:"use_ssl"`
	Username      string `db:"username"`
	Password      string `db:"password"`
	FromEmail     string `db:"from_email"`
	FromName      string `db:"from_name"`
	AllowInsecure bool   `db:"allow_insecure"`
	IsActive      bool   `db:"is_active"`
	IsDefault     bool   `db:"is_default"`
	CreatedAt     int64  `db:"created_at"`
	UpdatedAt     int64  `db:"updated_at"`
}

// TemplateEntity is the entity for the "templates" table. Subject, html and
// text are interpolation blueprints; variables documents the expected context
// keys and is not enforced.
type TemplateEntity struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	TriggerType TriggerType    `db:"trigger_type"`
	Subject     string         `db:"subject"`
	HTMLContent string         `db:"html_content"`
	TextContent sql.NullString `db:"text_content"`
	Variables   ContextMap     `db:"variables"`
	IsActive    bool           `db:"is_active"`
	CreatedAt   int64          `db:"created_at"`
	UpdatedAt   int64          `db:"updated_at"`
}

// TriggerEntity is the entity for the "triggers" table. It binds a domain
// event type to a template, a transport profile and a queueing policy.
type TriggerEntity struct {
	ID           int64       `db:"id"`
	Name         string      `db:"name"`
	TriggerType  TriggerType `db:"trigger_type"`
	TemplateID   int64       `db:"template_id"`
	SMTPConfigID int64       `db:"smtp_config_id"`
	IsActive     bool        `db:"is_active"`
	Priority     Priority    `db:"priority"`
	DelayMinutes int         `db:"delay_minutes"`
	Conditions   ContextMap  `db:"conditions"`
	CreatedAt    int64       `db:"created_at"`
	UpdatedAt    int64       `db:"updated_at"`
}

// EnvelopeEntity is the entity for the "envelopes" table. One row per send
// request, rendered and addressable, owned by the pipeline.
type EnvelopeEntity struct {
	ID           string         `db:"id"`
	TriggerID    int64          `db:"trigger_id"`
	ToEmail      string         `db:"to_email"`
	ToName       sql.NullString `db:"to_name"`
	Subject      string         `db:"subject"`
	HTMLContent  string         `db:"html_content"`
	TextContent  sql.NullString `db:"text_content"`
	ContextData  ContextMap     `db:"context_data"`
	Status       DeliveryStatus `db:"status"`
	Priority     Priority       `db:"priority"`
	ScheduledAt  int64          `db:"scheduled_at"`
	SentAt       sql.NullInt64  `db:"sent_at"`
	ErrorMessage sql.NullString `db:"error_message"`
	RetryCount   int            `db:"retry_count"`
	MaxRetries   int            `db:"max_retries"`
	ClaimedAt    sql.NullInt64  `db:"claimed_at"`
	ClaimedBy    sql.NullString `db:"claimed_by"`
	CreatedAt    int64          `db:"created_at"`
	UpdatedAt    int64          `db:"updated_at"`
}

// CanRetry reports whether a failed envelope may be promoted back to pending.
// The attempts counter is a diagnostic, not a budget: it counts every attempt
// including the successful one.
func (e *EnvelopeEntity) CanRetry() bool {
	return e.Status == StatusFailed && e.RetryCount < e.MaxRetries
}

// LogEntity is the entity for the "logs" table. One row per delivery attempt,
// append-only.
type LogEntity struct {
	ID                int64          `db:"id"`
	EnvelopeID        string         `db:"envelope_id"`
	TriggerID         int64          `db:"trigger_id"`
	SMTPConfigID      sql.NullInt64  `db:"smtp_config_id"`
	ToEmail           string         `db:"to_email"`
	ToName            sql.NullString `db:"to_name"`
	Subject           string         `db:"subject"`
	Status            DeliveryStatus `db:"status"`
	SentAt            sql.NullInt64  `db:"sent_at"`
	ErrorMessage      sql.NullString `db:"error_message"`
	RetryCount        int            `db:"retry_count"`
	ProcessingSeconds float64        `db:"processing_seconds"`
	CreatedAt         int64          `db:"created_at"`
}
