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

// Package dispatch turns domain events into queued envelopes.
package dispatch

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/induscare/mailroom/internal/database"
	"github.com/induscare/mailroom/internal/log"
	"github.com/induscare/mailroom/internal/models"
	"github.com/induscare/mailroom/internal/templates"
)

func init() {
	viper.SetDefault("queue.maxretries", 3)
}

// Request describes a domain event together with its recipient. Priority and
// Delay, when set, take precedence over the matched trigger's policy.
type Request struct {
	TriggerType models.TriggerType
	ToEmail     string
	ToName      string
	Context     models.ContextMap
	Priority    *models.Priority
	Delay       *time.Duration
}

// Dispatcher matches domain events against triggers and enqueues rendered
// envelopes.
type Dispatcher interface {
	// Dispatch enqueues an envelope for the first active trigger matching
	// the request. It returns (nil, nil) when no trigger applies, which is
	// an expected outcome and not an error.
	Dispatch(ctx context.Context, req *Request) (*models.EnvelopeEntity, error)
}

// dispatcher is the database backed Dispatcher.
type dispatcher struct {
	conn        database.Conn
	triggerDao  database.TriggerDao
	templateDao database.TemplateDao
	envelopeDao database.EnvelopeDao

	maxRetries int
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(
	conn database.Conn,
	triggerDao database.TriggerDao,
	templateDao database.TemplateDao,
	envelopeDao database.EnvelopeDao,
) Dispatcher {
	return &dispatcher{
		conn:        conn,
		triggerDao:  triggerDao,
		templateDao: templateDao,
		envelopeDao: envelopeDao,

		maxRetries: viper.GetInt("queue.maxretries"),
	}
}

func (d *dispatcher) Dispatch(ctx context.Context, req *Request) (*models.EnvelopeEntity, error) {
	ctx = log.WithTrigger(ctx, string(req.TriggerType))

	if _, err := models.ParseUnicode(req.ToEmail); err != nil {
		return nil, err
	}

	tx, err := d.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}

	defer tx.Rollback()

	trigger, err := d.matchTrigger(ctx, tx, req)
	if err != nil || trigger == nil {
		return nil, err
	}

	template, err := d.templateDao.FindByID(ctx, tx, trigger.TemplateID)
	if err != nil {
		return nil, err
	}

	rendered, err := templates.Render(template, req.Context)
	if err != nil {
		return nil, err
	}

	if missing := templates.MissingVariables(template, req.Context); len(missing) > 0 {
		log.WarnContext(ctx).
			Str("template", template.Name).
			Strs("missing", missing).
			Msg("rendering with unbound template variables")
	}

	envelope := d.makeEnvelope(req, trigger, rendered)

	if err := d.envelopeDao.Insert(ctx, tx, envelope); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.InfoContext(log.WithEnvelope(ctx, envelope.ID)).
		Str("to", envelope.ToEmail).
		Int("priority", int(envelope.Priority)).
		Int64("scheduledAt", envelope.ScheduledAt).
		Msg("envelope enqueued")

	return envelope, nil
}

// matchTrigger returns the highest-priority active trigger of the requested
// type, or nil when there is none or its conditions do not hold against the
// request context. Lower-priority triggers never act as a fallback.
func (d *dispatcher) matchTrigger(
	ctx context.Context,
	tx database.Queryer,
	req *Request,
) (*models.TriggerEntity, error) {
	triggerSlice, err := d.triggerDao.FindActiveByType(ctx, tx, req.TriggerType)
	if err != nil {
		return nil, err
	}

	if len(triggerSlice) == 0 {
		log.InfoContext(ctx).Msg("no matching trigger, dropping event")
		return nil, nil
	}

	trigger := &triggerSlice[0]

	if !conditionsHold(trigger.Conditions, req.Context) {
		log.InfoContext(ctx).
			Str("trigger", trigger.Name).
			Msg("trigger conditions not satisfied, dropping event")
		return nil, nil
	}

	return trigger, nil
}

// conditionsHold checks every condition path against the request context.
// Values are compared by their canonical json form, so a condition loaded
// from the database matches a request value of a different go type.
func conditionsHold(conditions models.ContextMap, data models.ContextMap) bool {
	for path, expected := range conditions {
		actual, ok := data.Lookup(path)
		if !ok {
			return false
		}

		if !jsonEqual(expected, actual) {
			return false
		}
	}

	return true
}

func jsonEqual(a, b interface{}) bool {
	rawA, errA := json.Marshal(a)
	rawB, errB := json.Marshal(b)

	return errA == nil && errB == nil && string(rawA) == string(rawB)
}

func (d *dispatcher) makeEnvelope(
	req *Request,
	trigger *models.TriggerEntity,
	rendered *templates.Rendered,
) *models.EnvelopeEntity {
	var (
		now      = time.Now().Unix()
		priority = trigger.Priority
		delay    = time.Duration(trigger.DelayMinutes) * time.Minute
	)

	if req.Priority != nil {
		priority = *req.Priority
	}

	if req.Delay != nil {
		delay = *req.Delay
	}

	envelope := models.EnvelopeEntity{
		ID:          uuid.NewString(),
		TriggerID:   trigger.ID,
		ToEmail:     req.ToEmail,
		Subject:     rendered.Subject,
		HTMLContent: rendered.HTMLContent,
		ContextData: req.Context,
		Status:      models.StatusPending,
		Priority:    priority,
		ScheduledAt: now + int64(delay/time.Second),
		MaxRetries:  d.maxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.ToName != "" {
		envelope.ToName = sql.NullString{String: req.ToName, Valid: true}
	}

	if rendered.TextContent != "" {
		envelope.TextContent = sql.NullString{String: rendered.TextContent, Valid: true}
	}

	if envelope.ContextData == nil {
		envelope.ContextData = models.ContextMap{}
	}

	return &envelope
}
