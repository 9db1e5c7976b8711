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

// Package delivery drains the envelope queue and keeps it healthy.
package delivery

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/induscare/mailroom/internal/database"
	"github.com/induscare/mailroom/internal/log"
	"github.com/induscare/mailroom/internal/metrics"
	"github.com/induscare/mailroom/internal/models"
	"github.com/induscare/mailroom/internal/transport"
)

func init() {
	viper.SetDefault("delivery.batchsize", 10)
	viper.SetDefault("delivery.timeout", "30s")
	viper.SetDefault("delivery.ratelimit", 1.0)
	viper.SetDefault("delivery.burst", 5)
}

// TickStats summarizes a single queue pass.
type TickStats struct {
	Promoted  int
	Processed int
	Succeeded int
	Failed    int
}

// Worker drains due envelopes and records the outcome of every attempt.
type Worker interface {
	// Tick promotes retryable envelopes, claims a batch of due ones and
	// attempts delivery. Delivery errors are recorded per envelope and do
	// not abort the pass.
	Tick(ctx context.Context) (*TickStats, error)
	// Cancel withdraws a pending envelope from the queue. It reports false
	// when the envelope is not pending anymore.
	Cancel(ctx context.Context, id string) (bool, error)
}

// worker is the database backed Worker.
type worker struct {
	conn database.Conn

	envelopeDao   database.EnvelopeDao
	triggerDao    database.TriggerDao
	smtpConfigDao database.SMTPConfigDao
	logDao        database.LogDao

	sender  transport.Sender
	limiter *rate.Limiter
	policy  retryPolicy

	id        string
	batchSize int
	timeout   time.Duration
}

// NewWorker creates a new Worker with a process unique identity.
func NewWorker(
	conn database.Conn,
	envelopeDao database.EnvelopeDao,
	triggerDao database.TriggerDao,
	smtpConfigDao database.SMTPConfigDao,
	logDao database.LogDao,
	sender transport.Sender,
) Worker {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return &worker{
		conn: conn,

		envelopeDao:   envelopeDao,
		triggerDao:    triggerDao,
		smtpConfigDao: smtpConfigDao,
		logDao:        logDao,

		sender: sender,
		limiter: rate.NewLimiter(
			rate.Limit(viper.GetFloat64("delivery.ratelimit")),
			viper.GetInt("delivery.burst")),
		policy: newRetryPolicy(),

		id:        fmt.Sprintf("%s/%s", hostname, uuid.NewString()[:8]),
		batchSize: viper.GetInt("delivery.batchsize"),
		timeout:   viper.GetDuration("delivery.timeout"),
	}
}

func (w *worker) Tick(ctx context.Context) (*TickStats, error) {
	ctx = log.WithOrigin(ctx, "worker")

	var stats TickStats

	promoted, err := w.promoteRetries(ctx)
	if err != nil {
		return nil, err
	}

	stats.Promoted = promoted

	batch, err := w.claimBatch(ctx)
	if err != nil {
		return nil, err
	}

	for i := range batch {
		envelope := &batch[i]
		stats.Processed++

		if w.deliver(log.WithEnvelope(ctx, envelope.ID), envelope) {
			stats.Succeeded++
		} else {
			stats.Failed++
		}
	}

	if err := w.updateQueueGauge(ctx); err != nil {
		log.WarnContext(ctx).Err(err).Msg("could not update queue gauge")
	}

	return &stats, nil
}

// promoteRetries moves failed envelopes with budget left back to pending.
// The next attempt is pushed out by the backoff interval for their failure
// count.
func (w *worker) promoteRetries(ctx context.Context) (int, error) {
	tx, err := w.conn.Begin(ctx)
	if err != nil {
		return 0, err
	}

	defer tx.Rollback()

	retryable, err := w.envelopeDao.FindRetryable(ctx, tx, w.batchSize)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	promoted := 0

	for i := range retryable {
		envelope := &retryable[i]
		scheduledAt := now.Add(w.policy.delay(envelope.RetryCount)).Unix()

		err := w.envelopeDao.Retry(ctx, tx, envelope.ID, scheduledAt, now.Unix())
		if err != nil {
			if database.IsErrNoRows(err) {
				continue
			}

			return 0, err
		}

		promoted++

		log.DebugContext(log.WithEnvelope(ctx, envelope.ID)).
			Int("failures", envelope.RetryCount).
			Int64("scheduledAt", scheduledAt).
			Msg("envelope promoted for retry")
	}

	return promoted, tx.Commit()
}

// claimBatch claims due envelopes for this worker. Envelopes snatched by a
// concurrent worker between select and update are skipped.
func (w *worker) claimBatch(ctx context.Context) ([]models.EnvelopeEntity, error) {
	tx, err := w.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}

	defer tx.Rollback()

	now := time.Now().Unix()

	eligible, err := w.envelopeDao.FindEligible(ctx, tx, w.batchSize, now)
	if err != nil {
		return nil, err
	}

	claimed := eligible[:0]

	for i := range eligible {
		envelope := eligible[i]

		err := w.envelopeDao.MarkProcessing(ctx, tx, envelope.ID, w.id, now)
		if err != nil {
			if database.IsErrNoRows(err) {
				continue
			}

			return nil, err
		}

		claimed = append(claimed, envelope)
	}

	return claimed, tx.Commit()
}

// deliver attempts a single envelope and reports success. The outcome is
// persisted on the envelope and appended to the audit log either way.
func (w *worker) deliver(ctx context.Context, envelope *models.EnvelopeEntity) bool {
	var (
		start  = time.Now()
		config *models.SMTPConfigEntity
		err    error
	)

	config, err = w.resolveConfig(ctx, envelope)
	if err == nil {
		err = w.send(ctx, config, envelope)
	}

	elapsed := time.Since(start)
	metrics.DeliverySeconds.Observe(elapsed.Seconds())

	if err != nil {
		metrics.EmailFailures.Inc()
		log.ErrorContext(ctx).Err(err).Msg("delivery attempt failed")

		return w.recordOutcome(ctx, envelope, config, models.StatusFailed, err, elapsed)
	}

	metrics.EmailsSent.Inc()
	log.InfoContext(ctx).
		Str("to", envelope.ToEmail).
		Dur("elapsed", elapsed).
		Msg("envelope delivered")

	return w.recordOutcome(ctx, envelope, config, models.StatusSent, nil, elapsed)
}

// resolveConfig finds the transport profile of the envelope's trigger and
// falls back to the default profile when it is missing or disabled.
func (w *worker) resolveConfig(
	ctx context.Context,
	envelope *models.EnvelopeEntity,
) (*models.SMTPConfigEntity, error) {
	trigger, err := w.triggerDao.FindByID(ctx, w.conn, envelope.TriggerID)
	if err != nil {
		return nil, err
	}

	config, err := w.smtpConfigDao.FindByID(ctx, w.conn, trigger.SMTPConfigID)
	if err != nil && !database.IsErrNoRows(err) {
		return nil, err
	}

	if config != nil && config.IsActive {
		return config, nil
	}

	log.WarnContext(ctx).
		Int64("config", trigger.SMTPConfigID).
		Msg("trigger smtp config unavailable, falling back to default")

	return w.smtpConfigDao.FindDefault(ctx, w.conn)
}

func (w *worker) send(
	ctx context.Context,
	config *models.SMTPConfigEntity,
	envelope *models.EnvelopeEntity,
) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	return w.sender.Send(ctx, config, &transport.Message{
		ToEmail:     envelope.ToEmail,
		ToName:      envelope.ToName.String,
		Subject:     envelope.Subject,
		HTMLContent: envelope.HTMLContent,
		TextContent: envelope.TextContent.String,
	})
}

// recordOutcome finalizes the envelope state and appends an audit record in
// one transaction. It reports whether the attempt succeeded.
func (w *worker) recordOutcome(
	ctx context.Context,
	envelope *models.EnvelopeEntity,
	config *models.SMTPConfigEntity,
	status models.DeliveryStatus,
	attemptErr error,
	elapsed time.Duration,
) bool {
	now := time.Now().Unix()

	tx, err := w.conn.Begin(ctx)
	if err != nil {
		log.ErrorContext(ctx).Err(err).Msg("could not record delivery outcome")
		return false
	}

	defer tx.Rollback()

	if status == models.StatusSent {
		err = w.envelopeDao.Complete(ctx, tx, envelope.ID, now)
	} else {
		err = w.envelopeDao.Fail(ctx, tx, envelope.ID, attemptErr.Error(), now)
	}

	if err != nil {
		log.ErrorContext(ctx).Err(err).Msg("could not record delivery outcome")
		return false
	}

	record := models.LogEntity{
		EnvelopeID:        envelope.ID,
		TriggerID:         envelope.TriggerID,
		ToEmail:           envelope.ToEmail,
		ToName:            envelope.ToName,
		Subject:           envelope.Subject,
		Status:            status,
		RetryCount:        envelope.RetryCount + 1,
		ProcessingSeconds: elapsed.Seconds(),
		CreatedAt:         now,
	}

	if config != nil {
		record.SMTPConfigID = sql.NullInt64{Int64: config.ID, Valid: true}
	}

	if status == models.StatusSent {
		record.SentAt = sql.NullInt64{Int64: now, Valid: true}
	} else {
		record.ErrorMessage = sql.NullString{String: attemptErr.Error(), Valid: true}
	}

	if err := w.logDao.Insert(ctx, tx, &record); err != nil {
		log.ErrorContext(ctx).Err(err).Msg("could not append audit record")
		return false
	}

	if err := tx.Commit(); err != nil {
		log.ErrorContext(ctx).Err(err).Msg("could not record delivery outcome")
		return false
	}

	return status == models.StatusSent
}

func (w *worker) Cancel(ctx context.Context, id string) (bool, error) {
	ctx = log.WithEnvelope(ctx, id)

	err := w.envelopeDao.Cancel(ctx, w.conn, id, time.Now().Unix())
	if err != nil {
		if database.IsErrNoRows(err) {
			return false, nil
		}

		return false, err
	}

	log.InfoContext(ctx).Msg("envelope cancelled")
	return true, nil
}

func (w *worker) updateQueueGauge(ctx context.Context) error {
	counts, err := w.envelopeDao.CountByStatus(ctx, w.conn)
	if err != nil {
		return err
	}

	metrics.QueuePending.Set(float64(counts[models.StatusPending]))
	return nil
}
