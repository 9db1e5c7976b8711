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

package database

import (
	"context"
	"fmt"

	"github.com/induscare/mailroom/internal/models"
)

// EnvelopeDao is a data access object for the envelope queue. Every state
// transition is a guarded update: the previous status is part of the where
// clause, so a stale transition affects zero rows and reports
// sql.ErrNoRows (see IsErrNoRows).
type EnvelopeDao interface {
	// Insert inserts a new envelope. Envelopes are born pending.
	Insert(context.Context, Queryer, *models.EnvelopeEntity) error
	// FindByID returns the envelope with the given id.
	FindByID(context.Context, Queryer, string) (*models.EnvelopeEntity, error)
	// FindEligible returns up to limit pending envelopes due at now, ordered
	// by priority descending and scheduled time ascending.
	FindEligible(context.Context, Queryer, int, int64) ([]models.EnvelopeEntity, error)
	// MarkProcessing claims a single pending envelope for a worker. The
	// compare-and-swap on the pending status makes sure two workers never
	// hold the same envelope.
	MarkProcessing(ctx context.Context, q Queryer, id, workerID string, now int64) error
	// Complete transitions a processing envelope to sent.
	Complete(ctx context.Context, q Queryer, id string, now int64) error
	// Fail transitions a processing envelope to failed and records the cause.
	Fail(ctx context.Context, q Queryer, id, errorMessage string, now int64) error
	// Retry promotes a failed envelope back to pending, provided the retry
	// budget is not exhausted. The new scheduled time never precedes the
	// previous one.
	Retry(ctx context.Context, q Queryer, id string, scheduledAt, now int64) error
	// Cancel transitions a pending envelope to cancelled.
	Cancel(ctx context.Context, q Queryer, id string, now int64) error
	// FindRetryable returns up to limit failed envelopes with budget left,
	// ordered like FindEligible.
	FindRetryable(context.Context, Queryer, int) ([]models.EnvelopeEntity, error)
	// FindByStatus returns up to limit envelopes in the given status,
	// ordered like FindEligible.
	FindByStatus(context.Context, Queryer, models.DeliveryStatus, int) ([]models.EnvelopeEntity, error)
	// ReclaimStale returns processing envelopes whose claim is older than
	// cutoff back to pending and reports how many rows were reclaimed.
	ReclaimStale(ctx context.Context, q Queryer, cutoff, now int64) (int64, error)
	// PruneSent deletes sent envelopes delivered before cutoff and reports
	// how many rows were deleted.
	PruneSent(ctx context.Context, q Queryer, cutoff int64) (int64, error)
	// CountByStatus returns the number of envelopes per status.
	CountByStatus(context.Context, Queryer) (map[models.DeliveryStatus]int64, error)
}

// envelopeDao is the sqlite implementation of EnvelopeDao.
type envelopeDao struct{}

// NewEnvelopeDao creates a new EnvelopeDao.
func NewEnvelopeDao() EnvelopeDao {
	return envelopeDao{}
}

func (envelopeDao) Insert(ctx context.Context, q Queryer, envelope *models.EnvelopeEntity) error {
	if envelope.Status != models.StatusPending {
		return fmt.Errorf("database: envelope must be inserted as pending, not %q", envelope.Status)
	}

	const query = `
		insert into "envelopes" (
			"id" ,
			"trigger_id" ,
			"to_email" ,
			"to_name" ,
			"subject" ,
			"html_content" ,
			"text_content" ,
			"context_data" ,
			"status" ,
			"priority" ,
			"scheduled_at" ,
			"sent_at" ,
			"error_message" ,
			"retry_count" ,
			"max_retries" ,
			"claimed_at" ,
			"claimed_by" ,
			"created_at" ,
			"updated_at"
		) values (
			:id ,
			:trigger_id ,
			:to_email ,
			:to_name ,
			:subject ,
			:html_content ,
			:text_content ,
			:context_data ,
			:status ,
			:priority ,
			:scheduled_at ,
			:sent_at ,
			:error_message ,
			:retry_count ,
			:max_retries ,
			:claimed_at ,
			:claimed_by ,
			:created_at ,
			:updated_at
		) ;
	`

	result, err := execNamed(ctx, q, query, envelope)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (envelopeDao) FindByID(ctx context.Context, q Queryer, id string) (*models.EnvelopeEntity, error) {
	const query = `
		select *
		from "envelopes"
		where "id" = $1 ;
	`

	var envelope models.EnvelopeEntity

	if err := selectOne(ctx, q, &envelope, query, id); err != nil {
		return nil, err
	}

	return &envelope, nil
}

func (envelopeDao) FindEligible(
	ctx context.Context,
	q Queryer,
	limit int,
	now int64,
) ([]models.EnvelopeEntity, error) {
	const query = `
		select *
		from "envelopes"
		where "status" = 'pending'
		  and "scheduled_at" <= $1
		order by "priority" desc , "scheduled_at" asc
		limit $2 ;
	`

	var envelopeSlice []models.EnvelopeEntity

	if err := selectSlice(ctx, q, &envelopeSlice, query, now, limit); err != nil {
		return nil, err
	}

	return envelopeSlice, nil
}

func (envelopeDao) MarkProcessing(
	ctx context.Context,
	q Queryer,
	id, workerID string,
	now int64,
) error {
	const query = `
		update "envelopes"
		set "status" = 'processing' ,
		    "claimed_at" = $1 ,
		    "claimed_by" = $2 ,
		    "updated_at" = $1
		where "id" = $3
		  and "status" = 'pending' ;
	`

	result, err := execPositional(ctx, q, query, now, workerID, id)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (envelopeDao) Complete(ctx context.Context, q Queryer, id string, now int64) error {
	const query = `
		update "envelopes"
		set "status" = 'sent' ,
		    "sent_at" = $1 ,
		    "error_message" = null ,
		    "retry_count" = "retry_count" + 1 ,
		    "claimed_at" = null ,
		    "claimed_by" = null ,
		    "updated_at" = $1
		where "id" = $2
		  and "status" = 'processing' ;
	`

	result, err := execPositional(ctx, q, query, now, id)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (envelopeDao) Fail(ctx context.Context, q Queryer, id, errorMessage string, now int64) error {
	const query = `
		update "envelopes"
		set "status" = 'failed' ,
		    "error_message" = $1 ,
		    "retry_count" = "retry_count" + 1 ,
		    "claimed_at" = null ,
		    "claimed_by" = null ,
		    "updated_at" = $2
		where "id" = $3
		  and "status" = 'processing' ;
	`

	result, err := execPositional(ctx, q, query, errorMessage, now, id)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (envelopeDao) Retry(ctx context.Context, q Queryer, id string, scheduledAt, now int64) error {
	const query = `
		update "envelopes"
		set "status" = 'pending' ,
		    "scheduled_at" = max("scheduled_at", $1) ,
		    "updated_at" = $2
		where "id" = $3
		  and "status" = 'failed'
		  and "retry_count" < "max_retries" ;
	`

	result, err := execPositional(ctx, q, query, scheduledAt, now, id)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (envelopeDao) Cancel(ctx context.Context, q Queryer, id string, now int64) error {
	const query = `
		update "envelopes"
		set "status" = 'cancelled' ,
		    "updated_at" = $1
		where "id" = $2
		  and "status" = 'pending' ;
	`

	result, err := execPositional(ctx, q, query, now, id)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (envelopeDao) FindRetryable(
	ctx context.Context,
	q Queryer,
	limit int,
) ([]models.EnvelopeEntity, error) {
	const query = `
		select *
		from "envelopes"
		where "status" = 'failed'
		  and "retry_count" < "max_retries"
		order by "priority" desc , "scheduled_at" asc
		limit $1 ;
	`

	var envelopeSlice []models.EnvelopeEntity

	if err := selectSlice(ctx, q, &envelopeSlice, query, limit); err != nil {
		return nil, err
	}

	return envelopeSlice, nil
}

func (envelopeDao) FindByStatus(
	ctx context.Context,
	q Queryer,
	status models.DeliveryStatus,
	limit int,
) ([]models.EnvelopeEntity, error) {
	const query = `
		select *
		from "envelopes"
		where "status" = $1
		order by "priority" desc , "scheduled_at" asc
		limit $2 ;
	`

	var envelopeSlice []models.EnvelopeEntity

	if err := selectSlice(ctx, q, &envelopeSlice, query, status, limit); err != nil {
		return nil, err
	}

	return envelopeSlice, nil
}

func (envelopeDao) ReclaimStale(ctx context.Context, q Queryer, cutoff, now int64) (int64, error) {
	const query = `
		update "envelopes"
		set "status" = 'pending' ,
		    "claimed_at" = null ,
		    "claimed_by" = null ,
		    "updated_at" = $1
		where "status" = 'processing'
		  and "claimed_at" < $2 ;
	`

	result, err := execPositional(ctx, q, query, now, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (envelopeDao) PruneSent(ctx context.Context, q Queryer, cutoff int64) (int64, error) {
	const query = `
		delete from "envelopes"
		where "status" = 'sent'
		  and "sent_at" < $1 ;
	`

	result, err := execPositional(ctx, q, query, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (envelopeDao) CountByStatus(
	ctx context.Context,
	q Queryer,
) (map[models.DeliveryStatus]int64, error) {
	const query = `
		select "status" , count(*) as "count"
		from "envelopes"
		group by "status" ;
	`

	var rows []struct {
		Status models.DeliveryStatus `db:"status"`
		Count  int64                 `db:"count"`
	}

	if err := selectSlice(ctx, q, &rows, query); err != nil {
		return nil, err
	}

	counts := make(map[models.DeliveryStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
