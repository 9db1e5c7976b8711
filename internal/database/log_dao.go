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

	"github.com/induscare/mailroom/internal/models"
)

// LogDao is a data access object for delivery attempt records. Log rows are
// append only and outlive the envelopes they describe.
type LogDao interface {
	// Insert inserts a new log record.
	Insert(context.Context, Queryer, *models.LogEntity) error
	// FindRecent returns the latest limit log records.
	FindRecent(context.Context, Queryer, int) ([]models.LogEntity, error)
	// FindByEnvelope returns all log records for an envelope, oldest first.
	FindByEnvelope(context.Context, Queryer, string) ([]models.LogEntity, error)
	// PruneBefore deletes log records created before cutoff and reports how
	// many rows were deleted.
	PruneBefore(ctx context.Context, q Queryer, cutoff int64) (int64, error)
}

// logDao is the sqlite implementation of LogDao.
type logDao struct{}

// NewLogDao creates a new LogDao.
func NewLogDao() LogDao {
	return logDao{}
}

func (logDao) Insert(ctx context.Context, q Queryer, record *models.LogEntity) error {
	const query = `
		insert into "logs" (
			"envelope_id" ,
			"trigger_id" ,
			"smtp_config_id" ,
			"to_email" ,
			"to_name" ,
			"subject" ,
			"status" ,
			"sent_at" ,
			"error_message" ,
			"retry_count" ,
			"processing_seconds" ,
			"created_at"
		) values (
			:envelope_id ,
			:trigger_id ,
			:smtp_config_id ,
			:to_email ,
			:to_name ,
			:subject ,
			:status ,
			:sent_at ,
			:error_message ,
			:retry_count ,
			:processing_seconds ,
			:created_at
		) ;
	`

	result, err := execNamed(ctx, q, query, record)
	if err != nil {
		return err
	}

	if err := ensureRowsAffected(result); err != nil {
		return err
	}

	record.ID, err = result.LastInsertId()
	return err
}

func (logDao) FindRecent(ctx context.Context, q Queryer, limit int) ([]models.LogEntity, error) {
	const query = `
		select *
		from "logs"
		order by "created_at" desc , "id" desc
		limit $1 ;
	`

	var logSlice []models.LogEntity

	if err := selectSlice(ctx, q, &logSlice, query, limit); err != nil {
		return nil, err
	}

	return logSlice, nil
}

func (logDao) FindByEnvelope(
	ctx context.Context,
	q Queryer,
	envelopeID string,
) ([]models.LogEntity, error) {
	const query = `
		select *
		from "logs"
		where "envelope_id" = $1
		order by "created_at" asc , "id" asc ;
	`

	var logSlice []models.LogEntity

	if err := selectSlice(ctx, q, &logSlice, query, envelopeID); err != nil {
		return nil, err
	}

	return logSlice, nil
}

func (logDao) PruneBefore(ctx context.Context, q Queryer, cutoff int64) (int64, error) {
	const query = `
		delete from "logs"
		where "created_at" < $1 ;
	`

	result, err := execPositional(ctx, q, query, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
