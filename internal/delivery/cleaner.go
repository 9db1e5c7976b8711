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

package delivery

import (
	"context"
	"time"

	"github.com/spf13/viper"

	"github.com/induscare/mailroom/internal/database"
	"github.com/induscare/mailroom/internal/log"
)

func init() {
	viper.SetDefault("retention.envelopes", "168h")
	viper.SetDefault("retention.logs", "720h")
}

// Cleaner prunes delivered envelopes and aged audit records. Sent envelopes
// are kept for a short window, audit records considerably longer.
type Cleaner struct {
	conn        database.Conn
	envelopeDao database.EnvelopeDao
	logDao      database.LogDao

	envelopeRetention time.Duration
	logRetention      time.Duration
}

// NewCleaner creates a new Cleaner.
func NewCleaner(
	conn database.Conn,
	envelopeDao database.EnvelopeDao,
	logDao database.LogDao,
) *Cleaner {
	return &Cleaner{
		conn:        conn,
		envelopeDao: envelopeDao,
		logDao:      logDao,

		envelopeRetention: viper.GetDuration("retention.envelopes"),
		logRetention:      viper.GetDuration("retention.logs"),
	}
}

// Clean deletes sent envelopes and audit records outside their retention
// windows.
func (c *Cleaner) Clean(ctx context.Context) error {
	ctx = log.WithOrigin(ctx, "cleaner")

	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	now := time.Now()

	envelopes, err := c.envelopeDao.PruneSent(ctx, tx, now.Add(-c.envelopeRetention).Unix())
	if err != nil {
		return err
	}

	records, err := c.logDao.PruneBefore(ctx, tx, now.Add(-c.logRetention).Unix())
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if envelopes > 0 || records > 0 {
		log.InfoContext(ctx).
			Int64("envelopes", envelopes).
			Int64("records", records).
			Msg("pruned aged rows")
	}

	return nil
}
