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
	viper.SetDefault("worker.lease", "15m")
}

// Sweeper returns envelopes to the queue whose claiming worker died. A claim
// older than the lease is considered abandoned.
type Sweeper struct {
	conn        database.Conn
	envelopeDao database.EnvelopeDao

	lease time.Duration
}

// NewSweeper creates a new Sweeper.
func NewSweeper(conn database.Conn, envelopeDao database.EnvelopeDao) *Sweeper {
	return &Sweeper{
		conn:        conn,
		envelopeDao: envelopeDao,

		lease: viper.GetDuration("worker.lease"),
	}
}

// Sweep reclaims stale claims and reports how many envelopes were returned
// to pending.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	ctx = log.WithOrigin(ctx, "sweeper")

	var (
		now    = time.Now()
		cutoff = now.Add(-s.lease).Unix()
	)

	reclaimed, err := s.envelopeDao.ReclaimStale(ctx, s.conn, cutoff, now.Unix())
	if err != nil {
		return 0, err
	}

	if reclaimed > 0 {
		log.WarnContext(ctx).
			Int64("reclaimed", reclaimed).
			Msg("reclaimed envelopes from stale claims")
	}

	return reclaimed, nil
}
