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
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/viper"
)

func init() {
	viper.SetDefault("delivery.backoff.initial", "1m")
	viper.SetDefault("delivery.backoff.multiplier", 2.0)
	viper.SetDefault("delivery.backoff.max", "1h")
}

// retryPolicy computes how long a failed envelope has to wait before the
// next attempt.
type retryPolicy struct {
	initial    time.Duration
	multiplier float64
	max        time.Duration
}

func newRetryPolicy() retryPolicy {
	return retryPolicy{
		initial:    viper.GetDuration("delivery.backoff.initial"),
		multiplier: viper.GetFloat64("delivery.backoff.multiplier"),
		max:        viper.GetDuration("delivery.backoff.max"),
	}
}

// delay returns the jittered backoff interval after the given number of
// failed attempts. The first failure waits roughly the initial interval,
// every further failure doubles it up to the cap.
func (p retryPolicy) delay(failures int) time.Duration {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.initial
	b.Multiplier = p.multiplier
	b.MaxInterval = p.max
	b.MaxElapsedTime = 0
	b.Reset()

	var delay time.Duration
	for i := 0; i < failures; i++ {
		delay = b.NextBackOff()
	}

	if delay <= 0 {
		delay = p.initial
	}

	return delay
}
