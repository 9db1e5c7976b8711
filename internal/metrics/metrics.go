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

// Package metrics exposes the prometheus instruments of the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// EmailsSent counts successful deliveries.
	EmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mailroom_emails_sent_total",
			Help: "Total emails sent",
		},
	)

	// EmailFailures counts failed delivery attempts.
	EmailFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mailroom_email_failures_total",
			Help: "Total failed delivery attempts",
		},
	)

	// DeliverySeconds observes the duration of delivery attempts.
	DeliverySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mailroom_delivery_seconds",
			Help:    "Duration of smtp delivery attempts",
			Buckets: prometheus.DefBuckets,
		},
	)

	// QueuePending tracks the number of pending envelopes.
	QueuePending = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mailroom_queue_pending",
			Help: "Pending envelopes in the queue",
		},
	)
)

// Init registers all instruments with the default registry. Call once at
// startup.
func Init() {
	prometheus.MustRegister(
		EmailsSent,
		EmailFailures,
		DeliverySeconds,
		QueuePending)
}
