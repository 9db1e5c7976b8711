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

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"

	"github.com/induscare/mailroom/internal/database"
	"github.com/induscare/mailroom/internal/delivery"
	"github.com/induscare/mailroom/internal/log"
	"github.com/induscare/mailroom/internal/metrics"
)

func init() {
	viper.SetDefault("worker.interval", "15s")
	viper.SetDefault("worker.sweepinterval", "5m")
	viper.SetDefault("worker.cleaninterval", "1h")
	viper.SetDefault("metrics.address", ":9090")
}

// startCommand runs the delivery pipeline until interrupted. The worker is
// driven by a fixed ticker, the sweeper and cleaner by slower ones.
type startCommand struct {
	Conn    database.Conn
	Worker  delivery.Worker
	Sweeper *delivery.Sweeper
	Cleaner *delivery.Cleaner
}

func (c *startCommand) run() error {
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()
	server := c.startMetricsServer()

	tick := time.NewTicker(viper.GetDuration("worker.interval"))
	sweep := time.NewTicker(viper.GetDuration("worker.sweepinterval"))
	clean := time.NewTicker(viper.GetDuration("worker.cleaninterval"))

	defer tick.Stop()
	defer sweep.Stop()
	defer clean.Stop()

	log.Info().Msg("pipeline started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return c.shutdown(server)

		case <-tick.C:
			if _, err := c.Worker.Tick(ctx); err != nil {
				log.Error().Err(err).Msg("tick failed")
			}

		case <-sweep.C:
			if _, err := c.Sweeper.Sweep(ctx); err != nil {
				log.Error().Err(err).Msg("sweep failed")
			}

		case <-clean.C:
			if err := c.Cleaner.Clean(ctx); err != nil {
				log.Error().Err(err).Msg("clean failed")
			}
		}
	}
}

func (c *startCommand) startMetricsServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    viper.GetString("metrics.address"),
		Handler: mux,
	}

	go func() {
		log.Info().Str("address", server.Addr).Msg("serving metrics")

		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	return server
}

func (c *startCommand) shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("could not stop the metrics server gracefully")
	}

	return c.Conn.Close()
}
