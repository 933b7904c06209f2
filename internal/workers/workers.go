// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

// Package workers runs the daemon's long-lived components under a single
// lifecycle: every worker starts together and the aggregate returns once all
// of them have exited after cancellation.
package workers

import (
	"context"
	"errors"
	"sync"

	"github.com/btcpayserver/app-sub001/internal/logger"
)

// Worker is one long-lived component. Run blocks until ctx is cancelled or
// the worker fails.
type Worker interface {
	Run(ctx context.Context) error
}

// Workers runs a set of workers concurrently. A worker failure cancels the
// rest, so a dead component never leaves the daemon half-alive.
type Workers struct {
	workers []Worker
	logger  *logger.Logger
}

func NewWorkers(logger *logger.Logger, workers ...Worker) *Workers {
	return &Workers{workers: workers, logger: logger}
}

// Run starts every worker and blocks until all have returned. The combined
// error holds every worker failure.
func (w *Workers) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make([]error, len(w.workers))

	for i, worker := range w.workers {
		wg.Add(1)
		go func(i int, worker Worker) {
			defer wg.Done()
			if err := worker.Run(runCtx); err != nil {
				w.logger.Err(err).Msg("worker exited with error")
				errs[i] = err
				cancel()
			}
		}(i, worker)
	}

	wg.Wait()
	return errors.Join(errs...)
}
