package main

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/infra/logger"
)

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// gracefulStop drains the delivery queue before the HTTP server closes:
// vendors post their receipts back to this server while jobs finish. When
// ctx expires first, abandon stops the consumers and the server is shut
// down anyway.
func gracefulStop(ctx context.Context, drain, abandon func(), srv shutdowner) error {
	log := logger.WithComponent("main")

	drained := make(chan struct{})
	go func() {
		drain()
		close(drained)
	}()

	select {
	case <-drained:
		log.Info().Msg("delivery queue drained")
	case <-ctx.Done():
		log.Warn().Msg("delivery queue did not drain in time")
		abandon()
	}

	return srv.Shutdown(ctx)
}
