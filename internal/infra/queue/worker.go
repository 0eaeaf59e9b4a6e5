package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
)

type DeliveryHandler interface {
	HandleDelivery(ctx context.Context, job DeliveryJob) error
}

type Worker struct {
	Channel     *amqp.Channel
	Handler     DeliveryHandler
	Concurrency int
}

func NewWorker(ch *amqp.Channel, handler DeliveryHandler, concurrency int) *Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Worker{Channel: ch, Handler: handler, Concurrency: concurrency}
}

// Start consumes queueName until ctx is done or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	if err := w.Channel.Qos(w.Concurrency, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	log := logger.WithComponent("delivery-worker")
	log.Info().Str("queue", queueName).Int("concurrency", w.Concurrency).Msg("worker consuming")

	var wg sync.WaitGroup
	for i := 0; i < w.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range msgs {
				w.process(ctx, d)
			}
		}()
	}
	wg.Wait()

	log.Info().Msg("worker stopped")
	return nil
}

func (w *Worker) process(ctx context.Context, d amqp.Delivery) {
	log := logger.WithComponent("delivery-worker")

	var job DeliveryJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		log.Error().Err(err).Msg("malformed delivery job")
		d.Nack(false, false)
		return
	}

	if err := w.Handler.HandleDelivery(ctx, job); err != nil {
		log.Error().Err(err).Str("log_id", job.LogID).Msg("delivery job failed")
		d.Nack(false, false)
		return
	}

	d.Ack(false)
}
