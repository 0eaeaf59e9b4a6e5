package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DeliveryJob asks a delivery vendor to send one rendered message. LogID is
// the communication log id and travels to the vendor as correlation id.
type DeliveryJob struct {
	LogID      string `json:"logId"`
	CampaignID string `json:"campaignId"`
	CustomerID string `json:"customerId"`
	To         string `json:"to"`
	Phone      string `json:"phone,omitempty"`
	Message    string `json:"message"`
}

type DeliveryPublisher interface {
	PublishDelivery(ctx context.Context, job DeliveryJob) error
}

type RabbitMQProducer struct {
	Ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishDelivery(ctx context.Context, job DeliveryJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal delivery job: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: job.LogID,
			Body:          body,
			DeliveryMode:  amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish delivery %s: %w", job.LogID, err)
	}
	return nil
}
