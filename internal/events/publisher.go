package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"cafetab/internal/domain"
)

type Broker interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

// Publisher emits kitchen events for order lifecycle transitions. Publishing
// is best-effort: a broker failure is logged and never fails the request.
// A Publisher with a nil broker is a no-op, used when RabbitMQ is not
// configured.
type Publisher struct {
	broker   Broker
	exchange string
	logger   *zap.Logger
}

func NewPublisher(broker Broker, exchange string, logger *zap.Logger) *Publisher {
	return &Publisher{
		broker:   broker,
		exchange: exchange,
		logger:   logger,
	}
}

type orderEvent struct {
	OrderNumber string    `json:"orderNumber"`
	TableID     uint      `json:"tableId"`
	Status      string    `json:"status"`
	Total       float64   `json:"total"`
	ItemCount   int       `json:"itemCount"`
	OccurredAt  time.Time `json:"occurredAt"`
}

func (p *Publisher) OrderCreated(ctx context.Context, order *domain.Order) {
	p.publish(ctx, "order.created", order)
}

func (p *Publisher) OrderPaid(ctx context.Context, order *domain.Order) {
	p.publish(ctx, "order.paid", order)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, order *domain.Order) {
	if p.broker == nil {
		return
	}

	event := orderEvent{
		OrderNumber: order.OrderNumber,
		TableID:     order.TableID,
		Status:      order.Status,
		Total:       order.Total(),
		ItemCount:   order.ItemCount(),
		OccurredAt:  time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal order event", zap.String("routingKey", routingKey), zap.Error(err))
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := p.broker.Publish(pubCtx, p.exchange, routingKey, body); err != nil {
		p.logger.Warn("failed to publish order event",
			zap.String("routingKey", routingKey),
			zap.String("orderNumber", order.OrderNumber),
			zap.Error(err),
		)
	}
}
