package events

import (
	"context"
	"encoding/json"

	"github.com/hilthontt/drift/internal/domain"
	"github.com/hilthontt/drift/internal/infrastructure/contracts"
	"github.com/hilthontt/drift/internal/infrastructure/logging"
	"github.com/hilthontt/drift/internal/infrastructure/messaging"
)

type pairingEventData struct {
	Room   domain.Room `json:"room"`
	Reason string      `json:"reason,omitempty"`
}

// PairingPublisher pushes room lifecycle events to RabbitMQ for
// out-of-process consumers (dashboards, offline analysis). Publishing is
// fire-and-forget: failures are logged, never surfaced to the engine.
type PairingPublisher struct {
	rabbitmq *messaging.RabbitMQ
	logger   logging.Logger
}

func NewPairingPublisher(rabbitmq *messaging.RabbitMQ, logger logging.Logger) *PairingPublisher {
	return &PairingPublisher{
		rabbitmq: rabbitmq,
		logger:   logger,
	}
}

func (p *PairingPublisher) PairFormed(ctx context.Context, room domain.Room) {
	p.publish(ctx, contracts.EventPairFormed, pairingEventData{Room: room})
}

func (p *PairingPublisher) PairDissolved(ctx context.Context, room domain.Room, reason string) {
	p.publish(ctx, contracts.EventPairDissolved, pairingEventData{Room: room, Reason: reason})
}

func (p *PairingPublisher) publish(ctx context.Context, routingKey string, payload pairingEventData) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error(logging.RabbitMQ, logging.ExternalService, "failed to marshal pairing event",
			map[logging.ExtraKey]any{logging.RoomID: payload.Room.ID, logging.ErrorMessage: err.Error()})
		return
	}

	body, err := json.Marshal(contracts.AmqpMessage{
		RoomID: payload.Room.ID,
		Data:   data,
	})
	if err != nil {
		p.logger.Error(logging.RabbitMQ, logging.ExternalService, "failed to marshal amqp envelope",
			map[logging.ExtraKey]any{logging.RoomID: payload.Room.ID, logging.ErrorMessage: err.Error()})
		return
	}

	if err := p.rabbitmq.PublishMessage(ctx, routingKey, body); err != nil {
		p.logger.Error(logging.RabbitMQ, logging.ExternalService, "failed to publish pairing event",
			map[logging.ExtraKey]any{logging.RoomID: payload.Room.ID, logging.ErrorMessage: err.Error()})
	}
}
