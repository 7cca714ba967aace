package events

import (
	"encoding/json"

	"auction-board/utils"

	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeName = "auction_events"

// RabbitMQPublisher publishes auction events to a topic exchange
type RabbitMQPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRabbitMQPublisher connects to the broker and declares the exchange
func NewRabbitMQPublisher(amqpURL string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &RabbitMQPublisher{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close releases the channel and connection
func (p *RabbitMQPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// BidPlaced publishes a bid.placed event
func (p *RabbitMQPublisher) BidPlaced(event BidPlacedEvent) {
	p.publish("bid.placed", event)
}

// ListingClosed publishes a listing.closed event
func (p *RabbitMQPublisher) ListingClosed(event ListingClosedEvent) {
	p.publish("listing.closed", event)
}

func (p *RabbitMQPublisher) publish(routingKey string, event any) {
	body, err := json.Marshal(event)
	if err != nil {
		utils.Error("failed to marshal event", map[string]any{"routing_key": routingKey, "error": err.Error()})
		return
	}

	err = p.channel.Publish(
		exchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		utils.Error("failed to publish event", map[string]any{"routing_key": routingKey, "error": err.Error()})
	}
}
