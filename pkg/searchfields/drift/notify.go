package drift

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Report is what a Notifier publishes after a scan that found drift.
type Report struct {
	Result
	Indices []string  `json:"indices"`
	At      time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, r Report) error
}

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPNotifier publishes reports as JSON to a topic exchange.
type AMQPNotifier struct {
	ch         publisher
	Exchange   string
	RoutingKey string
}

const DefaultExchange = "searchfields_drift"

func NewAMQPNotifier(ch *amqp.Channel, exchange string) *AMQPNotifier {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &AMQPNotifier{ch: ch, Exchange: exchange, RoutingKey: exchange}
}

// DeclareExchange creates the durable topic exchange and a queue of the same
// name bound to it.
func DeclareExchange(ch *amqp.Channel, name string) error {
	if err := ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-delete
		false,   // internal
		false,   // noWait
		nil,     // arguments
	); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(
		name,  // name of the queue
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // noWait
		nil,   // arguments
	); err != nil {
		return err
	}
	return ch.QueueBind(name, name, name, false, nil)
}

func (n *AMQPNotifier) Notify(ctx context.Context, r Report) error {
	body, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return n.ch.PublishWithContext(ctx,
		n.Exchange,
		n.RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   r.At,
			Body:        body,
		},
	)
}
