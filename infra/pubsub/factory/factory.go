// Package factory builds Watermill AMQP publishers and subscribers from one
// broker URL, hiding topology declaration from the rest of the service.
package factory

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/v3/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
)

type ExchangeConfig struct {
	Name    string
	Type    string
	Durable bool
}

type PublisherConfig struct {
	Exchange ExchangeConfig
}

type SubscriberConfig struct {
	Queue    string
	Exchange ExchangeConfig
}

type Factory struct {
	url    string
	logger watermill.LoggerAdapter
}

func New(url string, logger watermill.LoggerAdapter) *Factory {
	return &Factory{url: url, logger: logger}
}

// BuildPublisher declares the exchange and returns a publisher bound to it.
// The Watermill topic is used as the AMQP routing key.
func (f *Factory) BuildPublisher(cfg *PublisherConfig) (message.Publisher, error) {
	amqpCfg := amqp.NewDurablePubSubConfig(f.url, nil)
	applyExchange(&amqpCfg, cfg.Exchange)

	pub, err := amqp.NewPublisher(amqpCfg, f.logger)
	if err != nil {
		return nil, fmt.Errorf("amqp publisher %q: %w", cfg.Exchange.Name, err)
	}
	return pub, nil
}

// BuildSubscriber declares the exchange, a durable queue and the binding,
// and returns a subscriber consuming from that queue.
func (f *Factory) BuildSubscriber(cfg *SubscriberConfig) (message.Subscriber, error) {
	amqpCfg := amqp.NewDurablePubSubConfig(f.url, amqp.GenerateQueueNameConstant(cfg.Queue))
	applyExchange(&amqpCfg, cfg.Exchange)

	sub, err := amqp.NewSubscriber(amqpCfg, f.logger)
	if err != nil {
		return nil, fmt.Errorf("amqp subscriber %q: %w", cfg.Queue, err)
	}
	return sub, nil
}

func applyExchange(amqpCfg *amqp.Config, exchange ExchangeConfig) {
	exchangeType := exchange.Type
	if exchangeType == "" {
		exchangeType = "topic"
	}
	amqpCfg.Exchange = amqp.ExchangeConfig{
		GenerateName: func(string) string { return exchange.Name },
		Type:         exchangeType,
		Durable:      exchange.Durable,
	}
	// Subscriptions bind the queue with the Watermill topic as pattern;
	// publishes use it verbatim as the routing key.
	amqpCfg.QueueBind = amqp.QueueBindConfig{
		GenerateRoutingKey: func(topic string) string { return topic },
	}
	amqpCfg.Publish.GenerateRoutingKey = func(topic string) string { return topic }
}
