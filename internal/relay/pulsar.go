package relay

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/apache/pulsar-client-go/pulsar"

	"github.com/timada-org/todo/internal/core"
)

type PulsarOptions struct {
	URL   string
	Topic string
	Name  string
}

type producer interface {
	Send(ctx context.Context, msg *pulsar.ProducerMessage) (pulsar.MessageID, error)
	Close()
}

// Pulsar publishes bus events to a pulsar topic, keyed by event topic so all
// notifications about one item land on the same partition.
type Pulsar struct {
	client   pulsar.Client
	producer producer
}

func NewPulsar(options PulsarOptions) (*Pulsar, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: options.URL,
	})
	if err != nil {
		return nil, err
	}

	p, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: options.Topic,
		Name:  options.Name,
	})
	if err != nil {
		client.Close()
		return nil, err
	}

	return &Pulsar{
		client:   client,
		producer: p,
	}, nil
}

func (p *Pulsar) Send(ctx context.Context, event *core.Event) error {
	if p.producer == nil {
		return errors.New("producer not initialized")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.producer.Send(ctx, &pulsar.ProducerMessage{
		Payload: payload,
		Key:     event.Topic.String(),
		Properties: map[string]string{
			"name": event.Name,
		},
	})

	return err
}

func (p *Pulsar) Close() {
	if p.producer != nil {
		p.producer.Close()
	}

	if p.client != nil {
		p.client.Close()
	}
}
