package relay

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/timada-org/todo/internal/core"
)

// Redis publishes bus events on a redis Pub/Sub channel.
type Redis struct {
	client  *redis.Client
	channel string
}

func NewRedis(client *redis.Client, channel string) *Redis {
	return &Redis{client: client, channel: channel}
}

func (r *Redis) Send(ctx context.Context, event *core.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.client.Publish(ctx, r.channel, payload).Err()
}

// Watch hands every envelope published on channel to fn until ctx is done.
// Messages that are not envelopes are logged and skipped.
func Watch(ctx context.Context, client *redis.Client, channel string, fn func(*Envelope)) error {
	sub := client.Subscribe(ctx, channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var envelope Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				log.WithError(err).WithField("channel", channel).Warn("skipping malformed message")
				continue
			}

			fn(&envelope)
		}
	}
}
