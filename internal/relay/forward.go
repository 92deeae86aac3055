package relay

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/timada-org/todo/internal/core"
)

// Sink delivers bus events to something outside the process.
type Sink interface {
	Send(ctx context.Context, event *core.Event) error
}

// Forward drains subscription into sink until ctx is done or the subscription
// is closed. Events the sink rejects are logged and skipped.
func Forward(ctx context.Context, subscription *core.Subscription, sink Sink) {
	for {
		select {
		case event, ok := <-subscription.C():
			if !ok {
				return
			}

			if err := sink.Send(ctx, event); err != nil {
				log.WithError(err).WithFields(log.Fields{
					"seq":   event.Seq,
					"topic": event.Topic.String(),
				}).Error("failed to relay event")
			}

		case <-ctx.Done():
			return
		}
	}
}
