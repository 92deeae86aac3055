package sse

import (
	"encoding/json"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/timada-org/todo/internal/core"
	"github.com/timada-org/todo/pkg/topic"
)

type Session struct {
	ID           string
	subscription *core.Subscription
}

func newSession(id string, subscription *core.Subscription) *Session {
	return &Session{
		ID:           id,
		subscription: subscription,
	}
}

func (s *Session) Filter() *topic.TopicFilter {
	return s.subscription.Filter
}

func (s *Session) listen(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, _ := w.(http.Flusher)

	hello := &core.Event{
		Topic: topic.MustName(SYSSessionTopic),
		Name:  SYSSessionCreated,
		Data:  s.ID,
	}

	if err := write(w, hello); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case event, ok := <-s.subscription.C():
			if !ok {
				return
			}

			if err := write(w, event); err != nil {
				log.WithError(err).WithField("session", s.ID).Warn("failed to write event")
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func write(w http.ResponseWriter, event *core.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "data: %s\n\n", data)

	return err
}
