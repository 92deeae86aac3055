package relay_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timada-org/todo/internal/core"
	"github.com/timada-org/todo/internal/relay"
	"github.com/timada-org/todo/internal/todo"
	"github.com/timada-org/todo/pkg/topic"
)

func envelopeOf(t *testing.T, e todo.Event) *relay.Envelope {
	t.Helper()

	payload, err := json.Marshal(&core.Event{
		Seq:   7,
		Topic: topic.MustName(e.Topic()),
		Name:  e.Name(),
		Data:  e,
	})
	require.NoError(t, err)

	var envelope relay.Envelope
	require.NoError(t, json.Unmarshal(payload, &envelope))

	return &envelope
}

func TestEnvelopeDecode(t *testing.T) {
	events := []todo.Event{
		todo.Created{ID: 0, Description: "buy milk"},
		todo.StatusUpdated{ID: 4294967295, Done: true},
		todo.DescriptionUpdated{ID: 3, Description: "walk dog"},
		todo.Deleted{ID: 12},
	}

	for _, e := range events {
		t.Run(e.Name(), func(t *testing.T) {
			envelope := envelopeOf(t, e)
			assert.Equal(t, uint64(7), envelope.Seq)
			assert.Equal(t, e.Topic(), envelope.Topic)

			decoded, err := envelope.Decode()
			require.NoError(t, err)
			assert.Equal(t, e, decoded)
		})
	}
}

func TestEnvelopeDecodeErrors(t *testing.T) {
	t.Run("unknown name", func(t *testing.T) {
		envelope := &relay.Envelope{Topic: "todos/1", Name: "Archived", Data: map[string]any{"id": 1.0}}
		_, err := envelope.Decode()
		require.Error(t, err)
	})

	t.Run("topic mismatch", func(t *testing.T) {
		envelope := &relay.Envelope{Topic: "todos/2", Name: todo.DeletedName, Data: map[string]any{"id": 1.0}}
		_, err := envelope.Decode()
		require.Error(t, err)
	})

	t.Run("unused field", func(t *testing.T) {
		envelope := &relay.Envelope{Topic: "todos/1", Name: todo.DeletedName, Data: map[string]any{"id": 1.0, "owner": "x"}}
		_, err := envelope.Decode()
		require.Error(t, err)
	})

	t.Run("wrong type", func(t *testing.T) {
		envelope := &relay.Envelope{Topic: "todos/1", Name: todo.StatusUpdatedName, Data: map[string]any{"id": 1.0, "done": "yes"}}
		_, err := envelope.Decode()
		require.Error(t, err)
	})
}
