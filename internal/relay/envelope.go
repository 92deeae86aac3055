package relay

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/timada-org/todo/internal/todo"
)

// Envelope is a core.Event as it arrives from a broker: the payload is still
// the generic JSON shape.
type Envelope struct {
	Seq   uint64 `json:"seq"`
	Topic string `json:"topic"`
	Name  string `json:"name"`
	Data  any    `json:"data"`
}

// Decode rebuilds the typed notification carried by the envelope.
func (e *Envelope) Decode() (todo.Event, error) {
	var event todo.Event

	switch e.Name {
	case todo.CreatedName:
		var data todo.Created
		if err := decode(e.Data, &data); err != nil {
			return nil, err
		}
		event = data
	case todo.StatusUpdatedName:
		var data todo.StatusUpdated
		if err := decode(e.Data, &data); err != nil {
			return nil, err
		}
		event = data
	case todo.DescriptionUpdatedName:
		var data todo.DescriptionUpdated
		if err := decode(e.Data, &data); err != nil {
			return nil, err
		}
		event = data
	case todo.DeletedName:
		var data todo.Deleted
		if err := decode(e.Data, &data); err != nil {
			return nil, err
		}
		event = data
	default:
		return nil, fmt.Errorf("decode envelope: unknown event %q", e.Name)
	}

	if event.Topic() != e.Topic {
		return nil, fmt.Errorf("decode envelope: %s payload does not belong to topic %s", e.Name, e.Topic)
	}

	return event, nil
}

func decode(input any, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      output,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	return nil
}
