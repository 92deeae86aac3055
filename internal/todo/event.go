package todo

import (
	"fmt"
	"strconv"
)

const TopicRoot = "todos"

const (
	CreatedName            = "Created"
	StatusUpdatedName      = "StatusUpdated"
	DescriptionUpdatedName = "DescriptionUpdated"
	DeletedName            = "Deleted"
)

// Event is a notification emitted after a successful mutation.
type Event interface {
	Name() string
	Topic() string
}

// Emitter receives notifications from a Store. Emit is called while the store
// lock is held and must not call back into the store.
type Emitter interface {
	Emit(Event)
}

type EmitterFunc func(Event)

func (f EmitterFunc) Emit(e Event) {
	f(e)
}

type discard struct{}

func (discard) Emit(Event) {}

// ItemTopic is the topic every notification about id is published under or below.
func ItemTopic(id uint32) string {
	return TopicRoot + "/" + strconv.FormatUint(uint64(id), 10)
}

type Created struct {
	ID          uint32 `json:"id" mapstructure:"id"`
	Description string `json:"description" mapstructure:"description"`
}

func (Created) Name() string { return CreatedName }

func (e Created) Topic() string { return ItemTopic(e.ID) }

type StatusUpdated struct {
	ID   uint32 `json:"id" mapstructure:"id"`
	Done bool   `json:"done" mapstructure:"done"`
}

func (StatusUpdated) Name() string { return StatusUpdatedName }

func (e StatusUpdated) Topic() string {
	return fmt.Sprintf("%s/done/%t", ItemTopic(e.ID), e.Done)
}

type DescriptionUpdated struct {
	ID          uint32 `json:"id" mapstructure:"id"`
	Description string `json:"description" mapstructure:"description"`
}

func (DescriptionUpdated) Name() string { return DescriptionUpdatedName }

func (e DescriptionUpdated) Topic() string { return ItemTopic(e.ID) }

type Deleted struct {
	ID uint32 `json:"id" mapstructure:"id"`
}

func (Deleted) Name() string { return DeletedName }

func (e Deleted) Topic() string { return ItemTopic(e.ID) }
