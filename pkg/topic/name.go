package topic

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const maxTopicLength = 65535

var topicNameRegex = regexp.MustCompile("^[^#+]+$")

// TopicName is the routing key a notification is published under.
type TopicName struct {
	value string
}

func NewName(value string) (*TopicName, error) {
	if value == "" {
		return nil, fmt.Errorf("topic name: %s cannot be empty", value)
	}

	if len(value) > maxTopicLength {
		return nil, fmt.Errorf("topic name: %s cannot have more than %d bytes", value, maxTopicLength)
	}

	if !topicNameRegex.MatchString(value) {
		return nil, fmt.Errorf("topic name: %s format is invalid", value)
	}

	return &TopicName{value}, nil
}

// MustName is NewName for names built from constants and integers.
func MustName(value string) *TopicName {
	name, err := NewName(value)
	if err != nil {
		panic(err)
	}

	return name
}

func (t *TopicName) String() string {
	return t.value
}

// IsServerSpecific reports whether the name lives under a reserved $ root.
func (t *TopicName) IsServerSpecific() bool {
	return strings.HasPrefix(t.value, "$")
}

func (t *TopicName) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.value)
}

func (t *TopicName) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	name, err := NewName(value)
	if err != nil {
		return err
	}

	*t = *name

	return nil
}
