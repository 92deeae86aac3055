package topic

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var topicFilterRegex = regexp.MustCompile(`^(([^+#]*|\+)(/([^+#]*|\+))*(/#)?|#)$`)

// TopicFilter selects topic names using MQTT wildcards: "+" matches exactly one
// level and a trailing "#" matches the parent level and everything below it.
type TopicFilter struct {
	value string
}

func NewFilter(value string) (*TopicFilter, error) {
	if value == "" {
		return nil, fmt.Errorf("topic filter: %s cannot be empty", value)
	}

	if len(value) > maxTopicLength {
		return nil, fmt.Errorf("topic filter: %s cannot have more than %d bytes", value, maxTopicLength)
	}

	if !topicFilterRegex.MatchString(value) {
		return nil, fmt.Errorf("topic filter: %s format is invalid", value)
	}

	return &TopicFilter{value}, nil
}

func (f *TopicFilter) String() string {
	return f.value
}

// Match reports whether name is selected by the filter. Wildcards at the first
// level never select names under a $ root.
func (f *TopicFilter) Match(name *TopicName) bool {
	nameLevels := strings.Split(name.value, "/")
	filterLevels := strings.Split(f.value, "/")

	if strings.HasPrefix(nameLevels[0], "$") && nameLevels[0] != filterLevels[0] {
		return false
	}

	for i, level := range filterLevels {
		if level == "#" {
			return true
		}

		if i >= len(nameLevels) {
			return false
		}

		if level != "+" && level != nameLevels[i] {
			return false
		}
	}

	return len(filterLevels) == len(nameLevels)
}

func (f *TopicFilter) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.value)
}

func (f *TopicFilter) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	filter, err := NewFilter(value)
	if err != nil {
		return err
	}

	*f = *filter

	return nil
}
