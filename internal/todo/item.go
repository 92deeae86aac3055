package todo

type Item struct {
	ID          uint32 `json:"id" mapstructure:"id"`
	Description string `json:"description" mapstructure:"description"`
	Done        bool   `json:"done" mapstructure:"done"`
}
