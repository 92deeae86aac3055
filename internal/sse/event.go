package sse

const SYSSessionTopic = "$SYS/session"

const (
	SYSSessionCreated = "Created"
)

const DefaultFilter = "#"
