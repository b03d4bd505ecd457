package utils

type EventType string

const (
	ExecveEventType  EventType = "exec"
	ExitEventType    EventType = "exit"
	NetworkEventType EventType = "connect"
	OpenEventType    EventType = "open"
	AllEventType     EventType = "all"
)
