package monitor

import "time"

// MonitorMessage is one observed message flowing through a channel.
type MonitorMessage struct {
	Timestamp   time.Time
	MessageType string // "USER" or "ASSISTANT"
	ChannelID   string
	Username    string
	Content     string
}

// Monitor observes all traffic crossing the gateway.
type Monitor interface {
	Start() error
	Stop() error

	// OnMessage receives and displays a monitoring message.
	OnMessage(msg MonitorMessage)
}
