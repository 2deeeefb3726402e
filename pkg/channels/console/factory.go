package console

import (
	jsoniter "github.com/json-iterator/go"

	"helpbot/pkg/channels"
	"helpbot/pkg/config"
	"helpbot/pkg/gateway"
)

// ConsoleFactory builds the interactive console channel.
type ConsoleFactory struct{}

// Create implements channels.ChannelFactory. The console channel takes
// no configuration.
func (f *ConsoleFactory) Create(rawConfig jsoniter.RawMessage, system *config.SystemConfig) (gateway.Channel, error) {
	return NewConsoleChannel(), nil
}

func init() {
	channels.RegisterChannel("console", &ConsoleFactory{})
}
