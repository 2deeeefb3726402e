package channels

import (
	jsoniter "github.com/json-iterator/go"

	"helpbot/pkg/config"
	"helpbot/pkg/gateway"
)

// ChannelFactory defines the abstract interface for platform-specific
// channel creators. New platforms (e.g., Discord, Line) plug in here
// without modifying the core gateway logic.
type ChannelFactory interface {
	// Create instantiates a concrete Channel implementation from its
	// raw configuration block.
	Create(rawConfig jsoniter.RawMessage, system *config.SystemConfig) (gateway.Channel, error)
}

// channelRegistry maps platform names (e.g., "telegram") to their
// factory implementations.
var channelRegistry = make(map[string]ChannelFactory)

// RegisterChannel adds a ChannelFactory to the global registry,
// typically from a package init().
func RegisterChannel(name string, factory ChannelFactory) {
	channelRegistry[name] = factory
}

// GetChannelFactory retrieves a registered ChannelFactory by platform name.
func GetChannelFactory(name string) (ChannelFactory, bool) {
	f, ok := channelRegistry[name]
	return f, ok
}
