package channels

import (
	"log/slog"

	jsoniter "github.com/json-iterator/go"

	"helpbot/pkg/config"
	"helpbot/pkg/gateway"
)

// LoadFromConfig walks the channel configuration map, resolves the
// factory for each entry, and returns the constructed channels.
func LoadFromConfig(configs map[string]jsoniter.RawMessage, system *config.SystemConfig) []gateway.Channel {
	var out []gateway.Channel
	for name, rawConfig := range configs {
		factory, ok := GetChannelFactory(name)
		if !ok {
			slog.Warn("Unknown channel type", "name", name)
			continue
		}

		channel, err := factory.Create(rawConfig, system)
		if err != nil {
			slog.Error("Failed to create channel", "name", name, "error", err)
			continue
		}
		if channel == nil {
			continue
		}

		out = append(out, channel)
		slog.Info("Channel created", "name", name)
	}
	return out
}
