package web

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"helpbot/pkg/channels"
	"helpbot/pkg/config"
	"helpbot/pkg/gateway"
)

// WebFactory builds Web channels.
type WebFactory struct{}

// Create implements channels.ChannelFactory.
func (f *WebFactory) Create(rawConfig jsoniter.RawMessage, system *config.SystemConfig) (gateway.Channel, error) {
	var pCfg WebConfig
	pCfg.Port = 8080

	if err := json.Unmarshal(rawConfig, &pCfg); err != nil {
		return nil, fmt.Errorf("failed to parse web config: %w", err)
	}

	return NewWebChannel(pCfg), nil
}

func init() {
	channels.RegisterChannel("web", &WebFactory{})
}
