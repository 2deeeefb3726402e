package ollamallm

import (
	"fmt"

	"helpbot/pkg/config"
	"helpbot/pkg/llm"
)

type factory struct{}

func init() {
	llm.RegisterProvider("ollama", factory{})
}

func (factory) Create(groupConfig llm.ProviderGroupConfig, systemConfig *config.SystemConfig) ([]llm.LLMClient, error) {
	if len(groupConfig.Models) == 0 {
		return nil, fmt.Errorf("ollama provider: no models configured")
	}

	clients := make([]llm.LLMClient, 0, len(groupConfig.Models))
	for _, model := range groupConfig.Models {
		client, err := NewClient(model, groupConfig.BaseURL, systemConfig.Temperature, systemConfig.StopSequence)
		if err != nil {
			return nil, fmt.Errorf("ollama provider: %w", err)
		}
		clients = append(clients, client)
	}
	return clients, nil
}
