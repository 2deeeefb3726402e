package openaillm

import (
	"fmt"

	"helpbot/pkg/config"
	"helpbot/pkg/llm"
)

type factory struct{}

func init() {
	llm.RegisterProvider("openai", factory{})
}

func (factory) Create(groupConfig llm.ProviderGroupConfig, systemConfig *config.SystemConfig) ([]llm.LLMClient, error) {
	if len(groupConfig.APIKeys) == 0 {
		return nil, fmt.Errorf("openai provider: no api keys configured")
	}
	if len(groupConfig.Models) == 0 {
		return nil, fmt.Errorf("openai provider: no models configured")
	}

	apiKey := groupConfig.APIKeys[0]
	clients := make([]llm.LLMClient, 0, len(groupConfig.Models))
	for _, model := range groupConfig.Models {
		clients = append(clients, NewClient(
			apiKey,
			model,
			groupConfig.BaseURL,
			systemConfig.Temperature,
			systemConfig.StopSequence,
		))
	}
	return clients, nil
}
