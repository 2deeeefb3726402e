package ollamallm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/ollama/ollama/api"

	"helpbot/pkg/llm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to a local or remote Ollama server.
type Client struct {
	client      *api.Client
	model       string
	temperature float64
	stop        string
}

func NewClient(model, baseURL string, temperature float64, stop string) (*Client, error) {
	var client *api.Client
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		client = api.NewClient(u, http.DefaultClient)
	} else {
		var err error
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, err
		}
	}

	return &Client{
		client:      client,
		model:       model,
		temperature: temperature,
		stop:        stop,
	}, nil
}

func (c *Client) Model() string { return c.model }

func (c *Client) Complete(ctx context.Context, messages []llm.Message, toolSchemas []map[string]any) (*llm.Reply, error) {
	// Convert tools via JSON to work around SDK type mismatch issues
	var ollamaTools []api.Tool
	if len(toolSchemas) > 0 {
		rawB, err := json.Marshal(toolSchemas)
		if err != nil {
			return nil, fmt.Errorf("marshal tools: %w", err)
		}
		if err := json.Unmarshal(rawB, &ollamaTools); err != nil {
			return nil, fmt.Errorf("convert tools: %w", err)
		}
	}

	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: c.convertMessages(messages),
		Tools:    ollamaTools,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": c.temperature,
			"stop":        []string{c.stop},
		},
	}

	var reply llm.Reply
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.Text += resp.Message.Content
		if reply.ToolCall == nil && len(resp.Message.ToolCalls) > 0 {
			tc := resp.Message.ToolCalls[0]
			argsB, err := json.Marshal(tc.Function.Arguments)
			if err != nil {
				argsB = []byte("{}")
			}
			reply.ToolCall = &llm.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: string(argsB),
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat: %w", err)
	}
	return &reply, nil
}

func (c *Client) IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "overloaded")
}

func (c *Client) convertMessages(messages []llm.Message) []api.Message {
	ollamaMsgs := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		msg := api.Message{
			Role:    m.Role,
			Content: m.Content,
		}

		if m.Role == llm.RoleAssistant && m.ToolCall != nil {
			var apiArgs api.ToolCallFunctionArguments
			if err := json.Unmarshal([]byte(m.ToolCall.Arguments), &apiArgs); err == nil {
				msg.ToolCalls = []api.ToolCall{{
					ID: m.ToolCall.ID,
					Function: api.ToolCallFunction{
						Name:      m.ToolCall.Name,
						Arguments: apiArgs,
					},
				}}
			}
		}

		if m.Role == llm.RoleTool {
			msg.ToolCallID = m.ToolCallID
		}

		ollamaMsgs = append(ollamaMsgs, msg)
	}
	return ollamaMsgs
}
