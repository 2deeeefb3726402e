package openaillm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"helpbot/pkg/llm"
)

// Client talks to an OpenAI compatible chat completions endpoint.
type Client struct {
	client      openai.Client
	model       string
	temperature float64
	stop        string
}

func NewClient(apiKey, model, baseURL string, temperature float64, stop string) *Client {
	options := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}
	return &Client{
		client:      openai.NewClient(options...),
		model:       model,
		temperature: temperature,
		stop:        stop,
	}
}

func (c *Client) Model() string { return c.model }

func (c *Client) Complete(ctx context.Context, messages []llm.Message, toolSchemas []map[string]any) (*llm.Reply, error) {
	params := openai.ChatCompletionNewParams{
		Messages:    convertMessages(messages),
		Model:       openai.ChatModel(c.model),
		Temperature: param.NewOpt(c.temperature),
	}
	if c.stop != "" {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfString: param.NewOpt(c.stop)}
	}
	if len(toolSchemas) > 0 {
		params.Tools = convertTools(toolSchemas)
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return &llm.Reply{}, nil
	}

	choice := completion.Choices[0]
	reply := &llm.Reply{Text: choice.Message.Content}
	if len(choice.Message.ToolCalls) > 0 {
		tc := choice.Message.ToolCalls[0]
		reply.ToolCall = &llm.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}
	}
	return reply, nil
}

func (c *Client) IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit")
}

func convertMessages(messages []llm.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case llm.RoleUser:
			out = append(out, openai.UserMessage(msg.Content))
		case llm.RoleAssistant:
			assistantMsg := openai.AssistantMessage(msg.Content)
			if msg.ToolCall != nil && assistantMsg.OfAssistant != nil {
				assistantMsg.OfAssistant.ToolCalls = []openai.ChatCompletionMessageToolCallUnionParam{{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: msg.ToolCall.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      msg.ToolCall.Name,
							Arguments: msg.ToolCall.Arguments,
						},
					},
				}}
			}
			out = append(out, assistantMsg)
		case llm.RoleTool:
			out = append(out, openai.ToolMessage(msg.Content, msg.ToolCallID))
		}
	}
	return out
}

func convertTools(toolSchemas []map[string]any) []openai.ChatCompletionToolUnionParam {
	result := make([]openai.ChatCompletionToolUnionParam, 0, len(toolSchemas))
	for _, schema := range toolSchemas {
		fn, ok := schema["function"].(map[string]any)
		if !ok {
			continue
		}
		def := openai.FunctionDefinitionParam{}
		if name, ok := fn["name"].(string); ok {
			def.Name = name
		}
		if desc, ok := fn["description"].(string); ok {
			def.Description = openai.String(desc)
		}
		if params, ok := fn["parameters"].(map[string]any); ok {
			def.Parameters = openai.FunctionParameters(params)
		}
		result = append(result, openai.ChatCompletionFunctionTool(def))
	}
	return result
}
