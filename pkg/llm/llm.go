package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// LLMClient is the narrow capability interface the engine consumes for
// chat completions. A reply is either plain text or a tool call; clients
// classify their own rate-limit errors so the engine can apologize with
// the dedicated message instead of the generic one.
//
// Clients hold no per-call state and are safe for concurrent use.
type LLMClient interface {
	// Complete sends the conversation so far plus the tool schema list
	// and returns the model's reply. Sampling temperature and stop
	// sequences are fixed per client at construction time.
	Complete(ctx context.Context, messages []Message, toolSchemas []map[string]any) (*Reply, error)

	// IsRateLimitError reports whether err is a rate/quota error from
	// this provider.
	IsRateLimitError(err error) bool

	// Model returns the active model identifier, used in the system prompt.
	Model() string
}

// FallbackClient tries a list of clients in order until one produces a
// reply. Each client gets exactly one attempt per request; retrying a
// metered completion service inside the agent loop would compound cost
// and delay.
type FallbackClient struct {
	Clients []LLMClient
}

func (f *FallbackClient) Complete(ctx context.Context, messages []Message, toolSchemas []map[string]any) (*Reply, error) {
	var lastErr error

	for i, client := range f.Clients {
		if i > 0 {
			slog.Warn("Previous provider failed, trying fallback", "provider_index", i)
		}

		reply, err := client.Complete(ctx, messages, toolSchemas)
		if err == nil {
			return reply, nil
		}

		lastErr = err

		// A rate-limited provider is fatal for the whole request: the
		// caller surfaces the dedicated apology instead of masking it
		// behind a different provider's answer mid-conversation.
		if client.IsRateLimitError(err) {
			return nil, err
		}

		slog.Error("Provider failed", "provider_index", i, "error", err)
	}

	return nil, fmt.Errorf("all fallback providers failed: %w", lastErr)
}

// IsRateLimitError reports whether any wrapped client classifies err as
// a rate/quota error.
func (f *FallbackClient) IsRateLimitError(err error) bool {
	for _, c := range f.Clients {
		if c.IsRateLimitError(err) {
			return true
		}
	}
	return false
}

// Model returns the identifier of the primary client.
func (f *FallbackClient) Model() string {
	if len(f.Clients) > 0 {
		return f.Clients[0].Model()
	}
	return ""
}
