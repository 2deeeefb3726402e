package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"helpbot/pkg/api"
	"helpbot/pkg/config"
	"helpbot/pkg/llm"
	"helpbot/pkg/tools"
	"helpbot/pkg/utils"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Outcome is the terminal state of one handled query.
type Outcome string

const (
	// OutcomeDone means a final answer was emitted, either through the
	// conclude tool or a plain-text reply.
	OutcomeDone Outcome = "done"
	// OutcomeServiceError means the completion service itself failed;
	// fatal for the query, never retried.
	OutcomeServiceError Outcome = "service_error"
	// OutcomeBudgetExhausted means the iteration budget ran out before
	// the model produced an answer.
	OutcomeBudgetExhausted Outcome = "budget_exhausted"
)

// TurnResult reports how a query's loop terminated.
type TurnResult struct {
	Outcome    Outcome
	Iterations int
	FinalText  string
}

// Engine drives the bounded conversation loop: send the conversation
// plus tool schemas to the completion service, branch on text vs. tool
// call, execute tools, fold results back in, and repeat until a final
// answer, an unrecoverable service error, or budget exhaustion.
//
// Exactly one loop runs per incoming query. Conversation state is
// created at query start and discarded at termination; the registry and
// the client are shared and read-only.
type Engine struct {
	client    llm.LLMClient
	responder api.MessageResponder
	registry  *tools.Registry
	store     *config.Store
	botName   string
}

// NewEngine creates an engine bound to a completion client and the live
// system configuration.
func NewEngine(client llm.LLMClient, store *config.Store, botName string) *Engine {
	return &Engine{
		client:   client,
		store:    store,
		botName:  botName,
		registry: tools.NewRegistry(),
	}
}

// SetResponder sets the transport interface used for every progress and
// final message.
func (e *Engine) SetResponder(responder api.MessageResponder) {
	e.responder = responder
}

// RegisterTool adds one or more tools to the engine's registry.
func (e *Engine) RegisterTool(tl ...*tools.Tool) error {
	for _, t := range tl {
		if err := e.registry.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// Registry exposes the engine's tool registry.
func (e *Engine) Registry() *tools.Registry {
	return e.registry
}

// HandleMessage runs the full loop for one incoming user message.
// Progress messages are emitted through the responder in strict
// iteration order; the returned TurnResult names the terminal state.
func (e *Engine) HandleMessage(ctx context.Context, msg *api.UnifiedMessage) TurnResult {
	sys := e.store.System()

	pc := PromptContext{
		BotName: e.botName,
		Model:   e.client.Model(),
		Date:    time.Now(),
		Channel: msg.Session.ChannelID,
	}
	messages := InitialMessages(pc, msg.Content)
	schemas := e.registry.Describe()

	emit := func(text string) {
		if err := e.responder.SendReply(msg.Session, text); err != nil {
			slog.ErrorContext(ctx, "Failed to send reply", "channel", msg.Session.ChannelID, "error", err)
		}
	}

	// Typing indicator on platforms that support it.
	_ = e.responder.SendSignal(msg.Session, "thinking")

	for i := 1; i <= sys.MaxIterations; i++ {
		if count, err := utils.CountMessageTokens(messages, e.client.Model()); err == nil {
			slog.DebugContext(ctx, "Requesting completion", "iteration", i, "messages", len(messages), "prompt_tokens", count)
		}

		reply, err := e.complete(ctx, sys, messages, schemas)
		if err != nil {
			if e.client.IsRateLimitError(err) {
				slog.WarnContext(ctx, "Completion service rate limited", "error", err)
				emit("Sorry, I couldn't reach my brain. Try again in a moment?")
			} else {
				slog.ErrorContext(ctx, "Completion service failed", "error", err)
				emit(fmt.Sprintf("🚨 ServiceError: %v", err))
			}
			return TurnResult{Outcome: OutcomeServiceError, Iterations: i}
		}

		// Plain text is a pass-through final answer: the intended
		// termination path is conclude, but any non-tool reply ends
		// the loop immediately.
		if reply.ToolCall == nil {
			if reply.Text == "" {
				slog.WarnContext(ctx, "Completion carried neither text nor tool call", "iteration", i)
				emit("🚨 MalformedReply: the model returned an empty completion")
				continue
			}
			messages = append(messages, llm.NewAssistantMessage(reply.Text))
			emit("💬 " + reply.Text)
			return TurnResult{Outcome: OutcomeDone, Iterations: i, FinalText: reply.Text}
		}

		tc := reply.ToolCall

		var args map[string]any
		if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
			// Recoverable: the failure becomes conversation data so
			// the model can correct itself on the next iteration.
			messages = append(messages, llm.NewToolCallMessage(tc))
			messages = append(messages, llm.NewToolResultMessage(tc, `{"error": "Invalid JSON"}`))
			emit(fmt.Sprintf("🚨 Bot provided invalid JSON for function %s: %s", tc.Name, tc.Arguments))
			continue
		}

		if tc.Name == tools.ConcludeToolName {
			messages = append(messages, llm.NewToolCallMessage(tc))
			answer, ok := args["answer"].(string)
			if !ok || answer == "" {
				messages = append(messages, llm.NewToolResultMessage(tc, `{"error": "conclude requires an answer"}`))
				emit("🚨 InvalidArguments: conclude requires an answer")
				continue
			}
			emit(moodTag(args) + " " + answer)
			return TurnResult{Outcome: OutcomeDone, Iterations: i, FinalText: answer}
		}

		messages = append(messages, llm.NewToolCallMessage(tc))

		argsJSON, _ := json.Marshal(args)
		emit(fmt.Sprintf("🤖 Running **%s** with `%s`...", tc.Name, string(argsJSON)))
		slog.InfoContext(ctx, "Invoking tool", "name", tc.Name, "args", string(argsJSON))

		result, err := e.invoke(ctx, sys, tc.Name, args)
		if err != nil {
			emit("🚨 " + failureText(err))
			payload, _ := json.Marshal(failureText(err))
			messages = append(messages, llm.NewToolResultMessage(tc, string(payload)))
			continue
		}

		emit("🤖 Done ✅")
		serialized, err := json.Marshal(result)
		if err != nil {
			serialized = []byte(`"unserializable tool result"`)
		}
		messages = append(messages, llm.NewToolResultMessage(tc, string(serialized)))
	}

	emit(fmt.Sprintf("🥺 I couldn't find a response to that after %d actions, sorry.", sys.MaxIterations))
	return TurnResult{Outcome: OutcomeBudgetExhausted, Iterations: sys.MaxIterations}
}

// complete calls the completion service under the configured timeout.
func (e *Engine) complete(ctx context.Context, sys *config.SystemConfig, messages []llm.Message, schemas []map[string]any) (*llm.Reply, error) {
	if sys.LLMTimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(sys.LLMTimeoutMs)*time.Millisecond)
		defer cancel()
	}
	return e.client.Complete(ctx, messages, schemas)
}

// invoke runs a registered tool under the configured timeout.
func (e *Engine) invoke(ctx context.Context, sys *config.SystemConfig, name string, args map[string]any) (any, error) {
	if sys.ToolTimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(sys.ToolTimeoutMs)*time.Millisecond)
		defer cancel()
	}
	return e.registry.Invoke(ctx, name, args)
}

// failureText renders a tool failure as "<tag>: <message>".
func failureText(err error) string {
	tag := tools.Tag(err)

	var ee *tools.ExecutionError
	if errors.As(err, &ee) {
		return fmt.Sprintf("%s: %v", tag, ee.Err)
	}
	return fmt.Sprintf("%s: %v", tag, err)
}

// moodTag picks the emoji prefix for a concluded answer. Anything
// outside the declared mood set falls back to the default rather than
// leaking an arbitrary model string into the reply.
func moodTag(args map[string]any) string {
	if emoji, ok := args["emoji"].(string); ok {
		for _, mood := range tools.Moods {
			if emoji == mood {
				return emoji
			}
		}
	}
	return tools.DefaultMood
}
