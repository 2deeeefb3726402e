package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"helpbot/pkg/api"
	"helpbot/pkg/config"
	"helpbot/pkg/llm"
	"helpbot/pkg/tools"
)

type scriptStep struct {
	reply *llm.Reply
	err   error
}

// scriptedClient replays a fixed sequence of completions and records
// every conversation snapshot it was handed.
type scriptedClient struct {
	steps     []scriptStep
	calls     int
	rateLimit bool
	snapshots [][]llm.Message
}

func (c *scriptedClient) Complete(ctx context.Context, messages []llm.Message, toolSchemas []map[string]any) (*llm.Reply, error) {
	c.snapshots = append(c.snapshots, append([]llm.Message(nil), messages...))
	step := c.steps[len(c.steps)-1]
	if c.calls < len(c.steps) {
		step = c.steps[c.calls]
	}
	c.calls++
	return step.reply, step.err
}

func (c *scriptedClient) IsRateLimitError(err error) bool { return c.rateLimit }
func (c *scriptedClient) Model() string                   { return "test-model" }

type recordingResponder struct {
	replies []string
	signals []string
}

func (r *recordingResponder) SendReply(session api.SessionContext, content string) error {
	r.replies = append(r.replies, content)
	return nil
}

func (r *recordingResponder) SendSignal(session api.SessionContext, signal string) error {
	r.signals = append(r.signals, signal)
	return nil
}

func newTestEngine(t *testing.T, client llm.LLMClient, maxIterations int) (*Engine, *recordingResponder) {
	t.Helper()

	sys := config.DefaultSystemConfig()
	sys.MaxIterations = maxIterations
	engine := NewEngine(client, config.NewStore(sys), "HelpBot")

	responder := &recordingResponder{}
	engine.SetResponder(responder)

	if err := engine.RegisterTool(tools.NewConcludeTool()); err != nil {
		t.Fatalf("register conclude: %v", err)
	}
	return engine, responder
}

func testMessage(content string) *api.UnifiedMessage {
	return &api.UnifiedMessage{
		Session: api.SessionContext{ChannelID: "console", UserID: "u1", ChatID: "c1", Username: "alice"},
		Content: content,
	}
}

func toolCallReply(name, args string) *llm.Reply {
	return &llm.Reply{ToolCall: &llm.ToolCall{ID: "call_1", Name: name, Arguments: args}}
}

func TestConcludeEmitsSingleFinalMessage(t *testing.T) {
	client := &scriptedClient{steps: []scriptStep{
		{reply: toolCallReply("conclude", `{"answer": "Paris", "emoji": "🤓"}`)},
	}}
	engine, responder := newTestEngine(t, client, 10)

	result := engine.HandleMessage(context.Background(), testMessage("capital of France?"))

	if result.Outcome != OutcomeDone {
		t.Fatalf("outcome = %q, want %q", result.Outcome, OutcomeDone)
	}
	if result.Iterations != 1 {
		t.Errorf("iterations = %d, want 1", result.Iterations)
	}
	if result.FinalText != "Paris" {
		t.Errorf("final text = %q, want %q", result.FinalText, "Paris")
	}
	if len(responder.replies) != 1 || responder.replies[0] != "🤓 Paris" {
		t.Errorf("replies = %v, want exactly [🤓 Paris]", responder.replies)
	}
}

func TestConcludeDefaultsMood(t *testing.T) {
	client := &scriptedClient{steps: []scriptStep{
		{reply: toolCallReply("conclude", `{"answer": "42"}`)},
	}}
	engine, responder := newTestEngine(t, client, 10)

	engine.HandleMessage(context.Background(), testMessage("meaning of life?"))

	if len(responder.replies) != 1 || responder.replies[0] != "💡 42" {
		t.Errorf("replies = %v, want exactly [💡 42]", responder.replies)
	}
}

func TestConcludeRejectsUnknownMood(t *testing.T) {
	client := &scriptedClient{steps: []scriptStep{
		{reply: toolCallReply("conclude", `{"answer": "done", "emoji": "🚀"}`)},
	}}
	engine, responder := newTestEngine(t, client, 10)

	engine.HandleMessage(context.Background(), testMessage("go"))

	if len(responder.replies) != 1 || responder.replies[0] != "💡 done" {
		t.Errorf("replies = %v, want exactly [💡 done]", responder.replies)
	}
}

func TestPlainTextTerminatesLoop(t *testing.T) {
	client := &scriptedClient{steps: []scriptStep{
		{reply: &llm.Reply{Text: "Just hello."}},
	}}
	engine, responder := newTestEngine(t, client, 10)

	result := engine.HandleMessage(context.Background(), testMessage("hi"))

	if result.Outcome != OutcomeDone {
		t.Fatalf("outcome = %q, want %q", result.Outcome, OutcomeDone)
	}
	if client.calls != 1 {
		t.Errorf("client calls = %d, want 1", client.calls)
	}
	if len(responder.replies) != 1 || responder.replies[0] != "💬 Just hello." {
		t.Errorf("replies = %v, want exactly [💬 Just hello.]", responder.replies)
	}
}

func TestRateLimitIsFatal(t *testing.T) {
	client := &scriptedClient{
		steps:     []scriptStep{{err: errors.New("429 too many requests")}},
		rateLimit: true,
	}
	engine, responder := newTestEngine(t, client, 10)

	result := engine.HandleMessage(context.Background(), testMessage("hi"))

	if result.Outcome != OutcomeServiceError {
		t.Fatalf("outcome = %q, want %q", result.Outcome, OutcomeServiceError)
	}
	if client.calls != 1 {
		t.Errorf("client calls = %d, want 1 (no retry)", client.calls)
	}
	want := "Sorry, I couldn't reach my brain. Try again in a moment?"
	if len(responder.replies) != 1 || responder.replies[0] != want {
		t.Errorf("replies = %v, want exactly [%s]", responder.replies, want)
	}
}

func TestServiceErrorEmission(t *testing.T) {
	client := &scriptedClient{steps: []scriptStep{{err: errors.New("boom")}}}
	engine, responder := newTestEngine(t, client, 10)

	result := engine.HandleMessage(context.Background(), testMessage("hi"))

	if result.Outcome != OutcomeServiceError {
		t.Fatalf("outcome = %q, want %q", result.Outcome, OutcomeServiceError)
	}
	if len(responder.replies) != 1 || !strings.HasPrefix(responder.replies[0], "🚨 ServiceError: ") {
		t.Errorf("replies = %v, want one 🚨 ServiceError emission", responder.replies)
	}
}

func TestBudgetExhaustion(t *testing.T) {
	echo := &tools.Tool{
		Name:        "echo",
		Description: "repeats its input",
		Parameters:  []tools.Parameter{{Name: "text", Type: "string", Required: true}},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return args["text"], nil
		},
	}

	client := &scriptedClient{steps: []scriptStep{
		{reply: toolCallReply("echo", `{"text": "again"}`)},
	}}
	engine, responder := newTestEngine(t, client, 3)
	if err := engine.RegisterTool(echo); err != nil {
		t.Fatalf("register echo: %v", err)
	}

	result := engine.HandleMessage(context.Background(), testMessage("loop forever"))

	if result.Outcome != OutcomeBudgetExhausted {
		t.Fatalf("outcome = %q, want %q", result.Outcome, OutcomeBudgetExhausted)
	}
	if result.Iterations != 3 {
		t.Errorf("iterations = %d, want 3", result.Iterations)
	}
	if client.calls != 3 {
		t.Errorf("client calls = %d, want 3", client.calls)
	}

	last := responder.replies[len(responder.replies)-1]
	want := "🥺 I couldn't find a response to that after 3 actions, sorry."
	if last != want {
		t.Errorf("last reply = %q, want %q", last, want)
	}
}

func TestInvalidToolArgumentsRecover(t *testing.T) {
	client := &scriptedClient{steps: []scriptStep{
		{reply: toolCallReply("echo", `{not json`)},
		{reply: toolCallReply("conclude", `{"answer": "recovered"}`)},
	}}
	engine, responder := newTestEngine(t, client, 10)

	result := engine.HandleMessage(context.Background(), testMessage("hi"))

	if result.Outcome != OutcomeDone {
		t.Fatalf("outcome = %q, want %q", result.Outcome, OutcomeDone)
	}
	if result.Iterations != 2 {
		t.Errorf("iterations = %d, want 2", result.Iterations)
	}
	if len(responder.replies) != 2 {
		t.Fatalf("replies = %v, want 2 emissions", responder.replies)
	}
	if !strings.Contains(responder.replies[0], "invalid JSON for function echo") {
		t.Errorf("first reply = %q, want invalid JSON notice", responder.replies[0])
	}

	// The synthetic failure must be visible to the model on the next
	// iteration: tool call echo plus a tool result carrying the error.
	second := client.snapshots[1]
	var sawFailure bool
	for _, m := range second {
		if m.Role == llm.RoleTool && m.Content == `{"error": "Invalid JSON"}` {
			sawFailure = true
		}
	}
	if !sawFailure {
		t.Errorf("second completion did not see the synthetic failure result: %+v", second)
	}
}

func TestToolRunEmissionsAndHistory(t *testing.T) {
	search := &tools.Tool{
		Name:        "wikipedia",
		Description: "looks things up",
		Parameters:  []tools.Parameter{{Name: "search", Type: "string"}},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return "France, Paris, French Republic", nil
		},
	}

	client := &scriptedClient{steps: []scriptStep{
		{reply: toolCallReply("wikipedia", `{"search": "France"}`)},
		{reply: toolCallReply("conclude", `{"answer": "Paris", "emoji": "🤓"}`)},
	}}
	engine, responder := newTestEngine(t, client, 10)
	if err := engine.RegisterTool(search); err != nil {
		t.Fatalf("register wikipedia: %v", err)
	}

	result := engine.HandleMessage(context.Background(), testMessage("capital of France?"))

	if result.Outcome != OutcomeDone {
		t.Fatalf("outcome = %q, want %q", result.Outcome, OutcomeDone)
	}

	want := []string{
		"🤖 Running **wikipedia** with `{\"search\":\"France\"}`...",
		"🤖 Done ✅",
		"🤓 Paris",
	}
	if len(responder.replies) != len(want) {
		t.Fatalf("replies = %v, want %v", responder.replies, want)
	}
	for i := range want {
		if responder.replies[i] != want[i] {
			t.Errorf("reply[%d] = %q, want %q", i, responder.replies[i], want[i])
		}
	}

	// Second completion must see the full ordered conversation: system,
	// user, assistant tool call, tool result.
	second := client.snapshots[1]
	roles := make([]string, len(second))
	for i, m := range second {
		roles[i] = m.Role
	}
	wantRoles := []string{llm.RoleSystem, llm.RoleUser, llm.RoleAssistant, llm.RoleTool}
	if len(roles) != len(wantRoles) {
		t.Fatalf("roles = %v, want %v", roles, wantRoles)
	}
	for i := range wantRoles {
		if roles[i] != wantRoles[i] {
			t.Errorf("roles[%d] = %q, want %q", i, roles[i], wantRoles[i])
		}
	}
	if second[3].Content != `"France, Paris, French Republic"` {
		t.Errorf("tool result = %q, want serialized string", second[3].Content)
	}
}

func TestSearchThenSummaryThenConclude(t *testing.T) {
	lookup := &tools.Tool{
		Name:        "wikipedia",
		Description: "looks things up",
		Parameters: []tools.Parameter{
			{Name: "search", Type: "string"},
			{Name: "exact_title", Type: "string"},
		},
		ExactlyOneOf: [][]string{{"search", "exact_title"}},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			if _, ok := args["search"]; ok {
				return "Boston, Boston Terrier, Boston Massacre", nil
			}
			return "Boston is the capital of Massachusetts.", nil
		},
	}

	client := &scriptedClient{steps: []scriptStep{
		{reply: toolCallReply("wikipedia", `{"search": "Boston"}`)},
		{reply: toolCallReply("wikipedia", `{"exact_title": "Boston"}`)},
		{reply: toolCallReply("conclude", `{"answer": "Boston is the capital of Massachusetts.", "emoji": "💡"}`)},
	}}
	engine, responder := newTestEngine(t, client, 10)
	if err := engine.RegisterTool(lookup); err != nil {
		t.Fatalf("register wikipedia: %v", err)
	}

	result := engine.HandleMessage(context.Background(), testMessage("what is the capital of Massachusetts?"))

	if result.Outcome != OutcomeDone {
		t.Fatalf("outcome = %q, want %q", result.Outcome, OutcomeDone)
	}
	if result.Iterations != 3 {
		t.Errorf("iterations = %d, want 3", result.Iterations)
	}

	want := []string{
		"🤖 Running **wikipedia** with `{\"search\":\"Boston\"}`...",
		"🤖 Done ✅",
		"🤖 Running **wikipedia** with `{\"exact_title\":\"Boston\"}`...",
		"🤖 Done ✅",
		"💡 Boston is the capital of Massachusetts.",
	}
	if len(responder.replies) != len(want) {
		t.Fatalf("replies = %v, want %v", responder.replies, want)
	}
	for i := range want {
		if responder.replies[i] != want[i] {
			t.Errorf("reply[%d] = %q, want %q", i, responder.replies[i], want[i])
		}
	}

	// Every tool result in the final snapshot immediately follows the
	// assistant message that issued the matching call.
	final := client.snapshots[len(client.snapshots)-1]
	for i, m := range final {
		if m.Role == llm.RoleTool {
			prev := final[i-1]
			if prev.Role != llm.RoleAssistant || prev.ToolCall == nil || prev.ToolCall.Name != m.ToolName {
				t.Errorf("tool result at %d not preceded by its call: prev=%+v", i, prev)
			}
		}
	}
}

func TestToolFailureFedBackAsData(t *testing.T) {
	failing := &tools.Tool{
		Name:        "wikipedia",
		Description: "always fails",
		Parameters:  []tools.Parameter{{Name: "search", Type: "string"}},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, &tools.ExecutionError{Tool: "wikipedia", Kind: "LookupError", Err: errors.New("no results")}
		},
	}

	client := &scriptedClient{steps: []scriptStep{
		{reply: toolCallReply("wikipedia", `{"search": "xyzzy"}`)},
		{reply: toolCallReply("conclude", `{"answer": "no idea", "emoji": "😕"}`)},
	}}
	engine, responder := newTestEngine(t, client, 10)
	if err := engine.RegisterTool(failing); err != nil {
		t.Fatalf("register wikipedia: %v", err)
	}

	result := engine.HandleMessage(context.Background(), testMessage("look up xyzzy"))

	if result.Outcome != OutcomeDone {
		t.Fatalf("outcome = %q, want %q", result.Outcome, OutcomeDone)
	}

	var sawFailure bool
	for _, reply := range responder.replies {
		if reply == "🚨 LookupError: no results" {
			sawFailure = true
		}
	}
	if !sawFailure {
		t.Errorf("replies = %v, want a 🚨 LookupError emission", responder.replies)
	}

	// Failure text is also conversation data for the next iteration.
	second := client.snapshots[1]
	last := second[len(second)-1]
	if last.Role != llm.RoleTool || !strings.Contains(last.Content, "LookupError: no results") {
		t.Errorf("last message = %+v, want tool result carrying the failure", last)
	}
}

func TestUnknownToolName(t *testing.T) {
	client := &scriptedClient{steps: []scriptStep{
		{reply: toolCallReply("teleport", `{}`)},
		{reply: toolCallReply("conclude", `{"answer": "done"}`)},
	}}
	engine, responder := newTestEngine(t, client, 10)

	result := engine.HandleMessage(context.Background(), testMessage("hi"))

	if result.Outcome != OutcomeDone {
		t.Fatalf("outcome = %q, want %q", result.Outcome, OutcomeDone)
	}
	var sawNotFound bool
	for _, reply := range responder.replies {
		if strings.HasPrefix(reply, "🚨 ToolNotFound: ") {
			sawNotFound = true
		}
	}
	if !sawNotFound {
		t.Errorf("replies = %v, want a 🚨 ToolNotFound emission", responder.replies)
	}
}
