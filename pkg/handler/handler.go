package handler

import (
	"context"
	"log/slog"
	"time"

	"helpbot/pkg/agent"
	"helpbot/pkg/api"
	"helpbot/pkg/monitor"
	"helpbot/pkg/tools"
	"helpbot/pkg/utils"
	"helpbot/pkg/wikipedia"
)

// ChatHandler is the entry point for incoming unified messages. It tags
// each message with a debug ID for log grouping and hands it to the
// agent engine, which owns the reasoning loop.
type ChatHandler struct {
	engine *agent.Engine
}

// NewChatHandler initializes a ChatHandler and registers the core tool
// set on the engine.
func NewChatHandler(engine *agent.Engine) *ChatHandler {
	wiki := wikipedia.NewClient()
	if err := engine.RegisterTool(
		tools.NewWikipediaTool(wiki),
		tools.NewCalculateTool(),
		tools.NewRandomTool(),
		tools.NewConcludeTool(),
	); err != nil {
		slog.Error("Failed to register tools", "error", err)
	}

	return &ChatHandler{engine: engine}
}

// SetResponder implements api.ResponderAware; the gateway injects
// itself here during Build().
func (h *ChatHandler) SetResponder(responder api.MessageResponder) {
	h.engine.SetResponder(responder)
}

// OnMessage processes one incoming user message end to end.
func (h *ChatHandler) OnMessage(msg *api.UnifiedMessage) {
	if msg.DebugID == "" {
		msg.DebugID = utils.ShortID()
	}
	ctx := monitor.WithDebugID(context.Background(), msg.DebugID)
	start := time.Now()

	slog.InfoContext(ctx, "Processing message",
		"channel", msg.Session.ChannelID, "user", msg.Session.Username, "content", msg.Content)

	result := h.engine.HandleMessage(ctx, msg)

	slog.InfoContext(ctx, "Turn finished",
		"outcome", result.Outcome, "iterations", result.Iterations, "elapsed", time.Since(start))
}
