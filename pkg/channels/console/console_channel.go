package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"helpbot/pkg/api"
)

// ConsoleChannel is an interactive stdin/stdout shell. Each line typed
// at the prompt becomes one message; replies print directly below it.
type ConsoleChannel struct {
	in         io.Reader
	out        io.Writer
	username   string
	stopCtx    context.Context
	stopCancel context.CancelFunc
}

func NewConsoleChannel() *ConsoleChannel {
	ctx, cancel := context.WithCancel(context.Background())
	username := "local"
	if u := os.Getenv("USER"); u != "" {
		username = u
	}
	return &ConsoleChannel{
		in:         os.Stdin,
		out:        os.Stdout,
		username:   username,
		stopCtx:    ctx,
		stopCancel: cancel,
	}
}

func (c *ConsoleChannel) ID() string {
	return "console"
}

func (c *ConsoleChannel) Start(ctx api.ChannelContext) error {
	session := api.SessionContext{
		ChannelID: "console",
		UserID:    c.username,
		ChatID:    "console",
		Username:  c.username,
	}

	go func() {
		scanner := bufio.NewScanner(c.in)
		fmt.Fprint(c.out, ">>> ")
		for scanner.Scan() {
			select {
			case <-c.stopCtx.Done():
				return
			default:
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				fmt.Fprint(c.out, ">>> ")
				continue
			}
			if line == "exit" || line == "quit" {
				c.stopCancel()
				return
			}

			// OnMessage runs the handler synchronously, so replies
			// print before the next prompt.
			ctx.OnMessage(c.ID(), &api.UnifiedMessage{
				Session: session,
				Content: line,
			})
			fmt.Fprint(c.out, ">>> ")
		}
	}()

	return nil
}

func (c *ConsoleChannel) Stop() error {
	c.stopCancel()
	return nil
}

func (c *ConsoleChannel) Send(session api.SessionContext, message string) error {
	_, err := fmt.Fprintln(c.out, message)
	return err
}

// Done reports when the user typed exit/quit, so main can shut down.
func (c *ConsoleChannel) Done() <-chan struct{} {
	return c.stopCtx.Done()
}
