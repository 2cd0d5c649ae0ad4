package cli

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/julianstephens/standup/internal/logger"
)

const noKeyHint = "No API key found: set OPENAI_API_KEY or run 'standup key set api-key'. Commands that don't need the assistant still work."

// ChatCmd sends one message to the assistant, or with no message reads one
// per line until EOF or "exit".
type ChatCmd struct {
	Message []string `arg:"" optional:"" help:"Message for the assistant. Omit to chat interactively."`
}

func (c *ChatCmd) Run(ctx *Context) error {
	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()

	if len(c.Message) > 0 {
		return turn(ctx, strings.Join(c.Message, " "))
	}

	scanner := bufio.NewScanner(ctx.in())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		ctx.printf("%s ", boldColor.Sprint(">"))
		if !scanner.Scan() {
			ctx.println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		if err := turn(ctx, line); err != nil {
			return err
		}
	}
}

func turn(ctx *Context, input string) error {
	reply, err := ctx.Session.Turn(context.Background(), input)
	if reply.Warning {
		ctx.warn(reply.Text)
	} else {
		ctx.markdown(reply.Render())
	}
	if err != nil {
		// The reply was shown; surface store failures without ending the chat.
		logger.Error("Turn finished with errors", "error", err)
		ctx.warn("Some changes could not be saved: " + err.Error())
	}
	return nil
}

// ApplyCmd applies assistant-style text without calling the model, reading
// stdin when no text is given.
type ApplyCmd struct {
	Text []string `arg:"" optional:"" help:"Reply text containing [ACTION:KIND:CATEGORY:CONTENT] directives."`
}

func (c *ApplyCmd) Run(ctx *Context) error {
	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()

	text := strings.Join(c.Text, " ")
	if len(c.Text) == 0 {
		data, err := io.ReadAll(ctx.in())
		if err != nil {
			return err
		}
		text = string(data)
	}

	reply, err := ctx.Session.ApplyReply(text)
	ctx.markdown(reply.Render())
	return err
}
