package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/logger"
	"github.com/julianstephens/standup/internal/mcp"
)

// McpCmd serves the engine's tools over stdio for an MCP client.
type McpCmd struct{}

func (cmd *McpCmd) Run(ctx *Context) error {
	release, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer release()

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting MCP server", "version", constants.Version, "storage", ctx.Store.GetConfigPath())
	return mcp.NewServer(ctx.Session, constants.Version).Run(sigCtx)
}
