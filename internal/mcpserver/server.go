// Package mcpserver exposes sessions as MCP tools, so agents can load documents and ask
// questions without the upload API. Tools run synchronously.
package mcpserver

import (
	"context"
	"net/http"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/domain/sessionModel"
	"github.com/akolanti/KnowledgeSearch/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Sessions is satisfied by *session.Service.
type Sessions interface {
	Create(ctx context.Context) (sessionModel.Session, error)
	Get(ctx context.Context, id string) (sessionModel.Session, error)
	Load(ctx context.Context, id string, files []commonModels.InputFile) (sessionModel.Session, error)
	Ask(ctx context.Context, id string, query string) (sessionModel.Session, error)
}

type toolSet struct {
	sessions Sessions
	logger   *logger_i.Logger
}

func NewServer(sessions Sessions) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: config.MCPServerName, Version: config.MCPServerVersion}, nil)
	tools := &toolSet{sessions: sessions, logger: logger_i.NewLogger("MCP")}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_session",
		Description: "Start an empty document session. Returns the session id used by the other tools.",
	}, tools.createSession)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "load_text_document",
		Description: "Replace the session's documents with one plain-text document.",
	}, tools.loadTextDocument)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_documents",
		Description: "Answer a question using only the documents loaded in the session.",
	}, tools.askDocuments)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "session_status",
		Description: "Current state, status message, loaded documents and latest answer of a session.",
	}, tools.sessionStatus)

	return server
}

// NewHandler serves the MCP server over streamable HTTP.
func NewHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}
