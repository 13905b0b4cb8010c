package mcpserver

import (
	"context"
	"errors"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/domain/sessionModel"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type SessionInput struct {
	SessionId string `json:"session_id" jsonschema:"id returned by create_session"`
}

type LoadInput struct {
	SessionId string `json:"session_id" jsonschema:"id returned by create_session"`
	Name      string `json:"name" jsonschema:"document name, shown back in answers and status"`
	Content   string `json:"content" jsonschema:"full text of the document"`
}

type AskInput struct {
	SessionId string `json:"session_id" jsonschema:"id returned by create_session"`
	Question  string `json:"question" jsonschema:"natural-language question about the loaded documents"`
}

type CreateInput struct{}

type SessionResult struct {
	SessionId     string   `json:"session_id"`
	State         string   `json:"state"`
	StatusMessage string   `json:"status_message"`
	Documents     []string `json:"documents"`
	Skipped       []string `json:"skipped,omitempty"`
	Answer        string   `json:"answer,omitempty"`
	Error         string   `json:"error,omitempty"`
}

func toResult(s sessionModel.Session) SessionResult {
	res := SessionResult{
		SessionId:     s.Id,
		State:         string(s.State),
		StatusMessage: s.StatusMessage,
		Documents:     make([]string, 0, len(s.Documents)),
		Answer:        s.Answer,
	}
	for _, d := range s.Documents {
		res.Documents = append(res.Documents, d.Name)
	}
	for _, f := range s.Skipped {
		res.Skipped = append(res.Skipped, f.Name)
	}
	if s.Error != nil {
		res.Error = s.Error.Message
	}
	return res
}

// toolError keeps operator detail in the log and gives the model the user-facing message
func (t *toolSet) toolError(ctx context.Context, tool string, err error) error {
	t.logger.WithTrace(ctx, config.TRACE_ID_KEY).Warn("Tool call failed", "tool", tool, "error", err)
	return errors.New(commonModels.UserMessage(err))
}

func (t *toolSet) createSession(ctx context.Context, req *mcp.CallToolRequest, _ CreateInput) (*mcp.CallToolResult, SessionResult, error) {
	created, err := t.sessions.Create(ctx)
	if err != nil {
		return nil, SessionResult{}, t.toolError(ctx, "create_session", err)
	}
	return nil, toResult(created), nil
}

func (t *toolSet) loadTextDocument(ctx context.Context, req *mcp.CallToolRequest, in LoadInput) (*mcp.CallToolResult, SessionResult, error) {
	if in.Name == "" {
		return nil, SessionResult{}, errors.New("name is required")
	}
	file := commonModels.NewBytesFile(in.Name, commonModels.MediaTypeText, []byte(in.Content))
	loaded, err := t.sessions.Load(ctx, in.SessionId, []commonModels.InputFile{file})
	if err != nil {
		return nil, SessionResult{}, t.toolError(ctx, "load_text_document", err)
	}
	return nil, toResult(loaded), nil
}

func (t *toolSet) askDocuments(ctx context.Context, req *mcp.CallToolRequest, in AskInput) (*mcp.CallToolResult, SessionResult, error) {
	answered, err := t.sessions.Ask(ctx, in.SessionId, in.Question)
	if err != nil {
		return nil, SessionResult{}, t.toolError(ctx, "ask_documents", err)
	}
	return nil, toResult(answered), nil
}

func (t *toolSet) sessionStatus(ctx context.Context, req *mcp.CallToolRequest, in SessionInput) (*mcp.CallToolResult, SessionResult, error) {
	found, err := t.sessions.Get(ctx, in.SessionId)
	if err != nil {
		return nil, SessionResult{}, t.toolError(ctx, "session_status", err)
	}
	return nil, toResult(found), nil
}
