package handle_resources

import (
	"context"
	"net/http"

	"github.com/KincaidYang/whoischain/config"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// LookupInput is the argument of the whois_lookup tool.
type LookupInput struct {
	Domain   string `json:"domain" jsonschema:"domain name to look up, Unicode or Punycode"`
	NeverCut bool   `json:"neverCut,omitempty" jsonschema:"keep complete registry responses instead of the matching record"`
}

// LookupOutput is the structured result of the whois_lookup tool.
type LookupOutput = DomainResponse

// NewMCPServer returns an MCP server exposing the whois_lookup tool.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "whoischain", Version: config.Version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "whois_lookup",
		Description: "Query the WHOIS root server of a domain and follow referrals to the registrar. Returns every response, most recent first, and the servers queried.",
	}, h.lookupTool)
	return server
}

// MCPHandler serves the MCP streamable HTTP transport.
func (h *Handler) MCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}

func (h *Handler) lookupTool(ctx context.Context, req *mcp.CallToolRequest, in LookupInput) (*mcp.CallToolResult, LookupOutput, error) {
	domain, err := normalizeInput(in.Domain)
	if err != nil {
		return nil, LookupOutput{}, err
	}

	resp, err := h.lookup(ctx, domain, in.NeverCut)
	if err != nil {
		h.logger.Warn("MCP lookup failed", zap.String("domain", domain), zap.Error(err))
		_, message := classifyError(err)
		return nil, LookupOutput{}, errors.New(message)
	}
	return nil, *resp, nil
}
