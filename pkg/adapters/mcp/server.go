// Package mcp exposes the triage engine as a Model Context Protocol server.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/triage"
	"github.com/aretw0/triage/internal/presentation/graph"
	"github.com/aretw0/triage/pkg/ports"
	"github.com/aretw0/triage/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ToolTriage  = "triage_query"
	ToolGraph   = "get_graph"
	GraphURI    = "triage://graph"
	mermaidMIME = "text/vnd.mermaid"
)

// TriageArgs are the arguments of the triage_query tool.
type TriageArgs struct {
	Query string `json:"query"`
}

// Server wraps the triage engine and exposes it as an MCP Server.
type Server struct {
	triager   ports.Triager
	logger    *slog.Logger
	sanitizer *runner.Sanitizer
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for tool failures and server lifecycle.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSanitizer sets the query sanitizer applied before every run.
func WithSanitizer(san *runner.Sanitizer) Option {
	return func(s *Server) {
		s.sanitizer = san
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(t ports.Triager, opts ...Option) *Server {
	s := &Server{
		triager:   t,
		logger:    slog.New(slog.DiscardHandler),
		sanitizer: runner.NewSanitizer(),
		mcpServer: server.NewMCPServer("triage-mcp", triage.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP protocol over SSE on addr until ctx is canceled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+displayHost(addr)))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func displayHost(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	triageTool := mcp.NewTool(ToolTriage,
		mcp.WithDescription("Classify a customer-support query by category and sentiment, then answer it or escalate it to a human agent."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The customer's query text")),
		mcp.WithOutputSchema[runner.Response](),
	)
	s.mcpServer.AddTool(triageTool, mcp.NewStructuredToolHandler(s.handleTriage))

	s.mcpServer.AddTool(mcp.NewTool(ToolGraph,
		mcp.WithDescription("Get the triage workflow as a Mermaid flowchart."),
	), s.handleGraph)
}

func (s *Server) handleTriage(ctx context.Context, _ mcp.CallToolRequest, args TriageArgs) (runner.Response, error) {
	query, err := s.sanitizer.Sanitize(args.Query)
	if err != nil {
		return runner.Response{}, err
	}

	res, err := s.triager.Triage(ctx, query)
	if err != nil {
		s.logger.Warn("triage tool failed", "error", err)
		return runner.Response{}, fmt.Errorf("triage failed: %w", err)
	}
	return runner.NewResponse(res), nil
}

func (s *Server) handleGraph(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(graph.GenerateMermaid(s.triager.Graph(), nil)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Triage Workflow",
		mcp.WithResourceDescription("Mermaid flowchart of the triage workflow"),
		mcp.WithMIMEType(mermaidMIME),
	), s.readGraph)
}

func (s *Server) readGraph(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI,
			MIMEType: mermaidMIME,
			Text:     graph.GenerateMermaid(s.triager.Graph(), nil),
		},
	}, nil
}
