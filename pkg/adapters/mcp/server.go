// Package mcp exposes taxonomy trees to MCP clients over stdio or SSE.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jobatlas/jobatlas/internal/logging"
	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/jobatlas/jobatlas/pkg/export"
)

// Atlas is the slice of the engine the MCP surface needs.
type Atlas interface {
	Industries(ctx context.Context) ([]string, error)
	Tree(ctx context.Context, industry string) (*domain.Tree, error)
	Jobs(ctx context.Context, industry string) ([]*domain.Node, error)
	Delete(ctx context.Context, industry string) error
}

// TreesResponse lists the industries with persisted trees.
type TreesResponse struct {
	Industries []string `json:"industries" jsonschema_description:"Industries with a persisted taxonomy tree"`
}

// JobsResponse lists the job nodes of one industry.
type JobsResponse struct {
	Industry string       `json:"industry" jsonschema_description:"The industry the jobs belong to"`
	Jobs     []JobSummary `json:"jobs" jsonschema_description:"Job nodes in tree order"`
}

// JobSummary is a flattened job node.
type JobSummary struct {
	ID          string `json:"id" jsonschema_description:"Node id"`
	Name        string `json:"name" jsonschema_description:"Job statement"`
	Description string `json:"description,omitempty" jsonschema_description:"Short description of the job"`
}

// Server wraps an Atlas and exposes it as an MCP server.
type Server struct {
	atlas     Atlas
	log       *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new MCP server over an atlas.
func NewServer(atlas Atlas, version string, opts ...Option) *Server {
	s := &Server{
		atlas: atlas,
		log:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer("jobatlas-mcp", version)
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.log.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
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
	// TOOL: list_trees
	listTool := mcp.NewTool("list_trees",
		mcp.WithDescription("List the industries that have a persisted taxonomy tree."),
		mcp.WithOutputSchema[TreesResponse](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListTrees))

	// TOOL: get_tree
	getTool := mcp.NewTool("get_tree",
		mcp.WithDescription("Get the full taxonomy tree of an industry as nested JSON."),
		mcp.WithString("industry", mcp.Required(), mcp.Description("Industry name, e.g. \"Finance\"")),
	)
	s.mcpServer.AddTool(getTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		industry, err := request.RequireString("industry")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		tree, err := s.atlas.Tree(ctx, industry)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load tree failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(export.Dict(tree))
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: export_markdown
	mdTool := mcp.NewTool("export_markdown",
		mcp.WithDescription("Render the taxonomy tree of an industry as an indented markdown outline."),
		mcp.WithString("industry", mcp.Required(), mcp.Description("Industry name")),
	)
	s.mcpServer.AddTool(mdTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		industry, err := request.RequireString("industry")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		tree, err := s.atlas.Tree(ctx, industry)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load tree failed: %v", err)), nil
		}
		return mcp.NewToolResultText(export.Markdown(tree)), nil
	})

	// TOOL: list_jobs
	jobsTool := mcp.NewTool("list_jobs",
		mcp.WithDescription("List the job nodes of an industry in tree order."),
		mcp.WithString("industry", mcp.Required(), mcp.Description("Industry name")),
		mcp.WithOutputSchema[JobsResponse](),
	)
	s.mcpServer.AddTool(jobsTool, mcp.NewStructuredToolHandler(s.handleListJobs))
}

// Handler methods for structured tools

func (s *Server) handleListTrees(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TreesResponse, error) {
	industries, err := s.atlas.Industries(ctx)
	if err != nil {
		return TreesResponse{}, fmt.Errorf("list trees failed: %w", err)
	}
	if industries == nil {
		industries = []string{}
	}
	return TreesResponse{Industries: industries}, nil
}

func (s *Server) handleListJobs(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (JobsResponse, error) {
	industry, _ := args["industry"].(string)
	if industry == "" {
		return JobsResponse{}, fmt.Errorf("industry is required")
	}
	jobs, err := s.atlas.Jobs(ctx, industry)
	if err != nil {
		return JobsResponse{}, fmt.Errorf("list jobs failed: %w", err)
	}
	out := JobsResponse{Industry: industry, Jobs: make([]JobSummary, 0, len(jobs))}
	for _, j := range jobs {
		out.Jobs = append(out.Jobs, JobSummary{ID: j.ID, Name: j.Name, Description: j.Description})
	}
	return out, nil
}

func (s *Server) registerResources() {
	// EXPOSE: jobatlas://trees
	s.mcpServer.AddResource(mcp.NewResource("jobatlas://trees", "Persisted Taxonomy Trees",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		industries, err := s.atlas.Industries(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list trees: %w", err)
		}
		jsonBytes, _ := json.Marshal(TreesResponse{Industries: industries})

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "jobatlas://trees",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
