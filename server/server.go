package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/corpora-kb/corpora/dataset"
	"github.com/corpora-kb/corpora/search"
)

// ProtocolVersion is the MCP protocol version reported by initialize.
const ProtocolVersion = "2024-11-05"

// ToolHandler executes a tool call with decoded arguments.
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

// ServerInfo describes this MCP server for the initialize response.
type ServerInfo struct {
	Name    string
	Version string
}

// Config configures a Server.
type Config struct {
	// Dataset is the record store the built-in tools operate on. Required.
	Dataset *dataset.Dataset

	// Searcher overrides the search implementation. When nil a BM25
	// searcher over the dataset is created.
	Searcher *search.Searcher

	// ServerInfo defaults to "corpora".
	ServerInfo ServerInfo

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

type registeredTool struct {
	tool    mcp.Tool
	handler ToolHandler
}

// Server is an MCP server over a dataset with built-in record tools.
type Server struct {
	mu       sync.RWMutex
	config   Config
	ds       *dataset.Dataset
	searcher *search.Searcher
	log      *slog.Logger

	tools map[string]registeredTool
	order []string
}

// New creates a Server with the built-in tools registered.
func New(cfg Config) (*Server, error) {
	if cfg.Dataset == nil {
		return nil, ErrNilDataset
	}
	if cfg.ServerInfo.Name == "" {
		cfg.ServerInfo.Name = "corpora"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	searcher := cfg.Searcher
	if searcher == nil {
		var err error
		searcher, err = search.New(search.Options{Dataset: cfg.Dataset})
		if err != nil {
			return nil, err
		}
	}

	s := &Server{
		config:   cfg,
		ds:       cfg.Dataset,
		searcher: searcher,
		log:      cfg.Logger,
		tools:    make(map[string]registeredTool),
	}
	s.registerBuiltins()
	return s, nil
}

// Register adds a tool with its handler. Re-registering a name replaces the
// previous tool.
func (s *Server) Register(tool mcp.Tool, handler ToolHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tools[tool.Name]; !exists {
		s.order = append(s.order, tool.Name)
	}
	s.tools[tool.Name] = registeredTool{tool: tool, handler: handler}
}

// Tools returns the registered tools in registration order.
func (s *Server) Tools() []mcp.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]mcp.Tool, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.tools[name].tool)
	}
	return out
}

// Execute runs a registered tool by name.
func (s *Server) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	s.mu.RLock()
	rt, ok := s.tools[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	s.log.Debug("tool call", "tool", name)
	result, err := rt.handler(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrExecutionFailed, name, err)
	}
	return result, nil
}

func (s *Server) registerBuiltins() {
	s.Register(mcp.Tool{
		Name:        "search_records",
		Description: "Search records by relevance, optionally scoped to a kind",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": "Search query"},
				"kind":  map[string]any{"type": "string", "description": "Restrict to a record kind"},
				"limit": map[string]any{"type": "number", "description": "Maximum results, default 10"},
			},
			"required": []string{"query"},
		},
	}, s.handleSearchRecords)

	s.Register(mcp.Tool{
		Name:        "filter_records",
		Description: "List records matching a kind and metadata equality filter",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"kind":  map[string]any{"type": "string", "description": "Record kind"},
				"where": map[string]any{"type": "object", "description": "Metadata key/value equality"},
				"limit": map[string]any{"type": "number", "description": "Maximum results"},
			},
		},
	}, s.handleFilterRecords)

	s.Register(mcp.Tool{
		Name:        "get_record",
		Description: "Fetch a single record by ID",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{"type": "string", "description": "Record ID"},
			},
			"required": []string{"id"},
		},
	}, s.handleGetRecord)

	s.Register(mcp.Tool{
		Name:        "list_kinds",
		Description: "List the record kinds present in the dataset",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}, s.handleListKinds)
}

func (s *Server) handleSearchRecords(ctx context.Context, args map[string]any) (any, error) {
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidRequest)
	}
	limit := intArg(args, "limit", 10)
	kind, _ := args["kind"].(string)

	results, err := s.searcher.SearchFilter(ctx, dataset.Filter{Kind: kind}, query, limit)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(results))
	for _, r := range results {
		out = append(out, map[string]any{
			"id":       r.Record.ID,
			"kind":     r.Record.Kind,
			"content":  r.Record.Content,
			"metadata": r.Record.Metadata,
			"score":    r.Score,
		})
	}
	return map[string]any{"results": out}, nil
}

func (s *Server) handleFilterRecords(ctx context.Context, args map[string]any) (any, error) {
	kind, _ := args["kind"].(string)
	where, _ := args["where"].(map[string]any)
	limit := intArg(args, "limit", 0)

	recs, err := s.ds.Filter(ctx, dataset.Filter{Kind: kind, Where: where, Limit: limit})
	if err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		out = append(out, map[string]any{
			"id":       rec.ID,
			"kind":     rec.Kind,
			"content":  rec.Content,
			"metadata": rec.Metadata,
		})
	}
	return map[string]any{"records": out}, nil
}

func (s *Server) handleGetRecord(ctx context.Context, args map[string]any) (any, error) {
	id, ok := args["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidRequest)
	}
	rec, err := s.ds.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"id":       rec.ID,
		"kind":     rec.Kind,
		"content":  rec.Content,
		"metadata": rec.Metadata,
	}, nil
}

func (s *Server) handleListKinds(ctx context.Context, args map[string]any) (any, error) {
	kinds, err := s.ds.Kinds(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"kinds": kinds}, nil
}

func intArg(args map[string]any, key string, def int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return def
}
