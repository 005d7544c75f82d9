package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/corpora-kb/corpora/dataset"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	ds, err := dataset.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })

	ctx := context.Background()
	records := []dataset.Record{
		{ID: "rel-1", Kind: "release", Content: "Added dark mode toggle", Metadata: dataset.Metadata{"version": "1.2.0"}},
		{ID: "rel-2", Kind: "release", Content: "Fixed crash on empty query", Metadata: dataset.Metadata{"version": "1.2.1"}},
		{ID: "item-1", Kind: "action_item", Content: "Draft release notes", Metadata: dataset.Metadata{"status": "open"}},
	}
	if _, err := ds.AddBatch(ctx, records); err != nil {
		t.Fatalf("AddBatch() error = %v", err)
	}

	srv, err := New(Config{Dataset: ds, ServerInfo: ServerInfo{Name: "test", Version: "0.1.0"}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv
}

func call(t *testing.T, srv *Server, method string, params any) MCPResponse {
	t.Helper()
	var raw json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			t.Fatalf("marshal params: %v", err)
		}
		raw = b
	}
	return srv.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  raw,
	})
}

func TestNew_NilDataset(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error for nil dataset")
	}
}

func TestServer_Initialize(t *testing.T) {
	srv := newServer(t)
	resp := call(t, srv, "initialize", nil)
	if resp.Error != nil {
		t.Fatalf("initialize error: %+v", resp.Error)
	}

	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("result type %T", resp.Result)
	}
	if result["protocolVersion"] != ProtocolVersion {
		t.Errorf("protocolVersion = %v", result["protocolVersion"])
	}
	info, _ := result["serverInfo"].(map[string]any)
	if info["name"] != "test" {
		t.Errorf("serverInfo = %v", info)
	}
}

func TestServer_ToolsList(t *testing.T) {
	srv := newServer(t)
	resp := call(t, srv, "tools/list", nil)
	if resp.Error != nil {
		t.Fatalf("tools/list error: %+v", resp.Error)
	}

	result := resp.Result.(map[string]any)
	tools := result["tools"].([]map[string]any)
	if len(tools) != 4 {
		t.Fatalf("got %d tools, want 4", len(tools))
	}
	want := []string{"search_records", "filter_records", "get_record", "list_kinds"}
	for i, name := range want {
		if tools[i]["name"] != name {
			t.Errorf("tools[%d] = %v, want %s", i, tools[i]["name"], name)
		}
	}
}

func TestServer_UnknownMethod(t *testing.T) {
	srv := newServer(t)
	resp := call(t, srv, "resources/list", nil)
	if resp.Error == nil || resp.Error.Code != ErrCodeMethodNotFound {
		t.Errorf("error = %+v, want code %d", resp.Error, ErrCodeMethodNotFound)
	}
}

func TestServer_SearchRecords(t *testing.T) {
	srv := newServer(t)
	resp := call(t, srv, "tools/call", map[string]any{
		"name":      "search_records",
		"arguments": map[string]any{"query": "dark mode", "limit": 5},
	})
	if resp.Error != nil {
		t.Fatalf("tools/call error: %+v", resp.Error)
	}

	result := resp.Result.(map[string]any)
	hits := result["results"].([]map[string]any)
	if len(hits) == 0 {
		t.Fatal("expected hits")
	}
	if hits[0]["id"] != "rel-1" {
		t.Errorf("top hit = %v, want rel-1", hits[0]["id"])
	}
}

func TestServer_SearchRecords_MissingQuery(t *testing.T) {
	srv := newServer(t)
	resp := call(t, srv, "tools/call", map[string]any{
		"name":      "search_records",
		"arguments": map[string]any{},
	})
	if resp.Error == nil || resp.Error.Code != ErrCodeToolExecFailed {
		t.Errorf("error = %+v, want code %d", resp.Error, ErrCodeToolExecFailed)
	}
}

func TestServer_FilterRecords(t *testing.T) {
	srv := newServer(t)
	resp := call(t, srv, "tools/call", map[string]any{
		"name": "filter_records",
		"arguments": map[string]any{
			"kind":  "release",
			"where": map[string]any{"version": "1.2.1"},
		},
	})
	if resp.Error != nil {
		t.Fatalf("tools/call error: %+v", resp.Error)
	}

	result := resp.Result.(map[string]any)
	recs := result["records"].([]map[string]any)
	if len(recs) != 1 || recs[0]["id"] != "rel-2" {
		t.Errorf("records = %v", recs)
	}
}

func TestServer_GetRecord(t *testing.T) {
	srv := newServer(t)
	resp := call(t, srv, "tools/call", map[string]any{
		"name":      "get_record",
		"arguments": map[string]any{"id": "item-1"},
	})
	if resp.Error != nil {
		t.Fatalf("tools/call error: %+v", resp.Error)
	}
	result := resp.Result.(map[string]any)
	if result["kind"] != "action_item" {
		t.Errorf("kind = %v", result["kind"])
	}

	missing := call(t, srv, "tools/call", map[string]any{
		"name":      "get_record",
		"arguments": map[string]any{"id": "nope"},
	})
	if missing.Error == nil {
		t.Error("expected error for missing record")
	}
}

func TestServer_ListKinds(t *testing.T) {
	srv := newServer(t)
	resp := call(t, srv, "tools/call", map[string]any{
		"name":      "list_kinds",
		"arguments": map[string]any{},
	})
	if resp.Error != nil {
		t.Fatalf("tools/call error: %+v", resp.Error)
	}
	result := resp.Result.(map[string]any)
	kinds := result["kinds"].([]string)
	if len(kinds) != 2 {
		t.Errorf("kinds = %v", kinds)
	}
}

func TestServer_UnknownTool(t *testing.T) {
	srv := newServer(t)
	resp := call(t, srv, "tools/call", map[string]any{
		"name":      "no_such_tool",
		"arguments": map[string]any{},
	})
	if resp.Error == nil || resp.Error.Code != ErrCodeToolNotFound {
		t.Errorf("error = %+v, want code %d", resp.Error, ErrCodeToolNotFound)
	}
}

func TestServer_RegisterCustomTool(t *testing.T) {
	srv := newServer(t)
	srv.Register(mcp.Tool{
		Name:        "ping",
		Description: "Health probe",
		InputSchema: map[string]any{"type": "object"},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		return map[string]any{"pong": true}, nil
	})

	resp := call(t, srv, "tools/call", map[string]any{
		"name":      "ping",
		"arguments": map[string]any{},
	})
	if resp.Error != nil {
		t.Fatalf("tools/call error: %+v", resp.Error)
	}
	result := resp.Result.(map[string]any)
	if result["pong"] != true {
		t.Errorf("result = %v", result)
	}
}

func TestServeHTTP(t *testing.T) {
	srv := newServer(t)
	ts := httptest.NewServer(ServeHTTP(srv))
	t.Cleanup(ts.Close)

	body, _ := json.Marshal(MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})
	resp, err := http.Post(ts.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	defer resp.Body.Close()

	var mcpResp MCPResponse
	if err := json.NewDecoder(resp.Body).Decode(&mcpResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if mcpResp.Error != nil {
		t.Fatalf("response error: %+v", mcpResp.Error)
	}

	get, err := http.Get(ts.URL)
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	get.Body.Close()
	if get.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want %d", get.StatusCode, http.StatusMethodNotAllowed)
	}
}
