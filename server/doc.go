// Package server exposes a dataset over the MCP JSON-RPC 2.0 protocol.
//
// A Server answers initialize, tools/list, and tools/call requests. The
// built-in tools cover the dataset surface: search_records, filter_records,
// get_record, and list_kinds. Additional tools can be registered with a
// handler function.
//
//	srv, err := server.New(server.Config{Dataset: ds})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// stdio transport
//	err = server.ServeStdio(ctx, srv)
//
//	// or HTTP transport
//	http.ListenAndServe(addr, server.ServeHTTP(srv))
package server
