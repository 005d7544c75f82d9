// Package dataset provides an embedded, durable record store for the
// knowledge applications in this module.
//
// A dataset is a single SQLite file (or an in-memory database) holding
// records: free-form content plus flexible JSON metadata and an optional
// embedding vector. It is the storage substrate the application packages
// (changelog, meetings, courses, finance, githubkb, multidocs) write into
// and the search package reads from.
//
// # Basic Usage
//
//	ds, err := dataset.Open("knowledge.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ds.Close()
//
//	id, err := ds.Add(ctx, dataset.Record{
//	    Kind:    "release",
//	    Content: "Added dark mode support",
//	    Metadata: dataset.Metadata{"version": "1.2.0", "category": "Added"},
//	})
//
//	recs, err := ds.Filter(ctx, dataset.Filter{
//	    Kind:  "release",
//	    Where: dataset.Metadata{"version": "1.2.0"},
//	})
//
// # Embeddings
//
// Record embeddings are stored as little-endian IEEE 754 float32 blobs.
// The dataset does not compute embeddings itself; callers attach them via
// Record.Embedding (see the search package for embedder implementations).
//
// # Thread Safety
//
// Dataset is safe for concurrent use. Reads go through the database/sql
// pool; SQLite serializes writes.
//
// # Error Handling
//
// The package defines these sentinel errors:
//   - [ErrNotFound]: record does not exist
//   - [ErrDuplicateID]: Add called with an ID already present
//   - [ErrEmptyID]: operation requires a non-empty record ID
//   - [ErrClosed]: operation on a closed dataset
//   - [ErrInvalidEmbedding]: stored embedding blob is malformed
//
// Use errors.Is for error checking.
package dataset
