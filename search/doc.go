// Package search provides relevance scoring and retrieval over dataset
// records.
//
// It defines pluggable scoring strategies (BM25, embeddings, hybrid) without
// enforcing any specific vector backend or network dependency. Users may
// bring their own embedding provider (OpenAI, Ollama, local models); a
// deterministic feature-hashing embedder is included for offline use.
//
// # Core Interfaces
//
//   - [Strategy]: scores a record against a query (BM25, embedding, or hybrid)
//   - [Embedder]: generates vector embeddings from text
//
// # Basic Usage
//
//	s, err := search.New(search.Options{Dataset: ds})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := s.Search(ctx, "dark mode", 10)
//	for _, r := range results {
//	    fmt.Printf("[%.2f] %s\n", r.Score, r.Record.ID)
//	}
//
// # Hybrid Search
//
// Provide an embedder to combine lexical and semantic scores:
//
//	s, err := search.New(search.Options{
//	    Dataset:     ds,
//	    Embedder:    search.NewHashingEmbedder(256),
//	    HybridAlpha: 0.7, // 70% BM25, 30% embedding
//	})
//
// # Full-Text Index
//
// [BleveIndex] maintains a bleve full-text index over the dataset and
// rebuilds it lazily when the record fingerprint changes. It trades index
// build cost for richer text matching than the per-record strategies.
//
// # Determinism
//
// All searchers order results by score descending, then record ID ascending,
// so equal-score results have a stable order.
package search
