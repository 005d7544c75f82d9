package search

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/corpora-kb/corpora/dataset"
)

// computeFingerprint generates a stable hash of the record slice.
// The fingerprint changes when record content changes, enabling
// efficient cache invalidation for the bleve index.
func computeFingerprint(recs []dataset.Record) string {
	h := sha256.New()

	for _, rec := range recs {
		h.Write([]byte(rec.ID))
		h.Write([]byte{0})

		h.Write([]byte(rec.Kind))
		h.Write([]byte{0})

		h.Write([]byte(rec.Content))
		h.Write([]byte{0})

		// Metadata keys sorted for order-independence.
		keys := make([]string, 0, len(rec.Metadata))
		for k := range rec.Metadata {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+fmt.Sprint(rec.Metadata[k]))
		}
		h.Write([]byte(strings.Join(parts, "\x01")))
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}
