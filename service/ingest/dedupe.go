package ingest

import (
	"fmt"
	"strings"

	catalogRepository "souq.GO/model/repository/catalog"
)

const existingKeysChunk = 200

// dupeDetector answers "have we seen this listing before" for one
// batch. Catalog state is loaded once up front with a single chunked
// query pair instead of a lookup per item; batch-local repeats are
// tracked as the batch is walked.
type dupeDetector struct {
	byURL  map[string]uint
	byName map[string]uint
	seen   map[string]bool
}

// newDupeDetector preloads the catalog keys for a batch. urls and names
// are the candidate purchase URLs and translated names of every item in
// the batch.
func newDupeDetector(repo *catalogRepository.CatalogRepository, urls, names []string) (*dupeDetector, error) {
	byURL, byName, err := repo.ExistingKeys(urls, names, existingKeysChunk)
	if err != nil {
		return nil, fmt.Errorf("loading catalog keys: %w", err)
	}
	return &dupeDetector{
		byURL:  byURL,
		byName: byName,
		seen:   map[string]bool{},
	}, nil
}

// batchKey is the identity of an item inside its own batch: purchase
// URL when present, then name, then a positional key so items with
// neither are never collapsed together. The untitled-product sentinel
// carries no identity, so it falls through to the positional key like
// an empty name.
func batchKey(purchaseURL, name string, index int) string {
	if u := strings.TrimSpace(purchaseURL); u != "" {
		return "url:" + u
	}
	if n := strings.TrimSpace(name); n != "" && n != DefaultTitle {
		return "name:" + n
	}
	return fmt.Sprintf("pos:%d", index)
}

// Check classifies one item. A catalog hit returns the existing product
// ID so the caller can queue a refresh; a batch-local repeat returns
// duplicate with no ID. Either way the item's key is recorded so later
// repeats inside the same batch are caught.
func (d *dupeDetector) Check(purchaseURL, name string, index int) (existingID uint, duplicate bool) {
	key := batchKey(purchaseURL, name, index)
	if d.seen[key] {
		return 0, true
	}
	if u := strings.TrimSpace(purchaseURL); u != "" {
		if id, ok := d.byURL[u]; ok {
			d.remember(purchaseURL, name, index)
			return id, true
		}
	}
	if n := strings.TrimSpace(name); n != "" && n != DefaultTitle {
		if id, ok := d.byName[n]; ok {
			d.remember(purchaseURL, name, index)
			return id, true
		}
	}
	d.seen[key] = true
	return 0, false
}

// remember marks a catalog-duplicate item as seen so a second copy in
// the same batch is treated as a batch-local repeat, not queued twice.
func (d *dupeDetector) remember(purchaseURL, name string, index int) {
	d.seen[batchKey(purchaseURL, name, index)] = true
}
