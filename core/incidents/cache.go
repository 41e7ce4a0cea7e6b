package incidents

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ViewCache memoizes filtered views keyed by dataset version plus criteria.
// Filtering is referentially transparent, so the cache is purely an
// optimization: a nil ViewCache computes every call.
type ViewCache struct {
	entries *lru.Cache[string, []Incident]
}

// NewViewCache returns a cache holding up to size filtered views. size <= 0
// disables caching.
func NewViewCache(size int) *ViewCache {
	if size <= 0 {
		return nil
	}
	entries, err := lru.New[string, []Incident](size)
	if err != nil {
		return nil
	}
	return &ViewCache{entries: entries}
}

// Filtered returns Filter(all, c), serving repeated calls for the same
// dataset version and criteria from the cache. The version must change
// whenever the underlying collection is replaced.
func (vc *ViewCache) Filtered(version string, all []Incident, c Criteria) []Incident {
	if vc == nil || vc.entries == nil {
		return Filter(all, c)
	}
	key := cacheKey(version, c)
	if cached, ok := vc.entries.Get(key); ok {
		return cached
	}
	view := Filter(all, c)
	vc.entries.Add(key, view)
	return view
}

func cacheKey(version string, c Criteria) string {
	return strings.Join([]string{version, c.Search, c.Category, c.Status, c.From, c.To}, "\x1f")
}
