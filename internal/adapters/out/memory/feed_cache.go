// internal/adapters/out/memory/feed_cache.go
package memory

import (
	"strconv"
	"sync"

	photodom "gallery/internal/domain/photo"
)

// FeedCache is a small in-process page cache for the photo feed.
// It implements usecase.FeedCache.
//
// The deletion coordinator calls Remove+Invalidate so a deleted photo
// disappears immediately and the next page read hits the source of truth.
type FeedCache struct {
	mu    sync.RWMutex
	pages map[string]feedPage
}

type feedPage struct {
	photos []photodom.Photo
	next   string
}

func NewFeedCache() *FeedCache {
	return &FeedCache{pages: make(map[string]feedPage)}
}

func pageKey(cursor string, limit int) string {
	return cursor + "|" + strconv.Itoa(limit)
}

func (c *FeedCache) Get(cursor string, limit int) ([]photodom.Photo, string, bool) {
	if c == nil {
		return nil, "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.pages[pageKey(cursor, limit)]
	if !ok {
		return nil, "", false
	}
	out := make([]photodom.Photo, len(p.photos))
	copy(out, p.photos)
	return out, p.next, true
}

func (c *FeedCache) Set(cursor string, limit int, photos []photodom.Photo, next string) {
	if c == nil {
		return
	}
	cp := make([]photodom.Photo, len(photos))
	copy(cp, photos)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[pageKey(cursor, limit)] = feedPage{photos: cp, next: next}
}

// Remove drops one photo from every cached page (optimistic local removal).
func (c *FeedCache) Remove(photoID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, p := range c.pages {
		kept := p.photos[:0]
		for _, ph := range p.photos {
			if ph.ID != photoID {
				kept = append(kept, ph)
			}
		}
		p.photos = kept
		c.pages[k] = p
	}
}

// Invalidate drops all cached pages.
func (c *FeedCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = make(map[string]feedPage)
}
