// Package client is the Go consumer kit for the API: a typed HTTP client,
// a page cache for cursor-paginated queries and an optimistic mutation
// wrapper, mirroring what the web frontend's query layer does.
package client

import (
	"strings"
	"sync"
)

// QueryKey identifies one cached query, e.g. Key("feed", "for-you") or
// Key("comments", postID).
type QueryKey string

func Key(parts ...string) QueryKey {
	return QueryKey(strings.Join(parts, "/"))
}

// Page is one fetched page plus the cursor that fetched it.
type Page[T any] struct {
	Cursor string
	Items  []T
}

type pageEntry[T any] struct {
	pages      []Page[T]
	nextCursor string
	hasNext    bool
}

// PageCache stores the pages of cursor-paginated queries in fetch order.
// Patches and prepends edit items in place without disturbing the page
// boundaries or the recorded cursor sequence, so a later "fetch next page"
// continues exactly where the server left off. All reads return copies.
type PageCache[T any] struct {
	mu      sync.RWMutex
	entries map[QueryKey]*pageEntry[T]
}

func NewPageCache[T any]() *PageCache[T] {
	return &PageCache[T]{entries: make(map[QueryKey]*pageEntry[T])}
}

// Append records a fetched page. cursor is the token the fetch used (empty
// for the first page); nextCursor is what the server returned (nil at the
// end of the collection).
func (c *PageCache[T]) Append(key QueryKey, cursor string, items []T, nextCursor *string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &pageEntry[T]{}
		c.entries[key] = e
	}
	e.pages = append(e.pages, Page[T]{Cursor: cursor, Items: append([]T(nil), items...)})
	if nextCursor != nil {
		e.nextCursor = *nextCursor
		e.hasNext = true
	} else {
		e.nextCursor = ""
		e.hasNext = false
	}
}

// NextCursor returns the cursor for the next fetch. ok is false when the
// key is unknown or the collection is exhausted.
func (c *PageCache[T]) NextCursor(key QueryKey) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !e.hasNext {
		return "", false
	}
	return e.nextCursor, true
}

// Items flattens the cached pages in display order. The slice is a copy.
func (c *PageCache[T]) Items(key QueryKey) ([]T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	var items []T
	for _, p := range e.pages {
		items = append(items, p.Items...)
	}
	return items, true
}

// Pages returns a copy of the cached pages with their cursors.
func (c *PageCache[T]) Pages(key QueryKey) ([]Page[T], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	out := make([]Page[T], len(e.pages))
	for i, p := range e.pages {
		out[i] = Page[T]{Cursor: p.Cursor, Items: append([]T(nil), p.Items...)}
	}
	return out, true
}

// PatchItem rewrites every matching item across every entry whose key
// satisfies keys, in place, leaving page boundaries untouched. A single post
// cached under several feeds gets updated everywhere in one call. Returns
// the number of items patched.
func (c *PageCache[T]) PatchItem(keys func(QueryKey) bool, match func(T) bool, update func(T) T) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	patched := 0
	for key, e := range c.entries {
		if !keys(key) {
			continue
		}
		for _, p := range e.pages {
			for i, item := range p.Items {
				if match(item) {
					p.Items[i] = update(item)
					patched++
				}
			}
		}
	}
	return patched
}

// ExactKey is the keys predicate for patching a single entry.
func ExactKey(key QueryKey) func(QueryKey) bool {
	return func(k QueryKey) bool { return k == key }
}

// PrependItem pushes an item to the very front of the cached list, the way
// a client shows its own new post without refetching. The item joins the
// first page; cursors are untouched.
func (c *PageCache[T]) PrependItem(key QueryKey, item T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &pageEntry[T]{pages: []Page[T]{{}}}
		c.entries[key] = e
	}
	if len(e.pages) == 0 {
		e.pages = []Page[T]{{}}
	}
	first := &e.pages[0]
	first.Items = append([]T{item}, first.Items...)
}

// Invalidate drops every entry whose key matches. The next read misses and
// forces a refetch.
func (c *PageCache[T]) Invalidate(match func(QueryKey) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if match(key) {
			delete(c.entries, key)
		}
	}
}

// Clear drops a single entry.
func (c *PageCache[T]) Clear(key QueryKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
