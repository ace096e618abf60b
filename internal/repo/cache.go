package repo

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedSource wraps a Source with bounded in-memory LRU caches for
// tree listings and file contents. Fetches are read-only, so cached
// results stay valid for the lifetime of the process; the caches exist
// to spare upstream quota when the same repository is analyzed more
// than once.
type CachedSource struct {
	inner Source
	trees *lru.Cache[string, []Entry]
	files *lru.Cache[string, string]
}

func NewCachedSource(inner Source) (*CachedSource, error) {
	trees, err := lru.New[string, []Entry](32)
	if err != nil {
		return nil, err
	}
	files, err := lru.New[string, string](512)
	if err != nil {
		return nil, err
	}
	return &CachedSource{inner: inner, trees: trees, files: files}, nil
}

func (c *CachedSource) FetchTree(ctx context.Context, id ID, maxDepth, maxCalls int) ([]Entry, error) {
	key := fmt.Sprintf("%s@%d/%d", id, maxDepth, maxCalls)
	if entries, ok := c.trees.Get(key); ok {
		return entries, nil
	}
	entries, err := c.inner.FetchTree(ctx, id, maxDepth, maxCalls)
	if err != nil {
		return nil, err
	}
	c.trees.Add(key, entries)
	return entries, nil
}

func (c *CachedSource) FetchFile(ctx context.Context, id ID, path string) (string, error) {
	key := id.String() + ":" + path
	if content, ok := c.files.Get(key); ok {
		return content, nil
	}
	content, err := c.inner.FetchFile(ctx, id, path)
	if err != nil {
		return "", err
	}
	c.files.Add(key, content)
	return content, nil
}

func (c *CachedSource) Close() error { return c.inner.Close() }
