package runcache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mdnmdn/asimeow/pkg/oracle"
)

// DefaultStatusCacheSize bounds the number of memoized status lookups.
const DefaultStatusCacheSize = 4096

// StatusCache memoizes IsExcluded answers of the wrapped Oracle for the
// lifetime of a run. Successful mutations update the memo in place.
type StatusCache struct {
	oracle oracle.Oracle
	cache  *lru.Cache[string, bool]
}

// NewStatusCache wraps o with a bounded memo. size <= 0 selects
// DefaultStatusCacheSize.
func NewStatusCache(o oracle.Oracle, size int) (*StatusCache, error) {
	if size <= 0 {
		size = DefaultStatusCacheSize
	}
	cache, err := lru.New[string, bool](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create status cache: %w", err)
	}
	return &StatusCache{oracle: o, cache: cache}, nil
}

func (s *StatusCache) IsExcluded(ctx context.Context, path string) bool {
	if excluded, ok := s.cache.Get(path); ok {
		return excluded
	}
	excluded := s.oracle.IsExcluded(ctx, path)
	s.cache.Add(path, excluded)
	return excluded
}

// Exclude short-circuits when the memo already knows path is excluded.
func (s *StatusCache) Exclude(ctx context.Context, path string) bool {
	if excluded, ok := s.cache.Get(path); ok && excluded {
		return false
	}
	changed := s.oracle.Exclude(ctx, path)
	if changed {
		s.cache.Add(path, true)
	} else {
		s.cache.Remove(path)
	}
	return changed
}

// Include short-circuits when the memo already knows path is included.
func (s *StatusCache) Include(ctx context.Context, path string) bool {
	if excluded, ok := s.cache.Get(path); ok && !excluded {
		return false
	}
	changed := s.oracle.Include(ctx, path)
	if changed {
		s.cache.Add(path, false)
	} else {
		s.cache.Remove(path)
	}
	return changed
}

// Len returns the number of memoized entries.
func (s *StatusCache) Len() int {
	return s.cache.Len()
}
