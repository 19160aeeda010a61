package event

import (
	"context"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	delFn          func(ctx context.Context, key string) error
	existsFn       func(ctx context.Context, key string) (bool, error)
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

// catalog is an in-memory hash store backing multi-operation tests.
type catalog struct {
	hashes map[string]map[string]string
}

func newCatalog() *catalog {
	return &catalog{hashes: make(map[string]map[string]string)}
}

func (c *catalog) mock() *mockStore {
	return &mockStore{
		hsetFn: func(_ context.Context, key string, fields map[string]string) error {
			h := c.hashes[key]
			if h == nil {
				h = make(map[string]string)
				c.hashes[key] = h
			}
			for k, v := range fields {
				h[k] = v
			}
			return nil
		},
		hgetAllFn: func(_ context.Context, key string) (map[string]string, error) {
			return c.hashes[key], nil
		},
		hgetAllMultiFn: func(_ context.Context, keys []string) ([]map[string]string, error) {
			out := make([]map[string]string, len(keys))
			for i, k := range keys {
				out[i] = c.hashes[k]
			}
			return out, nil
		},
		delFn: func(_ context.Context, key string) error {
			delete(c.hashes, key)
			return nil
		},
		existsFn: func(_ context.Context, key string) (bool, error) {
			_, ok := c.hashes[key]
			return ok, nil
		},
		scanFn: func(_ context.Context, _ string) ([]string, error) {
			keys := make([]string, 0, len(c.hashes))
			for k := range c.hashes {
				keys = append(keys, k)
			}
			return keys, nil
		},
	}
}
