package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

var fills singleflight.Group

// Fetch returns the cached value for key, or calls load, caches its result
// for ttl and returns it. cached reports whether the value came from the
// cache. Concurrent misses on the same key share one load call.
//
// Errors from load are returned and nothing is cached. The shared load keeps
// the first caller's deadline but not its cancellation, so one aborted
// request does not fail every waiter on the key.
func Fetch[T any](ctx context.Context, s Store, key string, ttl time.Duration, load func(context.Context) (T, error)) (v T, cached bool, err error) {
	if raw, ok := s.Get(ctx, key); ok {
		if v, ok := decode[T](raw); ok {
			return v, true, nil
		}
	}

	res, err, _ := fills.Do(key, func() (any, error) {
		fillCtx, cancel := detach(ctx)
		defer cancel()
		v, err := load(fillCtx)
		if err != nil {
			return nil, err
		}
		s.Set(ctx, key, v, ttl)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	v, ok := res.(T)
	if !ok {
		var zero T
		return zero, false, fmt.Errorf("cache: fill for %q returned %T", key, res)
	}
	return v, false, nil
}

func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if dl, ok := ctx.Deadline(); ok {
		return context.WithDeadline(base, dl)
	}
	return context.WithCancel(base)
}

func decode[T any](raw any) (T, bool) {
	switch x := raw.(type) {
	case T:
		return x, true
	case []byte:
		var v T
		if err := json.Unmarshal(x, &v); err != nil {
			return v, false
		}
		return v, true
	}
	var zero T
	return zero, false
}

// Key joins parts with underscores, e.g. Key("users", "banned", 2, 20).
func Key(parts ...any) string {
	b := make([]byte, 0, 48)
	for i, p := range parts {
		if i > 0 {
			b = append(b, '_')
		}
		b = fmt.Append(b, p)
	}
	return string(b)
}
