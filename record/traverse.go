package record

import (
	"context"
	"errors"
	"fmt"
)

// failure wraps a key or value error with the record coordinates, so a failed
// transformation still reports which message it was working on.
func failure[K, V any](r Record[K, V], side string, err error) error {
	return fmt.Errorf("%s/%d@%d: %s: %w", r.Topic, r.Partition, r.Offset, side, err)
}

// PullKey unwraps a record whose key holds a Result. On success the returned
// record carries the unwrapped key and unchanged metadata and value. On
// failure it returns the key's error; no record is constructed.
func PullKey[K, V any](r Record[Result[K], V]) (Record[K, V], error) {
	k, err := r.Key.Get()
	if err != nil {
		return Record[K, V]{}, failure(r, "key", err)
	}
	return remap(r, k, r.Value), nil
}

// PullValue unwraps a record whose value holds a Result.
func PullValue[K, V any](r Record[K, Result[V]]) (Record[K, V], error) {
	v, err := r.Value.Get()
	if err != nil {
		return Record[K, V]{}, failure(r, "value", err)
	}
	return remap(r, r.Key, v), nil
}

// PullBoth unwraps a record whose key and value both hold Results. Both sides
// must succeed. Both are always inspected and their errors are combined with
// errors.Join, so a key failure never hides a value failure or vice versa.
func PullBoth[K, V any](r Record[Result[K], Result[V]]) (Record[K, V], error) {
	k, kerr := r.Key.Get()
	v, verr := r.Value.Get()
	if kerr != nil {
		kerr = failure(r, "key", kerr)
	}
	if verr != nil {
		verr = failure(r, "value", verr)
	}
	if err := errors.Join(kerr, verr); err != nil {
		return Record[K, V]{}, err
	}
	return remap(r, k, v), nil
}

// TraverseKey applies a fallible transformation to the key. Equivalent to
// wrapping the key with MapKey and unwrapping with PullKey, and implemented
// that way.
func TraverseKey[K, V, K2 any](r Record[K, V], f func(K) (K2, error)) (Record[K2, V], error) {
	return PullKey(MapKey(r, func(k K) Result[K2] { return From(f(k)) }))
}

// TraverseValue applies a fallible transformation to the value.
func TraverseValue[K, V, V2 any](r Record[K, V], g func(V) (V2, error)) (Record[K, V2], error) {
	return PullValue(MapValue(r, func(v V) Result[V2] { return From(g(v)) }))
}

// TraverseBoth applies fallible transformations to the key and the value. Both
// transformations always run; failures are combined as in PullBoth.
func TraverseBoth[K, V, K2, V2 any](
	r Record[K, V],
	f func(K) (K2, error),
	g func(V) (V2, error),
) (Record[K2, V2], error) {
	return PullBoth(MapBoth(r,
		func(k K) Result[K2] { return From(f(k)) },
		func(v V) Result[V2] { return From(g(v)) },
	))
}

// TraverseKeyContext applies a context-aware fallible transformation to the
// key. The context is passed through to f untouched: this package does not
// block, time out, or cancel on its own.
func TraverseKeyContext[K, V, K2 any](
	ctx context.Context,
	r Record[K, V],
	f func(context.Context, K) (K2, error),
) (Record[K2, V], error) {
	return TraverseKey(r, func(k K) (K2, error) { return f(ctx, k) })
}

// TraverseValueContext applies a context-aware fallible transformation to the
// value.
func TraverseValueContext[K, V, V2 any](
	ctx context.Context,
	r Record[K, V],
	g func(context.Context, V) (V2, error),
) (Record[K, V2], error) {
	return TraverseValue(r, func(v V) (V2, error) { return g(ctx, v) })
}

// TraverseBothContext applies context-aware fallible transformations to the
// key and the value. The key transformation runs first, but both always run
// and failures are combined as in PullBoth.
func TraverseBothContext[K, V, K2, V2 any](
	ctx context.Context,
	r Record[K, V],
	f func(context.Context, K) (K2, error),
	g func(context.Context, V) (V2, error),
) (Record[K2, V2], error) {
	return TraverseBoth(r,
		func(k K) (K2, error) { return f(ctx, k) },
		func(v V) (V2, error) { return g(ctx, v) },
	)
}
