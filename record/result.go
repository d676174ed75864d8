package record

// Result holds the outcome of a fallible transformation: a value or an error,
// never both. It is the container the Pull functions unwrap. Deserializers
// that return the conventional (T, error) pair convert with From.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] { return Result[T]{value: v} }

// Fail wraps an error. Fail(nil) is an Ok zero value, so a nil error never
// masquerades as a failure.
func Fail[T any](err error) Result[T] { return Result[T]{err: err} }

// From converts a conventional (value, error) pair.
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(v)
}

// Get returns the value and the error. On failure the value is the zero value.
func (r Result[T]) Get() (T, error) { return r.value, r.err }

// Err returns the error, nil on success.
func (r Result[T]) Err() error { return r.err }
