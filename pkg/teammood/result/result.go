package result

// Result is a railway-style accumulator: either a success value of type T or a
// single business Error. A chain starts neutral (still succeeding, no value),
// runs ordered checks that short-circuit on the first failure, and ends with a
// Then call that materializes the payload.
//
// Invariants: once failed, every later ThenCheck/Then is a no-op returning the
// same failure; the first failing check wins and later checks are never
// evaluated. Checks are not accumulated into a multi-error report.
type Result[T any] struct {
	value T
	err   *Error
}

// Create returns the initial neutral Result for a check chain.
func Create[T any]() Result[T] {
	return Result[T]{}
}

// Success wraps a value as a successful Result.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Failure builds a failed Result carrying the given error.
func Failure[T any](err Error) Result[T] {
	return Result[T]{err: &err}
}

// FromCheck starts a chain directly from a Check outcome.
func FromCheck[T any](check Check) Result[T] {
	if check.HasError() {
		return Failure[T](*check.Err())
	}
	return Create[T]()
}

// ThenCheck evaluates the supplied check unless the Result already failed.
// The supplier is not invoked after a failure (short-circuit).
func (r Result[T]) ThenCheck(supplier func() Check) Result[T] {
	if r.err != nil {
		return r
	}
	if check := supplier(); check.HasError() {
		return Failure[T](*check.Err())
	}
	return r
}

// Then materializes the success payload. It must be the last step of a chain;
// the supplier runs only when every previous check passed.
func (r Result[T]) Then(supplier func() T) Result[T] {
	if r.err != nil {
		return r
	}
	return Success(supplier())
}

// SideEffect runs the consumer when the Result is a success. The consumer
// cannot alter the Result; its failures are not modeled here.
func (r Result[T]) SideEffect(consumer func(T)) Result[T] {
	if r.err == nil {
		consumer(r.value)
	}
	return r
}

// OrElseGet substitutes an alternative value only when the Result has failed.
// Read paths use it to fail softly to an empty value instead of propagating
// the error.
func (r Result[T]) OrElseGet(supplier func() T) Result[T] {
	if r.err != nil {
		return Success(supplier())
	}
	return r
}

// IsSuccess reports whether the Result carries no error.
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// HasErrors reports whether the Result failed.
func (r Result[T]) HasErrors() bool {
	return r.err != nil
}

// Value returns the success payload (zero value when failed or still neutral).
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure error, or nil on success.
func (r Result[T]) Err() *Error {
	return r.err
}

// Errors returns the failure as a list for transport layers: empty on success,
// exactly one element on failure.
func (r Result[T]) Errors() []Error {
	if r.err == nil {
		return nil
	}
	return []Error{*r.err}
}
