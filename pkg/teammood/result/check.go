package result

// Check is the outcome of a single business-rule evaluation: either passed,
// or failed carrying exactly one Error. It is a boolean judgment, never an
// aggregator.
type Check struct {
	err *Error
}

// CheckIsTrue fails with err iff the condition is false.
func CheckIsTrue(condition bool, err Error) Check {
	if condition {
		return Check{}
	}
	return Check{err: &err}
}

// CheckIsFalse fails with err iff the condition is true.
func CheckIsFalse(condition bool, err Error) Check {
	return CheckIsTrue(!condition, err)
}

// HasError reports whether the check failed.
func (c Check) HasError() bool {
	return c.err != nil
}

// Err returns the check's error, or nil when it passed.
func (c Check) Err() *Error {
	return c.err
}
