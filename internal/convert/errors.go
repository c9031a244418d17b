package convert

import "fmt"

// ParseError wraps a JSON syntax error so callers can distinguish malformed
// input from I/O failures.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnsupportedRootError reports a top-level JSON value that cannot be
// tabulated. Only an object or an array of objects is convertible.
type UnsupportedRootError struct {
	Kind Kind
}

func (e *UnsupportedRootError) Error() string {
	return fmt.Sprintf("unsupported top-level JSON type %s: expected an object or an array of objects", e.Kind)
}
