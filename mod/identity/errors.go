package identity

import "fmt"

// NonASCIIHostError is returned when a source location's host component
// contains characters outside the ASCII letter/digit/-/. set after
// normalization, and an attempted IDNA ToASCII transcoding also fails.
type NonASCIIHostError struct {
	Host  string
	Input string
	Err   error
}

func (e *NonASCIIHostError) Error() string {
	return fmt.Sprintf("cannot derive identity from %q: host %q is not ASCII and could not be converted via IDNA: %v", e.Input, e.Host, e.Err)
}

func (e *NonASCIIHostError) Unwrap() error { return e.Err }

// InvalidLocationError is returned when a source location string or file
// path cannot be turned into an identity at all (for example, an empty
// string, or a path with no path component left after stripping the
// scheme/userinfo/host).
type InvalidLocationError struct {
	Input  string
	Reason string
}

func (e *InvalidLocationError) Error() string {
	return fmt.Sprintf("invalid source location %q: %s", e.Input, e.Reason)
}
