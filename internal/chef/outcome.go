package chef

import (
	"errors"

	"pantrychef/internal/platform"
)

// Status tags the result of a model round trip so callers can choose between showing
// data, demo data with a setup notice, or an error.
type Status int

const (
	// StatusOK means the model answered and Value holds the parsed result.
	StatusOK Status = iota
	// StatusInvalid means the input failed validation and no call was made.
	StatusInvalid
	// StatusAuthMisconfigured means the credential is missing or was rejected.
	StatusAuthMisconfigured
	// StatusFailed covers every other failure: network, upstream, parsing.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalid:
		return "invalid"
	case StatusAuthMisconfigured:
		return "auth_misconfigured"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is a tagged result. Err is set for every status except StatusOK.
type Outcome[T any] struct {
	Status Status
	Value  T
	Err    error
}

func success[T any](v T) Outcome[T] {
	return Outcome[T]{Status: StatusOK, Value: v}
}

func invalid[T any](err error) Outcome[T] {
	return Outcome[T]{Status: StatusInvalid, Err: err}
}

// failure classifies an error from the model or the parser.
func failure[T any](err error) Outcome[T] {
	if errors.Is(err, platform.ErrUnauthorized) {
		return Outcome[T]{Status: StatusAuthMisconfigured, Err: err}
	}
	return Outcome[T]{Status: StatusFailed, Err: err}
}
