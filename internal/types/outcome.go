package types

import "fmt"

// Status classifies the result of one unit of work (a row or a batch).
type Status int

const (
	StatusOK Status = iota
	// StatusSkipped means the input was absent or blank and no call was made.
	StatusSkipped
	// StatusEmpty means the service answered but gave nothing usable.
	StatusEmpty
	// StatusFailed means the call or the response parsing failed.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSkipped:
		return "skipped"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome carries either a value or the reason there is none.
type Outcome[T any] struct {
	Status Status
	Value  T
	Reason string
	Err    error
}

func OK[T any](v T) Outcome[T] {
	return Outcome[T]{Status: StatusOK, Value: v}
}

func Skipped[T any](reason string) Outcome[T] {
	return Outcome[T]{Status: StatusSkipped, Reason: reason}
}

func Empty[T any](reason string) Outcome[T] {
	return Outcome[T]{Status: StatusEmpty, Reason: reason}
}

func Failed[T any](err error) Outcome[T] {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	return Outcome[T]{Status: StatusFailed, Reason: reason, Err: err}
}

func (o Outcome[T]) Ok() bool { return o.Status == StatusOK }

// Ptr returns the value when present and nil otherwise.
func (o Outcome[T]) Ptr() *T {
	if o.Status != StatusOK {
		return nil
	}
	v := o.Value
	return &v
}
