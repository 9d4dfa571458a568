package marketdata

import (
	"context"
	"log"
)

// SampleDataSource tags payloads that came from the bundled static
// datasets after every live source failed.
const SampleDataSource = "sample-data"

// Status is the tagged outcome of one provider attempt.
type Status int

const (
	StatusSuccess Status = iota
	StatusEmpty
	StatusFailure
)

// Result is the outcome of a single source attempt.
type Result[T any] struct {
	Status Status
	Value  T
	Err    error
}

// Success wraps a payload from a live source.
func Success[T any](v T) Result[T] {
	return Result[T]{Status: StatusSuccess, Value: v}
}

// Empty marks a source that answered but had nothing usable, e.g. a
// provider rate-limit marker. Treated as "try next", not as an error.
func Empty[T any]() Result[T] {
	return Result[T]{Status: StatusEmpty}
}

// Failure marks a source that errored out.
func Failure[T any](err error) Result[T] {
	return Result[T]{Status: StatusFailure, Err: err}
}

// Source is one provider in a priority-ordered fallback chain.
type Source[T any] struct {
	Name  string
	Fetch func(ctx context.Context) Result[T]
}

// TryInOrder walks the sources in priority order and returns the first
// Success along with the source name. Empty and Failure both degrade
// silently to the next source; failures are only logged. When every
// source is exhausted the bundled fallback is returned, tagged
// "sample-data". The UI contract is that callers always receive a
// shape-valid payload.
func TryInOrder[T any](ctx context.Context, sources []Source[T], fallback func() T) (T, string) {
	for _, src := range sources {
		res := src.Fetch(ctx)
		switch res.Status {
		case StatusSuccess:
			return res.Value, src.Name
		case StatusFailure:
			log.Printf("source %s failed: %v", src.Name, res.Err)
		}
	}
	return fallback(), SampleDataSource
}
