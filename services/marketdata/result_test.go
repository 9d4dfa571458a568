package marketdata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func successSource(name, value string) Source[string] {
	return Source[string]{
		Name:  name,
		Fetch: func(ctx context.Context) Result[string] { return Success(value) },
	}
}

func emptySource(name string) Source[string] {
	return Source[string]{
		Name:  name,
		Fetch: func(ctx context.Context) Result[string] { return Empty[string]() },
	}
}

func failingSource(name string) Source[string] {
	return Source[string]{
		Name:  name,
		Fetch: func(ctx context.Context) Result[string] { return Failure[string](errors.New("upstream down")) },
	}
}

func TestTryInOrderFirstSuccessWins(t *testing.T) {
	ctx := context.Background()
	sources := []Source[string]{
		successSource("primary", "from-primary"),
		successSource("secondary", "from-secondary"),
	}

	value, source := TryInOrder(ctx, sources, func() string { return "fallback" })
	assert.Equal(t, "from-primary", value)
	assert.Equal(t, "primary", source)
}

func TestTryInOrderSkipsEmptyAndFailure(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		sources    []Source[string]
		wantValue  string
		wantSource string
	}{
		{
			name: "failure degrades to next source",
			sources: []Source[string]{
				failingSource("primary"),
				successSource("secondary", "from-secondary"),
			},
			wantValue:  "from-secondary",
			wantSource: "secondary",
		},
		{
			name: "empty degrades to next source",
			sources: []Source[string]{
				emptySource("primary"),
				successSource("secondary", "from-secondary"),
			},
			wantValue:  "from-secondary",
			wantSource: "secondary",
		},
		{
			name: "mixed empty and failure reach the last source",
			sources: []Source[string]{
				emptySource("primary"),
				failingSource("secondary"),
				successSource("tertiary", "from-tertiary"),
			},
			wantValue:  "from-tertiary",
			wantSource: "tertiary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, source := TryInOrder(ctx, tt.sources, func() string { return "fallback" })
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestTryInOrderExhaustionServesFallback(t *testing.T) {
	ctx := context.Background()
	sources := []Source[string]{
		failingSource("primary"),
		emptySource("secondary"),
	}

	value, source := TryInOrder(ctx, sources, func() string { return "fallback" })
	assert.Equal(t, "fallback", value)
	assert.Equal(t, SampleDataSource, source)
}

func TestTryInOrderNoSources(t *testing.T) {
	value, source := TryInOrder(context.Background(), nil, func() string { return "fallback" })
	assert.Equal(t, "fallback", value)
	assert.Equal(t, SampleDataSource, source)
}
