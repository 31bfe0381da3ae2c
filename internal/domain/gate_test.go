package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeMembership struct {
	count int
	err   error

	calls     int
	lastLayer string
}

func (f *fakeMembership) CountIntersecting(_ context.Context, layer string, _, _ float64) (int, error) {
	f.calls++
	f.lastLayer = layer
	return f.count, f.err
}

func TestGateCheck(t *testing.T) {
	tests := []struct {
		name        string
		source      *fakeMembership
		wantAllowed bool
		wantKind    DecisionKind
	}{
		{
			name:        "point inside the boundary",
			source:      &fakeMembership{count: 1},
			wantAllowed: true,
			wantKind:    DecisionInside,
		},
		{
			name:        "point outside the boundary",
			source:      &fakeMembership{count: 0},
			wantAllowed: false,
			wantKind:    DecisionOutside,
		},
		{
			name:        "missing layer degrades to allowed",
			source:      &fakeMembership{err: &LayerUnavailableError{Layer: "city:aoi", StatusCode: 404}},
			wantAllowed: true,
			wantKind:    DecisionSkipped,
		},
		{
			name:        "misconfigured layer degrades to allowed",
			source:      &fakeMembership{err: &LayerUnavailableError{Layer: "city:aoi", StatusCode: 400}},
			wantAllowed: true,
			wantKind:    DecisionSkipped,
		},
		{
			name:        "backend server error denies",
			source:      &fakeMembership{err: &BackendError{Op: "wfs membership", StatusCode: 500}},
			wantAllowed: false,
			wantKind:    DecisionBackendError,
		},
		{
			name:        "unreachable backend denies",
			source:      &fakeMembership{err: &UnreachableError{Op: "wfs membership", Err: errors.New("connection refused")}},
			wantAllowed: false,
			wantKind:    DecisionUnreachable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(tt.source, "city:aoi", testLogger())
			d := gate.Check(context.Background(), 9.93, 76.26)

			assert.Equal(t, tt.wantAllowed, d.Allowed)
			assert.Equal(t, tt.wantKind, d.Kind)
			assert.Equal(t, 1, tt.source.calls)
			assert.Equal(t, "city:aoi", tt.source.lastLayer)
			if !tt.wantAllowed {
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}

func TestGateCheckWrappedErrors(t *testing.T) {
	// errors.As must see through wrapping so adapter decorators can annotate.
	wrapped := &fakeMembership{err: wrapError(&LayerUnavailableError{Layer: "city:aoi", StatusCode: 404})}
	gate := NewGate(wrapped, "city:aoi", testLogger())

	d := gate.Check(context.Background(), 9.93, 76.26)
	assert.True(t, d.Allowed)
	assert.Equal(t, DecisionSkipped, d.Kind)
}

func wrapError(err error) error {
	return errors.Join(errors.New("membership check"), err)
}
