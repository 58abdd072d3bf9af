package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("sentinel")

func TestErrorIs(t *testing.T) {
	err := Field(InvalidPath, "derivation", errSentinel)
	wrapped := fmt.Errorf("electrum: %w", err)

	require.True(t, errors.Is(wrapped, InvalidPath))
	require.True(t, errors.Is(wrapped, errSentinel))
	require.False(t, errors.Is(wrapped, InvalidKey))
	require.Equal(t, InvalidPath, KindOf(wrapped))
	require.Equal(t, "invalid path: derivation: sentinel", err.Error())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{"nil", nil, 0},
		{"plain", errSentinel, 0},
		{"bare kind", AmbiguousScriptType, AmbiguousScriptType},
		{"outermost wins", Wrap(MalformedInput, Wrap(InvalidKey, errSentinel)), MalformedInput},
		{"unrecognized", &UnrecognizedError{Length: 3, Prefix: "foo", Shape: "single token"}, NotRecognized},
		{"malformed helper", Malformed("keystore.xpub", "missing"), MalformedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.kind, KindOf(tt.err))
		})
	}
}

func TestWrapNil(t *testing.T) {
	require.NoError(t, Wrap(InvalidKey, nil))
}

func TestUnrecognizedError(t *testing.T) {
	err := &UnrecognizedError{Length: 12, Prefix: "{\"foo\":", Shape: "(looked like JSON but matched no known wallet schema)"}
	require.True(t, errors.Is(err, NotRecognized))
	require.Contains(t, err.Error(), "12 bytes")
	require.Contains(t, err.Error(), "matched no known wallet schema")
}
