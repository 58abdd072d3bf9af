package hdkey

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/pubport/pkg/failure"
)

func TestParseDerivationPath(t *testing.T) {
	tests := []struct {
		input  string
		output DerivationPath
		err    error
	}{
		// Plain absolute derivation paths
		{"m/84'/0'/0'/0", DerivationPath{HardenedKeyStart + 84, HardenedKeyStart, HardenedKeyStart, 0}, nil},
		{"m/84'/0'/0'/128", DerivationPath{HardenedKeyStart + 84, HardenedKeyStart, HardenedKeyStart, 128}, nil},
		{"m/84h/0h/0h/128h", DerivationPath{HardenedKeyStart + 84, HardenedKeyStart, HardenedKeyStart, HardenedKeyStart + 128}, nil},
		{"m/49'/1h/7'", DerivationPath{HardenedKeyStart + 49, HardenedKeyStart + 1, HardenedKeyStart + 7}, nil},
		{"m", DerivationPath{}, nil},

		// Weird inputs just to ensure they work
		{"	m  /   84			'\n/\n   00	\n\n\t'   /\n0 ' /\t\t	0", DerivationPath{HardenedKeyStart + 84, HardenedKeyStart, HardenedKeyStart, 0}, nil},

		// Relative derivation paths
		{"84'/0'/0/0", DerivationPath{HardenedKeyStart + 84, HardenedKeyStart, 0, 0}, nil},
		{"0'/0/0", DerivationPath{HardenedKeyStart, 0, 0}, nil},
		{"0/0", DerivationPath{0, 0}, nil},
		{"0", DerivationPath{0}, nil},

		// Invalid derivation paths
		{"", nil, ErrNullDerivationPath},
		{"m/", nil, ErrMalformedDerivationPath},
		{"/84'/0'/0'/0", nil, ErrMalformedDerivationPath},
		{"m/84'//0'", nil, ErrMalformedDerivationPath},
		{"m/84H/0H/0H", nil, ErrInvalidHardenedMarker},
		{"m/84'/0'/0'/*", nil, ErrWildcardInPath},
		{"m/-1'", nil, ErrNegativeIndex},
		{"m/2147483648'", nil, nil}, // Out of range (dynamic message)
		{"m/2147483648", nil, nil},
		{"m/0x54'", nil, nil},
		{"m/abc", nil, nil},
	}
	for _, tt := range tests {
		path, err := ParseDerivationPath(tt.input)
		if tt.output == nil {
			require.Error(t, err, tt.input)
			assert.True(t, errors.Is(err, failure.InvalidPath), tt.input)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), tt.input)
			}
		} else {
			require.NoError(t, err, tt.input)
		}
		assert.Equal(t, tt.output, path, tt.input)
	}
}

func TestDerivationPathString(t *testing.T) {
	path, err := ParseDerivationPath("m/84'/0'/0'")
	require.NoError(t, err)

	assert.Equal(t, "84h/0h/0h", path.String())
	assert.Equal(t, "m/84h/0h/0h", path.Absolute())
	assert.Equal(t, "m", DerivationPath{}.Absolute())

	reparsed, err := ParseDerivationPath(path.Absolute())
	require.NoError(t, err)
	assert.True(t, path.Equal(reparsed))

	purpose, hardened, ok := path.Purpose()
	assert.True(t, ok)
	assert.True(t, hardened)
	assert.Equal(t, uint32(84), purpose)

	_, _, ok = DerivationPath{}.Purpose()
	assert.False(t, ok)

	child := path.Child(1, 5)
	assert.Equal(t, "84h/0h/0h/1/5", child.String())
	assert.Len(t, path, 3)
}
