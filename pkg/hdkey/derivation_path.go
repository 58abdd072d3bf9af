package hdkey

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/tdex-network/pubport/pkg/failure"
)

// HardenedKeyStart is the index offset of hardened children.
const HardenedKeyStart = hdkeychain.HardenedKeyStart

// DerivationPath is the internal representation of a BIP32 path. Hardened
// components are offset by HardenedKeyStart.
type DerivationPath []uint32

// ParseDerivationPath converts a derivation path string to the internal
// binary representation. The path may be absolute ("m/84'/0'/0'") or relative
// ("84h/0h/0h"); both ' and h mark hardened components. "m" alone is the
// empty path.
func ParseDerivationPath(strPath string) (DerivationPath, error) {
	strPath = strings.TrimSpace(strPath)
	if strPath == "" {
		return nil, failure.Wrap(failure.InvalidPath, ErrNullDerivationPath)
	}

	elems := strings.Split(strPath, "/")
	if strings.TrimSpace(elems[0]) == "m" {
		elems = elems[1:]
		if len(elems) == 0 {
			return DerivationPath{}, nil
		}
	}
	if containsEmptyString(elems) {
		return nil, failure.Wrap(failure.InvalidPath, ErrMalformedDerivationPath)
	}

	path := make(DerivationPath, 0, len(elems))
	for _, elem := range elems {
		value, err := parsePathElem(elem)
		if err != nil {
			return nil, err
		}
		path = append(path, value)
	}

	return path, nil
}

func parsePathElem(elem string) (uint32, error) {
	elem = strings.TrimSpace(elem)

	var value uint32
	switch {
	case strings.HasSuffix(elem, "'"), strings.HasSuffix(elem, "h"):
		value = HardenedKeyStart
		elem = strings.TrimSpace(elem[:len(elem)-1])
	case strings.HasSuffix(elem, "H"):
		return 0, failure.Field(
			failure.InvalidPath, elem, ErrInvalidHardenedMarker,
		)
	case strings.Contains(elem, "*"):
		return 0, failure.Field(failure.InvalidPath, elem, ErrWildcardInPath)
	}

	if strings.HasPrefix(elem, "-") {
		return 0, failure.Field(failure.InvalidPath, elem, ErrNegativeIndex)
	}
	if elem == "" || strings.HasPrefix(elem, "+") {
		return 0, failure.Field(
			failure.InvalidPath, elem, ErrMalformedDerivationPath,
		)
	}

	n, err := strconv.ParseUint(elem, 10, 32)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return 0, failure.New(
				failure.InvalidPath, "elem %s must be in range [0, %d]",
				elem, HardenedKeyStart-1,
			)
		}
		return 0, failure.New(failure.InvalidPath, "invalid elem '%s' in path", elem)
	}
	if n >= uint64(HardenedKeyStart) {
		if value == 0 {
			return 0, failure.New(
				failure.InvalidPath, "elem %d must be in range [0, %d]",
				n, HardenedKeyStart-1,
			)
		}
		return 0, failure.New(
			failure.InvalidPath, "elem %d must be in hardened range [0, %d]",
			n, HardenedKeyStart-1,
		)
	}

	return value + uint32(n), nil
}

// String converts a binary derivation path to its descriptor representation,
// without the leading "m/" and with "h" as hardened marker.
func (path DerivationPath) String() string {
	elems := make([]string, 0, len(path))
	for _, component := range path {
		elems = append(elems, formatComponent(component))
	}
	return strings.Join(elems, "/")
}

// Absolute returns the path prefixed with "m/".
func (path DerivationPath) Absolute() string {
	if len(path) == 0 {
		return "m"
	}
	return "m/" + path.String()
}

// Purpose returns the first component of the path with the hardened offset
// removed, and whether it is hardened.
func (path DerivationPath) Purpose() (purpose uint32, hardened bool, ok bool) {
	if len(path) == 0 {
		return 0, false, false
	}
	if path[0] >= HardenedKeyStart {
		return path[0] - HardenedKeyStart, true, true
	}
	return path[0], false, true
}

// Equal reports whether the two paths have the same components.
func (path DerivationPath) Equal(other DerivationPath) bool {
	if len(path) != len(other) {
		return false
	}
	for i := range path {
		if path[i] != other[i] {
			return false
		}
	}
	return true
}

// Child returns a copy of the path extended with the given components.
func (path DerivationPath) Child(components ...uint32) DerivationPath {
	child := make(DerivationPath, 0, len(path)+len(components))
	child = append(child, path...)
	return append(child, components...)
}

// Hardened returns i with the hardened offset applied.
func Hardened(i uint32) uint32 {
	return i + HardenedKeyStart
}

func formatComponent(component uint32) string {
	if component >= HardenedKeyStart {
		return fmt.Sprintf("%dh", component-HardenedKeyStart)
	}
	return fmt.Sprintf("%d", component)
}

func containsEmptyString(composedPath []string) bool {
	for _, s := range composedPath {
		if strings.TrimSpace(s) == "" {
			return true
		}
	}
	return false
}
