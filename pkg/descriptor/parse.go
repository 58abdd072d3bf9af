package descriptor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tdex-network/pubport/pkg/failure"
	"github.com/tdex-network/pubport/pkg/keyexpr"
	"github.com/tdex-network/pubport/pkg/scripttype"
)

var (
	// ErrUnsupportedDescriptor is returned for well known descriptor
	// functions that do not describe a single-key account.
	ErrUnsupportedDescriptor = errors.New("unsupported descriptor")
	// ErrUnknownFunction ...
	ErrUnknownFunction = errors.New("unknown descriptor function")
	// ErrScriptTree ...
	ErrScriptTree = errors.New("taproot script trees are not supported")
	// ErrNotRanged is returned when a descriptor does not end with /0/*,
	// /1/* or /<0;1>/*.
	ErrNotRanged = errors.New("descriptor must end with /0/*, /1/* or /<0;1>/*")
	// ErrMismatchedPair ...
	ErrMismatchedPair = errors.New("descriptors do not describe the same account")
	// ErrTooManyDescriptors ...
	ErrTooManyDescriptors = errors.New("at most two descriptors are supported")
	// ErrNoDescriptor ...
	ErrNoDescriptor = errors.New("no descriptor found")
)

// Functions lists every descriptor function name, supported or not.
var Functions = []string{
	"sh", "wsh", "pk", "pkh", "wpkh", "combo", "multi", "sortedmulti",
	"multi_a", "sortedmulti_a", "tr", "rawtr", "addr", "raw",
}

type template struct {
	prefix, suffix string
	scriptType     scripttype.ScriptType
}

// Nested templates first, so that sh(wpkh(...)) is not taken for sh(...).
var parseTemplates = []template{
	{"sh(wpkh(", "))", scripttype.NestedSegwit},
	{"pkh(", ")", scripttype.Legacy},
	{"wpkh(", ")", scripttype.NativeSegwit},
	{"tr(", ")", scripttype.Taproot},
}

// Descriptor is a parsed single-key descriptor.
type Descriptor struct {
	ScriptType scripttype.ScriptType
	Key        *keyexpr.KeyExpression
}

// Parse parses one descriptor, verifying its checksum when present.
func Parse(line string) (*Descriptor, error) {
	body, err := VerifyChecksum(line)
	if err != nil {
		return nil, err
	}

	for _, t := range parseTemplates {
		if !strings.HasPrefix(body, t.prefix) || !strings.HasSuffix(body, t.suffix) {
			continue
		}
		inner := body[len(t.prefix) : len(body)-len(t.suffix)]
		if t.scriptType == scripttype.Taproot && strings.Contains(inner, ",") {
			return nil, failure.Field(failure.MalformedInput, "tr", ErrScriptTree)
		}
		if strings.ContainsAny(inner, "()") {
			break
		}
		key, err := keyexpr.Parse(inner)
		if err != nil {
			return nil, err
		}
		return &Descriptor{t.scriptType, key}, nil
	}

	name := functionName(body)
	if isFunction(name) {
		return nil, failure.Field(failure.MalformedInput, name, ErrUnsupportedDescriptor)
	}
	return nil, failure.Field(failure.MalformedInput, name, ErrUnknownFunction)
}

// Chains returns the change indexes the descriptor covers.
func (d *Descriptor) Chains() ([]uint32, error) {
	k := d.Key
	if !k.Wildcard {
		return nil, failure.Wrap(failure.MalformedInput, ErrNotRanged)
	}
	switch {
	case len(k.Path) == 0 && len(k.Branches) == 2 &&
		k.Branches[0] == ExternalChain && k.Branches[1] == InternalChain:
		return []uint32{ExternalChain, InternalChain}, nil
	case len(k.Branches) == 0 && len(k.Path) == 1 &&
		(k.Path[0] == ExternalChain || k.Path[0] == InternalChain):
		return []uint32{k.Path[0]}, nil
	}
	return nil, failure.Field(failure.MalformedInput, k.String(), ErrNotRanged)
}

// Account returns the account the descriptor belongs to.
func (d *Descriptor) Account() Account {
	return Account{
		Key:        d.Key.Key,
		Origin:     d.Key.Origin,
		ScriptType: d.ScriptType,
	}
}

// IsDescriptorText reports whether the first meaningful line of text starts
// with a descriptor function call.
func IsDescriptorText(text string) bool {
	lines := meaningfulLines(text)
	if len(lines) == 0 {
		return false
	}
	name := functionName(lines[0])
	return isFunction(name) && strings.HasPrefix(lines[0], name+"(")
}

func functionName(s string) string {
	if i := strings.Index(s, "("); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}

func isFunction(name string) bool {
	for _, f := range Functions {
		if f == name {
			return true
		}
	}
	return false
}

func meaningfulLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// ParseAccount parses one or two descriptors, one per line, describing a
// single account. A single /0/* descriptor yields its internal counterpart.
// Blank and "#" comment lines are ignored.
func ParseAccount(text string) (*Account, error) {
	lines := meaningfulLines(text)
	switch len(lines) {
	case 0:
		return nil, failure.Wrap(failure.MalformedInput, ErrNoDescriptor)
	case 1, 2:
	default:
		return nil, failure.Wrap(failure.MalformedInput, fmt.Errorf(
			"%w, got %d", ErrTooManyDescriptors, len(lines),
		))
	}

	descs := make([]*Descriptor, 0, len(lines))
	chains := make([][]uint32, 0, len(lines))
	for _, line := range lines {
		d, err := Parse(line)
		if err != nil {
			return nil, err
		}
		c, err := d.Chains()
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
		chains = append(chains, c)
	}

	if len(descs) == 1 {
		if len(chains[0]) == 1 && chains[0][0] != ExternalChain {
			return nil, failure.Field(
				failure.MalformedInput, "descriptor",
				errors.New("a single descriptor must be external (/0/*) or multipath"),
			)
		}
		account := descs[0].Account()
		return &account, nil
	}

	if len(chains[0]) != 1 || len(chains[1]) != 1 || chains[0][0] == chains[1][0] {
		return nil, failure.Field(
			failure.MalformedInput, "descriptor",
			fmt.Errorf("%w: expected one /0/* and one /1/*", ErrMismatchedPair),
		)
	}
	first, second := descs[0].Account(), descs[1].Account()
	if first.ScriptType != second.ScriptType ||
		first.Key.String() != second.Key.String() ||
		!first.Origin.Equal(second.Origin) {
		return nil, failure.Field(failure.MalformedInput, "descriptor", ErrMismatchedPair)
	}
	if chains[0][0] == ExternalChain {
		return &first, nil
	}
	return &second, nil
}
