package pubport

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tdex-network/pubport/pkg/failure"
	"github.com/tdex-network/pubport/pkg/hdkey"
)

// Field names wallets use for the same information. Names are compared
// after normalizeField.
var (
	keyAliases = []string{
		"xpub", "extpubkey", "extendedpublickey", "accountxpub",
		"tpub", "zpub", "ypub", "vpub", "upub", "pub", "pubkey",
	}
	fingerprintAliases = []string{
		"xfp", "masterfingerprint", "masterkeyfingerprint", "rootfingerprint",
		"fingerprint", "mfp",
	}
	pathAliases = []string{
		"deriv", "derivation", "derivationpath", "path", "keypath",
		"accountkeypath", "accountpath",
	}
	hintAliases = []string{
		"scripttype", "addresstype", "name", "script", "type", "format",
	}
	networkAliases = []string{"chain", "network", "net"}
	descAliases    = []string{"desc", "descriptor"}
	firstAliases   = []string{"first", "firstaddress"}
)

// sectionNames are the Coldcard per-account sections of a generic export.
var sectionNames = []string{"bip44", "bip49", "bip84", "bip86"}

func normalizeField(name string) string {
	name = strings.ToLower(name)
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(name)
}

// lookup returns the first value found for the aliases, in alias order,
// and the field name it was found under.
func lookup(obj map[string]interface{}, aliases []string) (interface{}, string, bool) {
	fields := make([]string, 0, len(obj))
	for field := range obj {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	normalized := make(map[string]string, len(obj))
	for _, field := range fields {
		n := normalizeField(field)
		if _, ok := normalized[n]; !ok {
			normalized[n] = field
		}
	}
	for _, alias := range aliases {
		if field, ok := normalized[alias]; ok && obj[field] != nil {
			return obj[field], field, true
		}
	}
	return nil, "", false
}

// lookupString returns the first non empty string found for the aliases.
// Values of other types are MalformedInput.
func lookupString(obj map[string]interface{}, aliases []string) (string, string, error) {
	value, field, ok := lookup(obj, aliases)
	if !ok {
		return "", "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", field, failure.Malformed(field, "expected a string, got %T", value)
	}
	return strings.TrimSpace(s), field, nil
}

// lookupObject returns the object stored under name.
func lookupObject(obj map[string]interface{}, name string) (map[string]interface{}, bool) {
	value, _, ok := lookup(obj, []string{name})
	if !ok {
		return nil, false
	}
	section, ok := value.(map[string]interface{})
	return section, ok
}

// lookupFingerprint parses a fingerprint given as 8 hex characters or as
// a Coldcard little-endian integer.
func lookupFingerprint(obj map[string]interface{}) (*hdkey.Fingerprint, error) {
	value, field, ok := lookup(obj, fingerprintAliases)
	if !ok {
		return nil, nil
	}
	switch v := value.(type) {
	case string:
		fp, err := hdkey.ParseFingerprint(v)
		if err != nil {
			return nil, failure.Field(failure.MalformedInput, field, err)
		}
		if fp.IsZero() {
			return nil, nil
		}
		return &fp, nil
	case json.Number:
		n, err := parseUint32(v)
		if err != nil {
			return nil, failure.Field(failure.MalformedInput, field, err)
		}
		fp := hdkey.FingerprintFromUint32LE(n)
		return &fp, nil
	}
	return nil, failure.Malformed(field, "unexpected fingerprint type %T", value)
}

func parseUint32(n json.Number) (uint32, error) {
	v, err := n.Int64()
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 0xffffffff {
		return 0, fmt.Errorf("%d out of uint32 range", v)
	}
	return uint32(v), nil
}

func hasAnyField(obj map[string]interface{}, fields ...string) bool {
	for _, f := range fields {
		if _, ok := obj[f]; ok {
			return true
		}
	}
	return false
}
