// Package scripttype defines the single-key script types a wallet export
// can describe and decides which one an export means.
package scripttype

import (
	"strings"

	"github.com/tdex-network/pubport/pkg/hdkey"
)

// ScriptType is the output script an account pays to.
type ScriptType int

const (
	// Unknown is the zero value; it never names a valid script.
	Unknown ScriptType = iota
	// Legacy is P2PKH (BIP44).
	Legacy
	// NestedSegwit is P2SH-P2WPKH (BIP49).
	NestedSegwit
	// NativeSegwit is P2WPKH (BIP84).
	NativeSegwit
	// Taproot is single-key P2TR (BIP86).
	Taproot
)

// All lists the valid script types in purpose order.
var All = []ScriptType{Legacy, NestedSegwit, NativeSegwit, Taproot}

var (
	names = map[ScriptType]string{
		Legacy:       "p2pkh",
		NestedSegwit: "p2sh-p2wpkh",
		NativeSegwit: "p2wpkh",
		Taproot:      "p2tr",
	}
	purposes = map[ScriptType]uint32{
		Legacy:       44,
		NestedSegwit: 49,
		NativeSegwit: 84,
		Taproot:      86,
	}
	// Names wallets use for script types. Keys are lowercase with "_" and
	// "-" removed.
	aliases = map[string]ScriptType{
		"p2pkh":        Legacy,
		"pkh":          Legacy,
		"legacy":       Legacy,
		"bip44":        Legacy,
		"p2shp2wpkh":   NestedSegwit,
		"p2wpkhp2sh":   NestedSegwit,
		"shwpkh":       NestedSegwit,
		"nested":       NestedSegwit,
		"nestedsegwit": NestedSegwit,
		"wrapped":      NestedSegwit,
		"p2shsegwit":   NestedSegwit,
		"bip49":        NestedSegwit,
		"p2wpkh":       NativeSegwit,
		"wpkh":         NativeSegwit,
		"segwit":       NativeSegwit,
		"nativesegwit": NativeSegwit,
		"native":       NativeSegwit,
		"bech32":       NativeSegwit,
		"bip84":        NativeSegwit,
		"p2tr":         Taproot,
		"tr":           Taproot,
		"taproot":      Taproot,
		"bech32m":      Taproot,
		"bip86":        Taproot,
	}
)

// ParseName maps a script type name found in wallet exports or given by
// the user. Unknown names, like Electrum's "standard", return false.
func ParseName(name string) (ScriptType, bool) {
	st, ok := aliases[normalize(name)]
	return st, ok
}

// FromPurpose returns the script type of a BIP44-style purpose.
func FromPurpose(purpose uint32) (ScriptType, bool) {
	for st, p := range purposes {
		if p == purpose {
			return st, true
		}
	}
	return Unknown, false
}

// FromFamily returns the script type a SLIP-132 family announces. The
// standard family is reported as legacy; taproot has no prefix of its own.
func FromFamily(family hdkey.Family) ScriptType {
	switch family {
	case hdkey.FamilyNestedSegwit:
		return NestedSegwit
	case hdkey.FamilyNativeSegwit:
		return NativeSegwit
	case hdkey.FamilyStandard:
		return Legacy
	default:
		return Unknown
	}
}

// Purpose returns the BIP44-style purpose, or 0 for Unknown.
func (st ScriptType) Purpose() uint32 {
	return purposes[st]
}

// DefaultPath returns the canonical account path purpose'/coin'/account'.
func (st ScriptType) DefaultPath(net hdkey.Network, account uint32) hdkey.DerivationPath {
	return hdkey.DerivationPath{
		hdkey.Hardened(st.Purpose()),
		hdkey.Hardened(net.CoinType()),
		hdkey.Hardened(account),
	}
}

// Valid ...
func (st ScriptType) Valid() bool {
	_, ok := names[st]
	return ok
}

func (st ScriptType) String() string {
	if name, ok := names[st]; ok {
		return name
	}
	return "unknown"
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "", "(", "", ")", "").Replace(s)
}
