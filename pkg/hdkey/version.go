package hdkey

import (
	"bytes"

	"github.com/btcsuite/btcd/chaincfg"
)

// Family is the script family a SLIP-132 version prefix announces.
type Family int

const (
	// FamilyStandard is the plain xpub/tpub prefix. By convention it is used
	// for legacy keys, but descriptors also use it for every other family.
	FamilyStandard Family = iota
	// FamilyNestedSegwit is the ypub/upub prefix.
	FamilyNestedSegwit
	// FamilyNativeSegwit is the zpub/vpub prefix.
	FamilyNativeSegwit
	// FamilyMultisigNestedSegwit is the Ypub/Upub prefix.
	FamilyMultisigNestedSegwit
	// FamilyMultisigNativeSegwit is the Zpub/Vpub prefix.
	FamilyMultisigNativeSegwit
)

// Version describes one known extended key version.
type Version struct {
	Prefix  string
	Bytes   [4]byte
	Network Network
	Family  Family
	Private bool
}

// Multisig reports whether the version is a SLIP-132 multisig version.
func (v Version) Multisig() bool {
	return v.Family == FamilyMultisigNestedSegwit ||
		v.Family == FamilyMultisigNativeSegwit
}

func (v Version) String() string {
	return v.Prefix
}

// https://github.com/satoshilabs/slips/blob/master/slip-0132.md
var versions = []Version{
	{"xpub", chaincfg.MainNetParams.HDPublicKeyID, Mainnet, FamilyStandard, false},
	{"ypub", [4]byte{0x04, 0x9d, 0x7c, 0xb2}, Mainnet, FamilyNestedSegwit, false},
	{"zpub", [4]byte{0x04, 0xb2, 0x47, 0x46}, Mainnet, FamilyNativeSegwit, false},
	{"Ypub", [4]byte{0x02, 0x95, 0xb4, 0x3f}, Mainnet, FamilyMultisigNestedSegwit, false},
	{"Zpub", [4]byte{0x02, 0xaa, 0x7e, 0xd3}, Mainnet, FamilyMultisigNativeSegwit, false},
	{"tpub", chaincfg.TestNet3Params.HDPublicKeyID, Testnet, FamilyStandard, false},
	{"upub", [4]byte{0x04, 0x4a, 0x52, 0x62}, Testnet, FamilyNestedSegwit, false},
	{"vpub", [4]byte{0x04, 0x5f, 0x1c, 0xf6}, Testnet, FamilyNativeSegwit, false},
	{"Upub", [4]byte{0x02, 0x42, 0x89, 0xef}, Testnet, FamilyMultisigNestedSegwit, false},
	{"Vpub", [4]byte{0x02, 0x57, 0x54, 0x83}, Testnet, FamilyMultisigNativeSegwit, false},

	{"xprv", chaincfg.MainNetParams.HDPrivateKeyID, Mainnet, FamilyStandard, true},
	{"yprv", [4]byte{0x04, 0x9d, 0x78, 0x78}, Mainnet, FamilyNestedSegwit, true},
	{"zprv", [4]byte{0x04, 0xb2, 0x43, 0x0c}, Mainnet, FamilyNativeSegwit, true},
	{"Yprv", [4]byte{0x02, 0x95, 0xb0, 0x05}, Mainnet, FamilyMultisigNestedSegwit, true},
	{"Zprv", [4]byte{0x02, 0xaa, 0x7a, 0x99}, Mainnet, FamilyMultisigNativeSegwit, true},
	{"tprv", chaincfg.TestNet3Params.HDPrivateKeyID, Testnet, FamilyStandard, true},
	{"uprv", [4]byte{0x04, 0x4a, 0x4e, 0x28}, Testnet, FamilyNestedSegwit, true},
	{"vprv", [4]byte{0x04, 0x5f, 0x18, 0xbc}, Testnet, FamilyNativeSegwit, true},
	{"Uprv", [4]byte{0x02, 0x42, 0x85, 0xb5}, Testnet, FamilyMultisigNestedSegwit, true},
	{"Vprv", [4]byte{0x02, 0x57, 0x50, 0x48}, Testnet, FamilyMultisigNativeSegwit, true},
}

// LookupVersion returns the version matching the given 4 version bytes.
func LookupVersion(b []byte) (Version, bool) {
	for _, v := range versions {
		if bytes.Equal(v.Bytes[:], b) {
			return v, true
		}
	}
	return Version{}, false
}

// LookupPrefix returns the version whose base58 prefix is the first four
// characters of s.
func LookupPrefix(s string) (Version, bool) {
	if len(s) < 4 {
		return Version{}, false
	}
	for _, v := range versions {
		if v.Prefix == s[:4] {
			return v, true
		}
	}
	return Version{}, false
}
