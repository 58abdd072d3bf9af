package hdkey

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/tdex-network/pubport/pkg/failure"
)

// Fingerprint is the first 4 bytes of the hash160 of a public key.
type Fingerprint [4]byte

// ParseFingerprint parses exactly 8 hex characters, in either case.
func ParseFingerprint(s string) (Fingerprint, error) {
	var fp Fingerprint
	s = strings.TrimSpace(s)
	if len(s) != 8 {
		return fp, failure.Field(failure.MalformedInput, s, ErrInvalidFingerprint)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fp, failure.Field(failure.MalformedInput, s, ErrInvalidFingerprint)
	}
	copy(fp[:], b)
	return fp, nil
}

// FingerprintFromUint32LE decodes the integer form used by Coldcard exports
// (ckcc_xfp), which stores the fingerprint bytes in little-endian order.
func FingerprintFromUint32LE(xfp uint32) Fingerprint {
	var fp Fingerprint
	binary.LittleEndian.PutUint32(fp[:], xfp)
	return fp
}

// FingerprintFromUint32 decodes the big-endian integer form returned by
// hdkeychain.ExtendedKey.ParentFingerprint.
func FingerprintFromUint32(v uint32) Fingerprint {
	var fp Fingerprint
	binary.BigEndian.PutUint32(fp[:], v)
	return fp
}

// FingerprintOf returns the fingerprint of a serialized compressed pubkey.
func FingerprintOf(pubkey []byte) Fingerprint {
	var fp Fingerprint
	copy(fp[:], btcutil.Hash160(pubkey)[:4])
	return fp
}

// IsZero reports whether fp is the all-zero placeholder for an unknown
// fingerprint.
func (fp Fingerprint) IsZero() bool {
	return fp == Fingerprint{}
}

func (fp Fingerprint) String() string {
	return hex.EncodeToString(fp[:])
}
