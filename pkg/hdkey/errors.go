package hdkey

import "errors"

var (
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")
	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = errors.New("derivation path is malformed")
	// ErrInvalidHardenedMarker ...
	ErrInvalidHardenedMarker = errors.New(
		"hardened marker must be \"'\" or \"h\"",
	)
	// ErrWildcardInPath ...
	ErrWildcardInPath = errors.New("wildcard is not allowed in a derivation path")
	// ErrNegativeIndex ...
	ErrNegativeIndex = errors.New("negative indices are not allowed")

	// ErrInvalidFingerprint ...
	ErrInvalidFingerprint = errors.New(
		"fingerprint must be exactly 8 hexadecimal characters",
	)

	// ErrUnknownVersion is returned for extended keys whose version bytes
	// are not among the supported SLIP-132 prefixes.
	ErrUnknownVersion = errors.New("unknown extended key version")
	// ErrPrivateKey is returned when an extended private key is given where
	// a public one is expected.
	ErrPrivateKey = errors.New("extended private keys are not supported")
	// ErrMultisigVersion is returned for SLIP-132 multisig prefixes.
	ErrMultisigVersion = errors.New(
		"multisig extended key prefixes are not supported",
	)
	// ErrNetworkMismatch is returned when a key does not belong to the
	// expected network.
	ErrNetworkMismatch = errors.New("extended key network mismatch")
	// ErrHardenedDerivation is returned when deriving a hardened child from
	// a public key.
	ErrHardenedDerivation = errors.New(
		"cannot derive a hardened child from an extended public key",
	)

	// ErrUnknownNetwork ...
	ErrUnknownNetwork = errors.New("unknown network")
)
