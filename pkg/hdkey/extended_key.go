package hdkey

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/tdex-network/pubport/pkg/failure"
)

// ExtendedPublicKey is a BIP32 extended public key. Whatever SLIP-132 prefix
// it was parsed from, the key is held and rendered with the standard
// xpub/tpub version of its network. The original version is kept so that
// callers can use it as a script type hint.
type ExtendedPublicKey struct {
	key     *hdkeychain.ExtendedKey
	version Version
}

// ParseExtendedPublicKey decodes any supported SLIP-132 public prefix.
func ParseExtendedPublicKey(s string) (*ExtendedPublicKey, error) {
	s = strings.TrimSpace(s)

	version, err := sniffVersion(s)
	if err != nil {
		return nil, err
	}
	if version.Private {
		return nil, failure.Field(
			failure.UnsupportedKeyExpression, version.Prefix, ErrPrivateKey,
		)
	}
	if version.Multisig() {
		return nil, failure.Field(
			failure.InvalidKey, version.Prefix, ErrMultisigVersion,
		)
	}

	key, err := hdkeychain.NewKeyFromString(s)
	if err != nil {
		return nil, failure.Wrap(failure.InvalidKey, err)
	}
	if key.IsPrivate() {
		return nil, failure.Wrap(failure.UnsupportedKeyExpression, ErrPrivateKey)
	}

	params := version.Network.Params()
	normalized, err := key.CloneWithVersion(params.HDPublicKeyID[:])
	if err != nil {
		return nil, failure.Wrap(failure.InvalidKey, err)
	}

	return &ExtendedPublicKey{normalized, version}, nil
}

// ParseExtendedPublicKeyForNetwork is like ParseExtendedPublicKey but fails
// if the key does not belong to net.
func ParseExtendedPublicKeyForNetwork(
	s string, net Network,
) (*ExtendedPublicKey, error) {
	key, err := ParseExtendedPublicKey(s)
	if err != nil {
		return nil, err
	}
	if err := CheckNetwork(key.Network(), net); err != nil {
		return nil, err
	}
	return key, nil
}

// CheckNetwork fails with ErrNetworkMismatch if got is not expected.
func CheckNetwork(got, expected Network) error {
	if got == expected {
		return nil
	}
	return failure.Wrap(failure.InvalidKey, fmt.Errorf(
		"%w: %s key, expected %s", ErrNetworkMismatch, got, expected,
	))
}

// NewExtendedPublicKey wraps an hdkeychain key. Private keys are neutered.
func NewExtendedPublicKey(
	key *hdkeychain.ExtendedKey, net Network,
) (*ExtendedPublicKey, error) {
	if key.IsPrivate() {
		var err error
		if key, err = key.Neuter(); err != nil {
			return nil, failure.Wrap(failure.InvalidKey, err)
		}
	}
	params := net.Params()
	normalized, err := key.CloneWithVersion(params.HDPublicKeyID[:])
	if err != nil {
		return nil, failure.Wrap(failure.InvalidKey, err)
	}
	version, _ := LookupVersion(params.HDPublicKeyID[:])
	return &ExtendedPublicKey{normalized, version}, nil
}

func sniffVersion(s string) (Version, error) {
	decoded := base58.Decode(s)
	if len(decoded) < 4 {
		return Version{}, failure.Wrap(
			failure.InvalidKey, fmt.Errorf("invalid base58 extended key"),
		)
	}
	version, ok := LookupVersion(decoded[:4])
	if !ok {
		return Version{}, failure.Field(
			failure.InvalidKey, fmt.Sprintf("%x", decoded[:4]), ErrUnknownVersion,
		)
	}
	return version, nil
}

// Version returns the version the key was parsed from.
func (k *ExtendedPublicKey) Version() Version {
	return k.version
}

// Network ...
func (k *ExtendedPublicKey) Network() Network {
	return k.version.Network
}

// Depth ...
func (k *ExtendedPublicKey) Depth() uint8 {
	return k.key.Depth()
}

// ChildIndex ...
func (k *ExtendedPublicKey) ChildIndex() uint32 {
	return k.key.ChildIndex()
}

// ParentFingerprint ...
func (k *ExtendedPublicKey) ParentFingerprint() Fingerprint {
	return FingerprintFromUint32(k.key.ParentFingerprint())
}

// PubKey returns the public key at this node.
func (k *ExtendedPublicKey) PubKey() *btcec.PublicKey {
	// Decoding already validated the point, so this cannot fail.
	pubkey, _ := k.key.ECPubKey()
	return pubkey
}

// Fingerprint returns the fingerprint of this node, which is what its
// children record as parent fingerprint.
func (k *ExtendedPublicKey) Fingerprint() Fingerprint {
	return FingerprintOf(k.PubKey().SerializeCompressed())
}

// MasterFingerprint returns the fingerprint of the master key when the key
// itself carries it, that is for the master key and its direct children.
func (k *ExtendedPublicKey) MasterFingerprint() (Fingerprint, bool) {
	switch k.Depth() {
	case 0:
		return k.Fingerprint(), true
	case 1:
		return k.ParentFingerprint(), true
	default:
		return Fingerprint{}, false
	}
}

// Derive returns the descendant at the given unhardened path.
func (k *ExtendedPublicKey) Derive(path ...uint32) (*ExtendedPublicKey, error) {
	key := k.key
	for _, i := range path {
		if i >= HardenedKeyStart {
			return nil, failure.Field(
				failure.InvalidPath, formatComponent(i), ErrHardenedDerivation,
			)
		}
		child, err := key.Derive(i)
		if err != nil {
			return nil, failure.Wrap(failure.InvalidKey, err)
		}
		key = child
	}
	return &ExtendedPublicKey{key, k.version}, nil
}

// String returns the key serialized with the standard xpub/tpub version.
func (k *ExtendedPublicKey) String() string {
	return k.key.String()
}
