package hdkey

import (
	"errors"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/pubport/pkg/failure"
	"github.com/tyler-smith/go-bip39"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	coldcardZpub = "zpub6rNrPrFwgm4wMBSysetK5tpLBS2HYT8TDKQA6amxFHKJUnQq8rNtc4JDfGYPbvF9wJyagPpG1Faqnfe3BB8XzKon8LwW9KkMWyAQ4RQHzB1"
	coldcardXpub = "xpub6CiKnWv7PPyyeb4kCwK4fidKqVjPfD9TP6MiXnzBVGZYNanNdY3mMvywcrdDc6wK82jyBSd95vsk26QujnJWPrSaPfYeyW7NyX37HHGtfQM"
	coldcardRoot = "xpub661MyMwAqRbcFFr2SGY3dUn7g8P9VKNZdKWL2Z2pZMEkBWH2D1KTcwTn7keZQCaScCx7BUDjHFJJHnzBvDgUFgNjYsQTRvo7LWfYEtt78Pb"

	nestedYpub = "ypub6X2aUb9NXbQM65mQy6oFECSB1CdSanwXHGTUcw7vt2LaAteuYtLoDQ6ao1fXDsenrZjgJKJyHvLypBBeo59cSKUivvwW8S6k7PVvQkVosxZ"
	nestedXpub = "xpub6CCKAvUTNursEnaJ8k1d27LfqEUzeAx2N9wFqYE3W1xh7nqgJEBEbLSSmohwDxzsSvcsYqiQqFzRvta65Njbe5o84bF5YXHFqfSH2Dkhonm"

	abandonNativeXpub = "xpub6CatWdiZiodmUeTDp8LT5or8nmbKNcuyvz7WyksVFkKB4RHwCD3XyuvPEbvqAQY3rAPshWcMLoP2fMFMKHPJ4ZeZXYVUhLv1VMrjPC7PW6V"
)

func newTestMaster(t *testing.T, params *chaincfg.Params) *hdkeychain.ExtendedKey {
	seed := bip39.NewSeed(testMnemonic, "")
	master, err := hdkeychain.NewMaster(seed, params)
	require.NoError(t, err)
	return master
}

func deriveHardened(t *testing.T, key *hdkeychain.ExtendedKey, path ...uint32) *hdkeychain.ExtendedKey {
	for _, i := range path {
		var err error
		key, err = key.Derive(Hardened(i))
		require.NoError(t, err)
	}
	return key
}

func TestParseExtendedPublicKey(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		normalized string
		prefix     string
		family     Family
	}{
		{"zpub", coldcardZpub, coldcardXpub, "zpub", FamilyNativeSegwit},
		{"ypub", nestedYpub, nestedXpub, "ypub", FamilyNestedSegwit},
		{"xpub", coldcardXpub, coldcardXpub, "xpub", FamilyStandard},
		{"padded", "  " + coldcardXpub + "\n", coldcardXpub, "xpub", FamilyStandard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParseExtendedPublicKey(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.normalized, key.String())
			assert.Equal(t, tt.prefix, key.Version().Prefix)
			assert.Equal(t, tt.family, key.Version().Family)
			assert.Equal(t, Mainnet, key.Network())
		})
	}
}

func TestExtendedPublicKeyMetadata(t *testing.T) {
	key, err := ParseExtendedPublicKey(coldcardZpub)
	require.NoError(t, err)

	assert.Equal(t, uint8(3), key.Depth())
	assert.Equal(t, Hardened(0), key.ChildIndex())
	assert.Equal(t, "90645a28", key.ParentFingerprint().String())
	_, ok := key.MasterFingerprint()
	assert.False(t, ok)

	root, err := ParseExtendedPublicKey(coldcardRoot)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), root.Depth())
	fp, ok := root.MasterFingerprint()
	require.True(t, ok)
	assert.Equal(t, "817e7be0", fp.String())
}

func TestExtendedPublicKeyFromSeed(t *testing.T) {
	master := newTestMaster(t, &chaincfg.MainNetParams)
	root, err := NewExtendedPublicKey(master, Mainnet)
	require.NoError(t, err)
	assert.Equal(t, "73c5da0a", root.Fingerprint().String())

	account := deriveHardened(t, master, 84, 0, 0)
	key, err := NewExtendedPublicKey(account, Mainnet)
	require.NoError(t, err)
	assert.Equal(t, abandonNativeXpub, key.String())

	child, err := deriveHardened(t, master, 1).Neuter()
	require.NoError(t, err)
	depthOne, err := NewExtendedPublicKey(child, Mainnet)
	require.NoError(t, err)
	fp, ok := depthOne.MasterFingerprint()
	require.True(t, ok)
	assert.Equal(t, "73c5da0a", fp.String())
}

func TestExtendedPublicKeyDerive(t *testing.T) {
	key, err := ParseExtendedPublicKey(abandonNativeXpub)
	require.NoError(t, err)

	child, err := key.Derive(0, 5)
	require.NoError(t, err)
	assert.Equal(t, uint8(5), child.Depth())
	assert.Equal(t, uint32(5), child.ChildIndex())

	parent, err := key.Derive(0)
	require.NoError(t, err)
	assert.Equal(t, parent.Fingerprint(), child.ParentFingerprint())

	_, err = key.Derive(Hardened(0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, failure.InvalidPath))
	assert.True(t, errors.Is(err, ErrHardenedDerivation))
}

func TestExtendedPublicKeyTestnet(t *testing.T) {
	master := newTestMaster(t, &chaincfg.TestNet3Params)
	account, err := deriveHardened(t, master, 84, 1, 0).Neuter()
	require.NoError(t, err)
	tpub := account.String()
	require.True(t, strings.HasPrefix(tpub, "tpub"))

	key, err := ParseExtendedPublicKeyForNetwork(tpub, Testnet)
	require.NoError(t, err)
	assert.Equal(t, Testnet, key.Network())
	assert.Equal(t, tpub, key.String())

	_, err = ParseExtendedPublicKeyForNetwork(tpub, Mainnet)
	require.Error(t, err)
	assert.True(t, errors.Is(err, failure.InvalidKey))
	assert.True(t, errors.Is(err, ErrNetworkMismatch))
}

func TestParseExtendedPublicKeyFails(t *testing.T) {
	master := newTestMaster(t, &chaincfg.MainNetParams)
	xprv := master.String()

	// Swap the last character to break the checksum.
	last := coldcardXpub[len(coldcardXpub)-1]
	swapped := byte('L')
	if last == 'L' {
		swapped = 'K'
	}
	badChecksum := coldcardXpub[:len(coldcardXpub)-1] + string(swapped)

	tests := []struct {
		name  string
		input string
		kind  failure.Kind
		err   error
	}{
		{"private", xprv, failure.UnsupportedKeyExpression, ErrPrivateKey},
		{"invalid base58", "xpub6CiKn0OIl", failure.InvalidKey, nil},
		{"bad checksum", badChecksum, failure.InvalidKey, nil},
		{"truncated", coldcardXpub[:60], failure.InvalidKey, nil},
		{"empty", "", failure.InvalidKey, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExtendedPublicKey(tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.kind, failure.KindOf(err))
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	fp := FingerprintFromUint32LE(3766189697)
	assert.Equal(t, "817e7be0", fp.String())

	parsed, err := ParseFingerprint("817E7BE0")
	require.NoError(t, err)
	assert.Equal(t, fp, parsed)

	for _, input := range []string{"817e7be", "817e7be0a", "zz7e7be0"} {
		_, err := ParseFingerprint(input)
		require.Error(t, err, input)
		assert.True(t, errors.Is(err, failure.MalformedInput), input)
	}

	origin := NewKeyOrigin(&Fingerprint{}, DerivationPath{Hardened(84)})
	assert.False(t, origin.HasFingerprint())
	assert.Equal(t, "[00000000/84h]", origin.String())
}
