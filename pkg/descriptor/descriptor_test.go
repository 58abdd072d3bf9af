package descriptor

import (
	"errors"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/pubport/pkg/failure"
	"github.com/tdex-network/pubport/pkg/hdkey"
	"github.com/tdex-network/pubport/pkg/keyexpr"
	"github.com/tdex-network/pubport/pkg/scripttype"
	"github.com/tyler-smith/go-bip39"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	coldcardXpub = "xpub6CiKnWv7PPyyeb4kCwK4fidKqVjPfD9TP6MiXnzBVGZYNanNdY3mMvywcrdDc6wK82jyBSd95vsk26QujnJWPrSaPfYeyW7NyX37HHGtfQM"

	coldcardExternal  = "wpkh([817e7be0/84h/0h/0h]" + coldcardXpub + "/0/*)#sqx4cjta"
	coldcardInternal  = "wpkh([817e7be0/84h/0h/0h]" + coldcardXpub + "/1/*)#p5r598m9"
	coldcardMultipath = "wpkh([817e7be0/84h/0h/0h]" + coldcardXpub + "/<0;1>/*)#60tjs4c7"
)

// testAccount derives the account of the test mnemonic for the given script
// type and network.
func testAccount(
	t *testing.T, st scripttype.ScriptType, net hdkey.Network,
) Account {
	seed := bip39.NewSeed(testMnemonic, "")
	master, err := hdkeychain.NewMaster(seed, net.Params())
	require.NoError(t, err)
	root, err := hdkey.NewExtendedPublicKey(master, net)
	require.NoError(t, err)

	path := st.DefaultPath(net, 0)
	key := master
	for _, i := range path {
		key, err = key.Derive(i)
		require.NoError(t, err)
	}
	account, err := hdkey.NewExtendedPublicKey(key, net)
	require.NoError(t, err)

	fp := root.Fingerprint()
	return Account{
		Key:        account,
		Origin:     hdkey.NewKeyOrigin(&fp, path),
		ScriptType: st,
	}
}

func coldcardAccount(t *testing.T) Account {
	key, err := hdkey.ParseExtendedPublicKey(coldcardXpub)
	require.NoError(t, err)
	fp, err := hdkey.ParseFingerprint("817e7be0")
	require.NoError(t, err)
	path, err := hdkey.ParseDerivationPath("m/84'/0'/0'")
	require.NoError(t, err)
	return Account{key, hdkey.NewKeyOrigin(&fp, path), scripttype.NativeSegwit}
}

func TestChecksum(t *testing.T) {
	for _, desc := range []string{coldcardExternal, coldcardInternal, coldcardMultipath} {
		body, sum := splitChecksum(desc)
		got, err := Checksum(body)
		require.NoError(t, err)
		assert.Equal(t, sum, got)

		stripped, err := VerifyChecksum(desc)
		require.NoError(t, err)
		assert.Equal(t, body, stripped)
	}

	withSum, err := WithChecksum(strings.Split(coldcardExternal, "#")[0])
	require.NoError(t, err)
	assert.Equal(t, coldcardExternal, withSum)

	_, err = VerifyChecksum(strings.Replace(coldcardExternal, "#sqx4cjta", "#sqx4cjtq", 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrChecksumMismatch))
	assert.Equal(t, failure.MalformedInput, failure.KindOf(err))

	_, err = VerifyChecksum(strings.Replace(coldcardExternal, "#sqx4cjta", "#sqx4", 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrChecksumFormat))

	_, err = Checksum("wpkh(é)")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCharacter))
}

func TestBuild(t *testing.T) {
	account := coldcardAccount(t)
	pair := account.Pair()
	assert.Equal(t, coldcardExternal, pair.External)
	assert.Equal(t, coldcardInternal, pair.Internal)
	assert.Equal(t, coldcardMultipath, account.Multipath())

	unknown := Account{account.Key, hdkey.NewKeyOrigin(nil, account.Origin.Path), account.ScriptType}
	assert.True(t, strings.HasPrefix(unknown.Pair().External, "wpkh([00000000/84h/0h/0h]xpub"))

	noOrigin := Account{Key: account.Key, ScriptType: scripttype.Legacy}
	assert.True(t, strings.HasPrefix(noOrigin.Pair().External, "pkh(xpub"))

	assert.Equal(t, Pair{}, Build(account.Key, account.Origin, scripttype.Unknown))
}

func TestBuildChangeIndex(t *testing.T) {
	prefixes := map[scripttype.ScriptType]string{
		scripttype.Legacy:       "pkh([73c5da0a/44h/0h/0h]xpub",
		scripttype.NestedSegwit: "sh(wpkh([73c5da0a/49h/0h/0h]xpub",
		scripttype.NativeSegwit: "wpkh([73c5da0a/84h/0h/0h]xpub",
		scripttype.Taproot:      "tr([73c5da0a/86h/0h/0h]xpub",
	}
	for _, st := range scripttype.All {
		t.Run(st.String(), func(t *testing.T) {
			pair := testAccount(t, st, hdkey.Mainnet).Pair()
			assert.True(t, strings.HasPrefix(pair.External, prefixes[st]), pair.External)

			external, _ := splitChecksum(pair.External)
			internal, _ := splitChecksum(pair.Internal)
			assert.Contains(t, external, "/0/*)")
			assert.Equal(t, strings.Replace(external, "/0/*)", "/1/*)", 1), internal)

			_, err := VerifyChecksum(pair.External)
			require.NoError(t, err)
			_, err = VerifyChecksum(pair.Internal)
			require.NoError(t, err)
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, net := range []hdkey.Network{hdkey.Mainnet, hdkey.Testnet} {
		for _, st := range scripttype.All {
			account := testAccount(t, st, net)
			pair := account.Pair()

			parsed, err := ParseAccount(pair.External + "\n" + pair.Internal)
			require.NoError(t, err)
			assert.Equal(t, pair, parsed.Pair())
			assert.Equal(t, net, parsed.Network())

			parsed, err = ParseAccount(account.Multipath())
			require.NoError(t, err)
			assert.Equal(t, pair, parsed.Pair())
		}
	}
}

func TestParseAccount(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"multipath", coldcardMultipath},
		{"external only", coldcardExternal},
		{"pair", coldcardExternal + "\n" + coldcardInternal},
		{"reversed pair", coldcardInternal + "\n" + coldcardExternal},
		{"without checksums", noChecksum(coldcardExternal) + "\n" + noChecksum(coldcardInternal)},
		{"comments and blanks", "# exported by wallet\n\n  " + coldcardExternal + "  \n\n# end\n"},
		{"apostrophes", "wpkh([817e7be0/84'/0'/0']" + coldcardXpub + "/0/*)"},
		{"crlf", coldcardExternal + "\r\n" + coldcardInternal + "\r\n"},
	}
	expected := coldcardAccount(t).Pair()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := ParseAccount(tt.input)
			require.NoError(t, err)
			assert.Equal(t, expected, account.Pair())
			fp, ok := account.MasterFingerprint()
			require.True(t, ok)
			assert.Equal(t, "817e7be0", fp.String())
		})
	}
}

func TestParseAccountFails(t *testing.T) {
	other := testAccount(t, scripttype.NativeSegwit, hdkey.Mainnet).Pair()
	legacy := strings.Replace(noChecksum(coldcardInternal), "wpkh(", "pkh(", 1)

	tests := []struct {
		name  string
		input string
		kind  failure.Kind
		err   error
	}{
		{"internal only", coldcardInternal, failure.MalformedInput, nil},
		{"not ranged", "wpkh(" + coldcardXpub + ")", failure.MalformedInput, ErrNotRanged},
		{"bare wildcard", "wpkh(" + coldcardXpub + "/*)", failure.MalformedInput, ErrNotRanged},
		{"deep path", "wpkh(" + coldcardXpub + "/0/0/*)", failure.MalformedInput, ErrNotRanged},
		{"two externals", coldcardExternal + "\n" + coldcardExternal, failure.MalformedInput, ErrMismatchedPair},
		{"different keys", coldcardExternal + "\n" + other.Internal, failure.MalformedInput, ErrMismatchedPair},
		{"different templates", coldcardExternal + "\n" + legacy, failure.MalformedInput, ErrMismatchedPair},
		{"three lines", coldcardExternal + "\n" + coldcardInternal + "\n" + coldcardExternal, failure.MalformedInput, ErrTooManyDescriptors},
		{"bad checksum", noChecksum(coldcardExternal) + "#aaaaaaaa", failure.MalformedInput, ErrChecksumMismatch},
		{"multisig", "wsh(sortedmulti(2," + coldcardXpub + "/0/*," + coldcardXpub + "/1/*))", failure.MalformedInput, ErrUnsupportedDescriptor},
		{"script tree", "tr(" + coldcardXpub + "/0/*,{pk(" + coldcardXpub + "/1/*)})", failure.MalformedInput, ErrScriptTree},
		{"combo", "combo(" + coldcardXpub + "/0/*)", failure.MalformedInput, ErrUnsupportedDescriptor},
		{"unknown function", "foo(" + coldcardXpub + "/0/*)", failure.MalformedInput, ErrUnknownFunction},
		{"only comments", "# nothing here\n", failure.MalformedInput, ErrNoDescriptor},
		{"private key", "wpkh(xprv9s21ZrQH143K3QTDL4LXw2F7HEK3wJUD2nW2nRk4stbPy6cq3jPPqjiChkVvvNKmPGJxWUtg6LD6QxXoZzfdH9tAWBfUNSvEMCvAx8tMbKL/0/*)", failure.UnsupportedKeyExpression, hdkey.ErrPrivateKey},
		{"hardened wildcard", "wpkh(" + coldcardXpub + "/0/*h)", failure.UnsupportedKeyExpression, keyexpr.ErrHardenedWildcard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAccount(tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.kind, failure.KindOf(err), err.Error())
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), err.Error())
			}
		})
	}
}

func TestIsDescriptorText(t *testing.T) {
	assert.True(t, IsDescriptorText(coldcardExternal))
	assert.True(t, IsDescriptorText("# comment\n"+coldcardExternal))
	assert.True(t, IsDescriptorText("sh(multi(2,...))"))
	assert.False(t, IsDescriptorText(coldcardXpub))
	assert.False(t, IsDescriptorText(`{"descriptor": "wpkh(...)"}`))
	assert.False(t, IsDescriptorText("wpkh"))
	assert.False(t, IsDescriptorText(""))
}

func TestAddress(t *testing.T) {
	tests := []struct {
		scriptType scripttype.ScriptType
		net        hdkey.Network
		change     uint32
		index      uint32
		address    string
	}{
		// BIP44, BIP49, BIP84 and BIP86 vectors for the test mnemonic.
		{scripttype.Legacy, hdkey.Mainnet, 0, 0, "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA"},
		{scripttype.NestedSegwit, hdkey.Testnet, 0, 0, "2Mww8dCYPUpKHofjgcXcBCEGmniw9CoaiD2"},
		{scripttype.NativeSegwit, hdkey.Mainnet, 0, 0, "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu"},
		{scripttype.NativeSegwit, hdkey.Mainnet, 0, 1, "bc1qnjg0jd8228aq7egyzacy8cys3knf9xvrerkf9g"},
		{scripttype.NativeSegwit, hdkey.Mainnet, 1, 0, "bc1q8c6fshw2dlwun7ekn9qwf37cu2rn755upcp6el"},
		{scripttype.Taproot, hdkey.Mainnet, 0, 0, "bc1p5cyxnuxmeuwuvkwfem96lqzszd02n6xdcjrs20cac6yqjjwudpxqkedrcr"},
		{scripttype.Taproot, hdkey.Mainnet, 0, 1, "bc1p4qhjn9zdvkux4e44uhx8tc55attvtyu358kutcqkudyccelu0was9fqzwh"},
		{scripttype.Taproot, hdkey.Mainnet, 1, 0, "bc1p3qkhfews2uk44qtvauqyr2ttdsw7svhkl9nkm9s9c3x4ax5h60wqwruhk7"},
	}
	for _, tt := range tests {
		account := testAccount(t, tt.scriptType, tt.net)
		addr, err := Address(account, tt.change, tt.index)
		require.NoError(t, err)
		assert.Equal(t, tt.address, addr.EncodeAddress())
		assert.True(t, addr.IsForNet(tt.net.Params()))
	}

	account := testAccount(t, scripttype.NativeSegwit, hdkey.Mainnet)
	addresses, err := Addresses(account, ExternalChain, 0, 2)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, "bc1qnjg0jd8228aq7egyzacy8cys3knf9xvrerkf9g", addresses[1].EncodeAddress())

	_, err = Address(Account{Key: account.Key}, 0, 0)
	require.Error(t, err)
	assert.Equal(t, failure.AmbiguousScriptType, failure.KindOf(err))
}

func noChecksum(s string) string {
	return strings.Split(s, "#")[0]
}
