package pubport

import (
	"fmt"
	"strings"

	"github.com/tdex-network/pubport/pkg/descriptor"
	"github.com/tdex-network/pubport/pkg/hdkey"
	"github.com/tdex-network/pubport/pkg/scripttype"
)

const (
	base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	// Serialized extended keys are 82 bytes, about 111 base58 characters.
	minXpubLength = 100
)

func isBase58(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(base58Alphabet, r) {
			return false
		}
	}
	return true
}

func extractXpub(r *Resolver, in *input) (Format, error) {
	token, ok := in.token()
	if !ok || len(token) < minXpubLength || !isBase58(token) {
		return nil, decline(nil)
	}
	if version, ok := hdkey.LookupPrefix(token); !ok || version.Private {
		return nil, decline(nil)
	}

	key, err := r.parseKey(token)
	if err != nil {
		return nil, err
	}
	account, warnings, err := r.bareAccount(key, r.hint)
	if err != nil {
		return nil, err
	}
	return &Xpub{single{newResolved(account), warnings}}, nil
}

// bareAccount builds the account of a key that comes without origin. Only
// account level and master keys have an origin that can be inferred.
func (r *Resolver) bareAccount(
	key *hdkey.ExtendedPublicKey, hint scripttype.ScriptType,
) (descriptor.Account, []string, error) {
	switch {
	case key.Depth() == 3 && key.ChildIndex() >= hdkey.HardenedKeyStart:
		return r.account(accountSpec{key: key, hint: hint})
	case key.Depth() == 0:
		return r.account(accountSpec{key: key, path: hdkey.DerivationPath{}, hint: hint})
	}

	version := key.Version()
	st, warnings, err := scripttype.Classify(scripttype.Input{
		Version: &version,
		Hint:    hint,
	})
	if err != nil {
		return descriptor.Account{}, nil, err
	}
	warnings = append(warnings, fmt.Sprintf(
		"key at depth %d is not an account key, origin unknown", key.Depth(),
	))
	return descriptor.Account{Key: key, ScriptType: st}, warnings, nil
}

// hasStandardPurpose reports whether path starts with a hardened BIP44,
// BIP49, BIP84 or BIP86 purpose.
func hasStandardPurpose(path hdkey.DerivationPath) bool {
	purpose, hardened, ok := path.Purpose()
	if !ok || !hardened {
		return false
	}
	_, standard := scripttype.FromPurpose(purpose)
	return standard
}
