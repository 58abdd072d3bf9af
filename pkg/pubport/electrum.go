package pubport

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tdex-network/pubport/pkg/failure"
	"github.com/tdex-network/pubport/pkg/hdkey"
	"github.com/tdex-network/pubport/pkg/scripttype"
)

var (
	// ErrMultisigWallet ...
	ErrMultisigWallet = errors.New("multisig wallets are not supported")
	// ErrImportedWallet ...
	ErrImportedWallet = errors.New("imported address or key wallets are not supported")

	multisigWalletType = regexp.MustCompile(`^\d+of\d+$`)

	validate = newValidator()
)

// newValidator returns a validator reporting fields by their JSON name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type electrumKeystore struct {
	Type            string  `json:"type"`
	HWType          string  `json:"hw_type"`
	Label           string  `json:"label"`
	Xpub            string  `json:"xpub" validate:"required"`
	Derivation      string  `json:"derivation"`
	RootFingerprint string  `json:"root_fingerprint" validate:"omitempty,len=8,hexadecimal"`
	CkccXfp         *uint32 `json:"ckcc_xfp"`
	CkccXpub        string  `json:"ckcc_xpub"`
	SeedType        string  `json:"seed_type"`
}

type electrumWallet struct {
	SeedVersion      int               `json:"seed_version"`
	SeedType         string            `json:"seed_type"`
	WalletType       string            `json:"wallet_type"`
	UseEncryption    bool              `json:"use_encryption"`
	Keystore         *electrumKeystore `json:"keystore"`
	MasterPublicKeys map[string]string `json:"master_public_keys"`
}

func isElectrum(obj map[string]interface{}) bool {
	if _, ok := obj["keystore"].(map[string]interface{}); ok {
		return true
	}
	if _, ok := obj["master_public_keys"].(map[string]interface{}); ok {
		return true
	}
	return hasAnyField(obj, "wallet_type") && hasAnyField(obj, "seed_version")
}

func extractElectrum(r *Resolver, in *input) (Format, error) {
	obj, ok := in.object()
	if !ok || !isElectrum(obj) {
		return nil, decline(nil)
	}

	var wallet electrumWallet
	if err := in.decode(&wallet); err != nil {
		return nil, failure.Wrap(failure.MalformedInput, err)
	}

	walletType := strings.ToLower(wallet.WalletType)
	switch {
	case multisigWalletType.MatchString(walletType):
		return nil, failure.Field(failure.MalformedInput, "wallet_type", fmt.Errorf(
			"%w: %s", ErrMultisigWallet, wallet.WalletType,
		))
	case walletType == "imported":
		return nil, failure.Field(failure.MalformedInput, "wallet_type", ErrImportedWallet)
	}

	keystore, err := wallet.keystore()
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(keystore); err != nil {
		return nil, validationError("keystore", err)
	}

	key, err := r.parseKey(keystore.Xpub)
	if err != nil {
		return nil, err
	}

	var path hdkey.DerivationPath
	if keystore.Derivation != "" {
		if path, err = hdkey.ParseDerivationPath(keystore.Derivation); err != nil {
			return nil, err
		}
	}

	fp, err := keystore.fingerprint()
	if err != nil {
		return nil, err
	}

	var hint scripttype.ScriptType
	for _, name := range []string{wallet.WalletType, wallet.SeedType, keystore.SeedType} {
		if st, ok := scripttype.ParseName(name); ok {
			hint = st
			break
		}
	}

	account, warnings, err := r.account(accountSpec{key, path, fp, hint})
	if err != nil {
		return nil, err
	}
	return &Electrum{single{newResolved(account), warnings}}, nil
}

// keystore returns the single keystore of the wallet, from the current
// format or from the legacy master_public_keys one.
func (w electrumWallet) keystore() (*electrumKeystore, error) {
	if w.Keystore != nil {
		return w.Keystore, nil
	}
	switch len(w.MasterPublicKeys) {
	case 0:
		return nil, failure.Malformed("keystore", "missing keystore")
	case 1:
		for _, xpub := range w.MasterPublicKeys {
			return &electrumKeystore{Xpub: xpub}, nil
		}
	}
	return nil, failure.Field(failure.MalformedInput, "master_public_keys", ErrMultisigWallet)
}

// fingerprint picks the master fingerprint from the keystore: Coldcard's
// ckcc_xfp, then root_fingerprint, then the fingerprint of ckcc_xpub.
func (k *electrumKeystore) fingerprint() (*hdkey.Fingerprint, error) {
	if k.CkccXfp != nil {
		fp := hdkey.FingerprintFromUint32LE(*k.CkccXfp)
		return &fp, nil
	}
	if k.RootFingerprint != "" {
		fp, err := hdkey.ParseFingerprint(k.RootFingerprint)
		if err != nil {
			return nil, failure.Field(failure.MalformedInput, "root_fingerprint", err)
		}
		return &fp, nil
	}
	if k.CkccXpub != "" {
		root, err := hdkey.ParseExtendedPublicKey(k.CkccXpub)
		if err != nil {
			return nil, err
		}
		if fp, ok := root.MasterFingerprint(); ok {
			return &fp, nil
		}
	}
	return nil, nil
}

// validationError converts validator errors into MalformedInput, naming
// the first offending field.
func validationError(prefix string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := prefix + "." + verrs[0].Field()
		return failure.Malformed(field, "failed on the %q rule", verrs[0].Tag())
	}
	return failure.Wrap(failure.MalformedInput, err)
}
