package pubport

import (
	"errors"
	"fmt"

	"github.com/tdex-network/pubport/pkg/descriptor"
	"github.com/tdex-network/pubport/pkg/failure"
	"github.com/tdex-network/pubport/pkg/hdkey"
	"github.com/tdex-network/pubport/pkg/scripttype"
)

// ErrFirstAddressMismatch is returned when the first address listed by an
// export is not the one derived from its key.
var ErrFirstAddressMismatch = errors.New("first address does not match the key")

// jsonExport carries the top level fields of a generic export that apply
// to all its accounts.
type jsonExport struct {
	network     *hdkey.Network
	fingerprint *hdkey.Fingerprint
}

func extractJSON(r *Resolver, in *input) (Format, error) {
	obj, ok := in.object()
	if !ok || !isGenericJSON(obj) {
		return nil, decline(nil)
	}

	export, rootKey, err := r.jsonExport(obj)
	if err != nil {
		return nil, err
	}

	result := &JSON{}
	for _, name := range sectionNames {
		section, ok := lookupObject(obj, name)
		if !ok {
			continue
		}
		hint, _ := scripttype.ParseName(name)
		resolved, warnings, err := r.jsonAccount(section, name+".", export, hint)
		if err != nil {
			return nil, err
		}
		result.accounts = append(result.accounts, resolved)
		result.warnings = append(result.warnings, warnings...)
	}
	if len(result.accounts) > 0 {
		return result, nil
	}

	// Flat export: the top level key is the account key.
	if rootKey == "" {
		return nil, failure.Malformed("xpub", "missing extended public key")
	}
	resolved, warnings, err := r.jsonAccount(obj, "", export, scripttype.Unknown)
	if err != nil {
		return nil, err
	}
	result.accounts = append(result.accounts, resolved)
	result.warnings = warnings
	return result, nil
}

// isGenericJSON reports whether obj holds an account key, at the top level
// or in a Coldcard section.
func isGenericJSON(obj map[string]interface{}) bool {
	if _, _, ok := lookup(obj, keyAliases); ok {
		return true
	}
	for _, name := range sectionNames {
		if _, ok := lookupObject(obj, name); ok {
			return true
		}
	}
	return false
}

// jsonExport reads the network and the master fingerprint of an export.
// It also returns the top level key, if any.
func (r *Resolver) jsonExport(obj map[string]interface{}) (jsonExport, string, error) {
	var export jsonExport

	network, field, err := lookupString(obj, networkAliases)
	if err != nil {
		return export, "", err
	}
	if network != "" {
		net, err := hdkey.ParseNetwork(network)
		if err != nil {
			return export, "", failure.Field(failure.MalformedInput, field, err)
		}
		if err := r.checkNetwork(net); err != nil {
			return export, "", err
		}
		export.network = &net
	}

	if export.fingerprint, err = lookupFingerprint(obj); err != nil {
		return export, "", err
	}

	rootKey, _, err := lookupString(obj, keyAliases)
	if err != nil {
		return export, "", err
	}
	if rootKey != "" && export.fingerprint == nil {
		key, err := r.parseKey(rootKey)
		if err != nil {
			return export, "", err
		}
		if fp, ok := key.MasterFingerprint(); ok {
			export.fingerprint = &fp
		}
	}
	return export, rootKey, nil
}

// jsonAccount resolves one account object, either a Coldcard section or
// the whole flat export.
func (r *Resolver) jsonAccount(
	obj map[string]interface{}, prefix string, export jsonExport,
	hint scripttype.ScriptType,
) (Resolved, []string, error) {
	account, warnings, err := r.jsonAccountFromDescriptor(obj, prefix)
	if err != nil {
		return Resolved{}, nil, err
	}
	if account == nil {
		account, warnings, err = r.jsonAccountFromKey(obj, prefix, export, hint)
		if err != nil {
			return Resolved{}, nil, err
		}
	}

	if export.network != nil && account.Network() != *export.network {
		return Resolved{}, nil, failure.Field(
			failure.InvalidKey, prefix+"xpub", fmt.Errorf(
				"%w: %s key in a %s export", hdkey.ErrNetworkMismatch,
				account.Network(), *export.network,
			),
		)
	}

	if err := verifyFirstAddress(obj, prefix, *account); err != nil {
		return Resolved{}, nil, err
	}
	return newResolved(*account), warnings, nil
}

func (r *Resolver) jsonAccountFromDescriptor(
	obj map[string]interface{}, prefix string,
) (*descriptor.Account, []string, error) {
	desc, field, err := lookupString(obj, descAliases)
	if err != nil || desc == "" {
		return nil, nil, err
	}
	account, err := descriptor.ParseAccount(desc)
	if err != nil {
		return nil, nil, failure.Field(failure.KindOf(err), prefix+field, err)
	}
	if err := r.checkNetwork(account.Network()); err != nil {
		return nil, nil, err
	}
	return account, nil, nil
}

func (r *Resolver) jsonAccountFromKey(
	obj map[string]interface{}, prefix string, export jsonExport,
	hint scripttype.ScriptType,
) (*descriptor.Account, []string, error) {
	xpub, field, err := lookupString(obj, keyAliases)
	if err != nil {
		return nil, nil, err
	}
	if xpub == "" {
		return nil, nil, failure.Malformed(prefix+"xpub", "missing extended public key")
	}
	key, err := r.parseKey(xpub)
	if err != nil {
		return nil, nil, failure.Field(failure.KindOf(err), prefix+field, err)
	}

	var path hdkey.DerivationPath
	p, field, err := lookupString(obj, pathAliases)
	if err != nil {
		return nil, nil, err
	}
	if p != "" {
		if path, err = hdkey.ParseDerivationPath(p); err != nil {
			return nil, nil, failure.Field(failure.InvalidPath, prefix+field, err)
		}
	}

	if !hint.Valid() {
		// A hint field that does not name a script type is not an error.
		if name, _, err := lookupString(obj, hintAliases); err == nil {
			hint, _ = scripttype.ParseName(name)
		}
	}
	if !hint.Valid() {
		hint = r.hint
	}

	account, warnings, err := r.account(accountSpec{key, path, export.fingerprint, hint})
	if err != nil {
		return nil, nil, err
	}
	return &account, warnings, nil
}

func verifyFirstAddress(obj map[string]interface{}, prefix string, account descriptor.Account) error {
	first, field, err := lookupString(obj, firstAliases)
	if err != nil || first == "" {
		return err
	}
	addr, err := descriptor.Address(account, descriptor.ExternalChain, 0)
	if err != nil {
		return err
	}
	if addr.EncodeAddress() != first {
		return failure.Field(failure.MalformedInput, prefix+field, fmt.Errorf(
			"%w: export lists %s, key derives %s",
			ErrFirstAddressMismatch, first, addr.EncodeAddress(),
		))
	}
	return nil
}
