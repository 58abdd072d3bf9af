package descriptor

import (
	"github.com/tdex-network/pubport/pkg/hdkey"
	"github.com/tdex-network/pubport/pkg/scripttype"
)

// Account is a single-key wallet account: an extended public key, where it
// comes from and what it pays to.
type Account struct {
	Key        *hdkey.ExtendedPublicKey
	Origin     *hdkey.KeyOrigin
	ScriptType scripttype.ScriptType
}

// Pair builds the descriptors of the account.
func (a Account) Pair() Pair {
	return Build(a.Key, a.Origin, a.ScriptType)
}

// Multipath ...
func (a Account) Multipath() string {
	return Multipath(a.Key, a.Origin, a.ScriptType)
}

// Network ...
func (a Account) Network() hdkey.Network {
	return a.Key.Network()
}

// MasterFingerprint returns the origin fingerprint, if known.
func (a Account) MasterFingerprint() (hdkey.Fingerprint, bool) {
	if !a.Origin.HasFingerprint() {
		return hdkey.Fingerprint{}, false
	}
	return *a.Origin.Fingerprint, true
}

// Path returns the origin path, or nil if there is no origin.
func (a Account) Path() hdkey.DerivationPath {
	if a.Origin == nil {
		return nil
	}
	return a.Origin.Path
}
