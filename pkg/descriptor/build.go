// Package descriptor renders and parses the single-key output descriptors
// of an account: pkh, sh(wpkh), wpkh and tr over an extended public key.
package descriptor

import (
	"fmt"

	"github.com/tdex-network/pubport/pkg/hdkey"
	"github.com/tdex-network/pubport/pkg/scripttype"
)

const (
	// ExternalChain is the change index of receive addresses.
	ExternalChain uint32 = 0
	// InternalChain is the change index of change addresses.
	InternalChain uint32 = 1
)

// Pair holds the external (receive) and internal (change) descriptors of
// an account, both with checksum.
type Pair struct {
	External string `json:"external"`
	Internal string `json:"internal"`
}

var templates = map[scripttype.ScriptType]string{
	scripttype.Legacy:       "pkh(%s)",
	scripttype.NestedSegwit: "sh(wpkh(%s))",
	scripttype.NativeSegwit: "wpkh(%s)",
	scripttype.Taproot:      "tr(%s)",
}

// Build returns the descriptor pair of the account identified by key,
// origin and script type. A nil origin omits the origin block, an origin
// with unknown fingerprint renders it as 00000000. Build returns an empty
// pair for an invalid script type.
func Build(
	key *hdkey.ExtendedPublicKey, origin *hdkey.KeyOrigin, st scripttype.ScriptType,
) Pair {
	if !st.Valid() {
		return Pair{}
	}
	return Pair{
		External: render(key, origin, st, fmt.Sprintf("%d/*", ExternalChain)),
		Internal: render(key, origin, st, fmt.Sprintf("%d/*", InternalChain)),
	}
}

// Multipath returns the BIP389 descriptor covering both chains.
func Multipath(
	key *hdkey.ExtendedPublicKey, origin *hdkey.KeyOrigin, st scripttype.ScriptType,
) string {
	if !st.Valid() {
		return ""
	}
	return render(key, origin, st, fmt.Sprintf("<%d;%d>/*", ExternalChain, InternalChain))
}

func render(
	key *hdkey.ExtendedPublicKey, origin *hdkey.KeyOrigin,
	st scripttype.ScriptType, tail string,
) string {
	expr := origin.String() + key.String() + "/" + tail
	return mustWithChecksum(fmt.Sprintf(templates[st], expr))
}
