package descriptor

import (
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/tdex-network/pubport/pkg/failure"
	"github.com/tdex-network/pubport/pkg/scripttype"
)

// Address derives the address at change/index of the account.
func Address(account Account, change, index uint32) (btcutil.Address, error) {
	child, err := account.Key.Derive(change, index)
	if err != nil {
		return nil, err
	}
	params := account.Network().Params()
	pubkey := child.PubKey()
	pubkeyHash := btcutil.Hash160(pubkey.SerializeCompressed())

	switch account.ScriptType {
	case scripttype.Legacy:
		return btcutil.NewAddressPubKeyHash(pubkeyHash, params)

	case scripttype.NestedSegwit:
		witness, err := btcutil.NewAddressWitnessPubKeyHash(pubkeyHash, params)
		if err != nil {
			return nil, err
		}
		redeemScript, err := txscript.PayToAddrScript(witness)
		if err != nil {
			return nil, err
		}
		return btcutil.NewAddressScriptHash(redeemScript, params)

	case scripttype.NativeSegwit:
		return btcutil.NewAddressWitnessPubKeyHash(pubkeyHash, params)

	case scripttype.Taproot:
		outputKey := txscript.ComputeTaprootKeyNoScript(pubkey)
		return btcutil.NewAddressTaproot(schnorr.SerializePubKey(outputKey), params)
	}

	return nil, failure.New(
		failure.AmbiguousScriptType, "no address type for script type %s",
		account.ScriptType,
	)
}

// Addresses derives count consecutive addresses of a chain starting at
// index from.
func Addresses(account Account, change, from, count uint32) ([]btcutil.Address, error) {
	addresses := make([]btcutil.Address, 0, count)
	for i := from; i < from+count; i++ {
		addr, err := Address(account, change, i)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, addr)
	}
	return addresses, nil
}
