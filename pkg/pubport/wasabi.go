package pubport

import (
	"github.com/tdex-network/pubport/pkg/failure"
	"github.com/tdex-network/pubport/pkg/hdkey"
	"github.com/tdex-network/pubport/pkg/scripttype"
)

var (
	wasabiKeyFields         = []string{"ExtPubKey", "SegwitExtPubKey"}
	wasabiFingerprintFields = []string{"MasterFingerprint", "MasterKeyFingerprint"}
	wasabiMarkerFields      = []string{
		"ColdCardFirmwareVersion", "EncryptedSecret", "ChainCode", "MinGapLimit",
		"BlockchainState", "TaprootExtPubKey",
	}
)

type wasabiWallet struct {
	ColdCardFirmwareVersion string `json:"ColdCardFirmwareVersion"`
	MasterFingerprint       string `json:"MasterFingerprint" validate:"omitempty,len=8,hexadecimal"`
	MasterKeyFingerprint    string `json:"MasterKeyFingerprint" validate:"omitempty,len=8,hexadecimal"`
	ExtPubKey               string `json:"ExtPubKey" validate:"required_without=SegwitExtPubKey"`
	SegwitExtPubKey         string `json:"SegwitExtPubKey"`
	TaprootExtPubKey        string `json:"TaprootExtPubKey"`
	AccountKeyPath          string `json:"AccountKeyPath"`
	SegwitAccountKeyPath    string `json:"SegwitAccountKeyPath"`
	KeyPath                 string `json:"KeyPath"`
}

func isWasabi(obj map[string]interface{}) bool {
	return hasAnyField(obj, wasabiKeyFields...) &&
		(hasAnyField(obj, wasabiFingerprintFields...) ||
			hasAnyField(obj, wasabiMarkerFields...))
}

func extractWasabi(r *Resolver, in *input) (Format, error) {
	obj, ok := in.object()
	if !ok || !isWasabi(obj) {
		return nil, decline(nil)
	}

	var wallet wasabiWallet
	if err := in.decode(&wallet); err != nil {
		return nil, failure.Wrap(failure.MalformedInput, err)
	}
	if err := validate.Struct(wallet); err != nil {
		return nil, validationError("wasabi", err)
	}

	xpub := firstNonEmpty(wallet.ExtPubKey, wallet.SegwitExtPubKey)
	key, err := r.parseKey(xpub)
	if err != nil {
		return nil, err
	}

	var path hdkey.DerivationPath
	if p := firstNonEmpty(wallet.AccountKeyPath, wallet.SegwitAccountKeyPath, wallet.KeyPath); p != "" {
		if path, err = hdkey.ParseDerivationPath(p); err != nil {
			return nil, err
		}
	}

	var fp *hdkey.Fingerprint
	if s := firstNonEmpty(wallet.MasterFingerprint, wallet.MasterKeyFingerprint); s != "" {
		parsed, err := hdkey.ParseFingerprint(s)
		if err != nil {
			return nil, err
		}
		fp = &parsed
	}

	// Wasabi wallets are native segwit unless the path says otherwise.
	hint := scripttype.NativeSegwit
	if hasStandardPurpose(path) {
		hint = scripttype.Unknown
	}

	account, warnings, err := r.account(accountSpec{key, path, fp, hint})
	if err != nil {
		return nil, err
	}
	if wallet.TaprootExtPubKey != "" && account.ScriptType != scripttype.Taproot {
		warnings = append(warnings, "taproot account ignored, only the segwit one is imported")
	}
	return &Wasabi{single{newResolved(account), warnings}}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
