package pubport

import (
	"github.com/tdex-network/pubport/pkg/descriptor"
	"github.com/tdex-network/pubport/pkg/scripttype"
)

// extractDescriptor handles descriptor text and JSON objects wrapping it
// in a "descriptor" field.
func extractDescriptor(r *Resolver, in *input) (Format, error) {
	text := in.text
	if !descriptor.IsDescriptorText(text) {
		obj, ok := in.object()
		if !ok {
			return nil, decline(nil)
		}
		value, _, err := lookupString(obj, []string{"descriptor"})
		if err != nil || !descriptor.IsDescriptorText(value) {
			return nil, decline(err)
		}
		text = value
	}

	account, err := descriptor.ParseAccount(text)
	if err != nil {
		return nil, err
	}
	if err := r.checkNetwork(account.Network()); err != nil {
		return nil, err
	}

	// The template decides, the rest only produces warnings.
	version := account.Key.Version()
	_, warnings, err := scripttype.Classify(scripttype.Input{
		Path:    account.Path(),
		Version: &version,
		Hint:    account.ScriptType,
	})
	if err != nil {
		return nil, err
	}

	return &Descriptor{single{newResolved(*account), warnings}}, nil
}
