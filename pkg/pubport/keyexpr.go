package pubport

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tdex-network/pubport/pkg/descriptor"
	"github.com/tdex-network/pubport/pkg/failure"
	"github.com/tdex-network/pubport/pkg/hdkey"
	"github.com/tdex-network/pubport/pkg/keyexpr"
	"github.com/tdex-network/pubport/pkg/scripttype"
)

// looksLikeKeyExpression reports whether a token starts like a key
// expression: with a key origin or an extended key prefix.
func looksLikeKeyExpression(token string) bool {
	if strings.HasPrefix(token, "[") {
		return true
	}
	_, ok := hdkey.LookupPrefix(token)
	return ok
}

func extractKeyExpression(r *Resolver, in *input) (Format, error) {
	token, ok := in.token()
	if !ok {
		return nil, decline(nil)
	}

	expr, err := keyexpr.Parse(token)
	if err != nil {
		if errors.Is(err, failure.UnsupportedKeyExpression) {
			return nil, decline(err)
		}
		if looksLikeKeyExpression(token) {
			return nil, err
		}
		return nil, decline(err)
	}
	if err := r.checkNetwork(expr.Key.Network()); err != nil {
		return nil, err
	}

	account, warnings, err := r.keyExpressionAccount(expr)
	if err != nil {
		return nil, err
	}
	return &KeyExpression{single{newResolved(account), warnings}}, nil
}

// ErrNotAccountChain is returned for ranged key expressions that do not
// range over the external chain of an account.
var ErrNotAccountChain = errors.New(
	"ranged key expression must end with /0/* or /<0;1>/*",
)

// accountSteps returns the steps between the key and the account chain.
// Ranged expressions must end with /0/* or /<0;1>/*, unranged ones name
// the account key itself.
func accountSteps(expr *keyexpr.KeyExpression) (hdkey.DerivationPath, error) {
	steps := expr.Path
	switch {
	case expr.Branches != nil:
		if expr.Wildcard && len(expr.Branches) == 2 &&
			expr.Branches[0] == descriptor.ExternalChain &&
			expr.Branches[1] == descriptor.InternalChain {
			return steps, nil
		}
	case expr.Wildcard:
		if len(steps) > 0 && steps[len(steps)-1] == descriptor.ExternalChain {
			return steps[:len(steps)-1], nil
		}
	default:
		return steps, nil
	}
	return nil, failure.Field(failure.MalformedInput, expr.String(), ErrNotAccountChain)
}

// keyExpressionAccount turns the expression into an account. Steps before
// the account chain are derived into the account key.
func (r *Resolver) keyExpressionAccount(
	expr *keyexpr.KeyExpression,
) (descriptor.Account, []string, error) {
	steps, err := accountSteps(expr)
	if err != nil {
		return descriptor.Account{}, nil, err
	}

	var warnings []string
	key := expr.Key
	if len(steps) > 0 {
		derived, err := key.Derive(steps...)
		if err != nil {
			return descriptor.Account{}, nil, err
		}
		key = derived
		warnings = append(warnings, fmt.Sprintf(
			"using the key derived at /%s as account key", steps.String(),
		))
	}

	if expr.Origin == nil {
		account, more, err := r.bareAccount(key, r.hint)
		if err != nil {
			return descriptor.Account{}, nil, err
		}
		return account, append(warnings, more...), nil
	}

	path := expr.Origin.Path.Child(steps...)
	// The origin path names the script type, the caller hint only fills in
	// when it does not.
	hint := r.hint
	if hasStandardPurpose(path) {
		hint = scripttype.Unknown
	}
	account, more, err := r.account(accountSpec{
		key:         key,
		path:        path,
		fingerprint: expr.Origin.Fingerprint,
		hint:        hint,
	})
	if err != nil {
		return descriptor.Account{}, nil, err
	}
	return account, append(warnings, more...), nil
}
