package scripttype

import (
	"errors"
	"fmt"

	"github.com/tdex-network/pubport/pkg/failure"
	"github.com/tdex-network/pubport/pkg/hdkey"
)

var (
	// ErrUnhardenedPurpose is returned when a path starts with an unhardened
	// standard purpose, like m/84/0/0.
	ErrUnhardenedPurpose = errors.New("standard purpose must be hardened")
	// ErrNoScriptType ...
	ErrNoScriptType = errors.New(
		"no script type hint, path purpose or key prefix available",
	)
)

// Input gathers the evidence an export carries about its script type. Any
// field may be empty.
type Input struct {
	// Path is the origin path of the account key.
	Path hdkey.DerivationPath
	// Version is the SLIP-132 version the key was written with.
	Version *hdkey.Version
	// Hint is an explicit script type named by the export or the caller.
	Hint ScriptType
}

// Classify picks the script type from, in order of priority, the hint, the
// hardened purpose of the path and the key version family. Evidence that
// disagrees with the winner is reported as warnings.
func Classify(in Input) (ScriptType, []string, error) {
	fromPath, err := fromPath(in.Path)
	if err != nil {
		return Unknown, nil, err
	}
	fromVersion := Unknown
	if in.Version != nil && !in.Version.Multisig() {
		fromVersion = FromFamily(in.Version.Family)
	}

	var st ScriptType
	switch {
	case in.Hint.Valid():
		st = in.Hint
	case fromPath.Valid():
		st = fromPath
	case fromVersion.Valid():
		st = fromVersion
	default:
		return Unknown, nil, failure.Wrap(failure.AmbiguousScriptType, ErrNoScriptType)
	}

	var warnings []string
	if fromPath.Valid() && fromPath != st {
		warnings = append(warnings, fmt.Sprintf(
			"path %s suggests %s, using %s", in.Path.Absolute(), fromPath, st,
		))
	}
	// A plain xpub says nothing, only segwit prefixes are worth a warning.
	if in.Version != nil && in.Version.Family != hdkey.FamilyStandard &&
		fromVersion.Valid() && fromVersion != st {
		warnings = append(warnings, fmt.Sprintf(
			"%s prefix suggests %s, using %s", in.Version.Prefix, fromVersion, st,
		))
	}
	return st, warnings, nil
}

func fromPath(path hdkey.DerivationPath) (ScriptType, error) {
	purpose, hardened, ok := path.Purpose()
	if !ok {
		return Unknown, nil
	}
	st, ok := FromPurpose(purpose)
	if !ok {
		return Unknown, nil
	}
	if !hardened {
		return Unknown, failure.Field(
			failure.InvalidPath, path.Absolute(), ErrUnhardenedPurpose,
		)
	}
	return st, nil
}
