// Package keyexpr parses BIP380 key expressions restricted to single
// extended public keys, e.g.
//
//	[d34db33f/84h/0h/0h]xpub6CiKn.../<0;1>/*
//
// Private keys, bare public keys and hardened wildcards are recognized and
// refused with failure.UnsupportedKeyExpression.
package keyexpr

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/tdex-network/pubport/pkg/failure"
	"github.com/tdex-network/pubport/pkg/hdkey"
)

var (
	// ErrWIFKey ...
	ErrWIFKey = errors.New("WIF private keys are not supported")
	// ErrBarePubKey ...
	ErrBarePubKey = errors.New("non extended public keys are not supported")
	// ErrHardenedWildcard ...
	ErrHardenedWildcard = errors.New("hardened wildcards are not supported")
	// ErrHardenedMultipath ...
	ErrHardenedMultipath = errors.New("hardened multipath steps are not supported")
	// ErrMissingOpenBracket is returned for an origin closed by ']' that was
	// never opened.
	ErrMissingOpenBracket = errors.New("key origin is missing '['")
	// ErrUnterminatedOrigin ...
	ErrUnterminatedOrigin = errors.New("key origin is missing ']'")
	// ErrMultipleOrigins ...
	ErrMultipleOrigins = errors.New("multiple key origins")
	// ErrMissingKey ...
	ErrMissingKey = errors.New("key expression has no key")
	// ErrTrailingSlash ...
	ErrTrailingSlash = errors.New("empty derivation step")
	// ErrMisplacedWildcard ...
	ErrMisplacedWildcard = errors.New("wildcard must be the last step")
	// ErrMisplacedMultipath ...
	ErrMisplacedMultipath = errors.New(
		"multipath must be the last step before the wildcard",
	)
	// ErrInvalidMultipath ...
	ErrInvalidMultipath = errors.New(
		"multipath must list at least two distinct indexes",
	)
)

// KeyExpression is a parsed extended public key expression.
type KeyExpression struct {
	Origin *hdkey.KeyOrigin
	Key    *hdkey.ExtendedPublicKey
	// Path holds the derivation steps that follow the key, excluding any
	// multipath step and the wildcard.
	Path hdkey.DerivationPath
	// Branches holds the indexes of a trailing <a;b;...> step.
	Branches []uint32
	Wildcard bool
}

// Parse parses a key expression.
func Parse(s string) (*KeyExpression, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, failure.Wrap(failure.MalformedInput, ErrMissingKey)
	}

	expr := &KeyExpression{}
	rest := s
	if strings.HasPrefix(s, "[") {
		end := strings.Index(s, "]")
		if end < 0 {
			return nil, failure.Field(failure.MalformedInput, "origin", ErrUnterminatedOrigin)
		}
		origin, err := parseOrigin(s[1:end])
		if err != nil {
			return nil, err
		}
		expr.Origin = origin
		rest = s[end+1:]
	}
	if strings.ContainsAny(rest, "[]") {
		if expr.Origin != nil || strings.Contains(rest, "[") {
			return nil, failure.Field(failure.MalformedInput, "origin", ErrMultipleOrigins)
		}
		return nil, failure.Field(failure.MalformedInput, "origin", ErrMissingOpenBracket)
	}
	if rest == "" {
		return nil, failure.Wrap(failure.MalformedInput, ErrMissingKey)
	}

	elems := strings.Split(rest, "/")
	key, err := parseKey(elems[0])
	if err != nil {
		return nil, err
	}
	expr.Key = key

	if err := expr.parseSteps(elems[1:]); err != nil {
		return nil, err
	}
	return expr, nil
}

func parseOrigin(s string) (*hdkey.KeyOrigin, error) {
	if strings.Contains(s, "[") {
		return nil, failure.Field(failure.MalformedInput, "origin", ErrMultipleOrigins)
	}
	parts := strings.SplitN(s, "/", 2)
	fp, err := hdkey.ParseFingerprint(parts[0])
	if err != nil {
		return nil, err
	}
	path := hdkey.DerivationPath{}
	if len(parts) == 2 {
		if strings.Contains(parts[1], "*") {
			return nil, failure.Field(
				failure.InvalidPath, parts[1], hdkey.ErrWildcardInPath,
			)
		}
		if strings.HasPrefix(strings.TrimSpace(parts[1]), "m") {
			return nil, failure.Field(
				failure.InvalidPath, parts[1], hdkey.ErrMalformedDerivationPath,
			)
		}
		if path, err = hdkey.ParseDerivationPath(parts[1]); err != nil {
			return nil, err
		}
	}
	return hdkey.NewKeyOrigin(&fp, path), nil
}

func parseKey(s string) (*hdkey.ExtendedPublicKey, error) {
	if s == "" {
		return nil, failure.Wrap(failure.MalformedInput, ErrMissingKey)
	}
	if _, err := btcutil.DecodeWIF(s); err == nil {
		return nil, failure.Wrap(failure.UnsupportedKeyExpression, ErrWIFKey)
	}
	if isHexPubKey(s) {
		return nil, failure.Wrap(failure.UnsupportedKeyExpression, ErrBarePubKey)
	}
	return hdkey.ParseExtendedPublicKey(s)
}

func isHexPubKey(s string) bool {
	if len(s) != 66 && len(s) != 130 {
		return false
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return false
	}
	if _, err := btcec.ParsePubKey(b); err != nil {
		// Still a public key shape, just not on the curve.
		return b[0] == 0x02 || b[0] == 0x03 || b[0] == 0x04
	}
	return true
}

func (e *KeyExpression) parseSteps(steps []string) error {
	for i, step := range steps {
		step = strings.TrimSpace(step)
		last := i == len(steps)-1

		switch {
		case step == "":
			return failure.Wrap(failure.InvalidPath, ErrTrailingSlash)

		case step == "*'" || step == "*h" || step == "*H":
			return failure.Field(
				failure.UnsupportedKeyExpression, step, ErrHardenedWildcard,
			)

		case step == "*":
			if !last {
				return failure.Wrap(failure.InvalidPath, ErrMisplacedWildcard)
			}
			e.Wildcard = true

		case strings.HasPrefix(step, "<"):
			nextIsWildcard := i == len(steps)-2 && strings.TrimSpace(steps[i+1]) == "*"
			if e.Branches != nil || !(last || nextIsWildcard) {
				return failure.Field(failure.InvalidPath, step, ErrMisplacedMultipath)
			}
			branches, err := parseMultipath(step)
			if err != nil {
				return err
			}
			e.Branches = branches

		default:
			index, err := parseStep(step)
			if err != nil {
				return err
			}
			e.Path = append(e.Path, index)
		}
	}
	return nil
}

func parseMultipath(step string) ([]uint32, error) {
	if !strings.HasSuffix(step, ">") {
		return nil, failure.Field(failure.InvalidPath, step, ErrInvalidMultipath)
	}
	elems := strings.Split(step[1:len(step)-1], ";")
	if len(elems) < 2 {
		return nil, failure.Field(failure.InvalidPath, step, ErrInvalidMultipath)
	}

	branches := make([]uint32, 0, len(elems))
	seen := make(map[uint32]bool)
	for _, elem := range elems {
		index, err := parseStep(elem)
		if err != nil {
			return nil, err
		}
		if index >= hdkey.HardenedKeyStart {
			return nil, failure.Field(
				failure.UnsupportedKeyExpression, step, ErrHardenedMultipath,
			)
		}
		if seen[index] {
			return nil, failure.Field(failure.InvalidPath, step, ErrInvalidMultipath)
		}
		seen[index] = true
		branches = append(branches, index)
	}
	return branches, nil
}

func parseStep(step string) (uint32, error) {
	step = strings.TrimSpace(step)
	if step == "" || step == "m" {
		return 0, failure.Field(
			failure.InvalidPath, step, hdkey.ErrMalformedDerivationPath,
		)
	}
	path, err := hdkey.ParseDerivationPath(step)
	if err != nil {
		return 0, err
	}
	return path[0], nil
}

// String renders the expression with "h" hardened markers. An origin with
// unknown fingerprint renders as 00000000.
func (e *KeyExpression) String() string {
	var b strings.Builder
	if e.Origin != nil {
		b.WriteString(e.Origin.String())
	}
	b.WriteString(e.Key.String())
	if len(e.Path) > 0 {
		b.WriteString("/")
		b.WriteString(e.Path.String())
	}
	if len(e.Branches) > 0 {
		indexes := make([]string, 0, len(e.Branches))
		for _, i := range e.Branches {
			indexes = append(indexes, fmt.Sprintf("%d", i))
		}
		b.WriteString("/<" + strings.Join(indexes, ";") + ">")
	}
	if e.Wildcard {
		b.WriteString("/*")
	}
	return b.String()
}
