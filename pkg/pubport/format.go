// Package pubport turns wallet public key exports into output descriptors.
//
// An export may be descriptor text, an Electrum or Wasabi wallet file, a
// Coldcard style JSON export, a bare extended public key or a BIP380 key
// expression. Resolve discovers which one it is and returns the external
// and internal descriptors of the exported account.
package pubport

import (
	"github.com/tdex-network/pubport/pkg/descriptor"
	"github.com/tdex-network/pubport/pkg/scripttype"
)

// Kind identifies the format an input was resolved as.
type Kind int

const (
	// KindDescriptor is descriptor text, one or two lines.
	KindDescriptor Kind = iota + 1
	// KindElectrum is an Electrum wallet file.
	KindElectrum
	// KindWasabi is a Wasabi wallet file or Coldcard Wasabi export.
	KindWasabi
	// KindJSON is any other JSON export, like Coldcard's generic export.
	KindJSON
	// KindXpub is a bare extended public key.
	KindXpub
	// KindKeyExpression is a BIP380 key expression.
	KindKeyExpression
)

var kindNames = map[Kind]string{
	KindDescriptor:    "descriptor",
	KindElectrum:      "electrum",
	KindWasabi:        "wasabi",
	KindJSON:          "json",
	KindXpub:          "xpub",
	KindKeyExpression: "key-expression",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Format is the result of resolving an input. It is one of *Descriptor,
// *Electrum, *Wasabi, *JSON, *Xpub or *KeyExpression.
type Format interface {
	Kind() Kind
	// Descriptors returns the descriptor pair of the account. For exports
	// carrying several accounts this is the preferred one.
	Descriptors() descriptor.Pair
	// Accounts returns every account found, the preferred one first.
	Accounts() []Resolved
	// Warnings lists the non fatal inconsistencies found in the input.
	Warnings() []string

	sealed()
}

// Resolved is one account found in an input together with its
// descriptors.
type Resolved struct {
	Account descriptor.Account
	Pair    descriptor.Pair
}

func newResolved(account descriptor.Account) Resolved {
	return Resolved{account, account.Pair()}
}

type single struct {
	Resolved
	warnings []string
}

func (s *single) Descriptors() descriptor.Pair {
	return s.Pair
}

func (s *single) Accounts() []Resolved {
	return []Resolved{s.Resolved}
}

func (s *single) Warnings() []string {
	return s.warnings
}

func (*single) sealed() {}

// Descriptor is a resolved descriptor input.
type Descriptor struct{ single }

// Kind ...
func (*Descriptor) Kind() Kind { return KindDescriptor }

// Electrum is a resolved Electrum wallet file.
type Electrum struct{ single }

// Kind ...
func (*Electrum) Kind() Kind { return KindElectrum }

// Wasabi is a resolved Wasabi wallet file.
type Wasabi struct{ single }

// Kind ...
func (*Wasabi) Kind() Kind { return KindWasabi }

// Xpub is a resolved bare extended public key.
type Xpub struct{ single }

// Kind ...
func (*Xpub) Kind() Kind { return KindXpub }

// KeyExpression is a resolved BIP380 key expression.
type KeyExpression struct{ single }

// Kind ...
func (*KeyExpression) Kind() Kind { return KindKeyExpression }

// JSON is a resolved generic JSON export. Coldcard exports carry one
// account per script type.
type JSON struct {
	accounts []Resolved
	warnings []string
}

// Kind ...
func (*JSON) Kind() Kind { return KindJSON }

// preference orders script types when a JSON export has several accounts.
var preference = []scripttype.ScriptType{
	scripttype.NativeSegwit,
	scripttype.Taproot,
	scripttype.NestedSegwit,
	scripttype.Legacy,
}

// Preferred returns the account to use when a single one is needed.
func (j *JSON) Preferred() Resolved {
	for _, st := range preference {
		if account, ok := j.Account(st); ok {
			return account
		}
	}
	return j.accounts[0]
}

// Account returns the account of the given script type, if exported.
func (j *JSON) Account(st scripttype.ScriptType) (Resolved, bool) {
	for _, account := range j.accounts {
		if account.Account.ScriptType == st {
			return account, true
		}
	}
	return Resolved{}, false
}

// Accounts returns the preferred account followed by the others in export
// order.
func (j *JSON) Accounts() []Resolved {
	preferred := j.Preferred()
	accounts := []Resolved{preferred}
	for _, account := range j.accounts {
		if account.Account.ScriptType != preferred.Account.ScriptType {
			accounts = append(accounts, account)
		}
	}
	return accounts
}

// Descriptors returns the descriptors of the preferred account.
func (j *JSON) Descriptors() descriptor.Pair {
	return j.Preferred().Pair
}

// Warnings ...
func (j *JSON) Warnings() []string {
	return j.warnings
}

func (*JSON) sealed() {}
