package pubport

import (
	"errors"
	"fmt"

	"github.com/tdex-network/pubport/pkg/descriptor"
	"github.com/tdex-network/pubport/pkg/failure"
	"github.com/tdex-network/pubport/pkg/hdkey"
	"github.com/tdex-network/pubport/pkg/scripttype"

	log "github.com/sirupsen/logrus"
)

// declined is returned by an extractor when the input is not in its
// format. Reason optionally tells why.
type declined struct {
	reason error
}

func (d *declined) Error() string {
	if d.reason == nil {
		return "not this format"
	}
	return "not this format: " + d.reason.Error()
}

func decline(reason error) error {
	return &declined{reason}
}

type extractor struct {
	kind    Kind
	extract func(r *Resolver, in *input) (Format, error)
}

// Extractors run in this order; the first one recognizing the input wins.
var defaultExtractors = []extractor{
	{KindDescriptor, extractDescriptor},
	{KindElectrum, extractElectrum},
	{KindWasabi, extractWasabi},
	{KindJSON, extractJSON},
	{KindXpub, extractXpub},
	{KindKeyExpression, extractKeyExpression},
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithScriptType sets the script type used for inputs that do not carry
// one, like bare xpubs. It overrides the xpub/ypub/zpub prefix.
func WithScriptType(st scripttype.ScriptType) Option {
	return func(r *Resolver) {
		r.hint = st
	}
}

// WithNetwork requires every key to belong to net.
func WithNetwork(net hdkey.Network) Option {
	return func(r *Resolver) {
		r.network = &net
	}
}

// WithLogger sets the logger resolution steps are reported to.
func WithLogger(logger log.FieldLogger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func withExtractors(extractors []extractor) Option {
	return func(r *Resolver) {
		r.extractors = extractors
	}
}

// Resolver detects the format of wallet exports. A Resolver has no mutable
// state and is safe for concurrent use.
type Resolver struct {
	hint       scripttype.ScriptType
	network    *hdkey.Network
	logger     log.FieldLogger
	extractors []extractor
}

// NewResolver returns a resolver configured with opts.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		logger:     log.StandardLogger(),
		extractors: defaultExtractors,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve resolves raw with the default resolver.
func Resolve(raw string) (Format, error) {
	return NewResolver().Resolve(raw)
}

// Resolve tries every extractor in order. An extractor that recognizes the
// input but finds it invalid stops the resolution with its error.
func (r *Resolver) Resolve(raw string) (Format, error) {
	in := newInput(raw)

	var unsupported error
	for _, ex := range r.extractors {
		logger := r.logger.WithField("format", ex.kind)

		format, err := ex.extract(r, in)
		if err == nil {
			for _, w := range format.Warnings() {
				logger.Warn(w)
			}
			logger.Debug("input resolved")
			return format, nil
		}

		var d *declined
		if !errors.As(err, &d) {
			logger.WithError(err).Debug("input rejected")
			return nil, err
		}
		if d.reason != nil {
			logger.WithError(d.reason).Trace("format declined")
			if unsupported == nil && errors.Is(d.reason, failure.UnsupportedKeyExpression) {
				unsupported = d.reason
			}
		}
	}

	if unsupported != nil {
		return nil, unsupported
	}
	return nil, &failure.UnrecognizedError{
		Length: len(in.text),
		Prefix: in.prefix(),
		Shape:  in.shape(),
	}
}

// parseKey decodes an extended public key, enforcing the resolver network.
func (r *Resolver) parseKey(s string) (*hdkey.ExtendedPublicKey, error) {
	if r.network == nil {
		return hdkey.ParseExtendedPublicKey(s)
	}
	return hdkey.ParseExtendedPublicKeyForNetwork(s, *r.network)
}

func (r *Resolver) checkNetwork(net hdkey.Network) error {
	if r.network == nil {
		return nil
	}
	return hdkey.CheckNetwork(net, *r.network)
}

// accountSpec is what an export says about an account. Zero values mean
// the export does not say.
type accountSpec struct {
	key         *hdkey.ExtendedPublicKey
	path        hdkey.DerivationPath
	fingerprint *hdkey.Fingerprint
	hint        scripttype.ScriptType
}

// account classifies the spec and fills in what the export omits: a
// missing path becomes the canonical one of the script type and a missing
// fingerprint is taken from the key when its depth allows it.
func (r *Resolver) account(spec accountSpec) (descriptor.Account, []string, error) {
	version := spec.key.Version()
	st, warnings, err := scripttype.Classify(scripttype.Input{
		Path:    spec.path,
		Version: &version,
		Hint:    spec.hint,
	})
	if err != nil {
		return descriptor.Account{}, nil, err
	}

	path := spec.path
	if path == nil {
		path = st.DefaultPath(spec.key.Network(), accountIndex(spec.key))
		warnings = append(warnings, fmt.Sprintf(
			"no derivation path, assuming %s", path.Absolute(),
		))
	} else if int(spec.key.Depth()) != len(path) {
		warnings = append(warnings, fmt.Sprintf(
			"key depth %d does not match path %s", spec.key.Depth(), path.Absolute(),
		))
	}

	fp := spec.fingerprint
	if fp == nil {
		if mfp, ok := spec.key.MasterFingerprint(); ok && int(spec.key.Depth()) == len(path) {
			fp = &mfp
		}
	}

	return descriptor.Account{
		Key:        spec.key,
		Origin:     hdkey.NewKeyOrigin(fp, path),
		ScriptType: st,
	}, warnings, nil
}

// accountIndex returns the account number of a depth 3 key, or 0.
func accountIndex(key *hdkey.ExtendedPublicKey) uint32 {
	if key.Depth() == 3 && key.ChildIndex() >= hdkey.HardenedKeyStart {
		return key.ChildIndex() - hdkey.HardenedKeyStart
	}
	return 0
}
