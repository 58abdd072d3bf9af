package hdkey

// KeyOrigin locates a key relative to its master seed. Fingerprint is nil
// when the master fingerprint is unknown.
type KeyOrigin struct {
	Fingerprint *Fingerprint
	Path        DerivationPath
}

// NewKeyOrigin returns an origin for the given fingerprint and path. A zero
// fingerprint is treated as unknown.
func NewKeyOrigin(fp *Fingerprint, path DerivationPath) *KeyOrigin {
	if fp != nil && fp.IsZero() {
		fp = nil
	}
	return &KeyOrigin{Fingerprint: fp, Path: path}
}

// HasFingerprint ...
func (o *KeyOrigin) HasFingerprint() bool {
	return o != nil && o.Fingerprint != nil
}

// String renders the origin as a BIP380 key origin block. An unknown
// fingerprint is rendered as 00000000.
func (o *KeyOrigin) String() string {
	if o == nil {
		return ""
	}
	fp := Fingerprint{}
	if o.Fingerprint != nil {
		fp = *o.Fingerprint
	}
	if len(o.Path) == 0 {
		return "[" + fp.String() + "]"
	}
	return "[" + fp.String() + "/" + o.Path.String() + "]"
}

// Equal reports whether both origins carry the same fingerprint and path.
func (o *KeyOrigin) Equal(other *KeyOrigin) bool {
	if o == nil || other == nil {
		return o == nil && other == nil
	}
	if o.HasFingerprint() != other.HasFingerprint() {
		return false
	}
	if o.HasFingerprint() && *o.Fingerprint != *other.Fingerprint {
		return false
	}
	return o.Path.Equal(other.Path)
}
