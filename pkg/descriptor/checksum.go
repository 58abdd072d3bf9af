package descriptor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tdex-network/pubport/pkg/failure"
)

// https://github.com/bitcoin/bips/blob/master/bip-0380.mediawiki#checksum
const (
	inputCharset    = "0123456789()[],'/*abcdefgh@:$%{}IJKLMNOPQRSTUVWXYZ&+-.;<=>?!^_|~ijklmnopqrstuvwxyzABCDEFGH`#\"\\ "
	checksumCharset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"
	checksumLength  = 8
)

var generator = [5]uint64{
	0xf5dee51989, 0xa9fdca3312, 0x1bab10e32d, 0x3706b1677a, 0x644d626ffd,
}

var (
	// ErrInvalidCharacter ...
	ErrInvalidCharacter = errors.New("character not allowed in a descriptor")
	// ErrChecksumMismatch ...
	ErrChecksumMismatch = errors.New("descriptor checksum mismatch")
	// ErrChecksumFormat ...
	ErrChecksumFormat = errors.New("descriptor checksum must be 8 characters")
)

func polymod(c uint64, val int) uint64 {
	c0 := c >> 35
	c = ((c & 0x7ffffffff) << 5) ^ uint64(val)
	for i, g := range generator {
		if (c0>>uint(i))&1 == 1 {
			c ^= g
		}
	}
	return c
}

// Checksum computes the BIP380 checksum of a descriptor without "#".
func Checksum(desc string) (string, error) {
	c := uint64(1)
	cls, clsCount := 0, 0
	for _, ch := range desc {
		pos := strings.IndexRune(inputCharset, ch)
		if pos < 0 {
			return "", failure.Field(
				failure.MalformedInput, fmt.Sprintf("%q", ch), ErrInvalidCharacter,
			)
		}
		c = polymod(c, pos&31)
		cls = cls*3 + (pos >> 5)
		clsCount++
		if clsCount == 3 {
			c = polymod(c, cls)
			cls, clsCount = 0, 0
		}
	}
	if clsCount > 0 {
		c = polymod(c, cls)
	}
	for i := 0; i < checksumLength; i++ {
		c = polymod(c, 0)
	}
	c ^= 1

	sum := make([]byte, checksumLength)
	for i := range sum {
		sum[i] = checksumCharset[(c>>(5*(7-uint(i))))&31]
	}
	return string(sum), nil
}

// WithChecksum appends "#" and the checksum to desc, replacing an existing
// one.
func WithChecksum(desc string) (string, error) {
	body, _ := splitChecksum(desc)
	sum, err := Checksum(body)
	if err != nil {
		return "", err
	}
	return body + "#" + sum, nil
}

func mustWithChecksum(desc string) string {
	out, err := WithChecksum(desc)
	if err != nil {
		panic(err)
	}
	return out
}

// VerifyChecksum strips the checksum from desc, if any, and verifies it.
// Descriptors without checksum are returned unchanged.
func VerifyChecksum(desc string) (string, error) {
	body, sum := splitChecksum(desc)
	expected, err := Checksum(body)
	if err != nil {
		return "", err
	}
	if sum == "" {
		return body, nil
	}
	if len(sum) != checksumLength {
		return "", failure.Field(failure.MalformedInput, "checksum", ErrChecksumFormat)
	}
	if sum != expected {
		return "", failure.Field(failure.MalformedInput, "checksum", fmt.Errorf(
			"%w: got %s, expected %s", ErrChecksumMismatch, sum, expected,
		))
	}
	return body, nil
}

func splitChecksum(desc string) (string, string) {
	desc = strings.TrimSpace(desc)
	if i := strings.LastIndex(desc, "#"); i >= 0 {
		return desc[:i], desc[i+1:]
	}
	return desc, ""
}
