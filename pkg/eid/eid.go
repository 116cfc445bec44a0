// Package eid builds external identifiers: a short type prefix joined to a
// random UUID rendered in lowercase base36, e.g. "user-6dfzh5ik5uxynzmlf5cshamdk".
package eid

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	separator    = '-'
	maxPrefixLen = 16
)

var (
	ErrMalformed     = errors.New("malformed external id")
	ErrInvalidPrefix = errors.New("invalid external id prefix")
)

var prefixRE = regexp.MustCompile(`^[a-z0-9_]{1,16}$`)

// ExternalID pairs a prefix with the 16 bytes of a UUID.
type ExternalID struct {
	Prefix string
	Bytes  [16]byte
}

// New returns an ID with a fresh version 4 UUID.
func New(prefix string) ExternalID {
	return FromUUID(prefix, uuid.New())
}

// FromUUID wraps an existing UUID.
func FromUUID(prefix string, u uuid.UUID) ExternalID {
	return ExternalID{Prefix: prefix, Bytes: u}
}

// UUID returns the underlying UUID.
func (e ExternalID) UUID() uuid.UUID {
	return uuid.UUID(e.Bytes)
}

// String renders "prefix-base36".
func (e ExternalID) String() string {
	var b strings.Builder
	b.Grow(len(e.Prefix) + 1 + 25)
	b.WriteString(e.Prefix)
	b.WriteByte(separator)
	b.WriteString(encode36(e.Bytes[:]))
	return b.String()
}

// IsZero reports whether e is the zero value.
func (e ExternalID) IsZero() bool {
	return e.Prefix == "" && e.Bytes == [16]byte{}
}

func (e ExternalID) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *ExternalID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Parse reverses String. The prefix is everything before the last '-'.
func Parse(s string) (ExternalID, error) {
	i := strings.LastIndexByte(s, separator)
	if i <= 0 || i == len(s)-1 {
		return ExternalID{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	raw, err := decode36(s[i+1:])
	if err != nil {
		return ExternalID{}, fmt.Errorf("%w: %q: %v", ErrMalformed, s, err)
	}
	return ExternalID{Prefix: s[:i], Bytes: raw}, nil
}

// ValidatePrefix accepts 1-16 characters of [a-z0-9_]. The service layer
// applies it to client supplied prefixes; New itself accepts anything.
func ValidatePrefix(prefix string) error {
	if !prefixRE.MatchString(prefix) {
		return fmt.Errorf("%w: %q must be 1-%d characters of a-z, 0-9 or '_'", ErrInvalidPrefix, prefix, maxPrefixLen)
	}
	return nil
}

// encode36 treats b as a big-endian number. Each leading zero byte is
// written as a single '0' so the byte length survives a round trip.
func encode36(b []byte) string {
	zeros := 0
	for zeros < len(b) && b[zeros] == 0 {
		zeros++
	}
	if zeros == len(b) {
		return strings.Repeat("0", zeros)
	}
	var n big.Int
	n.SetBytes(b[zeros:])
	return strings.Repeat("0", zeros) + n.Text(36)
}

func decode36(s string) ([16]byte, error) {
	var out [16]byte
	zeros := 0
	for zeros < len(s) && s[zeros] == '0' {
		zeros++
	}
	rest := s[zeros:]
	if rest == "" {
		if zeros != len(out) {
			return out, errors.New("wrong length")
		}
		return out, nil
	}
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'z') {
			return out, fmt.Errorf("invalid digit %q", c)
		}
	}
	n, ok := new(big.Int).SetString(rest, 36)
	if !ok {
		return out, errors.New("not base36")
	}
	digits := n.Bytes()
	if zeros+len(digits) != len(out) {
		return out, errors.New("wrong length")
	}
	copy(out[zeros:], digits)
	return out, nil
}
