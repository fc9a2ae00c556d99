package domain

import (
	"encoding/hex"
	"regexp"

	"go.trai.ch/zerr"
)

// IdentitySize is the length of an invocation identity in bytes (SHA-256).
const IdentitySize = 32

// Identity is the content address of an invocation: the lowercase hex SHA-256 digest
// over the code label and the filtered input files.
type Identity string

// String returns the hex form of the identity.
func (id Identity) String() string {
	return string(id)
}

// Short returns the first twelve characters, enough to tell fixtures apart in logs.
func (id Identity) Short() string {
	if len(id) <= 12 {
		return string(id)
	}
	return string(id[:12])
}

// IdentityFromSum builds an Identity from a raw digest.
func IdentityFromSum(sum []byte) Identity {
	return Identity(hex.EncodeToString(sum))
}

// ParseIdentity validates s as a hex SHA-256 digest.
func ParseIdentity(s string) (Identity, error) {
	if len(s) != hex.EncodedLen(IdentitySize) {
		return "", zerr.With(ErrInvalidIdentity, "identity", s)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", zerr.With(ErrInvalidIdentity, "identity", s)
		}
	}
	return Identity(s), nil
}

var validLabelRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidateLabel checks that a code label can be used to name fixture directories.
func ValidateLabel(label string) error {
	if !validLabelRegex.MatchString(label) || label == "." || label == ".." {
		return zerr.With(ErrInvalidLabel, "label", label)
	}
	return nil
}
