package domain

import (
	"errors"
	"fmt"
	"regexp"
)

var ErrInvalidChecksum = errors.New("invalid checksum")

var checksumPattern = regexp.MustCompile(`^sha256:[a-fA-F0-9]{64}$`)

// Checksum is a SHA256 digest of a model artifact,
// formed "sha256:" + 64 hexadecimal characters.
type Checksum string

// ParseChecksum validates s as a Checksum.
func ParseChecksum(s string) (Checksum, error) {
	if !checksumPattern.MatchString(s) {
		return "", fmt.Errorf(`%w: %q is not formed "sha256:" + 64 hex characters`, ErrInvalidChecksum, s)
	}
	return Checksum(s), nil
}

func (c Checksum) String() string {
	return string(c)
}
