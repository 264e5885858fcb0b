package tree

import "fmt"

// DefaultFingerprintLength is the length used for node content fingerprints.
const DefaultFingerprintLength = 12

// alphabet is the 62-symbol fingerprint alphabet.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Fingerprint derives a deterministic fixed-length string from input.
// The result has exactly length characters drawn from [0-9A-Za-z].
//
// The input seeds a 32-bit FNV-1a hash which drives a xorshift32 generator;
// symbols are drawn by rejection sampling so no symbol is favored by
// modulo bias. Same (input, length) always yields the same output.
//
// This is a structural fingerprint, not a security primitive: it is not
// collision resistant and must never be used for integrity checks.
func Fingerprint(input string, length int) (string, error) {
	if length <= 0 {
		return "", NewInvalidArgument(fmt.Sprintf("fingerprint length must be a positive integer, got %d", length))
	}

	// FNV-1a, 32-bit
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	seed := uint32(offset32)
	for i := 0; i < len(input); i++ {
		seed ^= uint32(input[i])
		seed *= prime32
	}
	// xorshift32 requires a non-zero state
	if seed == 0 {
		seed = offset32
	}

	// Rejection sampling: accept only draws below the largest multiple of
	// the alphabet size so each symbol is equally likely.
	const limit = uint32(0xFFFFFFFF - 0xFFFFFFFF%uint64(len(alphabet)))
	out := make([]byte, 0, length)
	state := seed
	for len(out) < length {
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		if state >= limit {
			continue
		}
		out = append(out, alphabet[state%uint32(len(alphabet))])
	}
	return string(out), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only where the length is a known-valid constant.
func MustFingerprint(input string, length int) string {
	fp, err := Fingerprint(input, length)
	if err != nil {
		panic(err)
	}
	return fp
}
