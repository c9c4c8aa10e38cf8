package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// InviteCodeLength is the fixed length of a generated invite code.
const InviteCodeLength = 12

// inviteCodeAlphabet is the 62-symbol set invite codes are drawn from.
// Every symbol is URL-safe, so codes never need percent-encoding when
// carried as a query parameter.
const inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// SaltLength is the per-record salt size in bytes.
const SaltLength = 16

// Argon2id parameters for the stored invite digest. A 12-character code
// carries ~71 bits of entropy, so a memory-hard digest keeps offline
// guessing expensive if the database ever leaks.
const (
	digestIterations  = 3
	digestMemory      = 64 * 1024
	digestParallelism = 2
	digestKeyLength   = 32
)

// GenerateInviteCode creates a cryptographically secure random invite
// code of InviteCodeLength characters from inviteCodeAlphabet.
// Rejection sampling keeps the distribution uniform; there is no
// fallback to a non-cryptographic source.
func GenerateInviteCode() (string, error) {
	// 248 is the largest multiple of len(inviteCodeAlphabet) that fits
	// in a byte, so values >= 248 are rejected to avoid modulo bias.
	const limit = 248

	code := make([]byte, 0, InviteCodeLength)
	buf := make([]byte, InviteCodeLength*2)

	for len(code) < InviteCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate invite code: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			code = append(code, inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)])
			if len(code) == InviteCodeLength {
				break
			}
		}
	}

	return string(code), nil
}

// GenerateSalt returns a fresh per-record random salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// NormalizeInviteCode returns the canonical form of a candidate code.
// The alphabet is mixed-case, so canonicalisation is whitespace
// trimming only; the same form is applied at mint and validation time.
func NormalizeInviteCode(code string) string {
	return strings.TrimSpace(code)
}

// IsWellFormedInviteCode reports whether a normalized candidate has the
// exact length and charset of a generated code. Cheap pre-lookup check.
func IsWellFormedInviteCode(code string) bool {
	if len(code) != InviteCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(inviteCodeAlphabet, rune(code[i])) {
			return false
		}
	}
	return true
}

// FingerprintInviteCode returns a deterministic SHA-256 fingerprint of
// a normalized code. This is the unique lookup key in the database;
// the plaintext code is never stored.
//
// The fingerprint is returned as a base64url-encoded string (43 chars).
func FingerprintInviteCode(code string) string {
	sum := sha256.Sum256([]byte(NormalizeInviteCode(code)))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// DigestInviteCode derives the salted Argon2id digest stored alongside
// the fingerprint. Deterministic for a given code+salt pair.
func DigestInviteCode(code string, salt []byte) string {
	sum := argon2.IDKey(
		[]byte(NormalizeInviteCode(code)),
		salt,
		digestIterations,
		digestMemory,
		digestParallelism,
		digestKeyLength,
	)
	return base64.RawURLEncoding.EncodeToString(sum)
}

// VerifyInviteCode compares a candidate code against a stored salted
// digest in constant time.
func VerifyInviteCode(code string, salt []byte, digest string) bool {
	computed := DigestInviteCode(code, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
