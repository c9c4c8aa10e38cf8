package cryptox

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateInviteCode(t *testing.T) {
	t.Parallel()

	t.Run("has fixed length and declared alphabet", func(t *testing.T) {
		for range 100 {
			code, err := GenerateInviteCode()
			require.NoError(t, err)
			require.Len(t, code, InviteCodeLength)
			for _, r := range code {
				require.Contains(t, inviteCodeAlphabet, string(r))
			}
		}
	})

	t.Run("requires no URL encoding", func(t *testing.T) {
		code, err := GenerateInviteCode()
		require.NoError(t, err)
		require.Equal(t, code, url.QueryEscape(code))
	})

	t.Run("codes and fingerprints are unique", func(t *testing.T) {
		const n = 1000
		codes := make(map[string]struct{}, n)
		fingerprints := make(map[string]struct{}, n)

		for range n {
			code, err := GenerateInviteCode()
			require.NoError(t, err)
			codes[code] = struct{}{}
			fingerprints[FingerprintInviteCode(code)] = struct{}{}
		}

		require.Len(t, codes, n)
		require.Len(t, fingerprints, n)
	})
}

func TestGenerateSalt(t *testing.T) {
	t.Parallel()

	a, err := GenerateSalt()
	require.NoError(t, err)
	require.Len(t, a, SaltLength)

	b, err := GenerateSalt()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestNormalizeInviteCode(t *testing.T) {
	t.Parallel()

	require.Equal(t, "aB3xY9kQ2mNp", NormalizeInviteCode("  aB3xY9kQ2mNp\n"))

	// Case is significant: folding would collapse distinct codes.
	require.NotEqual(t, NormalizeInviteCode("ABCDEFGH1234"), NormalizeInviteCode("abcdefgh1234"))
}

func TestIsWellFormedInviteCode(t *testing.T) {
	t.Parallel()

	require.True(t, IsWellFormedInviteCode("aB3xY9kQ2mNp"))
	require.False(t, IsWellFormedInviteCode(""))
	require.False(t, IsWellFormedInviteCode("short"))
	require.False(t, IsWellFormedInviteCode(strings.Repeat("a", InviteCodeLength+1)))
	require.False(t, IsWellFormedInviteCode("aB3xY9kQ2mN!"))
	require.False(t, IsWellFormedInviteCode("aB3xY9kQ2mN "))
}

func TestDigestInviteCode(t *testing.T) {
	t.Parallel()

	salt, err := GenerateSalt()
	require.NoError(t, err)

	code, err := GenerateInviteCode()
	require.NoError(t, err)

	t.Run("deterministic for same code and salt", func(t *testing.T) {
		require.Equal(t, DigestInviteCode(code, salt), DigestInviteCode(code, salt))
	})

	t.Run("differs across salts", func(t *testing.T) {
		other, err := GenerateSalt()
		require.NoError(t, err)
		require.NotEqual(t, DigestInviteCode(code, salt), DigestInviteCode(code, other))
	})

	t.Run("verification round trip", func(t *testing.T) {
		digest := DigestInviteCode(code, salt)
		require.True(t, VerifyInviteCode(code, salt, digest))
		require.True(t, VerifyInviteCode("  "+code+" ", salt, digest))
	})

	t.Run("rejects a tampered code", func(t *testing.T) {
		digest := DigestInviteCode(code, salt)

		// Flip the first character to a different symbol.
		flipped := "A"
		if code[0] == 'A' {
			flipped = "B"
		}
		require.False(t, VerifyInviteCode(flipped+code[1:], salt, digest))
	})
}
