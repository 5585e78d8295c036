package cryptox_test

import (
	"testing"

	"github.com/crewdesk/crewdesk/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-positive sizes", func(t *testing.T) {
		for _, size := range []int{0, -1} {
			_, err := cryptox.GenerateToken(size)
			require.Error(t, err)
		}
	})

	t.Run("tokens are unique and url safe", func(t *testing.T) {
		seen := make(map[string]struct{}, 100)
		for range 100 {
			tok, err := cryptox.GenerateToken(cryptox.TokenSize256)
			require.NoError(t, err)
			require.Len(t, tok, 43) // 32 bytes base64url, no padding
			require.NotContains(t, tok, "+")
			require.NotContains(t, tok, "/")
			require.NotContains(t, tok, "=")
			_, dup := seen[tok]
			require.False(t, dup)
			seen[tok] = struct{}{}
		}
	})
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	a := cryptox.FingerprintToken("token-a")
	require.Equal(t, a, cryptox.FingerprintToken("token-a"))
	require.NotEqual(t, a, cryptox.FingerprintToken("token-b"))
	require.Len(t, a, 43)
}
