package verification_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/jrsteele09/go-account-service/verification"
	"github.com/stretchr/testify/require"
)

var tokenPattern = regexp.MustCompile(`^[0-9a-f]{64}-\d+$`)

func TestNewToken(t *testing.T) {
	now := time.Unix(1700000000, 0)
	first, err := verification.NewToken(now)
	require.NoError(t, err)
	second, err := verification.NewToken(now)
	require.NoError(t, err)

	require.Regexp(t, tokenPattern, first)
	require.NotEqual(t, first, second)

	issued, ok := verification.IssuedAt(first)
	require.True(t, ok)
	require.True(t, now.Equal(issued))
}

func TestExpired(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tok, err := verification.NewToken(now)
	require.NoError(t, err)

	require.False(t, verification.Expired(tok, 0, now.Add(1000*time.Hour)))
	require.False(t, verification.Expired(tok, 24*time.Hour, now.Add(23*time.Hour)))
	require.True(t, verification.Expired(tok, 24*time.Hour, now.Add(25*time.Hour)))
	require.True(t, verification.Expired("no-timestamp", time.Hour, now))
}

func TestLink(t *testing.T) {
	require.Equal(t, "https://accounts.example.com/users/verify/abc-1", verification.Link("https://accounts.example.com/", "abc-1"))
}

func TestNewMessageEscapesName(t *testing.T) {
	msg, err := verification.NewMessage("Accounts", "<b>Ann</b>", "ann@example.com", "https://x/users/verify/t")
	require.NoError(t, err)

	require.Equal(t, "ann@example.com", msg.To)
	require.Contains(t, msg.Text, "https://x/users/verify/t")
	require.Contains(t, msg.HTML, `href="https://x/users/verify/t"`)
	require.NotContains(t, msg.HTML, "<b>Ann</b>")
}
