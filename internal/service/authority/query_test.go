package authority

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestBuildURL builds the check_and_toggle query.
func TestBuildURL(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		"https://auth.example/api?mode=check_and_toggle&uid=DEADBEEF&token=RSP505",
		BuildURL("https://auth.example/api", "DEADBEEF", "RSP505"))

	require.Equal(t,
		"https://auth.example/api?site=1&mode=check_and_toggle&uid=AB&token=a%20b",
		BuildURL("https://auth.example/api?site=1", "AB", "a b"))
}

// TestEscape covers the unreserved set and uppercase hex output.
func TestEscape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "AZaz09-_.~", want: "AZaz09-_.~"},
		{in: "a b", want: "a%20b"},
		{in: "a+b&c=d", want: "a%2Bb%26c%3Dd"},
		{in: "/?#", want: "%2F%3F%23"},
		{in: "é", want: "%C3%A9"},
		{in: "\x00\xff", want: "%00%FF"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, Escape(tt.in), tt.in)
	}
}
