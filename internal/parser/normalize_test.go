package parser

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		desc     string
	}{
		{"Alice", "Alice", "plain name"},
		{"**Alice**", "Alice", "bold markup"},
		{"Alice#0001", "Alice", "discriminator"},
		{"Alice #1234", "Alice", "discriminator after space"},
		{"Alice#7", "Alice#7", "single digit is not a discriminator"},
		{"(S) Alice", "Alice", "leading S tag"},
		{"(S)Alice", "Alice", "leading S tag without space"},
		{"**(S) Alice**", "Alice", "S tag inside bold"},
		{"Alice (S)", "Alice (S)", "S tag only stripped at the start"},
		{"Alice (Admin Only)", "Alice", "admin only annotation"},
		{"Alice (admin ONLY)", "Alice", "admin only is case-insensitive"},
		{"  Game   Master  ", "Game Master", "whitespace collapsed"},
		{"Moderator\t|\tAlice", "Moderator | Alice", "tabs collapsed"},
		{"(S) (S) Alice", "Alice", "repeated tags"},
		{"", "", "empty"},
		{"**", "", "markup only"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	samples := []string{
		"**(S)** Alice#0001 (Admin Only)",
		"(S) **(S)** Bob",
		"Carol #12 #34",
		"  **  ** Dave  ",
		"(Admin Only)(S) Eve",
		"Frank**#99**",
	}
	for _, s := range samples {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "input %q", s)
	}

	f := func(s string) bool {
		once := Normalize(s)
		return Normalize(once) == once
	}
	assert.NoError(t, quick.Check(f, nil))
}
