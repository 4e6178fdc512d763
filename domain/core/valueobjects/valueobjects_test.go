package valueobjects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.Len(t, id, IDLength)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestNewAPIKey(t *testing.T) {
	key := NewAPIKey()

	assert.True(t, strings.HasPrefix(key, "axrp_"))
	assert.Len(t, key, len("axrp_")+32)
	assert.True(t, IsAPIKey(key))
	assert.NotEqual(t, key, NewAPIKey())
}

func TestIsAPIKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"issued key", NewAPIKey(), true},
		{"missing prefix", strings.Repeat("a", 32), false},
		{"short", "axrp_1234", false},
		{"not hex", "axrp_" + strings.Repeat("z", 32), false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAPIKey(tt.input))
		})
	}
}

func TestParseVoteDirection(t *testing.T) {
	up, err := ParseVoteDirection("upvote")
	require.NoError(t, err)
	assert.Equal(t, 1, up.Int())

	down, err := ParseVoteDirection("downvote")
	require.NoError(t, err)
	assert.Equal(t, -1, down.Int())

	_, err = ParseVoteDirection("sidevote")
	assert.Error(t, err)
	assert.False(t, VoteDirection(0).IsValid())
}

func TestDrops(t *testing.T) {
	_, err := NewDrops(-1)
	assert.Error(t, err)

	d, err := NewDrops(2_500_000)
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.WholeXRP())

	zero, err := NewDrops(0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), zero.WholeXRP())

	assert.Equal(t, int64(0), Drops(999_999).WholeXRP())
}

func TestIsValidAgentName(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"alice", true},
		{"bob_42", true},
		{"ab", false},
		{"abcdefghijklmnopqrstu", false},
		{"abcdefghijklmnopqrst", true},
		{"bad-name", false},
		{"spa ce", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidAgentName(tt.input))
		})
	}
}

func TestIsValidXRPAddress(t *testing.T) {
	assert.True(t, IsValidXRPAddress("rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"))
	assert.True(t, IsValidXRPAddress("rPT1Sjq2YGrBMTttX4GZHjKu9dyfzbpAYe"))
	assert.False(t, IsValidXRPAddress("xHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"))
	assert.False(t, IsValidXRPAddress("r0b9CJAWyB4rj91VRWn96DkukG4bwdtyTh"))
	assert.False(t, IsValidXRPAddress("rshort"))
}

func TestNewPostContent(t *testing.T) {
	c, err := NewPostContent("  Hello world  ", "body", "https://example.com/x")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", c.Title())
	assert.Equal(t, "https://example.com/x", c.URL())

	_, err = NewPostContent("hi", "", "")
	assert.Error(t, err)

	_, err = NewPostContent("Valid title", "", "not a url")
	assert.Error(t, err)

	assert.Equal(t, "Hello w...", c.Summary(10))
}
