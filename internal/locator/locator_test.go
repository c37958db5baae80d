package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer("https://www.discogs.com")
	require.NoError(t, err)
	return n
}

func TestNewNormalizerRejectsRelativeBase(t *testing.T) {
	_, err := NewNormalizer("/genre/rock")
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		name     string
		href     string
		expected string
		wantErr  bool
	}{
		{
			name:     "relative path",
			href:     "/artist/1-A",
			expected: "https://www.discogs.com/artist/1-A",
		},
		{
			name:     "query stripped",
			href:     "/artist/1-A?x=1&type=Releases",
			expected: "https://www.discogs.com/artist/1-A",
		},
		{
			name:     "host canonicalized",
			href:     "http://DISCOGS.com/artist/2-B#bio",
			expected: "https://www.discogs.com/artist/2-B",
		},
		{
			name:     "default port on base host",
			href:     "http://discogs.com:443/artist/1-A",
			expected: "https://www.discogs.com/artist/1-A",
		},
		{
			name:     "http default port on base host",
			href:     "http://www.discogs.com:80/artist/1-A?x=1",
			expected: "https://www.discogs.com/artist/1-A",
		},
		{
			name:     "other port is another site",
			href:     "https://www.discogs.com:8443/artist/1-A",
			expected: "https://www.discogs.com:8443/artist/1-A",
		},
		{
			name:     "default port dropped on foreign host",
			href:     "https://Band.Example:443/home",
			expected: "https://band.example/home",
		},
		{
			name:     "foreign host kept",
			href:     "https://Band.Example/home?ref=discogs",
			expected: "https://band.example/home",
		},
		{
			name:     "surrounding whitespace",
			href:     "  /master/42-Album  ",
			expected: "https://www.discogs.com/master/42-Album",
		},
		{
			name:    "empty",
			href:    "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := n.Normalize(tt.href)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := newTestNormalizer(t)

	for _, href := range []string{
		"/artist/1-A?x=1",
		"https://discogs.com/release/7-Live?page=2",
		"https://band.example/path/?a=b#c",
		"http://discogs.com:443/artist/1",
	} {
		once, err := n.Normalize(href)
		require.NoError(t, err)
		twice, err := n.Normalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, href)
	}
}

func TestNormalizeWithPinnedPort(t *testing.T) {
	n, err := NewNormalizer("http://localhost:8080")
	require.NoError(t, err)

	same, err := n.Normalize("http://LOCALHOST:8080/artist/1-A")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/artist/1-A", same)

	other, err := n.Normalize("http://localhost/artist/1-A")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/artist/1-A", other)
}

func TestNormalizeIgnoresQueryDifferences(t *testing.T) {
	n := newTestNormalizer(t)

	plain, err := n.Normalize("/artist/1-A")
	require.NoError(t, err)
	withQuery, err := n.Normalize("/artist/1-A?x=1&y=2")
	require.NoError(t, err)
	assert.Equal(t, plain, withQuery)
}

func TestJoinAndPath(t *testing.T) {
	n := newTestNormalizer(t)
	assert.Equal(t, "https://www.discogs.com/genre/rock", n.Join("/genre/rock"))
	assert.Equal(t, "https://www.discogs.com/genre/rock", n.Join("genre/rock"))
	assert.Equal(t, "/genre/rock", Path("https://www.discogs.com/genre/rock"))
}

func TestSet(t *testing.T) {
	s := NewSet(2)

	assert.True(t, s.Add("a"))
	assert.False(t, s.Add("a"), "duplicates are rejected")
	assert.True(t, s.Add("b"))
	assert.True(t, s.Full())
	assert.False(t, s.Add("c"), "cap reached")
	assert.Equal(t, []string{"a", "b"}, s.Items())
	assert.Equal(t, 2, s.Len())
}

func TestSetUnbounded(t *testing.T) {
	s := NewSet(0)
	for _, loc := range []string{"x", "y", "x", "z"} {
		s.Add(loc)
	}
	assert.False(t, s.Full())
	assert.Equal(t, []string{"x", "y", "z"}, s.Items())
}

func TestResolveKeepsQuery(t *testing.T) {
	n := newTestNormalizer(t)

	abs, err := n.Resolve("/artist/1-A?x=1")
	require.NoError(t, err)
	assert.Equal(t, "https://www.discogs.com/artist/1-A?x=1", abs)

	ext, err := n.Resolve("https://band.example/?ref=1")
	require.NoError(t, err)
	assert.Equal(t, "https://band.example/?ref=1", ext)

	_, err = n.Resolve("")
	assert.Error(t, err)
}
