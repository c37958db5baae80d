package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaki95/discogs-scraper/internal/domain"
)

func testArtists() []*domain.Artist {
	year := "1970"
	return []*domain.Artist{
		{
			Genre:    "Rock",
			Name:     domain.StringPtr("Black Sabbath"),
			Members:  []string{"Ozzy Osbourne"},
			Websites: []string{},
			Albums: []*domain.Album{{
				Name:        domain.StringPtr("Paranoid"),
				ReleaseYear: &year,
				Styles:      []string{"Heavy Metal"},
				Tracks:      []*domain.Track{{Number: 1, Name: "War Pigs", Duration: domain.StringPtr("7:57")}},
				Source:      "https://www.discogs.com/master/1",
			}},
			Source: "https://www.discogs.com/artist/1",
		},
		{
			Genre:    "Rock",
			Members:  []string{},
			Websites: []string{"https://example.com/?a=1&b=2"},
			Albums:   []*domain.Album{},
			Source:   "https://www.discogs.com/artist/2",
		},
	}
}

func TestLocalFileStorage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewLocalFileStorage(dir)

	assert.False(t, s.FileExists(ctx, "rock_genre/out.jsonl"))

	w, err := s.GetWriter(ctx, "rock_genre/out.jsonl")
	require.NoError(t, err)
	_, err = io.WriteString(w, "first run\nwith two lines\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.True(t, s.FileExists(ctx, "rock_genre/out.jsonl"))

	w, err = s.GetWriter(ctx, "rock_genre/out.jsonl")
	require.NoError(t, err)
	_, err = io.WriteString(w, "second run\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(filepath.Join(dir, "rock_genre", "out.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, "second run\n", string(data))
	assert.NoError(t, s.Close())
}

func TestLocalFileStorageAbsolutePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "nested", "out.jsonl")
	s := NewLocalFileStorage("/does/not/matter")

	w, err := s.GetWriter(context.Background(), abs)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.FileExists(t, abs)
}

func TestSaveArtists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewLocalFileStorage(dir)

	n, err := SaveArtists(ctx, s, "out.jsonl", testArtists())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := os.Open(filepath.Join(dir, "out.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 2)

	assert.Equal(t, "Black Sabbath", lines[0]["artist_name"])
	albums := lines[0]["albums"].([]any)
	require.Len(t, albums, 1)
	album := albums[0].(map[string]any)
	assert.Equal(t, "1970", album["release_year"])
	assert.Nil(t, album["label"])
	tracks := album["tracks"].([]any)
	assert.Equal(t, "War Pigs", tracks[0].(map[string]any)["track_name"])

	assert.Nil(t, lines[1]["artist_name"])
	assert.Equal(t, []any{}, lines[1]["albums"])
}

func TestWriteArtistsDoesNotEscapeHTML(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteArtists(&buf, testArtists()[1:])
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, buf.String(), "https://example.com/?a=1&b=2")
	assert.True(t, strings.HasSuffix(buf.String(), "}\n"))
}

func TestWriteArtistsEmpty(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteArtists(&buf, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, buf.String())
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		location string
		want     Target
		wantErr  bool
	}{
		{location: "rock_genre/discogs_data.jsonl", want: Target{Key: "rock_genre/discogs_data.jsonl"}},
		{location: "/tmp/out.jsonl", want: Target{Key: "/tmp/out.jsonl"}},
		{location: "gs://scrapes/rock/out.jsonl", want: Target{Scheme: "gs", Bucket: "scrapes", Key: "rock/out.jsonl"}},
		{location: "s3://scrapes/out.jsonl", want: Target{Scheme: "s3", Bucket: "scrapes", Key: "out.jsonl"}},
		{location: "s3://scrapes", wantErr: true},
		{location: "s3:///out.jsonl", wantErr: true},
		{location: "ftp://host/out.jsonl", wantErr: true},
		{location: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			got, err := ParseTarget(tt.location)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.location, got.String())
		})
	}
}

func TestOpenLocal(t *testing.T) {
	s, err := Open(context.Background(), Target{Key: "out.jsonl"}, Options{})
	require.NoError(t, err)
	assert.IsType(t, &LocalFileStorage{}, s)
}

func TestOpenMinIORequiresEndpoint(t *testing.T) {
	_, err := Open(context.Background(), Target{Scheme: "s3", Bucket: "b", Key: "k"}, Options{})
	assert.Error(t, err)
}

func TestObjectWriterWaitsForUpload(t *testing.T) {
	pr, pw := io.Pipe()
	w := &objectWriter{pw: pw, done: make(chan error, 1)}

	var uploaded bytes.Buffer
	go func() {
		_, err := io.Copy(&uploaded, pr)
		w.done <- err
	}()

	_, err := io.WriteString(w, "line\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "line\n", uploaded.String())
}

func TestObjectWriterReportsUploadFailure(t *testing.T) {
	pr, pw := io.Pipe()
	w := &objectWriter{pw: pw, done: make(chan error, 1)}

	go func() {
		_, _ = io.Copy(io.Discard, pr)
		w.done <- errors.New("access denied")
	}()

	err := w.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/x-ndjson", contentTypeFor("a/b.jsonl"))
	assert.Equal(t, "application/json", contentTypeFor("b.json"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("b"))
}

func TestArtistFileReplacesOutput(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	sink := ArtistFile{Storage: NewLocalFileStorage(dir), Path: "out.jsonl"}

	n, err := sink.Save(ctx, testArtists())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = sink.Save(ctx, testArtists()[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(filepath.Join(dir, "out.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"))
}
