package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/jaki95/discogs-scraper/internal/domain"
)

// WriteArtists encodes artists as JSON Lines, one record per line.
func WriteArtists(w io.Writer, artists []*domain.Artist) (int, error) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for i, artist := range artists {
		if err := enc.Encode(artist); err != nil {
			return i, fmt.Errorf("failed to encode artist %s: %w", artist.Source, err)
		}
	}
	return len(artists), nil
}

// SaveArtists replaces the artifact at path with artists. It returns the
// number of records written.
func SaveArtists(ctx context.Context, s Storage, path string, artists []*domain.Artist) (int, error) {
	w, err := s.GetWriter(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}

	n, err := WriteArtists(w, artists)
	if err != nil {
		w.Close()
		return n, err
	}
	if err := w.Close(); err != nil {
		return n, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return n, nil
}

// ArtistFile is a sink that replaces one artifact with the records of a run.
type ArtistFile struct {
	Storage Storage
	Path    string
}

func (f ArtistFile) Save(ctx context.Context, artists []*domain.Artist) (int, error) {
	if f.Storage.FileExists(ctx, f.Path) {
		slog.Info("Replacing existing output", "path", f.Path)
	}
	n, err := SaveArtists(ctx, f.Storage, f.Path, artists)
	if err != nil {
		return n, err
	}
	slog.Info("Saved artists", "count", n, "path", f.Path)
	return n, nil
}
