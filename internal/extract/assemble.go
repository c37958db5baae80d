package extract

import (
	"github.com/google/uuid"

	"github.com/jaki95/discogs-scraper/internal/domain"
)

// Assembler turns extracted fields into records and stamps their identity.
type Assembler struct {
	newID func() uuid.UUID
}

func NewAssembler() *Assembler {
	return &Assembler{newID: uuid.New}
}

// Album composes an album record. Missing scalar fields become null and
// missing collections become empty.
func (a *Assembler) Album(source string, f AlbumFields) *domain.Album {
	return &domain.Album{
		ID:          a.newID(),
		Name:        optional(f.Name),
		ReleaseYear: optional(f.ReleaseYear),
		Label:       optional(f.Label),
		Styles:      nonNil(f.Styles.Value),
		Tracks:      nonNil(f.Tracks.Value),
		Source:      source,
	}
}

// Artist composes an artist record around already assembled albums.
func (a *Assembler) Artist(source, genre string, f ArtistFields, albums []*domain.Album) *domain.Artist {
	return &domain.Artist{
		ID:       a.newID(),
		Genre:    genre,
		Name:     optional(f.Name),
		Members:  nonNil(f.Members.Value),
		Websites: nonNil(f.Websites.Value),
		Albums:   nonNil(albums),
		Source:   source,
	}
}

func optional(f Field[string]) *string {
	if !f.Found {
		return nil
	}
	return domain.StringPtr(f.Value)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
