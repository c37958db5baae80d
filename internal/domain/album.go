package domain

import "github.com/google/uuid"

// Album represents a release or master page of an artist.
type Album struct {
	ID          uuid.UUID `json:"album_id"`
	Name        *string   `json:"album_name"`
	ReleaseYear *string   `json:"release_year"`
	Label       *string   `json:"label"`
	Styles      []string  `json:"styles"`
	Tracks      []*Track  `json:"tracks"`
	Source      string    `json:"source_url"`
}
