package domain

import "github.com/google/uuid"

// Artist is the top-level record written to the output artifact, one per line.
type Artist struct {
	ID       uuid.UUID `json:"artist_id"`
	Genre    string    `json:"genre"`
	Name     *string   `json:"artist_name"`
	Members  []string  `json:"members"`
	Websites []string  `json:"websites"`
	Albums   []*Album  `json:"albums"`
	Source   string    `json:"source_url"`
}

// TrackCount returns the number of tracks across all albums.
func (a *Artist) TrackCount() int {
	n := 0
	for _, album := range a.Albums {
		n += len(album.Tracks)
	}
	return n
}

// StringPtr returns nil for an empty string and a pointer to s otherwise.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
