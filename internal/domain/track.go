package domain

// Track represents one row of an album's tracklist.
type Track struct {
	Number   int     `json:"track_number"`
	Name     string  `json:"track_name"`
	Duration *string `json:"duration"`
}
