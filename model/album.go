package model

// Album represents one album directory and its ordered track list.
// An album included in a library always has at least one track.
type Album struct {
	ID        string  `json:"id"`   // Directory name
	Name      string  `json:"name"` // From the first track's album tag, else the directory name
	Tracks    []Track `json:"tracks"`
	Year      int     `json:"year,omitempty"`
	Genre     string  `json:"genre,omitempty"`
	ImageURI  string  `json:"imageUri,omitempty"` // First track's cover art
	ShareSlug string  `json:"shareSlug"`
}

// MusicLibrary is a read-only snapshot of the scanned media tree. It is
// replaced wholesale on rescan, never mutated in place.
type MusicLibrary struct {
	Singles []Track `json:"singles"` // Sorted by title, case-insensitive
	Albums  []Album `json:"albums"`  // Sorted by name, case-insensitive
}
