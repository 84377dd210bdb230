package model

// Track represents an audio track in the music library. Tracks are built
// once by the library scanner and never mutated afterwards.
type Track struct {
	ID          string `json:"id"`                    // File name; stable across rescans
	Title       string `json:"title"`                 // Tag title or filename-derived
	Artist      string `json:"artist"`                // Tag artist or the configured default
	Album       string `json:"album,omitempty"`       // Album display name; empty for singles
	AudioPath   string `json:"audioPath"`             // Path to the audio file on disk
	ImageURI    string `json:"imageUri,omitempty"`    // Embedded cover art as a data URI
	TrackNumber int    `json:"trackNumber,omitempty"` // From tags or a leading NN- filename prefix
	Duration    string `json:"duration,omitempty"`    // Formatted "M:SS"
	Year        int    `json:"year,omitempty"`
	Genre       string `json:"genre,omitempty"`
	ShareSlug   string `json:"shareSlug"` // Normalized title for deep links
}
