package library

import (
	"os"
	"path/filepath"
	"testing"

	"KestrelFM/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig builds a Config over a temp media tree. The files written here
// are not real mp3 streams, so tag extraction fails and the scanner takes
// the filename-fallback path, which is exactly what these tests exercise.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	return &config.Config{
		MusicDir:      root,
		SinglesDir:    filepath.Join(root, "singles"),
		AlbumsDir:     filepath.Join(root, "albums"),
		DefaultArtist: "Rose Kestrelle",
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("not a real mp3"), 0644))
}

func TestScanDerivesTitlesFromFilenames(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, filepath.Join(cfg.SinglesDir, "03-neon-rain.mp3"))
	writeFile(t, filepath.Join(cfg.SinglesDir, "quiet-morning.mp3"))
	require.NoError(t, os.MkdirAll(cfg.AlbumsDir, 0755))

	lib := NewScanner(cfg).Scan("")

	require.Len(t, lib.Singles, 2)
	// Sorted by title, case-insensitive.
	assert.Equal(t, "neon rain", lib.Singles[0].Title)
	assert.Equal(t, "quiet morning", lib.Singles[1].Title)
	for _, track := range lib.Singles {
		assert.Equal(t, "Rose Kestrelle", track.Artist)
		assert.Empty(t, track.Album)
	}
	assert.Equal(t, "neon-rain", lib.Singles[0].ShareSlug)
	assert.Equal(t, "03-neon-rain.mp3", lib.Singles[0].ID)
}

func TestScanOrdersAlbumTracksByNumberUntaggedFirst(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.SinglesDir, 0755))
	albumDir := filepath.Join(cfg.AlbumsDir, "Night-Drive")
	writeFile(t, filepath.Join(albumDir, "Intro.mp3"))
	writeFile(t, filepath.Join(albumDir, "2-Drive.mp3"))
	writeFile(t, filepath.Join(albumDir, "1-Start.mp3"))

	lib := NewScanner(cfg).Scan("")

	require.Len(t, lib.Albums, 1)
	album := lib.Albums[0]
	assert.Equal(t, "Night-Drive", album.ID)
	assert.Equal(t, "Night Drive", album.Name)
	assert.Equal(t, "night-drive", album.ShareSlug)

	require.Len(t, album.Tracks, 3)
	assert.Equal(t, "Intro", album.Tracks[0].Title, "untagged track sorts first as number 0")
	assert.Equal(t, "Start", album.Tracks[1].Title)
	assert.Equal(t, "Drive", album.Tracks[2].Title)
	assert.Equal(t, 0, album.Tracks[0].TrackNumber)
	assert.Equal(t, 1, album.Tracks[1].TrackNumber)
	assert.Equal(t, 2, album.Tracks[2].TrackNumber)
	assert.Equal(t, "Night Drive", album.Tracks[1].Album)
}

func TestScanIsStableAcrossRescans(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.SinglesDir, 0755))
	albumDir := filepath.Join(cfg.AlbumsDir, "Night-Drive")
	writeFile(t, filepath.Join(albumDir, "Intro.mp3"))
	writeFile(t, filepath.Join(albumDir, "2-Drive.mp3"))
	writeFile(t, filepath.Join(albumDir, "1-Start.mp3"))

	scanner := NewScanner(cfg)
	first := scanner.Scan("")
	second := scanner.Scan("")
	assert.Equal(t, first, second)
}

func TestScanDropsAlbumsWithoutPlayableTracks(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.SinglesDir, 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.AlbumsDir, "Empty-Album"), 0755))
	writeFile(t, filepath.Join(cfg.AlbumsDir, "Notes", "liner-notes.txt"))

	lib := NewScanner(cfg).Scan("")
	assert.Empty(t, lib.Albums)
}

func TestScanMissingDirectoryYieldsEmptyLibrary(t *testing.T) {
	cfg := testConfig(t)
	// Neither singles/ nor albums/ exists.
	lib := NewScanner(cfg).Scan("")

	require.NotNil(t, lib)
	assert.Empty(t, lib.Singles)
	assert.Empty(t, lib.Albums)
}

func TestScanFilterSlugRestrictsLibrary(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, filepath.Join(cfg.SinglesDir, "neon-rain.mp3"))
	writeFile(t, filepath.Join(cfg.SinglesDir, "quiet-morning.mp3"))
	albumDir := filepath.Join(cfg.AlbumsDir, "Night-Drive")
	writeFile(t, filepath.Join(albumDir, "1-Start.mp3"))

	scanner := NewScanner(cfg)

	got := scanner.Scan("neon-rain")
	require.Len(t, got.Singles, 1)
	assert.Equal(t, "neon rain", got.Singles[0].Title)
	assert.Empty(t, got.Albums)

	got = scanner.Scan("night-drive")
	assert.Empty(t, got.Singles)
	require.Len(t, got.Albums, 1)
	assert.Equal(t, "Night Drive", got.Albums[0].Name)

	got = scanner.Scan("no-such-slug")
	assert.Empty(t, got.Singles)
	assert.Empty(t, got.Albums)
}

func TestTrackNumberFromFilename(t *testing.T) {
	assert.Equal(t, 7, TrackNumberFromFilename("07-closer.mp3"))
	assert.Equal(t, 12, TrackNumberFromFilename("12-falling.mp3"))
	assert.Equal(t, 0, TrackNumberFromFilename("closer.mp3"))
	assert.Equal(t, 0, TrackNumberFromFilename("closer-07.mp3"))
}

func TestTitleFromFilename(t *testing.T) {
	assert.Equal(t, "neon rain", TitleFromFilename("03-neon-rain.mp3"))
	assert.Equal(t, "quiet morning", TitleFromFilename("quiet-morning.mp3"))
	assert.Equal(t, "Intro", TitleFromFilename("Intro.mp3"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", FormatDuration(0))
	assert.Equal(t, "0:59", FormatDuration(59.9))
	assert.Equal(t, "3:05", FormatDuration(185.2))
	assert.Equal(t, "12:00", FormatDuration(720))
}
