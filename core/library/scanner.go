package library

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"KestrelFM/config"
	"KestrelFM/logger"
	"KestrelFM/model"

	"github.com/dhowden/tag"
	"github.com/faiface/beep/mp3"
	"github.com/h2non/filetype"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const audioExt = ".mp3"

var trackNumberRe = regexp.MustCompile(`^(\d+)-`)

// Scanner builds MusicLibrary snapshots from the media tree laid out as
// <root>/singles/*.mp3 and <root>/albums/<album-name>/*.mp3.
type Scanner struct {
	singlesDir    string
	albumsDir     string
	defaultArtist string
	collator      *collate.Collator
}

// NewScanner creates a scanner for the configured media tree.
func NewScanner(cfg *config.Config) *Scanner {
	return &Scanner{
		singlesDir:    cfg.SinglesDir,
		albumsDir:     cfg.AlbumsDir,
		defaultArtist: cfg.DefaultArtist,
		collator:      collate.New(language.Und, collate.Loose),
	}
}

// Scan walks the media tree and returns a library snapshot. When filterSlug
// is non-empty the result is restricted to the track or album whose share
// slug matches; no match yields an empty library. Filesystem errors are
// logged and degrade to an empty library so the player never dies on a
// broken media tree.
func (s *Scanner) Scan(filterSlug string) *model.MusicLibrary {
	lib, err := s.scan(filterSlug)
	if err != nil {
		logger.Error("music library scan failed", logger.ErrorField(err))
		return &model.MusicLibrary{Singles: []model.Track{}, Albums: []model.Album{}}
	}
	return lib
}

func (s *Scanner) scan(filterSlug string) (*model.MusicLibrary, error) {
	lib := &model.MusicLibrary{Singles: []model.Track{}, Albums: []model.Album{}}

	singles, err := os.ReadDir(s.singlesDir)
	if err != nil {
		return nil, fmt.Errorf("reading singles directory: %w", err)
	}
	for _, entry := range singles {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), audioExt) {
			continue
		}
		track := s.buildSingle(entry.Name())
		if filterSlug == "" || filterSlug == track.ShareSlug {
			lib.Singles = append(lib.Singles, track)
		}
	}
	sort.SliceStable(lib.Singles, func(i, j int) bool {
		return s.collator.CompareString(lib.Singles[i].Title, lib.Singles[j].Title) < 0
	})

	albumDirs, err := os.ReadDir(s.albumsDir)
	if err != nil {
		return nil, fmt.Errorf("reading albums directory: %w", err)
	}
	for _, entry := range albumDirs {
		if !entry.IsDir() {
			continue
		}
		album, err := s.buildAlbum(entry.Name())
		if err != nil {
			return nil, err
		}
		// Albums with no playable tracks are dropped.
		if album == nil {
			continue
		}
		if filterSlug == "" || filterSlug == album.ShareSlug {
			lib.Albums = append(lib.Albums, *album)
		}
	}
	sort.SliceStable(lib.Albums, func(i, j int) bool {
		return s.collator.CompareString(lib.Albums[i].Name, lib.Albums[j].Name) < 0
	})

	return lib, nil
}

// buildSingle assembles a Track for one file under singles/.
func (s *Scanner) buildSingle(name string) model.Track {
	path := filepath.Join(s.singlesDir, name)
	meta := s.readTags(path)

	title := meta.title
	if title == "" {
		title = TitleFromFilename(name)
	}
	artist := meta.artist
	if artist == "" {
		artist = s.defaultArtist
	}

	return model.Track{
		ID:        name,
		Title:     title,
		Artist:    artist,
		AudioPath: path,
		ImageURI:  meta.imageURI,
		Duration:  meta.duration,
		Year:      meta.year,
		Genre:     meta.genre,
		ShareSlug: ShareSlug(title),
	}
}

// buildAlbum assembles one Album from a directory under albums/.
// Returns nil when the directory holds no playable tracks.
func (s *Scanner) buildAlbum(dirName string) (*model.Album, error) {
	albumPath := filepath.Join(s.albumsDir, dirName)
	entries, err := os.ReadDir(albumPath)
	if err != nil {
		return nil, fmt.Errorf("reading album directory %s: %w", dirName, err)
	}

	fallbackName := strings.ReplaceAll(dirName, "-", " ")
	var (
		tracks   []model.Track
		year     int
		genre    string
		imageURI string
	)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), audioExt) {
			continue
		}
		path := filepath.Join(albumPath, entry.Name())
		meta := s.readTags(path)

		// The first track carrying an image or a year supplies the
		// album-level cover and year/genre.
		if imageURI == "" && meta.imageURI != "" {
			imageURI = meta.imageURI
		}
		if year == 0 && meta.year != 0 {
			year = meta.year
			genre = meta.genre
		}

		title := meta.title
		if title == "" {
			title = TitleFromFilename(entry.Name())
		}
		artist := meta.artist
		if artist == "" {
			artist = s.defaultArtist
		}
		albumName := meta.album
		if albumName == "" {
			albumName = fallbackName
		}
		number := meta.trackNumber
		if number == 0 {
			number = TrackNumberFromFilename(entry.Name())
		}
		cover := meta.imageURI
		if cover == "" {
			cover = imageURI
		}

		tracks = append(tracks, model.Track{
			ID:          entry.Name(),
			Title:       title,
			Artist:      artist,
			Album:       albumName,
			AudioPath:   path,
			ImageURI:    cover,
			TrackNumber: number,
			Duration:    meta.duration,
			Year:        meta.year,
			Genre:       meta.genre,
			ShareSlug:   ShareSlug(title),
		})
	}

	if len(tracks) == 0 {
		return nil, nil
	}

	// Track number ascending; untagged tracks carry number 0 and sort
	// first. Stable, so rescans of the same files give identical order.
	sort.SliceStable(tracks, func(i, j int) bool {
		return tracks[i].TrackNumber < tracks[j].TrackNumber
	})

	name := tracks[0].Album
	if name == "" {
		name = fallbackName
	}

	return &model.Album{
		ID:        dirName,
		Name:      name,
		Tracks:    tracks,
		Year:      year,
		Genre:     genre,
		ImageURI:  imageURI,
		ShareSlug: ShareSlug(name),
	}, nil
}

// fileMeta holds whatever could be extracted from one file's tags.
type fileMeta struct {
	title       string
	artist      string
	album       string
	trackNumber int
	duration    string
	year        int
	genre       string
	imageURI    string
}

// readTags extracts tag metadata from one audio file. Extraction failure is
// not an error; the caller falls back to filename-derived fields.
func (s *Scanner) readTags(path string) fileMeta {
	var meta fileMeta
	meta.duration = s.probeDuration(path)

	f, err := os.Open(path)
	if err != nil {
		logger.Warn("audio file unreadable, using filename metadata",
			logger.String("path", path), logger.ErrorField(err))
		return meta
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		logger.Debug("no usable tags, using filename metadata",
			logger.String("path", path), logger.ErrorField(err))
		return meta
	}

	meta.title = m.Title()
	meta.artist = m.Artist()
	meta.album = m.Album()
	meta.trackNumber, _ = m.Track()
	meta.year = m.Year()
	meta.genre = m.Genre()
	if pic := m.Picture(); pic != nil && len(pic.Data) > 0 {
		meta.imageURI = pictureDataURI(pic)
	}
	return meta
}

// probeDuration decodes the mp3 stream header to learn the track length.
// Returns "" when the stream cannot be decoded.
func (s *Scanner) probeDuration(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return ""
	}
	defer streamer.Close()

	seconds := float64(streamer.Len()) / float64(format.SampleRate)
	return FormatDuration(seconds)
}

// pictureDataURI encodes embedded cover art as a data URI. The MIME type
// comes from the tag when present, otherwise it is sniffed from the bytes.
func pictureDataURI(pic *tag.Picture) string {
	mime := pic.MIMEType
	if mime == "" {
		if kind, err := filetype.Match(pic.Data); err == nil && kind != filetype.Unknown {
			mime = kind.MIME.Value
		}
	}
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(pic.Data)
}

// TrackNumberFromFilename reads a leading NN- prefix as the track number.
// Returns 0 when the filename carries no prefix.
func TrackNumberFromFilename(name string) int {
	m := trackNumberRe.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// TitleFromFilename derives a display title from a filename: the numeric
// prefix and the extension are stripped and hyphens become spaces.
func TitleFromFilename(name string) string {
	s := trackNumberRe.ReplaceAllString(name, "")
	s = strings.TrimSuffix(s, audioExt)
	return strings.ReplaceAll(s, "-", " ")
}

// FormatDuration renders a length in seconds as "M:SS".
func FormatDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
