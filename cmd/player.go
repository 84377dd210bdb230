package cmd

import (
	"KestrelFM/config"
	"KestrelFM/console"
	"KestrelFM/core/audio"
	"KestrelFM/core/library"
	"KestrelFM/core/player"
	"KestrelFM/db"
	"KestrelFM/logger"
	"KestrelFM/model"
	"KestrelFM/repository"
)

// runPlayer wires config, logging, persistence, the scanner and the store
// together and hands control to the console. When slug is non-empty the
// matching track starts playing immediately (the deep-link path); otherwise
// the persisted current track is restored, loaded but not auto-played.
func runPlayer(slug string) error {
	cfg := config.Load()
	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     14,
	})

	state := openStateStore(cfg)
	defer db.Close()

	scanner := library.NewScanner(cfg)
	lib := scanner.Scan("")
	logger.Info("music library scanned",
		logger.Int("singles", len(lib.Singles)), logger.Int("albums", len(lib.Albums)))

	out := audio.NewSpeakerOutput()
	store := player.NewStore(out, state)
	defer store.Close()

	initTrack, initAlbum := resolveInitial(lib, state, slug)
	store.UpdateLibrary(lib, initTrack, initAlbum)
	if slug != "" && initTrack != nil {
		store.PlayTrack(*initTrack, initAlbum)
	}

	if cfg.WatchLibrary {
		w, err := library.NewWatcher(cfg.MusicDir, func() {
			store.UpdateLibrary(scanner.Scan(""), nil, nil)
		})
		if err != nil {
			logger.Warn("library watcher unavailable", logger.ErrorField(err))
		} else {
			defer w.Close()
		}
	}

	return console.New(store).Run()
}

// openStateStore opens the preference database. Any failure degrades to
// in-memory defaults; preferences are never a reason not to start.
func openStateStore(cfg *config.Config) player.StateStore {
	if err := db.Connect(cfg); err != nil {
		logger.Warn("preference database unavailable, using defaults", logger.ErrorField(err))
		return nil
	}
	if err := db.InitDB(); err != nil {
		logger.Warn("preference schema init failed, using defaults", logger.ErrorField(err))
		return nil
	}
	return repository.NewPlayerStateRepository(db.DB)
}

// resolveInitial picks the track/album to seed the store with: the
// requested share slug when given, else the persisted current track.
func resolveInitial(lib *model.MusicLibrary, state player.StateStore, slug string) (*model.Track, *model.Album) {
	if slug != "" {
		track, ok := library.TrackBySlug(lib, slug)
		if !ok {
			logger.Warn("no track or album for share slug", logger.String("slug", slug))
			return nil, nil
		}
		album, _ := library.AlbumBySlug(lib, slug)
		return track, album
	}

	if state == nil {
		return nil, nil
	}
	snap, ok, err := state.Load()
	if err != nil || !ok || snap.CurrentTrackID == "" {
		return nil, nil
	}
	track, album := library.TrackByID(lib, snap.CurrentTrackID)
	if track == nil {
		return nil, nil
	}
	if album == nil && snap.CurrentAlbumID != "" {
		album, _ = library.AlbumByID(lib, snap.CurrentAlbumID)
	}
	return track, album
}
