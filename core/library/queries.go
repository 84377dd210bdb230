package library

import (
	"KestrelFM/model"
)

// TrackBySlug finds the track behind a share slug: singles first, then
// whole-album slugs (resolving to the album's first track), then tracks
// inside albums. First match wins when slugs collide.
func TrackBySlug(lib *model.MusicLibrary, slug string) (*model.Track, bool) {
	for i := range lib.Singles {
		if lib.Singles[i].ShareSlug == slug {
			return &lib.Singles[i], true
		}
	}
	for i := range lib.Albums {
		album := &lib.Albums[i]
		if album.ShareSlug == slug && len(album.Tracks) > 0 {
			return &album.Tracks[0], true
		}
		for j := range album.Tracks {
			if album.Tracks[j].ShareSlug == slug {
				return &album.Tracks[j], true
			}
		}
	}
	return nil, false
}

// AlbumBySlug finds the album behind a share slug, either directly or as the
// album containing a track with that slug.
func AlbumBySlug(lib *model.MusicLibrary, slug string) (*model.Album, bool) {
	for i := range lib.Albums {
		if lib.Albums[i].ShareSlug == slug {
			return &lib.Albums[i], true
		}
	}
	for i := range lib.Albums {
		for j := range lib.Albums[i].Tracks {
			if lib.Albums[i].Tracks[j].ShareSlug == slug {
				return &lib.Albums[i], true
			}
		}
	}
	return nil, false
}

// TrackByID resolves a track id to the track and, when the track lives in an
// album, its album context. Used to restore the persisted current track.
func TrackByID(lib *model.MusicLibrary, id string) (*model.Track, *model.Album) {
	for i := range lib.Singles {
		if lib.Singles[i].ID == id {
			return &lib.Singles[i], nil
		}
	}
	for i := range lib.Albums {
		for j := range lib.Albums[i].Tracks {
			if lib.Albums[i].Tracks[j].ID == id {
				return &lib.Albums[i].Tracks[j], &lib.Albums[i]
			}
		}
	}
	return nil, nil
}

// AlbumByID finds an album by its directory-name id.
func AlbumByID(lib *model.MusicLibrary, id string) (*model.Album, bool) {
	for i := range lib.Albums {
		if lib.Albums[i].ID == id {
			return &lib.Albums[i], true
		}
	}
	return nil, false
}
