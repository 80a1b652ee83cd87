package library

import "github.com/soundcrate/soundcrate/internal/db"

// Stats summarizes a user's library.
type Stats struct {
	TotalSongs           int   `json:"total_songs"`
	UniqueArtists        int   `json:"unique_artists"`
	UniqueAlbums         int   `json:"unique_albums"`
	TotalDurationSeconds int64 `json:"total_duration_seconds"`
}

// ComputeStats derives library statistics from a set of entries. Songs
// without an album do not count toward UniqueAlbums.
func ComputeStats(entries []db.LibraryEntry) Stats {
	artists := make(map[int64]struct{})
	albums := make(map[int64]struct{})

	var stats Stats
	for _, e := range entries {
		stats.TotalSongs++
		stats.TotalDurationSeconds += int64(e.Song.DurationSeconds)
		artists[e.Song.ArtistID] = struct{}{}
		if e.Song.AlbumID != nil {
			albums[*e.Song.AlbumID] = struct{}{}
		}
	}
	stats.UniqueArtists = len(artists)
	stats.UniqueAlbums = len(albums)
	return stats
}
