package ports

import (
	"context"

	"github.com/musemind/musemind-server/internal/core/domain"
)

// LibraryRepository persists the per-user saved-track and saved-lyric lists.
// Each list lives in a single document per user; entries are newest-first and
// de-duplicated by id. Every mutation returns the authoritative list.
type LibraryRepository interface {
	SaveTrack(ctx context.Context, userID string, track domain.SavedTrack) ([]domain.SavedTrack, error)
	ListTracks(ctx context.Context, userID string) ([]domain.SavedTrack, error)
	RemoveTrack(ctx context.Context, userID, trackID string) ([]domain.SavedTrack, error)

	SaveLyric(ctx context.Context, userID string, lyric domain.SavedLyric) ([]domain.SavedLyric, error)
	ListLyrics(ctx context.Context, userID string) ([]domain.SavedLyric, error)
	RemoveLyric(ctx context.Context, userID, lyricID string) ([]domain.SavedLyric, error)
}
