package ports

import (
	"context"

	"github.com/musemind/musemind-server/internal/core/domain"
)

// SaveLyricInput carries the raw lyric text; the service uploads it to
// durable storage before appending the reference record.
type SaveLyricInput struct {
	ID          string
	Title       string
	Content     string
	DateCreated string
}

// LibraryService owns the saved-asset registry operations.
type LibraryService interface {
	SaveTrack(ctx context.Context, userID string, track domain.SavedTrack) ([]domain.SavedTrack, error)
	ListTracks(ctx context.Context, userID string) ([]domain.SavedTrack, error)
	RemoveTrack(ctx context.Context, userID, trackID string) ([]domain.SavedTrack, error)

	SaveLyric(ctx context.Context, userID string, in SaveLyricInput) ([]domain.SavedLyric, error)
	ListLyrics(ctx context.Context, userID string) ([]domain.SavedLyric, error)
	RemoveLyric(ctx context.Context, userID, lyricID string) ([]domain.SavedLyric, error)
}
