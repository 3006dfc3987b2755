package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/musemind/musemind-server/internal/core/domain"
	"github.com/musemind/musemind-server/internal/core/ports"
)

// LibraryService owns the per-user saved-track and saved-lyric lists.
type LibraryService struct {
	repo  ports.LibraryRepository
	store ports.AssetStore
	log   zerolog.Logger
}

func NewLibraryService(repo ports.LibraryRepository, store ports.AssetStore, log zerolog.Logger) *LibraryService {
	return &LibraryService{repo: repo, store: store, log: log}
}

// SaveTrack appends the track newest-first; saving an id already present is a
// no-op, not an error. The authoritative list is returned either way.
func (s *LibraryService) SaveTrack(ctx context.Context, userID string, track domain.SavedTrack) ([]domain.SavedTrack, error) {
	if track.ID == "" || track.Title == "" || track.URL == "" || track.DownloadURL == "" || track.Duration <= 0 || track.DateCreated == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.repo.SaveTrack(ctx, userID, track)
}

func (s *LibraryService) ListTracks(ctx context.Context, userID string) ([]domain.SavedTrack, error) {
	return s.repo.ListTracks(ctx, userID)
}

func (s *LibraryService) RemoveTrack(ctx context.Context, userID, trackID string) ([]domain.SavedTrack, error) {
	return s.repo.RemoveTrack(ctx, userID, trackID)
}

// SaveLyric uploads the raw text to durable storage first, then appends the
// reference record, de-duplicated by the caller-supplied id.
func (s *LibraryService) SaveLyric(ctx context.Context, userID string, in ports.SaveLyricInput) ([]domain.SavedLyric, error) {
	if in.ID == "" || in.Title == "" || in.Content == "" {
		return nil, domain.ErrInvalidRequest
	}

	asset, err := s.store.StoreText(ctx, in.Content, lyricFilename(in.Title))
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("lyric upload failed")
		return nil, err
	}

	dateCreated := in.DateCreated
	if dateCreated == "" {
		dateCreated = time.Now().UTC().Format(time.RFC3339)
	}

	return s.repo.SaveLyric(ctx, userID, domain.SavedLyric{
		ID:          in.ID,
		Title:       in.Title,
		URL:         asset.URL,
		DownloadURL: asset.DownloadURL,
		DateCreated: dateCreated,
	})
}

func (s *LibraryService) ListLyrics(ctx context.Context, userID string) ([]domain.SavedLyric, error) {
	return s.repo.ListLyrics(ctx, userID)
}

func (s *LibraryService) RemoveLyric(ctx context.Context, userID, lyricID string) ([]domain.SavedLyric, error) {
	return s.repo.RemoveLyric(ctx, userID, lyricID)
}

// lyricFilename builds a safe attachment name from the lyric title.
func lyricFilename(title string) string {
	name := strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	if len(name) > 50 {
		name = name[:50]
	}
	if name == "" {
		name = "generated_lyrics"
	}
	return name + ".txt"
}
