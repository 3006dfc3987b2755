package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/musemind/musemind-server/internal/core/domain"
	"github.com/musemind/musemind-server/internal/core/ports"
)

// libraryRepoStub mimics the repository contract: idempotent newest-first
// save, no-op removes, authoritative list returned from every mutation.
type libraryRepoStub struct {
	tracks map[string][]domain.SavedTrack
	lyrics map[string][]domain.SavedLyric
}

func newLibraryRepoStub() *libraryRepoStub {
	return &libraryRepoStub{
		tracks: map[string][]domain.SavedTrack{},
		lyrics: map[string][]domain.SavedLyric{},
	}
}

func (s *libraryRepoStub) SaveTrack(ctx context.Context, userID string, t domain.SavedTrack) ([]domain.SavedTrack, error) {
	for _, existing := range s.tracks[userID] {
		if existing.ID == t.ID {
			return s.tracks[userID], nil
		}
	}
	s.tracks[userID] = append([]domain.SavedTrack{t}, s.tracks[userID]...)
	return s.tracks[userID], nil
}

func (s *libraryRepoStub) ListTracks(ctx context.Context, userID string) ([]domain.SavedTrack, error) {
	return s.tracks[userID], nil
}

func (s *libraryRepoStub) RemoveTrack(ctx context.Context, userID, trackID string) ([]domain.SavedTrack, error) {
	kept := s.tracks[userID][:0:0]
	for _, t := range s.tracks[userID] {
		if t.ID != trackID {
			kept = append(kept, t)
		}
	}
	s.tracks[userID] = kept
	return kept, nil
}

func (s *libraryRepoStub) SaveLyric(ctx context.Context, userID string, l domain.SavedLyric) ([]domain.SavedLyric, error) {
	for _, existing := range s.lyrics[userID] {
		if existing.ID == l.ID {
			return s.lyrics[userID], nil
		}
	}
	s.lyrics[userID] = append([]domain.SavedLyric{l}, s.lyrics[userID]...)
	return s.lyrics[userID], nil
}

func (s *libraryRepoStub) ListLyrics(ctx context.Context, userID string) ([]domain.SavedLyric, error) {
	return s.lyrics[userID], nil
}

func (s *libraryRepoStub) RemoveLyric(ctx context.Context, userID, lyricID string) ([]domain.SavedLyric, error) {
	kept := s.lyrics[userID][:0:0]
	for _, l := range s.lyrics[userID] {
		if l.ID != lyricID {
			kept = append(kept, l)
		}
	}
	s.lyrics[userID] = kept
	return kept, nil
}

func validTrack(id string) domain.SavedTrack {
	return domain.SavedTrack{
		ID:          id,
		Title:       "Track " + id,
		URL:         "https://assets.test/" + id + ".mp3",
		DownloadURL: "https://assets.test/dl/" + id + ".mp3",
		Duration:    30,
		DateCreated: "2026-08-30T12:00:00Z",
	}
}

func TestSaveTrackNewestFirstAndIdempotent(t *testing.T) {
	svc := NewLibraryService(newLibraryRepoStub(), &stubAssetStore{}, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.SaveTrack(ctx, "u1", validTrack("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, err := svc.SaveTrack(ctx, "u1", validTrack("b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].ID != "b" || list[1].ID != "a" {
		t.Fatalf("expected newest-first [b a], got %+v", list)
	}

	// Saving the same id again changes nothing.
	again, err := svc.SaveTrack(ctx, "u1", validTrack("b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(again) != 2 {
		t.Fatalf("duplicate save must be a no-op, got %+v", again)
	}
}

func TestSaveTrackValidation(t *testing.T) {
	svc := NewLibraryService(newLibraryRepoStub(), &stubAssetStore{}, zerolog.Nop())

	bad := validTrack("a")
	bad.Duration = 0
	if _, err := svc.SaveTrack(context.Background(), "u1", bad); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("zero duration: expected ErrInvalidRequest, got %v", err)
	}

	missing := validTrack("a")
	missing.DownloadURL = ""
	if _, err := svc.SaveTrack(context.Background(), "u1", missing); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("missing download url: expected ErrInvalidRequest, got %v", err)
	}
}

func TestRemoveTrackAbsentIDIsNoOp(t *testing.T) {
	svc := NewLibraryService(newLibraryRepoStub(), &stubAssetStore{}, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.SaveTrack(ctx, "u1", validTrack("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, err := svc.RemoveTrack(ctx, "u1", "does-not-exist")
	if err != nil {
		t.Fatalf("removing an absent id must not error: %v", err)
	}
	if len(list) != 1 || list[0].ID != "a" {
		t.Fatalf("list must be unchanged, got %+v", list)
	}
}

func TestSaveLyricUploadsTextFirst(t *testing.T) {
	store := &stubAssetStore{}
	svc := NewLibraryService(newLibraryRepoStub(), store, zerolog.Nop())

	list, err := svc.SaveLyric(context.Background(), "u1", ports.SaveLyricInput{
		ID: "l1", Title: "River Song", Content: "verse one\nverse two",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.texts) != 1 || store.texts[0] != "verse one\nverse two" {
		t.Fatalf("lyric text was not uploaded: %+v", store.texts)
	}
	if len(list) != 1 || list[0].URL == "" || list[0].DownloadURL == "" {
		t.Fatalf("expected a stored reference, got %+v", list)
	}
	if list[0].DateCreated == "" {
		t.Fatal("DateCreated must be defaulted when omitted")
	}
}

func TestSaveLyricUploadFailureSavesNothing(t *testing.T) {
	store := &stubAssetStore{err: errors.New("bucket unreachable")}
	repo := newLibraryRepoStub()
	svc := NewLibraryService(repo, store, zerolog.Nop())

	_, err := svc.SaveLyric(context.Background(), "u1", ports.SaveLyricInput{
		ID: "l1", Title: "River Song", Content: "verse",
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(repo.lyrics["u1"]) != 0 {
		t.Fatal("no reference may be saved when the upload fails")
	}
}

func TestLyricFilename(t *testing.T) {
	cases := map[string]string{
		"River Song":                 "River_Song.txt",
		"  padded  ":                 "padded.txt",
		"":                           "generated_lyrics.txt",
		strings.Repeat("a", 60):      strings.Repeat("a", 50) + ".txt",
		"multi word lyric title one": "multi_word_lyric_title_one.txt",
	}
	for in, want := range cases {
		if got := lyricFilename(in); got != want {
			t.Fatalf("lyricFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
