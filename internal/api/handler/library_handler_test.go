package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/musemind/musemind-server/internal/api/handler"
	"github.com/musemind/musemind-server/internal/core/domain"
	"github.com/musemind/musemind-server/internal/core/ports"
)

type libraryServiceStub struct {
	tracks     []domain.SavedTrack
	lyrics     []domain.SavedLyric
	savedLyric *ports.SaveLyricInput
	err        error
}

func (s *libraryServiceStub) SaveTrack(ctx context.Context, userID string, t domain.SavedTrack) ([]domain.SavedTrack, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.tracks = append([]domain.SavedTrack{t}, s.tracks...)
	return s.tracks, nil
}

func (s *libraryServiceStub) ListTracks(ctx context.Context, userID string) ([]domain.SavedTrack, error) {
	return s.tracks, s.err
}

func (s *libraryServiceStub) RemoveTrack(ctx context.Context, userID, trackID string) ([]domain.SavedTrack, error) {
	kept := s.tracks[:0:0]
	for _, t := range s.tracks {
		if t.ID != trackID {
			kept = append(kept, t)
		}
	}
	s.tracks = kept
	return kept, s.err
}

func (s *libraryServiceStub) SaveLyric(ctx context.Context, userID string, in ports.SaveLyricInput) ([]domain.SavedLyric, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.savedLyric = &in
	s.lyrics = append([]domain.SavedLyric{{ID: in.ID, Title: in.Title}}, s.lyrics...)
	return s.lyrics, nil
}

func (s *libraryServiceStub) ListLyrics(ctx context.Context, userID string) ([]domain.SavedLyric, error) {
	return s.lyrics, s.err
}

func (s *libraryServiceStub) RemoveLyric(ctx context.Context, userID, lyricID string) ([]domain.SavedLyric, error) {
	kept := s.lyrics[:0:0]
	for _, l := range s.lyrics {
		if l.ID != lyricID {
			kept = append(kept, l)
		}
	}
	s.lyrics = kept
	return kept, s.err
}

var _ ports.LibraryService = (*libraryServiceStub)(nil)

const validTrackBody = `{
	"id": "t1",
	"title": "Morning Rain",
	"url": "https://assets.test/t1.mp3",
	"downloadUrl": "https://assets.test/dl/t1.mp3",
	"duration": 30.5,
	"dateCreated": "2026-08-30T12:00:00Z"
}`

func TestSaveTrackReturnsAuthoritativeList(t *testing.T) {
	svc := &libraryServiceStub{}
	h := handler.NewLibraryHandler(svc)
	c, rec, e := newTestContext(t, http.MethodPost, "/savedTracks", validTrackBody, "u1")

	invoke(c, e, h.SaveTrack)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	tracks, _ := body["tracks"].([]any)
	if len(tracks) != 1 {
		t.Fatalf("expected the authoritative list, got %v", body)
	}
}

func TestSaveTrackRejectsNonPositiveDuration(t *testing.T) {
	h := handler.NewLibraryHandler(&libraryServiceStub{})
	c, rec, e := newTestContext(t, http.MethodPost, "/savedTracks",
		`{"id":"t1","title":"x","url":"u","downloadUrl":"d","duration":0,"dateCreated":"now"}`, "u1")

	invoke(c, e, h.SaveTrack)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSaveTrackRequiresSession(t *testing.T) {
	h := handler.NewLibraryHandler(&libraryServiceStub{})
	c, rec, e := newTestContext(t, http.MethodPost, "/savedTracks", validTrackBody, "")

	invoke(c, e, h.SaveTrack)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRemoveTrackByPathParam(t *testing.T) {
	svc := &libraryServiceStub{tracks: []domain.SavedTrack{{ID: "t1"}, {ID: "t2"}}}
	h := handler.NewLibraryHandler(svc)
	c, rec, e := newTestContext(t, http.MethodDelete, "/savedTracks/t1", "", "u1")
	c.SetParamNames("id")
	c.SetParamValues("t1")

	invoke(c, e, h.RemoveTrack)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	tracks, _ := body["tracks"].([]any)
	if len(tracks) != 1 {
		t.Fatalf("expected one remaining track, got %v", body)
	}
}

func TestSaveLyricPassesContentThrough(t *testing.T) {
	svc := &libraryServiceStub{}
	h := handler.NewLibraryHandler(svc)
	c, rec, e := newTestContext(t, http.MethodPost, "/lyrics",
		`{"id":"l1","title":"River Song","content":"verse one"}`, "u1")

	invoke(c, e, h.SaveLyric)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.savedLyric == nil || svc.savedLyric.Content != "verse one" {
		t.Fatalf("lyric content not passed through: %+v", svc.savedLyric)
	}
}

func TestSaveLyricRequiresContent(t *testing.T) {
	h := handler.NewLibraryHandler(&libraryServiceStub{})
	c, rec, e := newTestContext(t, http.MethodPost, "/lyrics",
		`{"id":"l1","title":"River Song"}`, "u1")

	invoke(c, e, h.SaveLyric)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListLyricsReturnsList(t *testing.T) {
	svc := &libraryServiceStub{lyrics: []domain.SavedLyric{{ID: "l1", Title: "River Song"}}}
	h := handler.NewLibraryHandler(svc)
	c, rec, e := newTestContext(t, http.MethodGet, "/lyrics", "", "u1")

	invoke(c, e, h.ListLyrics)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	lyrics, _ := body["lyrics"].([]any)
	if len(lyrics) != 1 {
		t.Fatalf("unexpected body: %v", body)
	}
}
