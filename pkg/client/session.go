package client

import (
	"context"
	"slices"
)

// Session binds a Client to an encrypted profile store and the optimistic
// list mirrors. It is what an interactive frontend holds for the lifetime of
// a login.
type Session struct {
	api    *Client
	store  *SecureStore
	user   *User
	tracks Mirror[Track]
	lyrics Mirror[Lyric]
}

// NewSession wires a client and a store. No network call is made; call Login,
// Signup or Resume to populate the session.
func NewSession(api *Client, store *SecureStore) *Session {
	return &Session{api: api, store: store}
}

// User returns the cached profile, or nil before login.
func (s *Session) User() *User {
	return s.user
}

// Tracks returns the cached saved-track list.
func (s *Session) Tracks() []Track { return s.tracks.Items() }

// Lyrics returns the cached saved-lyric list.
func (s *Session) Lyrics() []Lyric { return s.lyrics.Items() }

// Login authenticates, persists the profile, and refreshes both lists. A
// different user than the one previously cached gets fresh lists, never the
// old user's leftovers.
func (s *Session) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return u, s.adopt(ctx, u)
}

// Signup registers, persists the profile, and starts with empty lists.
func (s *Session) Signup(ctx context.Context, username, email, password string) (*User, error) {
	u, err := s.api.Signup(ctx, username, email, password)
	if err != nil {
		return nil, err
	}
	return u, s.adopt(ctx, u)
}

// Resume restores the profile from the encrypted store without a network
// call. The session cookie is not restored, so API calls still require a
// fresh Login; Resume only serves offline display of the last known profile.
func (s *Session) Resume() (*User, error) {
	u, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	s.user = u
	return u, nil
}

// Logout expires the server session and wipes local state, stored profile
// included.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		return err
	}
	s.user = nil
	s.tracks.Reset(nil)
	s.lyrics.Reset(nil)
	return s.store.Clear()
}

func (s *Session) adopt(ctx context.Context, u *User) error {
	identityChanged := s.user == nil || s.user.ID != u.ID
	s.user = u
	if err := s.store.Save(u); err != nil {
		return err
	}
	if identityChanged {
		s.tracks.Reset(nil)
		s.lyrics.Reset(nil)
	}
	return s.Refresh(ctx)
}

// Refresh replaces both mirrors with the server's authoritative lists.
func (s *Session) Refresh(ctx context.Context) error {
	tracks, err := s.api.ListTracks(ctx)
	if err != nil {
		return err
	}
	lyrics, err := s.api.ListLyrics(ctx)
	if err != nil {
		return err
	}
	s.tracks.Reset(tracks)
	s.lyrics.Reset(lyrics)
	return nil
}

// SaveTrack prepends the track locally, then confirms against the server,
// rolling back on failure.
func (s *Session) SaveTrack(ctx context.Context, t Track) ([]Track, error) {
	return s.tracks.Apply(
		func(items []Track) []Track {
			for _, existing := range items {
				if existing.ID == t.ID {
					return items
				}
			}
			return append([]Track{t}, items...)
		},
		func() ([]Track, error) { return s.api.SaveTrack(ctx, t) },
	)
}

// RemoveTrack drops the track locally, then confirms against the server,
// rolling back on failure.
func (s *Session) RemoveTrack(ctx context.Context, id string) ([]Track, error) {
	return s.tracks.Apply(
		func(items []Track) []Track {
			return slices.DeleteFunc(items, func(t Track) bool { return t.ID == id })
		},
		func() ([]Track, error) { return s.api.RemoveTrack(ctx, id) },
	)
}

// SaveLyric uploads the lyric text, then confirms the mirror against the
// server's list. The local insert carries no URL yet; the confirmed list
// replaces it with the stored asset's location.
func (s *Session) SaveLyric(ctx context.Context, id, title, content, dateCreated string) ([]Lyric, error) {
	return s.lyrics.Apply(
		func(items []Lyric) []Lyric {
			for _, existing := range items {
				if existing.ID == id {
					return items
				}
			}
			return append([]Lyric{{ID: id, Title: title, DateCreated: dateCreated}}, items...)
		},
		func() ([]Lyric, error) { return s.api.SaveLyric(ctx, id, title, content, dateCreated) },
	)
}

// RemoveLyric drops the lyric locally, then confirms against the server,
// rolling back on failure.
func (s *Session) RemoveLyric(ctx context.Context, id string) ([]Lyric, error) {
	return s.lyrics.Apply(
		func(items []Lyric) []Lyric {
			return slices.DeleteFunc(items, func(l Lyric) bool { return l.ID == id })
		},
		func() ([]Lyric, error) { return s.api.RemoveLyric(ctx, id) },
	)
}
