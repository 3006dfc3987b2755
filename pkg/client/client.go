// Package client is the Go SDK for the MuseMind API. It keeps the session
// cookie in an in-memory jar, mirrors the authenticated profile in an
// encrypted local store, and applies list mutations optimistically with
// rollback on failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

// User mirrors the profile returned by the API.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"createdAt"`
}

// Track is a saved-track reference.
type Track struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	DownloadURL string  `json:"downloadUrl"`
	Duration    float64 `json:"duration"`
	DateCreated string  `json:"dateCreated"`
}

// Lyric is a saved-lyric reference.
type Lyric struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	DownloadURL string `json:"downloadUrl"`
	DateCreated string `json:"dateCreated"`
}

// GenerateResult is the outcome of a charged track generation.
type GenerateResult struct {
	URL         string `json:"url"`
	DownloadURL string `json:"downloadUrl"`
	Credits     int    `json:"credits"`
}

// LyricsResult is the outcome of a charged lyric generation.
type LyricsResult struct {
	Text    string `json:"text"`
	Credits int    `json:"credits"`
}

// APIError is any non-2xx response, carrying the server's message envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

// Client talks to the MuseMind API. The zero value is not usable; construct
// with New.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client for the given base URL. The cookie jar holds the
// session cookie across calls.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: 3 * time.Minute},
	}, nil
}

type authEnvelope struct {
	User *User `json:"user"`
}

// Signup creates an account; the session cookie is captured by the jar.
func (c *Client) Signup(ctx context.Context, username, email, password string) (*User, error) {
	var out authEnvelope
	err := c.postJSON(ctx, "/auth/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.User, nil
}

// Login authenticates; the session cookie is captured by the jar.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out authEnvelope
	err := c.postJSON(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.User, nil
}

// Logout expires the session cookie server-side and clears the jar's copy.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/auth/logout", nil, nil)
}

// UpdateName renames the authenticated account and returns the new name.
func (c *Client) UpdateName(ctx context.Context, name string) (string, error) {
	var out struct {
		Name string `json:"name"`
	}
	if err := c.postJSON(ctx, "/auth/update-name", map[string]string{"name": name}, &out); err != nil {
		return "", err
	}
	return out.Name, nil
}

// GenerateTrack submits a prompt for audio generation. sample may be nil.
func (c *Client) GenerateTrack(ctx context.Context, prompt string, durationSeconds int, sample *Sample) (*GenerateResult, error) {
	var out GenerateResult
	if sample == nil {
		err := c.postJSON(ctx, "/audio/generate", map[string]any{
			"prompt":   prompt,
			"duration": durationSeconds,
		}, &out)
		if err != nil {
			return nil, err
		}
		return &out, nil
	}

	if err := c.postMultipart(ctx, "/audio/generate", prompt, durationSeconds, sample, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sample is an audio file attached to a generation request.
type Sample struct {
	Name        string
	ContentType string
	Data        []byte
}

// GenerateLyrics submits a prompt for lyric generation.
func (c *Client) GenerateLyrics(ctx context.Context, prompt, genreHint string) (*LyricsResult, error) {
	var out LyricsResult
	err := c.postJSON(ctx, "/lyrics/generate", map[string]string{
		"prompt":    prompt,
		"genreHint": genreHint,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeductCredits charges one credit and returns the new balance.
func (c *Client) DeductCredits(ctx context.Context) (int, error) {
	var out struct {
		Credits int `json:"credits"`
	}
	if err := c.postJSON(ctx, "/audio/deduct-credits", nil, &out); err != nil {
		return 0, err
	}
	return out.Credits, nil
}

// RecentPrompts returns the user's cached prompts, newest first.
func (c *Client) RecentPrompts(ctx context.Context) ([]string, error) {
	var out struct {
		Prompts []string `json:"prompts"`
	}
	if err := c.getJSON(ctx, "/audio/prompts", &out); err != nil {
		return nil, err
	}
	return out.Prompts, nil
}

// PurchaseCredits buys a named credit pack and returns the new balance.
func (c *Client) PurchaseCredits(ctx context.Context, pack string) (int, error) {
	var out struct {
		Credits int `json:"credits"`
	}
	if err := c.postJSON(ctx, "/credits/purchase", map[string]string{"pack": pack}, &out); err != nil {
		return 0, err
	}
	return out.Credits, nil
}

type tracksEnvelope struct {
	Tracks []Track `json:"tracks"`
}

type lyricsEnvelope struct {
	Lyrics []Lyric `json:"lyrics"`
}

// ListTracks fetches the authoritative saved-track list.
func (c *Client) ListTracks(ctx context.Context) ([]Track, error) {
	var out tracksEnvelope
	if err := c.getJSON(ctx, "/savedTracks", &out); err != nil {
		return nil, err
	}
	return out.Tracks, nil
}

// SaveTrack saves a track and returns the authoritative list.
func (c *Client) SaveTrack(ctx context.Context, t Track) ([]Track, error) {
	var out tracksEnvelope
	if err := c.postJSON(ctx, "/savedTracks", t, &out); err != nil {
		return nil, err
	}
	return out.Tracks, nil
}

// RemoveTrack removes a track and returns the authoritative list.
func (c *Client) RemoveTrack(ctx context.Context, id string) ([]Track, error) {
	var out tracksEnvelope
	if err := c.deleteJSON(ctx, "/savedTracks/"+id, &out); err != nil {
		return nil, err
	}
	return out.Tracks, nil
}

// ListLyrics fetches the authoritative saved-lyric list.
func (c *Client) ListLyrics(ctx context.Context) ([]Lyric, error) {
	var out lyricsEnvelope
	if err := c.getJSON(ctx, "/lyrics", &out); err != nil {
		return nil, err
	}
	return out.Lyrics, nil
}

// SaveLyric saves lyric text and returns the authoritative list.
func (c *Client) SaveLyric(ctx context.Context, id, title, content, dateCreated string) ([]Lyric, error) {
	var out lyricsEnvelope
	err := c.postJSON(ctx, "/lyrics", map[string]string{
		"id":          id,
		"title":       title,
		"content":     content,
		"dateCreated": dateCreated,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Lyrics, nil
}

// RemoveLyric removes a lyric and returns the authoritative list.
func (c *Client) RemoveLyric(ctx context.Context, id string) ([]Lyric, error) {
	var out lyricsEnvelope
	if err := c.deleteJSON(ctx, "/lyrics/"+id, &out); err != nil {
		return nil, err
	}
	return out.Lyrics, nil
}

// --- transport plumbing ---

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) deleteJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postMultipart(ctx context.Context, path, prompt string, duration int, sample *Sample, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("prompt", prompt); err != nil {
		return err
	}
	if err := w.WriteField("duration", strconv.Itoa(duration)); err != nil {
		return err
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, sample.Name))
	header.Set("Content-Type", sample.ContentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := part.Write(sample.Data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope struct {
			Message string `json:"message"`
		}
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(body, &envelope) == nil && envelope.Message != "" {
			msg = envelope.Message
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}
