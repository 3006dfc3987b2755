// Package generator holds the HTTP clients for the hosted generation models.
// Both endpoints are opaque remote functions; the clients bound every call
// with a timeout and decode structured error payloads into domain errors.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"time"

	"github.com/musemind/musemind-server/internal/core/domain"
	"github.com/musemind/musemind-server/internal/core/ports"
)

const defaultCallTimeout = 120 * time.Second

// MusicClient calls the hosted music-generation model.
type MusicClient struct {
	endpoint string
	http     *http.Client
}

// NewMusicClient builds a client for the given endpoint. timeout bounds each
// generation call end-to-end; zero applies a default suited to multi-second
// model inference.
func NewMusicClient(endpoint string, timeout time.Duration) *MusicClient {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &MusicClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Prompt   string `json:"prompt"`
	Duration int    `json:"duration"`
}

// Generate requests audio bytes for the prompt. With a sample attached the
// request is multipart, otherwise plain JSON. Non-success responses are
// decoded as {"detail": "..."} when possible and surfaced as an
// UpstreamError; anything else maps to the generic ErrGenerationFailed.
func (c *MusicClient) Generate(ctx context.Context, prompt string, durationSeconds int, sample *ports.SampleFile) ([]byte, error) {
	var req *http.Request
	var err error
	if sample == nil {
		req, err = c.jsonRequest(ctx, prompt, durationSeconds)
	} else {
		req, err = c.multipartRequest(ctx, prompt, durationSeconds, sample)
	}
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrGenerationFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeUpstreamError(body)
	}

	return body, nil
}

func (c *MusicClient) jsonRequest(ctx context.Context, prompt string, duration int) (*http.Request, error) {
	payload, err := json.Marshal(generateRequest{Prompt: prompt, Duration: duration})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *MusicClient) multipartRequest(ctx context.Context, prompt string, duration int, sample *ports.SampleFile) (*http.Request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("prompt", prompt); err != nil {
		return nil, err
	}
	if err := w.WriteField("duration", strconv.Itoa(duration)); err != nil {
		return nil, err
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, sample.Name))
	header.Set("Content-Type", sample.ContentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(sample.Data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, nil
}

// decodeUpstreamError extracts the human-readable detail from a failed
// generator response body, falling back to the generic failure.
func decodeUpstreamError(body []byte) error {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return &domain.UpstreamError{Detail: payload.Detail}
	}
	return domain.ErrGenerationFailed
}
