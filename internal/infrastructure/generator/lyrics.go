package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/musemind/musemind-server/internal/core/domain"
)

// refusalMarker is the exact token the guardrail instruction asks the model
// to emit for prompts that are not about music.
const refusalMarker = "NOT_MUSIC_RELATED"

const guardrailInstruction = "You write song lyrics. If the request below is not about music, " +
	"songs, or lyrics, reply with exactly " + refusalMarker + " and nothing else.\n\n"

// LyricsClient calls the hosted text-generation model.
type LyricsClient struct {
	endpoint string
	http     *http.Client
}

func NewLyricsClient(endpoint string, timeout time.Duration) *LyricsClient {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &LyricsClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type lyricsRequest struct {
	Prompt    string `json:"prompt"`
	GenreHint string `json:"genre_hint,omitempty"`
}

type lyricsResponse struct {
	Text string `json:"text"`
}

// Generate requests lyric text for the prompt with the guardrail instruction
// embedded. A response carrying the refusal marker yields ErrPromptOffDomain.
func (c *LyricsClient) Generate(ctx context.Context, prompt, genreHint string) (string, error) {
	payload, err := json.Marshal(lyricsRequest{
		Prompt:    guardrailInstruction + prompt,
		GenreHint: genreHint,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrGenerationFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", decodeUpstreamError(body)
	}

	var out lyricsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: malformed response", domain.ErrGenerationFailed)
	}

	if strings.Contains(out.Text, refusalMarker) {
		return "", domain.ErrPromptOffDomain
	}

	return out.Text, nil
}
