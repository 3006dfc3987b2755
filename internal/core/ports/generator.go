package ports

import "context"

// SampleFile is an uploaded audio sample forwarded to the music generator.
type SampleFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// MusicGenerator is the opaque remote function producing audio bytes from a
// prompt. Implementations must bound the call with a timeout and decode any
// structured upstream error payload into a domain.UpstreamError.
type MusicGenerator interface {
	Generate(ctx context.Context, prompt string, durationSeconds int, sample *SampleFile) ([]byte, error)
}

// LyricsGenerator is the opaque remote function producing lyric text.
// Implementations embed the music-only guardrail instruction in the request
// and return domain.ErrPromptOffDomain when the model refuses the prompt.
type LyricsGenerator interface {
	Generate(ctx context.Context, prompt, genreHint string) (string, error)
}
