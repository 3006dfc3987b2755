package ports

import "context"

// GenerateTrackInput is the strict internal form of a generation request,
// validated once at the transport boundary.
type GenerateTrackInput struct {
	UserID          string
	Prompt          string
	DurationSeconds int
	Sample          *SampleFile
}

// GenerateTrackResult is returned on a successful, charged generation.
type GenerateTrackResult struct {
	URL              string
	DownloadURL      string
	RemainingCredits int
	// Charged is false in the one documented gap: generation and storage
	// succeeded but the balance mutation did not apply.
	Charged bool
}

// GenerateLyricsInput carries a lyric generation request.
type GenerateLyricsInput struct {
	UserID    string
	Prompt    string
	GenreHint string
}

// GenerateLyricsResult is returned on a successful lyric generation.
type GenerateLyricsResult struct {
	Text             string
	RemainingCredits int
	// Charged is false in the one documented gap: the generation succeeded
	// but the balance mutation did not apply.
	Charged bool
}

// GenerationService mediates between the credit balance and the external
// generation calls: the balance is charged iff the external call and the
// durable store of its result both succeed.
type GenerationService interface {
	GenerateTrack(ctx context.Context, in GenerateTrackInput) (*GenerateTrackResult, error)
	GenerateLyrics(ctx context.Context, in GenerateLyricsInput) (*GenerateLyricsResult, error)

	// DeductCredit always decrements exactly once; callers own the
	// once-per-billable-action discipline.
	DeductCredit(ctx context.Context, userID string) (int, error)
}
