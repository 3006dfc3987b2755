package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/musemind/musemind-server/internal/core/domain"
	"github.com/musemind/musemind-server/internal/core/ports"
)

// GenerationService is the credits gateway: it enforces the balance
// precondition, invokes the external generator, durably stores the result,
// and only then charges exactly one credit.
type GenerationService struct {
	users   ports.UserRepository
	music   ports.MusicGenerator
	lyrics  ports.LyricsGenerator
	store   ports.AssetStore
	prompts ports.PromptCache
	log     zerolog.Logger
}

func NewGenerationService(
	users ports.UserRepository,
	music ports.MusicGenerator,
	lyrics ports.LyricsGenerator,
	store ports.AssetStore,
	prompts ports.PromptCache,
	log zerolog.Logger,
) *GenerationService {
	return &GenerationService{
		users:   users,
		music:   music,
		lyrics:  lyrics,
		store:   store,
		prompts: prompts,
		log:     log,
	}
}

// GenerateTrack runs the paid audio-generation workflow.
//
//  1. Validate the request and fail fast on an exhausted balance, before any
//     expensive upstream work.
//  2. Call the external generator; on any failure the balance is untouched.
//  3. Persist the returned bytes to durable storage; a storage failure is
//     treated exactly like a generator failure.
//  4. Charge one credit through an atomic conditional decrement. Losing the
//     decrement race after a successful generation returns the asset
//     uncharged: the system never charges without delivering.
func (s *GenerationService) GenerateTrack(ctx context.Context, in ports.GenerateTrackInput) (*ports.GenerateTrackResult, error) {
	if in.Prompt == "" || in.DurationSeconds <= 0 {
		return nil, fmt.Errorf("%w: prompt and duration are required", domain.ErrInvalidRequest)
	}
	if in.Sample != nil && !domain.SampleTypeAllowed(in.Sample.ContentType) {
		return nil, fmt.Errorf("%w: only audio files (MP3, WAV, M4A) are allowed", domain.ErrInvalidRequest)
	}

	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user.Credits <= 0 {
		return nil, domain.ErrInsufficientCredits
	}

	audio, err := s.music.Generate(ctx, in.Prompt, in.DurationSeconds, in.Sample)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", in.UserID).Msg("music generation failed")
		return nil, err
	}

	asset, err := s.store.StoreAudio(ctx, audio, "generated-"+uuid.NewString()+".mp3")
	if err != nil {
		s.log.Error().Err(err).Str("user_id", in.UserID).Msg("asset storage failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailed, err)
	}

	s.recordPrompt(ctx, in.UserID, in.Prompt)

	result := &ports.GenerateTrackResult{
		URL:         asset.URL,
		DownloadURL: asset.DownloadURL,
		Charged:     true,
	}

	remaining, err := s.users.DeductCredit(ctx, in.UserID)
	switch {
	case errors.Is(err, domain.ErrInsufficientCredits):
		// Lost the race to a concurrent paid call after the precondition
		// read. The asset was already produced and stored, so deliver it
		// uncharged rather than charge a balance that is already empty.
		s.log.Warn().Str("user_id", in.UserID).Msg("balance exhausted after generation, delivering uncharged")
		result.Charged = false
		result.RemainingCredits = 0
	case err != nil:
		// Known gap: the generation succeeded but the balance write failed.
		// The user receives the result without being charged.
		s.log.Error().Err(err).Str("user_id", in.UserID).Msg("credit deduction failed after successful generation")
		result.Charged = false
		result.RemainingCredits = user.Credits
	default:
		result.RemainingCredits = remaining
	}

	s.log.Info().
		Str("user_id", in.UserID).
		Int("duration_s", in.DurationSeconds).
		Int("credits", result.RemainingCredits).
		Bool("charged", result.Charged).
		Msg("track generated")

	return result, nil
}

// GenerateLyrics runs the paid lyric-generation workflow. The generator call
// embeds the music-only guardrail; a refusal surfaces as ErrPromptOffDomain
// and nothing is charged. The charge itself is a separate conditional
// decrement performed only after non-refused content is returned.
func (s *GenerationService) GenerateLyrics(ctx context.Context, in ports.GenerateLyricsInput) (*ports.GenerateLyricsResult, error) {
	if in.Prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrInvalidRequest)
	}

	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user.Credits <= 0 {
		return nil, domain.ErrInsufficientCredits
	}

	text, err := s.lyrics.Generate(ctx, in.Prompt, in.GenreHint)
	if err != nil {
		if !errors.Is(err, domain.ErrPromptOffDomain) {
			s.log.Error().Err(err).Str("user_id", in.UserID).Msg("lyrics generation failed")
		}
		return nil, err
	}

	s.recordPrompt(ctx, in.UserID, in.Prompt)

	result := &ports.GenerateLyricsResult{Text: text, Charged: true}

	remaining, err := s.users.DeductCredit(ctx, in.UserID)
	switch {
	case errors.Is(err, domain.ErrInsufficientCredits):
		// Lost the race to a concurrent paid call after the precondition
		// read; the actual balance is 0, not the stale read. Deliver the
		// text uncharged, as GenerateTrack does.
		s.log.Warn().Str("user_id", in.UserID).Msg("balance exhausted after lyric generation, delivering uncharged")
		result.Charged = false
		result.RemainingCredits = 0
	case err != nil:
		// Known gap: the generation succeeded but the balance write failed.
		// The user receives the text without being charged.
		s.log.Error().Err(err).Str("user_id", in.UserID).Msg("credit deduction failed after lyric generation")
		result.Charged = false
		result.RemainingCredits = user.Credits
	default:
		result.RemainingCredits = remaining
	}

	return result, nil
}

// DeductCredit charges one credit outside a generation flow. Each call
// decrements once; it is deliberately not idempotent.
func (s *GenerationService) DeductCredit(ctx context.Context, userID string) (int, error) {
	return s.users.DeductCredit(ctx, userID)
}

func (s *GenerationService) recordPrompt(ctx context.Context, userID, prompt string) {
	if s.prompts == nil {
		return
	}
	if err := s.prompts.Record(ctx, userID, prompt); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to record prompt")
	}
}
