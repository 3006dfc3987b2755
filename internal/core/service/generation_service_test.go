package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/musemind/musemind-server/internal/core/domain"
	"github.com/musemind/musemind-server/internal/core/ports"
)

type stubUserRepo struct {
	user       *domain.User
	deductErr  error
	deductHits int
}

func (s *stubUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	return u, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, domain.ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, domain.ErrUserNotFound
	}
	copied := *s.user
	return &copied, nil
}

func (s *stubUserRepo) UpdateName(ctx context.Context, id, name string) (*domain.User, error) {
	s.user.Username = name
	return s.user, nil
}

func (s *stubUserRepo) DeductCredit(ctx context.Context, id string) (int, error) {
	s.deductHits++
	if s.deductErr != nil {
		return 0, s.deductErr
	}
	if s.user.Credits <= 0 {
		return 0, domain.ErrInsufficientCredits
	}
	s.user.Credits--
	return s.user.Credits, nil
}

func (s *stubUserRepo) AddCredits(ctx context.Context, id string, n int) (int, error) {
	s.user.Credits += n
	return s.user.Credits, nil
}

type stubMusicGen struct {
	audio []byte
	err   error
	calls int
}

func (s *stubMusicGen) Generate(ctx context.Context, prompt string, durationSeconds int, sample *ports.SampleFile) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.audio, nil
}

type stubLyricsGen struct {
	text string
	err  error
}

func (s *stubLyricsGen) Generate(ctx context.Context, prompt, genreHint string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type stubAssetStore struct {
	err   error
	texts []string
}

func (s *stubAssetStore) StoreAudio(ctx context.Context, data []byte, filename string) (*ports.StoredAsset, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ports.StoredAsset{URL: "https://assets.test/" + filename, DownloadURL: "https://assets.test/dl/" + filename}, nil
}

func (s *stubAssetStore) StoreText(ctx context.Context, text, filename string) (*ports.StoredAsset, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.texts = append(s.texts, text)
	return &ports.StoredAsset{URL: "https://assets.test/" + filename, DownloadURL: "https://assets.test/dl/" + filename}, nil
}

type stubPromptCache struct {
	recorded []string
}

func (s *stubPromptCache) Record(ctx context.Context, userID, prompt string) error {
	s.recorded = append(s.recorded, prompt)
	return nil
}

func (s *stubPromptCache) Recent(ctx context.Context, userID string) ([]string, error) {
	return s.recorded, nil
}

func newGenerationFixture(credits int) (*GenerationService, *stubUserRepo, *stubMusicGen, *stubLyricsGen, *stubAssetStore) {
	repo := &stubUserRepo{user: &domain.User{ID: "u1", Email: "u1@test.dev", Credits: credits}}
	music := &stubMusicGen{audio: []byte("mp3-bytes")}
	lyrics := &stubLyricsGen{text: "verse one"}
	store := &stubAssetStore{}
	svc := NewGenerationService(repo, music, lyrics, store, &stubPromptCache{}, zerolog.Nop())
	return svc, repo, music, lyrics, store
}

func TestGenerateTrackChargesExactlyOne(t *testing.T) {
	svc, repo, _, _, _ := newGenerationFixture(5)

	result, err := svc.GenerateTrack(context.Background(), ports.GenerateTrackInput{
		UserID: "u1", Prompt: "lofi piano", DurationSeconds: 15,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Charged {
		t.Fatal("expected the call to be charged")
	}
	if result.RemainingCredits != 4 {
		t.Fatalf("expected 4 remaining credits, got %d", result.RemainingCredits)
	}
	if repo.deductHits != 1 {
		t.Fatalf("expected exactly one deduction, got %d", repo.deductHits)
	}
	if result.URL == "" || result.DownloadURL == "" {
		t.Fatalf("expected asset URLs, got %+v", result)
	}
}

func TestGenerateTrackRejectsExhaustedBalance(t *testing.T) {
	svc, repo, music, _, _ := newGenerationFixture(0)

	_, err := svc.GenerateTrack(context.Background(), ports.GenerateTrackInput{
		UserID: "u1", Prompt: "lofi piano", DurationSeconds: 15,
	})
	if !errors.Is(err, domain.ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
	if music.calls != 0 {
		t.Fatal("generator must not be called with an exhausted balance")
	}
	if repo.deductHits != 0 {
		t.Fatal("balance must not be touched with an exhausted balance")
	}
}

func TestGenerateTrackUpstreamFailureLeavesBalanceUntouched(t *testing.T) {
	svc, repo, music, _, _ := newGenerationFixture(3)
	music.err = &domain.UpstreamError{Detail: "duration too long"}

	_, err := svc.GenerateTrack(context.Background(), ports.GenerateTrackInput{
		UserID: "u1", Prompt: "lofi piano", DurationSeconds: 600,
	})
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected a generation failure, got %v", err)
	}

	var ue *domain.UpstreamError
	if !errors.As(err, &ue) || ue.Detail != "duration too long" {
		t.Fatalf("expected the upstream detail to survive, got %v", err)
	}
	if repo.user.Credits != 3 {
		t.Fatalf("balance changed on failure: %d", repo.user.Credits)
	}
	if repo.deductHits != 0 {
		t.Fatal("deduction must not run after a failed generation")
	}
}

func TestGenerateTrackStorageFailureLeavesBalanceUntouched(t *testing.T) {
	svc, repo, _, _, store := newGenerationFixture(3)
	store.err = errors.New("bucket unreachable")

	_, err := svc.GenerateTrack(context.Background(), ports.GenerateTrackInput{
		UserID: "u1", Prompt: "lofi piano", DurationSeconds: 15,
	})
	if !errors.Is(err, domain.ErrStorageFailed) {
		t.Fatalf("expected ErrStorageFailed, got %v", err)
	}
	if repo.user.Credits != 3 || repo.deductHits != 0 {
		t.Fatalf("balance must be untouched after a storage failure, got credits=%d hits=%d", repo.user.Credits, repo.deductHits)
	}
}

func TestGenerateTrackLastCreditSucceeds(t *testing.T) {
	svc, repo, _, _, _ := newGenerationFixture(1)

	result, err := svc.GenerateTrack(context.Background(), ports.GenerateTrackInput{
		UserID: "u1", Prompt: "lofi piano", DurationSeconds: 15,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Charged || result.RemainingCredits != 0 {
		t.Fatalf("expected charged with 0 remaining, got %+v", result)
	}

	_, err = svc.GenerateTrack(context.Background(), ports.GenerateTrackInput{
		UserID: "u1", Prompt: "another", DurationSeconds: 15,
	})
	if !errors.Is(err, domain.ErrInsufficientCredits) {
		t.Fatalf("second call on an empty balance must be rejected, got %v", err)
	}
	if repo.deductHits != 1 {
		t.Fatalf("expected one deduction total, got %d", repo.deductHits)
	}
}

func TestGenerateTrackLostRaceDeliversUncharged(t *testing.T) {
	// A concurrent call spends the last credit between the precondition read
	// and the deduction: the asset is delivered but not charged.
	svc, repo, _, _, _ := newGenerationFixture(1)
	repo.deductErr = domain.ErrInsufficientCredits

	result, err := svc.GenerateTrack(context.Background(), ports.GenerateTrackInput{
		UserID: "u1", Prompt: "lofi piano", DurationSeconds: 15,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Charged {
		t.Fatal("a lost deduction race must deliver uncharged")
	}
	if result.RemainingCredits != 0 {
		t.Fatalf("expected 0 remaining, got %d", result.RemainingCredits)
	}
	if result.URL == "" {
		t.Fatal("the stored asset must still be delivered")
	}
}

func TestGenerateTrackValidatesInput(t *testing.T) {
	svc, _, _, _, _ := newGenerationFixture(5)

	cases := []ports.GenerateTrackInput{
		{UserID: "u1", Prompt: "", DurationSeconds: 15},
		{UserID: "u1", Prompt: "lofi", DurationSeconds: 0},
		{UserID: "u1", Prompt: "lofi", DurationSeconds: -3},
		{UserID: "u1", Prompt: "lofi", DurationSeconds: 15, Sample: &ports.SampleFile{Name: "x.pdf", ContentType: "application/pdf"}},
	}
	for _, in := range cases {
		if _, err := svc.GenerateTrack(context.Background(), in); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Fatalf("input %+v: expected ErrInvalidRequest, got %v", in, err)
		}
	}
}

func TestGenerateLyricsChargesAfterContent(t *testing.T) {
	svc, repo, _, _, _ := newGenerationFixture(2)

	result, err := svc.GenerateLyrics(context.Background(), ports.GenerateLyricsInput{
		UserID: "u1", Prompt: "song about rivers", GenreHint: "folk",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "verse one" {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if !result.Charged || result.RemainingCredits != 1 || repo.deductHits != 1 {
		t.Fatalf("expected one charge leaving 1 credit, got charged=%v remaining=%d hits=%d", result.Charged, result.RemainingCredits, repo.deductHits)
	}
}

func TestGenerateLyricsLostRaceReportsEmptyBalance(t *testing.T) {
	// A concurrent call spends the last credit between the precondition read
	// and the deduction: the text is delivered uncharged and the reported
	// balance is 0, not the stale pre-read value.
	svc, repo, _, _, _ := newGenerationFixture(1)
	repo.deductErr = domain.ErrInsufficientCredits

	result, err := svc.GenerateLyrics(context.Background(), ports.GenerateLyricsInput{
		UserID: "u1", Prompt: "song about rivers",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Charged {
		t.Fatal("a lost deduction race must deliver uncharged")
	}
	if result.RemainingCredits != 0 {
		t.Fatalf("expected 0 remaining, got %d", result.RemainingCredits)
	}
	if result.Text != "verse one" {
		t.Fatal("the generated text must still be delivered")
	}
}

func TestGenerateLyricsDeductionFailureDeliversUncharged(t *testing.T) {
	svc, repo, _, _, _ := newGenerationFixture(3)
	repo.deductErr = errors.New("write concern timeout")

	result, err := svc.GenerateLyrics(context.Background(), ports.GenerateLyricsInput{
		UserID: "u1", Prompt: "song about rivers",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Charged {
		t.Fatal("a failed balance write must deliver uncharged")
	}
	if result.RemainingCredits != 3 {
		t.Fatalf("expected the last known balance, got %d", result.RemainingCredits)
	}
}

func TestGenerateLyricsRefusalIsFreeAndSurfaced(t *testing.T) {
	svc, repo, _, lyrics, _ := newGenerationFixture(2)
	lyrics.err = domain.ErrPromptOffDomain

	_, err := svc.GenerateLyrics(context.Background(), ports.GenerateLyricsInput{
		UserID: "u1", Prompt: "write my homework essay",
	})
	if !errors.Is(err, domain.ErrPromptOffDomain) {
		t.Fatalf("expected ErrPromptOffDomain, got %v", err)
	}
	if repo.user.Credits != 2 || repo.deductHits != 0 {
		t.Fatalf("refusal must be free, got credits=%d hits=%d", repo.user.Credits, repo.deductHits)
	}
}

func TestGenerateLyricsRequiresBalance(t *testing.T) {
	svc, _, _, _, _ := newGenerationFixture(0)

	_, err := svc.GenerateLyrics(context.Background(), ports.GenerateLyricsInput{
		UserID: "u1", Prompt: "song about rivers",
	})
	if !errors.Is(err, domain.ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
}

func TestDeductCreditIsNotIdempotent(t *testing.T) {
	svc, repo, _, _, _ := newGenerationFixture(3)

	for want := 2; want >= 0; want-- {
		got, err := svc.DeductCredit(context.Background(), "u1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d remaining, got %d", want, got)
		}
	}
	if _, err := svc.DeductCredit(context.Background(), "u1"); !errors.Is(err, domain.ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits on empty balance, got %v", err)
	}
	if repo.user.Credits != 0 {
		t.Fatalf("balance went negative: %d", repo.user.Credits)
	}
}
