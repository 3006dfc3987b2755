package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/musemind/musemind-server/internal/api/metrics"
	"github.com/musemind/musemind-server/internal/core/domain"
	"github.com/musemind/musemind-server/internal/core/ports"
)

// maxSampleBytes bounds the uploaded sample size read into memory.
const maxSampleBytes = 25 << 20

// AudioHandler handles generation and credit operations.
type AudioHandler struct {
	generation ports.GenerationService
	prompts    ports.PromptCache
}

func NewAudioHandler(generation ports.GenerationService, prompts ports.PromptCache) *AudioHandler {
	return &AudioHandler{generation: generation, prompts: prompts}
}

type generateTrackResponse struct {
	URL         string `json:"url"`
	DownloadURL string `json:"downloadUrl"`
	Credits     int    `json:"credits"`
	Message     string `json:"message"`
}

type generateLyricsRequest struct {
	Prompt    string `json:"prompt" validate:"required"`
	GenreHint string `json:"genreHint"`
}

type generateLyricsResponse struct {
	Text    string `json:"text"`
	Credits int    `json:"credits"`
	Message string `json:"message"`
}

// Generate handles POST /audio/generate. The body is either JSON
// {prompt, duration} or a multipart form with an optional audio sample; the
// loose inbound shape (duration as string or number) is normalised here into
// the strict service input.
//
// @Summary      Generate a track from a prompt
// @Tags         audio
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Param        prompt    formData  string  true   "Prompt"
// @Param        duration  formData  int     true   "Duration in seconds"
// @Param        file      formData  file    false  "Audio sample"
// @Success      200  {object}  generateTrackResponse
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /audio/generate [post]
func (h *AudioHandler) Generate(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	in, err := h.bindGenerateRequest(c)
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("track", "invalid_request").Inc()
		return err
	}
	in.UserID = id

	started := time.Now()
	result, err := h.generation.GenerateTrack(c.Request().Context(), *in)
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("track", trackOutcome(err)).Inc()
		return err
	}
	metrics.GenerationDuration.WithLabelValues("track").Observe(time.Since(started).Seconds())
	metrics.GenerationsTotal.WithLabelValues("track", "success").Inc()
	if result.Charged {
		metrics.CreditsSpentTotal.Inc()
	}

	return c.JSON(http.StatusOK, generateTrackResponse{
		URL:         result.URL,
		DownloadURL: result.DownloadURL,
		Credits:     result.RemainingCredits,
		Message:     "Track generated successfully",
	})
}

// GenerateLyrics handles POST /lyrics/generate.
//
// @Summary      Generate lyrics from a prompt
// @Tags         lyrics
// @Accept       json
// @Produce      json
// @Param        body  body      generateLyricsRequest  true  "Prompt"
// @Success      200   {object}  generateLyricsResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /lyrics/generate [post]
func (h *AudioHandler) GenerateLyrics(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var req generateLyricsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	started := time.Now()
	result, err := h.generation.GenerateLyrics(c.Request().Context(), ports.GenerateLyricsInput{
		UserID:    id,
		Prompt:    req.Prompt,
		GenreHint: req.GenreHint,
	})
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("lyrics", lyricsOutcome(err)).Inc()
		return err
	}
	metrics.GenerationDuration.WithLabelValues("lyrics").Observe(time.Since(started).Seconds())
	metrics.GenerationsTotal.WithLabelValues("lyrics", "success").Inc()
	if result.Charged {
		metrics.CreditsSpentTotal.Inc()
	}

	return c.JSON(http.StatusOK, generateLyricsResponse{
		Text:    result.Text,
		Credits: result.RemainingCredits,
		Message: "Lyrics generated successfully",
	})
}

// DeductCredits handles POST /audio/deduct-credits, a standalone charge of
// exactly one credit.
//
// @Summary      Deduct one credit
// @Tags         audio
// @Produce      json
// @Success      200  {object}  map[string]int
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /audio/deduct-credits [post]
func (h *AudioHandler) DeductCredits(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	credits, err := h.generation.DeductCredit(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientCredits) {
			metrics.InsufficientCreditsTotal.Inc()
		}
		return err
	}
	metrics.CreditsSpentTotal.Inc()

	return c.JSON(http.StatusOK, map[string]int{"credits": credits})
}

// RecentPrompts handles GET /audio/prompts.
//
// @Summary      List the user's recent prompts
// @Tags         audio
// @Produce      json
// @Success      200  {object}  map[string][]string
// @Router       /audio/prompts [get]
func (h *AudioHandler) RecentPrompts(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	prompts, err := h.prompts.Recent(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if prompts == nil {
		prompts = []string{}
	}

	return c.JSON(http.StatusOK, map[string][]string{"prompts": prompts})
}

// bindGenerateRequest normalises a JSON or multipart generation request into
// the strict service input.
func (h *AudioHandler) bindGenerateRequest(c echo.Context) (*ports.GenerateTrackInput, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		return h.bindMultipart(c)
	}

	var req struct {
		Prompt   string          `json:"prompt"`
		Duration flexibleSeconds `json:"duration"`
	}
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return &ports.GenerateTrackInput{
		Prompt:          strings.TrimSpace(req.Prompt),
		DurationSeconds: int(req.Duration),
	}, nil
}

func (h *AudioHandler) bindMultipart(c echo.Context) (*ports.GenerateTrackInput, error) {
	prompt := strings.TrimSpace(c.FormValue("prompt"))
	duration, _ := strconv.Atoi(strings.TrimSpace(c.FormValue("duration")))

	in := &ports.GenerateTrackInput{Prompt: prompt, DurationSeconds: duration}

	fh, err := c.FormFile("file")
	if err != nil {
		// no sample attached
		return in, nil
	}
	if fh.Size > maxSampleBytes {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "sample file too large")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid sample file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSampleBytes))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid sample file")
	}

	in.Sample = &ports.SampleFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}
	return in, nil
}

func trackOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, domain.ErrInsufficientCredits):
		return "insufficient_credits"
	case errors.Is(err, domain.ErrStorageFailed):
		return "storage_error"
	default:
		return "upstream_error"
	}
}

func lyricsOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, domain.ErrInsufficientCredits):
		return "insufficient_credits"
	case errors.Is(err, domain.ErrPromptOffDomain):
		return "refused"
	default:
		return "upstream_error"
	}
}
