package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/musemind/musemind-server/internal/core/domain"
	"github.com/musemind/musemind-server/internal/core/ports"
)

// LibraryHandler handles the saved-track and saved-lyric endpoints.
type LibraryHandler struct {
	library ports.LibraryService
}

func NewLibraryHandler(library ports.LibraryService) *LibraryHandler {
	return &LibraryHandler{library: library}
}

type saveTrackRequest struct {
	ID          string  `json:"id"          validate:"required"`
	Title       string  `json:"title"       validate:"required"`
	URL         string  `json:"url"         validate:"required"`
	DownloadURL string  `json:"downloadUrl" validate:"required"`
	Duration    float64 `json:"duration"    validate:"required,gt=0"`
	DateCreated string  `json:"dateCreated" validate:"required"`
}

type saveLyricRequest struct {
	ID          string `json:"id"      validate:"required"`
	Title       string `json:"title"   validate:"required"`
	Content     string `json:"content" validate:"required"`
	DateCreated string `json:"dateCreated"`
}

type tracksResponse struct {
	Tracks  []domain.SavedTrack `json:"tracks"`
	Message string              `json:"message,omitempty"`
}

type lyricsListResponse struct {
	Lyrics  []domain.SavedLyric `json:"lyrics"`
	Message string              `json:"message,omitempty"`
}

// ListTracks handles GET /savedTracks.
//
// @Summary      List saved tracks
// @Tags         tracks
// @Produce      json
// @Success      200  {object}  tracksResponse
// @Router       /savedTracks [get]
func (h *LibraryHandler) ListTracks(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	tracks, err := h.library.ListTracks(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tracksResponse{Tracks: tracks})
}

// SaveTrack handles POST /savedTracks. Saving an id already present is a
// no-op; the authoritative list is returned either way.
//
// @Summary      Save a track
// @Tags         tracks
// @Accept       json
// @Produce      json
// @Param        body  body      saveTrackRequest  true  "Track reference"
// @Success      200   {object}  tracksResponse
// @Failure      400   {object}  map[string]string
// @Router       /savedTracks [post]
func (h *LibraryHandler) SaveTrack(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var req saveTrackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tracks, err := h.library.SaveTrack(c.Request().Context(), id, domain.SavedTrack{
		ID:          req.ID,
		Title:       req.Title,
		URL:         req.URL,
		DownloadURL: req.DownloadURL,
		Duration:    req.Duration,
		DateCreated: req.DateCreated,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tracksResponse{Tracks: tracks, Message: "Track saved successfully"})
}

// RemoveTrack handles DELETE /savedTracks/:id. Removing an absent id is a
// no-op returning the unchanged list.
//
// @Summary      Remove a saved track
// @Tags         tracks
// @Produce      json
// @Param        id   path      string  true  "Track id"
// @Success      200  {object}  tracksResponse
// @Router       /savedTracks/{id} [delete]
func (h *LibraryHandler) RemoveTrack(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	tracks, err := h.library.RemoveTrack(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tracksResponse{Tracks: tracks, Message: "Track removed successfully"})
}

// ListLyrics handles GET /lyrics.
//
// @Summary      List saved lyrics
// @Tags         lyrics
// @Produce      json
// @Success      200  {object}  lyricsListResponse
// @Router       /lyrics [get]
func (h *LibraryHandler) ListLyrics(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	lyrics, err := h.library.ListLyrics(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lyricsListResponse{Lyrics: lyrics})
}

// SaveLyric handles POST /lyrics. The raw text is uploaded to durable
// storage first, then the reference record is appended, de-duplicated by id.
//
// @Summary      Save lyrics
// @Tags         lyrics
// @Accept       json
// @Produce      json
// @Param        body  body      saveLyricRequest  true  "Lyric text"
// @Success      200   {object}  lyricsListResponse
// @Failure      400   {object}  map[string]string
// @Router       /lyrics [post]
func (h *LibraryHandler) SaveLyric(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var req saveLyricRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	lyrics, err := h.library.SaveLyric(c.Request().Context(), id, ports.SaveLyricInput{
		ID:          req.ID,
		Title:       req.Title,
		Content:     req.Content,
		DateCreated: req.DateCreated,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, lyricsListResponse{Lyrics: lyrics, Message: "Lyric saved successfully"})
}

// RemoveLyric handles DELETE /lyrics/:id.
//
// @Summary      Remove saved lyrics
// @Tags         lyrics
// @Produce      json
// @Param        id   path      string  true  "Lyric id"
// @Success      200  {object}  lyricsListResponse
// @Router       /lyrics/{id} [delete]
func (h *LibraryHandler) RemoveLyric(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	lyrics, err := h.library.RemoveLyric(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lyricsListResponse{Lyrics: lyrics, Message: "Lyric removed successfully"})
}
