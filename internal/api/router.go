package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/musemind/musemind-server/internal/api/handler"
	"github.com/musemind/musemind-server/internal/api/middleware"
	"github.com/musemind/musemind-server/internal/core/ports"
)

// Dependencies carries everything the router needs to wire the handlers.
type Dependencies struct {
	Auth       ports.AuthService
	Generation ports.GenerationService
	Library    ports.LibraryService
	Users      ports.UserRepository
	Prompts    ports.PromptCache
	Mongo      *mongo.Database
	Redis      *redis.Client
	JWTSecret  string
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("musemind"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	audioHandler := handler.NewAudioHandler(deps.Generation, deps.Prompts)
	libraryHandler := handler.NewLibraryHandler(deps.Library)
	creditsHandler := handler.NewCreditsHandler(deps.Users)
	session := middleware.Session(deps.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.POST("/auth/update-name", authHandler.UpdateName, session)

	// --- Generation and credits ---
	e.POST("/audio/generate", audioHandler.Generate, session)
	e.POST("/audio/deduct-credits", audioHandler.DeductCredits, session)
	e.GET("/audio/prompts", audioHandler.RecentPrompts, session)
	e.POST("/lyrics/generate", audioHandler.GenerateLyrics, session)
	e.POST("/credits/purchase", creditsHandler.Purchase, session)

	// --- Saved-asset registry ---
	e.GET("/savedTracks", libraryHandler.ListTracks, session)
	e.POST("/savedTracks", libraryHandler.SaveTrack, session)
	e.DELETE("/savedTracks/:id", libraryHandler.RemoveTrack, session)

	e.GET("/lyrics", libraryHandler.ListLyrics, session)
	e.POST("/lyrics", libraryHandler.SaveLyric, session)
	e.DELETE("/lyrics/:id", libraryHandler.RemoveLyric, session)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
