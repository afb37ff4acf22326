package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"transcript-player/internal/config"
	database "transcript-player/internal/db"
	"transcript-player/internal/models"
	"transcript-player/internal/player"

	"transcript-player/internal/api/handlers"
	"transcript-player/internal/api/middleware"
)

type Server struct {
	cfg       *config.Config
	db        *database.Client
	session   *player.Session
	recording *models.Recording
	router    *gin.Engine
}

func New(cfg *config.Config, db *database.Client, session *player.Session, rec *models.Recording) *Server {
	if cfg.Player.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:       cfg,
		db:        db,
		session:   session,
		recording: rec,
		router:    gin.New(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.SilentLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}

	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	sides := player.SidesFor(s.cfg, s.session.Transcript())

	playbackHandler := handlers.NewPlaybackHandler(s.session)
	transcriptHandler := handlers.NewTranscriptHandler(s.session, sides, s.recording)
	recordingHandler := handlers.NewRecordingHandler(s.db.DB)

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "transcript-player"})
	})

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/transcript", transcriptHandler.GetTranscript)

		v1.GET("/recordings", recordingHandler.GetRecordings)
		v1.GET("/recordings/:key", recordingHandler.GetRecording)

		// --- PLAYBACK
		v1.GET("/playback", playbackHandler.GetPlayback)

		// Controls change the shared session and need a token when a secret is configured
		controls := v1.Group("/playback")
		controls.Use(middleware.RequireAuth([]byte(s.cfg.Server.JWTSecret)))
		{
			controls.POST("/play", playbackHandler.Play)
			controls.POST("/pause", playbackHandler.Pause)
			controls.POST("/toggle", playbackHandler.Toggle)
			controls.POST("/forward", playbackHandler.Forward)
			controls.POST("/backward", playbackHandler.Backward)
		}
	}
}

// Handler exposes the router for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server on the configured port
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
