package server

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"

	"pdfchat/app/agent"
	"pdfchat/app/api"
	"pdfchat/config"
)

type Server struct {
	cfg     *config.Config
	tempDir string
}

func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

func (s *Server) Stop() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
	log.Info().Msg("server stopped")
}

func (s *Server) Run() {
	tempDir, err := os.MkdirTemp("", "pdfchat-uploads-")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create temp directory")
	}
	s.tempDir = tempDir

	var (
		app = fiber.New(fiber.Config{
			ErrorHandler: api.ErrorHandler,
			BodyLimit:    s.cfg.MaxUpload * 1024 * 1024,
		})
		checkHandler    = api.NewCheckHandler()
		documentHandler = api.NewDocumentHandler(agent.NewBuilder(s.cfg), agent.NewSession(), tempDir)
		check           = app.Group("/check")
	)

	// the UI runs as a separate process on its own port
	app.Use(cors.New())

	app.Get("/", checkHandler.HandleRoot)
	check.Get("/healthy", checkHandler.HandleHealthy)
	app.Post("/upload", documentHandler.HandleUpload)
	app.Post("/ask", documentHandler.HandleAsk)

	log.Info().Str("addr", s.cfg.ListenAddr).Msg("server listening")
	if err := app.Listen(s.cfg.ListenAddr); err != nil {
		log.Error().Err(err).Msg("error to start server")
	}
}
