package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pdfchat/config"
)

const configFilePath = "./configs/config.yaml"

func init() {
	godotenv.Load()
}

// The UI is a separate process from the API server: it only serves the
// static chat page and tells it where the API lives.
func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load(configFilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}

	app := fiber.New()
	app.Static("/", "./web/static")
	app.Get("/config.js", func(c *fiber.Ctx) error {
		c.Set("Content-Type", "application/javascript")
		return c.SendString(fmt.Sprintf("window.API_BASE_URL = %q;\n", cfg.APIBaseURL))
	})

	go func() {
		log.Info().Str("addr", cfg.UIAddr).Str("api", cfg.APIBaseURL).Msg("ui listening")
		if err := app.Listen(cfg.UIAddr); err != nil {
			log.Error().Err(err).Msg("error to start ui server")
		}
	}()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	<-sigch
	log.Info().Msg("ui stopped")
}
