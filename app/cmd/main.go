package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pdfchat/app/server"
	"pdfchat/config"
)

const configFilePath = "./configs/config.yaml"

func init() {
	// a missing .env is fine, env vars may come from the environment
	godotenv.Load()
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("LOG_LEVEL") == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load(configFilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}

	if cfg.Provider == "googleai" && cfg.GoogleAI.CredentialsFile == "" && os.Getenv(cfg.GoogleAI.APIKeyEnv) == "" {
		log.Warn().Msg("GOOGLE_APPLICATION_CREDENTIALS environment variable not set")
		log.Warn().Msg("set it to the path of your service account JSON file, or provide GOOGLE_API_KEY")
	}

	s := server.NewServer(cfg)
	go s.Run()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	<-sigch
	log.Info().Msg("received shutdown signal, shutting down server...")
	s.Stop()
}
