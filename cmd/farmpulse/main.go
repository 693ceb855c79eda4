package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/harvestlabs/farmpulse/internal/alerts"
	"github.com/harvestlabs/farmpulse/internal/api"
	"github.com/harvestlabs/farmpulse/internal/ingest"
	"github.com/harvestlabs/farmpulse/internal/insight"
	"github.com/harvestlabs/farmpulse/internal/pipeline"
	"github.com/harvestlabs/farmpulse/internal/predict"
	"github.com/harvestlabs/farmpulse/internal/store"
)

var cli struct {
	DB        string `help:"Path to the sqlite database." env:"FARMPULSE_DB" default:"data/farmpulse.db"`
	Port      string `help:"HTTP server port." env:"PORT" default:"8080"`
	ModelsDir string `help:"Directory holding trained model artifacts." env:"FARMPULSE_MODELS" default:"models"`

	Latitude  float64 `help:"Default farm latitude." env:"DEFAULT_LATITUDE" default:"40.7128"`
	Longitude float64 `help:"Default farm longitude." env:"DEFAULT_LONGITUDE" default:"-74.0060"`

	OpenWeatherKey string `help:"OpenWeatherMap API key; synthetic weather is used when unset." env:"OPENWEATHER_API_KEY"`
	OpenAIKey      string `help:"OpenAI API key for the primary insight provider." env:"OPENAI_API_KEY"`
	GoogleKey      string `help:"Google AI API key for the secondary insight provider." env:"GOOGLE_API_KEY"`
	GeminiModel    string `help:"Gemini model name." env:"GEMINI_MODEL" default:"gemini-1.5-flash"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("farmpulse"),
		kong.Description("Farm sensor intelligence pipeline."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	artifacts, err := predict.LoadDir(cli.ModelsDir)
	if err != nil {
		log.Fatalf("load models: %v", err)
	}
	engine := predict.NewEngine(artifacts)
	if len(engine.Loaded()) == 0 {
		log.Println("no model artifacts found, predictions will use defaults")
	}

	var providers []insight.Provider
	if cli.OpenAIKey != "" {
		providers = append(providers, insight.NewOpenAIProvider(cli.OpenAIKey))
		log.Println("openai insight provider configured")
	}
	if cli.GoogleKey != "" {
		gemini, err := insight.NewGeminiProvider(ctx, cli.GoogleKey, cli.GeminiModel)
		if err != nil {
			log.Printf("gemini provider unavailable: %v", err)
		} else {
			defer gemini.Close()
			providers = append(providers, gemini)
			log.Println("gemini insight provider configured")
		}
	}
	if len(providers) == 0 {
		log.Println("no AI providers configured, insights will use static fallbacks")
	}

	weather := ingest.NewWeatherClient(cli.OpenWeatherKey, cli.Latitude, cli.Longitude)
	alertEngine := alerts.NewEngine()
	orchestrator := insight.NewOrchestrator(providers...)
	pipe := pipeline.New(weather, engine, alertEngine, orchestrator, st)

	server := api.NewServer(pipe, st, alertEngine, cli.Port)
	log.Printf("starting server on :%s", cli.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
