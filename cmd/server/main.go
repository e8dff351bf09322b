package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"librarychat/internal/auth"
	"librarychat/internal/chat"
	"librarychat/internal/config"
	"librarychat/internal/db"
	"librarychat/internal/embedding"
	"librarychat/internal/helper"
	"librarychat/internal/httpapi"
	"librarychat/internal/ingest"
	"librarychat/internal/llmservice"
	"librarychat/internal/loader"
	"librarychat/internal/vectordb"
)

const defaultConfigPath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", defaultConfigPath, "Path to the config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	if err := helper.CreateFolder(cfg.Server.UploadDir); err != nil {
		log.Fatal().Err(err).Msg("Error creating upload folder")
	}

	ctx := context.Background()

	database := db.Connect(&cfg.Database)
	defer database.Close()
	if err := db.Init(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
	}

	backends := vectordb.NewRegistry()
	chromemStore, err := vectordb.NewChromemStore(cfg.VectorDB.Chromem, cfg.RAG.TopK)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening chromem store")
	}
	backends.Register("chromem", chromemStore)

	qdrantStore, err := vectordb.NewQdrantStore(cfg.VectorDB.Qdrant, cfg.RAG.TopK)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring qdrant store")
	}
	backends.Register("qdrant", qdrantStore)
	backends.Register("pgvector", vectordb.NewPGVectorStore(database, cfg.RAG.TopK))

	providers := embedding.NewDefaultRegistry(&cfg.Embedding)
	chatModels := llmservice.NewDefaultRegistry(&cfg.LLM)

	pipeline := ingest.NewPipeline(loader.NewDefaultRegistry(), providers, backends, cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	svc := chat.NewService(db.NewRepository(database), chatModels, providers, backends, pipeline, cfg.RAG.Temperature)

	authenticator, err := auth.New(&cfg.Auth)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring authenticator")
	}

	router := httpapi.NewRouter(svc, authenticator, cfg.Server.UploadDir)
	log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
	if err := router.Run(cfg.Server.Addr); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
