package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"resume-rag/internal/config"
	"resume-rag/internal/embedding"
	"resume-rag/internal/helper"
	"resume-rag/internal/ingest"
	"resume-rag/internal/labeler"
	"resume-rag/internal/llmservice"
	"resume-rag/internal/retriever"
	"resume-rag/internal/server"
	"resume-rag/internal/vectorstore"
	"resume-rag/internal/vectorstore/chromem"
	"resume-rag/internal/vectorstore/memory"
	"resume-rag/internal/vectorstore/pgvector"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	if err := helper.CreateFolder(cfg.Server.UploadDir); err != nil {
		log.Fatal().Err(err).Msg("Error creating upload folder")
	}

	store := newStore(cfg)

	embedder, err := embedding.NewFromConfig(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	chat, err := llmservice.NewClient(&cfg.ChatLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing llm client")
	}

	lb := labeler.New(labeler.NewLLMExtractor(chat))
	ingestor := ingest.New(store, embedder, cfg.Server.UploadDir, cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	ret := retriever.New(store, embedder, lb, cfg.RAG.PerDocumentK)

	srv := server.New(ingestor, ret, lb, store)
	if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func newStore(cfg *config.Config) vectorstore.Store {
	switch cfg.RAG.Store {
	case "memory", "":
		return memory.NewStore()
	case "chromem":
		if err := helper.CreateFolder(cfg.RAG.StorePath); err != nil {
			log.Fatal().Err(err).Msg("Error creating store folder")
		}
		store, err := chromem.NewStore(cfg.RAG.StorePath, cfg.RAG.CollectionName, cfg.RAG.EncryptionKey)
		if err != nil {
			log.Fatal().Err(err).Msg("Error creating vector database")
		}
		return store
	case "pgvector":
		store, err := pgvector.NewStore(context.Background(), &cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Error connecting to database")
		}
		return store
	default:
		log.Fatal().Str("store", cfg.RAG.Store).Msg("Unknown store kind")
		return nil
	}
}
