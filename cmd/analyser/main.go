package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"resume-rag/internal/apiclient"
	"resume-rag/internal/config"
	"resume-rag/internal/helper"
	"resume-rag/internal/llmservice"
	"resume-rag/internal/rag"
	"resume-rag/internal/tui"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	apiURL := flag.String("api", "http://localhost:5000", "Resume API base URL")
	configPath := flag.String("config", "./configs/config.yaml", "Path to the config file")
	showLabeled := flag.Bool("labeled", false, "Print all labeled chunks and exit")
	flag.Parse()
	files := flag.Args()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	api := apiclient.New(*apiURL)
	if !api.Health() {
		fmt.Fprintln(os.Stderr, "Health check failed: server is not running")
		os.Exit(1)
	}

	if *showLabeled {
		chunks, err := api.Labeled()
		if err != nil {
			log.Fatal().Err(err).Msg("Error fetching labeled chunks")
		}
		helper.PrettyPrint(chunks)
		return
	}

	// upload the resumes given on the command line before the session starts
	banner := "Pronto. Digite uma habilidade para pesquisar."
	for _, f := range files {
		msg, err := api.Upload(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Erro ao enviar %s: %v\n", f, err)
			continue
		}
		fmt.Println(msg)
	}
	if len(files) > 0 {
		banner = fmt.Sprintf("%d arquivo(s) enviados. Digite uma habilidade para pesquisar.", len(files))
	}

	chat, err := llmservice.NewClient(&cfg.ChatLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing llm client")
	}
	summarizer := rag.NewSummarizer(chat)

	m := tui.New(api, summarizer, banner)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal().Err(err).Msg("TUI stopped")
	}
}
