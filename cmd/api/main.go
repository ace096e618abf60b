package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reposcope/internal/analyzer"
	"reposcope/internal/api"
	"reposcope/internal/config"
	"reposcope/internal/llm"
	"reposcope/internal/repo"
	"reposcope/internal/server"
	"reposcope/internal/tree"
)

func main() {
	tuningPath := flag.String("config", "", "path to YAML tuning file")
	flag.Parse()

	cfg, err := config.Load(*tuningPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	llmClient, err := llm.FromEnv(ctx, cfg.Provider)
	if err != nil {
		log.Fatal(err)
	}
	defer llmClient.Close()
	log.Printf("using completion provider %s", llmClient.Name())

	github := repo.NewGitHubClient(cfg.GitHubToken)
	github.Skip = tree.Filter{IgnoreGlobs: cfg.Tuning.IgnoreGlobs}.Skip
	source, err := repo.NewCachedSource(github)
	if err != nil {
		log.Fatal(err)
	}
	defer source.Close()

	a := analyzer.New(source, llmClient)
	a.Prune = cfg.Tuning.PruneConfig()
	a.Fallback = cfg.Tuning.FallbackConfig()
	if cfg.Tuning.MaxDepth > 0 {
		a.MaxDepth = cfg.Tuning.MaxDepth
	}
	if cfg.Tuning.MaxAPICalls > 0 {
		a.MaxAPICalls = cfg.Tuning.MaxAPICalls
	}
	if cfg.Tuning.GuidedMinTokens > 0 {
		a.GuidedMinTokens = cfg.Tuning.GuidedMinTokens
	}

	srv := server.New(cfg.Port, api.CORS(api.NewHandler(a).Routes()))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatal(err)
	}
}
