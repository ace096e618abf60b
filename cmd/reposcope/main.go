// Command reposcope analyzes a GitHub repository from the terminal.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"reposcope/internal/analyzer"
	"reposcope/internal/config"
	"reposcope/internal/llm"
	"reposcope/internal/repo"
	"reposcope/internal/tree"
)

var (
	flagProvider  string
	flagTokenFile string
	flagNoToken   bool
	flagVerbose   bool
	flagTuning    string
)

func main() {
	root := &cobra.Command{
		Use:           "reposcope",
		Short:         "Summarize GitHub repositories with an LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagProvider, "provider", "", "completion provider (nebius or gemini, auto-detected from env if unset)")
	root.PersistentFlags().StringVar(&flagTokenFile, "token-file", "", "path to GitHub token file")
	root.PersistentFlags().BoolVar(&flagNoToken, "no-token", false, "run without GitHub authentication (60 req/hr limit)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")
	root.PersistentFlags().StringVar(&flagTuning, "config", "", "path to YAML tuning file")

	root.AddCommand(analyzeCmd(), readmeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setup() {
	_ = godotenv.Load()
	if !flagVerbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(0)
}

func newSource() (repo.Source, error) {
	token := config.GitHubToken(flagTokenFile, flagNoToken)
	if token != "" {
		fmt.Println("using GitHub token")
	} else {
		fmt.Println("no token, unauthenticated API (60 req/hr)")
	}
	github := repo.NewGitHubClient(token)
	github.Skip = tree.ShouldSkip
	return repo.NewCachedSource(github)
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <github-url>",
		Short: "Run the full analysis pipeline and print a structured summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setup()
			ctx := context.Background()

			id, err := repo.ParseURL(args[0])
			if err != nil {
				return err
			}

			tuning, err := config.LoadTuning(flagTuning)
			if err != nil {
				return err
			}

			llmClient, err := llm.FromEnv(ctx, flagProvider)
			if err != nil {
				return err
			}
			defer llmClient.Close()

			source, err := newSource()
			if err != nil {
				return err
			}
			defer source.Close()

			a := analyzer.New(source, llmClient)
			a.Prune = tuning.PruneConfig()
			a.Fallback = tuning.FallbackConfig()

			fmt.Printf("analyzing %s\n%s\n", id, strings.Repeat("─", 60))
			result, stats, err := a.Analyze(ctx, id)
			if err != nil {
				return err
			}

			out, _ := json.MarshalIndent(result, "", "  ")
			fmt.Printf("\n%s\nSUMMARY\n%s\n%s\n\n%s\n",
				strings.Repeat("═", 60), strings.Repeat("═", 60), out, stats.Report())
			return nil
		},
	}
}

func readmeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "readme <github-url>",
		Short: "Fetch and print just the README (no LLM calls)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setup()
			ctx := context.Background()

			id, err := repo.ParseURL(args[0])
			if err != nil {
				return err
			}
			source, err := newSource()
			if err != nil {
				return err
			}
			defer source.Close()

			fmt.Printf("fetching %s\n", id)
			entries, err := source.FetchTree(ctx, id, 3, 50)
			if err != nil {
				return err
			}

			var readme *repo.Entry
			for i, e := range entries {
				if !e.IsDir() && strings.HasPrefix(strings.ToLower(e.Name()), "readme") {
					readme = &entries[i]
					break
				}
			}
			if readme == nil {
				fmt.Println("no README found in this repository")
				return nil
			}

			fmt.Printf("reading %s (%d bytes)\n%s\n", readme.Path, readme.Size, strings.Repeat("─", 60))
			content, err := source.FetchFile(ctx, id, readme.Path)
			if err != nil {
				return err
			}
			fmt.Println(content)
			return nil
		},
	}
}
