package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"

	"github.com/Yoosu-L/llmcompare/internal/api"
	"github.com/Yoosu-L/llmcompare/internal/config"
	"github.com/Yoosu-L/llmcompare/internal/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the CLI and returns the process exit code. Only startup
// failures return 1; failed trials and models never change the exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "", 0)

	flags := pflag.NewFlagSet("llmcompare", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringP(config.KeyAPIBase, "u", config.DefaultAPIBase, "Base URL of the OpenAI-compatible API (env "+config.EnvAPIBase+")")
	flags.StringP(config.KeyAPIKey, "k", "", "API key for authentication (env "+config.EnvAPIKey+")")
	flags.StringSliceP(config.KeyModels, "m", config.DefaultModels, "Comma-separated models to compare, in report order (env "+config.EnvModels+")")
	flags.IntP(config.KeyPromptTokens, "n", config.DefaultTargetPromptTokens, "Approximate prompt size in tokens")
	flags.IntP(config.KeyTrials, "r", config.DefaultTrialsPerModel, "Measured trials per model after warmup")
	flags.IntP(config.KeyMaxTokens, "t", config.DefaultMaxOutputTokens, "Maximum number of tokens to generate per trial")
	flags.Duration(config.KeyTrialTimeout, 0, "Abort a trial after this long (0 waits indefinitely)")
	envFile := flags.String("env-file", ".env", "Optional dotenv file loaded before reading the environment")
	format := flags.StringP("format", "f", formatText, "Output format: text, json or yaml")
	progress := flags.Bool("progress", false, "Show a per-trial progress bar on stderr")
	listModels := flags.Bool("list-models", false, "List the models served by the endpoint and exit")
	help := flags.BoolP("help", "h", false, "Show this help message")

	if err := flags.Parse(args); err != nil {
		return 1
	}
	if *help {
		fmt.Fprintf(stderr, "Usage of llmcompare:\n")
		flags.PrintDefaults()
		return 0
	}
	if !validFormat(*format) {
		logger.Printf("Error: unknown output format %q", *format)
		return 1
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Printf("Error: loading %s: %v", *envFile, err)
		return 1
	}

	v := config.NewViper()
	if err := v.BindPFlags(flags); err != nil {
		logger.Printf("Error: binding flags: %v", err)
		return 1
	}
	cfg, err := config.Load(v)
	if err != nil {
		logger.Printf("Error: %v", err)
		return 1
	}

	client := api.NewClient(cfg)

	if *listModels {
		ids, err := client.ListModelIDs(ctx)
		if err != nil {
			logger.Printf("Error: %v", err)
			return 1
		}
		for _, id := range ids {
			fmt.Fprintln(stdout, id)
		}
		return 0
	}

	progressOut := stdout
	if *format != formatText {
		progressOut = stderr
	}

	probeOpts := []utils.ProbeOption{utils.WithOutput(progressOut)}
	if *progress {
		probeOpts = append(probeOpts, utils.WithProgress(stderr))
	}
	probe := utils.NewProbe(client, cfg, probeOpts...)

	benchmark := &Benchmark{
		Config: cfg,
		Format: *format,
		Runner: utils.NewRunner(probe, cfg, progressOut),
		Stdout: stdout,
		Log:    progressOut,
	}
	if err := benchmark.runCli(ctx); err != nil {
		logger.Printf("Error: %v", err)
	}
	return 0
}
