package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/triage"
	"github.com/aretw0/triage/internal/config"
	"github.com/aretw0/triage/internal/logging"
	"github.com/aretw0/triage/pkg/adapters/memory"
	"github.com/aretw0/triage/pkg/adapters/openai"
	"github.com/aretw0/triage/pkg/domain"
	"github.com/aretw0/triage/pkg/observability"
	"github.com/aretw0/triage/pkg/ports"
	"github.com/aretw0/triage/pkg/runner"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Triage customer-support queries with a language model",
	Long: `Triage classifies each customer query by category and sentiment, then answers it
with a category-specific prompt or escalates it to a human agent when the customer is unhappy.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitCode reports a failure that was already shown to the user.
type exitCode int

func (c exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(c))
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var code exitCode
		if errors.As(err, &code) {
			os.Exit(int(code))
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to the configuration file (default "+config.DefaultPath+" if present)")
	flags.String("env-file", ".env", "Dotenv file loaded before reading the configuration")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")
	flags.String("model", "", "Chat completion model")
	flags.String("base-url", "", "OpenAI-compatible API base URL")
	flags.String("prompts", "", "Directory of prompt template overrides")
	flags.Bool("offline", false, "Use the keyword heuristic instead of a language model")
}

// app carries what every command needs after flag parsing.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	sanitizer *runner.Sanitizer
	offline   bool
}

func setup(cmd *cobra.Command) (*app, error) {
	flags := cmd.Flags()

	envFile, _ := flags.GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}

	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	override := func(name string, dst *string) {
		if v, _ := flags.GetString(name); flags.Changed(name) {
			*dst = v
		}
	}
	override("log-level", &cfg.Log.Level)
	override("log-format", &cfg.Log.Format)
	override("model", &cfg.LLM.Model)
	override("base-url", &cfg.LLM.BaseURL)
	override("prompts", &cfg.Prompts.Dir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	offline, _ := flags.GetBool("offline")
	return &app{
		cfg:       cfg,
		logger:    logging.New(level, format),
		sanitizer: runner.NewSanitizer(runner.WithMaxInputSize(cfg.Input.MaxSize)),
		offline:   offline,
	}, nil
}

func (a *app) completer() ports.Completer {
	if a.offline {
		return memory.Offline{}
	}
	return openai.New(openai.Config{
		APIKey:      a.cfg.APIKey(),
		BaseURL:     a.cfg.LLM.BaseURL,
		Model:       a.cfg.LLM.Model,
		Temperature: a.cfg.LLM.Temperature,
	})
}

// engine compiles the workflow. Configuration problems surface here.
func (a *app) engine(cmd *cobra.Command, hooks ...domain.LifecycleHooks) (*triage.Engine, error) {
	opts := []triage.Option{
		triage.WithLogger(a.logger),
		triage.WithNodeTimeout(a.cfg.Engine.NodeTimeout),
		triage.WithMaxInputSize(a.cfg.Input.MaxSize),
		triage.WithLifecycleHooks(observability.AuditHooks(a.logger, observability.WithRedactor(observability.DefaultRedactor()))),
	}
	if a.cfg.Prompts.Dir != "" {
		opts = append(opts, triage.WithPromptDir(a.cfg.Prompts.Dir))
	}
	for _, h := range hooks {
		opts = append(opts, triage.WithLifecycleHooks(h))
	}

	eng, err := triage.NewContext(cmd.Context(), a.completer(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build workflow: %w", err)
	}
	return eng, nil
}
