package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"CustomerChurnPrediction/internal/config"
	"CustomerChurnPrediction/internal/inference"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	modelPath     string
	modelURL      string
	schemaPath    string
	requireSchema bool
	logLevel      string
	httpPort      string
)

var rootCmd = &cobra.Command{
	Use:          "churn",
	Short:        "Customer churn prediction service",
	Long:         "Serves the churn prediction form, JSON API and websocket stream, or scores a single profile from the command line.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		applyFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = newLogger(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&modelPath, "model", "", "model artifact path (overrides MODEL_PATH)")
	flags.StringVar(&modelURL, "model-url", "", "remote model server base URL (overrides MODEL_URL)")
	flags.StringVar(&schemaPath, "schema", "", "feature schema artifact path (overrides SCHEMA_PATH)")
	flags.BoolVar(&requireSchema, "require-schema", false, "fail at startup when the schema artifact is missing")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	flags.StringVar(&httpPort, "port", "", "HTTP listen port for serve (overrides HTTP_PORT)")

	rootCmd.AddCommand(serveCmd, predictCmd)
}

// applyFlags lets explicitly set flags win over the environment.
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.ModelPath = modelPath
	}
	if flags.Changed("model-url") {
		cfg.ModelURL = modelURL
	}
	if flags.Changed("schema") {
		cfg.SchemaPath = schemaPath
	}
	if flags.Changed("require-schema") {
		cfg.RequireSchema = requireSchema
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("port") {
		cfg.HTTPPort = httpPort
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg.Level = level
	return zcfg.Build()
}

func inferenceOptions() inference.Options {
	return inference.Options{
		ModelPath:     cfg.ModelPath,
		ModelURL:      cfg.ModelURL,
		ModelTimeout:  cfg.ModelTimeout,
		SchemaPath:    cfg.SchemaPath,
		RequireSchema: cfg.RequireSchema,
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
