package main

import (
	"context"
	stdlog "log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"github.com/zl90/agentic-grants-assessment/cmd"
	"github.com/zl90/agentic-grants-assessment/internal/config"
	"github.com/zl90/agentic-grants-assessment/internal/logger"
	"github.com/zl90/agentic-grants-assessment/internal/trigger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdlog.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		stdlog.Printf("Warning: Could not load configuration: %v", err)
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			stdlog.Fatalf("Failed to initialize logger: %v", err)
		}
	} else {
		if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
			stdlog.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	// Inside Lambda the binary serves the upload trigger; anywhere else it
	// is the operator CLI.
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		log := logger.WithComponent("main")
		if cfg == nil {
			log.Fatal().Msg("Valid configuration is required to run as a Lambda handler")
		}

		handler, err := trigger.NewFromConfig(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to wire upload trigger")
		}

		log.Info().Msg("Starting upload trigger handler")
		lambda.Start(handler.Handle)
		return
	}

	cmd.Execute()
}
