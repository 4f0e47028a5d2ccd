package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "embed"

	"github.com/tigerroll/simplebatch/example/transactions/app"
	"github.com/tigerroll/simplebatch/pkg/batch/util/logger"
)

//go:embed resources/application.yaml
var embeddedConfig []byte

//go:embed resources/job.yaml
var embeddedJob []byte

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Warnf("received signal '%v', stopping the job", sig)
		cancel()
	}()

	envFilePath := os.Getenv("ENV_FILE_PATH")
	if envFilePath == "" {
		envFilePath = ".env"
	}

	// An argument overrides the input file named in the job definition.
	inputPath := ""
	if len(os.Args) > 1 {
		inputPath = os.Args[1]
	}

	os.Exit(app.RunApplication(ctx, envFilePath, embeddedConfig, embeddedJob, inputPath))
}
