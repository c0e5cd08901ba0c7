package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"

	"notectl/internal/buildinfo"
	"notectl/internal/cli"
	"notectl/internal/config"
	"notectl/internal/logging"
)

func main() {
	buildinfo.Print(os.Stdout)

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.NewConsoleLogger(os.Stderr, zerolog.InfoLevel)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "notectl> ",
		HistoryFile:     os.TempDir() + "/notectl_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Fatalf("Failed to initialize readline: %v", err)
	}
	defer rl.Close()

	app, err := cli.NewApp(ctx, cfg, logger, rl)
	if err != nil {
		log.Fatalf("%v", err)
	}

	// Let the startup verification settle so the first prompt is decided;
	// an unreachable backend falls through to the guard's suspend notice.
	waitCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	_ = app.WaitReady(waitCtx)
	cancel()

	fmt.Println("notectl (type 'help' for commands)")
	app.Run(ctx)
}
