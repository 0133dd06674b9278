// Command authcli is an interactive terminal front end for the credential API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/isdelr/messenger-auth/internal/client"
	"github.com/isdelr/messenger-auth/internal/config"
	"github.com/isdelr/messenger-auth/internal/logger"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	server := flag.String("server", cfg.ServerURL, "base URL of the credential API")
	flag.Parse()

	logger.Init(cfg.LogLevel, true)

	api, err := client.New(*server, cfg.Timeout)
	if err != nil {
		log.Fatal().Err(err).Str("server", *server).Msg("Invalid server URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sh := newShell(api, os.Stdin, os.Stdout)
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		sh.readSecret = func() (string, error) {
			raw, err := term.ReadPassword(fd)
			fmt.Fprintln(os.Stdout)
			return string(raw), err
		}
	}

	if err := sh.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Terminal client stopped")
	}
}
