// cmd/teamctl/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Teamgrid/internal/app"
	"github.com/codr1/Teamgrid/internal/config"
	"github.com/codr1/Teamgrid/internal/db"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, s *app.Services, args []string, out io.Writer) error
}

var commands = []command{
	{"create-admin", "Create an approved admin account", runCreateAdmin},
	{"link-discord", "Link a Discord user id to an account", runLinkDiscord},
	{"clear-nudge-cooldown", "Clear sent nudges so a user can be nudged again", runClearNudgeCooldown},
	{"send-notifications", "Send Discord reminders for upcoming matches", runSendNotifications},
	{"resync-valorant", "Re-sync stats of matches with a stored Valorant match id", runResyncValorant},
}

var errUsage = errors.New("usage")

func usage(out io.Writer) {
	fmt.Fprintln(out, "Usage: teamctl [-config path] <command> [flags]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintf(out, "  %-22s %s\n", "migrate", "Apply, roll back or inspect schema migrations")
	for _, c := range commands {
		fmt.Fprintf(out, "  %-22s %s\n", c.name, c.summary)
	}
}

func main() {
	configPath := flag.String("config", envOr("TEAMGRID_CONFIG", "config.yaml"), "Path to the YAML config file")
	flag.Usage = func() { usage(os.Stderr) }
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	args := flag.Args()
	if len(args) == 0 {
		usage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("Failed to load configuration")
	}
	if cfg.Features.EnableDebug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.Logger.WithContext(ctx)

	if err := dispatch(ctx, cfg, args[0], args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		log.Error().Err(err).Str("command", args[0]).Msg("Command failed")
		os.Exit(1)
	}
}

func dispatch(ctx context.Context, cfg *config.Config, name string, args []string, out io.Writer) error {
	if name == "migrate" {
		return runMigrate(cfg, args, out)
	}

	for _, c := range commands {
		if c.name != name {
			continue
		}
		database, err := db.NewFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer database.Close()

		services, err := app.New(cfg, database)
		if err != nil {
			return err
		}
		defer services.Close()
		return c.run(ctx, services, args, out)
	}

	fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
	usage(os.Stderr)
	return errUsage
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
