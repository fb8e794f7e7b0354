package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/smarttags/internal"
	"github.com/starford/smarttags/internal/prompt"
	pkgconfig "github.com/starford/smarttags/pkg/config"
)

const defaultConfigFile = "smarttags.yaml"

// loadConfig reads the config file and applies flag overrides on top of it.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()

	configPath := cmd.String("config")
	load := pkgconfig.LoadOptional[internal.Config]
	if cmd.IsSet("config") {
		load = pkgconfig.Load[internal.Config]
	}
	if err := load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.IsSet("db") {
		cfg.Vocabulary.Path = cmd.String("db")
	}
	if cmd.IsSet("backend") {
		cfg.Vocabulary.Backend = cmd.String("backend")
	}
	if cmd.Bool("yes") {
		cfg.Prompt.Mode = prompt.ModeDefaults
	}
	if cmd.IsSet("log-level") {
		if err := cfg.App.LogLevel.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runAdd(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 2 {
		return cli.Exit("usage: smarttags FILE TAG [TAG...]", 2)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, args[0], args[1:], internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runTags(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ListTags(ctx, internal.WithConfig(cfg))
}

func runLookup(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return cli.Exit("usage: smarttags lookup TAG [TAG...]", 2)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Lookup(ctx, cmd.Args().Slice(), internal.WithConfig(cfg))
}

func runAudit(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("usage: smarttags audit DIR", 2)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Audit(ctx, cmd.Args().First(),
		internal.WithConfig(cfg),
		internal.WithAuditWorkers(int(cmd.Int("workers"))))
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, cmd.String("root"), internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:      "smarttags",
		Usage:     "Add tags to Markdown front matter, keeping them consistent with a shared vocabulary",
		ArgsUsage: "FILE TAG [TAG...]",
		Action:    runAdd,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: defaultConfigFile,
				Value:       defaultConfigFile,
				Sources:     cli.EnvVars("SMART_TAGS_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "Path to the tag vocabulary",
				Value:   "tags_db.json",
				Sources: cli.EnvVars("SMART_TAGS_DB"),
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Vocabulary backend (json or sqlite)",
				Value: "json",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Never prompt; accept the default answer to every question",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "warn",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Resolve tags and add them to a document",
				ArgsUsage: "FILE TAG [TAG...]",
				Action:    runAdd,
			},
			{
				Name:   "tags",
				Usage:  "List the vocabulary",
				Action: runTags,
			},
			{
				Name:      "lookup",
				Usage:     "Show how tags would resolve, without changing anything",
				ArgsUsage: "TAG [TAG...]",
				Action:    runLookup,
			},
			{
				Name:      "audit",
				Usage:     "Check the tags of every Markdown document under a directory",
				ArgsUsage: "DIR",
				Action:    runAudit,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of documents read concurrently",
						Value: 8,
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve the vocabulary and tagging over MCP stdio",
				Action: runMCP,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "root",
						Usage: "Directory documents are addressed relative to",
						Value: ".",
					},
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cmd.Run(ctx, os.Args)
	stop()
	if err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
