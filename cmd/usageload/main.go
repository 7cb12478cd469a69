// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/usageload"
	"github.com/poiesic/usageload/core"
	"github.com/poiesic/usageload/ingestion"
	"github.com/poiesic/usageload/mapping"
	"github.com/poiesic/usageload/rows"
	"github.com/urfave/cli/v2"
)

// Environment variables consulted when --target is not given, in order.
const (
	envTarget   = "USAGELOAD_TARGET"
	envMongoURI = "MONGODB_URI"
)

var errNoTarget = fmt.Errorf("no store location: set --target, %s or %s", envTarget, envMongoURI)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "usageload",
		Usage: "Load user behaviour CSV exports into a document store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "load",
				Usage:  "Insert every row of a delimited file as one document",
				Action: loadCommand,
				Flags:  loadFlags(),
			},
			{
				Name:   "ping",
				Usage:  "Check that the store location is reachable",
				Action: pingCommand,
				Flags:  pingFlags(),
			},
		},
	}
}

func loadFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "input",
			Aliases:  []string{"i"},
			Usage:    "Path to the delimited input file",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Target database name",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "collection",
			Aliases:  []string{"c"},
			Usage:    "Target collection name",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "target",
			Usage: fmt.Sprintf("Store location (mongodb://, mongodb+srv://, badger:///path, badger://memory); defaults to $%s, then $%s", envTarget, envMongoURI),
		},
		&cli.StringFlag{
			Name:  "delimiter",
			Usage: "Column delimiter, a single character or \"tab\"",
			Value: ",",
		},
		&cli.BoolFlag{
			Name:  "trim-space",
			Usage: "Trim leading white space from every value",
		},
		&cli.StringFlag{
			Name:  "mapping",
			Usage: "Path to a YAML field mapping table (default: built-in user behaviour layout)",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Environment file read before resolving the store location; ignored if missing",
			Value: ".env",
		},
		&cli.IntFlag{
			Name:  "progress-interval",
			Usage: "Report progress every N records",
			Value: 1000,
		},
		&cli.DurationFlag{
			Name:  "connect-timeout",
			Usage: "Maximum time to establish the store connection",
			Value: 10 * time.Second,
		},
	}
}

func loadCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loadEnvFile(c.String("env-file")); err != nil {
		return err
	}

	location, err := resolveTarget(c.String("target"))
	if err != nil {
		return err
	}

	delimiter, err := rows.ParseDelimiter(c.String("delimiter"))
	if err != nil {
		return err
	}

	table := mapping.DefaultTable()
	if path := c.String("mapping"); path != "" {
		table, err = mapping.LoadTable(path)
		if err != nil {
			return fmt.Errorf("failed to load mapping table: %w", err)
		}
	}

	mapper, err := mapping.NewMapper(table)
	if err != nil {
		return fmt.Errorf("failed to create mapper: %w", err)
	}

	logger := slog.Default()
	open := usageload.NewStoreOpener(
		usageload.WithConnectTimeout(c.Duration("connect-timeout")),
		usageload.WithStoreLogger(logger),
	)

	pipeline, err := ingestion.NewPipeline(open, mapper,
		ingestion.WithDelimiter(delimiter),
		ingestion.WithTrimSpace(c.Bool("trim-space")),
		ingestion.WithProgress(c.App.ErrWriter, c.Int("progress-interval")),
		ingestion.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	job := ingestion.Job{
		Input:    c.String("input"),
		Location: location,
		Target: core.Target{
			Database:   c.String("db"),
			Collection: c.String("collection"),
		},
	}

	logger.Info("starting load",
		"input", job.Input,
		"location", usageload.RedactLocation(location),
		"target", job.Target.String())

	report, err := pipeline.Run(ctx, job)
	fmt.Fprintln(c.App.ErrWriter, report.Summary())
	if report.Digest != "" {
		fmt.Fprintf(c.App.ErrWriter, "input blake2b-256=%s\n", report.Digest)
	}
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	return nil
}

func pingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Database name",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "collection",
			Aliases:  []string{"c"},
			Usage:    "Collection name",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "target",
			Usage: fmt.Sprintf("Store location; defaults to $%s, then $%s", envTarget, envMongoURI),
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Environment file read before resolving the store location; ignored if missing",
			Value: ".env",
		},
		&cli.DurationFlag{
			Name:  "connect-timeout",
			Usage: "Maximum time to establish the store connection",
			Value: 10 * time.Second,
		},
	}
}

// pingCommand opens and immediately releases a store connection.
func pingCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loadEnvFile(c.String("env-file")); err != nil {
		return err
	}

	location, err := resolveTarget(c.String("target"))
	if err != nil {
		return err
	}

	target := core.Target{
		Database:   c.String("db"),
		Collection: c.String("collection"),
	}
	open := usageload.NewStoreOpener(
		usageload.WithConnectTimeout(c.Duration("connect-timeout")),
		usageload.WithStoreLogger(slog.Default()),
	)

	start := time.Now()
	conn, err := open(ctx, location, target)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	if err := conn.Close(context.WithoutCancel(ctx)); err != nil {
		slog.Warn("error closing store connection", "err", err)
	}

	fmt.Fprintf(c.App.ErrWriter, "connected to %s (%s) in %s\n",
		usageload.RedactLocation(location), target.String(), time.Since(start).Round(time.Millisecond))
	return nil
}

// loadEnvFile adds the variables in path to the environment without
// overriding ones already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return nil
}

// resolveTarget picks the store location from the flag value or the environment.
func resolveTarget(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	for _, name := range []string{envTarget, envMongoURI} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, nil
		}
	}
	return "", errNoTarget
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
