// Package main provides the nodeflow command-line interface.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/nodeflow/nodeflow/pkg/cmd"
	"github.com/nodeflow/nodeflow/pkg/log"
	"github.com/nodeflow/nodeflow/pkg/parser"
	"github.com/nodeflow/nodeflow/pkg/schedule"
	"github.com/nodeflow/nodeflow/pkg/scheduler"
	"github.com/nodeflow/nodeflow/pkg/web"
	"github.com/nodeflow/nodeflow/pkg/workflow"
)

const defaultPort = 9091

func main() {
	root := &cli.Command{
		Name:                  "nodeflow",
		Usage:                 "Run and manage node-based workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			validateCommand(),
			apiCommand(),
			scheduleCommand(),
		},
	}

	err := root.Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Execute a workflow file and print the run summary",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to the workflow JSON file",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "var",
				Usage:   "Initial data entries as key=value pairs",
				Aliases: []string{"v"},
			},
			&cli.IntFlag{
				Name:  "max-iterations",
				Usage: "Run loop iteration budget",
				Value: scheduler.DefaultMaxIterations,
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("run")

			wf, err := loadWorkflow(ctx, command.String("file"), logger)
			if err != nil {
				return err
			}

			initialData, err := parseVars(command.StringSlice("var"))
			if err != nil {
				return err
			}

			sched := scheduler.New(
				scheduler.WithLogger(logger),
				scheduler.WithMaxIterations(command.Int("max-iterations")),
			)

			summary, runErr := sched.Run(ctx, wf, initialData)

			out, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to render summary: %w", err)
			}

			fmt.Println(string(out))

			return runErr
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate a workflow file without running it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to the workflow JSON file",
				Required: true,
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("validate")

			wf, err := loadWorkflow(ctx, command.String("file"), logger)
			if err != nil {
				return err
			}

			fmt.Printf("Workflow %q is valid: %d nodes, %d connections, %d conditional routes\n",
				wf.Name, len(wf.Nodes), len(wf.Connections), len(wf.ConditionalRoutes))

			return nil
		},
	}
}

func apiCommand() *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Serve the workflow management and execution API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("api")

			logger.InfoContext(ctx, "Initializing Nodeflow API")

			registry := cmd.NewRegistry(logger)
			persistence := cmd.NewPersistence(ctx, command.String("database-url"))

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			sched := scheduler.New(
				scheduler.WithLogger(logger),
				scheduler.WithPublisher(eventBus),
			)

			repository := workflow.NewRepository(persistence)
			handlers := web.NewAPIHandlers(repository, registry, sched)
			app := web.NewApp(handlers)

			return app.Listen(fmt.Sprintf(":%d", command.Int("port")))
		},
	}
}

func scheduleCommand() *cli.Command {
	return &cli.Command{
		Name:  "schedule",
		Usage: "Run a workflow file on a cron schedule",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to the workflow JSON file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "cron",
				Usage:    "Cron expression, e.g. '*/5 * * * *'",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "var",
				Usage:   "Initial data entries as key=value pairs",
				Aliases: []string{"v"},
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("schedule")

			wf, err := loadWorkflow(ctx, command.String("file"), logger)
			if err != nil {
				return err
			}

			initialData, err := parseVars(command.StringSlice("var"))
			if err != nil {
				return err
			}

			sched := scheduler.New(scheduler.WithLogger(logger))
			runner := schedule.NewRunner(sched, logger)

			if _, err := runner.Add(command.String("cron"), wf, initialData); err != nil {
				return err
			}

			runner.Start()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop

			return runner.Stop(ctx)
		},
	}
}

func loadWorkflow(ctx context.Context, path string, logger *slog.Logger) (*workflow.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}

	logger.Debug("Loaded workflow file", "path", path, "bytes", len(data))

	registry := cmd.NewRegistry(log.WithModule("registry"))

	return parser.ParseAndMaterialize(ctx, data, registry)
}

// parseVars turns key=value pairs into an initial data map. Values that
// parse as JSON keep their typed form; everything else stays a string.
func parseVars(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	vars := make(map[string]any, len(pairs))

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid variable %q, expected key=value", pair)
		}

		var typed any
		if err := json.Unmarshal([]byte(value), &typed); err == nil {
			vars[key] = typed
		} else {
			vars[key] = value
		}
	}

	return vars, nil
}
