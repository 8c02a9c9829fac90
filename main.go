package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetwhen/api"
	"meetwhen/config"
	"meetwhen/database"
	"meetwhen/logger"
	"meetwhen/metrics"
	"meetwhen/ratelimit"
	"meetwhen/schedule"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "meetwhen",
		Usage: "Find the time slots that work for most members of a group.",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			normalizeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "meetwhen:", err)
		os.Exit(1)
	}
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "Apply the schema before serving."},
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info("connecting to database", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))
			db, err := database.Connect(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("database connect: %w", err)
			}
			defer db.Close()

			if c.Bool("migrate") {
				if err := database.Migrate(ctx, db); err != nil {
					return err
				}
				log.Info("schema applied")
			}

			opts := []api.Option{api.WithMetrics(metrics.New())}
			if cfg.RateLimit.Enabled {
				rdb, err := ratelimit.NewRedisClient(ctx, cfg.Redis)
				if err != nil {
					return fmt.Errorf("redis connect: %w", err)
				}
				defer rdb.Close()
				limiter := ratelimit.NewLimiter(ratelimit.NewRedisCounter(rdb), cfg.RateLimit, "meetwhen:submit", log)
				opts = append(opts, api.WithLimiter(limiter))
				log.Info("rate limiting submissions", zap.Int("requests", cfg.RateLimit.Requests), zap.Duration("window", cfg.RateLimit.Window))
			}

			service := api.NewAPI(db, cfg, log, opts...)
			service.RegisterRoutes()

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.Port),
				Handler:           service.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("server starting", zap.Int("port", cfg.Port), zap.String("env", cfg.Env))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the database tables.",
		Action: func(c *cli.Context) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := database.Connect(c.Context, cfg.Database)
			if err != nil {
				return fmt.Errorf("database connect: %w", err)
			}
			defer db.Close()

			if err := database.Migrate(c.Context, db); err != nil {
				return err
			}
			log.Info("schema applied", zap.String("database", cfg.Database.Name))
			return nil
		},
	}
}

func normalizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "normalize",
		Usage: "Print the canonical form of a mini-app slot.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Required: true, Usage: "date as DD/MM/YYYY"},
			&cli.StringFlag{Name: "time", Required: true, Usage: "time as HHMM or HMM"},
		},
		Action: func(c *cli.Context) error {
			raw := schedule.RawSlot{Date: c.String("date"), Time: c.String("time")}
			if err := schedule.CheckSlot(raw); err != nil {
				fmt.Fprintln(c.App.ErrWriter, "warning:", err)
			}
			return json.NewEncoder(c.App.Writer).Encode(schedule.NormalizeSlot(raw))
		},
	}
}
