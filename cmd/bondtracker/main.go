// Command bondtracker is the interactive consumer: it shows the tracking view,
// configures the bond, and previews what the widget renders.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	grpcadapter "github.com/simaogato/bondtracker-backend/internal/adapter/grpc"
	"github.com/simaogato/bondtracker-backend/internal/app"
	"github.com/simaogato/bondtracker-backend/internal/config"
	"github.com/simaogato/bondtracker-backend/internal/logging"
	"github.com/simaogato/bondtracker-backend/internal/usecase/bondstore"
	"github.com/simaogato/bondtracker-backend/internal/usecase/dashboard"
	"github.com/simaogato/bondtracker-backend/internal/usecase/setup"
	"github.com/simaogato/bondtracker-backend/internal/usecase/widget"
)

const dateFlagLayout = "2006-01-02"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, time.Now).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env holds what every subcommand needs once configuration is loaded
type env struct {
	cfg     *config.Config
	logger  *logrus.Logger
	storage *app.Storage
	reloads *app.Reloads
	store   *bondstore.BondStateStore
}

func newApp(out io.Writer, now func() time.Time) *cli.App {
	var e env

	return &cli.App{
		Name:   "bondtracker",
		Usage:  "track how much of a service bond is still owed",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a TOML configuration file",
				EnvVars: []string{"BONDTRACKER_CONFIG"},
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			e.cfg = cfg
			e.logger = logging.New(cfg.LogLevel, cfg.LogFormat)
			return nil
		},
		After: func(c *cli.Context) error {
			return e.close()
		},
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "show the tracking view",
				Action: func(c *cli.Context) error {
					if err := e.open(c.Context); err != nil {
						return err
					}
					summary := dashboard.NewDashboardService(e.store).GetSummary(now())
					printSummary(c.App.Writer, summary)
					return nil
				},
			},
			{
				Name:  "setup",
				Usage: "configure the bond amount, service days and start date",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "amount", Usage: "total bond amount in dollars"},
					&cli.StringFlag{Name: "days", Usage: "total service days"},
					&cli.StringFlag{Name: "start", Usage: "service start date (YYYY-MM-DD), defaults to today"},
				},
				Action: func(c *cli.Context) error {
					if err := e.open(c.Context); err != nil {
						return err
					}
					service := setup.NewSetupService(e.store)

					if !c.IsSet("amount") && !c.IsSet("days") {
						printPrefill(c.App.Writer, service.Prefill())
						return nil
					}

					start := now()
					if c.IsSet("start") {
						parsed, err := time.ParseInLocation(dateFlagLayout, c.String("start"), time.Local)
						if err != nil {
							return cli.Exit("Please enter the start date as YYYY-MM-DD", 1)
						}
						start = parsed
					}

					_, err := service.Configure(c.Context, setup.SetupInput{
						Amount:    c.String("amount"),
						Days:      c.String("days"),
						StartDate: start,
					})
					var verr *setup.ValidationError
					if errors.As(err, &verr) {
						return cli.Exit(verr.Message, 1)
					}
					if err != nil {
						return err
					}

					printSummary(c.App.Writer, dashboard.NewDashboardService(e.store).GetSummary(now()))
					return nil
				},
			},
			{
				Name:  "widget",
				Usage: "preview the widget timeline",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "remote", Usage: "address of a running widgetd to query instead of local storage"},
					&cli.BoolFlag{Name: "placeholder", Usage: "show the layout placeholder"},
					&cli.IntFlag{Name: "ahead", Usage: "entries after today (local only)", Value: -1},
				},
				Action: func(c *cli.Context) error {
					timeline, err := e.timeline(c, now)
					if err != nil {
						return err
					}
					printTimeline(c.App.Writer, timeline)
					return nil
				},
			},
		},
	}
}

// open connects storage and loads the live state
func (e *env) open(ctx context.Context) error {
	storage, err := app.OpenStorage(ctx, e.cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	e.storage = storage

	reloads, err := app.OpenReloads(ctx, *e.cfg, e.logger)
	if err != nil {
		// The widget still refreshes at midnight without the bus
		e.logger.WithError(err).Warn("reload bus unavailable")
	}
	e.reloads = reloads

	e.store = bondstore.NewBondStateStore(storage.Settings, reloads.Notifier(), e.logger)
	e.store.Load(ctx)
	return nil
}

func (e *env) close() error {
	var err error
	if e.reloads != nil {
		err = e.reloads.Close()
	}
	if e.storage != nil {
		err = errors.Join(err, e.storage.Close())
	}
	return err
}

func (e *env) timeline(c *cli.Context, now func() time.Time) (widget.Timeline, error) {
	if addr := c.String("remote"); addr != "" {
		client, conn, err := grpcadapter.Dial(addr)
		if err != nil {
			return widget.Timeline{}, err
		}
		defer conn.Close()

		if c.Bool("placeholder") {
			entry, err := client.Placeholder(c.Context)
			return widget.Timeline{Entries: []widget.Entry{entry}}, err
		}
		return client.Timeline(c.Context)
	}

	if err := e.open(c.Context); err != nil {
		return widget.Timeline{}, err
	}
	provider := widget.NewTimelineProvider(e.storage.Settings, e.logger)
	provider.Now = now
	provider.EntriesAhead = e.cfg.Widget.EntriesAhead
	if ahead := c.Int("ahead"); ahead >= 0 {
		provider.EntriesAhead = ahead
	}

	if c.Bool("placeholder") {
		return widget.Timeline{Entries: []widget.Entry{provider.Placeholder(now())}}, nil
	}
	return provider.Timeline(c.Context), nil
}
