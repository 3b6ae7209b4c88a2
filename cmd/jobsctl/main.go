package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/justsurfingit/medstaff/internal/app"
	"github.com/justsurfingit/medstaff/internal/auth"
	"github.com/justsurfingit/medstaff/internal/config"
	"github.com/justsurfingit/medstaff/internal/database"
	"github.com/justsurfingit/medstaff/internal/notify"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:          "jobsctl",
		Short:        "Maintenance commands for the medical staffing job board",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML config file")

	// withApp loads config, wires services and runs fn with a context that
	// is cancelled on SIGINT/SIGTERM.
	withApp := func(fn func(ctx context.Context, a *app.App) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a := app.New(ctx, cfg)
			defer a.Close()
			return fn(ctx, a)
		}
	}

	root.AddCommand(&cobra.Command{
		Use:   "sweep",
		Short: "Flag jobs past their expiry as inactive",
		RunE: withApp(func(ctx context.Context, a *app.App) error {
			n, err := a.Jobs.SweepExpiredJobs(ctx)
			if err != nil {
				return err
			}
			return printJSON(map[string]int64{"deactivated": n})
		}),
	})

	var city string
	discoverCmd := &cobra.Command{
		Use:   "discover",
		Short: "Search for unlisted facilities and add them as pending",
		RunE: withApp(func(ctx context.Context, a *app.App) error {
			cities := a.Config.Enrichment.Cities
			if city != "" {
				cities = []string{city}
			}
			res, err := a.Enrichment.Discover(ctx, cities)
			if err != nil {
				return err
			}
			return printJSON(res)
		}),
	}
	discoverCmd.Flags().StringVar(&city, "city", "", "Only search this city")
	root.AddCommand(discoverCmd)

	root.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Fill missing contact details on unverified facilities",
		RunE: withApp(func(ctx context.Context, a *app.App) error {
			res, err := a.Enrichment.Verify(ctx)
			if err != nil {
				return err
			}
			return printJSON(res)
		}),
	})

	root.AddCommand(&cobra.Command{
		Use:   "search-jobs",
		Short: "Suggest openings for verified facilities as pending jobs",
		RunE: withApp(func(ctx context.Context, a *app.App) error {
			res, err := a.Enrichment.SearchJobs(ctx)
			if err != nil {
				return err
			}
			return printJSON(res)
		}),
	})

	root.AddCommand(&cobra.Command{
		Use:   "notify-worker",
		Short: "Deliver queued owner notifications until interrupted",
		RunE: withApp(func(ctx context.Context, a *app.App) error {
			rq := a.Config.RabbitMQ
			if rq.URL == "" {
				return errors.New("rabbitmq.url is not configured")
			}
			q, ch, err := notify.DialQueue(rq.URL, rq.Queue)
			if err != nil {
				return err
			}
			defer q.Close()

			w := &notify.Worker{Deliver: a.DirectNotifier(ctx)}
			if err := w.Run(ctx, ch, rq.Queue); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		}),
	})

	root.AddCommand(&cobra.Command{
		Use:   "gmail-login",
		Short: "Authorize Gmail sending and store the token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return auth.LoginWithWeb(cmd.Context(), cfg.Gmail.CredentialsPath, cfg.Gmail.TokenPath, os.Stdin, os.Stdout)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Insert a demo admin, facilities and jobs into an empty database",
		RunE: withApp(func(ctx context.Context, a *app.App) error {
			if a.DB == nil {
				return errors.New("database is not available")
			}
			ttl := time.Duration(a.Config.JobTTLDays) * 24 * time.Hour
			token, err := database.Seed(a.DB.WithContext(ctx), ttl)
			if err != nil {
				return err
			}
			if token == "" {
				fmt.Println("Database already has facilities, nothing seeded.")
				return nil
			}
			fmt.Printf("Admin API token: %s\n", token)
			return nil
		}),
	})

	if err := root.Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
