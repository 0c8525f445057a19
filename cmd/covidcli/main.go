package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"github.com/ilyalavrinov/covidboard/internal/dashboard"
	"github.com/ilyalavrinov/covidboard/pkg/covid"
	"github.com/ilyalavrinov/covidboard/pkg/diseasesh"
	"github.com/ilyalavrinov/covidboard/pkg/tgbotbase"
)

type options struct {
	region    string
	page      int
	size      int
	chart     string
	xlsx      string
	countries bool
	watch     time.Duration
	baseURL   string
	lastDays  int
	proxy     string
	timeout   time.Duration
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.region, "region", "global", "\"global\", a two-letter country code or a country name")
	flag.IntVar(&opts.page, "page", 0, "daily table page starting from 1, 0 for the most recent one")
	flag.IntVar(&opts.size, "size", covid.DefaultPageSize, "days per daily table page")
	flag.StringVar(&opts.chart, "chart", "", "write the chart into this png file")
	flag.StringVar(&opts.xlsx, "xlsx", "", "write counters and the daily series into this xlsx file")
	flag.BoolVar(&opts.countries, "countries", false, "list selectable countries and exit")
	flag.DurationVar(&opts.watch, "watch", 0, "refresh and print again with this interval until interrupted")
	flag.StringVar(&opts.baseURL, "base-url", diseasesh.DefaultBaseURL, "disease.sh API root")
	flag.IntVar(&opts.lastDays, "lastdays", diseasesh.DefaultLastDays, "history depth in days, 0 for the whole history")
	flag.StringVar(&opts.proxy, "proxy", "", "SOCKS5 proxy host:port")
	flag.DurationVar(&opts.timeout, "timeout", 30*time.Second, "http timeout")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		slog.Error("covidcli failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	if opts.watch < 0 || opts.size < 0 || opts.page < 0 {
		return fmt.Errorf("negative -watch, -size or -page")
	}
	httpClient, err := tgbotbase.NewHTTPClient(tgbotbase.SOCKS5Config{Server: opts.proxy}, opts.timeout)
	if err != nil {
		return err
	}
	client := diseasesh.NewClient(opts.baseURL,
		diseasesh.WithHTTPClient(httpClient),
		diseasesh.WithLastDays(opts.lastDays))

	if opts.countries {
		return printCountries(ctx, client, out)
	}

	region, err := resolveRegion(ctx, client, opts.region)
	if err != nil {
		return err
	}

	dash := dashboard.New(client)
	st, err := dash.Select(ctx, region)
	if err != nil {
		return err
	}
	if err := render(out, st, opts); err != nil {
		return err
	}
	if opts.watch == 0 {
		return nil
	}

	slog.Info("watching", "region", region.String(), "interval", opts.watch)
	return watch(ctx, dash, opts, out)
}

func resolveRegion(ctx context.Context, client *diseasesh.Client, input string) (covid.Region, error) {
	if region, err := covid.ParseRegion(input); err == nil {
		return region, nil
	}
	list, err := client.Countries(ctx)
	if err != nil {
		return "", err
	}
	return list.ResolveRegion(input)
}

func watch(ctx context.Context, dash *dashboard.Dashboard, opts options, out io.Writer) error {
	cron := tgbotbase.NewCron(ctx)
	failed := make(chan error, 1)
	cron.AddJob(time.Now().Add(opts.watch), &tgbotbase.Every{
		Interval: opts.watch,
		Fn: func(time.Time) bool {
			st, err := dash.Refresh(ctx)
			if ctx.Err() != nil {
				return false
			}
			if err != nil {
				slog.Warn("refresh failed", "region", st.Region.String(), "err", err)
				return true
			}
			if err := render(out, st, opts); err != nil {
				failed <- err
				return false
			}
			return true
		},
	})

	select {
	case <-ctx.Done():
		return nil
	case err := <-failed:
		return err
	}
}
