package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/slog"

	"github.com/ilyalavrinov/covidboard/internal/dashboard"
	"github.com/ilyalavrinov/covidboard/pkg/covid"
	"github.com/ilyalavrinov/covidboard/pkg/covidreport"
	"github.com/ilyalavrinov/covidboard/pkg/diseasesh"
)

func printCountries(ctx context.Context, client *diseasesh.Client, out io.Writer) error {
	list, err := client.Countries(ctx)
	if err != nil {
		return err
	}
	covidreport.CountriesTable(out, list)
	return nil
}

func render(out io.Writer, st dashboard.State, opts options) error {
	covidreport.SnapshotTable(out, st.Region, st.Data.Snapshot)

	points, page, pages, err := selectPage(st.Daily, opts.page, opts.size)
	if err != nil {
		return err
	}
	if pages > 0 {
		covidreport.DailyTable(out, points, page, pages)
	}

	if opts.xlsx != "" {
		if err := writeFile(opts.xlsx, func(w io.Writer) error {
			return covidreport.WriteXlsx(w, st.Data, st.Daily)
		}); err != nil {
			return err
		}
	}
	if opts.chart != "" {
		if err := writeFile(opts.chart, func(w io.Writer) error {
			return covidreport.RenderChart(w, st.Region, st.Daily)
		}); err != nil {
			if !errors.Is(err, covidreport.ErrNotEnoughData) {
				return err
			}
			slog.Warn("chart skipped", "region", st.Region.String(), "days", len(st.Daily))
		}
	}
	return nil
}

// selectPage maps the 1-based -page flag to a page of points; 0 is the last page.
func selectPage(daily []covid.DailyPoint, page, size int) ([]covid.DailyPoint, int, int, error) {
	if page == 0 {
		points, idx := covid.LastPage(daily, size)
		_, pages := covid.Page(daily, 0, size)
		return points, idx, pages, nil
	}
	points, pages := covid.Page(daily, page-1, size)
	if page > pages {
		return nil, 0, pages, fmt.Errorf("page %d is out of range, there are %d pages", page, pages)
	}
	return points, page - 1, pages, nil
}

// writeFile removes a partially written file when fill fails.
func writeFile(name string, fill func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		os.Remove(name)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Info("written", "file", name)
	return nil
}
