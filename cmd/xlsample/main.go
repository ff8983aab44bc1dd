// Command xlsample writes a sample transactions report, optionally
// appending CSV files as extra worksheets or continuing an existing
// workbook.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/UNO-SOFT/zlog/v2"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/adnsv/xlreport/report"
	"github.com/adnsv/xlreport/xl"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(); err != nil {
		logger.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

type transaction struct {
	ID       int
	Customer string
	Date     time.Time
	Amount   float64
	Share    float64
}

func sampleTransactions(now time.Time) []transaction {
	day := now.Truncate(24 * time.Hour)
	return []transaction{
		{1, "Alice", day.AddDate(0, 0, -30), 1250.00, 0.125},
		{2, "Bob", day.AddDate(0, 0, -14), 89.99, 0.05},
		{3, "Carol & Sons", day.AddDate(0, 0, -3), 15000, 0.5},
		{4, "Dave", day, -42.5, 0},
	}
}

func Main() error {
	fs := flag.NewFlagSet("xlsample", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	flagOut := fs.String("o", "sample.xlsx", "output file name")
	flagLandscape := fs.Bool("landscape", false, "landscape orientation (default: portrait)")
	flagAppend := fs.String("append", "", "continue an existing workbook instead of starting a new one")
	flagCharset := fs.String("charset", "", "charset of the CSV files (default utf-8)")
	flagTitle := fs.String("title", "Transaction Report", "report title")

	app := ffcli.Command{
		Name:       "xlsample",
		ShortUsage: "xlsample [flags] [sheet:]file.csv...",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix("XLSAMPLE")},
		Exec: func(ctx context.Context, args []string) error {
			orientation := xl.OrientationPortrait
			if *flagLandscape {
				orientation = xl.OrientationLandscape
			}

			var w *report.Writer
			if *flagAppend != "" {
				fh, err := os.Open(*flagAppend)
				if err != nil {
					return err
				}
				w, err = report.Open(fh, *flagTitle, report.WithLogger(logger))
				fh.Close()
				if err != nil {
					return fmt.Errorf("%q: %w", *flagAppend, err)
				}
				if err := w.UseWorksheet("Transactions"); err != nil {
					return err
				}
				appendTransactions(w, sampleTransactions(time.Now()))
			} else {
				w = report.New(report.WithLogger(logger), report.WithAppName("xlsample"))
				if err := writeTransactions(w, *flagTitle, sampleTransactions(time.Now())); err != nil {
					return err
				}
				report.ApplyDefaultReportSettings(w, time.Now(), orientation)
			}

			for _, fn := range args {
				sheetName := strings.TrimSuffix(filepath.Base(fn), ".csv")
				if i := strings.IndexByte(fn, ':'); i >= 0 {
					sheetName, fn = fn[:i], fn[i+1:]
				}
				if err := importCSV(w, sheetName, fn, *flagCharset); err != nil {
					return fmt.Errorf("%q: %w", fn, err)
				}
			}

			if err := w.Err(); err != nil {
				return err
			}
			if err := w.Save(*flagOut); err != nil {
				if xl.IsSerializationIO(err) {
					return fmt.Errorf("cannot write %q: %w", *flagOut, err)
				}
				return err
			}
			logger.Info("report written", "path", *flagOut)
			return nil
		},
	}
	err := app.ParseAndRun(context.Background(), os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func writeTransactions(w *report.Writer, title string, txs []transaction) error {
	if err := report.ApplyDefaultStyling(w, "Transactions", title); err != nil {
		return err
	}
	w.AddRow()
	w.AddHeaderRow(report.Height(20)).
		AddHeader("Id", report.Width(8)).
		AddHeader("Customer", report.Width(30)).
		SetMaxFreezeColumn().
		AddHeader("Date", report.Width(12)).
		AddHeader("Amount", report.Width(16)).
		AddHeader("Share", report.Width(10)).
		SetMaxPrintAreaColumn()
	appendTransactions(w, txs)
	return w.Err()
}

func appendTransactions(w *report.Writer, txs []transaction) {
	first := w.CurrentRow() + 1
	for _, tx := range txs {
		w.AddRow().
			Add(tx.ID).
			Add(tx.Customer).
			Add(tx.Date, report.Format(report.FormatDate)).
			Add(tx.Amount, report.Format(report.FormatMoney)).
			Add(tx.Share, report.Format(report.FormatPercent1))
	}
	last := w.CurrentRow()
	bold := xl.Style{Font: xl.Font{Bold: true}}
	w.AddRow(report.RowStyle(bold)).
		SetBorder(xl.BorderNone, xl.BorderThin, xl.BorderNone, xl.BorderDouble).
		SetAt(2, "Total").
		SetFormulaAt(4, fmt.Sprintf("SUM(D%d:D%d)", first, last), report.Format(report.FormatAccounting))
	logger.Debug("transactions", "rows", len(txs), "first", first, "last", last)
}

func importCSV(w *report.Writer, sheetName, fn, charset string) error {
	fh, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer fh.Close()
	if err := w.AddWorksheet(sheetName); err != nil {
		return err
	}
	n, err := w.AppendCSV(fh, report.CSVOptions{Charset: charset, Header: true, Typed: true})
	if err != nil {
		return err
	}
	w.AutoFitColumns().SetFreezeHeader().PrintHeaderOnEachPage()
	logger.Debug("imported csv", "sheet", sheetName, "rows", n)
	return nil
}
