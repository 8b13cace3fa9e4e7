package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"timesheet-summary/src/pkg/config"
	"timesheet-summary/src/pkg/report"
	"timesheet-summary/src/pkg/timesheet"
	"timesheet-summary/src/pkg/util"
)

/*
main renders a weekly summary report from a local timesheet file, without
sending anything. Useful for checking what the email will look like.

Example:

	go run ./src/cmd/report -input ./tmp/timesheet.xlsx -o ./tmp/report.html
*/
func main() {
	// Common flags.
	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")

	// Program-specific flags.
	inputPath := flag.String("input", "", "Path to a timesheet file (.xlsx or .csv).")
	outputPath := flag.String("o", "", "Output HTML path (default: ./tmp/report-YYYY-MM-DD.html)")
	titleFlag := flag.String("title", "", "Report title (default: Weekly Summary Report)")

	flag.Parse()
	util.RequiredFlag(inputPath, "input")
	util.EnsureFlags()
	config.InitializeConfig(*configPath)

	var timesheetConfig timesheet.Config
	if config.DecodeSection("timesheet", &timesheetConfig) {
		timesheet.InitializeConfig(&timesheetConfig)
	} else {
		timesheet.InitializeConfig(nil)
	}

	now := time.Now()
	ranges := timesheet.ComputeWeekRanges(now)

	finalOutputPath := *outputPath
	if finalOutputPath == "" {
		finalOutputPath = fmt.Sprintf("./tmp/report-%s.html", ranges.CurrentStart.Format("2006-01-02"))
	}

	tl.Log(
		tl.Notice, palette.BlueBold, "%s weekly summary report for '%s'",
		"Generating", *inputPath,
	)

	document, e := buildDocument(*inputPath, ranges, *titleFlag, now)
	if e != nil {
		e.QuitIf("error")
	}

	writeErr := os.WriteFile(finalOutputPath, []byte(document.HTMLBody), 0o644)
	xerr.QuitIfError(writeErr, "write HTML report file")

	tl.Log(tl.Info1, palette.Green, "Saved report to '%s'", finalOutputPath)
	tl.Log(tl.Info, palette.Cyan, "Subject would be: '%s'", document.Subject)
}

func buildDocument(inputPath string, ranges timesheet.WeekRanges, title string, now time.Time) (document report.Document, e *xerr.Error) {
	fileReader, openErr := os.Open(inputPath)
	if openErr != nil {
		e = xerr.NewError(openErr, "open timesheet file", inputPath)
		return document, e
	}
	defer func() {
		_ = fileReader.Close()
	}()

	table, e := timesheet.DecodeUpload(fileReader, inputPath)
	if e != nil {
		return document, e
	}

	rows, e := timesheet.ExtractRows(table, ranges)
	if e != nil {
		return document, e
	}

	summary, e := timesheet.Summarize(rows, timesheet.Policy())
	if e != nil {
		return document, e
	}

	document = report.Build(summary, ranges, title, now)
	return document, e
}
