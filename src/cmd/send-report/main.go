// entrypoint with multiple subprograms around email delivery
package main

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"timesheet-summary/src/pkg/config"
	"timesheet-summary/src/pkg/email"
	"timesheet-summary/src/pkg/report"
	"timesheet-summary/src/pkg/timesheet"
	"timesheet-summary/src/pkg/util"
)

/*
send runs the full pipeline from a local timesheet file and emails the
summary, exactly like the upload endpoint would.
*/
func send(subprogram string, flags []string) {
	email.CheckProviderEnvVars()

	// common flags
	subprogramCmd := flag.NewFlagSet(subprogram, flag.ExitOnError)
	configPath := subprogramCmd.String("config", "./cfg/config.json", "Path to your configuration file.")

	// custom flags
	inputPath := subprogramCmd.String("input", "", "Path to a timesheet file (.xlsx or .csv)")
	provider := subprogramCmd.String("provider", "", "Provider to use when sending emails (default: from config)")
	senderAddress := subprogramCmd.String("sender", "", "Sender's address (default: from config)")
	recipientAddress := subprogramCmd.String("recipient", "", "Recipient's address, comma-separated for several")
	titleFlag := subprogramCmd.String("title", "", "Report title")

	// parse and init config
	xerr.QuitIfError(subprogramCmd.Parse(flags), "Unable to subprogramCmd.Parse")
	config.InitializeConfig(*configPath)
	initializePackageConfigs()

	if *provider == "" {
		*provider = email.Cfg.Provider
	}
	if *senderAddress == "" {
		*senderAddress = email.Cfg.SenderAddress
	}
	if *recipientAddress == "" {
		*recipientAddress = email.Cfg.DefaultRecipient
	}

	util.RequiredFlag(inputPath, "input")
	util.RequiredFlag(senderAddress, "sender")
	util.RequiredFlag(recipientAddress, "recipient")
	util.EnsureFlags()

	recipientAddresses := strings.Split(*recipientAddress, ",")

	now := time.Now()
	ranges := timesheet.ComputeWeekRanges(now)

	document, e := buildDocument(*inputPath, ranges, *titleFlag, now)
	if e != nil {
		e.QuitIf("error")
	}

	e = email.SendMessage(
		email.Provider(*provider), email.Cfg.SendEmails, *senderAddress, recipientAddresses,
		document.Subject, document.TextBody, document.HTMLBody,
	)
	if e != nil {
		e.QuitIf("error")
	}
}

/*
test-provider sends a canned test email through the chosen provider to
verify credentials without needing a timesheet file.
*/
func testProvider(subprogram string, flags []string) {
	email.CheckProviderEnvVars()

	// common flags
	subprogramCmd := flag.NewFlagSet(subprogram, flag.ExitOnError)
	configPath := subprogramCmd.String("config", "./cfg/config.json", "Path to your configuration file.")

	// custom flags
	provider := subprogramCmd.String("provider", "mailgun", "Provider to use when sending emails")
	senderAddress := subprogramCmd.String("sender", "", "Sender's address")
	recipientAddress := subprogramCmd.String("recipient", "", "Recipient's address")
	subject := subprogramCmd.String("subject", "Test subject", "Subject of an email")

	// parse and init config
	xerr.QuitIfError(subprogramCmd.Parse(flags), "Unable to subprogramCmd.Parse")
	config.InitializeConfig(*configPath)
	initializePackageConfigs()

	util.RequiredFlag(senderAddress, "sender")
	util.RequiredFlag(recipientAddress, "recipient")
	util.RequiredFlag(provider, "provider")
	util.EnsureFlags()

	recipientAddresses := strings.Split(*recipientAddress, ",")

	textBody := "Test email from the timesheet summary service.\n"
	htmlBody := "<p>Test email from the timesheet summary service.</p>"

	e := email.SendMessage(email.Provider(*provider), nil, *senderAddress, recipientAddresses, *subject, textBody, htmlBody)
	if e != nil {
		e.QuitIf("error")
	}
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

func initializePackageConfigs() {
	var emailConfig email.Config
	if config.DecodeSection("email", &emailConfig) {
		email.InitializeConfig(&emailConfig)
	} else {
		email.InitializeConfig(nil)
	}

	var timesheetConfig timesheet.Config
	if config.DecodeSection("timesheet", &timesheetConfig) {
		timesheet.InitializeConfig(&timesheetConfig)
	} else {
		timesheet.InitializeConfig(nil)
	}
}

func main() {
	_ = godotenv.Load()

	// Check if there are enough arguments
	if len(os.Args) < 2 {
		tl.Log(tl.Error, palette.Red, "Usage: %s", "go run src/cmd/send-report/main.go subprogram_name(for example send)")
		os.Exit(1)
	}
	subprogram := os.Args[1]
	flags := os.Args[2:]

	// Switch subprogram based on the first argument
	switch subprogram {
	case "send":
		send(subprogram, flags)
	case "test-provider":
		testProvider(subprogram, flags)
	default:
		tl.Log(tl.Error, palette.Red, "Unknown subprogram: %s", subprogram)
		os.Exit(1)
	}
}
