// Package web holds the HTTP handlers of the timesheet summary service.
package web

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"timesheet-summary/src/pkg/email"
	"timesheet-summary/src/pkg/report"
	"timesheet-summary/src/pkg/timesheet"
)

// Stage names reported in error responses so the uploader knows whether to
// fix the file or just resubmit.
const (
	StageParse      = "parse"
	StageValidation = "validation"
	StageDelivery   = "delivery"
)

/*
UploadHandler wires the whole upload pipeline: decode, extract, aggregate,
render, send. The email transport and the clock are injected so tests run
without a provider and with a fixed week.
*/
type UploadHandler struct {
	Sender           email.Sender
	DefaultRecipient string
	ReportTitle      string
	Policy           timesheet.MissingActualPolicy

	// Now overrides the clock in tests; nil means time.Now.
	Now func() time.Time
}

type UploadResponse struct {
	Message          string `json:"message"`
	CurrentWeekRange string `json:"current_week_range"`
	NextWeekRange    string `json:"next_week_range"`
	CurrentRows      int    `json:"current_rows"`
	NextRows         int    `json:"next_rows"`
	Groups           int    `json:"groups"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage"`
}

/*
UploadTimesheet handles POST /upload_timesheet.

Multipart form fields: "file" (the .xlsx/.csv timesheet) and
"receiver_email" (alias "email"; falls back to the configured default
recipient). The flow is strictly sequential; the first failing stage
terminates the request with its stage name in the JSON error body. Parse
and validation failures happen before any email is composed, so a broken
upload can never produce a partial report.
*/
func (handler *UploadHandler) UploadTimesheet(c echo.Context) error {
	recipient := strings.TrimSpace(c.FormValue("receiver_email"))
	if recipient == "" {
		recipient = strings.TrimSpace(c.FormValue("email"))
	}
	if recipient == "" {
		recipient = strings.TrimSpace(handler.DefaultRecipient)
	}
	if recipient == "" {
		err := fmt.Errorf("receiver_email form field is required")
		return errorJSON(c, http.StatusBadRequest, StageValidation, xerr.NewError(err, "resolve report recipient", "no default recipient configured"))
	}

	fileHeader, formErr := c.FormFile("file")
	if formErr != nil {
		return errorJSON(c, http.StatusBadRequest, StageValidation, xerr.NewError(formErr, "read uploaded file from form", "expected multipart field 'file'"))
	}

	fileReader, openErr := fileHeader.Open()
	if openErr != nil {
		return errorJSON(c, http.StatusBadRequest, StageParse, xerr.NewError(openErr, "open uploaded file", fileHeader.Filename))
	}
	defer func() {
		_ = fileReader.Close()
	}()

	table, e := timesheet.DecodeUpload(fileReader, fileHeader.Filename)
	if e != nil {
		return errorJSON(c, http.StatusBadRequest, StageParse, e)
	}

	ranges := timesheet.ComputeWeekRanges(handler.clock())

	rows, e := timesheet.ExtractRows(table, ranges)
	if e != nil {
		return errorJSON(c, http.StatusBadRequest, StageValidation, e)
	}

	summary, e := timesheet.Summarize(rows, handler.Policy)
	if e != nil {
		return errorJSON(c, http.StatusBadRequest, StageValidation, e)
	}

	document := report.Build(summary, ranges, handler.ReportTitle, handler.clock())

	e = handler.Sender.Send([]string{recipient}, document.Subject, document.TextBody, document.HTMLBody)
	if e != nil {
		return errorJSON(c, http.StatusBadGateway, StageDelivery, e)
	}

	response := UploadResponse{
		Message:          "Email sent.",
		CurrentWeekRange: fmt.Sprintf("%s to %s", ranges.CurrentStart.Format("2006-01-02"), ranges.CurrentEnd.Format("2006-01-02")),
		NextWeekRange:    fmt.Sprintf("%s to %s", ranges.NextStart.Format("2006-01-02"), ranges.NextEnd.Format("2006-01-02")),
		CurrentRows:      summary.CurrentRowCount,
		NextRows:         len(summary.NextWeek),
		Groups:           len(summary.Groups),
	}

	return c.JSON(http.StatusOK, response)
}

func (handler *UploadHandler) clock() time.Time {
	if handler.Now != nil {
		return handler.Now()
	}
	return time.Now()
}

func errorJSON(c echo.Context, status int, stage string, e *xerr.Error) error {
	tl.Log(
		tl.Warning, palette.PurpleBold, "Upload failed at '%s' stage: '%s'",
		stage, e,
	)

	return c.JSON(status, ErrorResponse{
		Error: fmt.Sprintf("%s", e),
		Stage: stage,
	})
}
