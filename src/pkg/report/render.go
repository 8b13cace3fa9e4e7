// Package report renders the aggregated timesheet summary into the email
// subject and bodies. Rendering is pure formatting: no I/O, no transport.
package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"timesheet-summary/src/pkg/timesheet"
)

/*
Document is the rendered report: subject plus an HTML body and a plain-text
twin. It only lives for the duration of the email send.
*/
type Document struct {
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
	TextBody string `json:"text_body"`
}

/*
Totals is the deviation summary across all current-week groups.
*/
type Totals struct {
	Planned    decimal.Decimal `json:"planned"`
	Actual     decimal.Decimal `json:"actual"`
	OverPlan   int             `json:"over_plan"`
	UnderPlan  int             `json:"under_plan"`
	OnPlan     int             `json:"on_plan"`
	Unrecorded int             `json:"unrecorded"`
}

// Deviation returns total actual minus total planned, in input units.
func (totals Totals) Deviation() decimal.Decimal {
	return totals.Actual.Sub(totals.Planned)
}

/*
ComputeTotals rolls the per-group sums up into one Totals value.
*/
func ComputeTotals(groups []timesheet.GroupSummary) Totals {
	totals := Totals{}

	for _, group := range groups {
		totals.Planned = totals.Planned.Add(group.Planned)
		totals.Actual = totals.Actual.Add(group.Actual)

		if !group.ActualRecorded {
			totals.Unrecorded += 1
			continue
		}

		deviation := group.Deviation()
		switch {
		case deviation.IsPositive():
			totals.OverPlan += 1
		case deviation.IsNegative():
			totals.UnderPlan += 1
		default:
			totals.OnPlan += 1
		}
	}

	return totals
}

/*
Build renders the full report document for one aggregated summary.

The subject carries the current week's date range as the report identifier.
generatedAt is passed in rather than read from the clock so tests get
stable output.
*/
func Build(summary timesheet.Summary, ranges timesheet.WeekRanges, title string, generatedAt time.Time) Document {
	if title == "" {
		title = "Weekly Summary Report"
	}

	subject := fmt.Sprintf(
		"Weekly Summary: %s to %s",
		ranges.CurrentStart.Format("2006-01-02"), ranges.CurrentEnd.Format("2006-01-02"),
	)

	totals := ComputeTotals(summary.Groups)

	return Document{
		Subject:  subject,
		HTMLBody: renderHTML(summary, ranges, totals, title, generatedAt),
		TextBody: renderText(summary, ranges, totals, title, generatedAt),
	}
}

/*
deviationLabel phrases a group's deviation for the report.

A group where no Actual was ever recorded reads "not yet recorded" - that
is different from a recorded zero, which reads "on plan".
*/
func deviationLabel(group timesheet.GroupSummary) string {
	if !group.ActualRecorded {
		return "not yet recorded"
	}

	deviation := group.Deviation()
	if deviation.IsZero() {
		return "on plan"
	}
	return formatSigned(deviation)
}

// formatSigned renders an amount with an explicit sign, e.g. "+2.00".
func formatSigned(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return amount.StringFixed(2)
	}
	return "+" + amount.StringFixed(2)
}

func formatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// groupPath joins the key columns for display, skipping blanks.
func groupPath(category string, subcategory string, lineItem string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{category, subcategory, lineItem} {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 {
		return "(uncategorized)"
	}
	return strings.Join(parts, " / ")
}

/*
renderHTML builds the HTML body with inline CSS only, using email-safe
nested tables.
*/
func renderHTML(summary timesheet.Summary, ranges timesheet.WeekRanges, totals Totals, title string, generatedAt time.Time) string {
	var buffer bytes.Buffer

	buffer.WriteString("<!doctype html>")
	buffer.WriteString("<html>")
	buffer.WriteString("<head>")
	buffer.WriteString(`<meta charset="utf-8">`)
	buffer.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	buffer.WriteString("</head>")

	bodyStyle := "margin:0;padding:0;background-color:#F3F4F6;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Inter,Arial,sans-serif;color:#111827;"
	buffer.WriteString(`<body style="` + bodyStyle + `">`)

	// Outer wrapper table (email-safe centering).
	buffer.WriteString(`<table role="presentation" cellpadding="0" cellspacing="0" border="0" width="100%" style="border-collapse:collapse;background-color:#F3F4F6;">`)
	buffer.WriteString(`<tr>`)
	buffer.WriteString(`<td align="center" style="padding:24px;">`)

	// Main container.
	buffer.WriteString(`<table role="presentation" cellpadding="0" cellspacing="0" border="0" width="680" style="border-collapse:separate;background-color:#F3F4F6;width:680px;max-width:680px;">`)
	buffer.WriteString(`<tr><td style="padding:0;">`)

	// Header.
	buffer.WriteString(`<div style="padding:8px 4px 18px 4px;">`)
	buffer.WriteString(`<div style="font-size:24px;font-weight:800;line-height:1.2;color:#111827;">` + html.EscapeString(title) + `</div>`)
	buffer.WriteString(`<div style="margin-top:6px;font-size:13px;line-height:1.5;color:#6B7280;">`)
	buffer.WriteString(`Current week: <span style="font-weight:700;color:#111827;">` + ranges.CurrentStart.Format("2006-01-02") + ` to ` + ranges.CurrentEnd.Format("2006-01-02") + `</span>`)
	buffer.WriteString(` &nbsp;•&nbsp; Next week: <span style="font-weight:700;color:#111827;">` + ranges.NextStart.Format("2006-01-02") + ` to ` + ranges.NextEnd.Format("2006-01-02") + `</span>`)
	buffer.WriteString(`</div>`)
	buffer.WriteString(`</div>`)

	// Deviation summary card.
	buffer.WriteString(cardOpen())
	buffer.WriteString(`<div style="padding:18px 18px 6px 18px;">`)
	buffer.WriteString(`<div style="font-size:12px;letter-spacing:0.10em;text-transform:uppercase;color:#6B7280;">Deviation from plan</div>`)
	buffer.WriteString(`<div style="margin-top:6px;font-size:34px;font-weight:900;line-height:1.1;color:#111827;">` + html.EscapeString(formatSigned(totals.Deviation())) + `</div>`)
	buffer.WriteString(`<div style="margin-top:8px;font-size:13px;line-height:1.5;color:#6B7280;">`)
	buffer.WriteString(`Planned <span style="font-weight:700;color:#111827;">` + formatAmount(totals.Planned) + `</span>`)
	buffer.WriteString(` &nbsp;•&nbsp; Actual <span style="font-weight:700;color:#111827;">` + formatAmount(totals.Actual) + `</span>`)
	buffer.WriteString(` &nbsp;•&nbsp; Over <span style="font-weight:700;color:#111827;">` + fmt.Sprintf("%d", totals.OverPlan) + `</span>`)
	buffer.WriteString(` &nbsp;•&nbsp; Under <span style="font-weight:700;color:#111827;">` + fmt.Sprintf("%d", totals.UnderPlan) + `</span>`)
	buffer.WriteString(` &nbsp;•&nbsp; On plan <span style="font-weight:700;color:#111827;">` + fmt.Sprintf("%d", totals.OnPlan) + `</span>`)
	buffer.WriteString(`</div>`)
	buffer.WriteString(`</div>`)

	// Current week table.
	buffer.WriteString(`<div style="padding:0 18px 18px 18px;">`)
	buffer.WriteString(`<div style="margin-top:8px;height:1px;background-color:#E5E7EB;width:100%;"></div>`)
	buffer.WriteString(`<div style="margin-top:14px;font-size:14px;font-weight:800;color:#111827;">Current week by line item</div>`)
	buffer.WriteString(`<table role="presentation" cellpadding="0" cellspacing="0" border="0" width="100%" style="border-collapse:separate;border-spacing:0 8px;margin-top:10px;">`)
	for _, group := range summary.Groups {
		buffer.WriteString(`<tr>`)
		buffer.WriteString(`<td style="padding:12px;background-color:#FFFFFF;border:1px solid #E5E7EB;border-radius:12px;">`)

		buffer.WriteString(`<table role="presentation" cellpadding="0" cellspacing="0" border="0" width="100%" style="border-collapse:collapse;">`)
		buffer.WriteString(`<tr>`)
		buffer.WriteString(`<td style="vertical-align:top;padding-right:10px;">`)
		buffer.WriteString(`<span style="font-size:14px;font-weight:800;color:#111827;">` + html.EscapeString(groupPath(group.Category, group.Subcategory, group.LineItem)) + `</span>`)
		buffer.WriteString(`</td>`)
		buffer.WriteString(`<td align="right" style="vertical-align:top;white-space:nowrap;">`)
		buffer.WriteString(`<div style="font-size:13px;color:#6B7280;">Planned <span style="font-weight:800;color:#111827;">` + formatAmount(group.Planned) + `</span>`)
		buffer.WriteString(` &nbsp; Actual <span style="font-weight:800;color:#111827;">` + formatAmount(group.Actual) + `</span></div>`)
		buffer.WriteString(`<div style="margin-top:2px;font-size:12px;font-weight:800;color:#6B7280;">Deviation: ` + html.EscapeString(deviationLabel(group)) + `</div>`)
		buffer.WriteString(`</td>`)
		buffer.WriteString(`</tr>`)
		buffer.WriteString(`</table>`)

		buffer.WriteString(`</td>`)
		buffer.WriteString(`</tr>`)
	}
	buffer.WriteString(`</table>`)
	buffer.WriteString(`</div>`)
	buffer.WriteString(cardClose())

	// Next week plan card.
	buffer.WriteString(`<div style="padding:18px 0 0 0;">`)
	buffer.WriteString(cardOpen())
	buffer.WriteString(`<div style="padding:16px 18px 16px 18px;">`)
	buffer.WriteString(`<div style="font-size:13px;font-weight:900;color:#111827;">Next week plan</div>`)
	if len(summary.NextWeek) == 0 {
		buffer.WriteString(`<div style="margin-top:10px;padding:12px;border:1px dashed #D1D5DB;border-radius:12px;background-color:#FAFAFA;color:#6B7280;font-size:13px;">No next-week plan rows.</div>`)
	} else {
		buffer.WriteString(`<div style="margin-top:10px;font-size:13px;line-height:1.8;color:#374151;">`)
		for _, row := range summary.NextWeek {
			buffer.WriteString(`• ` + html.EscapeString(groupPath(row.Category, row.Subcategory, row.LineItem)))
			buffer.WriteString(` <span style="color:#6B7280;">(planned ` + formatAmount(row.Planned) + `)</span><br>`)
		}
		buffer.WriteString(`</div>`)
	}
	if summary.ExcludedCount > 0 {
		buffer.WriteString(`<div style="margin-top:12px;font-size:12px;color:#9CA3AF;">` + fmt.Sprintf("%d current-week rows without a recorded actual were excluded.", summary.ExcludedCount) + `</div>`)
	}
	buffer.WriteString(`<div style="margin-top:12px;font-size:11px;color:#9CA3AF;">Generated ` + html.EscapeString(generatedAt.Format("2006-01-02 15:04:05")) + `</div>`)
	buffer.WriteString(`</div>`)
	buffer.WriteString(cardClose())
	buffer.WriteString(`</div>`)

	// Close main container and wrappers.
	buffer.WriteString(`</td></tr>`)
	buffer.WriteString(`</table>`)

	buffer.WriteString(`</td>`)
	buffer.WriteString(`</tr>`)
	buffer.WriteString(`</table>`)

	buffer.WriteString(`</body>`)
	buffer.WriteString(`</html>`)

	return buffer.String()
}

/*
renderText builds the plain-text twin of the HTML body for the text/plain
email part.
*/
func renderText(summary timesheet.Summary, ranges timesheet.WeekRanges, totals Totals, title string, generatedAt time.Time) string {
	var buffer bytes.Buffer

	buffer.WriteString(title + "\n")
	buffer.WriteString(fmt.Sprintf("Current week: %s to %s\n", ranges.CurrentStart.Format("2006-01-02"), ranges.CurrentEnd.Format("2006-01-02")))
	buffer.WriteString(fmt.Sprintf("Next week: %s to %s\n\n", ranges.NextStart.Format("2006-01-02"), ranges.NextEnd.Format("2006-01-02")))

	buffer.WriteString("Current week by line item:\n")
	for _, group := range summary.Groups {
		buffer.WriteString(fmt.Sprintf(
			"  - %s: planned %s, actual %s, deviation %s\n",
			groupPath(group.Category, group.Subcategory, group.LineItem),
			formatAmount(group.Planned), formatAmount(group.Actual), deviationLabel(group),
		))
	}

	buffer.WriteString("\nNext week plan:\n")
	if len(summary.NextWeek) == 0 {
		buffer.WriteString("  (no next-week plan rows)\n")
	}
	for _, row := range summary.NextWeek {
		buffer.WriteString(fmt.Sprintf(
			"  - %s (planned %s)\n",
			groupPath(row.Category, row.Subcategory, row.LineItem), formatAmount(row.Planned),
		))
	}

	buffer.WriteString(fmt.Sprintf(
		"\nTotals: planned %s, actual %s, deviation %s (over: %d, under: %d, on plan: %d, not yet recorded: %d)\n",
		formatAmount(totals.Planned), formatAmount(totals.Actual), formatSigned(totals.Deviation()),
		totals.OverPlan, totals.UnderPlan, totals.OnPlan, totals.Unrecorded,
	))
	if summary.ExcludedCount > 0 {
		buffer.WriteString(fmt.Sprintf("%d current-week rows without a recorded actual were excluded.\n", summary.ExcludedCount))
	}
	buffer.WriteString("Generated " + generatedAt.Format("2006-01-02 15:04:05") + "\n")

	return buffer.String()
}

/*
cardOpen returns the opening HTML for a card-like container (email-safe).
*/
func cardOpen() string {
	return `<div style="background-color:#FFFFFF;border:1px solid #E5E7EB;border-radius:16px;box-shadow:0 8px 24px rgba(17,24,39,0.06);overflow:hidden;">`
}

/*
cardClose returns the closing HTML for a card-like container.
*/
func cardClose() string {
	return `</div>`
}
