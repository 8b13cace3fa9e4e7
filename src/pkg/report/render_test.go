package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet-summary/src/pkg/timesheet"
)

var testGeneratedAt = time.Date(2026, time.September, 2, 10, 30, 0, 0, time.UTC)

func testRanges() timesheet.WeekRanges {
	return timesheet.ComputeWeekRanges(testGeneratedAt)
}

func group(category, subcategory, lineItem string, planned, actual int64, recorded bool) timesheet.GroupSummary {
	return timesheet.GroupSummary{
		Category:       category,
		Subcategory:    subcategory,
		LineItem:       lineItem,
		Planned:        decimal.NewFromInt(planned),
		Actual:         decimal.NewFromInt(actual),
		ActualRecorded: recorded,
		RowCount:       1,
	}
}

func TestBuild_SubjectCarriesWeekRange(t *testing.T) {
	summary := timesheet.Summary{
		Groups: []timesheet.GroupSummary{group("Dev", "API", "Auth", 15, 17, true)},
	}

	document := Build(summary, testRanges(), "", testGeneratedAt)

	assert.Equal(t, "Weekly Summary: 2026-08-31 to 2026-09-06", document.Subject)
}

func TestBuild_BodiesContainSections(t *testing.T) {
	summary := timesheet.Summary{
		Groups: []timesheet.GroupSummary{
			group("Dev", "API", "Auth", 15, 17, true),
			group("Ops", "Infra", "Deploy", 4, 4, true),
		},
		NextWeek: []timesheet.Row{
			{Category: "Dev", Subcategory: "UI", LineItem: "Login", Planned: decimal.NewFromInt(4), Week: timesheet.NextWeek},
		},
		CurrentRowCount: 3,
	}

	document := Build(summary, testRanges(), "Weekly Summary Report", testGeneratedAt)

	assert.Contains(t, document.HTMLBody, "Dev / API / Auth")
	assert.Contains(t, document.HTMLBody, "Next week plan")
	assert.Contains(t, document.HTMLBody, "Dev / UI / Login")
	assert.Contains(t, document.HTMLBody, "Deviation: +2.00")
	assert.Contains(t, document.HTMLBody, "Deviation: on plan")

	assert.Contains(t, document.TextBody, "Dev / API / Auth: planned 15.00, actual 17.00, deviation +2.00")
	assert.Contains(t, document.TextBody, "Dev / UI / Login (planned 4.00)")
	assert.Contains(t, document.TextBody, "Generated 2026-09-02 10:30:00")
}

func TestBuild_DistinguishesUnrecordedFromZero(t *testing.T) {
	summary := timesheet.Summary{
		Groups: []timesheet.GroupSummary{
			group("Dev", "API", "Auth", 10, 0, false),
			group("Ops", "Infra", "Deploy", 0, 0, true),
		},
	}

	document := Build(summary, testRanges(), "", testGeneratedAt)

	assert.Contains(t, document.TextBody, "deviation not yet recorded")
	assert.Contains(t, document.TextBody, "deviation on plan")
}

func TestBuild_EscapesHTML(t *testing.T) {
	summary := timesheet.Summary{
		Groups: []timesheet.GroupSummary{group("<script>", "API", "Auth & Co", 1, 1, true)},
	}

	document := Build(summary, testRanges(), "", testGeneratedAt)

	assert.NotContains(t, document.HTMLBody, "<script>")
	assert.Contains(t, document.HTMLBody, "&lt;script&gt;")
}

func TestComputeTotals(t *testing.T) {
	groups := []timesheet.GroupSummary{
		group("Dev", "API", "Auth", 15, 17, true),   // over
		group("Ops", "Infra", "Deploy", 4, 2, true), // under
		group("Admin", "", "Email", 1, 1, true),     // on plan
		group("Dev", "UI", "Login", 5, 0, false),    // unrecorded
	}

	totals := ComputeTotals(groups)

	assert.True(t, totals.Planned.Equal(decimal.NewFromInt(25)))
	assert.True(t, totals.Actual.Equal(decimal.NewFromInt(20)))
	assert.True(t, totals.Deviation().Equal(decimal.NewFromInt(-5)))
	assert.Equal(t, 1, totals.OverPlan)
	assert.Equal(t, 1, totals.UnderPlan)
	assert.Equal(t, 1, totals.OnPlan)
	assert.Equal(t, 1, totals.Unrecorded)
}

func TestDeviationLabel(t *testing.T) {
	require.Equal(t, "not yet recorded", deviationLabel(group("a", "b", "c", 5, 0, false)))
	require.Equal(t, "on plan", deviationLabel(group("a", "b", "c", 5, 5, true)))
	require.Equal(t, "+3.00", deviationLabel(group("a", "b", "c", 5, 8, true)))
	require.Equal(t, "-2.00", deviationLabel(group("a", "b", "c", 5, 3, true)))
}

func TestGroupPath(t *testing.T) {
	assert.Equal(t, "Dev / API / Auth", groupPath("Dev", "API", "Auth"))
	assert.Equal(t, "Dev / Auth", groupPath("Dev", "", "Auth"))
	assert.Equal(t, "(uncategorized)", groupPath("", "  ", ""))
}
