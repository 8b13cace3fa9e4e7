package timesheet

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Monday 2026-08-31; the current week runs through Sunday 2026-09-06.
var testToday = time.Date(2026, time.September, 2, 10, 0, 0, 0, time.UTC)

func testRanges(t *testing.T) WeekRanges {
	t.Helper()
	return ComputeWeekRanges(testToday)
}

func decodeCSVString(t *testing.T, csvText string) Table {
	t.Helper()
	table, e := DecodeUpload(strings.NewReader(csvText), "timesheet.csv")
	require.Nil(t, e)
	return table
}

func TestDecodeUpload_CSV(t *testing.T) {
	table := decodeCSVString(t, strings.Join([]string{
		"Category,Sub-Category,Line Item,Planned Efforts (mins),Actual Efforts (mins),Week Flag",
		"Dev,API,Auth,120,90,current",
		"Dev,UI,Login,60,,next",
	}, "\n"))

	assert.Equal(t, 6, len(table.Headers))
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Auth", table.Rows[0][2])
}

func TestDecodeUpload_XLSX(t *testing.T) {
	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(0)

	require.NoError(t, workbook.SetSheetRow(sheet, "A1", &[]any{"Category", "Sub-Category", "Line Item", "Planned", "Actual", "Week Flag"}))
	require.NoError(t, workbook.SetSheetRow(sheet, "A2", &[]any{"Dev", "API", "Auth", 120, 90, "current"}))
	require.NoError(t, workbook.SetSheetRow(sheet, "A3", &[]any{"Dev", "UI", "Login", 60, nil, "next"}))

	var buffer bytes.Buffer
	require.NoError(t, workbook.Write(&buffer))

	table, e := DecodeUpload(&buffer, "timesheet.xlsx")
	require.Nil(t, e)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Dev", table.Rows[0][0])

	rows, e := ExtractRows(table, testRanges(t))
	require.Nil(t, e)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Planned.Equal(decimal.NewFromInt(120)))
	assert.False(t, rows[1].Actual.Valid)
}

func TestDecodeUpload_RejectsUnknownExtension(t *testing.T) {
	_, e := DecodeUpload(strings.NewReader("whatever"), "timesheet.pdf")
	require.NotNil(t, e)
}

func TestDecodeUpload_RejectsGarbageXLSX(t *testing.T) {
	_, e := DecodeUpload(strings.NewReader("this is not a zip archive"), "timesheet.xlsx")
	require.NotNil(t, e)
}

func TestDecodeUpload_EmptyFileFails(t *testing.T) {
	_, e := DecodeUpload(strings.NewReader(""), "timesheet.csv")
	require.NotNil(t, e)
}

func TestExtractRows_HeaderAliases(t *testing.T) {
	table := decodeCSVString(t, strings.Join([]string{
		"Cat,Subcat,Task,Planned Hours,Actual Hours,Week",
		"Dev,API,Auth,2,1.5,this week",
	}, "\n"))

	rows, e := ExtractRows(table, testRanges(t))
	require.Nil(t, e)

	require.Len(t, rows, 1)
	assert.Equal(t, "Dev", rows[0].Category)
	assert.Equal(t, "API", rows[0].Subcategory)
	assert.Equal(t, "Auth", rows[0].LineItem)
	assert.Equal(t, CurrentWeek, rows[0].Week)
	assert.True(t, rows[0].Planned.Equal(decimal.NewFromInt(2)))
	require.True(t, rows[0].Actual.Valid)
	assert.True(t, rows[0].Actual.Decimal.Equal(decimal.NewFromFloat(1.5)))
}

func TestExtractRows_MissingActualColumnFails(t *testing.T) {
	table := decodeCSVString(t, strings.Join([]string{
		"Category,Sub-Category,Line Item,Planned,Week Flag",
		"Dev,API,Auth,120,current",
	}, "\n"))

	_, e := ExtractRows(table, testRanges(t))
	require.NotNil(t, e)
	assert.Contains(t, strings.ToLower(fmt.Sprintf("%s", e)), "actual")
}

func TestExtractRows_MissingWeekAndDateFails(t *testing.T) {
	table := decodeCSVString(t, strings.Join([]string{
		"Category,Sub-Category,Line Item,Planned,Actual",
		"Dev,API,Auth,120,90",
	}, "\n"))

	_, e := ExtractRows(table, testRanges(t))
	require.NotNil(t, e)
}

func TestExtractRows_SubCategoryDoesNotShadowCategory(t *testing.T) {
	// Sub-Category appears before Category in the header row.
	table := decodeCSVString(t, strings.Join([]string{
		"Sub-Category,Category,Line Item,Planned,Actual,Week Flag",
		"API,Dev,Auth,120,90,current",
	}, "\n"))

	rows, e := ExtractRows(table, testRanges(t))
	require.Nil(t, e)

	require.Len(t, rows, 1)
	assert.Equal(t, "Dev", rows[0].Category)
	assert.Equal(t, "API", rows[0].Subcategory)
}

func TestExtractRows_DateBasedWeekClassification(t *testing.T) {
	table := decodeCSVString(t, strings.Join([]string{
		"Date,Category,Sub-Category,Line Item,Planned,Actual",
		"2026-09-01,Dev,API,Auth,120,90",
		"2026-09-08,Dev,UI,Login,60,",
		"2026-08-20,Dev,API,Old,30,30",
	}, "\n"))

	rows, e := ExtractRows(table, testRanges(t))
	require.Nil(t, e)

	// The 2026-08-20 row falls outside both weeks and is dropped.
	require.Len(t, rows, 2)
	assert.Equal(t, CurrentWeek, rows[0].Week)
	assert.Equal(t, NextWeek, rows[1].Week)
}

func TestExtractRows_AllRowsOutsideWindowFails(t *testing.T) {
	table := decodeCSVString(t, strings.Join([]string{
		"Date,Category,Planned,Actual",
		"not a date,Dev,120,90",
		"2020-01-01,Dev,60,60",
	}, "\n"))

	_, e := ExtractRows(table, testRanges(t))
	require.NotNil(t, e)
}

func TestExtractRows_BlankActualStaysNull(t *testing.T) {
	table := decodeCSVString(t, strings.Join([]string{
		"Category,Line Item,Planned,Actual,Week Flag",
		"Dev,Auth,120,,current",
		"Dev,Review,30,0,current",
	}, "\n"))

	rows, e := ExtractRows(table, testRanges(t))
	require.Nil(t, e)

	require.Len(t, rows, 2)
	assert.False(t, rows[0].Actual.Valid, "blank actual must stay null, not zero")
	require.True(t, rows[1].Actual.Valid)
	assert.True(t, rows[1].Actual.Decimal.IsZero())
}

func TestExtractRows_UnparseableNumericCoercesToZero(t *testing.T) {
	table := decodeCSVString(t, strings.Join([]string{
		"Category,Line Item,Planned,Actual,Week Flag",
		"Dev,Auth,oops,n/a,current",
	}, "\n"))

	rows, e := ExtractRows(table, testRanges(t))
	require.Nil(t, e)

	require.Len(t, rows, 1)
	assert.True(t, rows[0].Planned.IsZero())
	require.True(t, rows[0].Actual.Valid)
	assert.True(t, rows[0].Actual.Decimal.IsZero())
}

func TestComputeWeekRanges(t *testing.T) {
	ranges := ComputeWeekRanges(testToday)

	assert.Equal(t, time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC), ranges.CurrentStart)
	assert.Equal(t, time.Date(2026, time.September, 6, 0, 0, 0, 0, time.UTC), ranges.CurrentEnd)
	assert.Equal(t, time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC), ranges.NextStart)
	assert.Equal(t, time.Date(2026, time.September, 13, 0, 0, 0, 0, time.UTC), ranges.NextEnd)

	// A Monday belongs to its own week.
	mondayFlag, ok := ranges.Classify(ranges.CurrentStart)
	require.True(t, ok)
	assert.Equal(t, CurrentWeek, mondayFlag)

	// Sunday boundary stays in the current week.
	sundayFlag, ok := ranges.Classify(time.Date(2026, time.September, 6, 23, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, CurrentWeek, sundayFlag)

	_, ok = ranges.Classify(time.Date(2026, time.September, 20, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}
