// Package timesheet turns an uploaded weekly timesheet spreadsheet into
// per-line-item planned vs. actual effort summaries.
package timesheet

import (
	"github.com/shopspring/decimal"
)

// WeekFlag marks a row as already-worked effort or forward-planned effort.
type WeekFlag string

const (
	CurrentWeek WeekFlag = "current"
	NextWeek    WeekFlag = "next"
)

/*
Table is the raw decoded spreadsheet: one header row plus data rows, all
cells as strings. Column meaning is resolved later by ExtractRows so that
decoding and schema validation stay separate failure stages.
*/
type Table struct {
	SourceName string     `json:"source_name"`
	Headers    []string   `json:"headers"`
	Rows       [][]string `json:"rows"`
}

/*
Row is one normalized timesheet record. Actual is nullable: an empty cell
means "not yet recorded", which is not the same as zero effort.
*/
type Row struct {
	Category    string              `json:"category"`
	Subcategory string              `json:"subcategory"`
	LineItem    string              `json:"line_item"`
	Planned     decimal.Decimal     `json:"planned"`
	Actual      decimal.NullDecimal `json:"actual"`
	Week        WeekFlag            `json:"week"`
}

/*
GroupSummary is the rolled-up view of all current-week rows sharing one
(Category, Sub-Category, Line Item) key. Display fields keep the first-seen
spelling; grouping itself is case-insensitive and whitespace-trimmed.

Deviation is a method, not a field, so it can never drift from its inputs.
*/
type GroupSummary struct {
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	LineItem    string          `json:"line_item"`
	Planned     decimal.Decimal `json:"planned"`
	Actual      decimal.Decimal `json:"actual"`

	// ActualRecorded is false when no row in the group carried a recorded
	// Actual value, so renderers can phrase "not yet recorded" instead of "0".
	ActualRecorded bool `json:"actual_recorded"`

	RowCount int `json:"row_count"`
}

// Deviation returns Actual minus Planned, in input units. No percentages.
func (group GroupSummary) Deviation() decimal.Decimal {
	return group.Actual.Sub(group.Planned)
}

/*
Summary is the aggregated output consumed by the report renderer.

Groups preserve first-seen input order. NextWeek rows pass through in input
order, unaggregated.
*/
type Summary struct {
	Groups          []GroupSummary `json:"groups"`
	NextWeek        []Row          `json:"next_week"`
	CurrentRowCount int            `json:"current_row_count"`
	ExcludedCount   int            `json:"excluded_count"`
}
