package timesheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

/*
columnLayout maps the sheet's physical columns to the fields we care about.
An index of -1 means the column is absent.
*/
type columnLayout struct {
	Category    int
	Subcategory int
	LineItem    int
	Planned     int
	Actual      int
	Week        int
	Date        int
}

/*
ExtractRows validates the header schema and converts the raw table into
normalized rows.

Required columns: Planned, Actual, and either a Week flag column or a Date
column (the week is derived from the date when no flag column exists).
Category / Sub-Category / Line Item are optional and default to "".
Unknown extra columns are ignored.

Rows whose date falls outside both the current and the next week are
dropped. Failures here are schema/validation failures, never parse failures.
*/
func ExtractRows(table Table, ranges WeekRanges) (rows []Row, e *xerr.Error) {
	layout, e := detectColumns(table.Headers)
	if e != nil {
		return rows, e
	}

	rows = make([]Row, 0, len(table.Rows))
	droppedCount := 0

	for _, cells := range table.Rows {
		week, ok := classifyRow(cells, layout, ranges)
		if !ok {
			droppedCount += 1
			continue
		}

		row := Row{
			Category:    cellAt(cells, layout.Category),
			Subcategory: cellAt(cells, layout.Subcategory),
			LineItem:    cellAt(cells, layout.LineItem),
			Planned:     parseAmount(cellAt(cells, layout.Planned)),
			Actual:      parseNullableAmount(cellAt(cells, layout.Actual)),
			Week:        week,
		}
		rows = append(rows, row)
	}

	if droppedCount > 0 {
		tl.Log(
			tl.Info, palette.Cyan, "Dropped '%d' rows outside the current/next week window",
			droppedCount,
		)
	}

	if len(rows) == 0 && len(table.Rows) > 0 {
		err := fmt.Errorf("no rows fall within the current or next week")
		e = xerr.NewError(err, "classify rows by week", table.SourceName)
		return rows, e
	}

	return rows, e
}

/*
detectColumns finds each known column by fuzzy header matching. More
specific aliases are tried across all headers before shorter ones, so
"Actual Efforts (mins)" wins over "Actual Details" for the Actual column.
*/
func detectColumns(headers []string) (layout columnLayout, e *xerr.Error) {
	layout = columnLayout{
		Subcategory: findColumn(headers, -1, "sub-category", "subcategory", "sub category", "subcat"),
		LineItem:    findColumn(headers, -1, "line item", "line_item", "lineitem", "task", "activity"),
		Planned:     findColumn(headers, -1, "planned effort", "planned efforts", "planned mins", "planned minutes", "planned hours", "planned"),
		Actual:      findColumn(headers, -1, "actual effort", "actual efforts", "actual mins", "actual minutes", "actual hours", "actual"),
		Week:        findColumn(headers, -1, "week flag", "weekflag", "week"),
		Date:        findColumn(headers, -1, "date"),
	}

	// "Sub-Category" also contains "category", so the sub column is excluded
	// from the category search.
	layout.Category = findColumn(headers, layout.Subcategory, "category", "cat")

	missing := make([]string, 0, 3)
	if layout.Planned < 0 {
		missing = append(missing, "Planned")
	}
	if layout.Actual < 0 {
		missing = append(missing, "Actual")
	}
	if layout.Week < 0 && layout.Date < 0 {
		missing = append(missing, "Week Flag or Date")
	}

	if len(missing) > 0 {
		err := fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
		e = xerr.NewError(err, "validate header schema", strings.Join(headers, " | "))
		return layout, e
	}

	return layout, e
}

/*
findColumn returns the index of the first header containing any of the
needles, trying needles in the given order. skipIndex excludes one column
from the search (-1 to search all).
*/
func findColumn(headers []string, skipIndex int, needles ...string) int {
	for _, needle := range needles {
		for index, header := range headers {
			if index == skipIndex {
				continue
			}
			lower := strings.ToLower(strings.TrimSpace(header))
			if strings.Contains(lower, needle) {
				return index
			}
		}
	}
	return -1
}

/*
classifyRow decides which week a row belongs to.

An explicit Week flag column wins; otherwise the Date column is parsed and
placed into the current/next week ranges. ok is false for rows that cannot
be classified (blank/unknown flag, unparseable date, date outside both
weeks).
*/
func classifyRow(cells []string, layout columnLayout, ranges WeekRanges) (week WeekFlag, ok bool) {
	if layout.Week >= 0 {
		return parseWeekFlag(cellAt(cells, layout.Week))
	}

	day, parsed := parseRowDate(cellAt(cells, layout.Date), ranges.CurrentStart.Location())
	if !parsed {
		return week, false
	}

	return ranges.Classify(day)
}

func parseWeekFlag(raw string) (week WeekFlag, ok bool) {
	value := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case value == "":
		return week, false
	case strings.Contains(value, "next") || value == "nw":
		return NextWeek, true
	case strings.Contains(value, "current") || strings.Contains(value, "this") || value == "cw":
		return CurrentWeek, true
	default:
		tl.Log(tl.Verbose, palette.CyanDim, "Unknown week flag value '%s', dropping row", raw)
		return week, false
	}
}

/*
parseRowDate tries common date layouts. Month-first layouts come before
day-first ones, mirroring the original intake behavior.
*/
func parseRowDate(raw string, location *time.Location) (day time.Time, ok bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return day, false
	}

	candidates := []string{
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"02/01/2006",
		"01-02-06",
		"2006-01-02 15:04:05",
		time.RFC3339,
	}

	for _, layout := range candidates {
		parsed, parseErr := time.ParseInLocation(layout, value, location)
		if parseErr == nil {
			return parsed, true
		}
	}

	return day, false
}

/*
parseAmount parses a numeric effort cell. Blank or unparseable cells coerce
to zero, matching the original intake's numeric coercion.
*/
func parseAmount(raw string) decimal.Decimal {
	value := strings.TrimSpace(raw)
	if value == "" {
		return decimal.Zero
	}

	amount, parseErr := decimal.NewFromString(value)
	if parseErr != nil {
		tl.Log(tl.Verbose, palette.CyanDim, "Unparseable numeric cell '%s', coercing to 0", raw)
		return decimal.Zero
	}

	return amount
}

/*
parseNullableAmount parses the Actual cell. A blank cell means "not yet
recorded" and stays null; anything else behaves like parseAmount.
*/
func parseNullableAmount(raw string) decimal.NullDecimal {
	value := strings.TrimSpace(raw)
	if value == "" {
		return decimal.NullDecimal{}
	}

	return decimal.NullDecimal{Decimal: parseAmount(value), Valid: true}
}

func cellAt(cells []string, index int) string {
	if index < 0 || index >= len(cells) {
		return ""
	}
	return cells[index]
}
