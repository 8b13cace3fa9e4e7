package timesheet

import (
	"fmt"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

/*
MissingActualPolicy decides what happens to current-week rows whose Actual
cell was never filled in (null, not zero).

  - MissingActualZero: the row counts with zero actual effort.
  - MissingActualExclude: the row is dropped from aggregation entirely,
    planned effort included.
*/
type MissingActualPolicy string

const (
	MissingActualZero    MissingActualPolicy = "zero"
	MissingActualExclude MissingActualPolicy = "exclude"
)

/*
ParseMissingActualPolicy maps a config string onto a policy. Unknown values
fall back to MissingActualZero with a warning instead of failing: a bad
config knob should not take the upload endpoint down.
*/
func ParseMissingActualPolicy(raw string) MissingActualPolicy {
	switch MissingActualPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case MissingActualExclude:
		return MissingActualExclude
	case MissingActualZero, "":
		return MissingActualZero
	default:
		tl.Log(
			tl.Warning, palette.YellowBold, "Unknown missing-actual policy '%s', using '%s'",
			raw, string(MissingActualZero),
		)
		return MissingActualZero
	}
}

/*
Summarize partitions rows by week flag and aggregates the current-week ones.

Current-week rows are grouped by the case-insensitive, trimmed
(Category, Sub-Category, Line Item) key; Planned and Actual are summed
independently per group. Group order is the first-seen order of each
distinct key in the input, so summarizing the same sequence twice yields
identical output. Next-week rows pass through as a list in input order.

Fails when no current-week group survives: there is nothing to summarize,
and sending an empty report would hide a bad upload.
*/
func Summarize(rows []Row, policy MissingActualPolicy) (summary Summary, e *xerr.Error) {
	groupByKey := make(map[string]*GroupSummary)
	keyOrder := make([]string, 0)

	for _, row := range rows {
		if row.Week == NextWeek {
			summary.NextWeek = append(summary.NextWeek, row)
			continue
		}

		if !row.Actual.Valid && policy == MissingActualExclude {
			summary.ExcludedCount += 1
			continue
		}

		summary.CurrentRowCount += 1

		key := groupKey(row)
		group, exists := groupByKey[key]
		if !exists {
			group = &GroupSummary{
				Category:    strings.TrimSpace(row.Category),
				Subcategory: strings.TrimSpace(row.Subcategory),
				LineItem:    strings.TrimSpace(row.LineItem),
			}
			groupByKey[key] = group
			keyOrder = append(keyOrder, key)
		}

		group.Planned = group.Planned.Add(row.Planned)
		if row.Actual.Valid {
			group.Actual = group.Actual.Add(row.Actual.Decimal)
			group.ActualRecorded = true
		}
		group.RowCount += 1
	}

	if len(keyOrder) == 0 {
		err := fmt.Errorf("no current-week rows to summarize")
		e = xerr.NewError(err, "aggregate current-week rows", fmt.Sprintf("%d input rows", len(rows)))
		return summary, e
	}

	summary.Groups = make([]GroupSummary, 0, len(keyOrder))
	for _, key := range keyOrder {
		summary.Groups = append(summary.Groups, *groupByKey[key])
	}

	tl.Log(
		tl.Info1, palette.Green, "Aggregated '%d' current-week rows into '%d' groups ('%d' next-week rows, '%d' excluded)",
		summary.CurrentRowCount, len(summary.Groups), len(summary.NextWeek), summary.ExcludedCount,
	)

	return summary, e
}

// groupKey builds the case-insensitive, trimmed aggregation key. The unit
// separator keeps "a|b" + "c" distinct from "a" + "b|c".
func groupKey(row Row) string {
	parts := []string{row.Category, row.Subcategory, row.LineItem}
	for index := 0; index < len(parts); index += 1 {
		parts[index] = strings.ToLower(strings.TrimSpace(parts[index]))
	}
	return strings.Join(parts, "\x1f")
}
