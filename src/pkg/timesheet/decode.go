package timesheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
	"github.com/xuri/excelize/v2"
)

/*
DecodeUpload decodes an uploaded timesheet file into a Table.

Supported formats, picked by file extension:
  - .xlsx via excelize (first sheet only, like the original workflow)
  - .csv via encoding/csv

The first row is the header row; remaining rows are data. Any failure here
is a parse failure: the file could not be read as a spreadsheet at all.
Column semantics are not checked here, that is ExtractRows' job.
*/
func DecodeUpload(fileReader io.Reader, fileName string) (table Table, e *xerr.Error) {
	table.SourceName = fileName

	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".xlsx":
		table.Headers, table.Rows, e = decodeWorkbook(fileReader, fileName)
	case ".csv":
		table.Headers, table.Rows, e = decodeCSV(fileReader, fileName)
	default:
		err := fmt.Errorf("unsupported file extension: '%s'", ext)
		e = xerr.NewError(err, "only .xlsx and .csv uploads are accepted", fileName)
	}
	if e != nil {
		return table, e
	}

	tl.Log(
		tl.Info1, palette.Cyan, "Decoded '%s': '%d' columns, '%d' data rows",
		fileName, len(table.Headers), len(table.Rows),
	)

	return table, e
}

func decodeWorkbook(fileReader io.Reader, fileName string) (headers []string, rows [][]string, e *xerr.Error) {
	workbook, openErr := excelize.OpenReader(fileReader)
	if openErr != nil {
		e = xerr.NewError(openErr, "open upload as .xlsx workbook", fileName)
		return headers, rows, e
	}
	defer func() {
		_ = workbook.Close()
	}()

	sheetNames := workbook.GetSheetList()
	if len(sheetNames) == 0 {
		err := fmt.Errorf("workbook has no sheets")
		e = xerr.NewError(err, "read first worksheet", fileName)
		return headers, rows, e
	}

	allRows, rowsErr := workbook.GetRows(sheetNames[0])
	if rowsErr != nil {
		e = xerr.NewError(rowsErr, "read rows from first worksheet", sheetNames[0])
		return headers, rows, e
	}

	headers, rows, e = splitHeaderRow(allRows, fileName)
	return headers, rows, e
}

func decodeCSV(fileReader io.Reader, fileName string) (headers []string, rows [][]string, e *xerr.Error) {
	csvReader := csv.NewReader(fileReader)
	csvReader.FieldsPerRecord = -1 // ragged rows are padded below
	csvReader.TrimLeadingSpace = true

	allRows, readErr := csvReader.ReadAll()
	if readErr != nil {
		e = xerr.NewError(readErr, "read upload as CSV", fileName)
		return headers, rows, e
	}

	headers, rows, e = splitHeaderRow(allRows, fileName)
	return headers, rows, e
}

/*
splitHeaderRow takes the raw cell grid, uses the first row as headers, and
pads every data row to the header width. excelize drops trailing empty
cells, so short rows are normal and not an error.
*/
func splitHeaderRow(allRows [][]string, fileName string) (headers []string, rows [][]string, e *xerr.Error) {
	if len(allRows) == 0 {
		err := fmt.Errorf("file contains no rows")
		e = xerr.NewError(err, "expected a header row", fileName)
		return headers, rows, e
	}

	headers = allRows[0]
	rows = make([][]string, 0, len(allRows)-1)

	for _, rawRow := range allRows[1:] {
		if isBlankRow(rawRow) {
			continue
		}

		row := make([]string, len(headers))
		copy(row, rawRow)
		rows = append(rows, row)
	}

	return headers, rows, e
}

func isBlankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
