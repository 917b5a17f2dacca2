// Package tabular turns uploaded statement bytes into a raw header/records
// table. It understands delimited text (comma or semicolon, UTF-8 or
// Windows-1252) and Office Open XML workbooks.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/SscSPs/statement_dashboard/internal/apperrors"
	"github.com/SscSPs/statement_dashboard/internal/core/domain"
	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeZip  = "application/zip"
	mimeText = "text/plain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Format is the detected container of an upload.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Detect sniffs the upload content. Anything that is neither a workbook nor
// text is rejected with a parse error.
func Detect(data []byte) (Format, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", &apperrors.ParseError{Reason: "file is empty"}
	}
	mtype := mimetype.Detect(data)
	// Workbooks whose part order hides the xl/ entries sniff as plain zip.
	if mtype.Is(mimeXLSX) || mtype.Is(mimeZip) {
		return FormatXLSX, nil
	}
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is(mimeText) {
			return FormatCSV, nil
		}
	}
	return "", &apperrors.ParseError{Reason: fmt.Sprintf("unsupported file type %s", mtype.String())}
}

// Read parses data into a RawTable. The header is the first row holding
// every one of headerHints, so preamble lines above it are dropped. When no
// row matches, or without hints, it is the first non-blank row. Workbook
// date and number cells are rendered as text with layout.
func Read(data []byte, layout domain.CellLayout, headerHints ...string) (domain.RawTable, error) {
	format, err := Detect(data)
	if err != nil {
		return domain.RawTable{}, err
	}

	var rows [][]string
	switch format {
	case FormatXLSX:
		rows, err = readWorkbook(data, layout)
	default:
		rows, err = readDelimited(data)
	}
	if err != nil {
		return domain.RawTable{}, err
	}
	return split(rows, headerHints)
}

func readWorkbook(data []byte, layout domain.CellLayout) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &apperrors.ParseError{Reason: fmt.Sprintf("cannot open workbook: %v", err)}
	}
	defer f.Close()

	w := &workbook{file: f, layout: layout}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		w.date1904 = *props.Date1904
	}

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, &apperrors.ParseError{Reason: fmt.Sprintf("cannot read sheet %q: %v", sheet, err)}
		}
		if len(rows) == 0 {
			continue
		}
		if err := w.renderTyped(sheet, rows); err != nil {
			return nil, &apperrors.ParseError{Reason: fmt.Sprintf("cannot read sheet %q: %v", sheet, err)}
		}
		return rows, nil
	}
	return nil, &apperrors.ParseError{Reason: "workbook has no rows"}
}

func readDelimited(data []byte) ([][]string, error) {
	text := Decode(data)
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sniffDelimiter(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &apperrors.ParseError{Reason: fmt.Sprintf("malformed delimited text: %v", err)}
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// Decode returns data as UTF-8 text without a byte order mark. Bytes that
// are not valid UTF-8 are read as Windows-1252, the usual encoding of
// Italian bank exports.
func Decode(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

// sniffDelimiter picks ';' when the first non-blank line has more semicolons
// than commas.
func sniffDelimiter(text string) rune {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Count(line, ";") > strings.Count(line, ",") {
			return ';'
		}
		break
	}
	return ','
}

func split(rows [][]string, hints []string) (domain.RawTable, error) {
	header, firstFilled := -1, -1
	for i, row := range rows {
		if blank(row) {
			continue
		}
		if firstFilled < 0 {
			firstFilled = i
		}
		if len(hints) == 0 || containsAll(row, hints) {
			header = i
			break
		}
	}
	if header < 0 {
		header = firstFilled
	}
	if header < 0 {
		return domain.RawTable{}, &apperrors.ParseError{Reason: "file has no rows"}
	}

	raw := domain.RawTable{Header: trimAll(rows[header])}
	for _, row := range rows[header+1:] {
		if blank(row) {
			continue
		}
		raw.Records = append(raw.Records, row)
	}
	return raw, nil
}

func containsAll(row, names []string) bool {
	present := make(map[string]struct{}, len(row))
	for _, cell := range row {
		present[strings.TrimSpace(cell)] = struct{}{}
	}
	for _, n := range names {
		if _, ok := present[n]; !ok {
			return false
		}
	}
	return true
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trimAll(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}
