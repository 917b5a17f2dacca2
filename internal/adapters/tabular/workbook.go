package tabular

import (
	"strings"
	"time"

	"github.com/SscSPs/statement_dashboard/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const isoDate = "2006-01-02"

// workbook renders the typed cells of an excelize file as vendor text.
type workbook struct {
	file     *excelize.File
	layout   domain.CellLayout
	date1904 bool
	dateFmt  map[int]bool // style index → date number format
}

// renderTyped rewrites, in place, every numeric cell of rows: date formatted
// cells become layout dates and plain numbers layout amounts. Text cells are
// left as written.
func (w *workbook) renderTyped(sheet string, rows [][]string) error {
	for r, row := range rows {
		for c, value := range row {
			if strings.TrimSpace(value) == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			typ, err := w.file.GetCellType(sheet, cell)
			if err != nil {
				return err
			}
			if typ == excelize.CellTypeDate {
				// "d" cells hold ISO 8601 text
				if t, err := time.Parse(time.RFC3339, value); err == nil {
					row[c] = t.Format(w.dateLayout())
				}
				continue
			}
			if typ != excelize.CellTypeUnset && typ != excelize.CellTypeNumber {
				continue
			}
			num, err := decimal.NewFromString(value)
			if err != nil {
				continue
			}
			isDate, err := w.isDateCell(sheet, cell)
			if err != nil {
				return err
			}
			if !isDate {
				row[c] = w.amount(num)
				continue
			}
			if t, err := excelize.ExcelDateToTime(num.InexactFloat64(), w.date1904); err == nil {
				row[c] = t.Format(w.dateLayout())
			}
		}
	}
	return nil
}

func (w *workbook) dateLayout() string {
	if w.layout.DateLayout == "" {
		return isoDate
	}
	return w.layout.DateLayout
}

func (w *workbook) amount(num decimal.Decimal) string {
	s := num.String()
	if w.layout.DecimalComma {
		s = strings.Replace(s, ".", ",", 1)
	}
	return s
}

func (w *workbook) isDateCell(sheet, cell string) (bool, error) {
	idx, err := w.file.GetCellStyle(sheet, cell)
	if err != nil {
		return false, err
	}
	if known, ok := w.dateFmt[idx]; ok {
		return known, nil
	}
	style, err := w.file.GetStyle(idx)
	if err != nil {
		return false, err
	}
	isDate := builtInDateFormat(style.NumFmt)
	if style.CustomNumFmt != nil {
		isDate = customDateFormat(*style.CustomNumFmt)
	}
	if w.dateFmt == nil {
		w.dateFmt = make(map[int]bool)
	}
	w.dateFmt[idx] = isDate
	return isDate, nil
}

// builtInDateFormat reports whether a built-in number format id renders a
// date or time (ECMA-376 18.8.30 plus the East Asian ids).
func builtInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58,
		id >= 71 && id <= 81:
		return true
	}
	return false
}

// customDateFormat looks for date tokens in a format code, ignoring quoted
// literals, escaped characters and bracketed sections such as [$-410].
func customDateFormat(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			inQuote = ch != '"'
		case inBracket:
			inBracket = ch != ']'
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\':
			i++
		default:
			b.WriteByte(ch)
		}
	}
	s := strings.ToLower(b.String())
	if strings.ContainsAny(s, "dy") {
		return true
	}
	return strings.Contains(s, "m") && strings.ContainsAny(s, "hs")
}
