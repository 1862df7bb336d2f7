// Package sheet reads carrier exports (xlsx workbooks or plain CSV) into
// in-memory tables.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jalad-shrimali/cdr-analyst/cdr"
)

// Source is the tabular reader the normalizer depends on.
type Source interface {
	ListSheets(path string) ([]string, error)
	ReadSheet(path, name string, skip int) (*Table, error)
}

// Files reads xlsx/xlsm workbooks through excelize and CSV files through
// encoding/csv. A CSV file is a workbook with one sheet named after the file.
type Files struct{}

var errNoSheets = errors.New("workbook has no sheets")

func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

func csvSheetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ListSheets returns the sheet names in workbook order.
func (Files) ListSheets(path string) ([]string, error) {
	if isCSV(path) {
		if _, err := os.Stat(path); err != nil {
			return nil, &cdr.SourceReadError{Path: path, Err: err}
		}
		return []string{csvSheetName(path)}, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &cdr.SourceReadError{Path: path, Err: err}
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// ReadSheet loads the named sheet and drops the first skip rows.
func (Files) ReadSheet(path, name string, skip int) (*Table, error) {
	var (
		rows [][]string
		err  error
	)
	if isCSV(path) {
		rows, err = readCSV(path, name)
	} else {
		rows, err = readWorkbook(path, name)
	}
	if err != nil {
		return nil, &cdr.SourceReadError{Path: path, Sheet: name, Err: err}
	}
	if skip > len(rows) {
		skip = len(rows)
	}
	return &Table{Name: name, Rows: rows[max(skip, 0):]}, nil
}

func readWorkbook(path, name string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetRows(name)
}

func readCSV(path, name string) ([][]string, error) {
	if want := csvSheetName(path); !strings.EqualFold(name, want) {
		return nil, fmt.Errorf("sheet %q does not exist", name)
	}
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// Resolve picks the sheet to read from available. The first wanted name
// present wins (exact match, then folded match). When none is present the
// first sheet is used, unless require is set, in which case the result is a
// *cdr.MissingSheetError.
func Resolve(available, wanted []string, require bool) (name string, fellBack bool, err error) {
	for _, w := range wanted {
		for _, a := range available {
			if a == w {
				return a, false, nil
			}
		}
	}
	for _, w := range wanted {
		for _, a := range available {
			if Norm(a) == Norm(w) {
				return a, false, nil
			}
		}
	}
	if require && len(wanted) > 0 {
		return "", false, &cdr.MissingSheetError{Expected: wanted, Available: available}
	}
	if len(available) == 0 {
		return "", false, errNoSheets
	}
	return available[0], len(wanted) > 0, nil
}
