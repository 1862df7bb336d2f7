package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var serialRE = regexp.MustCompile(`^\d{5}(\.\d+)?$`)

// dateLayouts are tried in order. Slashed dates are day-first, as the
// carriers write them; dashed two-digit years are excelize's rendering of the
// built-in mm-dd-yy format.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2/1/06",
	"02-01-2006",
	"2-1-2006",
	"01-02-06",
	"1-2-06",
	"02.01.2006",
}

// isoDate rewrites a carrier date as YYYY-MM-DD so that string order is
// calendar order. Values it cannot read are returned unchanged.
func isoDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if serialRE.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			if t, err := excelize.ExcelDateToTime(f, false); err == nil {
				return t.Format(time.DateOnly)
			}
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return s
}
