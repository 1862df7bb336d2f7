package normalize

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jalad-shrimali/cdr-analyst/carrier"
	"github.com/jalad-shrimali/cdr-analyst/cdr"
	"github.com/jalad-shrimali/cdr-analyst/sheet"
	"github.com/jalad-shrimali/cdr-analyst/sheet/sheettest"
)

func mustProfile(t *testing.T, name string) carrier.Profile {
	t.Helper()
	p, err := carrier.Resolve(name)
	require.NoError(t, err)
	return p
}

func load(t *testing.T, carrierName string, opts Options, sheets ...sheettest.Sheet) *Batch {
	t.Helper()
	path := sheettest.Workbook(t, t.TempDir(), "export.xlsx", sheets...)
	b, err := Load(sheet.Files{}, path, mustProfile(t, carrierName), opts)
	require.NoError(t, err)
	return b
}

func TestLoadDigitel(t *testing.T) {
	b := load(t, "digitel", Options{}, sheettest.Digitel("Hoja1",
		sheettest.DigitelRow("4141112233.0", 4125223014, "SMS ENTRANTE", "0", "2024-01-15 10:22:03",
			"", "", "", "Carabobo", "10.16", "-68.0"),
		sheettest.DigitelRow(" 4125223014 ", "04241234567", "MOC", "35", "2024-01-16 08:00:00",
			"Av Bolivar", "Aragua", "nan", "-", "", ""),
	))

	require.Equal(t, 2, b.Len())
	assert.Equal(t, carrier.Digitel, b.Carrier)
	assert.Equal(t, "Hoja1", b.Sheet)

	first := b.Record(0)
	assert.Equal(t, "4141112233", first.Caller)
	assert.Equal(t, "4125223014", first.Callee)
	assert.Equal(t, "2024-01-15", first.Date)
	assert.Equal(t, "10:22:03", first.Time)
	assert.Equal(t, "Carabobo", first.AddressB)
	assert.Equal(t, "", first.AddressA)
	assert.Equal(t, "10.16, -68.0", first.CoordinatesB)
	assert.Equal(t, "120", first.OrientationB)
	assert.Equal(t, cdr.SMSIn, first.TransactionType)
	assert.Equal(t, "356938035643809", first.IMEIA)

	second := b.Record(1)
	assert.Equal(t, "4125223014", second.Caller)
	assert.Equal(t, "Av Bolivar . Aragua", second.AddressA)
	assert.Equal(t, "", second.AddressB)
	assert.Equal(t, "", second.CoordinatesB)
	assert.Equal(t, cdr.VoiceOut, second.TransactionType)
	assert.Equal(t, "35", second.DurationOrSeg)
}

func TestLoadDigitelFallsBackToFirstSheet(t *testing.T) {
	b := load(t, "Digitel", Options{}, sheettest.Digitel("Datos",
		sheettest.DigitelRow("4141112233", "4125223014", "", "", "2024-01-15 10:22:03", "", "", "", "", "", ""),
	))
	assert.Equal(t, "Datos", b.Sheet)
	assert.Equal(t, 1, b.Len())
}

func TestLoadDigitelPrefersNamedSheet(t *testing.T) {
	b := load(t, "digitel", Options{},
		sheettest.Sheet{Name: "Portada", Rows: [][]any{{"nada"}}},
		sheettest.Digitel("IBM",
			sheettest.DigitelRow("4141112233", "4125223014", "", "", "2024-01-15 10:22:03", "", "", "", "", "", ""),
		),
	)
	assert.Equal(t, "IBM", b.Sheet)
}

func TestLoadDigitelHoja1BeforeIBM(t *testing.T) {
	b := load(t, "digitel", Options{},
		sheettest.Digitel("IBM",
			sheettest.DigitelRow("4141112233", "4125223014", "", "", "2024-01-15 10:22:03", "", "", "", "", "", ""),
		),
		sheettest.Digitel("Hoja1",
			sheettest.DigitelRow("4141112233", "4125223014", "", "", "2024-01-15 10:22:03", "", "", "", "", "", ""),
			sheettest.DigitelRow("4125223014", "4141112233", "", "", "2024-01-16 10:22:03", "", "", "", "", "", ""),
		),
	)
	assert.Equal(t, "Hoja1", b.Sheet)
	assert.Equal(t, 2, b.Len())
}

func TestLoadMovistar(t *testing.T) {
	b := load(t, "movistar", Options{}, sheettest.Movistar("VOZ",
		sheettest.MovistarRow("4141112233", "4125223014", "2024-02-01", "09:15:00", "61", "MTC", "VOZ",
			"CCS001-Av Urdaneta, Caracas", "10.50", "-66.91", "VAL020-Centro, Valencia"),
		sheettest.MovistarRow("4125223014", "4141112233", "2024-02-02", "11:00:00", "0", "SMSMO", "",
			"", "", "", ""),
	))

	require.Equal(t, 2, b.Len())
	first := b.Record(0)
	assert.Equal(t, "MTC . VOZ", first.TransactionLabel)
	assert.Equal(t, cdr.VoiceIn, first.TransactionType)
	assert.Equal(t, "CCS001", first.CellA)
	assert.Equal(t, "10.50, -66.91", first.CoordinatesA)
	assert.Equal(t, "VAL020-Centro, Valencia", first.AddressB)
	assert.Equal(t, "2024-02-01", first.Date)
	assert.Equal(t, "09:15:00", first.Time)
	assert.Equal(t, "61", first.DurationOrSeg)

	second := b.Record(1)
	assert.Equal(t, "SMSMO", second.TransactionLabel)
	assert.Equal(t, cdr.SMSOut, second.TransactionType)
	assert.Equal(t, "", second.CellA)
}

func TestLoadMovistarRequiresVOZ(t *testing.T) {
	path := sheettest.Workbook(t, t.TempDir(), "movistar.xlsx",
		sheettest.Movistar("DATOS"), sheettest.Sheet{Name: "SMS", Rows: [][]any{{"x"}}})

	_, err := Load(sheet.Files{}, path, mustProfile(t, "movistar"), Options{})
	var missing *cdr.MissingSheetError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"VOZ"}, missing.Expected)
	assert.Equal(t, []string{"DATOS", "SMS"}, missing.Available)
}

func TestLoadMovilnet(t *testing.T) {
	target := "4125223014"
	b := load(t, "movilnet", Options{Target: target}, sheettest.Movilnet("RESULTS",
		sheettest.MovilnetRow(target, "4141112233", "2024-03-01", "", "SMS 10:01:02", "CEL-77", "Maracay"),
		sheettest.MovilnetRow("4141112233", target, "2024-03-02", "12:00:00", "sms", "", "nan"),
		sheettest.MovilnetRow(target, "4141112233", "2024-03-03", "13:00:00", "00:02:10", "", "Maracay"),
		sheettest.MovilnetRow("4141112233", target, "2024-03-04", "14:00:00", "45", "", "Cagua"),
	))

	require.Equal(t, 4, b.Len())
	types := make([]cdr.TransactionType, 0, 4)
	for r := range b.All() {
		types = append(types, r.TransactionType)
	}
	assert.Equal(t, []cdr.TransactionType{cdr.SMSOut, cdr.SMSIn, cdr.VoiceOut, cdr.VoiceIn}, types)

	first := b.Record(0)
	assert.Equal(t, "10:01:02", first.DurationOrSeg)
	assert.Equal(t, "10:01:02", first.Time)
	assert.Equal(t, "Maracay", first.AddressB)
	assert.Equal(t, "CEL-77", first.CellB)

	assert.Equal(t, "", b.Record(1).DurationOrSeg)
	assert.Equal(t, "12:00:00", b.Record(1).Time)
	assert.Equal(t, "", b.Record(1).AddressB)
}

func TestLoadMovilnetWithoutTargetLeavesDirectionUnknown(t *testing.T) {
	b := load(t, "movilnet", Options{}, sheettest.Movilnet("Results",
		sheettest.MovilnetRow("4125223014", "4141112233", "2024-03-01", "", "SMS 10:01:02", "", ""),
	))
	assert.Equal(t, cdr.Unknown, b.Record(0).TransactionType)
	assert.Equal(t, "SMS", b.Record(0).TransactionLabel)
}

func TestNormalizeCleansNumbersForEveryCarrier(t *testing.T) {
	sheets := map[string]sheettest.Sheet{
		"digitel": sheettest.Digitel("Hoja1",
			sheettest.DigitelRow(" 4141112233.0 ", "4125223014.0", "", "", "", "", "", "", "", "", ""),
			sheettest.DigitelRow(4141112233, 4125223014, "", "", "", "", "", "", "", "", "")),
		"movistar": sheettest.Movistar("VOZ",
			sheettest.MovistarRow(" 4141112233.0 ", "4125223014.0", "", "", "", "", "", "", "", "", ""),
			sheettest.MovistarRow(4141112233, 4125223014, "", "", "", "", "", "", "", "", "")),
		"movilnet": sheettest.Movilnet("Results",
			sheettest.MovilnetRow(" 4141112233.0 ", "4125223014.0", "", "", "", "", ""),
			sheettest.MovilnetRow(4141112233, 4125223014, "", "", "", "", "")),
	}
	for name, s := range sheets {
		t.Run(name, func(t *testing.T) {
			b := load(t, name, Options{}, s)
			require.Equal(t, 2, b.Len())
			for r := range b.All() {
				for _, n := range []string{r.Caller, r.Callee} {
					assert.False(t, strings.HasSuffix(n, ".0"), n)
					assert.Equal(t, strings.TrimSpace(n), n)
				}
				assert.Equal(t, "4141112233", r.Caller)
				assert.Equal(t, "4125223014", r.Callee)
			}
		})
	}
}

func TestNormalizeMissingColumnsDegrade(t *testing.T) {
	tbl := &sheet.Table{Name: "Hoja1", Rows: [][]string{
		{"ABONADO A", "ABONADO B"},
		{"4141112233", "4125223014"},
		{"", ""},
		{"4125223014", "4141112233"},
	}}
	b := Normalize(tbl, mustProfile(t, "digitel"), Options{})

	require.Equal(t, 2, b.Len())
	r := b.Record(0)
	assert.Equal(t, "4141112233", r.Caller)
	assert.Empty(t, r.AddressA)
	assert.Empty(t, r.AddressB)
	assert.Empty(t, r.Date)
	assert.Equal(t, cdr.Unknown, r.TransactionType)
	assert.Contains(t, b.Missing, carrier.StateB)
	assert.True(t, slices.IsSorted(b.Missing))
}

func TestNormalizeWithoutHeader(t *testing.T) {
	tbl := &sheet.Table{Name: "Hoja1", Rows: [][]string{{"sin", "cabecera"}, {"1", "2"}}}
	b := Normalize(tbl, mustProfile(t, "digitel"), Options{})
	assert.Equal(t, 0, b.HeaderRow)
	require.Equal(t, 1, b.Len())
	assert.Equal(t, "", b.Record(0).Caller)
}

func TestNormalizeEmptyTable(t *testing.T) {
	b := Normalize(&sheet.Table{Name: "Hoja1"}, mustProfile(t, "movistar"), Options{})
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Head(100))
}

func TestBatchIsRestartable(t *testing.T) {
	tbl := &sheet.Table{Rows: [][]string{
		{"ABONADO A", "ABONADO B", "FECHA"},
		{"1", "2", "2024-01-01"},
		{"3", "4", "2024-01-02"},
		{"5", "6", "2024-01-03"},
	}}
	b := Normalize(tbl, mustProfile(t, "movistar"), Options{})

	var first, second []cdr.Record
	for r := range b.All() {
		first = append(first, r)
	}
	for r := range b.All() {
		second = append(second, r)
	}
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)

	for r := range b.All() {
		assert.Equal(t, "1", r.Caller)
		break
	}
	assert.Equal(t, first[:2], b.Head(2))
}

type fakeCells map[string]cdr.Cell

func (f fakeCells) Lookup(id string) (cdr.Cell, bool) {
	c, ok := f[id]
	return c, ok
}

func TestNormalizeEnrichesFromCellDirectory(t *testing.T) {
	tbl := &sheet.Table{Rows: [][]string{
		{"ORIGEN", "DESTINO", "CELDA", "DIRECCION"},
		{"4141112233", "4125223014", "CEL-77", ""},
		{"4141112233", "4125223014", "CEL-99", ""},
		{"4141112233", "4125223014", "CEL-77", "Cagua"},
	}}
	cells := fakeCells{"CEL-77": {ID: "CEL-77", Address: "Maracay Centro", Latitude: "10.24", Longitude: "-67.59", Azimuth: "240"}}
	b := Normalize(tbl, mustProfile(t, "movilnet"), Options{Cells: cells})

	assert.Equal(t, "Maracay Centro", b.Record(0).AddressB)
	assert.Equal(t, "10.24, -67.59", b.Record(0).CoordinatesB)
	assert.Equal(t, "240", b.Record(0).OrientationB)
	assert.Equal(t, "", b.Record(1).AddressB)
	assert.Equal(t, "Cagua", b.Record(2).AddressB)
	assert.Equal(t, "10.24, -67.59", b.Record(2).CoordinatesB)
}

type countingCells struct {
	fakeCells
	calls map[string]int
}

func (c *countingCells) Lookup(id string) (cdr.Cell, bool) {
	c.calls[id]++
	return c.fakeCells.Lookup(id)
}

func TestNormalizeLooksUpEachCellOnce(t *testing.T) {
	rows := [][]string{{"ORIGEN", "DESTINO", "CELDA", "DIRECCION"}}
	for i := range 200 {
		cell := "CEL-77"
		if i%2 == 1 {
			cell = "CEL-99"
		}
		rows = append(rows, []string{"4141112233", "4125223014", cell, ""})
	}
	cells := &countingCells{
		fakeCells: fakeCells{"CEL-77": {ID: "CEL-77", Address: "Maracay Centro"}},
		calls:     map[string]int{},
	}
	b := Normalize(&sheet.Table{Rows: rows}, mustProfile(t, "movilnet"), Options{Cells: cells})

	assert.Equal(t, map[string]int{"CEL-77": 1, "CEL-99": 1}, cells.calls)
	assert.Equal(t, "Maracay Centro", b.Record(198).AddressB)
	assert.Empty(t, b.Record(199).AddressB)
}

func TestNormalizeISODates(t *testing.T) {
	tbl := &sheet.Table{Rows: [][]string{
		{"ABONADO A", "ABONADO B", "FECHA Y HORA"},
		{"1", "2", "15/01/2024 10:00:00"},
		{"1", "2", "01-16-24 11:00:00"},
	}}
	b := Normalize(tbl, mustProfile(t, "digitel"), Options{ISODates: true})
	assert.Equal(t, "2024-01-15", b.Record(0).Date)
	assert.Equal(t, "10:00:00", b.Record(0).Time)
	assert.Equal(t, "2024-01-16", b.Record(1).Date)
}
