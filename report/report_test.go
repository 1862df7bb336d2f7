package report

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jalad-shrimali/cdr-analyst/analysis"
	"github.com/jalad-shrimali/cdr-analyst/cdr"
)

func TestWrite(t *testing.T) {
	match := cdr.Record{Caller: "4141112233", Callee: "4125223014", TransactionType: cdr.VoiceIn,
		Date: "2024-01-15", Time: "10:22:03", AddressB: "Centro . Carabobo"}
	rep := &analysis.Report{
		Target:      "4125223014",
		BTS:         []cdr.BTSMatch{{Record: match}},
		Locations:   []analysis.LocationStay{{Address: "Centro . Carabobo", Total: 1, First: "2024-01-15 10:22:03", Last: "2024-01-15 10:22:03"}},
		TopContacts: []cdr.ContactFrequency{{Number: "4141112233", Frequency: 1, FirstContact: "2024-01-15", LastContact: "2024-01-15"}},
		RawSample:   []cdr.Record{match, {Caller: "4125223014", Callee: "5551234"}},
	}
	dir := filepath.Join(t.TempDir(), "filtered")

	path, err := Write(dir, rep)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "4125223014_"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetBTS, SheetLocations, SheetContacts, SheetSample}, f.GetSheetList())

	rows, err := f.GetRows(SheetBTS)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Abonado A", rows[0][0])
	assert.Equal(t, "VOICE_IN", rows[1][2])
	assert.Equal(t, "Centro . Carabobo", rows[1][8])

	rows, err = f.GetRows(SheetContacts)
	require.NoError(t, err)
	assert.Equal(t, []string{"4125223014", "4141112233", "1", "2024-01-15", "2024-01-15"}, rows[1])

	rows, err = f.GetRows(SheetSample)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestWriteEmptyReport(t *testing.T) {
	path, err := Write(t.TempDir(), &analysis.Report{Target: "4125223014"})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetLocations)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFileNameIsUnique(t *testing.T) {
	a, b := FileName("0412-522.3014"), FileName("04125223014")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "04125223014_"))
}
