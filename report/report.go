// Package report writes an analysis report as an xlsx workbook.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/jalad-shrimali/cdr-analyst/analysis"
	"github.com/jalad-shrimali/cdr-analyst/cdr"
)

// Sheet names, in workbook order.
const (
	SheetBTS       = "bts"
	SheetLocations = "max_stay"
	SheetContacts  = "top_contacts"
	SheetSample    = "raw_sample"
)

var recordHeader = []string{
	"Abonado A", "Abonado B", "Tipo", "Etiqueta", "Fecha", "Hora", "Duracion",
	"Direccion A", "Direccion B", "Coordenadas A", "Coordenadas B",
	"Orientacion A", "Orientacion B", "Celda A", "Celda B", "IMEI A", "IMEI B",
}

func recordRow(r cdr.Record) []string {
	return []string{
		r.Caller, r.Callee, string(r.TransactionType), r.TransactionLabel, r.Date, r.Time, r.DurationOrSeg,
		r.AddressA, r.AddressB, r.CoordinatesA, r.CoordinatesB,
		r.OrientationA, r.OrientationB, r.CellA, r.CellB, r.IMEIA, r.IMEIB,
	}
}

// FileName is the report name for target: the cleaned number and a random
// suffix so concurrent runs never collide.
func FileName(target string) string {
	return fmt.Sprintf("%s_%s_reports.xlsx", cdr.CleanNumber(target), uuid.NewString()[:8])
}

// Write saves rep into dir and returns the file path.
func Write(dir string, rep *analysis.Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	bts := [][]string{recordHeader}
	for _, m := range rep.BTS {
		bts = append(bts, recordRow(m.Record))
	}
	stays := [][]string{{"CdrNo", "Direccion", "Coordenadas", "Celda", "Total", "Primera", "Ultima"}}
	for _, s := range rep.Locations {
		stays = append(stays, []string{rep.Target, s.Address, s.Coordinates, s.Cell, strconv.Itoa(s.Total), s.First, s.Last})
	}
	contacts := [][]string{{"CdrNo", "Numero", "Frecuencia", "Primer contacto", "Ultimo contacto"}}
	for _, c := range rep.TopContacts {
		contacts = append(contacts, []string{rep.Target, c.Number, strconv.Itoa(c.Frequency), c.FirstContact, c.LastContact})
	}
	sample := [][]string{recordHeader}
	for _, r := range rep.RawSample {
		sample = append(sample, recordRow(r))
	}

	x := excelize.NewFile()
	defer x.Close()
	var werr error
	add := func(name string, rows [][]string) {
		if werr != nil {
			return
		}
		idx, err := x.NewSheet(name)
		if err != nil {
			werr = err
			return
		}
		for r, row := range rows {
			for c, v := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
				if err := x.SetCellStr(name, cell, v); err != nil {
					werr = err
					return
				}
			}
		}
		if name == SheetBTS {
			x.SetActiveSheet(idx)
		}
	}
	add(SheetBTS, bts)
	add(SheetLocations, stays)
	add(SheetContacts, contacts)
	add(SheetSample, sample)
	if werr != nil {
		return "", fmt.Errorf("build report: %w", werr)
	}
	if err := x.DeleteSheet("Sheet1"); err != nil {
		return "", err
	}

	out := filepath.Join(dir, FileName(rep.Target))
	if err := x.SaveAs(out); err != nil {
		return "", err
	}
	return out, nil
}
