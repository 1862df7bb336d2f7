// Package normalize maps a carrier export onto the canonical record schema.
package normalize

import (
	"errors"
	"iter"
	"log/slog"
	"slices"
	"strings"

	"github.com/jalad-shrimali/cdr-analyst/carrier"
	"github.com/jalad-shrimali/cdr-analyst/cdr"
	"github.com/jalad-shrimali/cdr-analyst/sheet"
)

// CellDirectory resolves a cell id to its registered location.
type CellDirectory interface {
	Lookup(id string) (cdr.Cell, bool)
}

// Options tune one normalization run.
type Options struct {
	// Target is the queried number. Only profiles whose derivation depends on
	// it read it.
	Target string
	// Cells, when set, fills addresses the export left empty.
	Cells CellDirectory
	// ISODates rewrites recognised date formats as YYYY-MM-DD.
	ISODates bool
	Logger   *slog.Logger
}

// Batch is the normalized form of one sheet. It is immutable; All can be
// ranged over any number of times.
type Batch struct {
	Carrier   carrier.ID
	Sheet     string
	HeaderRow int
	Missing   []carrier.Field
	cols      columns
}

// Len is the number of records.
func (b *Batch) Len() int { return b.cols.n }

// Record returns the i-th record.
func (b *Batch) Record(i int) cdr.Record { return b.cols.record(i) }

// All yields the records in source order.
func (b *Batch) All() iter.Seq[cdr.Record] {
	return func(yield func(cdr.Record) bool) {
		for i := range b.cols.n {
			if !yield(b.cols.record(i)) {
				return
			}
		}
	}
}

// Head returns up to n records from the top of the batch.
func (b *Batch) Head(n int) []cdr.Record {
	n = min(max(n, 0), b.cols.n)
	out := make([]cdr.Record, n)
	for i := range n {
		out[i] = b.cols.record(i)
	}
	return out
}

// Load resolves the profile's sheet in path, reads it past the header skip
// and normalizes it.
func Load(src sheet.Source, path string, p carrier.Profile, opts Options) (*Batch, error) {
	log := logger(opts)

	sheets, err := src.ListSheets(path)
	if err != nil {
		return nil, err
	}
	log.Debug("sheets available", "path", path, "sheets", sheets)

	name, fellBack, err := sheet.Resolve(sheets, p.Sheets, p.RequireSheet)
	if err != nil {
		var missing *cdr.MissingSheetError
		if errors.As(err, &missing) {
			return nil, err
		}
		return nil, &cdr.SourceReadError{Path: path, Err: err}
	}
	if fellBack {
		log.Warn("expected sheet not found, using first sheet",
			"carrier", p.ID, "expected", p.Sheets, "using", name)
	}

	tbl, err := src.ReadSheet(path, name, p.HeaderSkip)
	if err != nil {
		return nil, err
	}
	log.Debug("sheet read", "carrier", p.ID, "sheet", name, "rows_after_skip", tbl.Len())
	return Normalize(tbl, p, opts), nil
}

// Normalize maps tbl, whose boilerplate rows are already gone, onto canonical
// records. Columns the export lacks come out empty; nothing here fails.
func Normalize(tbl *sheet.Table, p carrier.Profile, opts Options) *Batch {
	log := logger(opts)

	hdr := locateHeader(tbl, p)
	if hdr < 0 {
		log.Warn("no header row names the caller or callee column, using first row",
			"carrier", p.ID, "sheet", tbl.Name)
		hdr = 0
	}
	var header []string
	if hdr < tbl.Len() {
		header = tbl.Rows[hdr]
	}

	data := &sheet.Table{Name: tbl.Name}
	for _, row := range tbl.Rows[min(hdr+1, tbl.Len()):] {
		if !blank(row) {
			data.Rows = append(data.Rows, row)
		}
	}

	src := source{n: data.Len(), cols: map[carrier.Field][]string{}}
	var missing []carrier.Field
	for f, aliases := range p.Columns {
		idx := sheet.ColIdxAny(header, aliases...)
		if idx < 0 {
			missing = append(missing, f)
			continue
		}
		src.cols[f] = data.Column(idx, 0)
	}
	slices.Sort(missing)

	cols := baseColumns(src)
	if derive, ok := derivations[p.Plan]; ok {
		derive(src, &cols, cdr.CleanNumber(opts.Target))
	}
	if opts.ISODates {
		cols.date = mapCol(cols.date, isoDate)
	}
	if opts.Cells != nil {
		enrich(&cols, opts.Cells)
	}

	log.Debug("sheet normalized", "carrier", p.ID, "sheet", tbl.Name,
		"header_row", hdr, "records", cols.n, "unresolved_columns", len(missing))

	return &Batch{
		Carrier:   p.ID,
		Sheet:     tbl.Name,
		HeaderRow: hdr,
		Missing:   missing,
		cols:      cols,
	}
}

// locateHeader finds the first row naming the caller or callee column.
func locateHeader(tbl *sheet.Table, p carrier.Profile) int {
	keys := append(append([]string(nil), p.Aliases(carrier.Caller)...), p.Aliases(carrier.Callee)...)
	return tbl.FindRow(0, func(row []string) bool {
		return sheet.ColIdxAny(row, keys...) >= 0
	})
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// baseColumns copies the directly mapped fields, cleaning subscriber numbers
// and splitting a combined date-time column when no separate one exists.
func baseColumns(src source) columns {
	c := columns{
		n:        src.n,
		caller:   mapCol(src.get(carrier.Caller), cdr.CleanNumber),
		callee:   mapCol(src.get(carrier.Callee), cdr.CleanNumber),
		txType:   make([]cdr.TransactionType, src.n),
		txLabel:  make([]string, src.n),
		date:     mapCol(src.get(carrier.Date), text),
		time:     mapCol(src.get(carrier.Time), text),
		duration: mapCol(src.get(carrier.Duration), text),
		addrA:    mapCol(src.get(carrier.AddressA), text),
		addrB:    mapCol(src.get(carrier.AddressB), text),
		coordA:   zipCol(src.get(carrier.LatitudeA), src.get(carrier.LongitudeA), cdr.JoinCoordinates),
		coordB:   zipCol(src.get(carrier.LatitudeB), src.get(carrier.LongitudeB), cdr.JoinCoordinates),
		orientA:  mapCol(src.get(carrier.OrientationA), text),
		orientB:  mapCol(src.get(carrier.OrientationB), text),
		cellA:    mapCol(src.get(carrier.CellA), text),
		cellB:    mapCol(src.get(carrier.CellB), text),
		imeiA:    mapCol(src.get(carrier.IMEIA), cdr.CleanNumber),
		imeiB:    mapCol(src.get(carrier.IMEIB), cdr.CleanNumber),
	}
	for i := range c.txType {
		c.txType[i] = cdr.Unknown
	}

	if src.has(carrier.DateTime) && (!src.has(carrier.Date) || !src.has(carrier.Time)) {
		for i, v := range src.get(carrier.DateTime) {
			d, t := splitDateTime(v)
			if c.date[i] == "" {
				c.date[i] = d
			}
			if c.time[i] == "" {
				c.time[i] = t
			}
		}
	}
	return c
}

type cellHit struct {
	cell cdr.Cell
	ok   bool
}

// enrich fills a side's empty location from the cell directory. Each
// distinct cell id is looked up once per batch.
func enrich(c *columns, cells CellDirectory) {
	seen := make(map[string]cellHit)
	lookup := func(id string) (cdr.Cell, bool) {
		h, done := seen[id]
		if !done {
			h.cell, h.ok = cells.Lookup(id)
			seen[id] = h
		}
		return h.cell, h.ok
	}
	side := func(addr, coord, orient, cell []string) {
		for i := range addr {
			if cell[i] == "" || (addr[i] != "" && coord[i] != "") {
				continue
			}
			info, ok := lookup(cell[i])
			if !ok {
				continue
			}
			if addr[i] == "" {
				addr[i] = text(info.Address)
			}
			if coord[i] == "" {
				coord[i] = info.Coordinates()
			}
			if orient[i] == "" {
				orient[i] = text(info.Azimuth)
			}
		}
	}
	side(c.addrA, c.coordA, c.orientA, c.cellA)
	side(c.addrB, c.coordB, c.orientB, c.cellB)
}

func logger(opts Options) *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return slog.New(slog.DiscardHandler)
}
