package cmd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jalad-shrimali/cdr-analyst/cdr"
	"github.com/jalad-shrimali/cdr-analyst/celldb"
	"github.com/jalad-shrimali/cdr-analyst/sheet"
)

func cellsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cells",
		Short: "Manage the cell directory",
	}
	cmd.AddCommand(cellsImportCommand(), cellsLookupCommand(a))
	return cmd
}

func cellsImportCommand() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:         "import CSV",
		Short:       "Load cells from a CSV with cellid, address, latitude, longitude and azimuth columns",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"bare": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cells, err := readCells(args[0])
			if err != nil {
				return err
			}
			db, err := celldb.Create(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.Put(cmd.Context(), cells...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d cells into %s\n", len(cells), dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "cells.db", "SQLite file to create or update")
	return cmd
}

func cellsLookupCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup CELL_ID",
		Short: "Show the registered location of a cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cells == nil {
				return errors.New("no cell directory configured (set --celldb or celldb.path)")
			}
			c, ok := a.cells.Lookup(args[0])
			if !ok {
				return fmt.Errorf("cell %s not found", args[0])
			}
			return writeJSON(cmd.OutOrStdout(), c)
		},
	}
}

// readCells parses a cell CSV, locating columns by header name.
func readCells(path string) ([]cdr.Cell, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	iID := sheet.ColIdxAny(header, "cellid", "cell id", "celda", "cgi")
	if iID < 0 {
		return nil, fmt.Errorf("%s: no cellid column", path)
	}
	iAddr := sheet.ColIdxAny(header, "address", "direccion")
	iLat := sheet.ColIdxAny(header, "latitude", "latitud", "lat")
	iLon := sheet.ColIdxAny(header, "longitude", "longitud", "long", "lon")
	iAz := sheet.ColIdxAny(header, "azimuth", "azimut", "orientacion")
	pick := func(rec []string, i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var cells []cdr.Cell
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		id := pick(rec, iID)
		if id == "" {
			continue
		}
		cells = append(cells, cdr.Cell{
			ID:        id,
			Address:   pick(rec, iAddr),
			Latitude:  pick(rec, iLat),
			Longitude: pick(rec, iLon),
			Azimuth:   pick(rec, iAz),
		})
	}
	return cells, nil
}
