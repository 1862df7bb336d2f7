// Package carrier is the static table of carrier export layouts.
package carrier

import (
	"slices"
	"strings"

	"github.com/jalad-shrimali/cdr-analyst/cdr"
)

/* ──────────── export layouts (one entry per carrier) ──────────── */

var registry = []Profile{
	{
		ID:         Digitel,
		Sheets:     []string{"Hoja1", "IBM"},
		HeaderSkip: 28,
		Plan:       PlanGeoState,
		Columns: map[Field][]string{
			Caller:          {"ABONADO A", "NUMERO A"},
			Callee:          {"ABONADO B", "NUMERO B"},
			DateTime:        {"FECHA Y HORA", "FECHA HORA"},
			Date:            {"FECHA"},
			Time:            {"HORA"},
			Duration:        {"DURACION", "DURACION (SEG)", "TIEMPO"},
			TransactionType: {"TIPO DE TRANSACCION", "TIPO TRANSACCION", "TIPO"},
			GeoLocationA:    {"UBICACION GEOGRAFICA INICIO A", "UBICACION INICIO A", "DIRECCION INICIO A"},
			GeoLocationB:    {"UBICACION GEOGRAFICA INICIO B", "UBICACION INICIO B", "DIRECCION INICIO B"},
			StateA:          {"ESTADO INICIO A"},
			StateB:          {"ESTADO INICIO B"},
			LatitudeA:       {"LATITUD INICIO A"},
			LongitudeA:      {"LONGITUD INICIO A"},
			LatitudeB:       {"LATITUD INICIO B"},
			LongitudeB:      {"LONGITUD INICIO B"},
			OrientationA:    {"ORIENTACION INICIO A", "AZIMUT INICIO A"},
			OrientationB:    {"ORIENTACION INICIO B", "AZIMUT INICIO B"},
			CellA:           {"CELDA INICIO A", "CELL ID A"},
			CellB:           {"CELDA INICIO B", "CELL ID B"},
			IMEIA:           {"IMEI A", "IMEI ABONADO A"},
			IMEIB:           {"IMEI B", "IMEI ABONADO B"},
		},
	},
	{
		ID:           Movistar,
		Sheets:       []string{"VOZ"},
		RequireSheet: true,
		HeaderSkip:   14,
		Plan:         PlanLabelCell,
		Columns: map[Field][]string{
			Caller:          {"ABONADO A", "NUMERO ORIGEN"},
			Callee:          {"ABONADO B", "NUMERO DESTINO"},
			DateTime:        {"FECHA Y HORA"},
			Date:            {"FECHA"},
			Time:            {"HORA"},
			Duration:        {"SEG", "DURACION", "DURACION (SEG)"},
			CDRType:         {"TIPO CDR", "TIPO DE CDR"},
			TransactionCode: {"CODIGO TRANSACCION", "TRANSACCION"},
			AddressA:        {"DIRECCION INICIAL A"},
			AddressB:        {"DIRECCION INICIAL B"},
			LatitudeA:       {"LATITUD INICIAL A"},
			LongitudeA:      {"LONGITUD INICIAL A"},
			LatitudeB:       {"LATITUD INICIAL B"},
			LongitudeB:      {"LONGITUD INICIAL B"},
			OrientationA:    {"ORIENTACION INICIAL A", "AZIMUT INICIAL A"},
			OrientationB:    {"ORIENTACION INICIAL B", "AZIMUT INICIAL B"},
			CellB:           {"CELDA INICIAL B"},
			IMEIA:           {"IMEI A"},
			IMEIB:           {"IMEI B"},
		},
	},
	{
		ID:           Movilnet,
		Sheets:       []string{"Results", "RESULTS"},
		RequireSheet: true,
		HeaderSkip:   1,
		Plan:         PlanDurationSMS,
		Columns: map[Field][]string{
			Caller:       {"ORIGEN", "NUMERO ORIGEN", "ABONADO A"},
			Callee:       {"DESTINO", "NUMERO DESTINO", "ABONADO B"},
			DateTime:     {"FECHA Y HORA"},
			Date:         {"FECHA"},
			Time:         {"HORA"},
			Duration:     {"DURACION", "TIEMPO"},
			AddressA:     {"DIRECCION ORIGEN"},
			AddressB:     {"DIRECCION", "DIRECCION CELDA", "UBICACION"},
			LatitudeB:    {"LATITUD"},
			LongitudeB:   {"LONGITUD"},
			OrientationB: {"AZIMUT", "ORIENTACION"},
			CellB:        {"CELDA", "CELL ID"},
			IMEIA:        {"IMEI"},
		},
	},
}

// Resolve finds the profile whose identifier appears, case-insensitively, in
// name. "Movilnet C.A." and "digitel" both resolve; anything else is an
// *cdr.UnsupportedCarrierError.
func Resolve(name string) (Profile, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n != "" {
		for _, p := range registry {
			if strings.Contains(n, strings.ToLower(string(p.ID))) {
				return p.clone(), nil
			}
		}
	}
	return Profile{}, &cdr.UnsupportedCarrierError{Carrier: name}
}

// All returns every registered profile in registry order.
func All() []Profile {
	out := make([]Profile, len(registry))
	for i, p := range registry {
		out[i] = p.clone()
	}
	return out
}

// clone keeps callers from mutating the shared table.
func (p Profile) clone() Profile {
	c := p
	c.Sheets = slices.Clone(p.Sheets)
	c.Columns = make(map[Field][]string, len(p.Columns))
	for f, names := range p.Columns {
		c.Columns[f] = slices.Clone(names)
	}
	return c
}
