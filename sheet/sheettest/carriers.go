package sheettest

// Column headers as each carrier exports them.
var (
	DigitelHeader = []any{
		"ABONADO A", "IMEI A", "CELDA INICIO A", "ABONADO B", "IMEI B",
		"TIPO DE TRANSACCION", "DURACION", "FECHA Y HORA",
		"UBICACION GEOGRAFICA INICIO A", "ESTADO INICIO A",
		"UBICACION GEOGRAFICA INICIO B", "ESTADO INICIO B",
		"LATITUD INICIO B", "LONGITUD INICIO B", "ORIENTACION INICIO B",
	}
	MovistarHeader = []any{
		"ABONADO A", "ABONADO B", "FECHA", "HORA", "SEG", "TIPO CDR",
		"CODIGO TRANSACCION", "IMEI A", "DIRECCION INICIAL A",
		"LATITUD INICIAL A", "LONGITUD INICIAL A", "DIRECCION INICIAL B",
	}
	MovilnetHeader = []any{
		"ID", "ORIGEN", "DESTINO", "IMEI", "FECHA", "HORA", "DURACION",
		"CELDA", "LATITUD", "DIRECCION", "LONGITUD",
	}
)

// DigitelRow lays out one DIGITEL data row under DigitelHeader.
func DigitelRow(caller, callee any, label, dur, when, geoA, stateA, geoB, stateB, lat, lon string) []any {
	return []any{caller, "356938035643809", "", callee, "", label, dur, when,
		geoA, stateA, geoB, stateB, lat, lon, "120"}
}

// MovistarRow lays out one MOVISTAR data row under MovistarHeader.
func MovistarRow(caller, callee any, date, clock, seg, cdrType, code, addrA, lat, lon, addrB string) []any {
	return []any{caller, callee, date, clock, seg, cdrType, code, "", addrA, lat, lon, addrB}
}

// MovilnetRow lays out one MOVILNET data row under MovilnetHeader.
func MovilnetRow(caller, callee any, date, clock, dur, cell, addr string) []any {
	return []any{"1", caller, callee, "", date, clock, dur, cell, "", addr, ""}
}

// Digitel builds a DIGITEL sheet: 28 banner rows, the header, then rows.
func Digitel(name string, rows ...[]any) Sheet {
	return Sheet{Name: name, Rows: append(append(Boilerplate(28), DigitelHeader), rows...)}
}

// Movistar builds a MOVISTAR sheet: 14 banner rows, the header, then rows.
func Movistar(name string, rows ...[]any) Sheet {
	return Sheet{Name: name, Rows: append(append(Boilerplate(14), MovistarHeader), rows...)}
}

// Movilnet builds a MOVILNET sheet: one banner row, the header, then rows.
func Movilnet(name string, rows ...[]any) Sheet {
	return Sheet{Name: name, Rows: append(append(Boilerplate(1), MovilnetHeader), rows...)}
}
