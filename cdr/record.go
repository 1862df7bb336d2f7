// Package cdr holds the canonical call-detail-record types shared by the
// normalizer, the analyses and the transports.
package cdr

// TransactionType classifies a record as voice or SMS and gives its direction
// relative to the subscriber the export was requested for.
type TransactionType string

const (
	VoiceIn  TransactionType = "VOICE_IN"
	VoiceOut TransactionType = "VOICE_OUT"
	SMSIn    TransactionType = "SMS_IN"
	SMSOut   TransactionType = "SMS_OUT"
	Unknown  TransactionType = "UNKNOWN"
)

// Record is one normalized communication event. Records are built once per
// source row and never modified afterwards.
type Record struct {
	Caller           string          `json:"abonado_a"`
	Callee           string          `json:"abonado_b"`
	TransactionType  TransactionType `json:"tipo_transaccion"`
	TransactionLabel string          `json:"etiqueta_transaccion,omitempty"`
	Date             string          `json:"fecha"`
	Time             string          `json:"hora"`
	DurationOrSeg    string          `json:"duracion"`
	AddressA         string          `json:"direccion_a"`
	AddressB         string          `json:"direccion_b"`
	CoordinatesA     string          `json:"coordenadas_a"`
	CoordinatesB     string          `json:"coordenadas_b"`
	OrientationA     string          `json:"orientacion_a"`
	OrientationB     string          `json:"orientacion_b"`
	CellA            string          `json:"celda_a,omitempty"`
	CellB            string          `json:"celda_b,omitempty"`
	IMEIA            string          `json:"imei_a"`
	IMEIB            string          `json:"imei_b"`
}

// BTSMatch is a record that names the target as callee and carries a usable
// callee-side address.
type BTSMatch struct {
	Record
}

// ContactFrequency is one row of the frequent-contacts ranking.
type ContactFrequency struct {
	Number       string `json:"numero"`
	Frequency    int    `json:"frecuencia"`
	FirstContact string `json:"primer_contacto"`
	LastContact  string `json:"ultimo_contacto"`
}

// Cell is a row of the cell-id directory used to fill in missing locations.
type Cell struct {
	ID        string
	Address   string
	Latitude  string
	Longitude string
	Azimuth   string
}

// Coordinates renders the cell position the same way derived coordinates
// are rendered, "lat, lon", or "" when either half is missing.
func (c Cell) Coordinates() string {
	return JoinCoordinates(c.Latitude, c.Longitude)
}
