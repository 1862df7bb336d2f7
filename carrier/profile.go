package carrier

// ID names one carrier export layout.
type ID string

const (
	Digitel  ID = "DIGITEL"
	Movistar ID = "MOVISTAR"
	Movilnet ID = "MOVILNET"
)

// Field is a source-side role a column can play: a canonical record field or
// an input to one of the derivations.
type Field string

const (
	Caller          Field = "caller"
	Callee          Field = "callee"
	Date            Field = "date"
	Time            Field = "time"
	DateTime        Field = "date_time"
	Duration        Field = "duration_or_seg"
	TransactionType Field = "transaction_type"
	CDRType         Field = "cdr_type"
	TransactionCode Field = "transaction_code"
	AddressA        Field = "address_a"
	AddressB        Field = "address_b"
	GeoLocationA    Field = "geo_location_a"
	GeoLocationB    Field = "geo_location_b"
	StateA          Field = "state_a"
	StateB          Field = "state_b"
	LatitudeA       Field = "latitude_a"
	LongitudeA      Field = "longitude_a"
	LatitudeB       Field = "latitude_b"
	LongitudeB      Field = "longitude_b"
	OrientationA    Field = "orientation_a"
	OrientationB    Field = "orientation_b"
	CellA           Field = "cell_a"
	CellB           Field = "cell_b"
	IMEIA           Field = "imei_a"
	IMEIB           Field = "imei_b"
)

// Plan selects the derived-field rules applied after column mapping.
type Plan string

const (
	// PlanGeoState builds addresses from location + state and coordinates
	// from latitude/longitude pairs.
	PlanGeoState Plan = "geo_state"
	// PlanLabelCell builds a transaction label from cdr type + code and the
	// A-side cell from the leading segment of the A-side address.
	PlanLabelCell Plan = "label_cell"
	// PlanDurationSMS infers voice/SMS from the duration cell and direction
	// from the queried number.
	PlanDurationSMS Plan = "duration_sms"
)

// Profile describes how one carrier lays out its CDR export.
type Profile struct {
	ID ID `yaml:"id"`
	// Sheets lists acceptable sheet names in preference order.
	Sheets []string `yaml:"sheets"`
	// RequireSheet turns a missing named sheet into an error instead of
	// falling back to the first sheet.
	RequireSheet bool `yaml:"require_sheet"`
	// HeaderSkip is the number of boilerplate rows above the column header.
	HeaderSkip int `yaml:"header_skip"`
	// Columns maps each field to its accepted source header names.
	Columns map[Field][]string `yaml:"columns"`
	Plan    Plan               `yaml:"plan"`
}

// Aliases returns the source header names accepted for f.
func (p Profile) Aliases(f Field) []string {
	return p.Columns[f]
}

// NeedsTarget reports whether derivation depends on the queried number.
func (p Profile) NeedsTarget() bool {
	return p.Plan == PlanDurationSMS
}
